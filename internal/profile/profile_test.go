// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadFullProfile(t *testing.T) {
	path := writeProfile(t, `
name: Jordan Reyes
role: Platform Engineer
organization: Acme Corp
experience_level: advanced
interests:
  primary:
    - kubernetes
    - platform engineering
  secondary:
    - security
priorities:
  - evaluate service mesh options
exclude_categories:
  - Sponsor Demo
preferences:
  prefer_hands_on: true
  prefer_deep_dives: true
  avoid_vendor_pitches: true
context: Migrating 200 services to a shared platform this year.
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Name != "Jordan Reyes" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Role != "Platform Engineer" {
		t.Errorf("Role = %q", p.Role)
	}
	if p.Organization != "Acme Corp" {
		t.Errorf("Organization = %q", p.Organization)
	}
	if p.ExperienceLevel != types.LevelAdvanced {
		t.Errorf("ExperienceLevel = %q", p.ExperienceLevel)
	}
	if len(p.Interests.Primary) != 2 || p.Interests.Primary[0] != "kubernetes" {
		t.Errorf("Interests.Primary = %v", p.Interests.Primary)
	}
	if len(p.Interests.Secondary) != 1 || p.Interests.Secondary[0] != "security" {
		t.Errorf("Interests.Secondary = %v", p.Interests.Secondary)
	}
	if len(p.Priorities) != 1 {
		t.Errorf("Priorities = %v", p.Priorities)
	}
	if len(p.ExcludeCategories) != 1 || p.ExcludeCategories[0] != "Sponsor Demo" {
		t.Errorf("ExcludeCategories = %v", p.ExcludeCategories)
	}
	if !p.Preferences.PreferHandsOn || !p.Preferences.PreferDeepDives || !p.Preferences.AvoidVendorPitches {
		t.Errorf("Preferences = %+v", p.Preferences)
	}
	if !strings.Contains(p.Context, "200 services") {
		t.Errorf("Context = %q", p.Context)
	}
}

func TestLoadDefaultsExperienceLevel(t *testing.T) {
	path := writeProfile(t, "name: Sam\nrole: SRE\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ExperienceLevel != types.LevelIntermediate {
		t.Errorf("ExperienceLevel = %q, want %q", p.ExperienceLevel, types.LevelIntermediate)
	}
}

func TestLoadNormalizesExperienceLevelCase(t *testing.T) {
	path := writeProfile(t, "name: Sam\nrole: SRE\nexperience_level: Expert\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ExperienceLevel != types.LevelExpert {
		t.Errorf("ExperienceLevel = %q, want %q", p.ExperienceLevel, types.LevelExpert)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "role: SRE\n"},
		{"missing role", "name: Sam\n"},
		{"whitespace name", "name: \"   \"\nrole: SRE\n"},
		{"unknown experience level", "name: Sam\nrole: SRE\nexperience_level: wizard\n"},
		{"malformed yaml", "name: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProfile(t, tt.yaml)
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrInvalid) {
		t.Errorf("missing file reported as ErrInvalid: %v", err)
	}
}
