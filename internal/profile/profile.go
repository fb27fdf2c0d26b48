// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile loads attendee profiles from YAML and validates them
// before the pipeline spends any network budget. See docs/ARCHITECTURE
// § Profiles.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// ErrInvalid marks a profile that parsed but failed validation. Callers
// treat it as fatal; it is always raised before the first network call.
var ErrInvalid = errors.New("invalid profile")

// Load reads a YAML profile from path, applies defaults, and validates
// required fields. Validation failures wrap ErrInvalid.
func Load(path string) (types.Profile, error) {
	var p types.Profile

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
	}
	if err := validate(&p); err != nil {
		return p, err
	}
	return p, nil
}

func validate(p *types.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing required field %q", ErrInvalid, "name")
	}
	if strings.TrimSpace(p.Role) == "" {
		return fmt.Errorf("%w: missing required field %q", ErrInvalid, "role")
	}

	switch lvl := types.ExperienceLevel(strings.ToLower(string(p.ExperienceLevel))); lvl {
	case "":
		p.ExperienceLevel = types.LevelIntermediate
	case types.LevelBeginner, types.LevelIntermediate, types.LevelAdvanced, types.LevelExpert:
		p.ExperienceLevel = lvl
	default:
		return fmt.Errorf("%w: unknown experience_level %q", ErrInvalid, p.ExperienceLevel)
	}
	return nil
}
