// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ExperienceLevel grades the attendee's seniority for prompt calibration.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
	LevelExpert       ExperienceLevel = "expert"
)

// Interests splits the attendee's topics by weight: primary interests map
// to the top of the topic-alignment band, secondary to the middle.
type Interests struct {
	Primary   []string `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// Preferences are boolean scoring nudges passed to the AI rubric.
type Preferences struct {
	// PreferHandsOn boosts workshops and live demos.
	PreferHandsOn bool `json:"prefer_hands_on,omitempty" yaml:"prefer_hands_on,omitempty"`

	// PreferDeepDives boosts deep technical content over introductory talks.
	PreferDeepDives bool `json:"prefer_deep_dives,omitempty" yaml:"prefer_deep_dives,omitempty"`

	// AvoidVendorPitches penalizes vendor-heavy marketing sessions.
	AvoidVendorPitches bool `json:"avoid_vendor_pitches,omitempty" yaml:"avoid_vendor_pitches,omitempty"`
}

// Profile describes the attendee the schedule is scored against. Loaded
// from YAML, immutable for the duration of a run. Name and Role are
// required; everything else defaults to empty.
type Profile struct {
	// Name is the attendee's display name. Also namespaces the score
	// cache, see CacheKey.
	Name string `json:"name" yaml:"name"`

	// Role is the attendee's job function (e.g. "Platform Engineer").
	Role string `json:"role" yaml:"role"`

	// Organization is the attendee's employer, possibly empty.
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// ExperienceLevel defaults to intermediate when unset.
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty" yaml:"experience_level,omitempty"`

	// Interests lists primary and secondary topics.
	Interests Interests `json:"interests,omitempty" yaml:"interests,omitempty"`

	// Priorities are free-text goals for the conference, in rank order.
	Priorities []string `json:"priorities,omitempty" yaml:"priorities,omitempty"`

	// ExcludeCategories adds feed categories to the built-in exclusion
	// set during normalization (matched case-insensitively).
	ExcludeCategories []string `json:"exclude_categories,omitempty" yaml:"exclude_categories,omitempty"`

	// Preferences tune the scoring rubric.
	Preferences Preferences `json:"preferences,omitempty" yaml:"preferences,omitempty"`

	// Context is free text appended to the attendee block of the prompt.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// CacheKey returns the profile's score-cache namespace: the lowercased
// name with spaces replaced by underscores.
func (p Profile) CacheKey() string {
	return strings.ReplaceAll(strings.ToLower(p.Name), " ", "_")
}
