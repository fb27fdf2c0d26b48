// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sub-score ranges of the scoring rubric. Parsed AI output is clamped to
// these bounds, so a Score built from a backend reply is always in range.
const (
	MaxRoleRelevance  = 35
	MaxTopicAlignment = 35
	MaxStrategicValue = 30
)

// Tier thresholds on the total score.
const (
	MustAttendMin  = 85
	RecommendedMin = 70
	ConsiderMin    = 50
	LowMin         = 30
)

// Score holds the AI relevance assessment for one event. The total is
// always the sum of the three components and is recomputed on demand,
// never stored as an independent value.
type Score struct {
	// RoleRelevance rates fit with the attendee's role (0-35).
	RoleRelevance int `json:"role_relevance" yaml:"role_relevance"`

	// TopicAlignment rates fit with stated interests and priorities (0-35).
	TopicAlignment int `json:"topic_alignment" yaml:"topic_alignment"`

	// StrategicValue rates unique, hard-to-get-elsewhere value (0-30).
	StrategicValue int `json:"strategic_value" yaml:"strategic_value"`

	// Reasoning is the model's 1-2 sentence explanation.
	Reasoning string `json:"reasoning" yaml:"reasoning"`

	// Scored distinguishes a genuine assessment from a backend failure:
	// an unscored event has Scored == false and a zero total, which is
	// not the same thing as the AI judging an event worthless.
	Scored bool `json:"scored" yaml:"scored"`
}

// Total returns the combined score in [0,100].
func (s Score) Total() int {
	return s.RoleRelevance + s.TopicAlignment + s.StrategicValue
}

// Tier buckets a total score for display.
type Tier string

const (
	TierMustAttend  Tier = "must-attend"
	TierRecommended Tier = "recommended"
	TierConsider    Tier = "consider"
	TierLow         Tier = "low"
	TierSkip        Tier = "skip"
)

// ScoredEvent pairs an event with its score and conflict annotations.
type ScoredEvent struct {
	Event Event `json:"event" yaml:"event"`
	Score Score `json:"score" yaml:"score"`

	// ConflictUIDs lists the UIDs of same-day events whose time windows
	// overlap this one, sorted. Derived each run, never persisted.
	ConflictUIDs []string `json:"conflict_uids,omitempty" yaml:"conflict_uids,omitempty"`
}

// Tier returns the display bucket for the event's total score.
func (se ScoredEvent) Tier() Tier {
	total := se.Score.Total()
	switch {
	case total >= MustAttendMin:
		return TierMustAttend
	case total >= RecommendedMin:
		return TierRecommended
	case total >= ConsiderMin:
		return TierConsider
	case total >= LowMin:
		return TierLow
	}
	return TierSkip
}

// TierColor returns the hex color used for the event's score badge.
func (se ScoredEvent) TierColor() string {
	total := se.Score.Total()
	switch {
	case total >= MustAttendMin:
		return "#16a34a" // green
	case total >= RecommendedMin:
		return "#2563eb" // blue
	case total >= ConsiderMin:
		return "#d97706" // amber
	case total >= LowMin:
		return "#6b7280" // gray
	}
	return "#d1d5db" // light gray
}

// HasConflicts reports whether the event overlaps any other included event.
func (se ScoredEvent) HasConflicts() bool {
	return len(se.ConflictUIDs) > 0
}
