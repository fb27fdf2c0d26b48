// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sched-scorer pipeline:
// calendar events, relevance scores, attendee profiles, and stage configs.
// See docs/ARCHITECTURE § Data Structures.
package types

import "time"

// CET is the conference display timezone (Europe/Amsterdam). Day grouping
// and all rendered time ranges use it; raw event timestamps stay in UTC.
// Falls back to UTC when tzdata is unavailable.
var CET = loadCET()

func loadCET() *time.Location {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Event is one normalized calendar entry from the conference feed.
// UID comes from the feed and is stable across runs; it is never
// regenerated locally. Events are immutable after normalization.
type Event struct {
	// UID is the feed-assigned unique identifier for the session.
	UID string `json:"uid" yaml:"uid"`

	// Summary is the session title.
	Summary string `json:"summary" yaml:"summary"`

	// Description is the full session abstract, possibly empty.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Start and End are the session bounds in UTC.
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`

	// Location is the room or venue label, possibly empty.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Categories lists the feed's track labels for the session.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// URL links to the session page, possibly empty.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Day returns the event's date key (YYYY-MM-DD) in the display timezone.
func (e Event) Day() string {
	return e.Start.In(CET).Format("2006-01-02")
}

// DayDisplay returns the event's date formatted for headings,
// e.g. "Tuesday, March 24".
func (e Event) DayDisplay() string {
	return e.Start.In(CET).Format("Monday, January 02")
}

// TimeRange returns "HH:MM - HH:MM" in the display timezone.
func (e Event) TimeRange() string {
	return e.Start.In(CET).Format("15:04") + " - " + e.End.In(CET).Format("15:04")
}

// DurationMinutes returns the event length in whole minutes.
func (e Event) DurationMinutes() int {
	return int(e.End.Sub(e.Start).Minutes())
}

// ConflictsWith reports whether two events overlap in time. The test is
// open-ended: back-to-back sessions (end == start) do not conflict.
func (e Event) ConflictsWith(other Event) bool {
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// TimeSlot is a merged run of overlapping events within one day. Slots
// partition a day: an event belongs to exactly one slot, and events that
// conflict always share a slot.
type TimeSlot struct {
	Start  time.Time     `json:"start" yaml:"start"`
	End    time.Time     `json:"end" yaml:"end"`
	Events []ScoredEvent `json:"events" yaml:"events"`
}

// TimeRange returns the slot bounds as "HH:MM - HH:MM" in the display timezone.
func (ts TimeSlot) TimeRange() string {
	return ts.Start.In(CET).Format("15:04") + " - " + ts.End.In(CET).Format("15:04")
}

// HasConflicts reports whether any two events in the slot overlap.
func (ts TimeSlot) HasConflicts() bool {
	for i, a := range ts.Events {
		for _, b := range ts.Events[i+1:] {
			if a.Event.ConflictsWith(b.Event) {
				return true
			}
		}
	}
	return false
}
