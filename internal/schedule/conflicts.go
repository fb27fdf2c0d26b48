// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule derives presentation structure from scored events:
// minimum-score filtering, same-day conflict annotation, day grouping,
// and merged timeslots. See docs/ARCHITECTURE § Schedule.
package schedule

import (
	"sort"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// FilterMinScore drops events whose total falls below min. A min of
// zero or less keeps everything, unscored events included; a positive
// min drops unscored events along with genuine low scorers.
func FilterMinScore(scored []types.ScoredEvent, min int) []types.ScoredEvent {
	if min <= 0 {
		return scored
	}
	out := make([]types.ScoredEvent, 0, len(scored))
	for _, se := range scored {
		if se.Score.Total() >= min {
			out = append(out, se)
		}
	}
	return out
}

// Annotate fills each event's ConflictUIDs with the UIDs of overlapping
// same-day events, sorted. Symmetric: if A lists B, B lists A. Events
// on different days never conflict, whatever their clock times.
func Annotate(scored []types.ScoredEvent) []types.ScoredEvent {
	out := make([]types.ScoredEvent, len(scored))
	copy(out, scored)

	byDay := make(map[string][]int)
	for i := range out {
		out[i].ConflictUIDs = nil
		byDay[out[i].Event.Day()] = append(byDay[out[i].Event.Day()], i)
	}

	for _, idxs := range byDay {
		for a := 0; a < len(idxs); a++ {
			for b := a + 1; b < len(idxs); b++ {
				ia, ib := idxs[a], idxs[b]
				if out[ia].Event.ConflictsWith(out[ib].Event) {
					out[ia].ConflictUIDs = append(out[ia].ConflictUIDs, out[ib].Event.UID)
					out[ib].ConflictUIDs = append(out[ib].ConflictUIDs, out[ia].Event.UID)
				}
			}
		}
	}

	for i := range out {
		sort.Strings(out[i].ConflictUIDs)
	}
	return out
}

// DayGroup is one conference day with its events.
type DayGroup struct {
	Key     string // sortable date, 2006-01-02 in the display timezone
	Display string // e.g. "Tuesday, March 24"
	Events  []types.ScoredEvent
}

// GroupByDay buckets events by display-timezone day, days ascending.
// Within a day events are ordered by start time, then total descending.
func GroupByDay(scored []types.ScoredEvent) []DayGroup {
	byDay := make(map[string][]types.ScoredEvent)
	for _, se := range scored {
		day := se.Event.Day()
		byDay[day] = append(byDay[day], se)
	}

	keys := make([]string, 0, len(byDay))
	for day := range byDay {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	groups := make([]DayGroup, 0, len(keys))
	for _, day := range keys {
		events := byDay[day]
		sort.SliceStable(events, func(i, j int) bool {
			if !events[i].Event.Start.Equal(events[j].Event.Start) {
				return events[i].Event.Start.Before(events[j].Event.Start)
			}
			return events[i].Score.Total() > events[j].Score.Total()
		})
		groups = append(groups, DayGroup{
			Key:     day,
			Display: events[0].Event.DayDisplay(),
			Events:  events,
		})
	}
	return groups
}

// BuildTimeSlots merges overlapping events into timeslots. An event
// starting strictly before the current slot's end extends it;
// back-to-back events open a new slot. Events within a slot are
// ordered by total descending.
func BuildTimeSlots(scored []types.ScoredEvent) []types.TimeSlot {
	if len(scored) == 0 {
		return nil
	}

	events := make([]types.ScoredEvent, len(scored))
	copy(events, scored)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Event.Start.Before(events[j].Event.Start)
	})

	var slots []types.TimeSlot
	cur := types.TimeSlot{
		Start:  events[0].Event.Start,
		End:    events[0].Event.End,
		Events: []types.ScoredEvent{events[0]},
	}

	for _, se := range events[1:] {
		if se.Event.Start.Before(cur.End) {
			if se.Event.End.After(cur.End) {
				cur.End = se.Event.End
			}
			cur.Events = append(cur.Events, se)
			continue
		}
		slots = append(slots, finishSlot(cur))
		cur = types.TimeSlot{
			Start:  se.Event.Start,
			End:    se.Event.End,
			Events: []types.ScoredEvent{se},
		}
	}
	return append(slots, finishSlot(cur))
}

// finishSlot orders a slot's events by total descending.
func finishSlot(slot types.TimeSlot) types.TimeSlot {
	sort.SliceStable(slot.Events, func(i, j int) bool {
		return slot.Events[i].Score.Total() > slot.Events[j].Score.Total()
	})
	return slot
}
