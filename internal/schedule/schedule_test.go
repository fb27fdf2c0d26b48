package schedule

import (
	"testing"
	"time"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// sev builds a scored event on the given March 2026 day at hh:mm local
// conference time.
func sev(uid string, day, hour, minute, durMin, total int) types.ScoredEvent {
	start := time.Date(2026, 3, day, hour, minute, 0, 0, types.CET)
	return types.ScoredEvent{
		Event: types.Event{
			UID:     uid,
			Summary: "Session " + uid,
			Start:   start,
			End:     start.Add(time.Duration(durMin) * time.Minute),
		},
		Score: types.Score{RoleRelevance: total, Scored: true},
	}
}

func unscored(uid string, day, hour, minute, durMin int) types.ScoredEvent {
	se := sev(uid, day, hour, minute, durMin, 0)
	se.Score = types.Score{Reasoning: "Not scored by AI"}
	return se
}

// --- FilterMinScore ---

func TestFilterMinScore(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("high", 24, 9, 0, 60, 90),
		sev("boundary", 24, 10, 0, 60, 50),
		sev("low", 24, 11, 0, 60, 49),
		unscored("none", 24, 12, 0, 60),
	}

	t.Run("zero keeps everything", func(t *testing.T) {
		got := FilterMinScore(scored, 0)
		if len(got) != 4 {
			t.Errorf("kept %d events, want 4", len(got))
		}
	})

	t.Run("positive min drops low and unscored", func(t *testing.T) {
		got := FilterMinScore(scored, 50)
		if len(got) != 2 {
			t.Fatalf("kept %d events, want 2", len(got))
		}
		if got[0].Event.UID != "high" || got[1].Event.UID != "boundary" {
			t.Errorf("kept %s, %s", got[0].Event.UID, got[1].Event.UID)
		}
	})
}

// --- Annotate ---

func TestAnnotateSymmetric(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("a", 24, 9, 0, 60, 80),  // 09:00-10:00
		sev("b", 24, 9, 30, 60, 70), // 09:30-10:30, overlaps a
		sev("c", 25, 9, 0, 60, 60),  // next day, same clock time
	}

	got := Annotate(scored)

	byUID := make(map[string][]string)
	for _, se := range got {
		byUID[se.Event.UID] = se.ConflictUIDs
	}

	if len(byUID["a"]) != 1 || byUID["a"][0] != "b" {
		t.Errorf("a conflicts = %v, want [b]", byUID["a"])
	}
	if len(byUID["b"]) != 1 || byUID["b"][0] != "a" {
		t.Errorf("b conflicts = %v, want [a]", byUID["b"])
	}
	if len(byUID["c"]) != 0 {
		t.Errorf("c conflicts = %v, want none across days", byUID["c"])
	}
}

func TestAnnotateBackToBack(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("a", 24, 9, 0, 60, 80),  // ends 10:00
		sev("b", 24, 10, 0, 60, 70), // starts 10:00 sharp
	}

	got := Annotate(scored)
	for _, se := range got {
		if len(se.ConflictUIDs) != 0 {
			t.Errorf("%s conflicts = %v, want none for touching intervals", se.Event.UID, se.ConflictUIDs)
		}
	}
}

func TestAnnotateSortsConflictUIDs(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("zed", 24, 9, 0, 120, 50),
		sev("mid", 24, 9, 30, 60, 50),
		sev("abc", 24, 10, 0, 30, 50),
	}

	got := Annotate(scored)
	for _, se := range got {
		if se.Event.UID == "zed" {
			if len(se.ConflictUIDs) != 2 || se.ConflictUIDs[0] != "abc" || se.ConflictUIDs[1] != "mid" {
				t.Errorf("zed conflicts = %v, want [abc mid]", se.ConflictUIDs)
			}
		}
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("a", 24, 9, 0, 60, 80),
		sev("b", 24, 9, 30, 60, 70),
	}

	Annotate(scored)
	if scored[0].ConflictUIDs != nil {
		t.Error("input slice was annotated in place")
	}
}

// --- GroupByDay ---

func TestGroupByDay(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("w2", 25, 9, 0, 60, 40),
		sev("t1", 24, 9, 0, 60, 30),
		sev("t2", 24, 9, 0, 60, 90), // same start as t1, higher total
		sev("t3", 24, 8, 0, 60, 10),
	}

	groups := GroupByDay(scored)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	if groups[0].Key != "2026-03-24" || groups[1].Key != "2026-03-25" {
		t.Errorf("day keys = %s, %s", groups[0].Key, groups[1].Key)
	}
	if groups[0].Display != "Tuesday, March 24" {
		t.Errorf("Display = %q, want %q", groups[0].Display, "Tuesday, March 24")
	}

	// Within a day: start ascending, then total descending on ties.
	day1 := groups[0].Events
	want := []string{"t3", "t2", "t1"}
	for i, uid := range want {
		if day1[i].Event.UID != uid {
			t.Errorf("day1[%d] = %s, want %s", i, day1[i].Event.UID, uid)
		}
	}
}

// --- BuildTimeSlots ---

func TestBuildTimeSlots(t *testing.T) {
	scored := []types.ScoredEvent{
		sev("a", 24, 9, 0, 60, 40),  // 09:00-10:00
		sev("b", 24, 9, 45, 75, 90), // 09:45-11:00, overlaps a
		sev("c", 24, 11, 0, 60, 50), // 11:00-12:00, back-to-back
	}

	slots := BuildTimeSlots(scored)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}

	first := slots[0]
	if !first.Start.Equal(scored[0].Event.Start) {
		t.Errorf("first slot starts %v", first.Start)
	}
	if !first.End.Equal(scored[1].Event.End) {
		t.Errorf("first slot ends %v, want extended to 11:00", first.End)
	}
	if len(first.Events) != 2 {
		t.Fatalf("first slot has %d events, want 2", len(first.Events))
	}
	// Slot events ordered by total descending.
	if first.Events[0].Event.UID != "b" || first.Events[1].Event.UID != "a" {
		t.Errorf("first slot order = %s, %s", first.Events[0].Event.UID, first.Events[1].Event.UID)
	}

	second := slots[1]
	if len(second.Events) != 1 || second.Events[0].Event.UID != "c" {
		t.Errorf("second slot = %+v", second.Events)
	}
}

func TestBuildTimeSlotsChainedOverlap(t *testing.T) {
	// b extends the slot past a's end; c overlaps only the extension.
	scored := []types.ScoredEvent{
		sev("a", 24, 9, 0, 60, 10),   // 09:00-10:00
		sev("b", 24, 9, 30, 90, 20),  // 09:30-11:00
		sev("c", 24, 10, 30, 30, 30), // 10:30-11:00
	}

	slots := BuildTimeSlots(scored)
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1 merged slot", len(slots))
	}
	if len(slots[0].Events) != 3 {
		t.Errorf("merged slot has %d events, want 3", len(slots[0].Events))
	}
}

func TestBuildTimeSlotsEmpty(t *testing.T) {
	if slots := BuildTimeSlots(nil); slots != nil {
		t.Errorf("BuildTimeSlots(nil) = %v, want nil", slots)
	}
}
