// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"sort"
	"strings"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// Categories that never identify scorable sessions, regardless of profile.
var excludedCategories = map[string]struct{}{
	"REGISTRATION": {},
	"BREAKS":       {},
	"BREAK":        {},
	"MEAL":         {},
	"LUNCH":        {},
}

// Summary substrings marking logistics entries that the feed publishes
// under regular session categories anyway. Matched case-insensitively.
var skipKeywords = []string{
	"registration",
	"breakfast",
	"lunch",
	"coffee break",
	"badge pick",
	"networking break",
	"shuttle",
}

// Normalize filters raw events down to scorable sessions. An event is
// dropped when any of its categories, upper-cased, is in the built-in
// exclusion set or in extraExclude, or when its summary contains a skip
// keyword. Among the survivors, duplicate UIDs keep the first occurrence
// in feed order. The result is sorted by (start, UID), which keeps the
// content hash stable for identical input.
func Normalize(events []types.Event, extraExclude []string) []types.Event {
	exclude := make(map[string]struct{}, len(excludedCategories)+len(extraExclude))
	for c := range excludedCategories {
		exclude[c] = struct{}{}
	}
	for _, c := range extraExclude {
		exclude[strings.ToUpper(c)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(events))
	out := make([]types.Event, 0, len(events))
	for _, ev := range events {
		if hasExcludedCategory(ev, exclude) || hasSkipKeyword(ev) {
			continue
		}
		if _, dup := seen[ev.UID]; dup {
			continue
		}
		seen[ev.UID] = struct{}{}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].UID < out[j].UID
	})
	return out
}

func hasExcludedCategory(ev types.Event, exclude map[string]struct{}) bool {
	for _, c := range ev.Categories {
		if _, hit := exclude[strings.ToUpper(c)]; hit {
			return true
		}
	}
	return false
}

func hasSkipKeyword(ev types.Event) bool {
	summary := strings.ToLower(ev.Summary)
	for _, kw := range skipKeywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}
