package provider

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// jsonArrayRe grabs the outermost JSON array from a reply that wrapped
// it in prose or markdown fences despite instructions.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// scoreItem mirrors one element of the model's JSON array reply.
type scoreItem struct {
	UID            string  `json:"uid"`
	Score          float64 `json:"score"`
	RoleRelevance  float64 `json:"role_relevance"`
	TopicAlignment float64 `json:"topic_alignment"`
	StrategicValue float64 `json:"strategic_value"`
	Reasoning      string  `json:"reasoning"`
}

// parseScores maps the model's reply back onto events. Sub-scores are
// clamped to their rubric ranges and the total is recomputed from them,
// so a reply whose "score" disagrees with its components stays
// internally consistent. Unknown and duplicate UIDs are dropped; events
// absent from the reply come back unscored. A reply with no usable
// entries at all wraps ErrBadResponse so the caller can retry the batch.
func parseScores(raw string, events []types.Event) ([]types.ScoredEvent, error) {
	items, err := decodeItems(raw)
	if err != nil {
		return nil, err
	}

	byUID := make(map[string]types.Event, len(events))
	for _, ev := range events {
		byUID[ev.UID] = ev
	}

	scored := make([]types.ScoredEvent, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, item := range items {
		ev, ok := byUID[item.UID]
		if !ok || seen[item.UID] {
			continue
		}
		seen[item.UID] = true

		scored = append(scored, types.ScoredEvent{
			Event: ev,
			Score: types.Score{
				RoleRelevance:  clamp(item.RoleRelevance, 0, types.MaxRoleRelevance),
				TopicAlignment: clamp(item.TopicAlignment, 0, types.MaxTopicAlignment),
				StrategicValue: clamp(item.StrategicValue, 0, types.MaxStrategicValue),
				Reasoning:      item.Reasoning,
				Scored:         true,
			},
		})
	}

	for _, ev := range events {
		if !seen[ev.UID] {
			scored = append(scored, types.ScoredEvent{
				Event: ev,
				Score: types.Score{Reasoning: "Not scored by AI"},
			})
		}
	}
	return scored, nil
}

// decodeItems extracts the score array from the raw reply: direct JSON
// first, then the regex fallback. Elements that fail to decode are
// dropped individually so one malformed entry does not poison the batch.
func decodeItems(raw string) ([]scoreItem, error) {
	arr, ok := decodeArray([]byte(raw))
	if !ok {
		if m := jsonArrayRe.FindString(raw); m != "" {
			arr, ok = decodeArray([]byte(m))
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: no JSON score array in model output", ErrBadResponse)
	}

	items := make([]scoreItem, 0, len(arr))
	for _, el := range arr {
		var item scoreItem
		if err := json.Unmarshal(el, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable score entries in model output", ErrBadResponse)
	}
	return items, nil
}

func decodeArray(data []byte) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

// clamp truncates v to an int and bounds it to [lo, hi].
func clamp(v float64, lo, hi int) int {
	n := int(v)
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
