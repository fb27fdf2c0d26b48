// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// ContentHash fingerprints the normalized event set: first 12 hex chars
// of SHA-256 over one uid|summary|description line per event, in order.
// Any edit to any event invalidates the whole entry.
func ContentHash(events []types.Event) string {
	h := sha256.New()
	for _, ev := range events {
		fmt.Fprintf(h, "%s|%s|%s\n", ev.UID, ev.Summary, ev.Description)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Cache persists scored events per (profile, content hash) pair so an
// unchanged feed re-runs without any backend calls.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created on
// first Store.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// cacheRecord is the serialized form of one scored event.
type cacheRecord struct {
	UID            string `json:"uid"`
	Score          int    `json:"score"`
	RoleRelevance  int    `json:"role_relevance"`
	TopicAlignment int    `json:"topic_alignment"`
	StrategicValue int    `json:"strategic_value"`
	Reasoning      string `json:"reasoning"`
	Scored         bool   `json:"scored"`
}

// Path returns the cache file for a profile key and content hash.
func (c *Cache) Path(profileKey, hash string) string {
	return filepath.Join(c.dir, fmt.Sprintf("scores_%s_%s.json", profileKey, hash))
}

// Lookup returns the cached scores when the file exists, parses, and
// covers every event. Corrupt or partial files are misses, not errors.
func (c *Cache) Lookup(profileKey, hash string, events []types.Event) ([]types.ScoredEvent, bool) {
	data, err := os.ReadFile(c.Path(profileKey, hash))
	if err != nil {
		return nil, false
	}

	var records []cacheRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}

	byUID := make(map[string]types.Event, len(events))
	for _, ev := range events {
		byUID[ev.UID] = ev
	}

	scored := make([]types.ScoredEvent, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, rec := range records {
		ev, ok := byUID[rec.UID]
		if !ok || seen[rec.UID] {
			continue
		}
		seen[rec.UID] = true
		scored = append(scored, types.ScoredEvent{
			Event: ev,
			Score: types.Score{
				RoleRelevance:  rec.RoleRelevance,
				TopicAlignment: rec.TopicAlignment,
				StrategicValue: rec.StrategicValue,
				Reasoning:      rec.Reasoning,
				Scored:         rec.Scored,
			},
		})
	}

	// A hit must cover the full event set.
	if len(scored) != len(events) {
		return nil, false
	}
	return scored, true
}

// Store writes scored events atomically (temp file + rename) so a
// crashed run never leaves a half-written cache entry behind.
func (c *Cache) Store(profileKey, hash string, scored []types.ScoredEvent) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	records := make([]cacheRecord, len(scored))
	for i, se := range scored {
		records[i] = cacheRecord{
			UID:            se.Event.UID,
			Score:          se.Score.Total(),
			RoleRelevance:  se.Score.RoleRelevance,
			TopicAlignment: se.Score.TopicAlignment,
			StrategicValue: se.Score.StrategicValue,
			Reasoning:      se.Score.Reasoning,
			Scored:         se.Score.Scored,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scores: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".scores-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.Path(profileKey, hash)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
