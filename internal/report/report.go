// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders scored events into a single self-contained HTML
// document: inline CSS and JS, no external resources, viewable offline.
// Filtering by score, text, category, and day happens client-side.
// See docs/ARCHITECTURE § Report.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/sched-scorer/internal/schedule"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

//go:embed template.html
var templateHTML string

var reportTmpl = template.Must(template.New("report").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(templateHTML))

// DefaultDir is where reports land when no --output is given.
const DefaultDir = "output"

// DefaultPath returns the report location for a profile:
// output/schedule_{cacheKey}.html.
func DefaultPath(p types.Profile) string {
	return filepath.Join(DefaultDir, fmt.Sprintf("schedule_%s.html", p.CacheKey()))
}

// Meta carries run provenance for the report footer.
type Meta struct {
	// Provider is the display form of the backend, e.g. "claude (claude-opus-4-6)".
	Provider string

	// RunID identifies this run in logs and the footer.
	RunID string

	// GeneratedAt is the render timestamp.
	GeneratedAt time.Time

	// MinScore is the floor the event list was filtered with, shown in
	// the header. Write fills it from the report config.
	MinScore int
}

// day is one conference day as the template consumes it.
type day struct {
	Key        string
	Display    string
	EventCount int
	Slots      []types.TimeSlot
}

// reportData is the template input.
type reportData struct {
	Profile     types.Profile
	Days        []day
	Categories  []string
	TotalEvents int
	MustAttend  int
	Recommended int
	AvgScore    int
	MinScore    int
	Provider    string
	RunID       string
	GeneratedAt string
}

// Write renders the report for scored events and writes it to
// cfg.OutputPath, or DefaultPath(prof) when empty, creating parent
// directories as needed. The cfg.MinScore floor and conflict annotation
// are applied here, after all scoring and caching, so changing the
// floor never influences what gets scored. Returns the path written.
func Write(cfg types.ReportConfig, scored []types.ScoredEvent, prof types.Profile, meta Meta) (string, error) {
	path := cfg.OutputPath
	if path == "" {
		path = DefaultPath(prof)
	}
	meta.MinScore = cfg.MinScore
	included := schedule.Annotate(schedule.FilterMinScore(scored, cfg.MinScore))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	if err := Render(f, included, prof, meta); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing report file: %w", err)
	}
	return path, nil
}

// Render writes the report HTML for an already filtered and annotated
// event list to w.
func Render(w io.Writer, scored []types.ScoredEvent, prof types.Profile, meta Meta) error {
	data := buildData(scored, prof, meta)
	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func buildData(scored []types.ScoredEvent, prof types.Profile, meta Meta) reportData {
	data := reportData{
		Profile:     prof,
		TotalEvents: len(scored),
		MinScore:    meta.MinScore,
		Provider:    meta.Provider,
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt.In(types.CET).Format("2006-01-02 15:04 MST"),
	}

	total := 0
	catSet := make(map[string]struct{})
	for _, se := range scored {
		t := se.Score.Total()
		total += t
		if t >= types.MustAttendMin {
			data.MustAttend++
		}
		if t >= types.RecommendedMin {
			data.Recommended++
		}
		for _, c := range se.Event.Categories {
			catSet[c] = struct{}{}
		}
	}
	if len(scored) > 0 {
		data.AvgScore = total / len(scored)
	}

	for c := range catSet {
		data.Categories = append(data.Categories, c)
	}
	sort.Strings(data.Categories)

	for _, g := range schedule.GroupByDay(scored) {
		data.Days = append(data.Days, day{
			Key:        g.Key,
			Display:    g.Display,
			EventCount: len(g.Events),
			Slots:      schedule.BuildTimeSlots(g.Events),
		})
	}
	return data
}
