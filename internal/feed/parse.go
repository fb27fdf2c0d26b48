package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	"github.com/pdiddy/sched-scorer/internal/logging"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

// errAllDay marks date-valued entries (badge pickup days, venue notices).
// They are skipped without a warning.
var errAllDay = errors.New("all-day event")

// Parse converts raw ICS bytes into events in feed order. Entries missing
// a UID or carrying unparseable times are skipped with a logged warning;
// all-day entries are skipped silently. A feed that yields no events at
// all wraps ErrParse.
func Parse(data []byte, log *logging.Logger) ([]types.Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var events []types.Event
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			if !errors.Is(err, errAllDay) {
				log.Warn("skipping malformed event", "error", err)
			}
			continue
		}
		events = append(events, ev)
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no usable events in feed", ErrParse)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (types.Event, error) {
	var ev types.Event

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("missing UID")
	}
	ev.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		ev.URL = p.Value
	}

	if isAllDay(ve) {
		return ev, errAllDay
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, fmt.Errorf("event %s: bad DTSTART: %w", ev.UID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return ev, fmt.Errorf("event %s: bad DTEND: %w", ev.UID, err)
	}
	ev.Start = start.UTC()
	ev.End = end.UTC()

	// CATEGORIES may appear multiple times, each with comma-separated values.
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				ev.Categories = append(ev.Categories, c)
			}
		}
	}

	return ev, nil
}

// isAllDay detects date-valued DTSTART entries, either by the VALUE=DATE
// parameter or by the bare YYYYMMDD form.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}
