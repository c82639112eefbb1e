// Package ics reads iCalendar files and proposes day-off candidates.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Tiliavir/work-mileage-tracker/internal/dayoff"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// Options filters the events turned into candidates.
type Options struct {
	// AllDayOnly ignores events with a time of day.
	AllDayOnly bool
	// Match keeps only events whose summary contains it (case-insensitive).
	Match string
	// From and To bound candidate dates inclusively; zero means unbounded.
	From, To time.Time
}

// Parse reads a calendar and returns one candidate per day covered by a
// matching, non-cancelled event. All-day events cover [DTSTART, DTEND); timed
// events count for the day they start on.
func Parse(r io.Reader, opts Options) ([]dayoff.Candidate, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	match := strings.ToLower(strings.TrimSpace(opts.Match))
	var out []dayoff.Candidate
	for _, evt := range cal.Events() {
		if status := evt.GetProperty(ical.ComponentPropertyStatus); status != nil && strings.EqualFold(status.Value, "CANCELLED") {
			continue
		}
		summary := ""
		if p := evt.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = strings.TrimSpace(p.Value)
		}
		if match != "" && !strings.Contains(strings.ToLower(summary), match) {
			continue
		}

		start, allDay, err := dateProperty(evt, ical.ComponentPropertyDtStart)
		if err != nil {
			continue
		}
		if !allDay {
			if opts.AllDayOnly {
				continue
			}
			out = append(out, dayoff.Candidate{Date: timecalc.Date(start), Note: summary})
			continue
		}

		end, _, err := dateProperty(evt, ical.ComponentPropertyDtEnd)
		if err != nil {
			end = start.AddDate(0, 0, 1)
		}
		out = append(out, dayoff.ExpandDays(start, end, summary)...)
	}
	return inRange(out, opts.From, opts.To), nil
}

// dateProperty parses a DTSTART/DTEND value. All-day values are plain
// dates; timed values are converted using their TZID when present.
func dateProperty(evt *ical.VEvent, name ical.ComponentProperty) (time.Time, bool, error) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", name)
	}
	val := strings.TrimSpace(prop.Value)

	if t, err := time.Parse("20060102", val); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(time.Local), false, nil
	}
	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unparsable date %q", val)
	}
	loc := time.Local
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if tz, err := time.LoadLocation(v[0]); err == nil {
				loc = tz
			}
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), false, nil
}

func inRange(in []dayoff.Candidate, from, to time.Time) []dayoff.Candidate {
	if from.IsZero() && to.IsZero() {
		return in
	}
	out := in[:0]
	for _, c := range in {
		if !from.IsZero() && c.Date.Before(timecalc.Date(from)) {
			continue
		}
		if !to.IsZero() && c.Date.After(timecalc.Date(to)) {
			continue
		}
		out = append(out, c)
	}
	return out
}
