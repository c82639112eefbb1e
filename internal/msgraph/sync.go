package msgraph

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/work-mileage-tracker/internal/dayoff"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
)

// SyncOptions configures a sync run.
type SyncOptions struct {
	Timezone string
	DryRun   bool
	// IncludeTimed also treats out-of-office events with a time of day as
	// absences for the day they start on.
	IncludeTimed bool
	Settings     model.AppSettings
	Logger       *zap.Logger
	// Out receives one progress line per day; nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// IsAbsence reports whether event marks the user out of office.
func IsAbsence(event CalendarEvent, includeTimed bool) bool {
	if event.IsCancelled || !strings.EqualFold(event.ShowAs, "oof") {
		return false
	}
	if event.Start.DateTime == "" {
		return false
	}
	return event.IsAllDay || includeTimed
}

// note is the comment stored on the day-off entry. Private subjects are not copied.
func note(event CalendarEvent) string {
	if event.Sensitivity == "private" || strings.TrimSpace(event.Subject) == "" {
		return "Out of office"
	}
	return strings.TrimSpace(event.Subject)
}

// EventDays converts an absence event into one candidate per covered day.
// All-day events span [start, end); timed events count for their start day.
func EventDays(event CalendarEvent, timezone string) ([]dayoff.Candidate, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if !event.IsAllDay || event.End.DateTime == "" {
		return []dayoff.Candidate{{Date: start, Note: note(event)}}, nil
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	return dayoff.ExpandDays(start, end, note(event)), nil
}

// Candidates collects day-off candidates from all absence events. Events
// that cannot be mapped are counted and skipped.
func Candidates(events []CalendarEvent, opts SyncOptions) ([]dayoff.Candidate, int) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var (
		out    []dayoff.Candidate
		errors int
	)
	for _, event := range events {
		if !IsAbsence(event, opts.IncludeTimed) {
			continue
		}
		days, err := EventDays(event, opts.Timezone)
		if err != nil {
			log.Warn("cannot map event", zap.String("id", event.ID), zap.Error(err))
			errors++
			continue
		}
		out = append(out, days...)
	}
	return out, errors
}

// SyncEvents imports absence events as day-off entries. Days that already
// have an entry are left untouched, so re-running a sync is safe.
func SyncEvents(ctx context.Context, repo storage.Repository, events []CalendarEvent, opts SyncOptions) (dayoff.Result, error) {
	candidates, mapErrors := Candidates(events, opts)

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	res, err := dayoff.Import(ctx, repo, candidates, dayoff.Options{
		DryRun:   opts.DryRun,
		Settings: opts.Settings,
		Logger:   opts.Logger,
		Report: func(c dayoff.Candidate, o dayoff.Outcome) {
			date := c.Date.Format("2006-01-02")
			switch o {
			case dayoff.Imported:
				fmt.Fprintf(out, "  ✓ Imported: %s %s\n", date, c.Note)
			case dayoff.Skipped:
				fmt.Fprintf(out, "  – Skipped:  %s (weekend or already logged)\n", date)
			default:
				fmt.Fprintf(out, "  ! Error:    %s\n", date)
			}
		},
	})
	res.Errors += mapErrors
	return res, err
}
