// Package dayoff turns calendar absences into day-off entries.
package dayoff

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/work-mileage-tracker/internal/entry"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// Candidate is one calendar day proposed as a day off.
type Candidate struct {
	Date time.Time
	Note string
}

// Options controls an import run.
type Options struct {
	DryRun bool
	// IncludeWeekends also imports Saturdays and Sundays.
	IncludeWeekends bool
	Settings        model.AppSettings
	Logger          *zap.Logger
	// Report, when set, is called once per candidate with the outcome.
	Report func(c Candidate, outcome Outcome)
}

// Outcome describes what happened to a candidate.
type Outcome int

const (
	Imported Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Imported:
		return "imported"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result counts the outcomes of an import.
type Result struct {
	Imported int
	Skipped  int
	Errors   int
}

// Import saves a day-off entry for every candidate date that has no entry
// yet. Existing entries are never overwritten, so repeated imports are
// idempotent. Candidates are deduplicated by date; the first note wins.
func Import(ctx context.Context, repo storage.Repository, candidates []Candidate, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	report := opts.Report
	if report == nil {
		report = func(Candidate, Outcome) {}
	}

	var res Result
	for _, c := range Dedupe(candidates) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		date := timecalc.FormatDate(c.Date)

		if !opts.IncludeWeekends && isWeekend(c.Date) {
			log.Debug("weekend skipped", zap.String("date", date))
			res.Skipped++
			report(c, Skipped)
			continue
		}

		_, err := repo.Get(ctx, date)
		switch {
		case err == nil:
			log.Debug("day already has an entry", zap.String("date", date))
			res.Skipped++
			report(c, Skipped)
			continue
		case !errors.Is(err, storage.ErrNotFound):
			log.Warn("lookup failed", zap.String("date", date), zap.Error(err))
			res.Errors++
			report(c, Failed)
			continue
		}

		if !opts.DryRun {
			e := entry.DayOff(entry.NewID(), date, opts.Settings, c.Note)
			if err := repo.Save(ctx, e); err != nil {
				log.Warn("saving day off failed", zap.String("date", date), zap.Error(err))
				res.Errors++
				report(c, Failed)
				continue
			}
		}
		log.Debug("day off imported", zap.String("date", date), zap.Bool("dry_run", opts.DryRun))
		res.Imported++
		report(c, Imported)
	}
	return res, nil
}

// Dedupe normalizes candidate dates, drops repeats and orders by date.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[time.Time]bool, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Date = timecalc.Date(c.Date)
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b Candidate) int { return a.Date.Compare(b.Date) })
	return out
}

// ExpandDays returns one candidate per calendar day in [start, endExclusive).
// An end on or before start yields the start day alone.
func ExpandDays(start, endExclusive time.Time, note string) []Candidate {
	start, endExclusive = timecalc.Date(start), timecalc.Date(endExclusive)
	if !endExclusive.After(start) {
		return []Candidate{{Date: start, Note: note}}
	}
	var out []Candidate
	for d := start; d.Before(endExclusive); d = d.AddDate(0, 0, 1) {
		out = append(out, Candidate{Date: d, Note: note})
	}
	return out
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
