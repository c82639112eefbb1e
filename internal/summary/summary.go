// Package summary folds day entries into weekly and monthly summaries.
//
// Both folds are pure: they read the entry slice and settings, never modify
// them, and keep no state between calls. Hours come from the stored
// DayEntry.HoursWorked and are never recomputed from the clock times.
package summary

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/work-mileage-tracker/internal/holiday"
	"github.com/Tiliavir/work-mileage-tracker/internal/mileage"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// dated pairs an entry with its parsed calendar day.
type dated struct {
	day   time.Time
	entry model.DayEntry
}

// within returns the entries whose date lies in [from, to], ordered by date.
// Entries with unparsable dates are skipped.
func within(entries []model.DayEntry, from, to time.Time) []dated {
	var out []dated
	for _, e := range entries {
		d, err := timecalc.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if timecalc.Within(d, from, to) {
			out = append(out, dated{day: d, entry: e})
		}
	}
	slices.SortStableFunc(out, func(a, b dated) int { return a.day.Compare(b.day) })
	return out
}

// totals is the shared fold over a set of entries.
type totals struct {
	hours      float64
	miles      float64
	expenses   decimal.Decimal
	rebookings int
}

func tally(entries []dated) totals {
	t := totals{expenses: decimal.Zero}
	for _, d := range entries {
		t.hours += d.entry.HoursWorked
		t.miles += mileage.ForEntry(d.entry)
		t.expenses = t.expenses.Add(d.entry.AdditionalExpenses)
		if d.entry.IsRebooking {
			t.rebookings++
		}
	}
	return t
}

// MileageExpense converts miles into money at the configured rate.
func MileageExpense(miles float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(miles).Mul(rate)
}

// Weekly summarizes the Monday–Sunday week containing weekStart. The photo
// reference stored under the week's Monday, if any, is passed through.
func Weekly(entries []model.DayEntry, weekStart time.Time, settings model.AppSettings, photos model.TimesheetPhotos) model.WeeklySummary {
	start := timecalc.WeekStart(weekStart)
	end := timecalc.WeekEnd(start)

	week := within(entries, start, end)
	daily := make([]model.DailyBreakdown, 0, len(week))
	for _, d := range week {
		daily = append(daily, model.DailyBreakdown{
			Date:               d.entry.Date,
			Schools:            d.entry.SchoolNames(),
			Hours:              d.entry.HoursWorked,
			Miles:              mileage.ForEntry(d.entry),
			AdditionalExpenses: d.entry.AdditionalExpenses,
			IsRebooking:        d.entry.IsRebooking,
		})
	}

	t := tally(week)
	key := timecalc.FormatDate(start)
	return model.WeeklySummary{
		WeekStart:          key,
		WeekEnd:            timecalc.FormatDate(end),
		TotalHours:         t.hours,
		TotalMiles:         t.miles,
		DailyBreakdown:     daily,
		MileageExpense:     MileageExpense(t.miles, settings.MileageRate),
		AdditionalExpenses: t.expenses,
		TimesheetPhotoURI:  photos[key],
	}
}

// Monthly summarizes the calendar month containing monthAnchor, including a
// per-week breakdown and the holiday position for the enclosing holiday year.
//
// Weekly rows keep their full Monday–Sunday range but only tally entries that
// fall inside the month. A week is listed when it has such entries or when it
// starts inside the month, so a leading partial week without data is omitted.
// The rows therefore sum to the month totals even though the week ranges they
// show may extend past either end of the month.
func Monthly(entries []model.DayEntry, monthAnchor time.Time, settings model.AppSettings) model.MonthlySummary {
	monthStart, monthEnd := timecalc.MonthRange(monthAnchor)
	t := tally(within(entries, monthStart, monthEnd))

	var weeks []model.WeeklyBreakdown
	for ws := range timecalc.WeeksOverlapping(monthStart, monthEnd) {
		we := timecalc.WeekEnd(ws)
		from, to := ws, we
		if from.Before(monthStart) {
			from = monthStart
		}
		if to.After(monthEnd) {
			to = monthEnd
		}
		inWeek := within(entries, from, to)
		if len(inWeek) == 0 && ws.Before(monthStart) {
			continue
		}
		wt := tally(inWeek)
		weeks = append(weeks, model.WeeklyBreakdown{
			WeekStart:          timecalc.FormatDate(ws),
			WeekEnd:            timecalc.FormatDate(we),
			Hours:              wt.hours,
			Miles:              wt.miles,
			AdditionalExpenses: wt.expenses,
			Rebookings:         wt.rebookings,
		})
	}

	ent := holiday.Compute(entries, settings, monthAnchor)
	return model.MonthlySummary{
		MonthStart:              timecalc.FormatDate(monthStart),
		MonthEnd:                timecalc.FormatDate(monthEnd),
		TotalHours:              t.hours,
		TotalMiles:              t.miles,
		RebookingsCount:         t.rebookings,
		WeeklyBreakdown:         weeks,
		MileageExpense:          MileageExpense(t.miles, settings.MileageRate),
		AdditionalExpenses:      t.expenses,
		OvertimeHours:           ent.OvertimeHours,
		HolidaysUsed:            ent.HolidaysUsed,
		HolidaysRemaining:       ent.HolidaysRemaining,
		TotalHolidayEntitlement: ent.TotalHolidayEntitlement,
	}
}
