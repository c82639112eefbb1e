package timecalc

import (
	"fmt"
	"iter"
	"time"
)

// DateLayout is the on-disk and display format of calendar dates.
const DateLayout = "2006-01-02"

// Date strips the clock from t and returns the same calendar day at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar day at UTC midnight.
func Today() time.Time {
	return Date(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	return Date(t).AddDate(0, 0, -(wd - 1))
}

// WeekEnd returns the Sunday six days after weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return Date(weekStart).AddDate(0, 0, 6)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	monday := WeekStart(t)
	return monday, WeekEnd(monday)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// MonthRange returns the first and last day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	return MonthStart(t), MonthEnd(t)
}

// DaysInclusive counts the calendar days in [from, to].
func DaysInclusive(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours()/24) + 1
}

// WeeksOverlapping yields the Monday of every week that overlaps
// [monthStart, monthEnd], starting with WeekStart(monthStart). The first week
// may begin in the previous month and the last may end in the next one.
// Each call to the returned sequence starts over.
func WeeksOverlapping(monthStart, monthEnd time.Time) iter.Seq[time.Time] {
	first := WeekStart(monthStart)
	last := Date(monthEnd)
	return func(yield func(time.Time) bool) {
		for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
			if !yield(w) {
				return
			}
		}
	}
}

// Within reports whether day lies in [from, to] inclusive.
func Within(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthLabel returns a label like "February 2026".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// ParseMonth parses a YYYY-MM string into the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t, nil
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
