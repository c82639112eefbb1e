// Package holiday computes holiday-year entitlement: days taken, bonus days
// earned from overtime and what is left.
package holiday

import (
	"time"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// DayLength converts hours into holiday days. It is fixed and
// independent of AppSettings.ContractedHoursPerDay.
const DayLength = 7.2

// Entitlement is the holiday position for the holiday year containing a month.
type Entitlement struct {
	YearStart               time.Time
	YearEnd                 time.Time // exclusive
	HolidaysUsed            float64
	ContractedHoursForMonth float64
	OvertimeHours           float64
	OvertimeHolidayDays     float64
	TotalHolidayEntitlement float64
	HolidaysRemaining       float64
}

// HolidayYear returns the half-open window [start, end) of the holiday year
// anchored at anchor that contains at.
func HolidayYear(anchor model.MonthDay, at time.Time) (time.Time, time.Time) {
	day := timecalc.Date(at)
	start := anchor.In(day.Year())
	if day.Before(start) {
		start = anchor.In(day.Year() - 1)
	}
	return start, anchor.In(start.Year() + 1)
}

// Compute derives the entitlement for the holiday year containing monthAnchor.
// Overtime is measured against the hours logged in monthAnchor's calendar month.
// HolidaysRemaining is not clamped; a negative value means over-use.
func Compute(entries []model.DayEntry, settings model.AppSettings, monthAnchor time.Time) Entitlement {
	yearStart, yearEnd := HolidayYear(settings.HolidayYearStart, monthAnchor)
	monthStart, monthEnd := timecalc.MonthRange(monthAnchor)

	var dayOffHours, monthHours float64
	for _, e := range entries {
		d, err := timecalc.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if e.IsDayOff && !d.Before(yearStart) && d.Before(yearEnd) {
			dayOffHours += e.HoursWorked
		}
		if timecalc.Within(d, monthStart, monthEnd) {
			monthHours += e.HoursWorked
		}
	}

	contracted := settings.ContractedHoursPerWeek * float64(timecalc.DaysInclusive(monthStart, monthEnd)) / 7
	overtime := max(0, monthHours-contracted)
	overtimeDays := overtime / DayLength
	used := dayOffHours / DayLength
	total := settings.TotalAnnualHolidayDays + overtimeDays

	return Entitlement{
		YearStart:               yearStart,
		YearEnd:                 yearEnd,
		HolidaysUsed:            used,
		ContractedHoursForMonth: contracted,
		OvertimeHours:           overtime,
		OvertimeHolidayDays:     overtimeDays,
		TotalHolidayEntitlement: total,
		HolidaysRemaining:       total - used,
	}
}
