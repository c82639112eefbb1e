package timecalc

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// LunchDeductionMinutes is subtracted from every worked day.
	LunchDeductionMinutes = 30
	// TravelDeductionMinutes is subtracted unless the day ends at the lab.
	TravelDeductionMinutes = 30
	// DefaultDayOffHours is the day-off length used when no contracted day is configured.
	DefaultDayOffHours = 7.2

	minutesPerDay = 24 * 60
)

// ClockMinutes converts "HH:MM" into minutes since midnight.
func ClockMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// WorkedHours derives the hours worked between two 24-hour clock times.
// Lunch is always deducted; travel is deducted unless the day ends at a fixed
// site. An end before the start is treated as an overnight shift. Missing or
// malformed times give zero.
func WorkedHours(start24, end24 string, endsAtFixedSite bool) float64 {
	start, ok := ClockMinutes(start24)
	if !ok {
		return 0
	}
	end, ok := ClockMinutes(end24)
	if !ok {
		return 0
	}

	total := end - start
	if total < 0 {
		total += minutesPerDay
	}
	total -= LunchDeductionMinutes
	if !endsAtFixedSite {
		total -= TravelDeductionMinutes
	}
	if total < 0 {
		return 0
	}
	return float64(total) / 60
}

// DayOffHours is the fixed length credited to a day off.
func DayOffHours(contractedHoursPerDay float64) float64 {
	if contractedHoursPerDay <= 0 {
		return DefaultDayOffHours
	}
	return contractedHoursPerDay
}

// NormalizeClock accepts "17:30", "5:30pm", "5:30 PM" or "12:00am" and returns
// the 24-hour "HH:MM" form.
func NormalizeClock(s string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	period := ""
	switch {
	case strings.HasSuffix(raw, "am"):
		period = "am"
	case strings.HasSuffix(raw, "pm"):
		period = "pm"
	}
	raw = strings.TrimSpace(strings.TrimSuffix(raw, period))

	mins, ok := ClockMinutes(raw)
	if !ok {
		return "", fmt.Errorf("invalid time %q: want HH:MM or H:MM am/pm", s)
	}
	hour, minute := mins/60, mins%60
	if period != "" {
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("invalid 12-hour time %q", s)
		}
		switch {
		case period == "pm" && hour != 12:
			hour += 12
		case period == "am" && hour == 12:
			hour = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// FormatHours formats fractional hours as "7h 30m" or "45m".
func FormatHours(hours float64) string {
	mins := int64(hours*60 + 0.5)
	h := mins / 60
	m := mins % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
