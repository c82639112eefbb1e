// Package mileage derives business mileage from odometer readings.
package mileage

import "github.com/Tiliavir/work-mileage-tracker/internal/model"

// BusinessMiles is the driven distance minus personal use, never negative.
// The caller guarantees end >= start.
func BusinessMiles(startMileage, endMileage, personalMiles float64) float64 {
	return max(0, endMileage-startMileage-personalMiles)
}

// Tracked reports whether mileage counts for the entry. Lab days without
// deliveries and days off do not track mileage.
func Tracked(e model.DayEntry) bool {
	if e.IsDayOff {
		return false
	}
	return !e.IsWorkingInLab || e.HasDeliveries
}

// ForEntry returns the entry's business miles, or zero when mileage is not
// tracked for it regardless of the stored readings.
func ForEntry(e model.DayEntry) float64 {
	if !Tracked(e) {
		return 0
	}
	return BusinessMiles(e.StartMileage, e.EndMileage, e.PersonalMiles)
}
