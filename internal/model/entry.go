package model

import "github.com/shopspring/decimal"

// Location sentinels stored in DayEntry.StartLocation / EndLocation.
const (
	LocationHome   = "Home"
	LocationLab    = "Lab"
	LocationDayOff = "Day Off"
)

// LabSchool is the single work-site recorded for lab days.
var LabSchool = School{ID: "lab", Name: "Working in Lab"}

// School is a named work-site visited during a day.
type School struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DayEntry is one day's logged work record. Date is the identity key; at most
// one entry exists per date.
type DayEntry struct {
	ID                 string          `json:"id"`
	Date               string          `json:"date"`
	Schools            []School        `json:"schools"`
	StartTime          string          `json:"startTime"`
	EndTime            string          `json:"endTime"`
	HoursWorked        float64         `json:"hoursWorked"`
	StartLocation      string          `json:"startLocation"`
	EndLocation        string          `json:"endLocation"`
	StartMileage       float64         `json:"startMileage"`
	EndMileage         float64         `json:"endMileage"`
	PersonalMiles      float64         `json:"personalMiles"`
	AdditionalExpenses decimal.Decimal `json:"additionalExpenses"`
	IsRebooking        bool            `json:"isRebooking"`
	IsDayOff           bool            `json:"isDayOff"`
	IsWorkingInLab     bool            `json:"isWorkingInLab"`
	HasDeliveries      bool            `json:"hasDeliveries"`
	Comments           *string         `json:"comments,omitempty"`
}

// SchoolNames returns the names of the entry's schools in order.
func (e DayEntry) SchoolNames() []string {
	names := make([]string, 0, len(e.Schools))
	for _, s := range e.Schools {
		names = append(names, s.Name)
	}
	return names
}

// EndsAtLab reports whether the day finished at the fixed lab site.
func (e DayEntry) EndsAtLab() bool {
	return e.EndLocation == LocationLab
}

// TimesheetPhotos maps a week-start date (YYYY-MM-DD) to an opaque photo reference.
type TimesheetPhotos map[string]string
