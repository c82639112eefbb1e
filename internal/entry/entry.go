// Package entry builds validated DayEntry records. It is the only place where
// HoursWorked is calculated; summaries trust the stored value afterwards.
package entry

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

var (
	ErrInvalidDate          = errors.New("date must be YYYY-MM-DD")
	ErrNoSchools            = errors.New("add at least one school")
	ErrMissingTimes         = errors.New("enter start and end times")
	ErrInvalidTime          = errors.New("times must be HH:MM or H:MM am/pm")
	ErrMissingStartLocation = errors.New(`enter a start location or start from home`)
	ErrMissingEndLocation   = errors.New(`enter an end location or end at the lab`)
	ErrMissingMileage       = errors.New("enter start and end mileage")
	ErrMileageOrder         = errors.New("end mileage must not be less than start mileage")
	ErrNegativeMiles        = errors.New("personal miles must not be negative")
	ErrNegativeExpense      = errors.New("additional expenses must not be negative")
)

// Input is the raw form of a day's record before validation.
type Input struct {
	ID   string // kept when replacing an existing entry
	Date string

	Schools   []string
	StartTime string
	EndTime   string

	StartFromHome bool
	StartLocation string
	EndAtLab      bool
	EndLocation   string

	StartMileage  *float64
	EndMileage    *float64
	PersonalMiles float64

	AdditionalExpenses decimal.Decimal

	IsRebooking    bool
	IsDayOff       bool
	IsWorkingInLab bool
	HasDeliveries  bool
	Comments       string
}

// NewID returns a fresh entry identifier.
func NewID() string {
	return uuid.NewString()
}

// Build validates in and produces the entry to persist. Checks run in a fixed
// order and the first failure is returned.
func Build(in Input, settings model.AppSettings) (model.DayEntry, error) {
	if _, err := timecalc.ParseDate(in.Date); err != nil {
		return model.DayEntry{}, ErrInvalidDate
	}
	id := in.ID
	if id == "" {
		id = NewID()
	}

	if in.IsDayOff {
		return DayOff(id, in.Date, settings, in.Comments), nil
	}

	schools := cleanNames(in.Schools)
	if !in.IsWorkingInLab && len(schools) == 0 {
		return model.DayEntry{}, ErrNoSchools
	}
	if strings.TrimSpace(in.StartTime) == "" || strings.TrimSpace(in.EndTime) == "" {
		return model.DayEntry{}, ErrMissingTimes
	}
	start, err := timecalc.NormalizeClock(in.StartTime)
	if err != nil {
		return model.DayEntry{}, errors.Join(ErrInvalidTime, err)
	}
	end, err := timecalc.NormalizeClock(in.EndTime)
	if err != nil {
		return model.DayEntry{}, errors.Join(ErrInvalidTime, err)
	}
	startLocation := model.LocationHome
	if !in.StartFromHome {
		startLocation = strings.TrimSpace(in.StartLocation)
		if startLocation == "" {
			return model.DayEntry{}, ErrMissingStartLocation
		}
	}
	endLocation := model.LocationLab
	if !in.EndAtLab {
		endLocation = strings.TrimSpace(in.EndLocation)
		if endLocation == "" {
			return model.DayEntry{}, ErrMissingEndLocation
		}
	}

	trackMileage := !in.IsWorkingInLab || in.HasDeliveries
	var startMiles, endMiles, personal float64
	if trackMileage {
		if in.StartMileage == nil || in.EndMileage == nil {
			return model.DayEntry{}, ErrMissingMileage
		}
		startMiles, endMiles = *in.StartMileage, *in.EndMileage
		if endMiles < startMiles {
			return model.DayEntry{}, ErrMileageOrder
		}
		if in.PersonalMiles < 0 {
			return model.DayEntry{}, ErrNegativeMiles
		}
		personal = in.PersonalMiles
	}
	if in.AdditionalExpenses.IsNegative() {
		return model.DayEntry{}, ErrNegativeExpense
	}

	sites := make([]model.School, 0, len(schools))
	if in.IsWorkingInLab {
		sites = append(sites, model.LabSchool)
	} else {
		for _, name := range schools {
			sites = append(sites, model.School{ID: NewID(), Name: name})
		}
	}

	e := model.DayEntry{
		ID:                 id,
		Date:               in.Date,
		Schools:            sites,
		StartTime:          start,
		EndTime:            end,
		StartLocation:      startLocation,
		EndLocation:        endLocation,
		StartMileage:       startMiles,
		EndMileage:         endMiles,
		PersonalMiles:      personal,
		AdditionalExpenses: in.AdditionalExpenses,
		IsRebooking:        in.IsRebooking,
		IsWorkingInLab:     in.IsWorkingInLab,
		HasDeliveries:      in.HasDeliveries,
		Comments:           optional(in.Comments),
	}
	// Travel is not deducted when the stored end location is the lab, however
	// it was entered.
	e.HoursWorked = timecalc.WorkedHours(start, end, e.EndsAtLab())
	return e, nil
}

// DayOff returns the canonical day-off entry for date: no sites, zero mileage
// and a full contracted day of hours.
func DayOff(id, date string, settings model.AppSettings, comments string) model.DayEntry {
	if id == "" {
		id = NewID()
	}
	return model.DayEntry{
		ID:                 id,
		Date:               date,
		Schools:            []model.School{},
		StartTime:          "00:00",
		EndTime:            "00:00",
		HoursWorked:        timecalc.DayOffHours(settings.ContractedHoursPerDay),
		StartLocation:      model.LocationDayOff,
		EndLocation:        model.LocationDayOff,
		AdditionalExpenses: decimal.Zero,
		IsDayOff:           true,
		Comments:           optional(comments),
	}
}

func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
