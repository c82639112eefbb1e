package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MonthDay is a recurring calendar anchor (month and day, no year).
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay accepts "MM-DD" or a full "YYYY-MM-DD" date; the year of a full
// date is ignored.
func ParseMonthDay(s string) (MonthDay, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return MonthDay{Month: t.Month(), Day: t.Day()}, nil
	}
	// Parse against a leap year so "02-29" is accepted.
	t, err := time.Parse("2006-01-02", "2000-"+s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid month/day %q: want MM-DD or YYYY-MM-DD", s)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// In returns the anchor's date in the given year (UTC midnight). Feb 29 in a
// non-leap year normalizes to Mar 1.
func (md MonthDay) In(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func (md MonthDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(md.String())
}

func (md *MonthDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonthDay(s)
	if err != nil {
		return err
	}
	*md = parsed
	return nil
}

// AppSettings is the user's scheduling and entitlement baseline.
type AppSettings struct {
	MileageRate            decimal.Decimal `json:"mileage_rate"`
	ContractedHoursPerWeek float64         `json:"contracted_hours_per_week"`
	ContractedHoursPerDay  float64         `json:"contracted_hours_per_day"`
	HolidayYearStart       MonthDay        `json:"holiday_year_start"`
	TotalAnnualHolidayDays float64         `json:"total_annual_holiday_days"`
}
