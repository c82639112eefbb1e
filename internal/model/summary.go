package model

import "github.com/shopspring/decimal"

// DailyBreakdown is one entry's contribution to a weekly summary.
type DailyBreakdown struct {
	Date               string          `json:"date"`
	Schools            []string        `json:"schools"`
	Hours              float64         `json:"hours"`
	Miles              float64         `json:"miles"`
	AdditionalExpenses decimal.Decimal `json:"additionalExpenses"`
	IsRebooking        bool            `json:"isRebooking"`
}

// WeeklySummary aggregates the entries of one Monday–Sunday week.
type WeeklySummary struct {
	WeekStart          string           `json:"weekStart"`
	WeekEnd            string           `json:"weekEnd"`
	TotalHours         float64          `json:"totalHours"`
	TotalMiles         float64          `json:"totalMiles"`
	DailyBreakdown     []DailyBreakdown `json:"dailyBreakdown"`
	MileageExpense     decimal.Decimal  `json:"mileageExpense"`
	AdditionalExpenses decimal.Decimal  `json:"additionalExpenses"`
	TimesheetPhotoURI  string           `json:"timesheetPhotoUri,omitempty"`
}

// WeeklyBreakdown is one calendar week's share of a monthly summary. Only
// entries inside the month are tallied; the week range itself is not clipped.
type WeeklyBreakdown struct {
	WeekStart          string          `json:"weekStart"`
	WeekEnd            string          `json:"weekEnd"`
	Hours              float64         `json:"hours"`
	Miles              float64         `json:"miles"`
	AdditionalExpenses decimal.Decimal `json:"additionalExpenses"`
	Rebookings         int             `json:"rebookings"`
}

// MonthlySummary aggregates a calendar month plus holiday-year figures.
type MonthlySummary struct {
	MonthStart              string            `json:"monthStart"`
	MonthEnd                string            `json:"monthEnd"`
	TotalHours              float64           `json:"totalHours"`
	TotalMiles              float64           `json:"totalMiles"`
	RebookingsCount         int               `json:"rebookingsCount"`
	WeeklyBreakdown         []WeeklyBreakdown `json:"weeklyBreakdown"`
	MileageExpense          decimal.Decimal   `json:"mileageExpense"`
	AdditionalExpenses      decimal.Decimal   `json:"additionalExpenses"`
	OvertimeHours           float64           `json:"overtimeHours"`
	HolidaysUsed            float64           `json:"holidaysUsed"`
	HolidaysRemaining       float64           `json:"holidaysRemaining"`
	TotalHolidayEntitlement float64           `json:"totalHolidayEntitlement"`
}
