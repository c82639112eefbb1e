// Package export writes weekly and monthly summaries as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
)

const (
	WeekSheet  = "Week"
	MonthSheet = "Month"

	moneyFormat = `"£"#,##0.00`
)

type workbook struct {
	f      *excelize.File
	sheet  string
	header int
	money  int
	number int
	bold   int
}

func newWorkbook(sheet string) (*workbook, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	wb := &workbook{f: f, sheet: sheet}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&wb.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#007AFF"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&wb.money, &excelize.Style{CustomNumFmt: ptr(moneyFormat)}},
		{&wb.number, &excelize.Style{NumFmt: 2}},
		{&wb.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create style: %w", err)
		}
		*s.dst = id
	}
	return wb, nil
}

func (wb *workbook) set(col string, row int, v any, style int) error {
	ref := cell(col, row)
	if err := wb.f.SetCellValue(wb.sheet, ref, v); err != nil {
		return err
	}
	if style != 0 {
		return wb.f.SetCellStyle(wb.sheet, ref, ref, style)
	}
	return nil
}

func (wb *workbook) headerRow(row int, titles ...string) error {
	for i, t := range titles {
		if err := wb.set(colName(i), row, t, wb.header); err != nil {
			return err
		}
	}
	last := colName(len(titles) - 1)
	return wb.f.SetColWidth(wb.sheet, "A", last, 16)
}

// label writes a bold label in column A and a value in column B.
func (wb *workbook) label(row int, name string, v any, style int) error {
	if err := wb.set("A", row, name, wb.bold); err != nil {
		return err
	}
	return wb.set("B", row, v, style)
}

func (wb *workbook) write(w io.Writer) error {
	defer wb.f.Close()
	if err := wb.f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Week writes one row per day followed by the week's totals.
func Week(w io.Writer, s model.WeeklySummary) error {
	wb, err := newWorkbook(WeekSheet)
	if err != nil {
		return err
	}

	err = func() error {
		if err := wb.set("A", 1, fmt.Sprintf("Weekly Summary %s – %s", s.WeekStart, s.WeekEnd), wb.bold); err != nil {
			return err
		}
		if err := wb.headerRow(2, "Date", "Schools", "Hours", "Miles", "Expenses", "Rebooking"); err != nil {
			return err
		}
		row := 3
		for _, d := range s.DailyBreakdown {
			rebook := ""
			if d.IsRebooking {
				rebook = "Yes"
			}
			cells := []struct {
				v     any
				style int
			}{
				{d.Date, 0},
				{strings.Join(d.Schools, ", "), 0},
				{d.Hours, wb.number},
				{d.Miles, wb.number},
				{d.AdditionalExpenses.InexactFloat64(), wb.money},
				{rebook, 0},
			}
			for i, c := range cells {
				if err := wb.set(colName(i), row, c.v, c.style); err != nil {
					return err
				}
			}
			row++
		}

		row++
		totals := []struct {
			name  string
			v     any
			style int
		}{
			{"Total hours", s.TotalHours, wb.number},
			{"Total miles", s.TotalMiles, wb.number},
			{"Mileage expense", s.MileageExpense.InexactFloat64(), wb.money},
			{"Additional expenses", s.AdditionalExpenses.InexactFloat64(), wb.money},
		}
		if s.TimesheetPhotoURI != "" {
			totals = append(totals, struct {
				name  string
				v     any
				style int
			}{"Timesheet photo", s.TimesheetPhotoURI, 0})
		}
		for _, t := range totals {
			if err := wb.label(row, t.name, t.v, t.style); err != nil {
				return err
			}
			row++
		}
		return nil
	}()
	if err != nil {
		wb.f.Close()
		return fmt.Errorf("fill week sheet: %w", err)
	}
	return wb.write(w)
}

// Month writes one row per calendar week followed by month and holiday totals.
func Month(w io.Writer, s model.MonthlySummary) error {
	wb, err := newWorkbook(MonthSheet)
	if err != nil {
		return err
	}

	err = func() error {
		if err := wb.set("A", 1, fmt.Sprintf("Monthly Summary %s – %s", s.MonthStart, s.MonthEnd), wb.bold); err != nil {
			return err
		}
		if err := wb.headerRow(2, "Week start", "Week end", "Hours", "Miles", "Expenses", "Rebookings"); err != nil {
			return err
		}
		row := 3
		for _, wk := range s.WeeklyBreakdown {
			cells := []struct {
				v     any
				style int
			}{
				{wk.WeekStart, 0},
				{wk.WeekEnd, 0},
				{wk.Hours, wb.number},
				{wk.Miles, wb.number},
				{wk.AdditionalExpenses.InexactFloat64(), wb.money},
				{wk.Rebookings, 0},
			}
			for i, c := range cells {
				if err := wb.set(colName(i), row, c.v, c.style); err != nil {
					return err
				}
			}
			row++
		}

		row++
		totals := []struct {
			name  string
			v     any
			style int
		}{
			{"Total hours", s.TotalHours, wb.number},
			{"Total miles", s.TotalMiles, wb.number},
			{"Rebookings", s.RebookingsCount, 0},
			{"Mileage expense", s.MileageExpense.InexactFloat64(), wb.money},
			{"Additional expenses", s.AdditionalExpenses.InexactFloat64(), wb.money},
			{"Overtime hours", s.OvertimeHours, wb.number},
			{"Holidays used", s.HolidaysUsed, wb.number},
			{"Holidays remaining", s.HolidaysRemaining, wb.number},
			{"Holiday entitlement", s.TotalHolidayEntitlement, wb.number},
		}
		for _, t := range totals {
			if err := wb.label(row, t.name, t.v, t.style); err != nil {
				return err
			}
			row++
		}
		return nil
	}()
	if err != nil {
		wb.f.Close()
		return fmt.Errorf("fill month sheet: %w", err)
	}
	return wb.write(w)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func ptr[T any](v T) *T { return &v }
