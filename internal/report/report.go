// Package report renders entries and summaries as Markdown, CSV or JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// Format names an output format.
type Format string

const (
	Markdown Format = "md"
	CSV      Format = "csv"
	JSON     Format = "json"
	XLSX     Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat accepts md, csv, json and, when allowXLSX is set, xlsx.
func ParseFormat(s string, allowXLSX bool) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Markdown, CSV, JSON:
		return f, nil
	case XLSX:
		if allowXLSX {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

const rule = "------------------------------------------------"

// Money formats an amount in pounds with two decimals.
func Money(d decimal.Decimal) string {
	return "£" + d.StringFixed(2)
}

func num(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// Week writes a weekly summary.
func Week(w io.Writer, f Format, s model.WeeklySummary) error {
	switch f {
	case JSON:
		return writeJSON(w, s)
	case CSV:
		pw := &printer{w: w}
		pw.println("date,schools,hours,miles,additional_expenses,rebooking")
		for _, d := range s.DailyBreakdown {
			pw.printf("%s,%s,%s,%s,%s,%t\n",
				d.Date,
				csvEscape(strings.Join(d.Schools, "; ")),
				num(d.Hours),
				num(d.Miles),
				d.AdditionalExpenses.StringFixed(2),
				d.IsRebooking,
			)
		}
		pw.printf("total,,%s,%s,%s,\n", num(s.TotalHours), num(s.TotalMiles), s.AdditionalExpenses.StringFixed(2))
		return pw.err
	default:
		pw := &printer{w: w}
		ws, _ := timecalc.ParseDate(s.WeekStart)
		pw.printf("Week %s (%s – %s)\n", timecalc.ISOWeekLabel(ws), s.WeekStart, s.WeekEnd)
		pw.println(rule)
		for _, d := range s.DailyBreakdown {
			flag := ""
			if d.IsRebooking {
				flag = " [rebooking]"
			}
			pw.printf("%s  %-24s %6sh %7smi%s\n", d.Date, truncate(strings.Join(d.Schools, ", "), 24), num(d.Hours), num(d.Miles), flag)
		}
		pw.println(rule)
		pw.printf("%-36s %6sh %7smi\n", "Total", num(s.TotalHours), num(s.TotalMiles))
		pw.printf("%-36s %s\n", "Mileage expense", Money(s.MileageExpense))
		pw.printf("%-36s %s\n", "Additional expenses", Money(s.AdditionalExpenses))
		if s.TimesheetPhotoURI != "" {
			pw.printf("%-36s %s\n", "Timesheet photo", s.TimesheetPhotoURI)
		}
		return pw.err
	}
}

// Month writes a monthly summary including holiday figures.
func Month(w io.Writer, f Format, s model.MonthlySummary) error {
	switch f {
	case JSON:
		return writeJSON(w, s)
	case CSV:
		pw := &printer{w: w}
		pw.println("week_start,week_end,hours,miles,additional_expenses,rebookings")
		for _, wk := range s.WeeklyBreakdown {
			pw.printf("%s,%s,%s,%s,%s,%d\n", wk.WeekStart, wk.WeekEnd, num(wk.Hours), num(wk.Miles), wk.AdditionalExpenses.StringFixed(2), wk.Rebookings)
		}
		pw.printf("total,,%s,%s,%s,%d\n", num(s.TotalHours), num(s.TotalMiles), s.AdditionalExpenses.StringFixed(2), s.RebookingsCount)
		return pw.err
	default:
		pw := &printer{w: w}
		ms, _ := timecalc.ParseDate(s.MonthStart)
		pw.printf("%s\n", timecalc.MonthLabel(ms))
		pw.println(rule)
		for _, wk := range s.WeeklyBreakdown {
			pw.printf("%s – %s  %6sh %7smi  %d rebooking(s)\n", wk.WeekStart, wk.WeekEnd, num(wk.Hours), num(wk.Miles), wk.Rebookings)
		}
		pw.println(rule)
		pw.printf("%-24s %6sh %7smi\n", "Total", num(s.TotalHours), num(s.TotalMiles))
		pw.printf("%-24s %d\n", "Rebookings", s.RebookingsCount)
		pw.printf("%-24s %s\n", "Mileage expense", Money(s.MileageExpense))
		pw.printf("%-24s %s\n", "Additional expenses", Money(s.AdditionalExpenses))
		pw.printf("%-24s %sh\n", "Overtime", num(s.OvertimeHours))
		pw.println(rule)
		pw.printf("Holiday: %s used, %s remaining of %s days\n",
			num(s.HolidaysUsed), num(s.HolidaysRemaining), num(s.TotalHolidayEntitlement))
		return pw.err
	}
}

// Entries writes raw day entries.
func Entries(w io.Writer, f Format, entries []model.DayEntry) error {
	switch f {
	case JSON:
		if entries == nil {
			entries = []model.DayEntry{}
		}
		return writeJSON(w, entries)
	case CSV:
		pw := &printer{w: w}
		pw.println("date,schools,start,end,hours,start_location,end_location,start_mileage,end_mileage,personal_miles,additional_expenses,rebooking,day_off,lab,deliveries,comments")
		for _, e := range entries {
			comments := ""
			if e.Comments != nil {
				comments = *e.Comments
			}
			pw.printf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%t,%t,%t,%t,%s\n",
				e.Date,
				csvEscape(strings.Join(e.SchoolNames(), "; ")),
				e.StartTime,
				e.EndTime,
				fmt.Sprintf("%.2f", e.HoursWorked),
				csvEscape(e.StartLocation),
				csvEscape(e.EndLocation),
				num(e.StartMileage),
				num(e.EndMileage),
				num(e.PersonalMiles),
				e.AdditionalExpenses.StringFixed(2),
				e.IsRebooking, e.IsDayOff, e.IsWorkingInLab, e.HasDeliveries,
				csvEscape(comments),
			)
		}
		return pw.err
	default:
		pw := &printer{w: w}
		if len(entries) == 0 {
			pw.println("No entries.")
			return pw.err
		}
		for _, e := range entries {
			pw.printf("%s  %s\n", e.Date, Summary(e))
		}
		return pw.err
	}
}

// Summary is a one-line description of an entry.
func Summary(e model.DayEntry) string {
	if e.IsDayOff {
		return fmt.Sprintf("Day off (%s)", timecalc.FormatHours(e.HoursWorked))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s–%s  %-8s %s", e.StartTime, e.EndTime, timecalc.FormatHours(e.HoursWorked), strings.Join(e.SchoolNames(), ", "))
	if e.IsRebooking {
		b.WriteString(" [rebooking]")
	}
	return b.String()
}

// Detail writes every field of a single entry for display.
func Detail(w io.Writer, e model.DayEntry, businessMiles float64) error {
	pw := &printer{w: w}
	pw.printf("Date:        %s\n", e.Date)
	if e.IsDayOff {
		pw.printf("Status:      Day off (%s)\n", timecalc.FormatHours(e.HoursWorked))
	} else {
		pw.printf("Schools:     %s\n", strings.Join(e.SchoolNames(), ", "))
		pw.printf("Time:        %s – %s (%s)\n", e.StartTime, e.EndTime, timecalc.FormatHours(e.HoursWorked))
		pw.printf("Route:       %s → %s\n", e.StartLocation, e.EndLocation)
		pw.printf("Odometer:    %s → %s (personal %s)\n", num(e.StartMileage), num(e.EndMileage), num(e.PersonalMiles))
		pw.printf("Business:    %s mi\n", num(businessMiles))
		pw.printf("Expenses:    %s\n", Money(e.AdditionalExpenses))
		var flags []string
		if e.IsRebooking {
			flags = append(flags, "rebooking")
		}
		if e.IsWorkingInLab {
			flags = append(flags, "lab")
		}
		if e.HasDeliveries {
			flags = append(flags, "deliveries")
		}
		if len(flags) > 0 {
			pw.printf("Flags:       %s\n", strings.Join(flags, ", "))
		}
	}
	if e.Comments != nil {
		pw.printf("Comments:    %s\n", *e.Comments)
	}
	return pw.err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}
