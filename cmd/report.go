package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/summary"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// weekAnchor resolves --date and --offset (in weeks) to a Monday.
func weekAnchor(date string, offset int, now time.Time) (time.Time, error) {
	day, err := parseDay(date, now)
	if err != nil {
		return time.Time{}, err
	}
	return timecalc.WeekStart(day).AddDate(0, 0, 7*offset), nil
}

// monthAnchor resolves --month (YYYY-MM, or a full date) and --offset (in
// months) to the first day of a month.
func monthAnchor(month string, offset int, now time.Time) (time.Time, error) {
	start := timecalc.MonthStart(timecalc.Date(now))
	if m := strings.TrimSpace(month); m != "" {
		t, err := timecalc.ParseMonth(m)
		if err != nil {
			d, derr := timecalc.ParseDate(m)
			if derr != nil {
				return time.Time{}, userErr(err)
			}
			t = d
		}
		start = timecalc.MonthStart(t)
	}
	return start.AddDate(0, offset, 0), nil
}

func weeklySummary(ctx context.Context, a *app, weekStart time.Time) (model.WeeklySummary, error) {
	entries, err := a.repo.Range(ctx, weekStart, timecalc.WeekEnd(weekStart))
	if err != nil {
		return model.WeeklySummary{}, storageErr(err)
	}
	photos, err := a.repo.Photos(ctx)
	if err != nil {
		return model.WeeklySummary{}, storageErr(err)
	}
	return summary.Weekly(entries, weekStart, a.settings(), photos), nil
}

// monthlySummary loads every entry since holiday figures span the whole
// holiday year, not just the month.
func monthlySummary(ctx context.Context, a *app, monthStart time.Time) (model.MonthlySummary, error) {
	entries, err := a.repo.All(ctx)
	if err != nil {
		return model.MonthlySummary{}, storageErr(err)
	}
	return summary.Monthly(entries, monthStart, a.settings()), nil
}

func newWeekCmd() *cobra.Command {
	var (
		date   string
		offset int
		format string
	)
	c := &cobra.Command{
		Use:   "week",
		Short: "Weekly summary: hours, business miles and expenses",
		Args:  cobra.NoArgs,
	}
	c.Flags().StringVar(&date, "date", "", "Any day in the week (default: today)")
	c.Flags().IntVar(&offset, "offset", 0, "Weeks relative to --date (e.g. -1 for last week)")
	c.Flags().StringVar(&format, "format", "md", "Output format: md, csv, json")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		f, err := report.ParseFormat(format, false)
		if err != nil {
			return userErr(err)
		}
		weekStart, err := weekAnchor(date, offset, time.Now())
		if err != nil {
			return err
		}
		s, err := weeklySummary(cmd.Context(), a, weekStart)
		if err != nil {
			return err
		}
		return report.Week(cmd.OutOrStdout(), f, s)
	})
	return c
}

func newMonthCmd() *cobra.Command {
	var (
		month  string
		offset int
		format string
	)
	c := &cobra.Command{
		Use:   "month",
		Short: "Monthly summary with weekly breakdown, overtime and holiday balance",
		Args:  cobra.NoArgs,
	}
	c.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: this month)")
	c.Flags().IntVar(&offset, "offset", 0, "Months relative to --month (e.g. -1 for last month)")
	c.Flags().StringVar(&format, "format", "md", "Output format: md, csv, json")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		f, err := report.ParseFormat(format, false)
		if err != nil {
			return userErr(err)
		}
		start, err := monthAnchor(month, offset, time.Now())
		if err != nil {
			return err
		}
		s, err := monthlySummary(cmd.Context(), a, start)
		if err != nil {
			return err
		}
		return report.Month(cmd.OutOrStdout(), f, s)
	})
	return c
}
