package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/holiday"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/summary"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's entry, week-to-date totals and holiday balance",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			now := time.Now()
			today := timecalc.Date(now)

			e, err := a.repo.Get(ctx, timecalc.FormatDate(today))
			switch {
			case errors.Is(err, storage.ErrNotFound):
				fmt.Fprintln(out, "Today: nothing logged.")
			case err != nil:
				return storageErr(err)
			case isOpen(e):
				fmt.Fprintln(out, "Clocked in:")
				fmt.Fprintf(out, "  Since: %s from %s\n", e.StartTime, e.StartLocation)
				fmt.Fprintf(out, "  Elapsed: %s\n", formatElapsed(elapsedSeconds(e.StartTime, clockNow(now))))
			default:
				fmt.Fprintf(out, "Today: %s\n", report.Summary(e))
			}

			weekStart, weekEnd := timecalc.WeekRange(today)
			week, err := a.repo.Range(ctx, weekStart, weekEnd)
			if err != nil {
				return storageErr(err)
			}
			ws := summary.Weekly(week, weekStart, a.settings(), nil)
			fmt.Fprintf(out, "This week: %s, %.1f mi, %s mileage\n",
				timecalc.FormatHours(ws.TotalHours), ws.TotalMiles, report.Money(ws.MileageExpense))

			all, err := a.repo.All(ctx)
			if err != nil {
				return storageErr(err)
			}
			ent := holiday.Compute(all, a.settings(), today)
			fmt.Fprintf(out, "Holiday: %.1f of %.1f days remaining (year from %s)\n",
				ent.HolidaysRemaining, ent.TotalHolidayEntitlement, timecalc.FormatDate(ent.YearStart))
			return nil
		}),
	}
}
