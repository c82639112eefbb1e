package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newListCmd() *cobra.Command {
	var (
		month  bool
		all    bool
		date   string
		format string
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List entries for a week (default), a month or everything",
		Args:  cobra.NoArgs,
	}
	c.Flags().Bool("week", false, "List the week containing --date (default)")
	c.Flags().BoolVar(&month, "month", false, "List the month containing --date")
	c.Flags().BoolVar(&all, "all", false, "List every entry")
	c.Flags().StringVar(&date, "date", "", "Reference date (default: today)")
	c.Flags().StringVar(&format, "format", "md", "Output format: md, csv, json")
	c.MarkFlagsMutuallyExclusive("week", "month", "all")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		f, err := report.ParseFormat(format, false)
		if err != nil {
			return userErr(err)
		}
		day, err := parseDay(date, time.Now())
		if err != nil {
			return err
		}

		from, to := timecalc.WeekRange(day)
		if month {
			from, to = timecalc.MonthRange(day)
		}

		ctx := cmd.Context()
		var list []model.DayEntry
		if all {
			list, err = a.repo.All(ctx)
		} else {
			list, err = a.repo.Range(ctx, from, to)
		}
		if err != nil {
			return storageErr(err)
		}
		return report.Entries(cmd.OutOrStdout(), f, list)
	})
	return c
}
