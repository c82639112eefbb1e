package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/dayoff"
	"github.com/Tiliavir/work-mileage-tracker/internal/ics"
)

func newImportICSCmd() *cobra.Command {
	var (
		opts            ics.Options
		from, to        string
		dryRun          bool
		includeWeekends bool
	)
	c := &cobra.Command{
		Use:   "import-ics <file>",
		Short: "Import days off from an iCalendar (.ics) file",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().BoolVar(&opts.AllDayOnly, "all-day-only", false, "Ignore events with a time of day")
	c.Flags().StringVar(&opts.Match, "match", "", "Only events whose summary contains this text")
	c.Flags().StringVar(&from, "from", "", "Earliest date to import (YYYY-MM-DD)")
	c.Flags().StringVar(&to, "to", "", "Latest date to import (YYYY-MM-DD)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned imports without writing")
	c.Flags().BoolVar(&includeWeekends, "include-weekends", false, "Also import Saturdays and Sundays")

	c.RunE = withApp(func(cmd *cobra.Command, args []string, a *app) error {
		now := time.Now()
		var err error
		if from != "" {
			if opts.From, err = parseDay(from, now); err != nil {
				return err
			}
		}
		if to != "" {
			if opts.To, err = parseDay(to, now); err != nil {
				return err
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return userErr(err)
		}
		defer f.Close()
		candidates, err := ics.Parse(f, opts)
		if err != nil {
			return userErr(err)
		}

		out := cmd.OutOrStdout()
		res, err := dayoff.Import(cmd.Context(), a.repo, candidates, dayoff.Options{
			DryRun:          dryRun,
			IncludeWeekends: includeWeekends,
			Settings:        a.settings(),
			Logger:          a.log,
			Report: func(c dayoff.Candidate, o dayoff.Outcome) {
				date := c.Date.Format("2006-01-02")
				switch o {
				case dayoff.Imported:
					fmt.Fprintf(out, "  ✓ Imported: %s %s\n", date, c.Note)
				case dayoff.Skipped:
					fmt.Fprintf(out, "  – Skipped:  %s\n", date)
				default:
					fmt.Fprintf(out, "  ! Error:    %s\n", date)
				}
			},
		})
		printImportSummary(cmd, res.Imported, res.Skipped, res.Errors)
		if err != nil {
			return storageErr(err)
		}
		if res.Errors > 0 {
			return storageErr(fmt.Errorf("%d day(s) could not be imported", res.Errors))
		}
		return nil
	})
	return c
}
