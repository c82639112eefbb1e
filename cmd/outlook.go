package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/msgraph"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newOutlookCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "outlook",
		Short: "Outlook calendar integration",
	}
	c.AddCommand(newOutlookSyncCmd())
	return c
}

type syncRange struct {
	from, to, date string
	today          bool
}

// resolve returns the inclusive day range to sync. The default is the
// current month.
func (r syncRange) resolve(now time.Time) (time.Time, time.Time, error) {
	switch {
	case r.today:
		d := timecalc.Date(now)
		return d, d, nil
	case r.date != "":
		d, err := parseDay(r.date, now)
		return d, d, err
	case r.from != "" || r.to != "":
		if r.from == "" {
			return time.Time{}, time.Time{}, userErrf("--from is required when --to is specified")
		}
		from, err := parseDay(r.from, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := timecalc.Date(now)
		if r.to != "" {
			if to, err = parseDay(r.to, now); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, userErrf("--to %s is before --from %s", timecalc.FormatDate(to), timecalc.FormatDate(from))
		}
		return from, to, nil
	default:
		from, to := timecalc.MonthRange(now)
		return from, to, nil
	}
}

func newOutlookSyncCmd() *cobra.Command {
	var (
		rng          syncRange
		dryRun       bool
		includeTimed bool
		timezone     string
	)
	c := &cobra.Command{
		Use:   "sync",
		Short: "Import out-of-office calendar events as day-off entries",
		Long: `Import out-of-office events from the signed-in Outlook calendar as day-off
entries. Weekends and days that already have an entry are skipped, so a sync
can be re-run safely.`,
		Args: cobra.NoArgs,
	}
	c.Flags().StringVar(&rng.from, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	c.Flags().StringVar(&rng.to, "to", "", "End date (YYYY-MM-DD); defaults to today")
	c.Flags().StringVar(&rng.date, "date", "", "Sync a single date (YYYY-MM-DD)")
	c.Flags().BoolVar(&rng.today, "today", false, "Sync only today")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned imports without writing")
	c.Flags().BoolVar(&includeTimed, "include-timed", false, "Also import out-of-office events with a time of day")
	c.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for event times (default: outlook.timezone from config)")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		from, to, err := rng.resolve(time.Now())
		if err != nil {
			return err
		}
		if timezone == "" {
			timezone = a.cfg.Outlook.Timezone
		}

		out := cmd.OutOrStdout()
		dryTag := ""
		if dryRun {
			dryTag = " [dry-run]"
		}
		fmt.Fprintf(out, "Syncing Outlook absences (%s → %s)%s...\n\n",
			timecalc.FormatDate(from), timecalc.FormatDate(to), dryTag)

		ctx := cmd.Context()
		auth := &msgraph.Auth{
			TenantID:  a.cfg.Outlook.TenantID,
			ClientID:  a.cfg.Outlook.ClientID,
			TokenPath: msgraph.TokenPath(a.cfg.Dir),
			Out:       out,
			Log:       a.log,
		}
		client, err := auth.Client(ctx)
		if err != nil {
			return storageErr(fmt.Errorf("authentication failed: %w", err))
		}
		events, err := client.GetCalendarView(ctx, from, to.AddDate(0, 0, 1), timezone)
		if err != nil {
			return storageErr(fmt.Errorf("fetching calendar events: %w", err))
		}

		res, err := msgraph.SyncEvents(ctx, a.repo, events, msgraph.SyncOptions{
			Timezone:     timezone,
			DryRun:       dryRun,
			IncludeTimed: includeTimed,
			Settings:     a.settings(),
			Logger:       a.log,
			Out:          out,
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

func printImportSummary(cmd *cobra.Command, imported, skipped, errs int) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", imported)
	fmt.Fprintf(out, "  %d skipped\n", skipped)
	if errs > 0 {
		fmt.Fprintf(out, "  %d errors\n", errs)
	}
}
