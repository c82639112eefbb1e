package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wmt",
		Short: "Work & mileage tracker – log school visits, hours and business miles",
		Long: `wmt records one entry per working day: schools visited, start and end
times, odometer readings and expenses. It derives weekly and monthly
summaries, mileage expenses, overtime and remaining holiday entitlement.

Data lives in ~/.wmt/ (override with WMT_HOME), either as one JSON file per
day or in a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLogCmd(),
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newListCmd(),
		newWeekCmd(),
		newMonthCmd(),
		newPhotoCmd(),
		newSettingsCmd(),
		newExportCmd(),
		newOutlookCmd(),
		newImportICSCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
