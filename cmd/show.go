package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/mileage"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Show the entry for a day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			day, err := parseDay(args[0], time.Now())
			if err != nil {
				return err
			}
			e, err := a.repo.Get(cmd.Context(), timecalc.FormatDate(day))
			if errors.Is(err, storage.ErrNotFound) {
				return userErr(err)
			}
			if err != nil {
				return storageErr(err)
			}
			return report.Detail(cmd.OutOrStdout(), e, mileage.ForEntry(e))
		}),
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <date>",
		Short: "Delete the entry for a day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			day, err := parseDay(args[0], time.Now())
			if err != nil {
				return err
			}
			date := timecalc.FormatDate(day)
			err = a.repo.Delete(cmd.Context(), date)
			if errors.Is(err, storage.ErrNotFound) {
				return userErr(err)
			}
			if err != nil {
				return storageErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", date)
			return nil
		}),
	}
}
