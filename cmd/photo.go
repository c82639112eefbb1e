package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newPhotoCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "photo",
		Short: "Attach a timesheet photo reference to a week",
	}

	set := &cobra.Command{
		Use:   "set <date> <uri>",
		Short: "Set the photo for the week containing <date>",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			uri := strings.TrimSpace(args[1])
			if uri == "" {
				return userErrf("photo reference must not be empty")
			}
			return setPhoto(cmd, a, args[0], uri)
		}),
	}
	unset := &cobra.Command{
		Use:   "clear <date>",
		Short: "Remove the photo for the week containing <date>",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return setPhoto(cmd, a, args[0], "")
		}),
	}
	c.AddCommand(set, unset)
	return c
}

func setPhoto(cmd *cobra.Command, a *app, date, uri string) error {
	day, err := parseDay(date, time.Now())
	if err != nil {
		return err
	}
	week := timecalc.FormatDate(timecalc.WeekStart(day))
	if err := a.repo.SetPhoto(cmd.Context(), week, uri); err != nil {
		return storageErr(err)
	}
	if uri == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared photo for week of %s\n", week)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Photo for week of %s: %s\n", week, uri)
	}
	return nil
}
