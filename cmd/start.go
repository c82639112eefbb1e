package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/entry"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

// isOpen reports whether e was clocked in with start but not yet stopped.
func isOpen(e model.DayEntry) bool {
	return !e.IsDayOff && e.StartTime != "" && e.EndTime == ""
}

func newStartCmd() *cobra.Command {
	var (
		at       string
		from     string
		odometer float64
		schools  []string
		lab      bool
	)
	c := &cobra.Command{
		Use:   "start",
		Short: "Clock in for today",
		Long: `Clock in for today. The entry stays open until "wmt stop" fills in the
end of the day and calculates hours worked.`,
		Args: cobra.NoArgs,
	}
	c.Flags().StringVar(&at, "at", "", "Start time (default: now)")
	c.Flags().StringVar(&from, "from", model.LocationHome, "Start location")
	c.Flags().Float64Var(&odometer, "mileage", 0, "Odometer reading at start")
	c.Flags().StringArrayVar(&schools, "school", nil, "School to visit (repeatable)")
	c.Flags().BoolVar(&lab, "lab", false, "Working in the lab today")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		ctx := cmd.Context()
		now := time.Now()
		date := timecalc.FormatDate(now)

		existing, err := a.repo.Get(ctx, date)
		switch {
		case err == nil && isOpen(existing):
			return userErrf("already clocked in at %s", existing.StartTime)
		case err == nil:
			return userErrf("%s is already logged; use \"wmt log %s\" to change it", date, date)
		case !errors.Is(err, storage.ErrNotFound):
			return storageErr(err)
		}

		if at == "" {
			at = clockNow(now)
		}
		start, err := timecalc.NormalizeClock(at)
		if err != nil {
			return userErr(err)
		}
		if strings.TrimSpace(from) == "" {
			return userErr(entry.ErrMissingStartLocation)
		}

		e := model.DayEntry{
			ID:                 entry.NewID(),
			Date:               date,
			Schools:            []model.School{},
			StartTime:          start,
			StartLocation:      strings.TrimSpace(from),
			StartMileage:       odometer,
			AdditionalExpenses: decimal.Zero,
			IsWorkingInLab:     lab,
		}
		if lab {
			e.Schools = append(e.Schools, model.LabSchool)
		}
		for _, s := range schools {
			if s = strings.TrimSpace(s); s != "" {
				e.Schools = append(e.Schools, model.School{ID: entry.NewID(), Name: s})
			}
		}

		if err := a.repo.Save(ctx, e); err != nil {
			return storageErr(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Clocked in at %s from %s\n", start, e.StartLocation)
		return nil
	})
	return c
}
