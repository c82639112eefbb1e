package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/entry"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

type stopFlags struct {
	at         string
	to         string
	lab        bool
	odometer   float64
	hasReading bool
	personal   float64
	expenses   string
	schools    []string
	rebooking  bool
	deliveries bool
	comment    string
}

func newStopCmd() *cobra.Command {
	var f stopFlags
	c := &cobra.Command{
		Use:   "stop",
		Short: "Clock out for today and calculate hours worked",
		Args:  cobra.NoArgs,
	}
	c.Flags().StringVar(&f.at, "at", "", "End time (default: now)")
	c.Flags().StringVar(&f.to, "to", "", "End location")
	c.Flags().BoolVar(&f.lab, "lab", false, "Finished at the lab (no travel deduction)")
	c.Flags().Float64Var(&f.odometer, "mileage", 0, "Odometer reading at end")
	c.Flags().Float64Var(&f.personal, "personal", 0, "Personal miles to exclude")
	c.Flags().StringVar(&f.expenses, "expenses", "", "Additional expenses (e.g. 4.50)")
	c.Flags().StringArrayVar(&f.schools, "school", nil, "Additional school visited (repeatable)")
	c.Flags().BoolVar(&f.rebooking, "rebooking", false, "Mark the day as a rebooking")
	c.Flags().BoolVar(&f.deliveries, "deliveries", false, "Lab day with deliveries (mileage tracked)")
	c.Flags().StringVar(&f.comment, "comment", "", "Optional comment")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		ctx := cmd.Context()
		now := time.Now()
		date := timecalc.FormatDate(now)

		open, err := a.repo.Get(ctx, date)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && !isOpen(open)) {
			return userErrf("not clocked in today; run \"wmt start\" first")
		}
		if err != nil {
			return storageErr(err)
		}

		f.hasReading = cmd.Flags().Changed("mileage")
		in, err := f.input(open, now)
		if err != nil {
			return err
		}
		e, err := entry.Build(in, a.settings())
		if err != nil {
			return userErr(err)
		}
		if err := a.repo.Save(ctx, e); err != nil {
			return storageErr(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Clocked out at %s. Elapsed %s, worked %s.\n",
			e.EndTime, formatElapsed(elapsedSeconds(e.StartTime, e.EndTime)), timecalc.FormatHours(e.HoursWorked))
		printSaved(cmd, e)
		return nil
	})
	return c
}

// input merges the open entry with the clock-out flags.
func (f *stopFlags) input(open model.DayEntry, now time.Time) (entry.Input, error) {
	end := f.at
	if end == "" {
		end = clockNow(now)
	}
	expenses, err := parseMoney(f.expenses)
	if err != nil {
		return entry.Input{}, err
	}

	var schools []string
	for _, s := range open.Schools {
		if s != model.LabSchool {
			schools = append(schools, s.Name)
		}
	}
	schools = append(schools, f.schools...)

	comment := f.comment
	if open.Comments != nil {
		comment = *open.Comments
		if f.comment != "" {
			comment += "\n" + f.comment
		}
	}

	in := entry.Input{
		ID:                 open.ID,
		Date:               open.Date,
		Schools:            schools,
		StartTime:          open.StartTime,
		EndTime:            end,
		StartFromHome:      open.StartLocation == model.LocationHome,
		StartLocation:      open.StartLocation,
		EndAtLab:           f.lab,
		EndLocation:        f.to,
		StartMileage:       &open.StartMileage,
		PersonalMiles:      f.personal,
		AdditionalExpenses: expenses,
		IsRebooking:        f.rebooking || open.IsRebooking,
		IsWorkingInLab:     open.IsWorkingInLab,
		HasDeliveries:      f.deliveries || open.HasDeliveries,
		Comments:           comment,
	}
	if f.hasReading {
		odometer := f.odometer
		in.EndMileage = &odometer
	}
	return in, nil
}

// elapsedSeconds is the wall-clock time between two HH:MM values, wrapping
// past midnight.
func elapsedSeconds(start, end string) int64 {
	s, ok1 := timecalc.ClockMinutes(start)
	e, ok2 := timecalc.ClockMinutes(end)
	if !ok1 || !ok2 {
		return 0
	}
	mins := e - s
	if mins < 0 {
		mins += 24 * 60
	}
	return int64(mins) * 60
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
