package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/work-mileage-tracker/internal/entry"
	"github.com/Tiliavir/work-mileage-tracker/internal/mileage"
	"github.com/Tiliavir/work-mileage-tracker/internal/model"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/storage"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

type logFlags struct {
	schools       []string
	start, end    string
	from, to      string
	fromHome      bool
	endAtLab      bool
	startMileage  float64
	endMileage    float64
	personalMiles float64
	expenses      string
	rebooking     bool
	dayOff        bool
	lab           bool
	deliveries    bool
	comment       string
}

func newLogCmd() *cobra.Command {
	var f logFlags
	c := &cobra.Command{
		Use:   "log <date>",
		Short: "Create or replace the entry for a day",
		Long: `Create or replace the entry for a day. <date> is YYYY-MM-DD, "today" or
"yesterday". Hours worked are calculated from the times: 30 minutes lunch is
always deducted, plus 30 minutes travel unless the day ends at the lab.`,
		Example: `  wmt log today --school "Hillside" --school "Brookfield" --start 8:00 --end 5:30pm \
      --from-home --to Brookfield --start-mileage 52010 --end-mileage 52094
  wmt log 2026-04-10 --day-off --comment "Easter"`,
		Args: cobra.ExactArgs(1),
	}
	fl := c.Flags()
	fl.StringArrayVar(&f.schools, "school", nil, "School visited (repeatable)")
	fl.StringVar(&f.start, "start", "", "Start time (HH:MM or h:mm am/pm)")
	fl.StringVar(&f.end, "end", "", "End time (HH:MM or h:mm am/pm)")
	fl.BoolVar(&f.fromHome, "from-home", false, "Day started from home")
	fl.StringVar(&f.from, "from", "", "Start location")
	fl.BoolVar(&f.endAtLab, "end-at-lab", false, "Day ended at the lab (no travel deduction)")
	fl.StringVar(&f.to, "to", "", "End location")
	fl.Float64Var(&f.startMileage, "start-mileage", 0, "Odometer at start")
	fl.Float64Var(&f.endMileage, "end-mileage", 0, "Odometer at end")
	fl.Float64Var(&f.personalMiles, "personal", 0, "Personal miles to exclude")
	fl.StringVar(&f.expenses, "expenses", "", "Additional expenses (e.g. 4.50)")
	fl.BoolVar(&f.rebooking, "rebooking", false, "Mark the day as a rebooking")
	fl.BoolVar(&f.dayOff, "day-off", false, "Record a day off (holiday)")
	fl.BoolVar(&f.lab, "working-in-lab", false, "Working in the lab instead of visiting schools")
	fl.BoolVar(&f.deliveries, "deliveries", false, "Lab day with deliveries (mileage tracked)")
	fl.StringVar(&f.comment, "comment", "", "Optional comment")

	c.RunE = withApp(func(cmd *cobra.Command, args []string, a *app) error {
		day, err := parseDay(args[0], time.Now())
		if err != nil {
			return err
		}
		in, err := f.input(cmd, timecalc.FormatDate(day))
		if err != nil {
			return err
		}
		return saveInput(cmd, a, in)
	})
	return c
}

func (f *logFlags) input(cmd *cobra.Command, date string) (entry.Input, error) {
	in := entry.Input{
		Date:           date,
		Schools:        f.schools,
		StartTime:      f.start,
		EndTime:        f.end,
		StartFromHome:  f.fromHome,
		StartLocation:  f.from,
		EndAtLab:       f.endAtLab,
		EndLocation:    f.to,
		PersonalMiles:  f.personalMiles,
		IsRebooking:    f.rebooking,
		IsDayOff:       f.dayOff,
		IsWorkingInLab: f.lab,
		HasDeliveries:  f.deliveries,
		Comments:       f.comment,
	}
	if cmd.Flags().Changed("start-mileage") {
		in.StartMileage = &f.startMileage
	}
	if cmd.Flags().Changed("end-mileage") {
		in.EndMileage = &f.endMileage
	}
	expenses, err := parseMoney(f.expenses)
	if err != nil {
		return entry.Input{}, err
	}
	in.AdditionalExpenses = expenses
	return in, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, userErrf("invalid amount %q", s)
	}
	return d, nil
}

// saveInput validates in and upserts it, keeping the ID of any entry it replaces.
func saveInput(cmd *cobra.Command, a *app, in entry.Input) error {
	ctx := cmd.Context()
	existing, err := a.repo.Get(ctx, in.Date)
	switch {
	case err == nil:
		in.ID = existing.ID
	case !errors.Is(err, storage.ErrNotFound):
		return storageErr(err)
	}

	e, err := entry.Build(in, a.settings())
	if err != nil {
		return userErr(err)
	}
	if err := a.repo.Save(ctx, e); err != nil {
		return storageErr(err)
	}
	a.log.Debug("entry logged", zap.String("date", e.Date), zap.Bool("replaced", in.ID != ""))

	printSaved(cmd, e)
	return nil
}

func printSaved(cmd *cobra.Command, e model.DayEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s: %s\n", e.Date, report.Summary(e))
	if mileage.Tracked(e) {
		fmt.Fprintf(out, "Business miles: %.1f\n", mileage.ForEntry(e))
	}
}
