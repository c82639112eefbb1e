package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/export"
	"github.com/Tiliavir/work-mileage-tracker/internal/report"
	"github.com/Tiliavir/work-mileage-tracker/internal/timecalc"
)

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export a weekly or monthly summary to a file or stdout",
	}
	c.AddCommand(newExportWeekCmd(), newExportMonthCmd())
	return c
}

type exportFlags struct {
	format string
	output string
	offset int
}

func (f *exportFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.format, "format", "xlsx", "Output format: xlsx, csv, json, md")
	c.Flags().StringVarP(&f.output, "output", "o", "", "Output file (xlsx defaults to a generated name, other formats to stdout)")
	c.Flags().IntVar(&f.offset, "offset", 0, "Periods relative to the anchor date")
}

func newExportWeekCmd() *cobra.Command {
	var (
		flags exportFlags
		date  string
	)
	c := &cobra.Command{
		Use:   "week",
		Short: "Export the week containing --date",
		Args:  cobra.NoArgs,
	}
	flags.register(c)
	c.Flags().StringVar(&date, "date", "", "Any day in the week (default: today)")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		f, err := report.ParseFormat(flags.format, true)
		if err != nil {
			return userErr(err)
		}
		weekStart, err := weekAnchor(date, flags.offset, time.Now())
		if err != nil {
			return err
		}
		s, err := weeklySummary(cmd.Context(), a, weekStart)
		if err != nil {
			return err
		}
		path := exportPath(flags.output, f, "week", timecalc.ISOWeekLabel(weekStart))
		return writeExport(cmd, path, func(w io.Writer) error {
			if f == report.XLSX {
				return export.Week(w, s)
			}
			return report.Week(w, f, s)
		})
	})
	return c
}

func newExportMonthCmd() *cobra.Command {
	var (
		flags exportFlags
		month string
	)
	c := &cobra.Command{
		Use:   "month",
		Short: "Export the month given by --month",
		Args:  cobra.NoArgs,
	}
	flags.register(c)
	c.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: this month)")

	c.RunE = withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		f, err := report.ParseFormat(flags.format, true)
		if err != nil {
			return userErr(err)
		}
		start, err := monthAnchor(month, flags.offset, time.Now())
		if err != nil {
			return err
		}
		s, err := monthlySummary(cmd.Context(), a, start)
		if err != nil {
			return err
		}
		path := exportPath(flags.output, f, "month", start.Format("2006-01"))
		return writeExport(cmd, path, func(w io.Writer) error {
			if f == report.XLSX {
				return export.Month(w, s)
			}
			return report.Month(w, f, s)
		})
	})
	return c
}

// exportPath returns the destination file, or "" for stdout. Workbooks are
// binary, so they always go to a file.
func exportPath(output string, f report.Format, kind, label string) string {
	if output != "" || f != report.XLSX {
		return output
	}
	return fmt.Sprintf("wmt-%s-%s.xlsx", kind, label)
}

func writeExport(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "" || path == "-" {
		return render(cmd.OutOrStdout())
	}
	out, err := os.Create(path)
	if err != nil {
		return storageErr(err)
	}
	if err := render(out); err != nil {
		out.Close()
		return storageErr(err)
	}
	if err := out.Close(); err != nil {
		return storageErr(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
