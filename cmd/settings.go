package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-mileage-tracker/internal/config"
)

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings and storage location",
		Long: `Print the effective settings after applying ~/.wmt/config.json, .env and
WMT_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data directory: %s\n", a.cfg.Dir)
			fmt.Fprintf(out, "Storage:        %s", a.cfg.Storage.Backend)
			if a.cfg.Storage.Backend == config.BackendSQLite {
				fmt.Fprintf(out, " (%s)", a.cfg.SQLitePath())
			}
			fmt.Fprintln(out)

			data, err := json.MarshalIndent(a.settings(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}),
	}
}
