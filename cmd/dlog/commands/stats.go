package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/sym"
)

// StatsCmd summarises the logbook
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: sym.Stats + " Show logbook statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := display.Format(cmd)
		if err != nil {
			return err
		}
		lb, err := openLogbook(cmd)
		if err != nil {
			return err
		}
		defer lb.Close()

		st, err := lb.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return display.Render(cmd.OutOrStdout(), format, st, display.StatsTable(st))
	},
}

func init() {
	StatsCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")
}
