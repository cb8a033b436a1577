package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/dlog/am"
	"github.com/teranos/dlog/cmd/dlog/commands"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/temporal"
)

var rootCmd = &cobra.Command{
	Use:   "dlog [NAME [VALUE [UNIT...]]]",
	Short: "dlog - personal fact logger",
	Long: `dlog - log facts about your day from the terminal.

A fact is a name with a value, an optional unit, attributes and notes.
Facts go to the Inbox record unless a record or item is given.

Available commands:
  fact    - Log a fact (also the default: dlog NAME VALUE UNIT...)
  type    - Define fact types and their default unit, attributes and notes
  record  - Manage records
  item    - Manage items inside a record
  list    - List and search facts
  stats   - Show logbook statistics
  am      - Manage dlog configuration ("I am")
  version - Show version information

Examples:
  dlog sleep 7.5 hr -a dreamt       # Log to the Inbox
  dlog lift 80 kg -r gym -i bench   # Log to an item of a record
  dlog type sleep hr -A health      # Every sleep entry defaults to hr
  dlog list --name sleep --since "last week"`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			am.SetConfigFile(configFile)
		}
		cfg, err := am.Load()
		if err != nil {
			return err
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		temporal.SetWeekStart(cfg.WeekStart())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	RunE: commands.RunFact,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Use this config file instead of the search path")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	commands.AddFactFlags(rootCmd)

	rootCmd.AddCommand(commands.FactCmd)
	rootCmd.AddCommand(commands.TypeCmd)
	rootCmd.AddCommand(commands.RecordCmd)
	rootCmd.AddCommand(commands.ItemCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		stop()
		os.Exit(1)
	}
}
