package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/am"
	"github.com/teranos/dlog/logbook"
	"github.com/teranos/dlog/prompt"
)

// openLogbook opens the logbook described by the loaded configuration. The
// caller closes it.
func openLogbook(cmd *cobra.Command) (*logbook.Logbook, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, err
	}
	p := prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
	return logbook.Open(cfg, logbook.WithPrompter(p))
}

func stringArray(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
