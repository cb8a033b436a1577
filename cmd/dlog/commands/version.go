package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show dlog version information",
	Long:  `Display version, build time, commit hash, and platform information for the dlog binary.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		w := cmd.OutOrStdout()
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(w, info)
		}
		fmt.Fprintln(w, info.String())
		fmt.Fprintf(w, "Platform: %s\n", info.Platform)
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
		return nil
	},
}
