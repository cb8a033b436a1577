// Package display renders command output: pterm tables for people, JSON,
// YAML or CSV for scripts.
package display

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/dlog/errors"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// ShouldOutputJSON reports whether --json is set on cmd or its root.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		return f.Value.String() == "true"
	}
	return false
}

// Format returns the output format chosen by --format, with --json taking
// precedence. Unknown formats are invalid requests.
func Format(cmd *cobra.Command) (string, error) {
	if ShouldOutputJSON(cmd) {
		return FormatJSON, nil
	}
	if cmd == nil || cmd.Flags().Lookup("format") == nil {
		return FormatTable, nil
	}
	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML, FormatCSV:
		return strings.ToLower(format), nil
	}
	return "", errors.NewInvalidRequestError("unsupported format %q (supported: table, json, yaml, csv)", format)
}
