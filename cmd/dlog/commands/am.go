package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/am"
	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage dlog configuration",
	Long: sym.AM + ` am — Manage dlog configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/dlog/dlog.toml)
3. User config (<config dir>/dlog/dlog.toml)
4. Project config (dlog.toml, searched up from the working directory)
5. --config file
6. Environment variables (DLOG_* prefix)

Examples:
  dlog am show                    # Show current configuration
  dlog am show --format json      # Show configuration in JSON format
  dlog am get data.dir            # Get specific config value
  dlog am set index.backend sqlite
  dlog am where                   # Show which files were read`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., data.dir, record.inbox)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value",
	Long:  "Write a value into the --config file, or the user config file when none is given. Up to three previous versions are kept as .back1-.back3.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which files were checked,
then every effective setting with the source it came from.`,
	Args: cobra.NoArgs,
	RunE: runAmWhere,
}

func init() {
	amShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format := strings.ToLower(stringFlag(cmd, "format"))
	if display.ShouldOutputJSON(cmd) {
		format = display.FormatJSON
	}
	switch format {
	case display.FormatJSON:
		return display.OutputJSON(w, cfg)
	case display.FormatYAML:
		fmt.Fprintln(w, "# dlog configuration")
		return display.OutputYAML(w, cfg)
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal config to TOML")
		}
		fmt.Fprintf(w, "# dlog configuration\n%s", data)
		return nil
	}
	return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
}

func runAmGet(cmd *cobra.Command, args []string) error {
	vp, err := am.GetViper()
	if err != nil {
		return err
	}
	if !vp.IsSet(args[0]) {
		return errors.WithHint(errors.NewNotFoundError("configuration key %q", args[0]), "run `dlog am show` to list keys")
	}
	v, err := am.Get(args[0])
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), map[string]interface{}{args[0]: v})
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := am.SetValue(args[0], args[1])
	if err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s %s = %s (%s)", sym.AM, args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

// whereReport is the structured form of am where
type whereReport struct {
	Files    []fileStatus     `json:"files" yaml:"files"`
	Settings []am.SettingInfo `json:"settings" yaml:"settings"`
}

type fileStatus struct {
	am.ConfigPath `yaml:",inline"`
	Exists        bool `json:"exists" yaml:"exists"`
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.Settings()
	if err != nil {
		return err
	}
	report := whereReport{Settings: settings}
	for _, p := range am.ConfigSearchPaths() {
		_, statErr := os.Stat(p.Path)
		report.Files = append(report.Files, fileStatus{ConfigPath: p, Exists: statErr == nil})
	}

	w := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(w, report)
	}

	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintf(w, "  %-12s built-in defaults\n", "["+strings.ToUpper(string(am.SourceDefault))+"]")
	for _, f := range report.Files {
		state := "missing"
		if f.Exists {
			state = "found"
		}
		fmt.Fprintf(w, "  %-12s %s (%s)\n", "["+strings.ToUpper(string(f.Source))+"]", f.Path, state)
	}
	fmt.Fprintf(w, "  %-12s %s_* environment variables\n", "["+strings.ToUpper(string(am.SourceEnvironment))+"]", am.EnvPrefix)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Active configuration:")
	for _, s := range settings {
		valueStr := fmt.Sprintf("%v", s.Value)
		if len(valueStr) > 50 {
			valueStr = valueStr[:47] + "..."
		}
		fmt.Fprintf(w, "  %s = %s  [%s: %s]\n", s.Key, valueStr, s.Source, s.SourcePath)
	}
	return nil
}
