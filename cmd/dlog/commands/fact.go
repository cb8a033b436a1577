package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/value"
)

// FactCmd logs one fact
var FactCmd = &cobra.Command{
	Use:   "fact NAME [VALUE] [UNIT...]",
	Short: sym.Fact + " Log a fact",
	Long: sym.Fact + ` fact — Log a fact

The value is inferred: "" means true, numbers, ranges like 3-5 and
yes/no are recognised, anything else is text. With --typed durations
("5 min"), dates, weekdays, months and options ("a|b*|c") are too.

Unit words follow the value. "for 30 min" is a duration, a date or
time expression is a datetime, anything else is a custom unit.

Link flags (-A, -N, -U) are stored on the fact type and apply to every
future entry with this name.

Examples:
  dlog fact sleep 7.5 hr -a dreamt -n "woke at 3"
  dlog fact run 5 -U km -A outdoor      # km becomes the default unit
  dlog fact lift 80 kg -r gym -i bench
  dlog fact meditated                   # value true`,
	Args: cobra.ArbitraryArgs,
	RunE: RunFact,
}

func init() {
	AddFactFlags(FactCmd)
}

// AddFactFlags registers the fact flags on cmd
func AddFactFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("attrib", "a", nil, "Attribute for this entry (name or name=value)")
	cmd.Flags().StringArrayP("link-attrib", "A", nil, "Attribute for every entry of this fact")
	cmd.Flags().StringArrayP("note", "n", nil, "Note for this entry")
	cmd.Flags().StringArrayP("link-note", "N", nil, "Note for every entry of this fact")
	cmd.Flags().StringArrayP("unit", "u", nil, "Unit words for this entry")
	cmd.Flags().StringArrayP("link-unit", "U", nil, "Default unit words for this fact")
	cmd.Flags().StringP("record", "r", "", "Record to log to (default Inbox)")
	cmd.Flags().StringP("item", "i", "", "Item to log to")
	cmd.Flags().Bool("typed", false, "Use the rich value inference")
}

// factCommand gathers the fields of one logging action from args and flags
func factCommand(cmd *cobra.Command, args []string) *types.FactCommand {
	fc := &types.FactCommand{
		Units:       stringArray(cmd, "unit"),
		Attribs:     stringArray(cmd, "attrib"),
		Notes:       stringArray(cmd, "note"),
		LinkUnits:   stringArray(cmd, "link-unit"),
		LinkAttribs: stringArray(cmd, "link-attrib"),
		LinkNotes:   stringArray(cmd, "link-note"),
		Record:      stringFlag(cmd, "record"),
		Item:        stringFlag(cmd, "item"),
	}
	fc.Typed, _ = cmd.Flags().GetBool("typed")
	if len(args) > 0 {
		fc.Name = args[0]
	}
	if len(args) > 1 {
		fc.Value = args[1]
	}
	if len(args) > 2 {
		fc.Units = append(append([]string(nil), args[2:]...), fc.Units...)
	}
	return fc
}

// RunFact logs the fact described by args and flags
func RunFact(cmd *cobra.Command, args []string) error {
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	res, err := lb.Log(cmd.Context(), factCommand(cmd, args))
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), display.NewLoggedView(res))
	}

	msg := res.Fact.Name + " = " + value.Render(res.Fact.Value)
	if !res.Fact.Unit.IsNone() {
		msg += " " + res.Fact.Unit.String()
	}
	where := sym.Prefix(sym.Record, res.Record)
	if res.Item != "" {
		where += " " + sym.Prefix(sym.Item, res.Item)
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s %s  %s", sym.Fact, msg, where)
	if res.FactTypeCreated {
		pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("%s new fact type %s", sym.FactType, res.FactType.Name)
	}
	return nil
}
