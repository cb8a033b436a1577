package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
)

// TypeCmd defines or extends a fact type
var TypeCmd = &cobra.Command{
	Use:   "type NAME [UNIT...]",
	Short: sym.FactType + " Define fact types",
	Long: sym.FactType + ` type — Define fact types

A fact type holds the default unit, attributes and notes of a fact name.
Defining an existing type merges into it: a unit replaces the current one,
attributes and notes are added.

Examples:
  dlog type sleep hr -A health
  dlog type meditate for 10 min -N "daily"
  dlog type ls`,
	Args: cobra.MinimumNArgs(1),
	RunE: runType,
}

var typeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List fact types",
	Args:  cobra.NoArgs,
	RunE:  runTypeLs,
}

func init() {
	TypeCmd.Flags().StringArrayP("link-attrib", "A", nil, "Attribute for every entry of this fact")
	TypeCmd.Flags().StringArrayP("link-note", "N", nil, "Note for every entry of this fact")
	typeLsCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")
	TypeCmd.AddCommand(typeLsCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	ft, created, err := lb.DefineType(cmd.Context(), args[0], args[1:],
		stringArray(cmd, "link-attrib"), stringArray(cmd, "link-note"))
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), display.NewFactTypeView(ft))
	}
	verb := "updated"
	if created {
		verb = "created"
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s %s %s", sym.FactType, ft.Name, verb)
	return nil
}

func runTypeLs(cmd *cobra.Command, args []string) error {
	format, err := display.Format(cmd)
	if err != nil {
		return err
	}
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	list, err := lb.FactTypes(cmd.Context())
	if err != nil {
		return err
	}
	views := factTypeViews(list)
	return display.Render(cmd.OutOrStdout(), format, views, display.FactTypesTable(views))
}

func factTypeViews(list []*types.AbstractFact) []display.FactTypeView {
	views := make([]display.FactTypeView, len(list))
	for i, ft := range list {
		views[i] = display.NewFactTypeView(ft)
	}
	return views
}
