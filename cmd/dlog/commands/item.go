package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
)

// ItemCmd manages items inside records
var ItemCmd = &cobra.Command{
	Use:   "item",
	Short: sym.Item + " Manage items",
	Long: sym.Item + ` item — Manage items

An item is a named CSV file inside a record. Logging to an item that does
not exist yet creates it, so "item new" is only needed to set one up ahead.

Examples:
  dlog item new bench -r gym
  dlog item ls -r gym
  dlog item ls`,
}

var itemNewCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create an item in a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemNew,
}

var itemLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List items",
	Args:  cobra.NoArgs,
	RunE:  runItemLs,
}

func init() {
	itemNewCmd.Flags().StringP("record", "r", "", "Record the item belongs to")
	_ = itemNewCmd.MarkFlagRequired("record")
	itemLsCmd.Flags().StringP("record", "r", "", "Only items of this record")
	itemLsCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")

	ItemCmd.AddCommand(itemNewCmd)
	ItemCmd.AddCommand(itemLsCmd)
}

func runItemNew(cmd *cobra.Command, args []string) error {
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	recordName := stringFlag(cmd, "record")
	item, err := lb.CreateItem(recordName, args[0])
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), display.NewItemView(item))
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s %s in %s",
		sym.Item, item.Name, sym.Prefix(sym.Record, recordName))
	return nil
}

func runItemLs(cmd *cobra.Command, args []string) error {
	format, err := display.Format(cmd)
	if err != nil {
		return err
	}
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	items, err := lb.Items(stringFlag(cmd, "record"))
	if err != nil {
		return err
	}
	records, err := lb.Records()
	if err != nil {
		return err
	}
	views := itemViews(items)
	return display.Render(cmd.OutOrStdout(), format, views, display.ItemsTable(views, recordNames(records)))
}

func itemViews(items []*types.Item) []display.ItemView {
	views := make([]display.ItemView, len(items))
	for i, it := range items {
		views[i] = display.NewItemView(it)
	}
	return views
}
