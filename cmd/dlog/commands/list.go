package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/storage"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/temporal"
	"github.com/teranos/dlog/types"
)

// ListCmd lists logged facts
var ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   sym.Fact + " List logged facts",
	Long: sym.Fact + ` list — List logged facts

Filters combine. --since and --until take dates ("2026-03-01"), relative
expressions ("3 days ago", "yesterday") and calendar words ("monday").
--value matches the rendered value, so 5 matches both 5 and 5.0.

With --follow, new entries of one record (or one of its items) are printed
as they are logged until interrupted.

Examples:
  dlog list -r gym -i bench --since "last week"
  dlog list --name sleep --attrib dreamt --format csv
  dlog list -r gym --follow`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	ListCmd.Flags().StringArrayP("record", "r", nil, "Only facts of these records")
	ListCmd.Flags().StringArrayP("item", "i", nil, "Only facts of these items")
	ListCmd.Flags().String("name", "", "Fact name contains")
	ListCmd.Flags().String("attrib", "", "Has attribute (name or name=value)")
	ListCmd.Flags().String("unit", "", "Unit equals")
	ListCmd.Flags().String("note", "", "A note contains")
	ListCmd.Flags().String("value", "", "Value equals")
	ListCmd.Flags().String("since", "", "Logged at or after")
	ListCmd.Flags().String("until", "", "Logged before")
	ListCmd.Flags().BoolP("follow", "f", false, "Stream new entries")
	ListCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")
}

func listFilter(cmd *cobra.Command) (storage.Filter, error) {
	f := storage.Filter{}.
		InRecord(stringArray(cmd, "record")...).
		InItems(stringArray(cmd, "item")...).
		NameContains(stringFlag(cmd, "name")).
		WithAttribute(stringFlag(cmd, "attrib")).
		WithUnit(stringFlag(cmd, "unit")).
		NotesContaining(stringFlag(cmd, "note")).
		HasValue(stringFlag(cmd, "value"))

	if s := stringFlag(cmd, "since"); s != "" {
		t, err := temporal.ParseDate(s)
		if err != nil {
			return f, errors.WithHint(errors.NewInvalidRequestError("--since %q: %v", s, err),
				`try "2026-03-01", "3 days ago" or "monday"`)
		}
		f = f.CreatedAfter(t)
	}
	if s := stringFlag(cmd, "until"); s != "" {
		t, err := temporal.ParseDate(s)
		if err != nil {
			return f, errors.NewInvalidRequestError("--until %q: %v", s, err)
		}
		f = f.CreatedBefore(t)
	}
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := display.Format(cmd)
	if err != nil {
		return err
	}
	f, err := listFilter(cmd)
	if err != nil {
		return err
	}
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	if follow, _ := cmd.Flags().GetBool("follow"); follow {
		return runFollow(cmd, lb, f, format)
	}

	entries, err := lb.List(cmd.Context(), f)
	if err != nil {
		return err
	}
	views := display.EntryViews(entries)
	return display.Render(cmd.OutOrStdout(), format, views, display.FactsTable(views))
}

// follower is the subset of the logbook used by --follow
type follower interface {
	Follow(ctx context.Context, recordName, itemName string, fn func(*types.Fact) error) error
}

func runFollow(cmd *cobra.Command, lb follower, f storage.Filter, format string) error {
	if len(f.Records) > 1 || len(f.Items) > 1 {
		return errors.NewInvalidRequestError("--follow watches one record or item")
	}
	recordName, itemName := "", ""
	if len(f.Records) == 1 {
		recordName = f.Records[0]
	}
	if len(f.Items) == 1 {
		itemName = f.Items[0]
	}

	w := cmd.OutOrStdout()
	err := lb.Follow(cmd.Context(), recordName, itemName, func(fact *types.Fact) error {
		if !f.Match(fact) {
			return nil
		}
		view := display.NewFactView(fact, recordName, itemName)
		switch format {
		case display.FormatJSON:
			return display.OutputJSON(w, view)
		case display.FormatYAML:
			if err := display.OutputYAML(w, view); err != nil {
				return err
			}
			_, err := fmt.Fprintln(w, "---")
			return err
		default:
			row := display.FactsTable([]display.FactView{view})[1]
			return display.Render(w, display.FormatCSV, nil, display.Table{row})
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
