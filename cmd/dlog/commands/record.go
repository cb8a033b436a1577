package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dlog/display"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
)

// RecordCmd manages records
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: sym.Record + " Manage records",
	Long: sym.Record + ` record — Manage records

A record is a directory under the data directory holding its own entries,
one CSV file per item and a record.toml with ids and descriptions.

Examples:
  dlog record new gym -d "strength training"
  dlog record ls
  dlog record show gym`,
}

var recordNewCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordNew,
}

var recordLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List records",
	Args:  cobra.NoArgs,
	RunE:  runRecordLs,
}

var recordShowCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Show a record with its items, fact types and entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecordShow,
}

func init() {
	recordNewCmd.Flags().StringP("description", "d", "", "Record description")
	recordLsCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")
	recordShowCmd.Flags().String("format", display.FormatTable, "Output format: table, json, yaml, csv")

	RecordCmd.AddCommand(recordNewCmd)
	RecordCmd.AddCommand(recordLsCmd)
	RecordCmd.AddCommand(recordShowCmd)
}

func runRecordNew(cmd *cobra.Command, args []string) error {
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	rec, err := lb.CreateRecord(args[0], stringFlag(cmd, "description"))
	if err != nil {
		return err
	}
	view := display.NewRecordView(rec, lb.Store().DataDir())
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), view)
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s %s at %s", sym.Record, rec.Name, view.Dir)
	return nil
}

func runRecordLs(cmd *cobra.Command, args []string) error {
	format, err := display.Format(cmd)
	if err != nil {
		return err
	}
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	records, err := lb.Records()
	if err != nil {
		return err
	}
	views := make([]display.RecordView, 0, len(records))
	for _, rec := range records {
		if rec.Items, err = lb.Store().Items(rec); err != nil {
			return err
		}
		views = append(views, display.NewRecordView(rec, lb.Store().DataDir()))
	}
	return display.Render(cmd.OutOrStdout(), format, views, display.RecordsTable(views))
}

// recordSummary is the structured form of record show
type recordSummary struct {
	Record  display.RecordView `json:"record" yaml:"record"`
	Entries []display.FactView `json:"entries" yaml:"entries"`
}

func runRecordShow(cmd *cobra.Command, args []string) error {
	format, err := display.Format(cmd)
	if err != nil {
		return err
	}
	lb, err := openLogbook(cmd)
	if err != nil {
		return err
	}
	defer lb.Close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	sum, err := lb.Describe(cmd.Context(), name)
	if err != nil {
		return err
	}

	out := recordSummary{
		Record:  display.NewRecordView(sum.Record, lb.Store().DataDir()),
		Entries: display.EntryViews(sum.Entries),
	}
	switch format {
	case display.FormatJSON:
		return display.OutputJSON(cmd.OutOrStdout(), out)
	case display.FormatYAML:
		return display.OutputYAML(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	if err := display.Render(w, format, nil, display.RecordsTable([]display.RecordView{out.Record})); err != nil {
		return err
	}
	if len(sum.Record.FactTypes) > 0 {
		fts := factTypeViews(sum.Record.FactTypes)
		if err := display.Render(w, format, nil, display.FactTypesTable(fts)); err != nil {
			return err
		}
	}
	return display.Render(w, format, nil, display.FactsTable(out.Entries))
}

func recordNames(records []*types.Record) map[string]string {
	m := make(map[string]string, len(records))
	for _, rec := range records {
		m[rec.ID.String()] = rec.Name
	}
	return m
}
