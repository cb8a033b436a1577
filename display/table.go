package display

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logbook"
	"github.com/teranos/dlog/sym"
)

// Table is a header row followed by data rows.
type Table [][]string

// Render writes structured as JSON or YAML, or table as CSV or a pterm
// table, depending on format.
func Render(w io.Writer, format string, structured interface{}, table Table) error {
	switch format {
	case FormatJSON:
		return OutputJSON(w, structured)
	case FormatYAML:
		return OutputYAML(w, structured)
	case FormatCSV:
		return writeCSV(w, table)
	default:
		return writeTable(w, table)
	}
}

func writeTable(w io.Writer, t Table) error {
	if len(t) <= 1 {
		_, err := fmt.Fprintln(w, pterm.Gray("nothing to show"))
		return err
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(t)).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return nil
}

// FactsTable lays out listed facts
func FactsTable(views []FactView) Table {
	t := Table{{sym.Prefix(sym.At, "Datetime"), "Record", "Item", "Fact", "Value", "Units", "Attribute", "Notes"}}
	for _, v := range views {
		t = append(t, []string{
			v.CreatedAt.Format("2006-01-02 15:04"),
			v.Record,
			v.Item,
			v.Name,
			v.Value,
			v.Unit,
			joinAttribs(v.Attribs),
			strings.Join(v.Notes, ", "),
		})
	}
	return t
}

// FactTypesTable lays out fact types
func FactTypesTable(views []FactTypeView) Table {
	t := Table{{sym.Prefix(sym.FactType, "Fact type"), "Units", "Attribute", "Notes", "Created"}}
	for _, v := range views {
		t = append(t, []string{
			v.Name,
			v.Unit,
			joinAttribs(v.Attribs),
			strings.Join(v.Notes, ", "),
			v.CreatedAt.Format("2006-01-02"),
		})
	}
	return t
}

// RecordsTable lays out records
func RecordsTable(views []RecordView) Table {
	t := Table{{sym.Prefix(sym.Record, "Record"), "Description", "Items", "Dir"}}
	for _, v := range views {
		t = append(t, []string{
			v.Name,
			v.Description,
			strings.Join(v.Items, ", "),
			v.Dir,
		})
	}
	return t
}

// ItemsTable lays out items; records maps record ids to names.
func ItemsTable(views []ItemView, records map[string]string) Table {
	t := Table{{sym.Prefix(sym.Item, "Item"), "Record", "Created"}}
	for _, v := range views {
		t = append(t, []string{
			v.Name,
			records[v.RecordID],
			v.CreatedAt.Format("2006-01-02"),
		})
	}
	return t
}

// StatsTable lays out logbook statistics
func StatsTable(st *logbook.Stats) Table {
	row := func(label string, n int) []string { return []string{label, strconv.Itoa(n)} }
	return Table{
		{sym.Stats, "Count"},
		row("Records", st.Records),
		row("Items", st.Items),
		row("Facts", st.Facts),
		row("Fact names", st.FactNames),
		row("Attributes", st.Attributes),
		row("Fact types", st.FactTypes),
	}
}

// joinAttribs renders an attribute map as sorted name[=value] pairs
func joinAttribs(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for name, v := range m {
		if b, ok := v.(bool); ok && b {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
