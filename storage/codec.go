package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/units"
	"github.com/teranos/dlog/value"
)

// TimeLayout is the timestamp format of the Datetime column (RFC 2822).
const TimeLayout = time.RFC1123Z

// FactHeader is the header row of every fact file.
var FactHeader = []string{"Id", "Fact", "Value", "Units", "Attribute", "Notes", "Datetime"}

// Column positions in FactHeader
const (
	colID = iota
	colName
	colValue
	colUnits
	colAttribs
	colNotes
	colTime
	factColumns
)

// EncodeFact renders f as a row in FactHeader order.
func EncodeFact(f *types.Fact) []string {
	return []string{
		f.ID.String(),
		f.Name,
		value.Render(f.Value),
		f.Unit.String(),
		attrs.EncodeAttribs(f.Attribs),
		attrs.EncodeNotes(f.Notes),
		f.CreatedAt.Format(TimeLayout),
	}
}

// DecodeFact reads a row written by EncodeFact. The value is re-inferred with
// the typed chain, so "5.0" reads back as a real number and "5" as an
// integer. Columns past Datetime are read as additional attributes.
func DecodeFact(path string, row int, record []string) (*types.Fact, error) {
	if len(record) < factColumns {
		return nil, errors.NewMalformedRowError(path, row, "need 7 columns")
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	id, err := uuid.Parse(record[colID])
	if err != nil {
		return nil, errors.NewMalformedRowError(path, row, "bad id "+record[colID])
	}
	if record[colName] == "" {
		return nil, errors.NewMalformedRowError(path, row, "empty fact name")
	}
	created, err := time.Parse(TimeLayout, record[colTime])
	if err != nil {
		return nil, errors.NewMalformedRowError(path, row, "bad datetime "+record[colTime])
	}

	attribs := attrs.DecodeAttribs(record[colAttribs])
	for _, extra := range record[factColumns:] {
		if extra == "" {
			continue
		}
		a, err := attrs.Parse(extra)
		if err != nil {
			return nil, errors.NewMalformedRowError(path, row, err.Error())
		}
		attribs = append(attribs, a)
	}

	return &types.Fact{
		ID:        id,
		Name:      record[colName],
		Value:     value.InferTyped(record[colValue]),
		Unit:      units.Parse(record[colUnits]),
		Attribs:   attribs,
		Notes:     attrs.DecodeNotes(record[colNotes]),
		CreatedAt: created,
	}, nil
}

// isHeader reports whether record is a header row
func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), FactHeader[0])
}
