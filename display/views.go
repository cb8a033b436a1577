package display

import (
	"time"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/logbook"
	"github.com/teranos/dlog/storage"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/value"
)

// FactView is the structured form of a listed fact.
type FactView struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Value     string         `json:"value" yaml:"value"`
	Kind      string         `json:"kind" yaml:"kind"`
	Unit      string         `json:"unit,omitempty" yaml:"unit,omitempty"`
	Attribs   map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Notes     []string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	Record    string         `json:"record,omitempty" yaml:"record,omitempty"`
	Item      string         `json:"item,omitempty" yaml:"item,omitempty"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// NewFactView flattens f; record and item may be empty.
func NewFactView(f *types.Fact, record, item string) FactView {
	v := FactView{
		ID:        f.ID.String(),
		Name:      f.Name,
		Value:     value.Render(f.Value),
		Unit:      f.Unit.String(),
		Record:    record,
		Item:      item,
		CreatedAt: f.CreatedAt,
	}
	if f.Value != nil {
		v.Kind = f.Value.Kind().String()
	}
	if len(f.Attribs) > 0 {
		v.Attribs = attrs.Map(f.Attribs)
	}
	for _, n := range f.Notes {
		v.Notes = append(v.Notes, n.Text)
	}
	return v
}

// EntryViews converts listed entries
func EntryViews(entries []storage.Entry) []FactView {
	out := make([]FactView, len(entries))
	for i, e := range entries {
		out[i] = NewFactView(e.Fact, e.Record, e.Item)
	}
	return out
}

// FactTypeView is the structured form of a fact type.
type FactTypeView struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Unit      string         `json:"unit,omitempty" yaml:"unit,omitempty"`
	Attribs   map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Notes     []string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// NewFactTypeView flattens ft
func NewFactTypeView(ft *types.AbstractFact) FactTypeView {
	v := FactTypeView{
		ID:        ft.ID.String(),
		Name:      ft.Name,
		Unit:      ft.Unit.String(),
		CreatedAt: ft.CreatedAt,
	}
	if len(ft.Attribs) > 0 {
		v.Attribs = attrs.Map(ft.Attribs)
	}
	for _, n := range ft.Notes {
		v.Notes = append(v.Notes, n.Text)
	}
	return v
}

// RecordView is the structured form of a record.
type RecordView struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Dir         string    `json:"dir" yaml:"dir"`
	Items       []string  `json:"items,omitempty" yaml:"items,omitempty"`
	FactTypes   []string  `json:"fact_types,omitempty" yaml:"fact_types,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewRecordView flattens rec; dataDir resolves its default directory.
func NewRecordView(rec *types.Record, dataDir string) RecordView {
	v := RecordView{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		Description: rec.Description,
		Dir:         rec.DirIn(dataDir),
		CreatedAt:   rec.CreatedAt,
	}
	for _, it := range rec.Items {
		v.Items = append(v.Items, it.Name)
	}
	for _, ft := range rec.FactTypes {
		v.FactTypes = append(v.FactTypes, ft.Name)
	}
	return v
}

// ItemView is the structured form of an item.
type ItemView struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	RecordID  string    `json:"record_id" yaml:"record_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewItemView flattens it
func NewItemView(it *types.Item) ItemView {
	return ItemView{
		ID:        it.ID.String(),
		Name:      it.Name,
		RecordID:  it.RecordID.String(),
		CreatedAt: it.CreatedAt,
	}
}

// LoggedView is the structured form of a logged fact.
type LoggedView struct {
	Fact            FactView `json:"fact" yaml:"fact"`
	FactTypeCreated bool     `json:"fact_type_created" yaml:"fact_type_created"`
	Path            string   `json:"path" yaml:"path"`
}

// NewLoggedView flattens a logbook result
func NewLoggedView(res *logbook.Result) LoggedView {
	return LoggedView{
		Fact:            NewFactView(res.Fact, res.Record, res.Item),
		FactTypeCreated: res.FactTypeCreated,
		Path:            res.Path,
	}
}
