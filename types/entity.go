// Package types defines the entities of a logbook: fact entries, fact types,
// items and records.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/units"
	"github.com/teranos/dlog/value"
)

// DefaultRecordName is the record facts go to when none is given.
const DefaultRecordName = "Inbox"

// Mockable for tests
var (
	timeNow = time.Now
	newID   = uuid.New
)

// Fact is one logged observation. It is immutable once written.
type Fact struct {
	ID        uuid.UUID
	Name      string
	Value     value.Value
	Unit      units.Unit
	Attribs   []attrs.Attrib
	Notes     []attrs.Note
	CreatedAt time.Time
}

// AbstractFact is a fact type: the permanent definition of a fact name, with
// the default unit, attributes and notes that apply to every entry of it.
type AbstractFact struct {
	ID        uuid.UUID
	Name      string
	Unit      units.Unit
	Attribs   []attrs.Attrib
	Notes     []attrs.Note
	CreatedAt time.Time
}

// Item is a named subject facts can be attached to. It belongs to the record
// identified by RecordID.
type Item struct {
	ID        uuid.UUID
	Name      string
	RecordID  uuid.UUID
	Attribs   []attrs.Attrib
	Notes     []attrs.Note
	CreatedAt time.Time
}

// Record is a named grouping of items and fact types that owns a storage
// directory. An empty Dir means the storage default, <data_dir>/<name>.
type Record struct {
	ID          uuid.UUID
	Name        string
	Description string
	Items       []*Item
	FactTypes   []*AbstractFact
	Dir         string
	CreatedAt   time.Time
}

func checkName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewInvalidNameError(name, kind+" name is empty")
	}
	return name, nil
}

// NewFact builds a fact entry from raw tokens. The value is classified with
// value.Infer, so "5" is RealNumber(5).
func NewFact(name, rawValue string, unitTokens, attribTokens, noteTokens []string) (*Fact, error) {
	return newFact(name, value.Infer(rawValue), unitTokens, attribTokens, noteTokens)
}

// NewTypedFact is NewFact using the rich classifier chain, which also
// recognises durations, dates, weekdays, months and option sets.
func NewTypedFact(name, rawValue string, unitTokens, attribTokens, noteTokens []string) (*Fact, error) {
	return newFact(name, value.InferTyped(rawValue), unitTokens, attribTokens, noteTokens)
}

func newFact(name string, val value.Value, unitTokens, attribTokens, noteTokens []string) (*Fact, error) {
	name, err := checkName("fact", name)
	if err != nil {
		return nil, err
	}
	attribs, err := attrs.ParseAll(attribTokens)
	if err != nil {
		return nil, errors.Wrapf(err, "fact %s", name)
	}
	return &Fact{
		ID:        newID(),
		Name:      name,
		Value:     val,
		Unit:      units.Resolve(unitTokens),
		Attribs:   attribs,
		Notes:     attrs.Notes(noteTokens),
		CreatedAt: timeNow(),
	}, nil
}

// NewAbstractFact builds a fact type from the linked unit, attribute and note
// tokens.
func NewAbstractFact(name string, unitTokens, linkedAttribTokens, linkedNoteTokens []string) (*AbstractFact, error) {
	name, err := checkName("fact type", name)
	if err != nil {
		return nil, err
	}
	attribs, err := attrs.ParseAll(linkedAttribTokens)
	if err != nil {
		return nil, errors.Wrapf(err, "fact type %s", name)
	}
	return &AbstractFact{
		ID:        newID(),
		Name:      name,
		Unit:      units.Resolve(unitTokens),
		Attribs:   attribs,
		Notes:     attrs.Notes(linkedNoteTokens),
		CreatedAt: timeNow(),
	}, nil
}

// Merge folds the definition in other into ft: a unit replaces the current
// one, new attributes and notes are appended. Identity and creation time are
// kept. Merge reports whether ft changed.
func (ft *AbstractFact) Merge(other *AbstractFact) bool {
	changed := false
	if !other.Unit.IsNone() && !other.Unit.Equal(ft.Unit) {
		ft.Unit = other.Unit
		changed = true
	}
	if merged := attrs.Merge(ft.Attribs, other.Attribs); len(merged) != len(ft.Attribs) {
		ft.Attribs = merged
		changed = true
	}
	for _, n := range other.Notes {
		if !hasNote(ft.Notes, n) {
			ft.Notes = append(ft.Notes, n)
			changed = true
		}
	}
	return changed
}

func hasNote(list []attrs.Note, n attrs.Note) bool {
	for _, m := range list {
		if m == n {
			return true
		}
	}
	return false
}

// Apply gives f the default unit of its type when the entry has none.
func (ft *AbstractFact) Apply(f *Fact) {
	if f.Unit.IsNone() {
		f.Unit = ft.Unit
	}
}

// NewItem builds an item belonging to the record with id recordID.
func NewItem(name string, recordID uuid.UUID) (*Item, error) {
	name, err := checkName("item", name)
	if err != nil {
		return nil, err
	}
	return &Item{
		ID:        newID(),
		Name:      name,
		RecordID:  recordID,
		CreatedAt: timeNow(),
	}, nil
}

// NewRecord builds a record stored in dir (empty for the default location).
func NewRecord(name, dir string) (*Record, error) {
	name, err := checkName("record", name)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:        newID(),
		Name:      name,
		Dir:       dir,
		CreatedAt: timeNow(),
	}, nil
}

// DefaultRecord returns the built-in Inbox record under dataDir.
func DefaultRecord(dataDir string) *Record {
	rec, _ := NewRecord(DefaultRecordName, "")
	rec.Dir = RecordDir(dataDir, DefaultRecordName)
	return rec
}

// CheckItemName rejects an item named like r: its file would be r's own.
func (r *Record) CheckItemName(name string) error {
	if !strings.EqualFold(strings.TrimSpace(name), r.Name) {
		return nil
	}
	err := errors.NewInvalidNameError(name, "item has the same name as its record")
	return errors.WithHintf(err, "%s/%s.csv already holds the record's own entries; pick another item name", r.Name, r.Name)
}

// AddItem creates an item owned by r and registers it.
func (r *Record) AddItem(name string) (*Item, error) {
	if err := r.CheckItemName(name); err != nil {
		return nil, err
	}
	if existing := r.Item(name); existing != nil {
		return existing, nil
	}
	item, err := NewItem(name, r.ID)
	if err != nil {
		return nil, err
	}
	r.Items = append(r.Items, item)
	return item, nil
}

// Item looks up an item of r by name.
func (r *Record) Item(name string) *Item {
	for _, it := range r.Items {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// Owns reports whether item belongs to r.
func (r *Record) Owns(item *Item) bool {
	return item != nil && item.RecordID == r.ID
}
