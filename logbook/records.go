package logbook

import (
	"context"
	"sort"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/prompt"
	"github.com/teranos/dlog/storage"
	"github.com/teranos/dlog/types"
)

// CreateRecord creates a record, or returns the existing one of that name.
func (lb *Logbook) CreateRecord(name, description string) (*types.Record, error) {
	if err := prompt.ValidateName(name); err != nil {
		return nil, err
	}
	rec, err := lb.store.NewRecord(name)
	if err != nil {
		return nil, err
	}
	rec.Description = description
	if _, err := lb.store.GetOrCreate(rec); err != nil {
		return nil, err
	}
	lb.logger.Infow("Record ready", logger.FieldRecord, rec.Name)
	return rec, nil
}

// Record looks up an existing record; unknown names are ErrNotFound.
func (lb *Logbook) Record(name string) (*types.Record, error) {
	if name == "" {
		name = lb.store.InboxName()
	}
	return lb.store.LoadRecord(name)
}

// Records lists every record
func (lb *Logbook) Records() ([]*types.Record, error) {
	return lb.store.Records()
}

// CreateItem adds an item to an existing record.
func (lb *Logbook) CreateItem(recordName, name string) (*types.Item, error) {
	if err := prompt.ValidateName(name); err != nil {
		return nil, err
	}
	rec, err := lb.Record(recordName)
	if err != nil {
		return nil, err
	}
	return lb.store.AddItem(rec, name)
}

// Items lists the items of a record, or of every record when recordName is
// empty.
func (lb *Logbook) Items(recordName string) ([]*types.Item, error) {
	var records []*types.Record
	if recordName != "" {
		rec, err := lb.Record(recordName)
		if err != nil {
			return nil, err
		}
		records = []*types.Record{rec}
	} else {
		var err error
		if records, err = lb.store.Records(); err != nil {
			return nil, err
		}
	}

	var items []*types.Item
	for _, rec := range records {
		recItems, err := lb.store.Items(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, recItems...)
	}
	return items, nil
}

// List returns the facts matching f. Named records and items must exist.
func (lb *Logbook) List(ctx context.Context, f storage.Filter) ([]storage.Entry, error) {
	for _, name := range f.Records {
		if _, err := lb.Record(name); err != nil {
			return nil, err
		}
	}
	return lb.store.List(ctx, f)
}

// Follow streams facts appended to a record, or to one of its items.
func (lb *Logbook) Follow(ctx context.Context, recordName, itemName string, fn func(*types.Fact) error) error {
	rec, err := lb.Record(recordName)
	if err != nil {
		return err
	}
	path := rec.CSVPath(lb.store.DataDir())
	if itemName != "" {
		item, err := lb.store.Item(rec, itemName)
		if err != nil {
			return err
		}
		path = rec.ItemPath(lb.store.DataDir(), item)
	}
	return lb.store.Follow(ctx, path, fn)
}

// Stats summarises a logbook.
type Stats struct {
	Records    int `json:"records" yaml:"records"`
	Items      int `json:"items" yaml:"items"`
	Facts      int `json:"facts" yaml:"facts"`
	FactNames  int `json:"fact_names" yaml:"fact_names"`
	Attributes int `json:"attributes" yaml:"attributes"`
	FactTypes  int `json:"fact_types" yaml:"fact_types"`
}

// Stats counts records, items, entries, distinct fact and attribute names,
// and fact types.
func (lb *Logbook) Stats(ctx context.Context) (*Stats, error) {
	records, err := lb.store.Records()
	if err != nil {
		return nil, err
	}
	st := &Stats{Records: len(records)}
	for _, rec := range records {
		items, err := lb.store.Items(rec)
		if err != nil {
			return nil, err
		}
		st.Items += len(items)
	}

	entries, err := lb.store.List(ctx, storage.Filter{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	attribs := make(map[string]bool)
	for _, e := range entries {
		names[e.Fact.Name] = true
		for _, a := range e.Fact.Attribs {
			attribs[a.Name] = true
		}
	}
	st.Facts = len(entries)
	st.FactNames = len(names)
	st.Attributes = len(attribs)

	fts, err := lb.factTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	st.FactTypes = len(fts)
	return st, nil
}

// Summary is a record with the entries stored in it.
type Summary struct {
	Record  *types.Record
	Entries []storage.Entry
}

// Describe loads a record with its items and the fact types its entries
// use.
func (lb *Logbook) Describe(ctx context.Context, name string) (*Summary, error) {
	rec, err := lb.Record(name)
	if err != nil {
		return nil, err
	}
	if rec.Items, err = lb.store.Items(rec); err != nil {
		return nil, err
	}
	entries, err := lb.store.List(ctx, storage.Filter{}.InRecord(rec.Name))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if seen[e.Fact.Name] {
			continue
		}
		seen[e.Fact.Name] = true
		ft, err := lb.factTypes.Find(ctx, e.Fact.Name)
		if errors.IsNotFoundError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rec.FactTypes = append(rec.FactTypes, ft)
	}
	sort.Slice(rec.FactTypes, func(i, j int) bool { return rec.FactTypes[i].Name < rec.FactTypes[j].Name })
	return &Summary{Record: rec, Entries: entries}, nil
}
