package storage

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/value"
)

// Filter selects facts for listing. Every criterion that is set must match;
// the zero Filter matches everything.
type Filter struct {
	Records      []string
	Items        []string
	Name         string
	Attribute    string
	Unit         string
	NoteContains string
	Value        string
	After        time.Time
	Before       time.Time
}

// InRecord keeps facts stored in one of the named records
func (f Filter) InRecord(names ...string) Filter {
	f.Records = append(append([]string(nil), f.Records...), names...)
	return f
}

// InItems keeps facts stored in one of the named items
func (f Filter) InItems(names ...string) Filter {
	f.Items = append(append([]string(nil), f.Items...), names...)
	return f
}

// NameContains keeps facts whose name contains s, ignoring case
func (f Filter) NameContains(s string) Filter { f.Name = s; return f }

// WithAttribute keeps facts carrying the attribute "name" or "name=value"
func (f Filter) WithAttribute(token string) Filter { f.Attribute = token; return f }

// WithUnit keeps facts whose rendered unit is u, ignoring case
func (f Filter) WithUnit(u string) Filter { f.Unit = u; return f }

// NotesContaining keeps facts with a note containing s, ignoring case
func (f Filter) NotesContaining(s string) Filter { f.NoteContains = s; return f }

// HasValue keeps facts whose value equals raw once inferred
func (f Filter) HasValue(raw string) Filter { f.Value = raw; return f }

// CreatedAfter keeps facts created at or after t
func (f Filter) CreatedAfter(t time.Time) Filter { f.After = t; return f }

// CreatedBefore keeps facts created before t
func (f Filter) CreatedBefore(t time.Time) Filter { f.Before = t; return f }

// Match applies the fact-level criteria to fact.
func (f Filter) Match(fact *types.Fact) bool {
	if f.Name != "" && !containsFold(fact.Name, f.Name) {
		return false
	}
	if f.Attribute != "" && !matchAttribute(fact.Attribs, f.Attribute) {
		return false
	}
	if f.Unit != "" && !strings.EqualFold(fact.Unit.String(), f.Unit) {
		return false
	}
	if f.NoteContains != "" {
		found := false
		for _, n := range fact.Notes {
			if containsFold(n.Text, f.NoteContains) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Value != "" && !matchValue(fact.Value, f.Value) {
		return false
	}
	if !f.After.IsZero() && fact.CreatedAt.Before(f.After) {
		return false
	}
	if !f.Before.IsZero() && !fact.CreatedAt.Before(f.Before) {
		return false
	}
	return true
}

func (f Filter) matchRecord(name string) bool { return len(f.Records) == 0 || oneOf(name, f.Records) }

// matchItem treats "" as the record's own file, which an item filter excludes.
func (f Filter) matchItem(name string) bool {
	if len(f.Items) == 0 {
		return true
	}
	return name != "" && oneOf(name, f.Items)
}

// matchValue compares rendered forms, then values, then numbers so that
// "5" finds both Integer(5) and Real(5).
func matchValue(v value.Value, raw string) bool {
	if value.Render(v) == raw {
		return true
	}
	want := value.InferTyped(raw)
	if value.Equal(v, want) {
		return true
	}
	if !isNumber(v) || !isNumber(want) {
		return false
	}
	a, _ := value.AsFloat(v)
	b, _ := value.AsFloat(want)
	return a == b
}

func isNumber(v value.Value) bool {
	switch v.(type) {
	case value.Integer, value.Real:
		return true
	}
	return false
}

func matchAttribute(list []attrs.Attrib, token string) bool {
	want, err := attrs.Parse(token)
	if err != nil {
		return false
	}
	got, ok := attrs.Lookup(list, want.Name)
	if !ok {
		return false
	}
	return !want.HasValue || (got.HasValue && got.Value == want.Value)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func oneOf(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Entry is a fact with the record and item it was read from. Item is empty
// for the record's own file.
type Entry struct {
	Record string
	Item   string
	Path   string
	Fact   *types.Fact
}

// Sources returns the fact files selected by the record and item criteria
// of f, in record then item order.
func (s *Store) Sources(f Filter) ([]Entry, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, rec := range records {
		if !f.matchRecord(rec.Name) {
			continue
		}
		if own := rec.CSVPath(s.dataDir); f.matchItem("") && fileExists(own) {
			out = append(out, Entry{Record: rec.Name, Path: own})
		}
		items, err := s.Items(rec)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if !f.matchItem(it.Name) {
				continue
			}
			path := rec.ItemPath(s.dataDir, it)
			if path == rec.CSVPath(s.dataDir) {
				continue
			}
			if !fileExists(path) {
				continue
			}
			out = append(out, Entry{Record: rec.Name, Item: it.Name, Path: path})
		}
	}
	return out, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List reads every selected file and returns the matching facts ordered by
// creation time. The first unreadable file aborts the listing.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	sources, err := s.Sources(f)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(sources))
	for i, src := range sources {
		paths[i] = src.Path
	}

	results := s.ReadAll(ctx, paths)
	if err := FirstErr(results); err != nil {
		return nil, err
	}

	var entries []Entry
	for i, r := range results {
		for _, fact := range r.Facts {
			if !f.Match(fact) {
				continue
			}
			e := sources[i]
			e.Fact = fact
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Fact.CreatedAt.Before(entries[j].Fact.CreatedAt)
	})
	return entries, nil
}
