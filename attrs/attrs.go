// Package attrs provides the attribute and note tokens attached to facts,
// fact types, items and records.
//
// An attribute is a tag optionally carrying a value:
//
//	attrs.Parse("dreamt")     // {Name: "dreamt"}
//	attrs.Parse("at=home")    // {Name: "at", Value: "home", HasValue: true}
//
// A note is free text kept verbatim.
package attrs

import (
	"strings"

	"github.com/teranos/dlog/errors"
)

// Attrib is a tag with an optional value. Equality is structural.
type Attrib struct {
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	HasValue bool   `json:"-" yaml:"-"`
}

// Note is a free-form annotation.
type Note struct {
	Text string `json:"text" yaml:"text"`
}

// New returns an attribute without a value.
func New(name string) Attrib { return Attrib{Name: name} }

// WithValue returns an attribute carrying value.
func WithValue(name, value string) Attrib {
	return Attrib{Name: name, Value: value, HasValue: true}
}

// Parse reads a "name" or "name=value" token. Only the first '=' splits, so
// "expr=a=b" has the value "a=b".
func Parse(token string) (Attrib, error) {
	name, value, found := strings.Cut(token, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Attrib{}, errors.NewInvalidRequestError("attribute %q has no name", token)
	}
	if !found {
		return New(name), nil
	}
	return WithValue(name, strings.TrimSpace(value)), nil
}

// ParseAll parses every token, stopping at the first invalid one.
func ParseAll(tokens []string) ([]Attrib, error) {
	out := make([]Attrib, 0, len(tokens))
	for _, tok := range tokens {
		a, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// String renders "name" or "name=value".
func (a Attrib) String() string {
	if !a.HasValue {
		return a.Name
	}
	return a.Name + "=" + a.Value
}

// NewNote stores text verbatim.
func NewNote(text string) Note { return Note{Text: text} }

// Notes wraps every token as a note.
func Notes(tokens []string) []Note {
	out := make([]Note, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, NewNote(tok))
	}
	return out
}

func (n Note) String() string { return n.Text }

// Join renders attributes for display, comma separated.
func Join(list []Attrib) string {
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// JoinNotes renders notes for display, comma separated.
func JoinNotes(list []Note) string {
	parts := make([]string, len(list))
	for i, n := range list {
		parts[i] = n.Text
	}
	return strings.Join(parts, ", ")
}

// Names returns the attribute names in order.
func Names(list []Attrib) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name
	}
	return out
}

// Has reports whether list holds an attribute called name.
func Has(list []Attrib, name string) bool {
	for _, a := range list {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Lookup returns the first attribute called name.
func Lookup(list []Attrib, name string) (Attrib, bool) {
	for _, a := range list {
		if a.Name == name {
			return a, true
		}
	}
	return Attrib{}, false
}

// Merge appends the attributes of extra that base does not already hold.
func Merge(base, extra []Attrib) []Attrib {
	out := append([]Attrib(nil), base...)
	for _, a := range extra {
		if !contains(out, a) {
			out = append(out, a)
		}
	}
	return out
}

func contains(list []Attrib, a Attrib) bool {
	for _, b := range list {
		if a == b {
			return true
		}
	}
	return false
}

// Map converts attributes to a map for structured output. Attributes
// without a value map to true.
func Map(list []Attrib) map[string]any {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]any, len(list))
	for _, a := range list {
		if a.HasValue {
			m[a.Name] = a.Value
		} else {
			m[a.Name] = true
		}
	}
	return m
}
