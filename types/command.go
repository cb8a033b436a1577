package types

import (
	"github.com/teranos/dlog/units"
)

// FactCommand holds the raw fields gathered for one logging action, before
// any entity is built. Entry-scoped fields apply to this entry only; Link
// fields are persisted on the fact type.
type FactCommand struct {
	Name  string
	Value string
	Typed bool

	Units   []string
	Attribs []string
	Notes   []string

	LinkUnits   []string
	LinkAttribs []string
	LinkNotes   []string

	Record string
	Item   string
}

// ToFact builds the entry. A linked unit overrides the entry unit.
func (cmd *FactCommand) ToFact() (*Fact, error) {
	build := NewFact
	if cmd.Typed {
		build = NewTypedFact
	}
	f, err := build(cmd.Name, cmd.Value, cmd.Units, cmd.Attribs, cmd.Notes)
	if err != nil {
		return nil, err
	}
	f.Unit = units.Override(f.Unit, units.Resolve(cmd.LinkUnits))
	return f, nil
}

// ToAbstractFact builds the fact type definition carried by the link fields.
func (cmd *FactCommand) ToAbstractFact() (*AbstractFact, error) {
	return NewAbstractFact(cmd.Name, cmd.LinkUnits, cmd.LinkAttribs, cmd.LinkNotes)
}
