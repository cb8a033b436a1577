// Package sym defines the glyphs dlog prints next to entities and uses as a
// log field. They are stable across CLI output and documentation.
package sym

// Entity glyphs
const (
	Fact     = "•" // a logged fact entry
	FactType = "◇" // a fact type (abstract fact)
	Record   = "▤" // a record and its directory
	Item     = "◆" // an item inside a record
	Attrib   = "#" // attribute tag
	Note     = "✎" // free-text note
)

// System glyphs
const (
	AM    = "≡" // configuration
	DB    = "⊔" // storage layer (CSV and sqlite)
	Stats = "∑" // aggregate counts
	At    = "✦" // timestamp
)

// CommandToSymbol maps a CLI command to its glyph
var CommandToSymbol = map[string]string{
	"fact":   Fact,
	"type":   FactType,
	"record": Record,
	"item":   Item,
	"am":     AM,
	"stats":  Stats,
}

// SymbolToCommand is the inverse of CommandToSymbol
var SymbolToCommand = func() map[string]string {
	m := make(map[string]string, len(CommandToSymbol))
	for cmd, s := range CommandToSymbol {
		m[s] = cmd
	}
	return m
}()

// Prefix returns "<glyph> text" for command output
func Prefix(glyph, text string) string {
	return glyph + " " + text
}
