package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dlog/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token    string
		expected Attrib
	}{
		{"dreamt", Attrib{Name: "dreamt"}},
		{"at=home", Attrib{Name: "at", Value: "home", HasValue: true}},
		{"expr=a=b", Attrib{Name: "expr", Value: "a=b", HasValue: true}},
		{"empty=", Attrib{Name: "empty", Value: "", HasValue: true}},
		{" spaced = value ", Attrib{Name: "spaced", Value: "value", HasValue: true}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Parse(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	a, err := Parse("name=value")
	require.NoError(t, err)
	assert.True(t, a.HasValue)
	assert.Equal(t, "value", a.Value)

	a, err = Parse("name")
	require.NoError(t, err)
	assert.False(t, a.HasValue)
	assert.Empty(t, a.Value)
}

func TestParseRejectsMissingName(t *testing.T) {
	for _, tok := range []string{"", "  ", "=x"} {
		_, err := Parse(tok)
		assert.True(t, errors.IsInvalidRequestError(err), tok)
	}
}

func TestParseAll(t *testing.T) {
	got, err := ParseAll([]string{"health", "at=home"})
	require.NoError(t, err)
	assert.Equal(t, []Attrib{New("health"), WithValue("at", "home")}, got)

	_, err = ParseAll([]string{"ok", "=bad"})
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "dreamt, at=home", Join([]Attrib{New("dreamt"), WithValue("at", "home")}))
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "slept late, woke at 6", JoinNotes(Notes([]string{"slept late", "woke at 6"})))
}

func TestMerge(t *testing.T) {
	base := []Attrib{New("health")}
	got := Merge(base, []Attrib{New("health"), WithValue("at", "home"), New("health")})

	assert.Equal(t, []Attrib{New("health"), WithValue("at", "home")}, got)
	assert.Len(t, base, 1, "base must not be modified")
}

func TestLookupAndHas(t *testing.T) {
	list := []Attrib{New("a"), WithValue("b", "2")}

	assert.True(t, Has(list, "b"))
	assert.False(t, Has(list, "c"))

	b, ok := Lookup(list, "b")
	require.True(t, ok)
	assert.Equal(t, "2", b.Value)
	assert.Equal(t, []string{"a", "b"}, Names(list))
}

func TestMap(t *testing.T) {
	assert.Nil(t, Map(nil))
	assert.Equal(t, map[string]any{"a": true, "b": "2"}, Map([]Attrib{New("a"), WithValue("b", "2")}))
}

func TestListCodec(t *testing.T) {
	elems := []string{"plain", "with, comma", `back\slash`, "trailing\\"}
	field := EncodeList(elems)

	assert.Equal(t, `plain,with\, comma,back\\slash,trailing\\`, field)
	assert.Equal(t, elems, DecodeList(field))
}

func TestDecodeList(t *testing.T) {
	assert.Nil(t, DecodeList(""))
	assert.Equal(t, []string{"a", "b"}, DecodeList(" a , ,b,"))
	assert.Equal(t, []string{`x\`}, DecodeList(`x\`))
}

func TestAttribAndNoteCodec(t *testing.T) {
	list := []Attrib{New("dreamt"), WithValue("at", "home, sweet home")}
	assert.Equal(t, list, DecodeAttribs(EncodeAttribs(list)))

	notes := Notes([]string{"first, really", "second"})
	assert.Equal(t, notes, DecodeNotes(EncodeNotes(notes)))
}
