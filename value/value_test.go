package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "option", KindOption.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"integer", Integer(-7), "-7"},
		{"integral real keeps decimal point", Real(5), "5.0"},
		{"fractional real", Real(2.5), "2.5"},
		{"large real", Real(1e20), "1e+20"},
		{"boolean", Boolean(false), "false"},
		{"range", Range{Low: 6, High: 8.5}, "6-8.5"},
		{"negative range", Range{Low: -3, High: 5}, "-3-5"},
		{"text", Text("great"), "great"},
		{"duration", Duration(90 * time.Minute), "1h30m0s"},
		{"day", DateLike{Precision: PrecisionDay, Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}, "2024-01-15"},
		{"datetime", DateLike{Precision: PrecisionDatetime, Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}, "2024-01-15T10:00:00Z"},
		{"weekday", DateLike{Precision: PrecisionWeekday, Weekday: time.Friday}, "Friday"},
		{"month", DateLike{Precision: PrecisionMonth, Month: time.March}, "March"},
		{"option", Option{"tea": true, "coffee": false}, "coffee|tea*"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.value))
		})
	}
}

func TestRenderedValuesReadBack(t *testing.T) {
	values := []Value{
		Integer(42),
		Real(5),
		Real(-0.25),
		Boolean(true),
		Range{Low: 1, High: 5},
		Range{Low: -3, High: 5},
		Duration(5 * time.Minute),
		DateLike{Precision: PrecisionDatetime, Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		DateLike{Precision: PrecisionDay, Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		DateLike{Precision: PrecisionWeekday, Weekday: time.Monday},
		DateLike{Precision: PrecisionMonth, Month: time.June},
		Option{"a": false, "b": true},
		Text("great"),
	}

	for _, v := range values {
		got := InferTyped(v.String())
		assert.True(t, Equal(v, got), "%s: wrote %v (%s), read %v (%s)", v.String(), v, v.Kind(), got, got.Kind())
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Integer(1), nil))
	assert.False(t, Equal(Integer(5), Real(5)))
	assert.True(t, Equal(Option{"a": true}, Option{"a": true}))
	assert.False(t, Equal(Option{"a": true}, Option{"a": false}))
	assert.False(t, Equal(Option{"a": true}, Option{"b": true}))
	assert.True(t, Equal(Real(float32(math.NaN())), Real(float32(math.NaN()))))

	paris := time.FixedZone("CET", 3600)
	a := DateLike{Precision: PrecisionDatetime, Time: time.Date(2024, 1, 15, 11, 0, 0, 0, paris)}
	b := DateLike{Precision: PrecisionDatetime, Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	assert.True(t, Equal(a, b))
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat(Range{Low: 6, High: 8})
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	f, ok = AsFloat(Duration(time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 60.0, f)

	_, ok = AsFloat(Text("x"))
	assert.False(t, ok)
}

func TestOptionSelected(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Option{"c": true, "b": false, "a": true}.Selected())
	assert.Nil(t, Option{"b": false}.Selected())
}
