package value

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	assert.Equal(t, []string{"empty", "real", "integer", "range", "boolean"}, EntryChain().Names())
	assert.Equal(t, []string{
		"empty", "integer", "real", "range", "boolean",
		"duration", "datetime", "weekday", "month", "calendar-date", "option",
	}, TypedChain().Names())
}

func TestChainCopiesAreIndependent(t *testing.T) {
	c := EntryChain()
	c[0] = Classifier{Name: "changed", Classify: func(string) (Value, bool) { return nil, false }}
	assert.Equal(t, "empty", EntryChain()[0].Name)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		raw      string
		expected Value
	}{
		{"", Boolean(true)},
		{"  ", Boolean(true)},
		{"5", Real(5)},
		{"-2", Real(-2)},
		{"2.5", Real(2.5)},
		{"6-8", Range{Low: 6, High: 8}},
		{"-3-5", Range{Low: -3, High: 5}},
		{"yes", Boolean(true)},
		{"N", Boolean(false)},
		{"great", Text("great")},
		{"1-2-3", Text("1-2-3")},
		{"nan", Text("nan")},
		{"inf", Text("inf")},
		{"5 min", Text("5 min")},
		{"tea|coffee", Text("tea|coffee")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, Infer(tt.raw))
		})
	}
}

func TestInferTyped(t *testing.T) {
	tests := []struct {
		raw        string
		expected   Value
		classifier string
	}{
		{"", Boolean(true), "empty"},
		{"5", Integer(5), "integer"},
		{"5.5", Real(5.5), "real"},
		{"99999999999", Real(99999999999), "real"},
		{"1-5", Range{Low: 1, High: 5}, "range"},
		{"t", Boolean(true), "boolean"},
		{"5 min", Duration(5 * time.Minute), "duration"},
		{"1h30m", Duration(90 * time.Minute), "duration"},
		{"2024-01-15T10:00:00Z", DateLike{Precision: PrecisionDatetime, Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}, "datetime"},
		{"Fri", DateLike{Precision: PrecisionWeekday, Weekday: time.Friday}, "weekday"},
		{"september", DateLike{Precision: PrecisionMonth, Month: time.September}, "month"},
		{"2024-01-15", DateLike{Precision: PrecisionDay, Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}, "calendar-date"},
		{"tea*|coffee", Option{"tea": true, "coffee": false}, "option"},
		{"a||b", Text("a||b"), "text"},
		{"great", Text("great"), "text"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, name := TypedChain().Explain(tt.raw)
			assert.Equal(t, tt.classifier, name)
			assert.True(t, Equal(tt.expected, got), "expected %v, got %v", tt.expected, got)
		})
	}

	got := InferTyped("yesterday")
	require.Equal(t, KindDateLike, got.Kind())
	assert.Equal(t, PrecisionDatetime, got.(DateLike).Precision)
}

func TestIntegerStrings(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := int32(r.Int63n(1<<31) - 1<<30)
		s := strconv.FormatInt(int64(n), 10)
		assert.Equal(t, Integer(n), InferTyped(s), s)
	}
}

func TestRealStrings(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		s := strconv.Itoa(r.Intn(20000)-10000) + "." + strconv.Itoa(r.Intn(1000))
		f, err := strconv.ParseFloat(s, 32)
		require.NoError(t, err)
		assert.Equal(t, Real(float32(f)), Infer(s), s)
		assert.Equal(t, Real(float32(f)), InferTyped(s), s)
	}
}

func TestBooleanWords(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "Yes", "t", "Y"} {
		assert.Equal(t, Boolean(true), Infer(s), s)
		assert.Equal(t, Boolean(true), InferTyped(s), s)
	}
	for _, s := range []string{"false", "No", "F", "n"} {
		assert.Equal(t, Boolean(false), Infer(s), s)
		assert.Equal(t, Boolean(false), InferTyped(s), s)
	}
}

func TestRangeStrings(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		low, high := r.Intn(1000), r.Intn(1000)
		s := strconv.Itoa(low) + "-" + strconv.Itoa(high)
		expected := Range{Low: float32(low), High: float32(high)}
		assert.Equal(t, expected, Infer(s), s)
		assert.Equal(t, expected, InferTyped(s), s)
	}
}

func TestInferIsTotal(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	alphabet := []byte("0123456789-.|*:, tTyYnNaemohrs/\\=@é")
	for i := 0; i < 2000; i++ {
		b := make([]byte, r.Intn(12))
		for j := range b {
			b[j] = alphabet[r.Intn(len(alphabet))]
		}
		s := string(b)
		assert.NotPanics(t, func() {
			assert.NotNil(t, Infer(s))
			assert.NotNil(t, InferTyped(s))
		}, "%q", s)
	}
}
