// Package value holds FactValue, the typed value of a logged fact, and the
// classifier chains that infer one from the text a user typed.
package value

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindReal
	KindBoolean
	KindRange
	KindText
	KindDateLike
	KindDuration
	KindOption
)

var kindNames = map[Kind]string{
	KindInteger:  "integer",
	KindReal:     "real",
	KindBoolean:  "boolean",
	KindRange:    "range",
	KindText:     "text",
	KindDateLike: "date",
	KindDuration: "duration",
	KindOption:   "option",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a FactValue. Exactly one variant holds; values are produced by
// inference and never mutated.
type Value interface {
	Kind() Kind
	// String renders the value for storage and display. Inferring the
	// rendered string with InferTyped yields an equal value for every
	// variant except Text that looks like something else.
	String() string
	isValue()
}

type (
	Integer  int32
	Real     float32
	Boolean  bool
	Text     string
	Duration time.Duration
	// Option is a set of choices, true for the selected ones.
	Option map[string]bool
)

// Range is an inclusive low-high pair such as "6-8".
type Range struct {
	Low  float32
	High float32
}

// DatePrecision says which part of a DateLike is meaningful.
type DatePrecision int

const (
	PrecisionDatetime DatePrecision = iota
	PrecisionDay
	PrecisionWeekday
	PrecisionMonth
)

// DateLike is a point in time, a calendar day, a weekday or a month.
type DateLike struct {
	Precision DatePrecision
	Time      time.Time
	Weekday   time.Weekday
	Month     time.Month
}

func (Integer) Kind() Kind  { return KindInteger }
func (Real) Kind() Kind     { return KindReal }
func (Boolean) Kind() Kind  { return KindBoolean }
func (Range) Kind() Kind    { return KindRange }
func (Text) Kind() Kind     { return KindText }
func (DateLike) Kind() Kind { return KindDateLike }
func (Duration) Kind() Kind { return KindDuration }
func (Option) Kind() Kind   { return KindOption }

func (Integer) isValue()  {}
func (Real) isValue()     {}
func (Boolean) isValue()  {}
func (Range) isValue()    {}
func (Text) isValue()     {}
func (DateLike) isValue() {}
func (Duration) isValue() {}
func (Option) isValue()   {}

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }

// String always carries a decimal point or exponent so a Real never reads
// back as an Integer.
func (v Real) String() string { return formatReal(float32(v), true) }

func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }

func (v Range) String() string {
	return formatReal(v.Low, false) + "-" + formatReal(v.High, false)
}

func (v Text) String() string { return string(v) }

func (v DateLike) String() string {
	switch v.Precision {
	case PrecisionDay:
		return v.Time.Format("2006-01-02")
	case PrecisionWeekday:
		return v.Weekday.String()
	case PrecisionMonth:
		return v.Month.String()
	default:
		return v.Time.Format(time.RFC3339)
	}
}

func (v Duration) String() string { return time.Duration(v).String() }

// String renders options sorted by name, selected ones marked with '*'.
func (v Option) String() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if v[name] {
			names[i] = name + "*"
		}
	}
	return strings.Join(names, "|")
}

// Selected returns the selected option names in sorted order.
func (v Option) Selected() []string {
	var out []string
	for name, on := range v {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func formatReal(f float32, forceDecimal bool) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if forceDecimal && !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Render returns the stored form of v; a nil value renders empty.
func Render(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// Equal compares two values variant by variant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Option:
		bv := b.(Option)
		if len(av) != len(bv) {
			return false
		}
		for k, on := range av {
			if other, ok := bv[k]; !ok || other != on {
				return false
			}
		}
		return true
	case DateLike:
		bv := b.(DateLike)
		if av.Precision != bv.Precision {
			return false
		}
		switch av.Precision {
		case PrecisionWeekday:
			return av.Weekday == bv.Weekday
		case PrecisionMonth:
			return av.Month == bv.Month
		}
		return av.Time.Equal(bv.Time)
	case Real:
		bv := b.(Real)
		return av == bv || (math.IsNaN(float64(av)) && math.IsNaN(float64(bv)))
	default:
		return a == b
	}
}

// AsFloat returns a numeric view of v for filtering and stats. Ranges use
// their midpoint; booleans are 0 or 1.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Integer:
		return float64(x), true
	case Real:
		return float64(x), true
	case Range:
		return (float64(x.Low) + float64(x.High)) / 2, true
	case Boolean:
		if x {
			return 1, true
		}
		return 0, true
	case Duration:
		return time.Duration(x).Seconds(), true
	}
	return 0, false
}
