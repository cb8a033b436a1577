// Package units resolves the unit tokens typed after a fact value
// ("hr", "for 5 min", "yesterday") into a Unit.
package units

import (
	"strconv"
	"strings"
	"time"

	"github.com/teranos/dlog/temporal"
)

// Kind identifies which variant a Unit holds.
type Kind int

const (
	KindNone Kind = iota
	KindBoolean
	KindDatetime
	KindDuration
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindDatetime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindOther:
		return "other"
	}
	return "none"
}

// BooleanLabel is how the Boolean unit is stored.
const BooleanLabel = "Boolean"

// Unit is the measurement qualifier of a fact. Only the field matching Kind
// is meaningful.
type Unit struct {
	Kind    Kind
	Time    time.Time // KindDatetime, second precision
	Seconds int64     // KindDuration
	Text    string    // KindOther
}

func None() Unit    { return Unit{Kind: KindNone} }
func Boolean() Unit { return Unit{Kind: KindBoolean} }

func Datetime(t time.Time) Unit {
	return Unit{Kind: KindDatetime, Time: t.Truncate(time.Second)}
}

func Duration(seconds int64) Unit { return Unit{Kind: KindDuration, Seconds: seconds} }
func Other(text string) Unit      { return Unit{Kind: KindOther, Text: text} }

// IsNone reports whether u carries no unit.
func (u Unit) IsNone() bool { return u.Kind == KindNone }

// Equal compares units variant by variant.
func (u Unit) Equal(other Unit) bool {
	if u.Kind != other.Kind {
		return false
	}
	switch u.Kind {
	case KindDatetime:
		return u.Time.Equal(other.Time)
	case KindDuration:
		return u.Seconds == other.Seconds
	case KindOther:
		return u.Text == other.Text
	}
	return true
}

// String renders the unit for storage. Parse reads it back.
func (u Unit) String() string {
	switch u.Kind {
	case KindBoolean:
		return BooleanLabel
	case KindDatetime:
		return u.Time.Format(time.RFC1123Z)
	case KindDuration:
		return "for " + (time.Duration(u.Seconds) * time.Second).String()
	case KindOther:
		return u.Text
	}
	return ""
}

// Resolve classifies unit tokens:
//   - no tokens: None
//   - a date or time expression: Datetime
//   - "for" followed by a duration: Duration
//   - the Boolean label itself: Boolean
//   - anything else: Other, tokens joined by spaces
//
// Resolve never fails.
func Resolve(tokens []string) Unit {
	var words []string
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			words = append(words, tok)
		}
	}
	if len(words) == 0 {
		return None()
	}

	joined := strings.Join(words, " ")
	if joined == BooleanLabel {
		return Boolean()
	}
	if t, err := temporal.ParseDate(joined); err == nil {
		return Datetime(t)
	}

	if strings.EqualFold(words[0], "for") && len(words) > 1 {
		if secs, ok := durationSeconds(words[1:]); ok {
			return Duration(secs)
		}
	}

	return Other(joined)
}

// durationSeconds reads "5 min", "1h30m" or "an hour" as seconds
func durationSeconds(words []string) (int64, bool) {
	if d, err := temporal.ParseHumanDuration(strings.Join(words, " ")); err == nil {
		return int64(d / time.Second), true
	}
	for i, w := range words {
		if !temporal.IsDurationKeyword(w) {
			continue
		}
		length, _ := temporal.UnitLength(w)
		count := 1.0
		if i > 0 {
			if n, err := strconv.ParseFloat(words[i-1], 64); err == nil {
				count = n
			}
		}
		return int64(count * length.Seconds()), true
	}
	return 0, false
}

// Parse reads a unit rendered by String.
func Parse(rendered string) Unit {
	return Resolve(strings.Fields(rendered))
}

// Override returns linked when it carries a unit, otherwise entry. Units
// linked to a fact type win over units given for a single entry.
func Override(entry, linked Unit) Unit {
	if !linked.IsNone() {
		return linked
	}
	return entry
}
