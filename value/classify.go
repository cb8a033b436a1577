package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/teranos/dlog/temporal"
)

// Classifier recognises one variant. Classify reports false when raw is not
// of that variant.
type Classifier struct {
	Name     string
	Classify func(raw string) (Value, bool)
}

// Chain is an ordered list of classifiers. The first classifier that accepts
// the input wins; text is the fallback, so a chain never fails.
type Chain []Classifier

// Infer runs the chain over raw.
func (c Chain) Infer(raw string) Value {
	v, _ := c.Explain(raw)
	return v
}

// Explain runs the chain and also returns the name of the classifier that
// accepted raw ("text" for the fallback).
func (c Chain) Explain(raw string) (Value, string) {
	for _, cl := range c {
		if v, ok := cl.Classify(raw); ok {
			return v, cl.Name
		}
	}
	return Text(raw), "text"
}

// Names lists the classifiers in precedence order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, cl := range c {
		names[i] = cl.Name
	}
	return names
}

var (
	emptyClassifier    = Classifier{Name: "empty", Classify: classifyEmpty}
	realClassifier     = Classifier{Name: "real", Classify: classifyReal}
	integerClassifier  = Classifier{Name: "integer", Classify: classifyInteger}
	rangeClassifier    = Classifier{Name: "range", Classify: classifyRange}
	booleanClassifier  = Classifier{Name: "boolean", Classify: classifyBoolean}
	durationClassifier = Classifier{Name: "duration", Classify: classifyDuration}
	datetimeClassifier = Classifier{Name: "datetime", Classify: classifyDatetime}
	weekdayClassifier  = Classifier{Name: "weekday", Classify: classifyWeekday}
	monthClassifier    = Classifier{Name: "month", Classify: classifyMonth}
	calendarClassifier = Classifier{Name: "calendar-date", Classify: classifyCalendarDate}
	optionClassifier   = Classifier{Name: "option", Classify: classifyOption}
)

// entryChain is used for ordinary fact entries: reals before integers, so
// "5" is RealNumber(5).
var entryChain = Chain{
	emptyClassifier,
	realClassifier,
	integerClassifier,
	rangeClassifier,
	booleanClassifier,
}

// typedChain is the rich chain: integers first, then the date and duration
// parsers.
var typedChain = Chain{
	emptyClassifier,
	integerClassifier,
	realClassifier,
	rangeClassifier,
	booleanClassifier,
	durationClassifier,
	datetimeClassifier,
	weekdayClassifier,
	monthClassifier,
	calendarClassifier,
	optionClassifier,
}

// EntryChain returns a copy of the chain behind Infer.
func EntryChain() Chain { return append(Chain(nil), entryChain...) }

// TypedChain returns a copy of the chain behind InferTyped.
func TypedChain() Chain { return append(Chain(nil), typedChain...) }

// Infer classifies the raw value of a fact entry. It never fails.
func Infer(raw string) Value { return entryChain.Infer(raw) }

// InferTyped classifies raw with the rich chain. It is also how stored values
// are read back. It never fails.
func InferTyped(raw string) Value { return typedChain.Infer(raw) }

var (
	trueWords  = map[string]bool{"true": true, "yes": true, "t": true, "y": true}
	falseWords = map[string]bool{"false": true, "no": true, "f": true, "n": true}
)

func classifyEmpty(raw string) (Value, bool) {
	if strings.TrimSpace(raw) == "" {
		return Boolean(true), true
	}
	return nil, false
}

func parseReal(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return float32(f), true
}

func classifyReal(raw string) (Value, bool) {
	if f, ok := parseReal(raw); ok {
		return Real(f), true
	}
	return nil, false
}

func classifyInteger(raw string) (Value, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil, false
	}
	return Integer(i), true
}

// classifyRange accepts "<num>-<num>". The separator is the first '-' after
// the leading character that leaves a number on both sides, so "-3-5" is
// Range(-3, 5).
func classifyRange(raw string) (Value, bool) {
	s := strings.TrimSpace(raw)
	for i := 1; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		low, okLow := parseReal(s[:i])
		high, okHigh := parseReal(s[i+1:])
		if okLow && okHigh {
			return Range{Low: low, High: high}, true
		}
	}
	return nil, false
}

func classifyBoolean(raw string) (Value, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case trueWords[s]:
		return Boolean(true), true
	case falseWords[s]:
		return Boolean(false), true
	}
	return nil, false
}

func classifyDuration(raw string) (Value, bool) {
	d, err := temporal.ParseHumanDuration(raw)
	if err != nil {
		return nil, false
	}
	return Duration(d), true
}

func classifyDatetime(raw string) (Value, bool) {
	t, err := temporal.ParseExpression(raw)
	if err != nil {
		return nil, false
	}
	return DateLike{Precision: PrecisionDatetime, Time: t}, true
}

func classifyWeekday(raw string) (Value, bool) {
	d, ok := temporal.ParseWeekday(raw)
	if !ok {
		return nil, false
	}
	return DateLike{Precision: PrecisionWeekday, Weekday: d}, true
}

func classifyMonth(raw string) (Value, bool) {
	m, ok := temporal.ParseMonth(raw)
	if !ok {
		return nil, false
	}
	return DateLike{Precision: PrecisionMonth, Month: m}, true
}

func classifyCalendarDate(raw string) (Value, bool) {
	t, err := temporal.ParseCalendarDate(raw)
	if err != nil {
		return nil, false
	}
	return DateLike{Precision: PrecisionDay, Time: t}, true
}

// classifyOption accepts "tea*|coffee|water": at least two names separated by
// '|', a trailing '*' marks a selected one.
func classifyOption(raw string) (Value, bool) {
	if !strings.Contains(raw, "|") {
		return nil, false
	}
	opts := Option{}
	for _, part := range strings.Split(raw, "|") {
		name := strings.TrimSpace(part)
		selected := strings.HasSuffix(name, "*")
		name = strings.TrimSpace(strings.TrimSuffix(name, "*"))
		if name == "" {
			return nil, false
		}
		opts[name] = opts[name] || selected
	}
	return opts, true
}
