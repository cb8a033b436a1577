package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day  // approximate
	year  = 365 * day // approximate
)

// durationUnits maps unit spellings to their length
var durationUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
	"month": month, "months": month,
	"y": year, "yr": year, "yrs": year, "year": year, "years": year,
}

// ParseRelativeDuration parses relative duration expressions like "3 days", "2 weeks"
func ParseRelativeDuration(expr string) (time.Duration, error) {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid duration format: %s (expected 'NUMBER UNIT')", expr)
	}

	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: invalid number '%s'", parts[0])
	}
	if num < 0 {
		return 0, fmt.Errorf("invalid duration format: negative duration not supported")
	}

	unit, ok := durationUnits[strings.ToLower(parts[1])]
	if !ok || len(parts[1]) == 1 {
		return 0, fmt.Errorf("unsupported duration unit: %s", parts[1])
	}
	return time.Duration(num) * unit, nil
}

// ParseHumanDuration parses durations the way people type them:
// "5 min", "1.5 hours", "90s", "1h30m", "2 hr 15 min".
func ParseHumanDuration(expr string) (time.Duration, error) {
	expr = strings.TrimSpace(strings.ToLower(expr))
	if expr == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if d, err := time.ParseDuration(expr); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration not supported: %s", expr)
		}
		return d, nil
	}

	var total time.Duration
	rest := expr
	terms := 0
	for {
		rest = strings.TrimLeft(rest, " ,")
		if rest == "" {
			break
		}
		num, unit, remaining, err := nextDurationTerm(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", expr, err)
		}
		size, ok := durationUnits[unit]
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", expr, unit)
		}
		total += time.Duration(num * float64(size))
		rest = remaining
		terms++
		if strings.HasPrefix(strings.TrimSpace(rest), "and ") {
			rest = strings.TrimPrefix(strings.TrimSpace(rest), "and ")
		}
	}
	if terms == 0 {
		return 0, fmt.Errorf("invalid duration %q", expr)
	}
	return total, nil
}

// nextDurationTerm splits "1.5 hours 10 min" into 1.5, "hours" and the remainder
func nextDurationTerm(s string) (float64, string, string, error) {
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, "", "", fmt.Errorf("expected a number at %q", s)
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", "", err
	}

	rest := strings.TrimLeft(s[i:], " ")
	j := 0
	for j < len(rest) && unicode.IsLetter(rune(rest[j])) {
		j++
	}
	if j == 0 {
		return 0, "", "", fmt.Errorf("missing unit after %s", s[:i])
	}
	return num, rest[:j], rest[j:], nil
}

// IsDurationKeyword reports whether token names a unit of time ("min",
// "hours", "sec", ...). Bare single letters do not count.
func IsDurationKeyword(token string) bool {
	lower := strings.ToLower(strings.TrimSpace(token))
	_, ok := durationUnits[lower]
	return ok && len(lower) > 1
}

// UnitLength returns the length of one named unit ("hr" is an hour).
func UnitLength(token string) (time.Duration, bool) {
	d, ok := durationUnits[strings.ToLower(strings.TrimSpace(token))]
	return d, ok
}
