// Package temporal parses the date, time and duration expressions users type
// when logging facts: "yesterday", "3 days ago", "last friday", "5 min",
// "1h30m", "june", "2024-01-15".
package temporal

import (
	"fmt"
	"strings"
	"time"
)

// timeNow is a variable that can be mocked for testing
var timeNow = time.Now

// weekStart is the first day of the week for "this week" style expressions
var weekStart = time.Monday

// SetWeekStart changes the first day of the week used by "this week".
func SetWeekStart(day time.Weekday) {
	weekStart = day
}

// datetimeLayouts are layouts carrying a time of day, most specific first.
// Date-only layouts live in calendar.go.
var datetimeLayouts = []string{
	time.RFC3339,           // "2006-01-02T15:04:05Z07:00"
	time.RFC3339Nano,       // "2006-01-02T15:04:05.999999999Z07:00"
	time.RFC1123Z,          // "Mon, 02 Jan 2006 15:04:05 -0700" (RFC 2822)
	time.RFC1123,           // "Mon, 02 Jan 2006 15:04:05 MST"
	"2006-01-02T15:04:05",  // "2025-01-15T14:30:00"
	"2006-01-02 15:04:05",  // "2025-01-15 14:30:00"
	"2006-01-02T15:04Z",    // "2025-01-15T14:30Z"
	"2006-01-02T15:04",     // "2025-01-15T14:30"
	"2006-01-02 15:04",     // "2025-01-15 14:30"
}

// ParseExpression parses natural language and timestamp expressions into a
// point in time. Bare calendar dates are not accepted here; see ParseCalendarDate.
func ParseExpression(expr string) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, fmt.Errorf("empty temporal expression")
	}

	now := timeNow()
	lower := strings.ToLower(expr)

	switch lower {
	case "now", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "this week":
		return startOfWeek(now), nil
	case "last week":
		return now.AddDate(0, 0, -7), nil
	case "last month":
		return now.AddDate(0, -1, 0), nil
	case "last year":
		return now.AddDate(-1, 0, 0), nil
	case "next week":
		return now.AddDate(0, 0, 7), nil
	case "next month":
		return now.AddDate(0, 1, 0), nil
	case "next year":
		return now.AddDate(1, 0, 0), nil
	}

	// "3 days ago", "2 weeks ago"
	if strings.HasSuffix(lower, " ago") {
		if d, err := ParseRelativeDuration(strings.TrimSuffix(lower, " ago")); err == nil {
			return now.Add(-d), nil
		}
	}

	// "in 3 days", "in 2 weeks"
	if strings.HasPrefix(lower, "in ") {
		if d, err := ParseRelativeDuration(strings.TrimPrefix(lower, "in ")); err == nil {
			return now.Add(d), nil
		}
	}

	// "last friday", "next monday", "this sunday"
	if t, ok := parseNamedDay(lower, now); ok {
		return t, nil
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse temporal expression: %s", expr)
}

// ParseDate accepts anything ParseExpression does, plus bare calendar dates.
func ParseDate(expr string) (time.Time, error) {
	if t, err := ParseExpression(expr); err == nil {
		return t, nil
	}
	return ParseCalendarDate(expr)
}

// startOfWeek returns midnight of the first day of the week containing t
func startOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday() - weekStart)
	if offset < 0 {
		offset += 7
	}
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseNamedDay handles expressions like "last friday", "next monday"
func parseNamedDay(expr string, baseTime time.Time) (time.Time, bool) {
	parts := strings.Fields(expr)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	targetDay, exists := dayNameMap[parts[1]]
	if !exists {
		return time.Time{}, false
	}

	currentDay := baseTime.Weekday()

	switch parts[0] {
	case "last":
		daysBack := int(currentDay - targetDay)
		if daysBack <= 0 {
			daysBack += 7
		}
		return baseTime.AddDate(0, 0, -daysBack), true
	case "next":
		daysForward := int(targetDay - currentDay)
		if daysForward <= 0 {
			daysForward += 7
		}
		return baseTime.AddDate(0, 0, daysForward), true
	case "this":
		return baseTime.AddDate(0, 0, int(targetDay-currentDay)), true
	}
	return time.Time{}, false
}
