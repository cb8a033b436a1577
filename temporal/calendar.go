package temporal

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are date-only layouts, most common first
var dateLayouts = []string{
	"2006-01-02", // "2025-01-15"
	"2006/01/02", // "2025/01/15"
	"01/02/2006", // "01/15/2025" (US format)
	"01-02-2006", // "01-15-2025" (US format)
	"2 Jan 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 January 2006",
}

// dayNameMap maps day names (full and abbreviated) to weekday numbers
var dayNameMap = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
	"sun":       time.Sunday,
}

var monthNameMap = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ParseWeekday recognises weekday names such as "Mon" or "friday".
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := dayNameMap[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// ParseMonth recognises month names such as "Sept" or "january".
func ParseMonth(s string) (time.Month, bool) {
	m, ok := monthNameMap[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// ParseCalendarDate parses a date without a time of day. The result is
// midnight UTC of that date.
func ParseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a calendar date: %s", s)
}
