package prompt

import (
	"strings"
	"unicode/utf8"

	"github.com/teranos/dlog/errors"
)

// MaxNameLength is the longest accepted record, item or fact name.
const MaxNameLength = 40

// forbidden characters would break the directory layout or the CLI grammar
const forbidden = `@/&^$#\`

// Reserved are command words that cannot be used as names.
var Reserved = []string{"fact", "type", "record", "item", "list", "stats", "am", "version", "help"}

// ValidateName rejects names that are empty, too long, contain one of
// @ / & ^ $ # \ or equal a command word.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.NewInvalidNameError(name, "name is empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return errors.NewInvalidNameError(name, "longer than 40 characters")
	}
	if i := strings.IndexAny(trimmed, forbidden); i >= 0 {
		return errors.NewInvalidNameError(name, "contains "+string(trimmed[i]))
	}
	for _, word := range Reserved {
		if strings.EqualFold(trimmed, word) {
			return errors.NewInvalidNameError(name, "is a command word")
		}
	}
	return nil
}
