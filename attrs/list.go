package attrs

import "strings"

// Attribute and note lists are stored in a single CSV field, comma joined.
// A literal comma or backslash inside an element is escaped with a backslash.

// EncodeList joins elements into one field.
func EncodeList(elems []string) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		for _, r := range e {
			if r == ',' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecodeList splits a field written by EncodeList. Elements are trimmed and
// empty ones dropped. A trailing lone backslash is kept literally.
func DecodeList(field string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	escaped := false
	for _, r := range field {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	flush()
	return out
}

// EncodeAttribs stores attributes in one field.
func EncodeAttribs(list []Attrib) string {
	elems := make([]string, len(list))
	for i, a := range list {
		elems[i] = a.String()
	}
	return EncodeList(elems)
}

// DecodeAttribs reads a field written by EncodeAttribs. Elements without a
// name are skipped.
func DecodeAttribs(field string) []Attrib {
	var out []Attrib
	for _, elem := range DecodeList(field) {
		if a, err := Parse(elem); err == nil {
			out = append(out, a)
		}
	}
	return out
}

// EncodeNotes stores notes in one field.
func EncodeNotes(list []Note) string {
	elems := make([]string, len(list))
	for i, n := range list {
		elems[i] = n.Text
	}
	return EncodeList(elems)
}

// DecodeNotes reads a field written by EncodeNotes.
func DecodeNotes(field string) []Note {
	return Notes(DecodeList(field))
}
