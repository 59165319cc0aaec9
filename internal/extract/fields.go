package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Cardinality controls how repeated matches of one field are combined.
type Cardinality int

const (
	// Single keeps the last matching line's value.
	Single Cardinality = iota
	// Multi appends every matching line's value in encounter order.
	Multi
)

// FieldSpec declares one named field of an artifact record and how to
// recognize it in a block of model output. A field matches a line either by
// a case-insensitive literal prefix (`Title:`) or by a pattern (`^[A-D]\)`);
// prefixes are tried first. When the pattern has a capture group, group 1 is
// the value, otherwise the whole trimmed line is.
type FieldSpec struct {
	Name        string
	Prefixes    []string
	Pattern     *regexp.Regexp
	Cardinality Cardinality

	// Continues marks a free-text field: once set by a labeled line, later
	// lines that match no spec are space-joined onto it, until the next
	// labeled line.
	Continues bool

	// Letters restricts the field to a single answer letter. The first
	// letter of the value is kept, uppercased; a letter outside this set
	// leaves the field unset so the normalizer can default it.
	Letters string
}

// Record is the best-effort result of extracting one block. Every declared
// field is present as a key; never-matched fields hold "" or an empty list.
type Record struct {
	Values map[string]string
	Lists  map[string][]string
}

// NewRecord returns a record with all declared fields present and empty.
func NewRecord(specs []FieldSpec) Record {
	rec := Record{
		Values: make(map[string]string),
		Lists:  make(map[string][]string),
	}
	for _, spec := range specs {
		if spec.Cardinality == Multi {
			rec.Lists[spec.Name] = nil
		} else {
			rec.Values[spec.Name] = ""
		}
	}
	return rec
}

// ExtractFields walks the block's lines once, top to bottom, assigning each
// line to the first spec that matches it. Deterministic: same block and
// specs always produce the same record.
func ExtractFields(block string, specs []FieldSpec) Record {
	rec := NewRecord(specs)

	// Index of the spec currently accepting continuation lines, -1 if none.
	open := -1

	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		matched := false
		for i, spec := range specs {
			value, ok := matchLine(trimmed, spec)
			if !ok {
				continue
			}
			matched = true

			if spec.Letters != "" {
				value = answerLetter(value, spec.Letters)
			}

			if value != "" {
				if spec.Cardinality == Multi {
					rec.Lists[spec.Name] = append(rec.Lists[spec.Name], value)
				} else {
					rec.Values[spec.Name] = value
				}
			}

			// Any labeled line ends the previous free-text field. A
			// header-only line ("Options:") opens nothing.
			open = -1
			if spec.Continues && spec.Cardinality == Single && value != "" {
				open = i
			}
			break
		}

		if !matched && open >= 0 {
			name := specs[open].Name
			rec.Values[name] = rec.Values[name] + " " + trimmed
		}
	}

	return rec
}

func matchLine(line string, spec FieldSpec) (string, bool) {
	for _, prefix := range spec.Prefixes {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}

	if spec.Pattern != nil {
		if m := spec.Pattern.FindStringSubmatch(line); m != nil {
			if len(m) > 1 {
				return strings.TrimSpace(m[1]), true
			}
			return line, true
		}
	}

	return "", false
}

// answerLetter extracts the first letter character of a value, uppercased,
// and validates it against the allowed set. Returns "" for anything invalid;
// the field stays unset rather than raising an error.
func answerLetter(value, allowed string) string {
	for _, r := range value {
		if unicode.IsLetter(r) {
			letter := strings.ToUpper(string(r))
			if strings.Contains(allowed, letter) {
				return letter
			}
			return ""
		}
	}
	return ""
}
