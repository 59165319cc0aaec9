package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// StringRule substitutes a default when the field is missing or empty.
type StringRule struct {
	Field   string
	Default string
}

// NumberRule clamps the field to [Min, Max], substituting Default when the
// field is missing or not a number. Fractional values are floored.
type NumberRule struct {
	Field   string
	Min     int
	Max     int
	Default int
}

// ListRule shapes a list field. MinRaw is the acceptance threshold on the
// raw list (a record below it is dropped entirely). When Count > 0 the list
// is padded to exactly Count entries using PadFormat ("Option %d"); Max > 0
// truncates, preserving order.
type ListRule struct {
	Field     string
	MinRaw    int
	Count     int
	Max       int
	PadFormat string
}

// EnumRule substitutes Default when the field value is not in Allowed.
type EnumRule struct {
	Field   string
	Allowed []string
	Default string
}

// Schema is the per-artifact contract every record must satisfy after
// normalization.
type Schema struct {
	// MaxItems bounds the normalized record list; 0 means unbounded.
	MaxItems int

	// Require names the identifying string fields that must be non-empty
	// before any defaulting; a record missing one is dropped rather than
	// emitted mostly-empty.
	Require []string

	Strings []StringRule
	Numbers []NumberRule
	Lists   []ListRule
	Enums   []EnumRule
}

// Normalize validates every record against the schema, applying each rule
// independently and non-fatally: bad fields are repaired, not cause for
// rejection. Only records failing the identifying-field checks are dropped.
// Pure and deterministic.
func Normalize(records []Record, schema Schema) []Record {
	var out []Record

	for _, rec := range records {
		if !accepted(rec, schema) {
			continue
		}
		out = append(out, normalizeRecord(rec, schema))
		if schema.MaxItems > 0 && len(out) == schema.MaxItems {
			break
		}
	}

	return out
}

func accepted(rec Record, schema Schema) bool {
	for _, field := range schema.Require {
		if rec.Values[field] == "" {
			return false
		}
	}
	for _, rule := range schema.Lists {
		if rule.MinRaw > 0 && len(rec.Lists[rule.Field]) < rule.MinRaw {
			return false
		}
	}
	return true
}

func normalizeRecord(rec Record, schema Schema) Record {
	for _, rule := range schema.Strings {
		if rec.Values[rule.Field] == "" {
			rec.Values[rule.Field] = rule.Default
		}
	}

	for _, rule := range schema.Numbers {
		n, ok := parseNumber(rec.Values[rule.Field])
		if !ok {
			n = rule.Default
		}
		rec.Values[rule.Field] = strconv.Itoa(ClampInt(n, rule.Min, rule.Max))
	}

	for _, rule := range schema.Lists {
		rec.Lists[rule.Field] = shapeList(rec.Lists[rule.Field], rule)
	}

	for _, rule := range schema.Enums {
		rec.Values[rule.Field] = normalizeEnum(rec.Values[rule.Field], rule)
	}

	return rec
}

// ClampInt bounds v to [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PadList grows list to exactly count entries with synthesized placeholders.
func PadList(list []string, count int, format string) []string {
	for n := len(list); n < count; n++ {
		list = append(list, fmt.Sprintf(format, n+1))
	}
	return list
}

func shapeList(list []string, rule ListRule) []string {
	if rule.Count > 0 {
		list = PadList(list, rule.Count, rule.PadFormat)
	}
	if rule.Max > 0 && len(list) > rule.Max {
		list = list[:rule.Max]
	}
	return list
}

func normalizeEnum(value string, rule EnumRule) string {
	for _, allowed := range rule.Allowed {
		if value == allowed {
			return value
		}
	}
	return rule.Default
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// parseNumber recovers an integer from a field value. Model output writes
// numbers every way imaginable ("3", "3.5", "about 20 minutes"); the first
// numeric run wins and fractional values floor.
func parseNumber(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	m := numberPattern.FindString(value)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(f)), true
}
