package extract

import (
	"strings"
	"testing"
)

func TestSliceJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"bare array",
			`[{"a":1}]`,
			`[{"a":1}]`,
		},
		{
			"prose wrapped",
			`Sure! Here are the concepts:` + "\n" + `[{"name":"Recursion"}]` + "\n" + `Let me know if you need more.`,
			`[{"name":"Recursion"}]`,
		},
		{
			"markdown fence",
			"```json\n[{\"name\":\"Recursion\"}]\n```",
			`[{"name":"Recursion"}]`,
		},
		{
			"object payload",
			"The module is:\n{\"derivation\": {}}",
			`{"derivation": {}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SliceJSON(tc.raw)
			if err != nil {
				t.Fatalf("SliceJSON: %v", err)
			}
			if got != tc.want {
				t.Errorf("SliceJSON = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSliceJSON_Errors(t *testing.T) {
	for _, raw := range []string{"no payload here at all", "only an opener: [", ""} {
		if _, err := SliceJSON(raw); err == nil {
			t.Errorf("SliceJSON(%q) expected error", raw)
		}
	}
}

func TestDecodeRecords(t *testing.T) {
	raw := `Here you go:
[
  {"timestamp": 12.7, "name": "Recursion", "description": "A function calling itself.", "tags": ["cs", "theory"], "advanced": true},
  {"timestamp": 300, "name": "Memoization", "description": "Caching results."}
]`

	records, err := DecodeRecords(raw)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Values["name"] != "Recursion" {
		t.Errorf("name = %q", first.Values["name"])
	}
	if first.Values["timestamp"] != "12.7" {
		t.Errorf("timestamp = %q, want 12.7 kept as-is", first.Values["timestamp"])
	}
	if first.Values["advanced"] != "true" {
		t.Errorf("advanced = %q", first.Values["advanced"])
	}
	if len(first.Lists["tags"]) != 2 {
		t.Errorf("tags = %v", first.Lists["tags"])
	}
	if records[1].Values["timestamp"] != "300" {
		t.Errorf("second timestamp = %q", records[1].Values["timestamp"])
	}
}

func TestDecodeRecords_FractionalTimestampFloorsThroughNormalize(t *testing.T) {
	records, err := DecodeRecords(`[{"timestamp": 12.7, "name": "Recursion"}]`)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}

	schema := Schema{
		Require: []string{"name"},
		Numbers: []NumberRule{{Field: "timestamp", Min: 0, Max: 86400, Default: 0}},
	}
	out := Normalize(records, schema)

	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Values["timestamp"] != "12" {
		t.Errorf("timestamp = %q, want 12", out[0].Values["timestamp"])
	}
}

func TestDecodeRecords_Malformed(t *testing.T) {
	malformed := []string{
		"I could not produce the list, sorry.",
		`[{"name": "unterminated"`,
		`{"name": "object, not array"}`,
	}
	for _, raw := range malformed {
		if _, err := DecodeRecords(raw); err == nil {
			t.Errorf("DecodeRecords(%q) expected error", raw)
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	raw := "```json\n[1]\n```"
	if got := stripCodeFence(raw); !strings.HasPrefix(got, "[") {
		t.Errorf("stripCodeFence = %q", got)
	}
}
