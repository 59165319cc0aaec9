package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SliceJSON recovers the JSON payload from model output that wraps it in
// prose or markdown fences: the substring from the first '[' or '{' to the
// last ']' or '}'. The caller decides whether an array or object was wanted;
// this only trims the noise around it.
func SliceJSON(raw string) (string, error) {
	raw = stripCodeFence(raw)

	start := -1
	var opener byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '[' || raw[i] == '{' {
			start = i
			opener = raw[i]
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("no JSON payload found in model output")
	}

	closer := byte(']')
	if opener == '{' {
		closer = '}'
	}
	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "", fmt.Errorf("unterminated JSON payload in model output")
	}

	return raw[start : end+1], nil
}

// DecodeRecords parses a JSON array of flat objects into extraction records,
// so JSON-mode artifacts flow through the same Normalize as line-labeled
// ones. Scalars become string values, scalar arrays become lists, nested
// objects are ignored.
func DecodeRecords(raw string) ([]Record, error) {
	payload, err := SliceJSON(raw)
	if err != nil {
		return nil, err
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		rec := Record{
			Values: make(map[string]string),
			Lists:  make(map[string][]string),
		}
		for key, val := range item {
			switch v := val.(type) {
			case string:
				rec.Values[key] = strings.TrimSpace(v)
			case float64:
				rec.Values[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				rec.Values[key] = strconv.FormatBool(v)
			case []interface{}:
				for _, entry := range v {
					if s, ok := entry.(string); ok {
						rec.Lists[key] = append(rec.Lists[key], strings.TrimSpace(s))
					}
				}
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
