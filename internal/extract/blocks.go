package extract

import (
	"regexp"
	"strings"
)

// SplitBlocks cuts raw model output into per-item chunks at each occurrence
// of the label pattern (e.g. `Question\s+\d+:` or a `"""` separator). The
// label text itself is treated purely as a boundary and never leaks into a
// block. Empty, whitespace-only and prompt-echo chunks are discarded.
//
// Zero label matches yields nil. That is not an error: it is the normal
// empty-extraction path that downstream recovers with fallback records.
func SplitBlocks(raw string, label *regexp.Regexp) []string {
	locs := label.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return nil
	}

	var blocks []string
	for i, loc := range locs {
		start := loc[1]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		chunk := strings.TrimSpace(raw[start:end])
		if chunk == "" || isPromptEcho(chunk) {
			continue
		}
		blocks = append(blocks, chunk)
	}

	return blocks
}

// isPromptEcho recognizes chunks that are leftover prompt text rather than a
// generated item. Models occasionally repeat the tail of the prompt after
// the final item.
func isPromptEcho(chunk string) bool {
	lower := strings.ToLower(chunk)
	return strings.HasPrefix(lower, "transcript:")
}
