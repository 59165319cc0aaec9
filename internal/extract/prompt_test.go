package extract

import (
	"strings"
	"testing"
)

func TestTruncateTranscript_UnderBudget(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "a short transcript"},
		{"exactly at budget", strings.Repeat("x", MaxTranscriptChars)},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateTranscript(tc.text)
			if got != tc.text {
				t.Errorf("Expected transcript unchanged, got %d chars (want %d)", len(got), len(tc.text))
			}
			if strings.Contains(got, TruncationMarker) && tc.text != "" {
				t.Error("Truncation marker appended to transcript within budget")
			}
		})
	}
}

func TestTruncateTranscript_Boundary(t *testing.T) {
	text := strings.Repeat("y", MaxTranscriptChars+1)

	got := TruncateTranscript(text)

	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatal("Expected truncation marker on over-budget transcript")
	}

	kept := strings.TrimSuffix(got, TruncationMarker)
	if len(kept) != MaxTranscriptChars {
		t.Errorf("Expected exactly %d kept chars, got %d", MaxTranscriptChars, len(kept))
	}
	if kept != text[:MaxTranscriptChars] {
		t.Error("Kept portion is not the transcript prefix")
	}
}

func TestBuildPrompt_EmbedsTranscriptVerbatim(t *testing.T) {
	transcript := "Today we cover slices, maps and goroutines."
	spec := PromptSpec{
		Instructions: "Create 3 questions.",
		Format:       "Question N:\nQuestion: ...",
	}

	prompt := BuildPrompt(transcript, spec)

	if !strings.Contains(prompt, transcript) {
		t.Error("Prompt does not contain the transcript verbatim")
	}
	if !strings.Contains(prompt, spec.Instructions) {
		t.Error("Prompt does not contain the instructions")
	}
	if !strings.Contains(prompt, spec.Format) {
		t.Error("Prompt does not contain the format block")
	}
	if strings.Index(prompt, spec.Instructions) > strings.Index(prompt, transcript) {
		t.Error("Instructions must precede the transcript")
	}
}
