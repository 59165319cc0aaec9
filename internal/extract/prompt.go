package extract

import "strings"

// MaxTranscriptChars is the character budget for transcript text embedded in
// a prompt. Longer transcripts are cut at this boundary and marked.
const MaxTranscriptChars = 30000

// TruncationMarker is appended whenever the transcript was cut.
const TruncationMarker = "\n[transcript truncated]"

// MinTranscriptChars is the smallest transcript considered usable. Callers
// must reject shorter transcripts before building a prompt.
const MinTranscriptChars = 100

// PromptSpec declares how an artifact prompt is assembled: the instruction
// header (role, item count, domain framing) and the exact output format the
// model is told to follow.
type PromptSpec struct {
	Instructions string
	Format       string
}

// TruncateTranscript enforces the character budget. Text at or under the
// budget is returned verbatim.
func TruncateTranscript(transcript string) string {
	if len(transcript) <= MaxTranscriptChars {
		return transcript
	}
	return transcript[:MaxTranscriptChars] + TruncationMarker
}

// BuildPrompt assembles the full prompt for one generation call. Pure
// function of its inputs; the transcript section is always last so format
// instructions survive model attention decay on long inputs.
func BuildPrompt(transcript string, spec PromptSpec) string {
	var b strings.Builder

	b.WriteString(spec.Instructions)
	b.WriteString("\n\n")

	if spec.Format != "" {
		b.WriteString(spec.Format)
		b.WriteString("\n\n")
	}

	b.WriteString("Transcript:\n")
	b.WriteString(TruncateTranscript(transcript))
	b.WriteString("\n")

	return b.String()
}
