package artifacts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
)

const conceptCount = 8

func conceptsSchema(maxTimestamp int) extract.Schema {
	return extract.Schema{
		MaxItems: conceptCount,
		Require:  []string{"name"},
		Strings: []extract.StringRule{
			{Field: "description", Default: "A key concept covered at this point in the video."},
		},
		Numbers: []extract.NumberRule{
			{Field: "timestamp", Min: 0, Max: maxTimestamp, Default: 0},
		},
	}
}

func conceptsPrompt(transcript *models.Transcript) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert educational content analyst. Identify up to %d key concepts in this video transcript, each with the timestamp (in seconds) where it is introduced.\n\n", conceptCount)
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(`JSON schema per concept:
{"timestamp": number, "name": "short concept name", "description": "1-2 sentence explanation"}`)

	return extract.BuildPrompt(timestampedText(transcript), extract.PromptSpec{
		Instructions: b.String(),
	})
}

// timestampedText renders the transcript with per-segment second markers so
// the model can anchor each concept in time. Falls back to the flat text
// when no timing is available.
func timestampedText(transcript *models.Transcript) string {
	if len(transcript.Segments) == 0 {
		return transcript.Text
	}

	var b strings.Builder
	for _, seg := range transcript.Segments {
		fmt.Fprintf(&b, "[%d] %s\n", int(seg.Start), seg.Text)
	}
	return b.String()
}

// GetKeyConcepts extracts timestamped concepts via the JSON-mode pipeline.
// A malformed JSON response degrades to the default concept set: this
// artifact defines a fallback, so parse failure is recovered silently.
func (s *Service) GetKeyConcepts(ctx context.Context, videoID string) ([]models.KeyConcept, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, conceptsPrompt(transcript))
	if err != nil {
		return nil, err
	}

	records, err := extract.DecodeRecords(raw)
	if err != nil {
		log.Printf("Key-concept JSON parse failed for video %s, using defaults: %v", videoID, err)
		return conceptsFallback(), nil
	}

	maxTimestamp := int(transcript.EndSeconds())
	if maxTimestamp <= 0 {
		// No timing known; accept any plausible in-video timestamp.
		maxTimestamp = 86400
	}

	records = extract.Normalize(records, conceptsSchema(maxTimestamp))

	concepts := make([]models.KeyConcept, 0, len(records))
	for _, rec := range records {
		concepts = append(concepts, models.KeyConcept{
			TimestampSeconds: mustInt(rec.Values["timestamp"]),
			Name:             rec.Values["name"],
			Description:      rec.Values["description"],
		})
	}

	if len(concepts) == 0 {
		log.Printf("Key-concept extraction for video %s produced no usable concepts, using defaults", videoID)
		concepts = conceptsFallback()
	}

	return concepts, nil
}

func conceptsFallback() []models.KeyConcept {
	return []models.KeyConcept{
		{
			TimestampSeconds: 0,
			Name:             "Introduction",
			Description:      "The opening of the video sets out the topic and what you should be able to do by the end.",
		},
	}
}
