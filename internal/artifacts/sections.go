package artifacts

import (
	"context"
	"log"
	"regexp"

	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
)

const (
	sectionCount     = 8
	sectionMaxPoints = 5
)

// Sections are separated by triple-quote lines rather than numbered labels.
var sectionSeparator = regexp.MustCompile(`"""`)

var sectionFields = []extract.FieldSpec{
	{Name: "title", Prefixes: []string{"Section:", "Title:"}},
	{Name: "timestamp", Prefixes: []string{"Timestamp:"}},
	{Name: "points", Prefixes: []string{"Points:"}, Pattern: regexp.MustCompile(`^[-•*]\s*(.+)$`), Cardinality: extract.Multi},
}

func sectionSchema(maxTimestamp int) extract.Schema {
	return extract.Schema{
		MaxItems: sectionCount,
		Require:  []string{"title"},
		Numbers: []extract.NumberRule{
			{Field: "timestamp", Min: 0, Max: maxTimestamp, Default: 0},
		},
		Lists: []extract.ListRule{
			{Field: "points", Max: sectionMaxPoints},
		},
	}
}

var sectionPrompt = extract.PromptSpec{
	Instructions: "You are an expert educational content analyst. Break this video transcript into its major sections, with the second each section starts and the sub-points it covers.",
	Format: `Format EXACTLY like this, separating each section with a line of three double quotes:

"""
Section: [section title]
Timestamp: [start time in seconds]
Points:
- [sub-point]
- [sub-point]
"""`,
}

// GetSectionBreakdown generates the per-section sub-point breakdown.
func (s *Service) GetSectionBreakdown(ctx context.Context, videoID string) ([]models.Section, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	maxTimestamp := int(transcript.EndSeconds())
	if maxTimestamp <= 0 {
		maxTimestamp = 86400
	}

	records, err := s.runText(ctx, transcript.Text, textArtifact{
		prompt: sectionPrompt,
		label:  sectionSeparator,
		fields: sectionFields,
		schema: sectionSchema(maxTimestamp),
	})
	if err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(records))
	for _, rec := range records {
		sections = append(sections, models.Section{
			Title:            rec.Values["title"],
			TimestampSeconds: mustInt(rec.Values["timestamp"]),
			Points:           rec.Lists["points"],
		})
	}

	if len(sections) == 0 {
		log.Printf("Section extraction for video %s produced no usable sections, using defaults", videoID)
		sections = sectionFallback()
	}

	return sections, nil
}

func sectionFallback() []models.Section {
	return []models.Section{
		{
			Title:            "Full video",
			TimestampSeconds: 0,
			Points:           []string{"A section-by-section breakdown could not be generated; the whole video covers one continuous topic."},
		},
	}
}
