package artifacts

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"learntube-backend/internal/cache"
	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
	"learntube-backend/internal/services"
)

// VideoSource yields transcripts and metadata for a video ID.
type VideoSource interface {
	GetTranscript(ctx context.Context, videoID string) (*models.Transcript, error)
	GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error)
}

// Service orchestrates the per-request pipeline for every artifact type:
// fetch transcript (through the cache) → length gate → build prompt →
// generate → split → extract → normalize → fallback when empty. All state is
// request-scoped; concurrent requests share nothing but the cache.
type Service struct {
	videos      VideoSource
	gen         services.Generator
	transcripts cache.TranscriptCache
}

func NewService(videos VideoSource, gen services.Generator, transcripts cache.TranscriptCache) *Service {
	return &Service{
		videos:      videos,
		gen:         gen,
		transcripts: transcripts,
	}
}

// Difficulty tiers accepted by the quiz and coding-problem artifacts.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ParseDifficulty validates a difficulty query value. Empty defaults to
// medium; anything else unknown is the caller's fault.
func ParseDifficulty(raw string) (string, error) {
	switch raw {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return raw, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", raw)
	}
}

// transcript resolves the transcript for a video, consulting the cache
// first. The length gate runs on both hit and miss paths so a cached short
// transcript is still rejected before any generation cost is spent.
func (s *Service) transcript(ctx context.Context, videoID string) (*models.Transcript, error) {
	transcript, ok := s.transcripts.Get(ctx, videoID)
	if !ok {
		var err error
		transcript, err = s.videos.GetTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}
		s.transcripts.Set(ctx, transcript)
		log.Printf("Fetched transcript for video %s (%d chars, %d segments)",
			videoID, len(transcript.Text), len(transcript.Segments))
	}

	if len(transcript.Text) < extract.MinTranscriptChars {
		return nil, &services.TranscriptTooShortError{VideoID: videoID, Length: len(transcript.Text)}
	}

	return transcript, nil
}

// textArtifact is one line-labeled artifact configuration.
type textArtifact struct {
	prompt extract.PromptSpec
	label  *regexp.Regexp
	fields []extract.FieldSpec
	schema extract.Schema
}

// runText executes generate → split → extract → normalize for a line-labeled
// artifact. An empty result is returned as-is; the typed caller supplies its
// fallback records.
func (s *Service) runText(ctx context.Context, transcriptText string, art textArtifact) ([]extract.Record, error) {
	prompt := extract.BuildPrompt(transcriptText, art.prompt)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	blocks := extract.SplitBlocks(raw, art.label)
	records := make([]extract.Record, 0, len(blocks))
	for _, block := range blocks {
		records = append(records, extract.ExtractFields(block, art.fields))
	}

	return extract.Normalize(records, art.schema), nil
}

// mustInt reads a numeric field the normalizer has already repaired.
func mustInt(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}
