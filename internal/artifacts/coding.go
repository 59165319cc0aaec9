package artifacts

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
)

const (
	codingProblemCount = 3
	codingMaxHints     = 3
)

var problemLabel = regexp.MustCompile(`(?i)Problem\s+\d+:`)

var codingFields = []extract.FieldSpec{
	{Name: "title", Prefixes: []string{"Title:"}},
	{Name: "description", Prefixes: []string{"Description:"}, Continues: true},
	{Name: "hints", Prefixes: []string{"Hints:"}, Pattern: regexp.MustCompile(`^[-•*]\s*(.+)$`), Cardinality: extract.Multi},
	{Name: "complexity", Prefixes: []string{"Complexity:"}},
	{Name: "timeRequired", Prefixes: []string{"Time Required:", "Estimated Time:"}},
}

var codingSchema = extract.Schema{
	MaxItems: codingProblemCount,
	Require:  []string{"title"},
	Strings: []extract.StringRule{
		{Field: "description", Default: "Practice implementing the concepts covered in the video."},
	},
	Numbers: []extract.NumberRule{
		{Field: "complexity", Min: 1, Max: 5, Default: 3},
		{Field: "timeRequired", Min: 5, Max: 60, Default: 15},
	},
	Lists: []extract.ListRule{
		{Field: "hints", Max: codingMaxHints},
	},
}

func codingPrompt(difficulty string) extract.PromptSpec {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert programming educator. Create %d %s coding practice problems based on the concepts in this video transcript.\n", codingProblemCount, difficulty)

	switch difficulty {
	case DifficultyEasy:
		b.WriteString("Easy = a single concept from the video, solvable by a beginner in one sitting.")
	case DifficultyMedium:
		b.WriteString("Medium = combines two or more concepts from the video.")
	case DifficultyHard:
		b.WriteString("Hard = extends the video's concepts to a situation it did not cover directly.")
	}

	return extract.PromptSpec{
		Instructions: b.String(),
		Format: `Format EXACTLY like this for each problem:

Problem 1:
Title: [short problem title]
Description: [what to build and what the solution must do]
Hints:
- [first hint]
- [second hint]
Complexity: [1-5]
Time Required: [minutes, 5-60]`,
	}
}

// GetCodingProblems generates practice problems for a video at the given
// difficulty tier, degrading to the default problem set when extraction
// yields nothing usable.
func (s *Service) GetCodingProblems(ctx context.Context, videoID, difficulty string) ([]models.CodingProblem, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	records, err := s.runText(ctx, transcript.Text, textArtifact{
		prompt: codingPrompt(difficulty),
		label:  problemLabel,
		fields: codingFields,
		schema: codingSchema,
	})
	if err != nil {
		return nil, err
	}

	problems := make([]models.CodingProblem, 0, len(records))
	for _, rec := range records {
		problems = append(problems, models.CodingProblem{
			Title:               rec.Values["title"],
			Description:         rec.Values["description"],
			Hints:               rec.Lists["hints"],
			ComplexityRating:    mustInt(rec.Values["complexity"]),
			TimeRequiredMinutes: mustInt(rec.Values["timeRequired"]),
			Difficulty:          difficulty,
		})
	}

	if len(problems) == 0 {
		log.Printf("Coding-problem extraction for video %s produced no usable problems, using defaults", videoID)
		problems = codingFallback(difficulty)
	}

	return problems, nil
}

func codingFallback(difficulty string) []models.CodingProblem {
	return []models.CodingProblem{
		{
			Title:               "Reimplement the video's main example",
			Description:         "Rebuild the central example from the video from scratch, without looking back at it, then compare your version against the original.",
			Hints:               []string{"Start from the data the example works on", "Write the smallest version that runs, then extend it"},
			ComplexityRating:    2,
			TimeRequiredMinutes: 20,
			Difficulty:          difficulty,
		},
	}
}
