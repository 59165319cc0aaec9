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
	quizQuestionCount = 10
	quizOptionCount   = 4
)

var questionLabel = regexp.MustCompile(`(?i)Question\s+\d+:`)

var quizFields = []extract.FieldSpec{
	{Name: "question", Prefixes: []string{"Question:"}},
	{Name: "options", Prefixes: []string{"Options:"}, Pattern: regexp.MustCompile(`^[A-D]\)\s*(.+)$`), Cardinality: extract.Multi},
	{Name: "answer", Prefixes: []string{"Correct Answer:", "Answer:"}, Letters: "ABCD"},
	{Name: "explanation", Prefixes: []string{"Explanation:"}, Continues: true},
}

func quizSchema(difficulty string) extract.Schema {
	padFormat := "Option %d"
	if difficulty == DifficultyHard {
		padFormat = "Advanced Option %d"
	}

	return extract.Schema{
		MaxItems: quizQuestionCount,
		Require:  []string{"question"},
		Strings: []extract.StringRule{
			{Field: "explanation", Default: "Review the relevant section of the video for the full explanation."},
		},
		Lists: []extract.ListRule{
			{Field: "options", MinRaw: 2, Count: quizOptionCount, Max: quizOptionCount, PadFormat: padFormat},
		},
		Enums: []extract.EnumRule{
			{Field: "answer", Allowed: []string{"A", "B", "C", "D"}, Default: "A"},
		},
	}
}

func quizPrompt(difficulty string) extract.PromptSpec {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert programming educator. Create %d %s multiple choice quiz questions based on this video transcript.\n", quizQuestionCount, difficulty)

	switch difficulty {
	case DifficultyEasy:
		b.WriteString("Easy = direct recall of facts stated in the transcript, suitable for beginners.")
	case DifficultyMedium:
		b.WriteString("Medium = application of the concepts covered, not just recall.")
	case DifficultyHard:
		b.WriteString("Hard = analysis, synthesis, or inference beyond what is explicitly stated.")
	}

	return extract.PromptSpec{
		Instructions: b.String(),
		Format: `Format EXACTLY like this for each question:

Question 1:
Question: [the question text]
Options:
A) [first option]
B) [second option]
C) [third option]
D) [fourth option]
Correct Answer: [letter A-D]
Explanation: [why that answer is correct]`,
	}
}

// GetQuiz generates quiz questions for a video at the given difficulty tier.
// Unusable model output degrades to the default question set, never to an
// error: a best-effort quiz beats an error page.
func (s *Service) GetQuiz(ctx context.Context, videoID, difficulty string) ([]models.QuizQuestion, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	records, err := s.runText(ctx, transcript.Text, textArtifact{
		prompt: quizPrompt(difficulty),
		label:  questionLabel,
		fields: quizFields,
		schema: quizSchema(difficulty),
	})
	if err != nil {
		return nil, err
	}

	questions := make([]models.QuizQuestion, 0, len(records))
	for _, rec := range records {
		questions = append(questions, models.QuizQuestion{
			Question:      rec.Values["question"],
			Options:       rec.Lists["options"],
			CorrectAnswer: rec.Values["answer"],
			Explanation:   rec.Values["explanation"],
			Difficulty:    difficulty,
		})
	}

	if len(questions) == 0 {
		log.Printf("Quiz extraction for video %s produced no usable questions, using defaults", videoID)
		questions = quizFallback(difficulty)
	}

	return questions, nil
}

// quizFallback is the hand-authored default question set, schema-valid by
// construction.
func quizFallback(difficulty string) []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			Question:      "What is the main benefit of breaking a program into small functions?",
			Options:       []string{"The code runs faster", "Each piece can be understood and tested on its own", "It uses less memory", "The compiler requires it"},
			CorrectAnswer: "B",
			Explanation:   "Small functions isolate one idea each, which makes code easier to read, test and reuse.",
			Difficulty:    difficulty,
		},
		{
			Question:      "What does it mean when code is described as readable?",
			Options:       []string{"It compiles without warnings", "It has many comments", "Another programmer can follow its intent quickly", "It fits on one screen"},
			CorrectAnswer: "C",
			Explanation:   "Readability is about how quickly another person can understand what the code is doing and why.",
			Difficulty:    difficulty,
		},
	}
}
