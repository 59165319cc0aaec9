package artifacts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"learntube-backend/internal/cache"
	"learntube-backend/internal/models"
	"learntube-backend/internal/services"
)

const testVideoID = "dQw4w9WgXcQ"

type fakeSource struct {
	transcript      *models.Transcript
	transcriptErr   error
	meta            *models.VideoMetadata
	metaErr         error
	transcriptCalls int
	metaCalls       int
}

func (f *fakeSource) GetTranscript(ctx context.Context, videoID string) (*models.Transcript, error) {
	f.transcriptCalls++
	return f.transcript, f.transcriptErr
}

func (f *fakeSource) GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	f.metaCalls++
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

type fakeGen struct {
	out     string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func usableTranscript() *models.Transcript {
	return &models.Transcript{
		VideoID:   testVideoID,
		Text:      strings.Repeat("The video explains recursion and memoization with worked examples. ", 4),
		FetchedAt: time.Now(),
	}
}

func newTestService(src *fakeSource, gen *fakeGen) *Service {
	return NewService(src, gen, cache.NewMemoryCache(time.Minute))
}

func TestGetQuiz_ParsesModelOutput(t *testing.T) {
	raw := `Here are your questions:

Question 1:
Question: What is 2+2?
Options:
A) 3
B) 4
C) 5
D) 6
Correct Answer: B
Explanation: Basic math.

Question 2:
Question: What stops a recursive function?
Options:
A) The base case
B) The stack
C) The compiler
D) A loop
Correct Answer: A
Explanation: Without a base case the recursion never terminates,
so every recursive function needs one.`

	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	questions, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyMedium)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	first := questions[0]
	if first.Question != "What is 2+2?" {
		t.Errorf("question = %q", first.Question)
	}
	wantOptions := []string{"3", "4", "5", "6"}
	for i, opt := range wantOptions {
		if first.Options[i] != opt {
			t.Errorf("option %d = %q, want %q", i, first.Options[i], opt)
		}
	}
	if first.CorrectAnswer != "B" {
		t.Errorf("answer = %q, want B", first.CorrectAnswer)
	}
	if first.Difficulty != DifficultyMedium {
		t.Errorf("difficulty = %q", first.Difficulty)
	}

	second := questions[1]
	if !strings.Contains(second.Explanation, "so every recursive function needs one.") {
		t.Errorf("explanation continuation lost: %q", second.Explanation)
	}

	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if !strings.Contains(gen.prompts[0], "recursion and memoization") {
		t.Error("prompt does not embed the transcript")
	}
}

func TestGetQuiz_UnusableOutputFallsBack(t *testing.T) {
	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: "I'm sorry, I cannot create a quiz from this transcript."}
	svc := newTestService(src, gen)

	questions, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyHard)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	if len(questions) == 0 {
		t.Fatal("fallback produced no questions")
	}
	for i, q := range questions {
		if q.Question == "" {
			t.Errorf("question %d empty", i)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		if !strings.Contains("ABCD", q.CorrectAnswer) || q.CorrectAnswer == "" {
			t.Errorf("question %d answer = %q", i, q.CorrectAnswer)
		}
		if q.Difficulty != DifficultyHard {
			t.Errorf("question %d difficulty = %q", i, q.Difficulty)
		}
	}
}

func TestGetQuiz_PadsSparseOptions(t *testing.T) {
	raw := `Question 1:
Question: Which data structure backs memoization?
Options:
A) A map
B) A linked list
Correct Answer: A
Explanation: Lookups must be fast.`

	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	questions, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyMedium)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	opts := questions[0].Options
	if len(opts) != 4 {
		t.Fatalf("got %d options, want 4", len(opts))
	}
	if opts[0] != "A map" || opts[1] != "A linked list" {
		t.Errorf("real options not preserved: %v", opts)
	}
	if opts[2] != "Option 3" || opts[3] != "Option 4" {
		t.Errorf("padded options = %v", opts[2:])
	}
}

func TestTranscriptCacheHitSkipsSource(t *testing.T) {
	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: "nothing usable"}
	transcripts := cache.NewMemoryCache(time.Minute)
	transcripts.Set(context.Background(), usableTranscript())
	svc := NewService(src, gen, transcripts)

	if _, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyMedium); err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	if src.transcriptCalls != 0 {
		t.Errorf("source called %d times on a cache hit, want 0", src.transcriptCalls)
	}
}

func TestTranscriptCacheMissPopulatesCache(t *testing.T) {
	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: "nothing usable"}
	svc := newTestService(src, gen)

	ctx := context.Background()
	if _, err := svc.GetQuiz(ctx, testVideoID, DifficultyMedium); err != nil {
		t.Fatalf("first GetQuiz: %v", err)
	}
	if _, err := svc.GetQuiz(ctx, testVideoID, DifficultyMedium); err != nil {
		t.Fatalf("second GetQuiz: %v", err)
	}

	if src.transcriptCalls != 1 {
		t.Errorf("source called %d times across two requests, want 1", src.transcriptCalls)
	}
}

func TestShortTranscriptRejectedBeforeGeneration(t *testing.T) {
	src := &fakeSource{transcript: &models.Transcript{VideoID: testVideoID, Text: "too short"}}
	gen := &fakeGen{out: "never used"}
	svc := newTestService(src, gen)

	_, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyMedium)

	var shortErr *services.TranscriptTooShortError
	if !errors.As(err, &shortErr) {
		t.Fatalf("err = %v, want *TranscriptTooShortError", err)
	}
	if shortErr.Length != len("too short") {
		t.Errorf("Length = %d", shortErr.Length)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a short transcript, want 0", gen.calls)
	}
}

func TestTranscriptUnavailablePropagates(t *testing.T) {
	src := &fakeSource{transcriptErr: &services.TranscriptUnavailableError{VideoID: testVideoID, Err: errors.New("captions disabled")}}
	gen := &fakeGen{out: "never used"}
	svc := newTestService(src, gen)

	_, err := svc.GetSummary(context.Background(), testVideoID)

	var unavailable *services.TranscriptUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want *TranscriptUnavailableError", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestGenerationErrorPropagates(t *testing.T) {
	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{err: &services.GenerationFailedError{Attempts: 3, Err: errors.New("overloaded")}}
	svc := newTestService(src, gen)

	_, err := svc.GetQuiz(context.Background(), testVideoID, DifficultyMedium)

	var genErr *services.GenerationFailedError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want *GenerationFailedError", err)
	}
}

func TestGetCodingProblems_ClampsAndTruncates(t *testing.T) {
	raw := `Problem 1:
Title: Implement a memoization wrapper
Description: Build a wrapper that caches the results of a pure function
keyed on its arguments.
Hints:
- Use a map
- Key on the arguments
- Handle the empty case
- One hint too many
Complexity: 9
Time Required: about 90 minutes`

	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	problems, err := svc.GetCodingProblems(context.Background(), testVideoID, DifficultyMedium)
	if err != nil {
		t.Fatalf("GetCodingProblems: %v", err)
	}
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}

	p := problems[0]
	if p.ComplexityRating != 5 {
		t.Errorf("ComplexityRating = %d, want clamped 5", p.ComplexityRating)
	}
	if p.TimeRequiredMinutes != 60 {
		t.Errorf("TimeRequiredMinutes = %d, want clamped 60", p.TimeRequiredMinutes)
	}
	if len(p.Hints) != 3 {
		t.Errorf("got %d hints, want 3", len(p.Hints))
	}
	if !strings.Contains(p.Description, "keyed on its arguments.") {
		t.Errorf("description continuation lost: %q", p.Description)
	}
}

func TestGetKeyConcepts_JSONMode(t *testing.T) {
	transcript := usableTranscript()
	transcript.Segments = []models.TimedSegment{
		{Text: "intro", Start: 0, Duration: 10},
		{Text: "main part", Start: 10, Duration: 5},
	}
	raw := `Here are the concepts:
[
  {"timestamp": 12.7, "name": "Recursion", "description": "A function calling itself."},
  {"timestamp": 300, "name": "Memoization", "description": "Caching results."},
  {"timestamp": 5, "name": "", "description": "no name, dropped"}
]`

	src := &fakeSource{transcript: transcript}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	concepts, err := svc.GetKeyConcepts(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetKeyConcepts: %v", err)
	}
	if len(concepts) != 2 {
		t.Fatalf("got %d concepts, want 2", len(concepts))
	}

	if concepts[0].TimestampSeconds != 12 {
		t.Errorf("fractional timestamp = %d, want floored 12", concepts[0].TimestampSeconds)
	}
	// The transcript ends at second 15; out-of-video timestamps clamp to it.
	if concepts[1].TimestampSeconds != 15 {
		t.Errorf("out-of-range timestamp = %d, want clamped 15", concepts[1].TimestampSeconds)
	}

	// The prompt must carry per-segment markers for timestamp anchoring.
	if !strings.Contains(gen.prompts[0], "[10] main part") {
		t.Error("prompt missing timestamped segments")
	}
}

func TestGetKeyConcepts_MalformedFallsBackSilently(t *testing.T) {
	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: "I could not find any concepts, sorry."}
	svc := newTestService(src, gen)

	concepts, err := svc.GetKeyConcepts(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetKeyConcepts should not fail on malformed output: %v", err)
	}
	if len(concepts) == 0 {
		t.Fatal("fallback produced no concepts")
	}
	if concepts[0].Name == "" {
		t.Error("fallback concept has no name")
	}
}

func TestGetSummary_ParsesModelOutput(t *testing.T) {
	raw := `Title: Recursion Deep Dive
Topics:
- Recursion
- Memoization
Summary Points:
1. Base cases stop recursion.
2. Memoization caches repeated work.
Key Topics: recursion, memoization, dynamic programming`

	src := &fakeSource{
		transcript: usableTranscript(),
		meta:       &models.VideoMetadata{Title: "Uploaded title", Author: "Channel", DurationSeconds: 600},
	}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	summary, err := svc.GetSummary(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if summary.Title != "Recursion Deep Dive" {
		t.Errorf("Title = %q", summary.Title)
	}
	if summary.DurationSeconds != 600 {
		t.Errorf("DurationSeconds = %d, want 600 from metadata", summary.DurationSeconds)
	}
	if len(summary.Topics) != 2 {
		t.Errorf("Topics = %v", summary.Topics)
	}
	if len(summary.Points) != 2 || !strings.Contains(summary.Points[0], "Base cases") {
		t.Errorf("Points = %v", summary.Points)
	}
	if len(summary.KeyTopics) != 3 || summary.KeyTopics[2] != "dynamic programming" {
		t.Errorf("KeyTopics = %v", summary.KeyTopics)
	}
}

func TestGetSummary_MetadataFailureIsNonFatal(t *testing.T) {
	src := &fakeSource{
		transcript: usableTranscript(),
		metaErr:    errors.New("metadata endpoint down"),
	}
	gen := &fakeGen{out: "no parseable structure here"}
	svc := newTestService(src, gen)

	summary, err := svc.GetSummary(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.Title != "Video Summary" {
		t.Errorf("Title = %q, want final fallback", summary.Title)
	}
	if len(summary.Points) == 0 {
		t.Error("Points empty, want default point")
	}
}

func TestGetSectionBreakdown_SplitsOnTripleQuotes(t *testing.T) {
	raw := `Here is the breakdown:
"""
Section: Introduction
Timestamp: 0
Points:
- What recursion is
- Why it matters
"""
Section: Worked Example
Timestamp: 95
Points:
- Fibonacci step by step
"""`

	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	sections, err := svc.GetSectionBreakdown(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetSectionBreakdown: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}

	if sections[0].Title != "Introduction" || sections[0].TimestampSeconds != 0 {
		t.Errorf("section 0 = %+v", sections[0])
	}
	if sections[1].Title != "Worked Example" || sections[1].TimestampSeconds != 95 {
		t.Errorf("section 1 = %+v", sections[1])
	}
	if len(sections[0].Points) != 2 {
		t.Errorf("section 0 points = %v", sections[0].Points)
	}
}

func TestGetFormulaFusion_NormalizesModule(t *testing.T) {
	raw := `{
  "derivations": [{"title": "", "steps": ["a","b","c","d","e","f","g","h","i","j","k"], "result": "E = mc^2"}],
  "equationDatabase": [{"name": "", "equation": "F = ma", "description": "", "variables": ["F","m","a"]}],
  "categories": [
    {"name": "Mechanics"}, {"name": "Optics"}, {"name": "Thermo"},
    {"name": "Waves"}, {"name": "Fields"}, {"name": "One too many"}
  ]
}`

	src := &fakeSource{transcript: usableTranscript()}
	gen := &fakeGen{out: raw}
	svc := newTestService(src, gen)

	module, err := svc.GetFormulaFusion(context.Background(), testVideoID)
	if err != nil {
		t.Fatalf("GetFormulaFusion: %v", err)
	}

	if module.Derivations[0].Title != "Derivation 1" {
		t.Errorf("derivation title = %q", module.Derivations[0].Title)
	}
	if len(module.Derivations[0].Steps) != 10 {
		t.Errorf("got %d steps, want 10", len(module.Derivations[0].Steps))
	}
	if module.EquationDatabase[0].Name != "Equation 1" {
		t.Errorf("equation name = %q", module.EquationDatabase[0].Name)
	}
	if module.EquationDatabase[0].Description == "" {
		t.Error("equation description not defaulted")
	}
	if len(module.Categories) != 5 {
		t.Errorf("got %d categories, want 5", len(module.Categories))
	}
}

func TestGetFormulaFusion_MalformedOutputFails(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"no JSON at all", "I cannot extract equations from this transcript."},
		{"invalid JSON", `{"derivations": [unterminated`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{transcript: usableTranscript()}
			gen := &fakeGen{out: tc.out}
			svc := newTestService(src, gen)

			_, err := svc.GetFormulaFusion(context.Background(), testVideoID)

			var malformed *services.MalformedOutputError
			if !errors.As(err, &malformed) {
				t.Fatalf("err = %v, want *MalformedOutputError", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", DifficultyMedium, false},
		{"easy", DifficultyEasy, false},
		{"medium", DifficultyMedium, false},
		{"hard", DifficultyHard, false},
		{"expert", "", true},
		{"EASY", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDifficulty(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDifficulty(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
