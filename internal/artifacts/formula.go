package artifacts

import (
	"context"
	"encoding/json"
	"fmt"

	"learntube-backend/internal/extract"
	"learntube-backend/internal/models"
	"learntube-backend/internal/services"
)

const (
	formulaMaxCategories = 5
	formulaMaxEquations  = 20
	formulaMaxSteps      = 10
)

var formulaPrompt = extract.PromptSpec{
	Instructions: `You are an expert STEM educator. Extract every equation and derivation discussed in this video transcript into a structured module.

CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.`,
	Format: `JSON shape:
{
  "derivations": [{"title": "string", "steps": ["string"], "result": "string"}],
  "equationDatabase": [{"name": "string", "equation": "string", "description": "string", "variables": ["string"]}],
  "categories": [{"name": "string", "description": "string", "equations": ["string"]}]
}`,
}

// GetFormulaFusion generates the FormulaFusion module. This artifact defines
// no fallback, so a response that cannot be parsed as the expected JSON
// object surfaces as a malformed-output error; a structurally valid but
// sparse module is returned as-is after normalization.
func (s *Service) GetFormulaFusion(ctx context.Context, videoID string) (*models.FormulaFusionModule, error) {
	transcript, err := s.transcript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, extract.BuildPrompt(transcript.Text, formulaPrompt))
	if err != nil {
		return nil, err
	}

	payload, err := extract.SliceJSON(raw)
	if err != nil {
		return nil, &services.MalformedOutputError{Err: err}
	}

	var module models.FormulaFusionModule
	if err := json.Unmarshal([]byte(payload), &module); err != nil {
		return nil, &services.MalformedOutputError{Err: fmt.Errorf("failed to parse JSON object: %w", err)}
	}

	normalizeFormulaModule(&module)
	return &module, nil
}

// normalizeFormulaModule applies the same repair rules as the record
// normalizer to the typed JSON shape: default missing strings, truncate
// collections, never reject.
func normalizeFormulaModule(m *models.FormulaFusionModule) {
	for i := range m.Derivations {
		if m.Derivations[i].Title == "" {
			m.Derivations[i].Title = fmt.Sprintf("Derivation %d", i+1)
		}
		if len(m.Derivations[i].Steps) > formulaMaxSteps {
			m.Derivations[i].Steps = m.Derivations[i].Steps[:formulaMaxSteps]
		}
	}

	if len(m.EquationDatabase) > formulaMaxEquations {
		m.EquationDatabase = m.EquationDatabase[:formulaMaxEquations]
	}
	for i := range m.EquationDatabase {
		if m.EquationDatabase[i].Name == "" {
			m.EquationDatabase[i].Name = fmt.Sprintf("Equation %d", i+1)
		}
		if m.EquationDatabase[i].Description == "" {
			m.EquationDatabase[i].Description = "An equation discussed in the video."
		}
	}

	if len(m.Categories) > formulaMaxCategories {
		m.Categories = m.Categories[:formulaMaxCategories]
	}
	for i := range m.Categories {
		if m.Categories[i].Name == "" {
			m.Categories[i].Name = fmt.Sprintf("Category %d", i+1)
		}
	}
}
