package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"learntube-backend/internal/artifacts"
	"learntube-backend/internal/services"
)

// 11-character YouTube video ID. Checked before any transcript fetch so bad
// input never costs a network call.
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

type VideoHandler struct {
	artifacts *artifacts.Service
}

func NewVideoHandler(svc *artifacts.Service) *VideoHandler {
	return &VideoHandler{artifacts: svc}
}

func (h *VideoHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	difficulty, err := artifacts.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "difficulty must be easy, medium or hard")
		return
	}

	questions, err := h.artifacts.GetQuiz(r.Context(), videoID, difficulty)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"difficulty": difficulty,
		"questions":  questions,
		"count":      len(questions),
	})
}

func (h *VideoHandler) GetCodingProblems(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	difficulty, err := artifacts.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "difficulty must be easy, medium or hard")
		return
	}

	problems, err := h.artifacts.GetCodingProblems(r.Context(), videoID, difficulty)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"difficulty": difficulty,
		"problems":   problems,
		"count":      len(problems),
	})
}

func (h *VideoHandler) GetKeyConcepts(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	concepts, err := h.artifacts.GetKeyConcepts(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"concepts": concepts,
		"count":    len(concepts),
	})
}

func (h *VideoHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	summary, err := h.artifacts.GetSummary(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

func (h *VideoHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	sections, err := h.artifacts.GetSectionBreakdown(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"subPoints": sections,
		"count":     len(sections),
	})
}

func (h *VideoHandler) GetFormulaFusion(w http.ResponseWriter, r *http.Request) {
	videoID, ok := requireVideoID(w, r)
	if !ok {
		return
	}

	module, err := h.artifacts.GetFormulaFusion(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"derivations":      module.Derivations,
		"equationDatabase": module.EquationDatabase,
		"categories":       module.Categories,
	})
}

func requireVideoID(w http.ResponseWriter, r *http.Request) (string, bool) {
	videoID := chi.URLParam(r, "videoID")
	if !videoIDPattern.MatchString(videoID) {
		writeError(w, http.StatusBadRequest, "INVALID_VIDEO_ID", "Video ID must be exactly 11 characters (letters, digits, - or _)")
		return "", false
	}
	return videoID, true
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   code,
		"message": message,
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	var unavailable *services.TranscriptUnavailableError
	var tooShort *services.TranscriptTooShortError
	var generation *services.GenerationFailedError
	var malformed *services.MalformedOutputError

	switch {
	case errors.As(err, &unavailable):
		writeError(w, http.StatusNotFound, "TRANSCRIPT_UNAVAILABLE",
			"No transcript is available for this video. Captions may be disabled, or the video may be private, age-restricted, or a live stream.")
	case errors.As(err, &tooShort):
		writeError(w, http.StatusNotFound, "TRANSCRIPT_TOO_SHORT",
			"This video's transcript is too short to generate learning content from.")
	case errors.As(err, &generation):
		log.Printf("generation failed: %v", err)
		if generation.Timeout {
			writeError(w, http.StatusGatewayTimeout, "GENERATION_TIMEOUT", "Content generation timed out. Please try again.")
		} else {
			writeError(w, http.StatusInternalServerError, "GENERATION_FAILED", "Content generation failed. Please try again.")
		}
	case errors.As(err, &malformed):
		log.Printf("malformed model output: %v", err)
		writeError(w, http.StatusInternalServerError, "MALFORMED_MODEL_OUTPUT", "Failed to parse the generated content.")
	default:
		log.Printf("unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred.")
	}
}
