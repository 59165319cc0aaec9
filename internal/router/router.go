package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"learntube-backend/internal/handlers"
	"learntube-backend/internal/middleware"
)

func New(videoHandler *handlers.VideoHandler, frontendURL string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generation is expensive; cap each IP well below the Gemini quota.
	generateLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/videos/{videoID}", func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Get("/quiz", videoHandler.GetQuiz)
			r.Get("/coding-problems", videoHandler.GetCodingProblems)
			r.Get("/key-concepts", videoHandler.GetKeyConcepts)
			r.Get("/summary", videoHandler.GetSummary)
			r.Get("/sections", videoHandler.GetSections)
			r.Get("/formula-fusion", videoHandler.GetFormulaFusion)
		})
	})

	return r
}
