package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learntube-backend/internal/artifacts"
	"learntube-backend/internal/cache"
	"learntube-backend/internal/config"
	"learntube-backend/internal/database"
	"learntube-backend/internal/handlers"
	"learntube-backend/internal/router"
	"learntube-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting LearnTube Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	transcriptCache := cache.NewRedisCache(redisClient, time.Duration(cfg.TranscriptCacheTTLSec)*time.Second)

	// ──── Step 3: Initialize Gemini Client ────
	gemini, err := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer gemini.Close()
	log.Println("✓ Gemini Flash client initialized")

	generator := services.NewRetryingGenerator(
		gemini,
		cfg.GenerateMaxAttempts,
		time.Duration(cfg.GenerateBaseDelayMs)*time.Millisecond,
		time.Duration(cfg.GeminiTimeoutMs)*time.Millisecond,
	)

	// ──── Step 4: Initialize Services & Handlers ────
	youtubeService := services.NewYouTubeService()
	artifactService := artifacts.NewService(youtubeService, generator, transcriptCache)
	videoHandler := handlers.NewVideoHandler(artifactService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(videoHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation with retries can run long
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LearnTube Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
