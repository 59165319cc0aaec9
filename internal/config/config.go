package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis (transcript cache)
	RedisURL              string
	TranscriptCacheTTLSec int

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int
	GeminiTimeoutMs      int

	// Generation retry policy
	GenerateMaxAttempts int
	GenerateBaseDelayMs int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   getEnvOrDefault("ENV", "development"),
		RedisURL:              mustGetEnv("REDIS_URL"),
		TranscriptCacheTTLSec: getEnvAsIntOrDefault("TRANSCRIPT_CACHE_TTL_SECONDS", 3600),
		GeminiAPIKey:          mustGetEnv("GEMINI_API_KEY"),
		GeminiConcurrentReqs:  getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		GeminiTimeoutMs:       getEnvAsIntOrDefault("GEMINI_TIMEOUT_MS", 30000),
		GenerateMaxAttempts:   getEnvAsIntOrDefault("GENERATE_MAX_ATTEMPTS", 3),
		GenerateBaseDelayMs:   getEnvAsIntOrDefault("GENERATE_BASE_DELAY_MS", 500),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
