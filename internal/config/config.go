package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
// Auth and billing are handled by the upstream gateway; the API itself only
// needs provider keys, observability settings and pipeline tuning knobs.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Models
	TextModel   string // default model for layout structuring
	VisionModel string // default model for screenshot analysis

	// Generation pipeline
	MaxAttempts    int           // generic retry budget per generation
	BackoffBase    time.Duration // exponential backoff base (base * 2^attempt)
	RateLimitWait  time.Duration // single bounded wait after a 429
	AnalysisMinGap time.Duration // minimum interval between vision calls
	SessionTTL     time.Duration // idle lifetime of a canvas session

	// Share artifacts
	DatabaseURL  string // optional Postgres; in-memory fallback when empty
	ShareBaseURL string // public base URL embedded in share links / QR codes

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the cloud gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		TextModel:         getEnv("TEXT_MODEL", "gpt-5-mini"),
		VisionModel:       getEnv("VISION_MODEL", "gemini-2.5-flash"),
		MaxAttempts:       getEnvInt("GENERATION_MAX_ATTEMPTS", 3),
		BackoffBase:       getEnvDuration("GENERATION_BACKOFF_BASE", time.Second),
		RateLimitWait:     getEnvDuration("GENERATION_RATE_LIMIT_WAIT", 2*time.Second),
		AnalysisMinGap:    getEnvDuration("ANALYSIS_MIN_INTERVAL", 2*time.Second),
		SessionTTL:        getEnvDuration("SESSION_TTL", 2*time.Hour),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		ShareBaseURL:      getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// IsGatewayMode returns true if running behind the cloud gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}
