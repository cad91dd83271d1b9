package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/storeshot/storeshot-api/internal/analyzer"
	"github.com/storeshot/storeshot-api/internal/api"
	"github.com/storeshot/storeshot-api/internal/assets"
	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/database"
	"github.com/storeshot/storeshot-api/internal/generation"
	"github.com/storeshot/storeshot-api/internal/llm"
	"github.com/storeshot/storeshot-api/internal/metrics"
	"github.com/storeshot/storeshot-api/internal/observability"
	"github.com/storeshot/storeshot-api/internal/render"
	"github.com/storeshot/storeshot-api/internal/services"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "storeshot-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0, // 100% sampling for now, adjust based on volume
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	// Initialize Langfuse tracing
	observability.InitializeLangfuse(ctx, cfg)

	// Initialize database; nil db means in-memory share links only
	db, err := database.Connect(cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to connect to database:", err)
	}

	// CloudWatch metrics (no-op outside production)
	cwMetrics, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}

	// Wire domain services
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	imageCache := assets.NewCache()
	vision := analyzer.NewService(cfg, factory, imageCache)
	pipeline := generation.NewService(cfg, factory, cwMetrics)
	sessions := services.NewSessionStore(ctx, cfg)
	share := services.NewShareService(db, cfg)

	rasterizer, err := render.NewRasterizer(imageCache)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize rasterizer:", err)
	}
	exporter := render.NewExporter(rasterizer)

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(cfg, api.Deps{
		DB:        db,
		Sessions:  sessions,
		Pipeline:  pipeline,
		Vision:    vision,
		Exporter:  exporter,
		Share:     share,
		CWMetrics: cwMetrics,
	}, GetVersion())

	// Start server
	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
