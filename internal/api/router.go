package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storeshot/storeshot-api/internal/analyzer"
	"github.com/storeshot/storeshot-api/internal/api/handlers"
	apimiddleware "github.com/storeshot/storeshot-api/internal/api/middleware"
	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/generation"
	"github.com/storeshot/storeshot-api/internal/metrics"
	"github.com/storeshot/storeshot-api/internal/render"
	"github.com/storeshot/storeshot-api/internal/services"
)

// Deps bundles the wired services the router needs.
type Deps struct {
	DB        *gorm.DB
	Sessions  *services.SessionStore
	Pipeline  *generation.Service
	Vision    *analyzer.Service
	Exporter  *render.Exporter
	Share     *services.ShareService
	CWMetrics *metrics.Client
}

func SetupRouter(cfg *config.Config, deps Deps, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Sessions, cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Shared artifacts are public: the link is the capability.
	exportHandler := handlers.NewExportHandler(deps.Sessions, deps.Exporter, deps.Share, deps.CWMetrics)
	router.GET("/share/:shareId", exportHandler.GetShare)
	router.GET("/share/:shareId/qr", exportHandler.GetShareQR)

	// API routes v1
	v1 := router.Group("/api/v1")
	switch {
	case cfg.IsGatewayMode():
		v1.Use(apimiddleware.GatewayAuth())
	default:
		v1.Use(apimiddleware.NoAuth())
	}
	{
		// Standalone screenshot analysis
		analysisHandler := handlers.NewAnalysisHandler(deps.Vision)
		v1.POST("/analyze", analysisHandler.Analyze)

		// Export size catalog
		v1.GET("/export/sizes", exportHandler.ListExportSizes)

		// Session lifecycle and canvas document operations
		sessionHandler := handlers.NewSessionHandler(deps.Sessions)
		v1.POST("/sessions", sessionHandler.CreateSession)
		v1.GET("/sessions/:sessionId", sessionHandler.GetDocument)
		v1.DELETE("/sessions/:sessionId", sessionHandler.DeleteSession)
		v1.POST("/sessions/:sessionId/screens", sessionHandler.AddScreen)
		v1.POST("/sessions/:sessionId/screens/select", sessionHandler.SelectScreen)
		v1.POST("/sessions/:sessionId/screens/remove", sessionHandler.RemoveScreen)
		v1.POST("/sessions/:sessionId/layers", sessionHandler.AddLayer)
		v1.PATCH("/sessions/:sessionId/layers/:layerId", sessionHandler.UpdateLayer)
		v1.DELETE("/sessions/:sessionId/layers/:layerId", sessionHandler.DeleteLayer)
		v1.POST("/sessions/:sessionId/layers/select", sessionHandler.SelectLayer)
		v1.POST("/sessions/:sessionId/background", sessionHandler.SetBackground)

		// AI layout generation
		generationHandler := handlers.NewGenerationHandler(deps.Sessions, deps.Pipeline, deps.Vision)
		v1.POST("/sessions/:sessionId/generations", generationHandler.Generate)

		// Pointer interaction and zoom
		interactionHandler := handlers.NewInteractionHandler(deps.Sessions)
		v1.POST("/sessions/:sessionId/pointer", interactionHandler.Pointer)
		v1.POST("/sessions/:sessionId/zoom", interactionHandler.Zoom)
		v1.POST("/sessions/:sessionId/flush", interactionHandler.Flush)

		// Export and share
		v1.POST("/sessions/:sessionId/export", exportHandler.Export)
		v1.POST("/sessions/:sessionId/share", exportHandler.CreateShare)
	}

	return router
}
