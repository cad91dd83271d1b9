package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/services"
)

type HealthHandler struct {
	db       *gorm.DB
	sessions *services.SessionStore
	cfg      *config.Config
}

func NewHealthHandler(db *gorm.DB, sessions *services.SessionStore, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions, cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "connected"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unreachable"
		}
	}

	providers := gin.H{
		"openai": h.cfg.OpenAIAPIKey != "",
		"gemini": h.cfg.GeminiAPIKey != "",
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  dbStatus,
		"sessions":  h.sessions.Count(),
		"providers": providers,
	})
}
