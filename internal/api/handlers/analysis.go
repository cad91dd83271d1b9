package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeshot/storeshot-api/internal/analyzer"
)

// AnalysisHandler exposes standalone screenshot analysis, used by editors
// that want palette and mood suggestions before running a generation.
type AnalysisHandler struct {
	vision *analyzer.Service
}

func NewAnalysisHandler(vision *analyzer.Service) *AnalysisHandler {
	return &AnalysisHandler{vision: vision}
}

type analyzeRequest struct {
	Screenshots []string `json:"screenshots" binding:"required"` // data URIs
}

// Analyze handles POST /analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Screenshots) == 0 || len(req.Screenshots) > maxScreenshotsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("between 1 and %d screenshots required", maxScreenshotsPerRequest),
		})
		return
	}

	analyses := h.vision.AnalyzeBatch(c.Request.Context(), req.Screenshots)
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}
