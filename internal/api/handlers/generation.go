package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeshot/storeshot-api/internal/analyzer"
	"github.com/storeshot/storeshot-api/internal/canvas"
	"github.com/storeshot/storeshot-api/internal/generation"
	"github.com/storeshot/storeshot-api/internal/layout"
	"github.com/storeshot/storeshot-api/internal/logger"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/services"
)

// GenerationHandler runs the full prompt-to-canvas flow: analyze the first
// screenshot, generate a structured layout, resolve each screen layout to
// concrete layers, and append the screens to the session document.
type GenerationHandler struct {
	sessions *services.SessionStore
	pipeline *generation.Service
	vision   *analyzer.Service
}

func NewGenerationHandler(sessions *services.SessionStore, pipeline *generation.Service, vision *analyzer.Service) *GenerationHandler {
	return &GenerationHandler{sessions: sessions, pipeline: pipeline, vision: vision}
}

type generateRequest struct {
	Prompt      string   `json:"prompt" binding:"required"`
	Screenshots []string `json:"screenshots"` // data URIs
}

// Generate handles POST /sessions/:sessionId/generations.
func (h *GenerationHandler) Generate(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Prompt) > maxPromptLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("prompt exceeds %d characters", maxPromptLength)})
		return
	}
	if len(req.Screenshots) > maxScreenshotsPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d screenshots per request", maxScreenshotsPerRequest)})
		return
	}

	requestID := c.GetString("request_id")
	session.ClaimRequest(requestID)

	// Visual context comes from the first screenshot; the others only feed
	// the mockup slots.
	var analysis *models.ScreenshotAnalysis
	if len(req.Screenshots) > 0 {
		a := h.vision.Analyze(c.Request.Context(), req.Screenshots[0])
		analysis = &a
	}

	result := h.pipeline.GenerateLayout(c.Request.Context(), &generation.Request{
		Prompt:          req.Prompt,
		ScreenshotCount: len(req.Screenshots),
		Analysis:        analysis,
		RequestID:       requestID,
	})

	// A newer generation may have started while this one was in flight;
	// its result must not clobber the document.
	if !session.IsCurrentRequest(requestID) {
		logger.Warn("Discarding stale generation response", logger.Fields{
			"request_id": requestID,
			"session_id": session.ID,
		})
		c.JSON(http.StatusConflict, gin.H{
			"error":      "superseded by a newer generation",
			"request_id": requestID,
		})
		return
	}

	var screens []models.Screen
	session.Scheduler.WithEngine(func(*canvas.Engine) error { //nolint:errcheck
		for i, screenLayout := range result.Response.Screens {
			ref := ""
			if len(req.Screenshots) > 0 {
				ref = req.Screenshots[min(i, len(req.Screenshots)-1)]
			}
			layers := layout.Resolve(models.LayoutDescriptor{
				Layout:      screenLayout.Layout,
				Background:  screenLayout.Background,
				Headline:    screenLayout.Headline,
				Subheadline: screenLayout.Subheadline,
			}, ref, i)

			screen := session.Document.AddGeneratedScreen(screenLayout.Headline, layers)
			screens = append(screens, *screen)
		}
		if len(session.Document.Screens) > 0 {
			session.Document.CurrentScreen = len(session.Document.Screens) - len(screens)
		}
		return nil
	})

	c.JSON(http.StatusOK, gin.H{
		"requestId": requestID,
		"model":     result.Model,
		"attempts":  result.Attempts,
		"fallback":  result.Fallback,
		"theme":     result.Response.Theme,
		"tone":      result.Response.Tone,
		"analysis":  analysis,
		"screens":   screens,
	})
}
