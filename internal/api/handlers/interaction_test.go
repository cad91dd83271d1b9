package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/services"
)

func interactionRouter(t *testing.T) (*gin.Engine, *services.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewSessionStore(context.Background(), &config.Config{SessionTTL: time.Minute})
	session := store.Create("interactive")
	// Frames are driven through the flush endpoint here; the background
	// ticker would commit staged moves at its own pace.
	session.Scheduler.Stop()
	session.Document.AddScreen("Screen")
	_, err := session.Document.AddLayer(models.Layer{
		ID: "box", Type: models.LayerTypeText, X: 100, Y: 100, Width: 200, Height: 80,
	})
	require.NoError(t, err)

	handler := NewInteractionHandler(store)
	router := gin.New()
	router.POST("/sessions/:sessionId/pointer", handler.Pointer)
	router.POST("/sessions/:sessionId/zoom", handler.Zoom)
	router.POST("/sessions/:sessionId/flush", handler.Flush)
	return router, session
}

func TestPointerDragAndFlushOverHTTP(t *testing.T) {
	router, session := interactionRouter(t)

	w := doJSON(t, router, http.MethodPost, "/sessions/interactive/pointer",
		map[string]any{"type": "down", "x": 100.0, "y": 100.0, "layerId": "box"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dragging"`)

	w = doJSON(t, router, http.MethodPost, "/sessions/interactive/pointer",
		map[string]any{"type": "move", "x": 130.0, "y": 160.0, "layerId": "box"})
	require.Equal(t, http.StatusOK, w.Code)

	// Moves stay staged until a frame commits them.
	layer := session.Document.Screen().Layers[1]
	assert.Equal(t, float64(100), layer.X)

	w = doJSON(t, router, http.MethodPost, "/sessions/interactive/flush", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var flush struct {
		Flushed bool `json:"flushed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flush))
	assert.True(t, flush.Flushed)

	layer = session.Document.Screen().Layers[1]
	assert.Equal(t, float64(130), layer.X)
	assert.Equal(t, float64(160), layer.Y)

	w = doJSON(t, router, http.MethodPost, "/sessions/interactive/pointer", map[string]any{"type": "up"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"idle"`)
}

func TestPointerRejectsUnknownLayer(t *testing.T) {
	router, _ := interactionRouter(t)

	w := doJSON(t, router, http.MethodPost, "/sessions/interactive/pointer",
		map[string]any{"type": "down", "x": 0.0, "y": 0.0, "layerId": "ghost"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/sessions/interactive/pointer",
		map[string]any{"type": "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoomOverHTTP(t *testing.T) {
	router, session := interactionRouter(t)

	w := doJSON(t, router, http.MethodPost, "/sessions/interactive/zoom",
		map[string]string{"direction": "in"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Zoom float64 `json:"zoom"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.1, resp.Zoom, 1e-9)
	assert.InDelta(t, 1.1, session.Document.Zoom.Factor, 1e-9)

	w = doJSON(t, router, http.MethodPost, "/sessions/interactive/zoom",
		map[string]string{"direction": "diagonal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
