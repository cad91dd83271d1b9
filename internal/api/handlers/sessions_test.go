package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/services"
)

func sessionRouter(t *testing.T) (*gin.Engine, *services.SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewSessionStore(context.Background(), &config.Config{SessionTTL: time.Minute})
	handler := NewSessionHandler(store)

	router := gin.New()
	router.POST("/sessions", handler.CreateSession)
	router.GET("/sessions/:sessionId", handler.GetDocument)
	router.POST("/sessions/:sessionId/screens", handler.AddScreen)
	router.POST("/sessions/:sessionId/layers", handler.AddLayer)
	router.PATCH("/sessions/:sessionId/layers/:layerId", handler.UpdateLayer)
	router.DELETE("/sessions/:sessionId/layers/:layerId", handler.DeleteLayer)
	router.POST("/sessions/:sessionId/background", handler.SetBackground)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionLifecycle(t *testing.T) {
	router, _ := sessionRouter(t)

	w := doJSON(t, router, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	w = doJSON(t, router, http.MethodPost, "/sessions/"+created.SessionID+"/screens", map[string]string{"name": "First"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First")

	w = doJSON(t, router, http.MethodGet, "/sessions/not-a-session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLayerCRUDOverHTTP(t *testing.T) {
	router, store := sessionRouter(t)
	session := store.Create("sess-1")
	session.Document.AddScreen("Screen")

	w := doJSON(t, router, http.MethodPost, "/sessions/sess-1/layers", models.Layer{
		Type: models.LayerTypeText, X: 10, Y: 20, Width: 300, Height: 100, Content: "Hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var added struct {
		Layer models.Layer `json:"layer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.NotEmpty(t, added.Layer.ID)

	// Partial update with resize clamping.
	small := 10.0
	w = doJSON(t, router, http.MethodPatch, "/sessions/sess-1/layers/"+added.Layer.ID, map[string]any{
		"width": small,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Layer models.Layer `json:"layer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, float64(models.MinLayerSize), updated.Layer.Width)
	assert.Equal(t, "Hello", updated.Layer.Content, "untouched fields survive a partial update")

	w = doJSON(t, router, http.MethodDelete, "/sessions/sess-1/layers/"+added.Layer.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/sessions/sess-1/layers/"+added.Layer.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetBackgroundOverHTTP(t *testing.T) {
	router, store := sessionRouter(t)
	session := store.Create("sess-1")
	session.Document.AddScreen("a")
	session.Document.AddScreen("b")

	w := doJSON(t, router, http.MethodPost, "/sessions/sess-1/background", map[string]any{
		"color":      "#112233",
		"applyToAll": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "#112233", session.Document.Screens[0].BackgroundColor)
	assert.Equal(t, "#112233", session.Document.Screens[1].BackgroundColor)
}
