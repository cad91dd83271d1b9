package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storeshot/storeshot-api/internal/canvas"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/services"
)

// SessionHandler exposes the canvas document operations over HTTP. Each
// session is one user's ephemeral editing state; all mutations go through
// the session's frame scheduler lock.
type SessionHandler struct {
	sessions *services.SessionStore
}

func NewSessionHandler(sessions *services.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) session(c *gin.Context) *services.Session {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil
	}
	return session
}

// CreateSession starts a new editing session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	id := uuid.New().String()
	session := h.sessions.Create(id)

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": session.ID,
		"document":  session.Document,
	})
}

// GetDocument returns the session's full canvas state.
func (h *SessionHandler) GetDocument(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var doc *canvas.Document
	session.Scheduler.WithEngine(func(*canvas.Engine) error { //nolint:errcheck
		doc = session.Document
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// DeleteSession ends a session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(c.Param("sessionId"))
	c.Status(http.StatusNoContent)
}

type addScreenRequest struct {
	Name string `json:"name"`
}

// AddScreen appends an empty screen and selects it.
func (h *SessionHandler) AddScreen(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req addScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var screen *models.Screen
	session.Scheduler.WithEngine(func(*canvas.Engine) error { //nolint:errcheck
		screen = session.Document.AddScreen(req.Name)
		return nil
	})
	c.JSON(http.StatusCreated, gin.H{"screen": screen})
}

type selectScreenRequest struct {
	Index int `json:"index"`
}

// SelectScreen switches the current screen.
func (h *SessionHandler) SelectScreen(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req selectScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		return session.Document.SelectScreen(req.Index)
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"currentScreen": req.Index})
}

// RemoveScreen deletes a screen by index.
func (h *SessionHandler) RemoveScreen(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req selectScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		return session.Document.RemoveScreen(req.Index)
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddLayer appends a layer to the current screen.
func (h *SessionHandler) AddLayer(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var layer models.Layer
	if err := c.ShouldBindJSON(&layer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var added *models.Layer
	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		var addErr error
		added, addErr = session.Document.AddLayer(layer)
		return addErr
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"layer": added})
}

// UpdateLayer applies a partial update to a layer.
func (h *SessionHandler) UpdateLayer(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var patch models.LayerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var updated *models.Layer
	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		var updateErr error
		updated, updateErr = session.Document.UpdateLayer(c.Param("layerId"), &patch)
		return updateErr
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"layer": updated})
}

// DeleteLayer removes a layer from the current screen.
func (h *SessionHandler) DeleteLayer(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		return session.Document.DeleteLayer(c.Param("layerId"))
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type selectLayerRequest struct {
	LayerID string `json:"layerId"`
}

// SelectLayer changes the selected layer.
func (h *SessionHandler) SelectLayer(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req selectLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		return session.Document.SelectLayer(req.LayerID)
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedLayerId": req.LayerID})
}

type setBackgroundRequest struct {
	Color      string `json:"color" binding:"required"`
	ApplyToAll bool   `json:"applyToAll"`
}

// SetBackground changes the background of the current screen or all screens.
func (h *SessionHandler) SetBackground(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req setBackgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		return session.Document.SetBackground(req.Color, req.ApplyToAll)
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"color": req.Color, "applyToAll": req.ApplyToAll})
}
