package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeshot/storeshot-api/internal/canvas"
	"github.com/storeshot/storeshot-api/internal/services"
)

// InteractionHandler feeds pointer and zoom input into a session's
// interaction engine. Pointer moves only stage updates; the session's frame
// scheduler commits them, so a burst of moves between frames coalesces into
// a single document mutation.
type InteractionHandler struct {
	sessions *services.SessionStore
}

func NewInteractionHandler(sessions *services.SessionStore) *InteractionHandler {
	return &InteractionHandler{sessions: sessions}
}

type pointerRequest struct {
	Type      string  `json:"type" binding:"required"` // down | move | up
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	LayerID   string  `json:"layerId"`
	Handle    bool    `json:"handle"`
	SpaceHeld *bool   `json:"spaceHeld"`
}

// Pointer handles one pointer event.
func (h *InteractionHandler) Pointer(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var mode canvas.Mode
	err = session.Scheduler.WithEngine(func(engine *canvas.Engine) error {
		if req.SpaceHeld != nil {
			engine.SetSpaceHeld(*req.SpaceHeld)
		}

		ev := canvas.PointerEvent{X: req.X, Y: req.Y, LayerID: req.LayerID, Handle: req.Handle}
		var evErr error
		switch req.Type {
		case "down":
			evErr = engine.PointerDown(ev)
		case "move":
			engine.PointerMove(ev)
		case "up":
			engine.PointerUp()
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be down, move or up"})
			c.Abort()
			return nil
		}
		mode = engine.Mode()
		return evErr
	})
	if c.IsAborted() {
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mode": mode})
}

// Flush commits any staged interaction updates immediately instead of
// waiting for the next frame tick. Clients call this on blur or before a
// save so no pointer movement is lost.
func (h *InteractionHandler) Flush(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var flushed bool
	session.Scheduler.WithEngine(func(engine *canvas.Engine) error { //nolint:errcheck
		flushed = engine.HasPending()
		engine.Flush()
		return nil
	})

	c.JSON(http.StatusOK, gin.H{"flushed": flushed})
}

type zoomRequest struct {
	Direction string `json:"direction" binding:"required"` // in | out
}

// Zoom steps the zoom factor.
func (h *InteractionHandler) Zoom(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req zoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var factor float64
	switch req.Direction {
	case "in":
		session.Scheduler.WithEngine(func(*canvas.Engine) error { //nolint:errcheck
			session.Document.Zoom.In()
			factor = session.Document.Zoom.Factor
			return nil
		})
	case "out":
		session.Scheduler.WithEngine(func(*canvas.Engine) error { //nolint:errcheck
			session.Document.Zoom.Out()
			factor = session.Document.Zoom.Factor
			return nil
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be in or out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zoom": factor})
}
