package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeshot/storeshot-api/internal/assets"
	"github.com/storeshot/storeshot-api/internal/canvas"
	"github.com/storeshot/storeshot-api/internal/metrics"
	"github.com/storeshot/storeshot-api/internal/models"
	"github.com/storeshot/storeshot-api/internal/render"
	"github.com/storeshot/storeshot-api/internal/services"
)

// ExportHandler rasterizes screens for download and creates share links.
type ExportHandler struct {
	sessions  *services.SessionStore
	exporter  *render.Exporter
	share     *services.ShareService
	cwMetrics *metrics.Client
}

func NewExportHandler(sessions *services.SessionStore, exporter *render.Exporter, share *services.ShareService, cw *metrics.Client) *ExportHandler {
	return &ExportHandler{sessions: sessions, exporter: exporter, share: share, cwMetrics: cw}
}

var sentryExportMetrics = metrics.NewSentryMetrics()

type exportRequest struct {
	Size        string `json:"size" binding:"required"`
	ScreenIndex *int   `json:"screenIndex"` // nil = current screen
}

// currentScreenCopy snapshots the target screen under the session lock so
// rasterization can run without holding it.
func currentScreenCopy(session *services.Session, index *int) (*models.Screen, error) {
	var snapshot *models.Screen
	err := session.Scheduler.WithEngine(func(*canvas.Engine) error {
		doc := session.Document
		screen := doc.Screen()
		if index != nil {
			if *index < 0 || *index >= len(doc.Screens) {
				return fmt.Errorf("screen index %d out of range", *index)
			}
			screen = &doc.Screens[*index]
		}
		if screen == nil {
			return errNoScreens
		}
		clone := *screen
		clone.Layers = append([]models.Layer(nil), screen.Layers...)
		snapshot = &clone
		return nil
	})
	return snapshot, err
}

var errNoScreens = errors.New("session has no screens")

// Export handles POST /sessions/:sessionId/export and streams the PNG.
func (h *ExportHandler) Export(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screen, err := currentScreenCopy(session, req.ScreenIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	export, err := h.exporter.ExportScreen(screen, req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sentryExportMetrics.RecordExportDuration(req.Size, 1, time.Since(start))
	if h.cwMetrics != nil {
		h.cwMetrics.RecordExportDuration(req.Size, 1, time.Since(start))
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, pngMIMEType, export.PNG)
}

// ListExportSizes handles GET /export/sizes.
func (h *ExportHandler) ListExportSizes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sizes": models.ExportSizes})
}

// CreateShare handles POST /sessions/:sessionId/share: exports the current
// screen and stores it as a shareable artifact.
func (h *ExportHandler) CreateShare(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screen, err := currentScreenCopy(session, req.ScreenIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	export, err := h.exporter.ExportScreen(screen, req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.share.CreateShare(screen.Name, export.FileName, export.PNG)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     link.ID,
		"url":    link.URL,
		"qrCode": assets.EncodeDataURI(pngMIMEType, link.QRCode),
	})
}

// GetShare handles GET /share/:shareId and serves the stored raster.
func (h *ExportHandler) GetShare(c *gin.Context) {
	artifact, err := h.share.GetShare(c.Param("shareId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+artifact.FileName+`"`)
	c.Data(http.StatusOK, pngMIMEType, artifact.PNG)
}

// GetShareQR handles GET /share/:shareId/qr and serves the QR code for the
// share URL as a PNG.
func (h *ExportHandler) GetShareQR(c *gin.Context) {
	qr, err := h.share.ShareQR(c.Param("shareId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, pngMIMEType, qr)
}
