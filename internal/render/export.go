package render

import (
	"bytes"
	"fmt"
	"image/png"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Export is one finished raster: PNG bytes plus the download filename.
type Export struct {
	FileName string
	Width    int
	Height   int
	PNG      []byte
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Exporter renders screens at the store's fixed export dimensions.
type Exporter struct {
	rasterizer *Rasterizer
}

func NewExporter(rasterizer *Rasterizer) *Exporter {
	return &Exporter{rasterizer: rasterizer}
}

// ExportScreen rasterizes one screen and scales it to the requested export
// size. Unknown size keys are an error; a partially broken screen (missing
// images) still exports.
func (e *Exporter) ExportScreen(screen *models.Screen, sizeKey string) (*Export, error) {
	size, ok := models.FindExportSize(sizeKey)
	if !ok {
		return nil, fmt.Errorf("unknown export size %q", sizeKey)
	}

	canvas := e.rasterizer.Rasterize(screen)
	scaled := imaging.Resize(canvas, size.Width, size.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	return &Export{
		FileName: ExportFileName(screen.Name, time.Now()),
		Width:    size.Width,
		Height:   size.Height,
		PNG:      buf.Bytes(),
	}, nil
}

// ExportAll exports every screen in order at one size.
func (e *Exporter) ExportAll(screens []models.Screen, sizeKey string) ([]*Export, error) {
	exports := make([]*Export, 0, len(screens))
	for i := range screens {
		export, err := e.ExportScreen(&screens[i], sizeKey)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}
	return exports, nil
}

// ExportFileName builds the download name: slugged screen name plus a
// timestamp, so repeated exports never collide.
func ExportFileName(screenName string, at time.Time) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(screenName), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "screen"
	}
	return fmt.Sprintf("%s-%d.png", slug, at.Unix())
}
