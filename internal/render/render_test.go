package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/models"
)

// stubSource serves a fixed image per reference and fails on anything else.
type stubSource struct {
	images map[string]image.Image
}

func (s *stubSource) Image(ref string) (image.Image, error) {
	img, ok := s.images[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	return img, nil
}

func solid(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newRasterizer(t *testing.T, source ImageSource) *Rasterizer {
	t.Helper()
	if source == nil {
		source = &stubSource{}
	}
	r, err := NewRasterizer(source)
	require.NoError(t, err)
	return r
}

func TestRasterizeFillsBackground(t *testing.T) {
	r := newRasterizer(t, nil)

	screen := &models.Screen{
		Name:            "Test",
		BackgroundColor: "#FF0000",
	}
	canvas := r.Rasterize(screen)

	assert.Equal(t, models.CanvasWidth, canvas.Bounds().Dx())
	assert.Equal(t, models.CanvasHeight, canvas.Bounds().Dy())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, canvas.RGBAAt(10, 10))
}

func TestRasterizePaintOrderIsZOrder(t *testing.T) {
	r := newRasterizer(t, nil)

	screen := &models.Screen{
		Name: "Test",
		Layers: []models.Layer{
			{ID: "under", Type: models.LayerTypeDecoration, Width: 200, Height: 200, BackgroundColor: "#00FF00"},
			{ID: "over", Type: models.LayerTypeDecoration, Width: 100, Height: 100, BackgroundColor: "#0000FF"},
		},
	}
	canvas := r.Rasterize(screen)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, canvas.RGBAAt(50, 50), "later layer paints on top")
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, canvas.RGBAAt(150, 150))
}

func TestRasterizeSurvivesBrokenImage(t *testing.T) {
	r := newRasterizer(t, &stubSource{})

	screen := &models.Screen{
		Name:            "Test",
		BackgroundColor: "#FFFFFF",
		Layers: []models.Layer{
			{ID: "bg", Type: models.LayerTypeBackground, Width: models.CanvasWidth, Height: models.CanvasHeight, BackgroundColor: "#222222"},
			{ID: "mock", Type: models.LayerTypeMockup, X: 100, Y: 100, Width: 400, Height: 800, Screenshot: "missing-ref"},
			{ID: "txt", Type: models.LayerTypeText, X: 0, Y: 2000, Width: 1242, Height: 100, Content: "Still here", Color: "#FFFFFF", FontSize: 60, Align: models.AlignCenter},
		},
	}

	canvas := r.Rasterize(screen)

	// The mockup device body is painted even though its screenshot failed.
	assert.Equal(t, color.RGBA{26, 29, 38, 255}, canvas.RGBAAt(300, 500))
}

func TestRasterizeCompositesScreenshotIntoFrame(t *testing.T) {
	source := &stubSource{images: map[string]image.Image{
		"shot-1": solid(color.RGBA{255, 0, 255, 255}, 50, 100),
	}}
	r := newRasterizer(t, source)

	screen := &models.Screen{
		Name: "Test",
		Layers: []models.Layer{
			{
				ID: "mock", Type: models.LayerTypeMockup,
				X: 100, Y: 100, Width: 400, Height: 800,
				Screenshot:  "shot-1",
				MockupFrame: &models.MockupFrame{X: 20, Y: 24, Width: 360, Height: 752},
			},
		},
	}
	canvas := r.Rasterize(screen)

	// Inside the frame: the screenshot. On the bezel: the device body.
	assert.Equal(t, color.RGBA{255, 0, 255, 255}, canvas.RGBAAt(300, 500))
	assert.Equal(t, color.RGBA{26, 29, 38, 255}, canvas.RGBAAt(105, 500))
}

func TestGradientFill(t *testing.T) {
	r := newRasterizer(t, nil)

	screen := &models.Screen{
		Name: "Test",
		Layers: []models.Layer{
			{
				ID: "bg", Type: models.LayerTypeBackground,
				Width: models.CanvasWidth, Height: models.CanvasHeight,
				Gradient: &models.Gradient{Type: "linear", Colors: []string{"#000000", "#FFFFFF"}, Angle: 0},
			},
		},
	}
	canvas := r.Rasterize(screen)

	top := canvas.RGBAAt(600, 10)
	bottom := canvas.RGBAAt(600, models.CanvasHeight-10)
	assert.NotEqual(t, top, bottom, "gradient must vary along its axis")
}

func TestExportScreenSizes(t *testing.T) {
	r := newRasterizer(t, nil)
	exporter := NewExporter(r)

	screen := &models.Screen{Name: "My First Screen!", BackgroundColor: "#336699"}

	export, err := exporter.ExportScreen(screen, "iphone-6.7")
	require.NoError(t, err)
	assert.Equal(t, 1290, export.Width)
	assert.Equal(t, 2796, export.Height)

	decoded, err := png.Decode(bytes.NewReader(export.PNG))
	require.NoError(t, err)
	assert.Equal(t, 1290, decoded.Bounds().Dx())
	assert.Equal(t, 2796, decoded.Bounds().Dy())

	_, err = exporter.ExportScreen(screen, "android-phone")
	assert.Error(t, err)
}

func TestExportFileName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "my-first-screen-1700000000.png", ExportFileName("My First Screen!", at))
	assert.Equal(t, "screen-1700000000.png", ExportFileName("???", at))
}
