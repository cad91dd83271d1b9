package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/storeshot/storeshot-api/internal/logger"
	"github.com/storeshot/storeshot-api/internal/models"
)

const textPadding = 8

// ImageSource resolves a layer's screenshot reference to decoded pixels.
// The assets cache satisfies this.
type ImageSource interface {
	Image(ref string) (image.Image, error)
}

// Rasterizer renders screens to fixed-size bitmaps. Rendering walks the
// layer array in order, so paint order is exactly z-order. A layer that
// cannot be drawn (broken image reference, unparsable color) is skipped
// with a warning; rasterization always completes.
type Rasterizer struct {
	images  ImageSource
	regular *opentype.Font
	bold    *opentype.Font
	italic  *opentype.Font
}

func NewRasterizer(images ImageSource) (*Rasterizer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	boldFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	italicFont, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, err
	}
	return &Rasterizer{images: images, regular: regular, bold: boldFont, italic: italicFont}, nil
}

// Rasterize renders one screen onto the canonical canvas.
func (r *Rasterizer) Rasterize(screen *models.Screen) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, models.CanvasWidth, models.CanvasHeight))

	base := parseHexColor(screen.BackgroundColor, color.RGBA{255, 255, 255, 255})
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	for i := range screen.Layers {
		layer := &screen.Layers[i]
		switch layer.Type {
		case models.LayerTypeBackground, models.LayerTypeDecoration:
			r.drawFill(canvas, layer)
		case models.LayerTypeText:
			r.drawText(canvas, layer)
		case models.LayerTypeMockup, models.LayerTypeImage:
			r.drawImage(canvas, layer)
		default:
			logger.Warn("Skipping layer with unknown type", logger.Fields{
				"layer_id": layer.ID,
				"type":     string(layer.Type),
			})
		}
	}
	return canvas
}

func (r *Rasterizer) drawFill(canvas *image.RGBA, layer *models.Layer) {
	rect := layerRect(layer)
	if layer.Gradient != nil && len(layer.Gradient.Colors) >= 2 {
		drawGradient(canvas, rect, layer.Gradient)
		return
	}
	fill := parseHexColor(layer.BackgroundColor, color.RGBA{255, 255, 255, 255})
	draw.Draw(canvas, rect, &image.Uniform{fill}, image.Point{}, draw.Over)
}

// drawGradient paints a linear or radial gradient into rect. Linear
// gradients interpolate along the angle's direction vector; radial ones
// from the rect center outward.
func drawGradient(canvas *image.RGBA, rect image.Rectangle, g *models.Gradient) {
	start := parseHexColor(g.Colors[0], color.RGBA{255, 255, 255, 255})
	end := parseHexColor(g.Colors[len(g.Colors)-1], color.RGBA{0, 0, 0, 255})

	w := float64(rect.Dx())
	h := float64(rect.Dy())
	if w <= 0 || h <= 0 {
		return
	}

	radial := g.Type == "radial"
	angle := g.Angle * math.Pi / 180
	dirX, dirY := math.Sin(angle), -math.Cos(angle)
	span := math.Abs(dirX)*w + math.Abs(dirY)*h
	maxRadius := math.Hypot(w/2, h/2)

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			fx := float64(x-rect.Min.X) - w/2
			fy := float64(y-rect.Min.Y) - h/2

			var t float64
			if radial {
				t = math.Hypot(fx, fy) / maxRadius
			} else {
				t = (fx*dirX+fy*dirY)/span + 0.5
			}
			t = math.Min(1, math.Max(0, t))

			canvas.SetRGBA(x, y, lerpColor(start, end, t))
		}
	}
}

func (r *Rasterizer) drawText(canvas *image.RGBA, layer *models.Layer) {
	if layer.Content == "" {
		return
	}

	size := layer.FontSize
	if size <= 0 {
		size = 48
	}

	src := r.regular
	switch {
	case layer.Bold:
		src = r.bold
	case layer.Italic:
		src = r.italic
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logger.Warn("Failed to build font face, skipping text layer", logger.Fields{
			"layer_id": layer.ID,
			"error":    err.Error(),
		})
		return
	}
	defer face.Close()

	textColor := parseHexColor(layer.Color, color.RGBA{0, 0, 0, 255})
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  &image.Uniform{textColor},
		Face: face,
	}

	lineHeight := face.Metrics().Height
	baseline := fixed.I(int(layer.Y)) + face.Metrics().Ascent

	for _, line := range strings.Split(layer.Content, "\n") {
		width := drawer.MeasureString(line)

		var originX fixed.Int26_6
		switch layer.Align {
		case models.AlignCenter:
			originX = fixed.I(int(layer.X+layer.Width/2)) - width/2
		case models.AlignRight:
			originX = fixed.I(int(layer.X+layer.Width)) - width
		default:
			originX = fixed.I(int(layer.X) + textPadding)
		}

		drawer.Dot = fixed.Point26_6{X: originX, Y: baseline}
		drawer.DrawString(line)

		baseline += lineHeight
		if layer.Underline {
			underlineY := (baseline - lineHeight).Ceil() + 4
			underlineRect := image.Rect(originX.Floor(), underlineY, (originX + width).Ceil(), underlineY+2)
			draw.Draw(canvas, underlineRect, &image.Uniform{textColor}, image.Point{}, draw.Over)
		}
	}
}

// drawImage draws a mockup or image layer. Mockup layers get a device body
// fill first, then the screenshot composited into the inner frame.
func (r *Rasterizer) drawImage(canvas *image.RGBA, layer *models.Layer) {
	ref := layer.Screenshot
	if ref == "" {
		ref = layer.Content
	}

	box := layerRect(layer)

	if layer.Type == models.LayerTypeMockup {
		draw.Draw(canvas, box, &image.Uniform{color.RGBA{26, 29, 38, 255}}, image.Point{}, draw.Over)
	}

	if ref == "" {
		return
	}
	src, err := r.images.Image(ref)
	if err != nil {
		// A broken reference must not abort the export; the device body
		// stays as a visual gap.
		logger.Warn("Failed to load layer image, skipping", logger.Fields{
			"layer_id": layer.ID,
			"error":    err.Error(),
		})
		return
	}

	target := box
	if layer.MockupFrame != nil {
		target = image.Rect(
			int(layer.X+layer.MockupFrame.X),
			int(layer.Y+layer.MockupFrame.Y),
			int(layer.X+layer.MockupFrame.X+layer.MockupFrame.Width),
			int(layer.Y+layer.MockupFrame.Y+layer.MockupFrame.Height),
		)
	}
	if target.Dx() <= 0 || target.Dy() <= 0 {
		return
	}

	scaled := imaging.Resize(src, target.Dx(), target.Dy(), imaging.Lanczos)
	draw.Draw(canvas, target, scaled, image.Point{}, draw.Over)
}

func layerRect(layer *models.Layer) image.Rectangle {
	return image.Rect(
		int(layer.X),
		int(layer.Y),
		int(layer.X+layer.Width),
		int(layer.Y+layer.Height),
	)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// parseHexColor parses #RGB and #RRGGBB strings, returning fallback on
// anything it cannot parse.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	hexVal := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		default:
			return 0, false
		}
	}

	switch len(s) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, ok := hexVal(s[i])
			if !ok {
				return fallback
			}
			out[i] = v*16 + v
		}
		return color.RGBA{out[0], out[1], out[2], 255}
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[i*2])
			lo, ok2 := hexVal(s[i*2+1])
			if !ok1 || !ok2 {
				return fallback
			}
			out[i] = hi*16 + lo
		}
		return color.RGBA{out[0], out[1], out[2], 255}
	default:
		return fallback
	}
}
