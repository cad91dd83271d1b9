package models

// Canvas dimensions in logical units. Every screen is laid out on this fixed
// canvas and scaled to a concrete export size at render time.
const (
	CanvasWidth  = 1242
	CanvasHeight = 2688

	// MinLayerSize is the smallest width/height an interactive resize may
	// produce. Smaller deltas are clamped, never rejected.
	MinLayerSize = 50
)

// LayerType identifies what a layer draws
type LayerType string

const (
	LayerTypeBackground LayerType = "background"
	LayerTypeMockup     LayerType = "mockup"
	LayerTypeText       LayerType = "text"
	LayerTypeImage      LayerType = "image"
	LayerTypeDecoration LayerType = "decoration"
)

// TextAlign values accepted by text layers
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Gradient describes a background/decoration gradient fill
type Gradient struct {
	Type   string   `json:"type"` // "linear" or "radial"
	Colors []string `json:"colors"`
	Angle  float64  `json:"angle,omitempty"` // degrees, linear only
}

// MockupFrame is the sub-rectangle inside a device-chrome image where the
// user's screenshot is composited. Coordinates are relative to the layer box.
type MockupFrame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layer is one positioned, typed visual element within a screen.
// Slice order is z-order: later layers paint on top.
type Layer struct {
	ID     string    `json:"id"`
	Type   LayerType `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`

	// Text layers
	Content    string  `json:"content,omitempty"` // text, or image data URI for mockup/image layers
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Align      string  `json:"align,omitempty"`

	// Background/decoration layers
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Gradient        *Gradient `json:"gradient,omitempty"`

	// Mockup layers: where the screenshot sits inside the device chrome.
	// The screenshot itself lives in Screenshot; Content may carry the
	// chrome image data URI.
	MockupFrame *MockupFrame `json:"mockupFrame,omitempty"`
	Screenshot  string       `json:"screenshot,omitempty"`
}

// LayerPatch carries a partial layer update. Nil fields are left untouched.
type LayerPatch struct {
	X               *float64  `json:"x,omitempty"`
	Y               *float64  `json:"y,omitempty"`
	Width           *float64  `json:"width,omitempty"`
	Height          *float64  `json:"height,omitempty"`
	Content         *string   `json:"content,omitempty"`
	FontSize        *float64  `json:"fontSize,omitempty"`
	FontFamily      *string   `json:"fontFamily,omitempty"`
	Color           *string   `json:"color,omitempty"`
	Bold            *bool     `json:"bold,omitempty"`
	Italic          *bool     `json:"italic,omitempty"`
	Underline       *bool     `json:"underline,omitempty"`
	Align           *string   `json:"align,omitempty"`
	BackgroundColor *string   `json:"backgroundColor,omitempty"`
	Gradient        *Gradient `json:"gradient,omitempty"`
}

// Screen is one exportable canvas composed of an ordered list of layers
type Screen struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BackgroundColor string  `json:"backgroundColor"`
	Layers          []Layer `json:"layers"`
}

// FindLayer returns the index of the layer with the given id, or -1
func (s *Screen) FindLayer(id string) int {
	for i := range s.Layers {
		if s.Layers[i].ID == id {
			return i
		}
	}
	return -1
}

// Apply copies the patch's set fields onto the layer, clamping geometry to
// the minimum interactive size
func (l *Layer) Apply(p *LayerPatch) {
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.Width != nil {
		l.Width = max(*p.Width, MinLayerSize)
	}
	if p.Height != nil {
		l.Height = max(*p.Height, MinLayerSize)
	}
	if p.Content != nil {
		l.Content = *p.Content
	}
	if p.FontSize != nil {
		l.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		l.FontFamily = *p.FontFamily
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.Bold != nil {
		l.Bold = *p.Bold
	}
	if p.Italic != nil {
		l.Italic = *p.Italic
	}
	if p.Underline != nil {
		l.Underline = *p.Underline
	}
	if p.Align != nil {
		l.Align = *p.Align
	}
	if p.BackgroundColor != nil {
		l.BackgroundColor = *p.BackgroundColor
	}
	if p.Gradient != nil {
		l.Gradient = p.Gradient
	}
}
