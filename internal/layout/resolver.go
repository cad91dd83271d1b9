package layout

import (
	"fmt"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Canvas geometry shared by every template. All coordinates are on the
// canonical 1242x2688 canvas.
const (
	marginX    = 80
	contentW   = models.CanvasWidth - 2*marginX
	headlineY  = 160
	headlineH  = 140
	sublineH   = 110
	sublineGap = 24

	mockupW       = 820
	mockupH       = 1680
	mockupCorner  = 64
	featureRowH   = 200
	featureRowGap = 40
)

var backgroundFills = map[string]models.Layer{
	"solid_light": {Type: models.LayerTypeBackground, BackgroundColor: "#F5F7FA"},
	"solid_dark":  {Type: models.LayerTypeBackground, BackgroundColor: "#1A1D26"},
	"soft_gradient": {Type: models.LayerTypeBackground, Gradient: &models.Gradient{
		Type: "linear", Colors: []string{"#EEF2FF", "#E0E7FF"}, Angle: 180,
	}},
	"bold_gradient": {Type: models.LayerTypeBackground, Gradient: &models.Gradient{
		Type: "linear", Colors: []string{"#6366F1", "#A855F7"}, Angle: 135,
	}},
	"pattern": {Type: models.LayerTypeBackground, BackgroundColor: "#F8F4EC"},
}

// textColorFor picks a readable foreground for the given background kind.
func textColorFor(background string) string {
	switch background {
	case "solid_dark", "bold_gradient":
		return "#FFFFFF"
	default:
		return "#1A1D26"
	}
}

func subTextColorFor(background string) string {
	switch background {
	case "solid_dark", "bold_gradient":
		return "#D5D9E6"
	default:
		return "#5A6072"
	}
}

// Resolve expands a layout descriptor into concrete layers on the canonical
// canvas. The output depends only on the descriptor, screenshot reference
// and screen index, so re-resolving the same input yields identical layers.
// Unknown layout or background kinds fall back to the defaults rather than
// erroring.
func Resolve(desc models.LayoutDescriptor, screenshotRef string, index int) []models.Layer {
	background := desc.Background
	if !models.AllowedBackgrounds[background] {
		background = models.DefaultBackground
	}
	kind := desc.Layout
	if !models.AllowedLayouts[kind] {
		kind = models.DefaultLayout
	}

	layers := []models.Layer{backgroundLayer(background, index)}

	switch kind {
	case "iphone_offset":
		layers = append(layers, iphoneOffset(desc, background, screenshotRef, index)...)
	case "feature_list":
		layers = append(layers, featureList(desc, background, screenshotRef, index)...)
	case "comparison":
		layers = append(layers, comparison(desc, background, screenshotRef, index)...)
	case "hero":
		layers = append(layers, hero(desc, background, screenshotRef, index)...)
	default:
		layers = append(layers, iphoneCentered(desc, background, screenshotRef, index)...)
	}
	return layers
}

func layerID(index int, role string) string {
	return fmt.Sprintf("screen-%d-%s", index, role)
}

func backgroundLayer(background string, index int) models.Layer {
	layer := backgroundFills[background]
	layer.ID = layerID(index, "background")
	layer.X = 0
	layer.Y = 0
	layer.Width = models.CanvasWidth
	layer.Height = models.CanvasHeight
	return layer
}

func headlineLayer(desc models.LayoutDescriptor, background string, index int, y float64) models.Layer {
	return models.Layer{
		ID:         layerID(index, "headline"),
		Type:       models.LayerTypeText,
		X:          marginX,
		Y:          y,
		Width:      contentW,
		Height:     headlineH,
		Content:    desc.Headline,
		FontSize:   88,
		FontFamily: "SF Pro Display",
		Color:      textColorFor(background),
		Bold:       true,
		Align:      models.AlignCenter,
	}
}

func subheadlineLayer(desc models.LayoutDescriptor, background string, index int, y float64) models.Layer {
	return models.Layer{
		ID:         layerID(index, "subheadline"),
		Type:       models.LayerTypeText,
		X:          marginX,
		Y:          y,
		Width:      contentW,
		Height:     sublineH,
		Content:    desc.Subheadline,
		FontSize:   52,
		FontFamily: "SF Pro Text",
		Color:      subTextColorFor(background),
		Align:      models.AlignCenter,
	}
}

func mockupLayer(index int, role, screenshotRef string, x, y, w, h float64) models.Layer {
	return models.Layer{
		ID:         layerID(index, role),
		Type:       models.LayerTypeMockup,
		X:          x,
		Y:          y,
		Width:      w,
		Height:     h,
		Screenshot: screenshotRef,
		MockupFrame: &models.MockupFrame{
			X:      w * 0.05,
			Y:      h * 0.03,
			Width:  w * 0.90,
			Height: h * 0.94,
		},
	}
}

// iphoneCentered: headline and subheadline stacked at the top, device
// centered beneath them.
func iphoneCentered(desc models.LayoutDescriptor, background, screenshotRef string, index int) []models.Layer {
	subY := float64(headlineY + headlineH + sublineGap)
	mockupY := subY + sublineH + 120
	return []models.Layer{
		headlineLayer(desc, background, index, headlineY),
		subheadlineLayer(desc, background, index, subY),
		mockupLayer(index, "mockup", screenshotRef,
			(models.CanvasWidth-mockupW)/2, mockupY, mockupW, mockupH),
	}
}

// iphoneOffset: copy hugs the left, device bleeds off the right edge.
func iphoneOffset(desc models.LayoutDescriptor, background, screenshotRef string, index int) []models.Layer {
	headline := headlineLayer(desc, background, index, 320)
	headline.Width = contentW * 0.55
	headline.Align = models.AlignLeft
	headline.Height = headlineH * 2

	sub := subheadlineLayer(desc, background, index, 320+headlineH*2+sublineGap)
	sub.Width = contentW * 0.55
	sub.Align = models.AlignLeft
	sub.Height = sublineH * 2

	return []models.Layer{
		headline,
		sub,
		mockupLayer(index, "mockup", screenshotRef,
			models.CanvasWidth-mockupW*0.82, 980, mockupW, mockupH),
	}
}

// featureList: headline on top, three feature rows, smaller device below.
func featureList(desc models.LayoutDescriptor, background, screenshotRef string, index int) []models.Layer {
	layers := []models.Layer{headlineLayer(desc, background, index, headlineY)}

	rowY := float64(headlineY + headlineH + 80)
	for i := 0; i < 3; i++ {
		row := models.Layer{
			ID:         layerID(index, fmt.Sprintf("feature-%d", i)),
			Type:       models.LayerTypeText,
			X:          marginX + 60,
			Y:          rowY + float64(i)*(featureRowH+featureRowGap),
			Width:      contentW - 120,
			Height:     featureRowH,
			FontSize:   48,
			FontFamily: "SF Pro Text",
			Color:      textColorFor(background),
			Align:      models.AlignLeft,
		}
		if i == 0 {
			row.Content = desc.Subheadline
		}
		layers = append(layers, row)
	}

	scaledW := mockupW * 0.72
	scaledH := mockupH * 0.72
	layers = append(layers, mockupLayer(index, "mockup", screenshotRef,
		(models.CanvasWidth-scaledW)/2, rowY+3*(featureRowH+featureRowGap)+60, scaledW, scaledH))
	return layers
}

// comparison: two side-by-side device slots; the second slot reuses the
// same screenshot until the user swaps it.
func comparison(desc models.LayoutDescriptor, background, screenshotRef string, index int) []models.Layer {
	halfW := mockupW * 0.62
	halfH := mockupH * 0.62
	gap := 50.0
	leftX := (models.CanvasWidth - 2*halfW - gap) / 2
	mockupY := float64(headlineY+headlineH+sublineGap) + sublineH + 140

	return []models.Layer{
		headlineLayer(desc, background, index, headlineY),
		subheadlineLayer(desc, background, index, headlineY+headlineH+sublineGap),
		mockupLayer(index, "mockup-left", screenshotRef, leftX, mockupY, halfW, halfH),
		mockupLayer(index, "mockup-right", screenshotRef, leftX+halfW+gap, mockupY, halfW, halfH),
	}
}

// hero: full-bleed device with the copy overlaid near the bottom.
func hero(desc models.LayoutDescriptor, background, screenshotRef string, index int) []models.Layer {
	heroW := mockupW * 1.18
	heroH := mockupH * 1.18

	headline := headlineLayer(desc, background, index, models.CanvasHeight-560)
	sub := subheadlineLayer(desc, background, index, models.CanvasHeight-560+headlineH+sublineGap)

	return []models.Layer{
		mockupLayer(index, "mockup", screenshotRef,
			(models.CanvasWidth-heroW)/2, -120, heroW, heroH),
		headline,
		sub,
	}
}
