package canvas

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Document is one editing session's worth of canvas state: the ordered
// screens plus which screen and layer the user currently has selected.
// Selection is UI state, not a data invariant; a document with no selected
// layer is perfectly valid.
//
// Document is not safe for concurrent use. The session store serializes
// access per session.
type Document struct {
	Screens         []models.Screen `json:"screens"`
	CurrentScreen   int             `json:"currentScreen"`
	SelectedLayerID string          `json:"selectedLayerId,omitempty"`

	// Viewport state driven by the interaction engine.
	Zoom ZoomState `json:"zoom"`
	Pan  PanOffset `json:"pan"`
}

// PanOffset is the viewport translation in raw screen pixels.
type PanOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewDocument() *Document {
	return &Document{Zoom: NewZoomState()}
}

// AddScreen appends a screen and makes it current. A screen always gets a
// background layer so rasterization has something to paint.
func (d *Document) AddScreen(name string) *models.Screen {
	if name == "" {
		name = fmt.Sprintf("Screen %d", len(d.Screens)+1)
	}
	screen := models.Screen{
		ID:              uuid.New().String(),
		Name:            name,
		BackgroundColor: "#FFFFFF",
		Layers: []models.Layer{
			{
				ID:              uuid.New().String(),
				Type:            models.LayerTypeBackground,
				Width:           models.CanvasWidth,
				Height:          models.CanvasHeight,
				BackgroundColor: "#FFFFFF",
			},
		},
	}
	d.Screens = append(d.Screens, screen)
	d.CurrentScreen = len(d.Screens) - 1
	return &d.Screens[d.CurrentScreen]
}

// AddGeneratedScreen appends a screen with pre-resolved layers, as produced
// by the layout resolver. Does not change the current selection.
func (d *Document) AddGeneratedScreen(name string, layers []models.Layer) *models.Screen {
	screen := models.Screen{
		ID:     uuid.New().String(),
		Name:   name,
		Layers: layers,
	}
	d.Screens = append(d.Screens, screen)
	return &d.Screens[len(d.Screens)-1]
}

// Screen returns the current screen, or nil when the document is empty.
func (d *Document) Screen() *models.Screen {
	if d.CurrentScreen < 0 || d.CurrentScreen >= len(d.Screens) {
		return nil
	}
	return &d.Screens[d.CurrentScreen]
}

// SelectScreen changes the current screen. Layer selection is cleared since
// layer ids are scoped to a screen.
func (d *Document) SelectScreen(index int) error {
	if index < 0 || index >= len(d.Screens) {
		return fmt.Errorf("screen index %d out of range", index)
	}
	d.CurrentScreen = index
	d.SelectedLayerID = ""
	return nil
}

// RemoveScreen deletes a screen by index.
func (d *Document) RemoveScreen(index int) error {
	if index < 0 || index >= len(d.Screens) {
		return fmt.Errorf("screen index %d out of range", index)
	}
	d.Screens = append(d.Screens[:index], d.Screens[index+1:]...)
	if d.CurrentScreen >= len(d.Screens) {
		d.CurrentScreen = len(d.Screens) - 1
	}
	d.SelectedLayerID = ""
	return nil
}

// SelectLayer marks a layer on the current screen as selected.
func (d *Document) SelectLayer(layerID string) error {
	screen := d.Screen()
	if screen == nil {
		return fmt.Errorf("no current screen")
	}
	if layerID != "" && screen.FindLayer(layerID) < 0 {
		return fmt.Errorf("layer %q not found", layerID)
	}
	d.SelectedLayerID = layerID
	return nil
}

// AddLayer appends a layer to the current screen. Later layers paint on
// top; order is append-only apart from explicit deletion.
func (d *Document) AddLayer(layer models.Layer) (*models.Layer, error) {
	screen := d.Screen()
	if screen == nil {
		return nil, fmt.Errorf("no current screen")
	}
	if layer.ID == "" {
		layer.ID = uuid.New().String()
	}
	if screen.FindLayer(layer.ID) >= 0 {
		return nil, fmt.Errorf("layer id %q already exists", layer.ID)
	}
	screen.Layers = append(screen.Layers, layer)
	return &screen.Layers[len(screen.Layers)-1], nil
}

// UpdateLayer applies a partial update to a layer on the current screen.
func (d *Document) UpdateLayer(layerID string, patch *models.LayerPatch) (*models.Layer, error) {
	screen := d.Screen()
	if screen == nil {
		return nil, fmt.Errorf("no current screen")
	}
	idx := screen.FindLayer(layerID)
	if idx < 0 {
		return nil, fmt.Errorf("layer %q not found", layerID)
	}
	screen.Layers[idx].Apply(patch)
	return &screen.Layers[idx], nil
}

// DeleteLayer removes a layer from the current screen.
func (d *Document) DeleteLayer(layerID string) error {
	screen := d.Screen()
	if screen == nil {
		return fmt.Errorf("no current screen")
	}
	idx := screen.FindLayer(layerID)
	if idx < 0 {
		return fmt.Errorf("layer %q not found", layerID)
	}
	screen.Layers = append(screen.Layers[:idx], screen.Layers[idx+1:]...)
	if d.SelectedLayerID == layerID {
		d.SelectedLayerID = ""
	}
	return nil
}

// SetBackground changes the background of the current screen, or of every
// screen when applyToAll is set.
func (d *Document) SetBackground(color string, applyToAll bool) error {
	if len(d.Screens) == 0 {
		return fmt.Errorf("no screens")
	}
	if applyToAll {
		for i := range d.Screens {
			setScreenBackground(&d.Screens[i], color)
		}
		return nil
	}
	setScreenBackground(d.Screen(), color)
	return nil
}

func setScreenBackground(screen *models.Screen, color string) {
	screen.BackgroundColor = color
	for i := range screen.Layers {
		if screen.Layers[i].Type == models.LayerTypeBackground {
			screen.Layers[i].BackgroundColor = color
			screen.Layers[i].Gradient = nil
		}
	}
}
