package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeshot/storeshot-api/internal/models"
)

func newDocWithLayer(t *testing.T) (*Document, string) {
	t.Helper()
	doc := NewDocument()
	doc.AddScreen("Screen 1")
	layer, err := doc.AddLayer(models.Layer{
		Type:   models.LayerTypeText,
		X:      100,
		Y:      200,
		Width:  400,
		Height: 120,
	})
	require.NoError(t, err)
	return doc, layer.ID
}

func TestAddScreenAlwaysHasBackground(t *testing.T) {
	doc := NewDocument()
	screen := doc.AddScreen("")

	require.NotEmpty(t, screen.Layers)
	assert.Equal(t, models.LayerTypeBackground, screen.Layers[0].Type)
	assert.Equal(t, "Screen 1", screen.Name)
}

func TestSetBackgroundApplyToAll(t *testing.T) {
	doc := NewDocument()
	doc.AddScreen("a")
	doc.AddScreen("b")

	require.NoError(t, doc.SetBackground("#123456", false))
	assert.Equal(t, "#FFFFFF", doc.Screens[0].BackgroundColor)
	assert.Equal(t, "#123456", doc.Screens[1].BackgroundColor)

	require.NoError(t, doc.SetBackground("#ABCDEF", true))
	assert.Equal(t, "#ABCDEF", doc.Screens[0].BackgroundColor)
	assert.Equal(t, "#ABCDEF", doc.Screens[1].BackgroundColor)
	assert.Equal(t, "#ABCDEF", doc.Screens[0].Layers[0].BackgroundColor)
}

func TestDeleteLayerClearsSelection(t *testing.T) {
	doc, layerID := newDocWithLayer(t)
	require.NoError(t, doc.SelectLayer(layerID))

	require.NoError(t, doc.DeleteLayer(layerID))
	assert.Empty(t, doc.SelectedLayerID)
	assert.Error(t, doc.DeleteLayer(layerID))
}

func TestSelectScreenClearsLayerSelection(t *testing.T) {
	doc, layerID := newDocWithLayer(t)
	doc.AddScreen("another")
	require.NoError(t, doc.SelectScreen(0))
	require.NoError(t, doc.SelectLayer(layerID))

	require.NoError(t, doc.SelectScreen(1))
	assert.Empty(t, doc.SelectedLayerID)
	assert.Error(t, doc.SelectScreen(5))
}

func TestDragDividesByZoom(t *testing.T) {
	doc, layerID := newDocWithLayer(t)
	doc.Zoom.Factor = 1.5
	engine := NewEngine(doc)

	// Pointer lands at the layer origin in screen space.
	require.NoError(t, engine.PointerDown(PointerEvent{X: 150, Y: 300, LayerID: layerID}))
	assert.Equal(t, ModeDragging, engine.Mode())

	// Move 30px right, 60px down in screen space: logical delta is / zoom.
	engine.PointerMove(PointerEvent{X: 180, Y: 360})
	engine.Flush()

	screen := doc.Screen()
	layer := screen.Layers[screen.FindLayer(layerID)]
	assert.InDelta(t, 100+30/1.5, layer.X, 1e-9)
	assert.InDelta(t, 200+60/1.5, layer.Y, 1e-9)

	engine.PointerUp()
	assert.Equal(t, ModeIdle, engine.Mode())
}

func TestResizeClampsToMinimum(t *testing.T) {
	doc, layerID := newDocWithLayer(t)
	engine := NewEngine(doc)

	require.NoError(t, engine.PointerDown(PointerEvent{X: 500, Y: 320, LayerID: layerID, Handle: true}))
	assert.Equal(t, ModeResizing, engine.Mode())

	// Drag far past the layer origin; size clamps instead of going negative.
	engine.PointerMove(PointerEvent{X: -2000, Y: -2000})
	engine.PointerUp()

	screen := doc.Screen()
	layer := screen.Layers[screen.FindLayer(layerID)]
	assert.Equal(t, float64(models.MinLayerSize), layer.Width)
	assert.Equal(t, float64(models.MinLayerSize), layer.Height)
}

func TestPointerMovesCoalesceUntilFlush(t *testing.T) {
	doc, layerID := newDocWithLayer(t)
	engine := NewEngine(doc)

	require.NoError(t, engine.PointerDown(PointerEvent{X: 100, Y: 200, LayerID: layerID}))
	engine.PointerMove(PointerEvent{X: 110, Y: 210})
	engine.PointerMove(PointerEvent{X: 140, Y: 260})

	// Nothing committed yet.
	screen := doc.Screen()
	layer := screen.Layers[screen.FindLayer(layerID)]
	assert.Equal(t, float64(100), layer.X)
	assert.True(t, engine.HasPending())

	engine.Flush()
	layer = screen.Layers[screen.FindLayer(layerID)]
	assert.Equal(t, float64(140), layer.X)
	assert.Equal(t, float64(260), layer.Y)
	assert.False(t, engine.HasPending())
}

func TestSpaceHeldPansInsteadOfDragging(t *testing.T) {
	doc, _ := newDocWithLayer(t)
	engine := NewEngine(doc)
	engine.SetSpaceHeld(true)

	require.NoError(t, engine.PointerDown(PointerEvent{X: 10, Y: 10}))
	assert.Equal(t, ModePanning, engine.Mode())

	// Pan deltas are raw pixels regardless of zoom.
	doc.Zoom.Factor = 0.5
	engine.PointerMove(PointerEvent{X: 40, Y: 25})
	engine.Flush()

	assert.Equal(t, float64(30), doc.Pan.X)
	assert.Equal(t, float64(15), doc.Pan.Y)

	engine.SetSpaceHeld(false)
	assert.Equal(t, ModeIdle, engine.Mode())
}

func TestZoomClampAndStep(t *testing.T) {
	z := NewZoomState()
	for i := 0; i < 20; i++ {
		z.In()
	}
	assert.InDelta(t, MaxZoom, z.Factor, 1e-9)

	for i := 0; i < 40; i++ {
		z.Out()
	}
	assert.InDelta(t, MinZoom, z.Factor, 1e-9)

	z.In()
	assert.InDelta(t, 0.6, z.Factor, 1e-9)
}
