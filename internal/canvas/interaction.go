package canvas

import (
	"fmt"
	"math"

	"github.com/storeshot/storeshot-api/internal/models"
)

// Mode is the interaction engine's current state. The modes are mutually
// exclusive; spaceHeld is a modifier on top of them, not a mode itself.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeDragging Mode = "dragging"
	ModeResizing Mode = "resizing"
	ModePanning  Mode = "panning"
)

// Zoom limits and step. Zoom changes the divisor in the pointer math below
// but never disturbs an interaction in progress.
const (
	MinZoom  = 0.5
	MaxZoom  = 1.5
	ZoomStep = 0.1
)

// ZoomState is a stepped, clamped scale factor.
type ZoomState struct {
	Factor float64 `json:"factor"`
}

func NewZoomState() ZoomState {
	return ZoomState{Factor: 1.0}
}

// In steps the zoom up one notch.
func (z *ZoomState) In() {
	z.Factor = clampZoom(z.Factor + ZoomStep)
}

// Out steps the zoom down one notch.
func (z *ZoomState) Out() {
	z.Factor = clampZoom(z.Factor - ZoomStep)
}

func clampZoom(f float64) float64 {
	// Round to the step grid so repeated in/out lands on exact values
	// instead of accumulating float drift.
	f = math.Round(f/ZoomStep) * ZoomStep
	return math.Min(MaxZoom, math.Max(MinZoom, f))
}

// PointerEvent is one raw pointer sample in screen pixels. LayerID and
// Handle are only meaningful on pointer-down.
type PointerEvent struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	LayerID string  `json:"layerId,omitempty"`
	Handle  bool    `json:"handle,omitempty"`
}

// Engine translates pointer input into layer mutations on a document.
// Pointer-moves only stage the pending value; Flush commits it, so callers
// drive Flush once per animation frame and intermediate moves coalesce.
type Engine struct {
	doc *Document

	mode      Mode
	spaceHeld bool

	activeLayer string

	// Drag state: offset between the pointer and the layer origin at
	// pointer-down, pre-divided by zoom so motion tracks the pointer 1:1
	// in screen space at any zoom level.
	dragOffsetX float64
	dragOffsetY float64

	// Resize state: geometry at pointer-down.
	startWidth   float64
	startHeight  float64
	startPointer PointerEvent

	// Pan state: last raw pointer position.
	lastPanX float64
	lastPanY float64

	pending    *models.LayerPatch
	pendingPan *PanOffset
}

func NewEngine(doc *Document) *Engine {
	return &Engine{doc: doc, mode: ModeIdle}
}

func (e *Engine) Mode() Mode { return e.mode }

// SetSpaceHeld toggles the pan modifier. Releasing space mid-pan ends the
// pan; an in-flight drag or resize is unaffected.
func (e *Engine) SetSpaceHeld(held bool) {
	e.spaceHeld = held
	if !held && e.mode == ModePanning {
		e.PointerUp()
	}
}

// PointerDown starts an interaction. Space held routes everything to
// panning; otherwise a handle hit starts a resize and a layer hit starts a
// drag. A miss on empty canvas stays idle.
func (e *Engine) PointerDown(ev PointerEvent) error {
	if e.mode != ModeIdle {
		return fmt.Errorf("pointer down while %s", e.mode)
	}

	if e.spaceHeld {
		e.mode = ModePanning
		e.lastPanX = ev.X
		e.lastPanY = ev.Y
		return nil
	}

	if ev.LayerID == "" {
		return nil
	}

	screen := e.doc.Screen()
	if screen == nil {
		return fmt.Errorf("no current screen")
	}
	idx := screen.FindLayer(ev.LayerID)
	if idx < 0 {
		return fmt.Errorf("layer %q not found", ev.LayerID)
	}
	layer := &screen.Layers[idx]
	e.activeLayer = ev.LayerID
	e.doc.SelectedLayerID = ev.LayerID

	zoom := e.doc.Zoom.Factor
	if ev.Handle {
		e.mode = ModeResizing
		e.startWidth = layer.Width
		e.startHeight = layer.Height
		e.startPointer = ev
		return nil
	}

	e.mode = ModeDragging
	e.dragOffsetX = ev.X/zoom - layer.X
	e.dragOffsetY = ev.Y/zoom - layer.Y
	return nil
}

// PointerMove computes the new value for the active interaction and stages
// it. Nothing touches the document until Flush.
func (e *Engine) PointerMove(ev PointerEvent) {
	zoom := e.doc.Zoom.Factor

	switch e.mode {
	case ModeDragging:
		x := ev.X/zoom - e.dragOffsetX
		y := ev.Y/zoom - e.dragOffsetY
		e.pending = &models.LayerPatch{X: &x, Y: &y}

	case ModeResizing:
		w := math.Max(models.MinLayerSize, e.startWidth+(ev.X-e.startPointer.X)/zoom)
		h := math.Max(models.MinLayerSize, e.startHeight+(ev.Y-e.startPointer.Y)/zoom)
		e.pending = &models.LayerPatch{Width: &w, Height: &h}

	case ModePanning:
		// Pan moves the whole viewport, so the delta is raw screen
		// pixels, not zoom-scaled.
		dx := ev.X - e.lastPanX
		dy := ev.Y - e.lastPanY
		e.lastPanX = ev.X
		e.lastPanY = ev.Y
		if e.pendingPan == nil {
			e.pendingPan = &PanOffset{}
		}
		e.pendingPan.X += dx
		e.pendingPan.Y += dy

	case ModeIdle:
	}
}

// PointerUp ends the interaction. Any staged update is committed so the
// final position is never lost to coalescing.
func (e *Engine) PointerUp() {
	e.Flush()
	e.mode = ModeIdle
	e.activeLayer = ""
}

// Flush commits the staged update, if any, to the document. Called once per
// animation frame by the scheduler.
func (e *Engine) Flush() {
	if e.pending != nil && e.activeLayer != "" {
		e.doc.UpdateLayer(e.activeLayer, e.pending) //nolint:errcheck // layer verified at pointer-down
		e.pending = nil
	}
	if e.pendingPan != nil {
		e.doc.Pan.X += e.pendingPan.X
		e.doc.Pan.Y += e.pendingPan.Y
		e.pendingPan = nil
	}
}

// HasPending reports whether a staged update is waiting for the next frame.
func (e *Engine) HasPending() bool {
	return e.pending != nil || e.pendingPan != nil
}
