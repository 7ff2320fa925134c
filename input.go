package pixeloid

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PanTarget identifies which CameraState position field navigation input
// mutates.
type PanTarget uint8

const (
	// PanTargetSampling: movement drives the data layer's sampling window.
	PanTargetSampling PanTarget = iota
	// PanTargetViewport: movement drives the mirror layer's camera viewport.
	PanTargetViewport
)

// PanTargetFor returns the routing target for a zoom factor. This is the
// entire routing state machine: a pure function of the zoom factor and
// nothing else, so movement can never go to the wrong layer because some
// other flag went stale.
func PanTargetFor(zoom int) PanTarget {
	if zoom == 1 {
		return PanTargetSampling
	}
	return PanTargetViewport
}

// InputConfig holds the InputRouter knobs. Zero values select defaults.
type InputConfig struct {
	// PanStep is the keyboard pan speed in screen pixels per tick.
	// Default 4.
	PanStep float64
	// DragButton is the mouse button that pan-drags the view.
	// Default middle; the left button stays free for editing tools.
	DragButton ebiten.MouseButton
}

const defaultPanStep = 4.0

// InputRouter polls Ebitengine input once per tick and converts it into
// camera updates. Every update goes through ApplyPan/ApplyZoom, so the
// routing invariant (exactly one position field mutated per input, chosen
// by zoom alone) holds for keyboard, wheel, and drag alike.
type InputRouter struct {
	cfg InputConfig

	dragging   bool
	lastDragX  int
	lastDragY  int
	wheelAccum float64
}

// NewInputRouter creates a router with the given configuration.
func NewInputRouter(cfg InputConfig) *InputRouter {
	if cfg.PanStep <= 0 {
		cfg.PanStep = defaultPanStep
	}
	if cfg.DragButton == 0 {
		cfg.DragButton = ebiten.MouseButtonMiddle
	}
	return &InputRouter{cfg: cfg}
}

// Poll reads this tick's input and returns the updated camera state. The
// returned state is a candidate: the caller commits it atomically before
// the next render pass.
func (r *InputRouter) Poll(cam CameraState, screenW, screenH float64) CameraState {
	cam = r.pollKeys(cam)
	cam = r.pollWheel(cam, screenW, screenH)
	cam = r.pollDrag(cam)
	return cam
}

// pollKeys handles WASD / arrow-key panning. The step is divided by the
// zoom factor so held keys move the view at a constant screen speed in
// both regimes.
func (r *InputRouter) pollKeys(cam CameraState) CameraState {
	step := r.cfg.PanStep / float64(cam.Zoom)
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += step
	}
	if dx != 0 || dy != 0 {
		cam = ApplyPan(cam, dx, dy)
	}
	return cam
}

// pollWheel steps through the zoom levels on wheel movement or the +/-
// keys. Wheel offsets accumulate so fine-grained trackpad deltas still
// reach a full step.
func (r *InputRouter) pollWheel(cam CameraState, screenW, screenH float64) CameraState {
	_, wy := ebiten.Wheel()
	r.wheelAccum += wy

	steps := 0
	for r.wheelAccum >= 1 {
		steps++
		r.wheelAccum--
	}
	for r.wheelAccum <= -1 {
		steps--
		r.wheelAccum++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		steps++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		steps--
	}

	for ; steps > 0; steps-- {
		next := NextZoom(cam.Zoom)
		if next == cam.Zoom {
			break
		}
		cam, _ = ApplyZoom(cam, next, screenW, screenH)
	}
	for ; steps < 0; steps++ {
		prev := PrevZoom(cam.Zoom)
		if prev == cam.Zoom {
			break
		}
		cam, _ = ApplyZoom(cam, prev, screenW, screenH)
	}
	return cam
}

// pollDrag handles button-held pan-dragging. The world moves with the
// cursor: a cursor move of n pixels pans by -n/zoom world units.
func (r *InputRouter) pollDrag(cam CameraState) CameraState {
	pressed := ebiten.IsMouseButtonPressed(r.cfg.DragButton)
	if !pressed {
		r.dragging = false
		cam.Panning = false
		return cam
	}

	mx, my := ebiten.CursorPosition()
	if !r.dragging {
		r.dragging = true
		r.lastDragX, r.lastDragY = mx, my
		cam.Panning = true
		return cam
	}

	z := float64(cam.Zoom)
	dx := float64(r.lastDragX-mx) / z
	dy := float64(r.lastDragY-my) / z
	r.lastDragX, r.lastDragY = mx, my
	cam.Panning = true
	if dx != 0 || dy != 0 {
		cam = ApplyPan(cam, dx, dy)
	}
	return cam
}
