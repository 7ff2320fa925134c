package pixeloid

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraState is the complete navigation state of the editor view.
//
// Exactly one of the two position fields is authoritative at any time:
// Sampling while Zoom == 1, Viewport while Zoom > 1. Navigation input moves
// the authoritative field; the other is frozen until a zoom transition
// re-seeds it. All updates go through the pure Apply* functions so there is
// a single writer per field.
type CameraState struct {
	// Viewport is the world-space origin (top-left) of the camera-viewport
	// window. Authoritative while Zoom > 1.
	Viewport Vec2
	// Sampling is the world-space origin (top-left) of the data layer's
	// sampling window. Authoritative while Zoom == 1.
	Sampling Vec2
	// Zoom is the integer zoom factor, one of ZoomLevels.
	Zoom int
	// Panning reports whether a pointer pan-drag is in progress.
	Panning bool
}

// NewCameraState returns a camera at the world origin, zoom 1.
func NewCameraState() CameraState {
	return CameraState{Zoom: 1}
}

// Authoritative returns the position field navigation currently moves.
func (c CameraState) Authoritative() Vec2 {
	if c.Zoom == 1 {
		return c.Sampling
	}
	return c.Viewport
}

// ApplyPan returns c with the pan delta applied to exactly one position
// field. The choice depends only on c.Zoom; no input is ever dropped.
func ApplyPan(c CameraState, dx, dy float64) CameraState {
	if c.Zoom == 1 {
		c.Sampling.X += dx
		c.Sampling.Y += dy
	} else {
		c.Viewport.X += dx
		c.Viewport.Y += dy
	}
	return c
}

// WorldAtScreenCenter returns the world coordinate currently displayed at
// the center of a screenW x screenH pixel screen.
func WorldAtScreenCenter(c CameraState, screenW, screenH float64) Vec2 {
	if c.Zoom == 1 {
		return Vec2{c.Sampling.X + screenW/2, c.Sampling.Y + screenH/2}
	}
	z := float64(c.Zoom)
	return Vec2{c.Viewport.X + screenW/(2*z), c.Viewport.Y + screenH/(2*z)}
}

// ApplyZoom returns c at the new zoom level, seeding the position field that
// becomes authoritative so the world coordinate at the screen center is
// preserved across the transition. Returns ErrInvalidZoomLevel (camera
// unchanged) if level is not in ZoomLevels.
func ApplyZoom(c CameraState, level int, screenW, screenH float64) (CameraState, error) {
	if !ValidZoom(level) {
		return c, ErrInvalidZoomLevel
	}
	if level == c.Zoom {
		return c, nil
	}

	center := WorldAtScreenCenter(c, screenW, screenH)
	c.Zoom = level
	if level == 1 {
		c.Sampling = Vec2{center.X - screenW/2, center.Y - screenH/2}
	} else {
		z := float64(level)
		c.Viewport = Vec2{center.X - screenW/(2*z), center.Y - screenH/(2*z)}
	}
	return c, nil
}

// applyScrollPosition writes an absolute position to the authoritative
// field. Used by scroll animations; a single write per frame.
func applyScrollPosition(c CameraState, pos Vec2) CameraState {
	if c.Zoom == 1 {
		c.Sampling = pos
	} else {
		c.Viewport = pos
	}
	return c
}

// scrollAnim holds active scroll-to tweens for the authoritative position's
// X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
	pos    Vec2
}

// newScrollAnim creates a tweened move from the camera's current
// authoritative position to the given world position.
func newScrollAnim(c CameraState, x, y float64, duration float32, easeFn ease.TweenFunc) *scrollAnim {
	from := c.Authoritative()
	return &scrollAnim{
		tweenX: gween.New(float32(from.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(from.Y), float32(y), duration, easeFn),
		pos:    from,
	}
}

// update advances the tweens by dt seconds and reports whether both axes
// have finished.
func (a *scrollAnim) update(dt float32) (Vec2, bool) {
	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		a.pos.X = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		a.pos.Y = float64(val)
		a.doneY = done
	}
	return a.pos, a.doneX && a.doneY
}
