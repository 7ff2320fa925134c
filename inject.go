package pixeloid

import "github.com/tanema/gween/ease"

// syntheticNavEvent is a single injected navigation action. One event is
// consumed per Update tick, so a scripted session paces exactly like real
// input.
type syntheticNavEvent struct {
	kind    navEventKind
	dx, dy  float64
	zoom    int
	x, y    float64
	seconds float32
}

type navEventKind uint8

const (
	navPan navEventKind = iota
	navZoom
	navScroll
)

// InjectPan queues a pan of (dx, dy) world units. The event is consumed on
// the next Update, routed through ApplyPan exactly like keyboard input.
func (e *Engine) InjectPan(dx, dy float64) {
	e.injectQueue = append(e.injectQueue, syntheticNavEvent{kind: navPan, dx: dx, dy: dy})
}

// InjectZoom queues a zoom to the given level. Invalid levels are dropped
// with the same no-op semantics as SetZoomFactor.
func (e *Engine) InjectZoom(level int) {
	e.injectQueue = append(e.injectQueue, syntheticNavEvent{kind: navZoom, zoom: level})
}

// InjectScrollTo queues a smooth scroll to the given world position.
func (e *Engine) InjectScrollTo(x, y float64, seconds float32) {
	e.injectQueue = append(e.injectQueue, syntheticNavEvent{kind: navScroll, x: x, y: y, seconds: seconds})
}

// processInjectedInput pops one event from the inject queue and applies it
// to cam through the same pure update functions real input uses. Reports
// whether an event was consumed.
func (e *Engine) processInjectedInput(cam CameraState) (CameraState, bool) {
	if len(e.injectQueue) == 0 {
		return cam, false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch evt.kind {
	case navPan:
		cam = ApplyPan(cam, evt.dx, evt.dy)
	case navZoom:
		cam, _ = ApplyZoom(cam, evt.zoom, e.screenW, e.screenH)
	case navScroll:
		e.scroll = newScrollAnim(cam, evt.x, evt.y, evt.seconds, ease.Linear)
	}
	return cam, true
}
