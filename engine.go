package pixeloid

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// EventKind identifies a kind of editor event forwarded to an EventSink.
type EventKind uint8

const (
	EventCameraMoved   EventKind = iota // a position field changed
	EventZoomChanged                    // the zoom factor changed
	EventObjectChanged                  // an object's content version was bumped
	EventObjectDeleted                  // an object was removed
)

// EditorEvent carries editor state changes for an external event bus
// (see the ecs sub-module for a Donburi-backed sink).
type EditorEvent struct {
	Kind     EventKind
	ObjectID uint64
	Camera   CameraState
}

// EventSink receives editor events. When set on an Engine, camera and
// object changes are forwarded to it.
type EventSink interface {
	EmitEvent(event EditorEvent)
}

// EngineConfig holds construction options for Engine. Zero values select
// defaults.
type EngineConfig struct {
	Cache CacheConfig
	Input InputConfig
	// SelectionColor is the tint of the selection outline.
	// Zero value defaults to a light cyan.
	SelectionColor Color
	// SelectionThickness is the selection outline width in scale-1 texels.
	// Zero defaults to 2.
	SelectionThickness int
}

// Engine wires the store, cache, mirror layer, filter pipeline, and input
// router into a frame-driven whole. It is single-threaded and cooperative:
// Update stages and commits camera changes, Draw runs exactly one query
// cycle and one composite pass. A dropped frame (Draw skipped) is always
// safe — Draw only ever observes a fully committed CameraState.
type Engine struct {
	store    *ObjectStore
	cache    *TextureCache
	mirror   *MirrorLayer
	pipeline *FilterPipeline
	router   *InputRouter

	cam              CameraState
	screenW, screenH float64
	initialized      bool

	scroll *scrollAnim
	sink   EventSink

	injectQueue     []syntheticNavEvent
	testRunner      *TestRunner
	screenshotQueue []string

	// ScreenshotDir is where Screenshot writes its PNG files.
	// Defaults to "screenshots".
	ScreenshotDir string

	selection     map[uint64]*OutlineFilter
	selectionTint Color
	selectionW    int

	debug bool
	stats frameStats
}

// NewEngine creates an engine for a screenW x screenH pixel screen with
// default configuration.
func NewEngine(screenW, screenH int) *Engine {
	return NewEngineWith(screenW, screenH, EngineConfig{})
}

// NewEngineWith creates an engine with explicit configuration.
func NewEngineWith(screenW, screenH int, cfg EngineConfig) *Engine {
	if cfg.SelectionColor == (Color{}) {
		cfg.SelectionColor = Color{R: 0.3, G: 0.9, B: 1, A: 1}
	}
	if cfg.SelectionThickness <= 0 {
		cfg.SelectionThickness = 2
	}
	return &Engine{
		ScreenshotDir: "screenshots",
		store:         NewObjectStore(),
		cache:         NewTextureCache(cfg.Cache),
		mirror:        NewMirrorLayer(),
		pipeline:      &FilterPipeline{},
		router:        NewInputRouter(cfg.Input),
		cam:           NewCameraState(),
		screenW:       float64(screenW),
		screenH:       float64(screenH),
		initialized:   screenW > 0 && screenH > 0,
		selection:     make(map[uint64]*OutlineFilter),
		selectionTint: cfg.SelectionColor,
		selectionW:    cfg.SelectionThickness,
	}
}

// Objects returns the engine's object store.
func (e *Engine) Objects() *ObjectStore { return e.store }

// Filters returns the engine's filter pipeline for adding global effects.
func (e *Engine) Filters() *FilterPipeline { return e.pipeline }

// Cache returns the engine's texture cache.
func (e *Engine) Cache() *TextureCache { return e.cache }

// SetEventSink sets the optional editor event bus bridge.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

// CameraState returns a read-only snapshot of the committed camera state.
func (e *Engine) CameraState() CameraState { return e.cam }

// --- Frame loop ---

// Update polls input, advances scroll animations, and commits the
// resulting camera state in a single assignment. Call once per tick.
func (e *Engine) Update() error {
	if !e.initialized {
		return ErrCameraUninitialized
	}

	if e.testRunner != nil {
		e.testRunner.step(e)
	}

	prev := e.cam
	next := e.router.Poll(prev, e.screenW, e.screenH)
	next, _ = e.processInjectedInput(next)

	if e.scroll != nil {
		// Direct navigation input cancels an in-flight scroll.
		if next.Authoritative() != prev.Authoritative() || next.Zoom != prev.Zoom {
			e.scroll = nil
		} else {
			// TPS() is -1 under SetTPS(SyncWithFPS); a negative dt would
			// run the tween backwards.
			tps := ebiten.TPS()
			if tps <= 0 {
				tps = ebiten.DefaultTPS
			}
			pos, done := e.scroll.update(float32(1.0 / float64(tps)))
			next = applyScrollPosition(next, pos)
			if done {
				e.scroll = nil
			}
		}
	}

	// Single atomic commit: Draw never sees a half-applied state.
	e.cam = next

	if e.sink != nil {
		if next.Zoom != prev.Zoom {
			e.sink.EmitEvent(EditorEvent{Kind: EventZoomChanged, Camera: next})
		} else if next.Authoritative() != prev.Authoritative() {
			e.sink.EmitEvent(EditorEvent{Kind: EventCameraMoved, Camera: next})
		}
	}
	return nil
}

// Draw runs one render pass: query the data layer, composite through the
// mirror layer, then close the cache cycle. Textures for objects whose
// content changed are re-rendered inside the pass; everything else is a
// cache hit.
func (e *Engine) Draw(screen *ebiten.Image) {
	cam := e.cam // snapshot; input mutations land on the next pass

	t := newStatsClock(e.debug)
	window := SamplingWindow(cam, e.screenW, e.screenH)
	objects := e.store.Query(window)
	for _, id := range e.store.TakeDirty() {
		e.cache.Invalidate(id)
	}
	e.stats.queryTime = t.lap()

	e.mirror.Render(screen, cam, objects, e.cache, e.pipeline)
	e.stats.compositeTime = t.lap()

	e.cache.EndCycle(window, e.store)
	e.stats.evictTime = t.lap()

	e.flushScreenshots(screen)

	if e.debug {
		e.stats.objectCount = len(objects)
		e.stats.cacheEntries = e.cache.Len()
		e.stats.cacheBytes = e.cache.MemoryBytes()
		e.debugLog()
	}
}

// --- External interface (UI / input subsystem) ---

// SetZoomFactor changes the zoom level, seeding the newly authoritative
// position field so the world point at the screen center stays put.
// Returns ErrInvalidZoomLevel (camera unchanged) for levels outside
// ZoomLevels; returns ErrCameraUninitialized if called before sizing.
func (e *Engine) SetZoomFactor(level int) error {
	if !e.initialized {
		return ErrCameraUninitialized
	}
	cam, err := ApplyZoom(e.cam, level, e.screenW, e.screenH)
	if err != nil {
		return err
	}
	changed := cam.Zoom != e.cam.Zoom
	e.cam = cam
	if changed && e.sink != nil {
		e.sink.EmitEvent(EditorEvent{Kind: EventZoomChanged, Camera: cam})
	}
	return nil
}

// Pan moves the view by (dx, dy) world units. The position field that
// moves is chosen by the current zoom factor alone; the input is never
// dropped. Returns ErrCameraUninitialized if called before sizing.
func (e *Engine) Pan(dx, dy float64) error {
	if !e.initialized {
		return ErrCameraUninitialized
	}
	e.cam = ApplyPan(e.cam, dx, dy)
	if e.sink != nil {
		e.sink.EmitEvent(EditorEvent{Kind: EventCameraMoved, Camera: e.cam})
	}
	return nil
}

// MoveSamplingWindow shifts the data layer's sampling window by (dx, dy)
// world units. Valid only at zoom 1, where the sampling window is the
// authoritative position; at higher zooms it is frozen and the call returns
// ErrSamplingFrozen with the camera unchanged. Use Pan for zoom-routed
// movement.
func (e *Engine) MoveSamplingWindow(dx, dy float64) error {
	if !e.initialized {
		return ErrCameraUninitialized
	}
	if e.cam.Zoom != 1 {
		return ErrSamplingFrozen
	}
	e.cam = ApplyPan(e.cam, dx, dy)
	if e.sink != nil {
		e.sink.EmitEvent(EditorEvent{Kind: EventCameraMoved, Camera: e.cam})
	}
	return nil
}

// ScrollTo animates the authoritative position to the given world position
// over duration seconds.
func (e *Engine) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	e.scroll = newScrollAnim(e.cam, x, y, duration, easeFn)
}

// ScreenToWorld converts a screen point to world coordinates under the
// committed camera state.
func (e *Engine) ScreenToWorld(sx, sy float64) (Vec2, error) {
	return ScreenToWorld(sx, sy, e.cam)
}

// --- External interface (geometry / editing subsystem) ---

// ListObjects returns the visible objects intersecting the window. The
// returned slice is valid until the next query or render pass.
func (e *Engine) ListObjects(window Rect) []*Object {
	return e.store.Query(window)
}

// OnObjectChanged notifies the engine that an object's geometry or style
// was edited: the content version is bumped and the cached texture is
// re-rendered on the next pass that needs it.
func (e *Engine) OnObjectChanged(id uint64) {
	obj, ok := e.store.Get(id)
	if !ok {
		return
	}
	obj.Touch()
	e.cache.Invalidate(id)
	if e.sink != nil {
		e.sink.EmitEvent(EditorEvent{Kind: EventObjectChanged, ObjectID: id, Camera: e.cam})
	}
}

// OnObjectDeleted removes the object and evicts its texture immediately.
func (e *Engine) OnObjectDeleted(id uint64) {
	if !e.store.Remove(id) {
		return
	}
	e.cache.Evict(id)
	delete(e.selection, id)
	if e.sink != nil {
		e.sink.EmitEvent(EditorEvent{Kind: EventObjectDeleted, ObjectID: id, Camera: e.cam})
	}
}

// --- Selection ---

// Select attaches the selection outline to the object. The outline is a
// pre-transform filter, so its apparent thickness is the same at every
// zoom level. No-op if already selected or unknown.
func (e *Engine) Select(id uint64) {
	obj, ok := e.store.Get(id)
	if !ok {
		return
	}
	if _, selected := e.selection[id]; selected {
		return
	}
	f := NewOutlineFilter(e.selectionW, e.selectionTint)
	e.selection[id] = f
	obj.Filters = append(obj.Filters, f)
}

// Deselect removes the selection outline from the object.
func (e *Engine) Deselect(id uint64) {
	f, selected := e.selection[id]
	if !selected {
		return
	}
	delete(e.selection, id)
	obj, ok := e.store.Get(id)
	if !ok {
		return
	}
	for i, g := range obj.Filters {
		if g == Filter(f) {
			obj.Filters = append(obj.Filters[:i], obj.Filters[i+1:]...)
			break
		}
	}
}

// Selected reports whether the object carries the selection outline.
func (e *Engine) Selected(id uint64) bool {
	_, ok := e.selection[id]
	return ok
}

// --- Lifecycle ---

// SetDebugMode enables per-frame stats collection, printed to stderr about
// once per second.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Dispose frees every GPU resource the engine holds.
func (e *Engine) Dispose() {
	e.cache.Dispose()
	e.mirror.Dispose()
}
