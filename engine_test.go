package pixeloid

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

type recordingSink struct {
	events []EditorEvent
}

func (s *recordingSink) EmitEvent(ev EditorEvent) {
	s.events = append(s.events, ev)
}

func TestEngineUninitialized(t *testing.T) {
	e := NewEngine(0, 0)
	if err := e.Update(); !errors.Is(err, ErrCameraUninitialized) {
		t.Errorf("Update err = %v, want ErrCameraUninitialized", err)
	}
	if err := e.Pan(1, 1); !errors.Is(err, ErrCameraUninitialized) {
		t.Errorf("Pan err = %v, want ErrCameraUninitialized", err)
	}
	if err := e.SetZoomFactor(2); !errors.Is(err, ErrCameraUninitialized) {
		t.Errorf("SetZoomFactor err = %v, want ErrCameraUninitialized", err)
	}
}

func TestEnginePanAtZoom1MovesSamplingOnly(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.Pan(5, 0); err != nil {
		t.Fatal(err)
	}
	cam := e.CameraState()
	if cam.Sampling != (Vec2{X: 5, Y: 0}) {
		t.Errorf("Sampling = %+v, want {5 0}", cam.Sampling)
	}
	if cam.Viewport != (Vec2{}) {
		t.Errorf("Viewport moved to %+v at zoom 1", cam.Viewport)
	}
}

func TestEnginePanAtZoom4MovesViewportOnly(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.Pan(5, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.SetZoomFactor(4); err != nil {
		t.Fatal(err)
	}
	if err := e.Pan(1, 1); err != nil {
		t.Fatal(err)
	}
	cam := e.CameraState()
	if cam.Sampling != (Vec2{X: 5, Y: 0}) {
		t.Errorf("Sampling = %+v, want frozen {5 0}", cam.Sampling)
	}
	// Entering zoom 4 seeded the viewport to keep the screen-center world
	// point; the pan then moved it by exactly (1, 1).
	seeded := Vec2{X: 5 + 400 - 100, Y: 300 - 75}
	want := Vec2{X: seeded.X + 1, Y: seeded.Y + 1}
	if !approxEqual(cam.Viewport.X, want.X, 1e-9) || !approxEqual(cam.Viewport.Y, want.Y, 1e-9) {
		t.Errorf("Viewport = %+v, want %+v", cam.Viewport, want)
	}
}

func TestMoveSamplingWindowAtZoom1(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.MoveSamplingWindow(5, -3); err != nil {
		t.Fatal(err)
	}
	cam := e.CameraState()
	if cam.Sampling != (Vec2{X: 5, Y: -3}) {
		t.Errorf("Sampling = %+v, want {5 -3}", cam.Sampling)
	}
	if cam.Viewport != (Vec2{}) {
		t.Error("Viewport must not move")
	}
}

func TestMoveSamplingWindowFrozenAboveZoom1(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.SetZoomFactor(4); err != nil {
		t.Fatal(err)
	}
	before := e.CameraState()
	if err := e.MoveSamplingWindow(1, 1); !errors.Is(err, ErrSamplingFrozen) {
		t.Fatalf("err = %v, want ErrSamplingFrozen", err)
	}
	if e.CameraState() != before {
		t.Error("camera must be unchanged after a rejected move")
	}
}

func TestMoveSamplingWindowUninitialized(t *testing.T) {
	e := NewEngine(0, 0)
	if err := e.MoveSamplingWindow(1, 0); !errors.Is(err, ErrCameraUninitialized) {
		t.Errorf("err = %v, want ErrCameraUninitialized", err)
	}
}

func TestEngineInvalidZoomRejected(t *testing.T) {
	e := NewEngine(800, 600)
	before := e.CameraState()
	if err := e.SetZoomFactor(3); !errors.Is(err, ErrInvalidZoomLevel) {
		t.Fatalf("err = %v, want ErrInvalidZoomLevel", err)
	}
	if e.CameraState() != before {
		t.Error("camera must be unchanged after a rejected zoom")
	}
}

func TestEngineZoomWalkPreservesCenter(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.Pan(123, -45); err != nil {
		t.Fatal(err)
	}
	for _, level := range []int{2, 16, 128, 8, 1, 64, 1} {
		before := WorldAtScreenCenter(e.CameraState(), 800, 600)
		if err := e.SetZoomFactor(level); err != nil {
			t.Fatalf("zoom to %d: %v", level, err)
		}
		after := WorldAtScreenCenter(e.CameraState(), 800, 600)
		if !approxEqual(before.X, after.X, 1e-9) || !approxEqual(before.Y, after.Y, 1e-9) {
			t.Errorf("zoom to %d moved center %+v -> %+v", level, before, after)
		}
	}
}

func TestEngineCacheBoundedAcrossZoomCycles(t *testing.T) {
	// 50 objects rendered through every zoom level for several cycles must
	// never grow the cache past one entry per object.
	e := NewEngine(640, 480)
	for i := 0; i < 50; i++ {
		x := float64((i % 10) * 60)
		y := float64((i / 10) * 60)
		e.Objects().Create(ShapeRectangle, RectangleProperties{X: x, Y: y, Width: 20, Height: 20}.Vertices())
	}

	screen := ebiten.NewImage(640, 480)
	for cycle := 0; cycle < 10; cycle++ {
		for _, level := range ZoomLevels {
			if err := e.SetZoomFactor(level); err != nil {
				t.Fatal(err)
			}
			e.Draw(screen)
			if e.Cache().Len() > 50 {
				t.Fatalf("cycle %d zoom %d: cache holds %d entries, want <= 50", cycle, level, e.Cache().Len())
			}
		}
		if err := e.SetZoomFactor(1); err != nil {
			t.Fatal(err)
		}
	}
	e.Dispose()
}

func TestEngineDrawInvalidatesChangedObjects(t *testing.T) {
	e := NewEngine(200, 200)
	obj := e.Objects().Create(ShapeCircle, CircleProperties{Center: Vec2{X: 50, Y: 50}, Radius: 10}.Vertices())
	screen := ebiten.NewImage(200, 200)

	e.Draw(screen)
	base := e.Cache().Stats()

	e.OnObjectChanged(obj.ID)
	e.Draw(screen)
	if got := e.Cache().Stats().Rerenders; got != base.Rerenders+1 {
		t.Errorf("rerenders = %d, want %d", got, base.Rerenders+1)
	}

	// Unchanged object on the next pass: pure hit.
	e.Draw(screen)
	after := e.Cache().Stats()
	if after.Rerenders != base.Rerenders+1 || after.Misses != base.Misses {
		t.Errorf("stats = %+v, want hits only after the re-render", after)
	}
}

func TestEngineDeleteEvictsImmediately(t *testing.T) {
	e := NewEngine(200, 200)
	obj := e.Objects().Create(ShapePoint, []Vec2{{10, 10}})
	screen := ebiten.NewImage(200, 200)
	e.Draw(screen)
	if e.Cache().Len() != 1 {
		t.Fatal("object should be cached after a draw")
	}

	e.OnObjectDeleted(obj.ID)
	if e.Cache().Len() != 0 {
		t.Error("deletion must evict the texture immediately")
	}
	if _, ok := e.Objects().Get(obj.ID); ok {
		t.Error("object should be removed from the store")
	}
}

func TestEngineSelection(t *testing.T) {
	e := NewEngine(200, 200)
	obj := e.Objects().Create(ShapeRectangle, RectangleProperties{X: 10, Y: 10, Width: 20, Height: 20}.Vertices())

	e.Select(obj.ID)
	if !e.Selected(obj.ID) {
		t.Fatal("object should be selected")
	}
	if len(obj.Filters) != 1 {
		t.Fatalf("object carries %d filters, want 1 outline", len(obj.Filters))
	}
	e.Select(obj.ID) // idempotent
	if len(obj.Filters) != 1 {
		t.Error("re-selecting must not stack outlines")
	}

	e.Deselect(obj.ID)
	if e.Selected(obj.ID) || len(obj.Filters) != 0 {
		t.Error("deselect should strip the outline")
	}
	e.Deselect(obj.ID) // no-op
}

func TestEngineEventsForwarded(t *testing.T) {
	e := NewEngine(800, 600)
	sink := &recordingSink{}
	e.SetEventSink(sink)

	if err := e.Pan(3, 4); err != nil {
		t.Fatal(err)
	}
	if err := e.SetZoomFactor(2); err != nil {
		t.Fatal(err)
	}
	obj := e.Objects().Create(ShapePoint, []Vec2{{1, 1}})
	e.OnObjectChanged(obj.ID)
	e.OnObjectDeleted(obj.ID)

	want := []EventKind{EventCameraMoved, EventZoomChanged, EventObjectChanged, EventObjectDeleted}
	if len(sink.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(sink.events), len(want))
	}
	for i, ev := range sink.events {
		if ev.Kind != want[i] {
			t.Errorf("event %d kind = %d, want %d", i, ev.Kind, want[i])
		}
	}
	if sink.events[0].Camera.Sampling != (Vec2{X: 3, Y: 4}) {
		t.Error("camera event should carry the committed state")
	}
	if sink.events[2].ObjectID != obj.ID {
		t.Error("object event should carry the object ID")
	}
}

func TestEngineScrollToAnimates(t *testing.T) {
	e := NewEngine(800, 600)
	e.ScrollTo(100, 50, 0.5, ease.Linear)

	for i := 0; i < 60; i++ {
		if err := e.Update(); err != nil {
			t.Fatal(err)
		}
	}
	cam := e.CameraState()
	if !approxEqual(cam.Sampling.X, 100, 1e-3) || !approxEqual(cam.Sampling.Y, 50, 1e-3) {
		t.Errorf("Sampling = %+v, want {100 50} after the scroll", cam.Sampling)
	}
	if e.scroll != nil {
		t.Error("finished scroll should be cleared")
	}
}

func TestEngineScrollWithSyncWithFPS(t *testing.T) {
	// Under SetTPS(SyncWithFPS), ebiten.TPS() reports -1; the scroll tween
	// must still advance forward at the default rate instead of running
	// backwards.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	defer ebiten.SetTPS(ebiten.DefaultTPS)

	e := NewEngine(800, 600)
	e.ScrollTo(100, 50, 0.5, ease.Linear)
	for i := 0; i < 60; i++ {
		if err := e.Update(); err != nil {
			t.Fatal(err)
		}
	}
	cam := e.CameraState()
	if !approxEqual(cam.Sampling.X, 100, 1e-3) || !approxEqual(cam.Sampling.Y, 50, 1e-3) {
		t.Errorf("Sampling = %+v, want {100 50}", cam.Sampling)
	}
}

func TestEngineScrollFollowsRegimeChange(t *testing.T) {
	// A zoom change mid-scroll re-routes the animation: subsequent frames
	// write the newly authoritative viewport field, never the frozen one.
	e := NewEngine(800, 600)
	e.ScrollTo(100, 50, 10, ease.Linear)
	if err := e.Update(); err != nil {
		t.Fatal(err)
	}
	if err := e.SetZoomFactor(4); err != nil {
		t.Fatal(err)
	}
	frozen := e.CameraState().Sampling

	if err := e.Update(); err != nil {
		t.Fatal(err)
	}
	if e.scroll == nil {
		t.Fatal("a long scroll should still be running")
	}
	if e.CameraState().Sampling != frozen {
		t.Error("scroll wrote the frozen sampling field at zoom 4")
	}
}

func TestEngineScreenToWorld(t *testing.T) {
	e := NewEngine(800, 600)
	if err := e.Pan(10, 20); err != nil {
		t.Fatal(err)
	}
	w, err := e.ScreenToWorld(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if w != (Vec2{X: 15, Y: 25}) {
		t.Errorf("world = %+v, want {15 25}", w)
	}
}

func TestEngineManyObjectsStressQuery(t *testing.T) {
	e := NewEngine(320, 240)
	for i := 0; i < 200; i++ {
		x := float64((i % 20) * 40)
		y := float64((i / 20) * 40)
		e.Objects().Create(ShapeDiamond, DiamondProperties{Center: Vec2{X: x, Y: y}, Width: 10, Height: 10}.Vertices())
	}
	screen := ebiten.NewImage(320, 240)
	e.Draw(screen)

	visible := e.ListObjects(SamplingWindow(e.CameraState(), 320, 240))
	if len(visible) == 0 || len(visible) == 200 {
		t.Errorf("window query returned %d of 200 objects", len(visible))
	}
	e.Dispose()
}

func ExampleEngine() {
	engine := NewEngine(640, 480)
	engine.Objects().Create(ShapeCircle, CircleProperties{
		Center: Vec2{X: 100, Y: 100},
		Radius: 25,
	}.Vertices())

	_ = engine.SetZoomFactor(4)
	fmt.Println(engine.CameraState().Zoom)
	// Output: 4
}
