package pixeloid

import (
	"errors"
	"testing"
)

func TestScreenToVertexFloors(t *testing.T) {
	cam := NewCameraState()
	v, ok, err := ScreenToVertex(10.9, 7.2, cam, 100, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit inside mesh")
	}
	if v.X != 10 || v.Y != 7 {
		t.Errorf("vertex = %+v, want {10 7}", v)
	}
}

func TestScreenToVertexScalesByZoom(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom = 4
	v, ok, err := ScreenToVertex(17, 9, cam, 100, 100)
	if err != nil || !ok {
		t.Fatalf("unexpected miss or error: %v", err)
	}
	// floor(17/4)=4, floor(9/4)=2
	if v.X != 4 || v.Y != 2 {
		t.Errorf("vertex = %+v, want {4 2}", v)
	}
}

func TestScreenToVertexOutOfBounds(t *testing.T) {
	cam := NewCameraState()
	// Outside the mesh is a routine "no hit", never an error.
	for _, c := range [][2]float64{{-1, 5}, {5, -1}, {100, 5}, {5, 100}} {
		_, ok, err := ScreenToVertex(c[0], c[1], cam, 100, 100)
		if err != nil {
			t.Fatalf("unexpected error at (%v,%v): %v", c[0], c[1], err)
		}
		if ok {
			t.Errorf("expected no hit at (%v,%v)", c[0], c[1])
		}
	}
}

func TestScreenToVertexInvalidZoom(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom = 3
	_, _, err := ScreenToVertex(5, 5, cam, 100, 100)
	if !errors.Is(err, ErrInvalidZoomLevel) {
		t.Errorf("err = %v, want ErrInvalidZoomLevel", err)
	}
}

func TestVertexToWorldUsesSampling(t *testing.T) {
	cam := NewCameraState()
	cam.Sampling = Vec2{X: 100, Y: -50}
	w := VertexToWorld(VertexCoord{X: 3, Y: 4}, cam)
	if w.X != 103 || w.Y != -46 {
		t.Errorf("world = %+v, want {103 -46}", w)
	}
}

func TestScreenVertexWorldRoundTrip(t *testing.T) {
	cam := NewCameraState()
	cam.Sampling = Vec2{X: 12, Y: 34}

	// Floor truncation is the only lossy step: the grid-snapped world
	// position must be within one world unit of the exact conversion.
	for _, s := range [][2]float64{{0, 0}, {10.5, 20.9}, {99.99, 0.01}} {
		v, ok, err := ScreenToVertex(s[0], s[1], cam, 200, 200)
		if err != nil || !ok {
			t.Fatalf("unexpected miss or error at %v: %v", s, err)
		}
		snapped := VertexToWorld(v, cam)
		exact, err := ScreenToWorld(s[0], s[1], cam)
		if err != nil {
			t.Fatal(err)
		}
		if exact.X-snapped.X < 0 || exact.X-snapped.X >= 1 ||
			exact.Y-snapped.Y < 0 || exact.Y-snapped.Y >= 1 {
			t.Errorf("round trip at %v: snapped %+v, exact %+v", s, snapped, exact)
		}
	}
}

func TestScreenToWorldZoomRegimes(t *testing.T) {
	cam := NewCameraState()
	cam.Sampling = Vec2{X: 10, Y: 20}
	cam.Viewport = Vec2{X: 1000, Y: 2000}

	// Zoom 1: sampling is authoritative.
	w, err := ScreenToWorld(5, 5, cam)
	if err != nil {
		t.Fatal(err)
	}
	if w.X != 15 || w.Y != 25 {
		t.Errorf("zoom 1: world = %+v, want {15 25}", w)
	}

	// Zoom 4: viewport is authoritative, screen divided by zoom.
	cam.Zoom = 4
	w, err = ScreenToWorld(8, 16, cam)
	if err != nil {
		t.Fatal(err)
	}
	if w.X != 1002 || w.Y != 2004 {
		t.Errorf("zoom 4: world = %+v, want {1002 2004}", w)
	}
}

func TestWorldToScreenInverts(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom = 8
	cam.Viewport = Vec2{X: -37.5, Y: 12.25}

	orig := Vec2{X: 3.125, Y: -9.75}
	sx, sy, err := WorldToScreen(orig, cam)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ScreenToWorld(sx, sy, cam)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(back.X, orig.X, epsilon) || !approxEqual(back.Y, orig.Y, epsilon) {
		t.Errorf("round trip: got %+v, want %+v", back, orig)
	}
}

func TestScreenToWorldInvalidZoom(t *testing.T) {
	cam := NewCameraState()
	cam.Zoom = 0
	if _, err := ScreenToWorld(1, 1, cam); !errors.Is(err, ErrInvalidZoomLevel) {
		t.Errorf("err = %v, want ErrInvalidZoomLevel", err)
	}
	if _, _, err := WorldToScreen(Vec2{}, cam); !errors.Is(err, ErrInvalidZoomLevel) {
		t.Errorf("err = %v, want ErrInvalidZoomLevel", err)
	}
}
