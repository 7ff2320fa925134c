package pixeloid

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.Contains(15, 15) {
		t.Error("interior point should be contained")
	}
	if !r.Contains(10, 10) || !r.Contains(30, 30) {
		t.Error("edge points should be contained")
	}
	if r.Contains(9, 15) || r.Contains(15, 31) {
		t.Error("outside points should not be contained")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	c := Rect{X: 20, Y: 20, Width: 5, Height: 5}
	if !a.Intersects(b) || !b.Intersects(a) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(c) {
		t.Error("disjoint rects should not intersect")
	}
	// Adjacent rects share only an edge and still count.
	d := Rect{X: 10, Y: 0, Width: 5, Height: 10}
	if !a.Intersects(d) {
		t.Error("adjacent rects should intersect")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}
	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 30 || u.Height != 15 {
		t.Errorf("union = %+v, want {0 0 30 15}", u)
	}
}

func TestValidZoom(t *testing.T) {
	for _, z := range ZoomLevels {
		if !ValidZoom(z) {
			t.Errorf("ValidZoom(%d) = false, want true", z)
		}
	}
	for _, z := range []int{0, -1, 3, 5, 6, 7, 100, 256} {
		if ValidZoom(z) {
			t.Errorf("ValidZoom(%d) = true, want false", z)
		}
	}
}

func TestNextPrevZoom(t *testing.T) {
	if NextZoom(1) != 2 || NextZoom(64) != 128 {
		t.Error("NextZoom should double")
	}
	if NextZoom(128) != 128 {
		t.Error("NextZoom should clamp at 128")
	}
	if PrevZoom(128) != 64 || PrevZoom(2) != 1 {
		t.Error("PrevZoom should halve")
	}
	if PrevZoom(1) != 1 {
		t.Error("PrevZoom should clamp at 1")
	}
	// Invalid input passes through unchanged.
	if NextZoom(3) != 3 || PrevZoom(0) != 0 {
		t.Error("invalid zoom should pass through")
	}
}

func TestColorToRGBA(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 0.5}
	rgba := c.toRGBA()
	// Premultiplied: R = 1*0.5*255, G = 0.5*0.5*255.
	if rgba.R != 127 {
		t.Errorf("R = %d, want 127", rgba.R)
	}
	if rgba.A != 127 {
		t.Errorf("A = %d, want 127", rgba.A)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := [][2]int{{0, 1}, {1, 1}, {2, 2}, {3, 4}, {17, 32}, {64, 64}, {100, 128}}
	for _, c := range cases {
		if got := nextPowerOfTwo(c[0]); got != c[1] {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", c[0], got, c[1])
		}
	}
}
