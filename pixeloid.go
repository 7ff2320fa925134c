package pixeloid

import (
	"errors"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default stroke tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for world positions, pan deltas, and sizes
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// VertexCoord addresses a cell in the zoom-1 rendering mesh. One vertex
// corresponds to exactly one world unit; it exists only for input
// hit-testing and is derived by flooring scaled screen input.
type VertexCoord struct {
	X, Y int
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// RGBA implements the standard color.Color interface with premultiplied
// 16-bit components, so a Color can be passed to ebiten.Image.Fill and
// friends directly.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.toRGBA().RGBA()
}

// toRGBA converts a Color to a premultiplied color.RGBA-compatible value.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// --- Zoom levels ---

// ZoomLevels is the fixed set of valid integer camera zoom factors.
var ZoomLevels = [8]int{1, 2, 4, 8, 16, 32, 64, 128}

// ValidZoom reports whether z is one of the eight supported zoom factors.
func ValidZoom(z int) bool {
	// Powers of two from 1 to 128.
	return z > 0 && z <= 128 && z&(z-1) == 0
}

// NextZoom returns the zoom level one step above z, clamped to the maximum.
// Returns z unchanged if z is not a valid level.
func NextZoom(z int) int {
	if !ValidZoom(z) {
		return z
	}
	if z >= ZoomLevels[len(ZoomLevels)-1] {
		return z
	}
	return z * 2
}

// PrevZoom returns the zoom level one step below z, clamped to the minimum.
// Returns z unchanged if z is not a valid level.
func PrevZoom(z int) int {
	if !ValidZoom(z) {
		return z
	}
	if z <= 1 {
		return z
	}
	return z / 2
}

// --- Errors ---

// ErrInvalidZoomLevel is returned when a requested zoom factor is outside
// the fixed set in ZoomLevels. The camera is left unchanged.
var ErrInvalidZoomLevel = errors.New("pixeloid: invalid zoom level")

// ErrObjectTooLarge is reported when an object's bounding box exceeds the
// cache's texture area budget. The object is rendered through the degraded
// outline-only path instead of failing the frame.
var ErrObjectTooLarge = errors.New("pixeloid: object too large for texture")

// ErrSamplingFrozen is returned by MoveSamplingWindow when the zoom factor
// is above 1: the sampling window is frozen in that regime and navigation
// moves the camera viewport instead.
var ErrSamplingFrozen = errors.New("pixeloid: sampling window frozen above zoom 1")

// ErrCameraUninitialized is returned by Engine operations invoked before
// the engine has been given screen dimensions. This is a caller
// precondition violation, not a runtime condition to recover from.
var ErrCameraUninitialized = errors.New("pixeloid: camera not initialized")
