package pixeloid

import "math"

// This file is the single coordinate authority. All input handling converts
// through these functions; nothing else in the package does coordinate math
// between screen, vertex, and world space.
//
// Three spaces are involved:
//
//   - Screen: raw pointer/device pixels.
//   - Vertex: integer mesh-cell addresses used for hit-testing. One cell is
//     one world unit at zoom 1. The mesh is anchored to the screen, so a
//     vertex is local to the visible window.
//   - World: the persistent "pixeloid" grid shapes are authored in.

// ScreenToVertex converts a screen point to a mesh-cell address by flooring
// the zoom-scaled position. The returned bool is false when the cell lies
// outside the meshW x meshH mesh — a routine "no hit" near window edges,
// not an error. The only error condition is an invalid camera zoom factor.
func ScreenToVertex(sx, sy float64, c CameraState, meshW, meshH int) (VertexCoord, bool, error) {
	if !ValidZoom(c.Zoom) {
		return VertexCoord{}, false, ErrInvalidZoomLevel
	}
	z := float64(c.Zoom)
	v := VertexCoord{
		X: int(math.Floor(sx / z)),
		Y: int(math.Floor(sy / z)),
	}
	if v.X < 0 || v.Y < 0 || v.X >= meshW || v.Y >= meshH {
		return v, false, nil
	}
	return v, true, nil
}

// VertexToWorld converts a mesh-cell address to the world coordinate of the
// cell's top-left corner. Vertices are a zoom-1 concept: the offset is
// always the sampling position, which is the authoritative field in the
// only regime where mesh collision applies.
func VertexToWorld(v VertexCoord, c CameraState) Vec2 {
	return Vec2{
		X: float64(v.X) + c.Sampling.X,
		Y: float64(v.Y) + c.Sampling.Y,
	}
}

// ScreenToWorld converts a screen point to world coordinates under the
// current zoom regime. Unlike ScreenToVertex it does not snap to the grid.
func ScreenToWorld(sx, sy float64, c CameraState) (Vec2, error) {
	if !ValidZoom(c.Zoom) {
		return Vec2{}, ErrInvalidZoomLevel
	}
	if c.Zoom == 1 {
		return Vec2{X: c.Sampling.X + sx, Y: c.Sampling.Y + sy}, nil
	}
	z := float64(c.Zoom)
	return Vec2{X: c.Viewport.X + sx/z, Y: c.Viewport.Y + sy/z}, nil
}

// WorldToScreen converts a world coordinate to screen pixels under the
// current zoom regime. Inverse of ScreenToWorld.
func WorldToScreen(w Vec2, c CameraState) (float64, float64, error) {
	if !ValidZoom(c.Zoom) {
		return 0, 0, ErrInvalidZoomLevel
	}
	if c.Zoom == 1 {
		return w.X - c.Sampling.X, w.Y - c.Sampling.Y, nil
	}
	z := float64(c.Zoom)
	return (w.X - c.Viewport.X) * z, (w.Y - c.Viewport.Y) * z, nil
}
