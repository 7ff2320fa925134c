package pixeloid

import "math"

// Derived shape properties. Property forms and tool panels edit these, but
// they are always recomputed from Object.Vertices and converted back —
// vertices stay the single source of truth, so a form edit can never leave
// the stored geometry stale.

// CircleProperties is the derived form of a ShapeCircle.
type CircleProperties struct {
	Center Vec2
	Radius float64
}

// CircleFromVertices derives circle properties from [center, rim].
func CircleFromVertices(v []Vec2) CircleProperties {
	if len(v) < 2 {
		return CircleProperties{}
	}
	dx := v[1].X - v[0].X
	dy := v[1].Y - v[0].Y
	return CircleProperties{
		Center: v[0],
		Radius: math.Hypot(dx, dy),
	}
}

// Vertices returns the authoritative [center, rim] form. The rim point is
// placed on the positive X axis.
func (p CircleProperties) Vertices() []Vec2 {
	return []Vec2{
		p.Center,
		{X: p.Center.X + p.Radius, Y: p.Center.Y},
	}
}

// RectangleProperties is the derived form of a ShapeRectangle.
type RectangleProperties struct {
	X, Y          float64
	Width, Height float64
}

// RectangleFromVertices derives rectangle properties from the four corners.
// The corners may be in any order; the axis-aligned extent is used.
func RectangleFromVertices(v []Vec2) RectangleProperties {
	if len(v) < 4 {
		return RectangleProperties{}
	}
	minX, minY := v[0].X, v[0].Y
	maxX, maxY := minX, minY
	for _, c := range v[1:4] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return RectangleProperties{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Vertices returns the four corners clockwise from top-left.
func (p RectangleProperties) Vertices() []Vec2 {
	return []Vec2{
		{X: p.X, Y: p.Y},
		{X: p.X + p.Width, Y: p.Y},
		{X: p.X + p.Width, Y: p.Y + p.Height},
		{X: p.X, Y: p.Y + p.Height},
	}
}

// DiamondProperties is the derived form of a ShapeDiamond.
type DiamondProperties struct {
	Center        Vec2
	Width, Height float64
}

// DiamondFromVertices derives diamond properties from the four axis tips
// [top, right, bottom, left].
func DiamondFromVertices(v []Vec2) DiamondProperties {
	if len(v) < 4 {
		return DiamondProperties{}
	}
	return DiamondProperties{
		Center: Vec2{X: (v[1].X + v[3].X) / 2, Y: (v[0].Y + v[2].Y) / 2},
		Width:  v[1].X - v[3].X,
		Height: v[2].Y - v[0].Y,
	}
}

// Vertices returns the four axis tips [top, right, bottom, left].
func (p DiamondProperties) Vertices() []Vec2 {
	return []Vec2{
		{X: p.Center.X, Y: p.Center.Y - p.Height/2},
		{X: p.Center.X + p.Width/2, Y: p.Center.Y},
		{X: p.Center.X, Y: p.Center.Y + p.Height/2},
		{X: p.Center.X - p.Width/2, Y: p.Center.Y},
	}
}

// LineProperties is the derived form of a ShapeLine.
type LineProperties struct {
	Start, End Vec2
}

// LineFromVertices derives line properties from [start, end].
func LineFromVertices(v []Vec2) LineProperties {
	if len(v) < 2 {
		return LineProperties{}
	}
	return LineProperties{Start: v[0], End: v[1]}
}

// Vertices returns the authoritative [start, end] form.
func (p LineProperties) Vertices() []Vec2 {
	return []Vec2{p.Start, p.End}
}
