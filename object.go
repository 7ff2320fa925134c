package pixeloid

import "math"

// ShapeType is the tag of the Object variant. Dispatch is by tag, never by
// probing for the presence of shape-specific fields.
type ShapeType uint8

const (
	// ShapePoint occupies a single pixeloid. Vertices: [position].
	ShapePoint ShapeType = iota
	// ShapeLine is a stroked segment. Vertices: [start, end].
	ShapeLine
	// ShapeCircle is defined by its center and one rim point.
	// Vertices: [center, rim].
	ShapeCircle
	// ShapeRectangle stores its four corners clockwise from top-left.
	// Vertices: [tl, tr, br, bl].
	ShapeRectangle
	// ShapeDiamond stores its four axis tips. Vertices: [top, right,
	// bottom, left].
	ShapeDiamond
)

// String returns the shape tag name for debug output.
func (t ShapeType) String() string {
	switch t {
	case ShapePoint:
		return "point"
	case ShapeLine:
		return "line"
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapeDiamond:
		return "diamond"
	default:
		return "unknown"
	}
}

// Style holds the visual attributes applied when an object is rasterized
// into its cache texture.
type Style struct {
	// StrokeColor is the outline color. Zero value renders white.
	StrokeColor Color
	// FillColor fills closed shapes. A zero alpha means no fill.
	FillColor Color
	// StrokeWidth is the outline width in world units. Zero defaults to 1.
	StrokeWidth float64
}

// Object is a geometric object authored in world coordinates.
//
// Vertices are the single source of truth for the geometry. Derived
// properties (center, radius, width) are recomputed from vertices on
// demand via the *Properties types in shapes.go and are never stored as
// independently-mutable fields.
type Object struct {
	// ID is unique and stable for the object's lifetime.
	ID uint64
	// Type tags which shape the vertices describe.
	Type ShapeType
	// Vertices is the authoritative shape data, in the per-type order
	// documented on the ShapeType constants.
	Vertices []Vec2
	// Style controls rasterization.
	Style Style
	// Visible objects are returned by window queries; invisible ones are
	// skipped entirely.
	Visible bool
	// Filters are per-object pre-transform effects (selection outline and
	// the like), applied to the cached texture at composite time. They do
	// not invalidate the texture.
	Filters []Filter

	version   uint64
	bounds    Rect
	boundsSet bool
}

// NewObject creates a visible object with the given shape data.
func NewObject(id uint64, t ShapeType, vertices []Vec2) *Object {
	return &Object{
		ID:       id,
		Type:     t,
		Vertices: vertices,
		Visible:  true,
	}
}

// Version returns the object's content version. The TextureCache compares
// this against its cached version to detect stale textures.
func (o *Object) Version() uint64 {
	return o.version
}

// Touch bumps the content version and invalidates the cached bounding box.
// Call after any mutation of Vertices or Style.
func (o *Object) Touch() {
	o.version++
	o.boundsSet = false
}

// SetVertices replaces the authoritative shape data and touches the object.
func (o *Object) SetVertices(vertices []Vec2) {
	o.Vertices = vertices
	o.Touch()
}

// Bounds returns the object's world-space axis-aligned bounding box,
// including stroke width. The result is cached until the next Touch.
func (o *Object) Bounds() Rect {
	if o.boundsSet {
		return o.bounds
	}
	o.bounds = o.computeBounds()
	o.boundsSet = true
	return o.bounds
}

func (o *Object) computeBounds() Rect {
	if len(o.Vertices) == 0 {
		return Rect{}
	}

	var r Rect
	switch o.Type {
	case ShapeCircle:
		if len(o.Vertices) < 2 {
			v := o.Vertices[0]
			r = Rect{X: v.X, Y: v.Y}
			break
		}
		p := CircleFromVertices(o.Vertices)
		r = Rect{
			X:      p.Center.X - p.Radius,
			Y:      p.Center.Y - p.Radius,
			Width:  2 * p.Radius,
			Height: 2 * p.Radius,
		}
	default:
		minX, minY := o.Vertices[0].X, o.Vertices[0].Y
		maxX, maxY := minX, minY
		for _, v := range o.Vertices[1:] {
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
		r = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}

	// Pad for the stroke so rasterized edges aren't clipped. A point still
	// occupies one pixeloid.
	half := o.strokeWidth() / 2
	r.X -= half
	r.Y -= half
	r.Width += 2 * half
	r.Height += 2 * half
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

func (o *Object) strokeWidth() float64 {
	if o.Style.StrokeWidth <= 0 {
		return 1
	}
	return o.Style.StrokeWidth
}

func (o *Object) strokeColor() Color {
	if o.Style.StrokeColor == (Color{}) {
		return ColorWhite
	}
	return o.Style.StrokeColor
}
