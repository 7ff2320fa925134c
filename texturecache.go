package pixeloid

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CacheConfig holds the TextureCache knobs. Zero values select defaults.
type CacheConfig struct {
	// MaxTextureArea is the largest texture, in pixels, a single object may
	// occupy. Objects over the budget render through the degraded
	// outline-only path. Default 4096x4096.
	MaxTextureArea int
	// EvictAfter is the number of consecutive query cycles an object's
	// bounding box must stay outside the query window before its texture
	// is freed. Default 120 (about two seconds at 60 TPS).
	EvictAfter int
}

const (
	defaultMaxTextureArea = 4096 * 4096
	defaultEvictAfter     = 120
)

// CacheEntry is one object's cached scale-1 texture. There is exactly one
// entry per object, never one per (object, zoom) pair: compositing applies
// the zoom at draw time, so memory stays O(sum of object areas) no matter
// how often the zoom changes.
type CacheEntry struct {
	objectID uint64
	texture  *ebiten.Image
	version  uint64
	scale    float64 // 1 for full fidelity; <1 for degraded renders
	degraded bool

	lastAccess uint64
	missCycles int
}

// Texture returns the cached image. Its size is the object's bounding box
// at scale 1 (or smaller for degraded entries).
func (e *CacheEntry) Texture() *ebiten.Image { return e.texture }

// Scale returns the world-units-to-texels factor the texture was rendered
// at. Compositing divides the camera zoom by this.
func (e *CacheEntry) Scale() float64 { return e.scale }

// Degraded reports whether the entry was rendered through the
// outline-only fallback because the object exceeded the texture budget.
func (e *CacheEntry) Degraded() bool { return e.degraded }

// CacheStats counts cache activity for the debug overlay.
type CacheStats struct {
	Hits      int
	Misses    int
	Rerenders int
	Evictions int
	Degraded  int
}

// TextureCache produces and retains one rendered texture per visible
// object, at scale 1, regardless of the current camera zoom.
type TextureCache struct {
	cfg     CacheConfig
	entries map[uint64]*CacheEntry
	cycle   uint64
	stats   CacheStats
}

// NewTextureCache creates a cache with the given configuration.
func NewTextureCache(cfg CacheConfig) *TextureCache {
	if cfg.MaxTextureArea <= 0 {
		cfg.MaxTextureArea = defaultMaxTextureArea
	}
	if cfg.EvictAfter <= 0 {
		cfg.EvictAfter = defaultEvictAfter
	}
	return &TextureCache{
		cfg:     cfg,
		entries: make(map[uint64]*CacheEntry),
	}
}

// GetOrRender returns the cache entry for obj, rendering or re-rendering
// its texture if missing or stale. A stale read (entry version behind the
// object's) always results in a re-render, never an error.
func (c *TextureCache) GetOrRender(obj *Object) *CacheEntry {
	entry, ok := c.entries[obj.ID]
	if ok && entry.version == obj.version {
		entry.lastAccess = c.cycle
		c.stats.Hits++
		return entry
	}

	if ok {
		// Stale: the texture is re-rendered in place. Only reallocate when
		// the bounding box size changed.
		c.stats.Rerenders++
	} else {
		entry = &CacheEntry{objectID: obj.ID}
		c.entries[obj.ID] = entry
		c.stats.Misses++
	}

	c.render(obj, entry)
	entry.version = obj.version
	entry.lastAccess = c.cycle
	entry.missCycles = 0
	return entry
}

// render rasterizes obj into entry's texture at scale 1, or through the
// degraded path when the bounding box exceeds the area budget.
func (c *TextureCache) render(obj *Object, entry *CacheEntry) {
	bounds := obj.Bounds()
	w := int(math.Ceil(bounds.Width))
	h := int(math.Ceil(bounds.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scale := 1.0
	degraded := false
	if w*h > c.cfg.MaxTextureArea {
		// ObjectTooLargeForTexture: shrink until the area fits and render
		// outline-only. The frame still renders; only this object loses
		// fidelity.
		scale = math.Sqrt(float64(c.cfg.MaxTextureArea) / float64(w*h))
		w = int(math.Ceil(float64(w) * scale))
		h = int(math.Ceil(float64(h) * scale))
		degraded = true
		c.stats.Degraded++
	}

	if entry.texture == nil || entry.texture.Bounds().Dx() != w || entry.texture.Bounds().Dy() != h {
		if entry.texture != nil {
			entry.texture.Deallocate()
		}
		entry.texture = ebiten.NewImage(w, h)
	} else {
		entry.texture.Clear()
	}
	entry.scale = scale
	entry.degraded = degraded

	rasterize(obj, entry.texture, bounds, scale, degraded)
}

// Invalidate forces a re-render of the given object's texture on the next
// GetOrRender, even if the version appears current.
func (c *TextureCache) Invalidate(id uint64) {
	if entry, ok := c.entries[id]; ok {
		// A version the object can never have (versions only increment).
		entry.version = math.MaxUint64
	}
}

// Evict removes the entry for id and frees its texture immediately.
// Called when the object is deleted.
func (c *TextureCache) Evict(id uint64) {
	if entry, ok := c.entries[id]; ok {
		entry.texture.Deallocate()
		delete(c.entries, id)
		c.stats.Evictions++
	}
}

// EndCycle closes one query cycle: entries whose object stayed outside
// window accumulate miss cycles and are evicted past the configured limit;
// entries whose object no longer exists are evicted immediately. Eviction
// depends only on window distance, never on the zoom factor.
func (c *TextureCache) EndCycle(window Rect, store *ObjectStore) {
	c.cycle++
	for id, entry := range c.entries {
		obj, ok := store.Get(id)
		if !ok {
			c.Evict(id)
			continue
		}
		if obj.Bounds().Intersects(window) {
			entry.missCycles = 0
			continue
		}
		entry.missCycles++
		if entry.missCycles > c.cfg.EvictAfter {
			c.Evict(id)
		}
	}
}

// Len returns the number of cached entries.
func (c *TextureCache) Len() int {
	return len(c.entries)
}

// MemoryBytes estimates the texture memory held by the cache (RGBA8).
func (c *TextureCache) MemoryBytes() int {
	total := 0
	for _, entry := range c.entries {
		b := entry.texture.Bounds()
		total += b.Dx() * b.Dy() * 4
	}
	return total
}

// Stats returns a snapshot of the activity counters.
func (c *TextureCache) Stats() CacheStats {
	return c.stats
}

// Dispose frees every cached texture.
func (c *TextureCache) Dispose() {
	for id := range c.entries {
		c.Evict(id)
	}
}

// --- Rasterization ---

// whitePixel backs filled-triangle draws (diamond fill).
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// rasterize draws obj into tex. Texture coordinates are the object's world
// coordinates relative to bounds' top-left, multiplied by scale.
// outlineOnly suppresses fills for the degraded path.
func rasterize(obj *Object, tex *ebiten.Image, bounds Rect, scale float64, outlineOnly bool) {
	// Editor rendering is pixel-snapped; antialiasing would smear pixeloids.
	const aa = false

	local := func(v Vec2) (float32, float32) {
		return float32((v.X - bounds.X) * scale), float32((v.Y - bounds.Y) * scale)
	}
	stroke := float32(obj.strokeWidth() * scale)
	if stroke < 1 {
		stroke = 1
	}
	strokeClr := obj.strokeColor().toRGBA()
	fillClr := obj.Style.FillColor.toRGBA()
	hasFill := obj.Style.FillColor.A > 0 && !outlineOnly

	switch obj.Type {
	case ShapePoint:
		if len(obj.Vertices) < 1 {
			return
		}
		x, y := local(obj.Vertices[0])
		s := float32(scale)
		if s < 1 {
			s = 1
		}
		vector.DrawFilledRect(tex, x, y, s, s, strokeClr, aa)

	case ShapeLine:
		if len(obj.Vertices) < 2 {
			return
		}
		x0, y0 := local(obj.Vertices[0])
		x1, y1 := local(obj.Vertices[1])
		vector.StrokeLine(tex, x0, y0, x1, y1, stroke, strokeClr, aa)

	case ShapeCircle:
		if len(obj.Vertices) < 2 {
			return
		}
		p := CircleFromVertices(obj.Vertices)
		cx, cy := local(p.Center)
		r := float32(p.Radius * scale)
		if hasFill {
			vector.DrawFilledCircle(tex, cx, cy, r, fillClr, aa)
		}
		vector.StrokeCircle(tex, cx, cy, r, stroke, strokeClr, aa)

	case ShapeRectangle:
		if len(obj.Vertices) < 4 {
			return
		}
		p := RectangleFromVertices(obj.Vertices)
		x, y := local(Vec2{p.X, p.Y})
		w := float32(p.Width * scale)
		h := float32(p.Height * scale)
		if hasFill {
			vector.DrawFilledRect(tex, x, y, w, h, fillClr, aa)
		}
		vector.StrokeRect(tex, x, y, w, h, stroke, strokeClr, aa)

	case ShapeDiamond:
		if len(obj.Vertices) < 4 {
			return
		}
		if hasFill {
			fillDiamond(tex, obj, bounds, scale)
		}
		for i := 0; i < 4; i++ {
			x0, y0 := local(obj.Vertices[i])
			x1, y1 := local(obj.Vertices[(i+1)%4])
			vector.StrokeLine(tex, x0, y0, x1, y1, stroke, strokeClr, aa)
		}
	}
}

// fillDiamond fills the diamond's two triangles via DrawTriangles.
func fillDiamond(tex *ebiten.Image, obj *Object, bounds Rect, scale float64) {
	c := obj.Style.FillColor
	cr := float32(c.R * c.A)
	cg := float32(c.G * c.A)
	cb := float32(c.B * c.A)
	ca := float32(c.A)

	var verts [4]ebiten.Vertex
	for i, v := range obj.Vertices[:4] {
		verts[i] = ebiten.Vertex{
			DstX:   float32((v.X - bounds.X) * scale),
			DstY:   float32((v.Y - bounds.Y) * scale),
			SrcX:   0,
			SrcY:   0,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	tex.DrawTriangles(verts[:], indices, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
}
