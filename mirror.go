package pixeloid

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// MirrorLayer composites cached textures under the camera transform. It
// never re-renders a texture — that is the TextureCache's job — so a zoom
// change costs one composite pass and nothing else.
//
// The regime split:
//
//   - Zoom == 1: the complete data layer output is shown. Every queried
//     object's texture is drawn untransformed at its world position minus
//     the sampling origin.
//   - Zoom > 1: only textures intersecting the viewport-anchored window
//     are shown, scaled by the zoom factor and positioned at
//     (world - viewport) * zoom.
type MirrorLayer struct {
	pool renderTexturePool
	// frame and frameScratch are exact screen-size buffers for the
	// post-transform chain. Pooled images won't do here: the pool rounds up
	// to powers of two, and a post filter reading src bounds (blur's final
	// upscale, a vignette's falloff center) must see the true frame extent.
	frame        *ebiten.Image
	frameScratch *ebiten.Image
	imgOp        ebiten.DrawImageOptions
}

// NewMirrorLayer creates an empty mirror layer.
func NewMirrorLayer() *MirrorLayer {
	return &MirrorLayer{}
}

// Render composites the queried objects onto dst for the given camera
// snapshot. objects must be the result of an ObjectStore.Query against
// SamplingWindow(cam, ...) for the same snapshot. Pre-transform filters run
// per texture at native resolution; post-transform filters run on the
// finished frame.
func (m *MirrorLayer) Render(dst *ebiten.Image, cam CameraState, objects []*Object, cache *TextureCache, pipeline *FilterPipeline) {
	target := dst
	if pipeline != nil && len(pipeline.post) > 0 {
		target = m.ensureFrame(dst.Bounds().Dx(), dst.Bounds().Dy())
		target.Clear()
	}

	for _, obj := range objects {
		m.compositeObject(target, cam, obj, cache, pipeline)
	}

	if target != dst {
		result := m.applyPostChain(pipeline.post, target)
		m.imgOp.GeoM.Reset()
		m.imgOp.ColorScale.Reset()
		m.imgOp.Filter = ebiten.FilterNearest
		dst.DrawImage(result, &m.imgOp)
	}
}

// applyPostChain runs the post-transform chain on the composited frame,
// ping-ponging between the two exact-size frame buffers. Both images the
// chain touches are always screen-sized, so every filter in the chain sees
// the true frame extent in its source bounds.
func (m *MirrorLayer) applyPostChain(filters []Filter, src *ebiten.Image) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}

	b := src.Bounds()
	other := m.ensureFrameScratch(b.Dx(), b.Dy())

	current := src
	for _, f := range filters {
		other.Clear()
		f.Apply(current, other)
		current, other = other, current
	}
	return current
}

// compositeObject draws one object's cached texture under the camera
// transform, running the pre-transform filter chain first.
func (m *MirrorLayer) compositeObject(target *ebiten.Image, cam CameraState, obj *Object, cache *TextureCache, pipeline *FilterPipeline) {
	entry := cache.GetOrRender(obj)
	tex := entry.Texture()

	pre, pad := preChain(pipeline, obj)

	// Run pre-transform filters at the texture's native resolution,
	// expanding the buffer by the chain padding so outlines aren't clipped.
	var pooled []*ebiten.Image
	if len(pre) > 0 {
		b := tex.Bounds()
		padded := m.pool.Acquire(b.Dx()+2*pad, b.Dy()+2*pad)
		m.imgOp.GeoM.Reset()
		m.imgOp.ColorScale.Reset()
		m.imgOp.Filter = ebiten.FilterNearest
		m.imgOp.GeoM.Translate(float64(pad), float64(pad))
		padded.DrawImage(tex, &m.imgOp)
		pooled = append(pooled, padded)

		result := applyChain(pre, padded, &m.pool)
		if result != padded {
			pooled = append(pooled, result)
		}
		tex = result
	} else {
		pad = 0
	}

	// Camera transform. entry.Scale() is 1 for full-fidelity textures and
	// <1 for degraded ones, which therefore get upscaled back to world size.
	bounds := obj.Bounds()
	z := float64(cam.Zoom)
	s := z / entry.Scale()

	var ox, oy float64
	if cam.Zoom == 1 {
		ox, oy = cam.Sampling.X, cam.Sampling.Y
	} else {
		ox, oy = cam.Viewport.X, cam.Viewport.Y
	}

	m.imgOp.GeoM.Reset()
	m.imgOp.ColorScale.Reset()
	m.imgOp.Filter = ebiten.FilterNearest
	m.imgOp.GeoM.Translate(float64(-pad), float64(-pad))
	m.imgOp.GeoM.Scale(s, s)
	m.imgOp.GeoM.Translate((bounds.X-ox)*z, (bounds.Y-oy)*z)
	target.DrawImage(tex, &m.imgOp)

	for _, img := range pooled {
		m.pool.Release(img)
	}
}

// preChain collects the pre-transform filters that apply to obj: the
// object's own filters first (selection outline and the like), then the
// pipeline's global pre chain. Filters declaring StagePost in an object's
// list are skipped — per-object screen-space effects are not a thing.
func preChain(pipeline *FilterPipeline, obj *Object) ([]Filter, int) {
	var chain []Filter
	pad := 0
	for _, f := range obj.Filters {
		if f.Stage() != StagePre {
			continue
		}
		chain = append(chain, f)
		pad += f.Padding()
	}
	if pipeline != nil {
		for _, f := range pipeline.pre {
			chain = append(chain, f)
			pad += f.Padding()
		}
	}
	return chain, pad
}

// ensureFrame returns the screen-size offscreen buffer, reallocating when
// the screen dimensions change. Exact size (not pooled) so screen-space
// shaders see the true frame extent.
func (m *MirrorLayer) ensureFrame(w, h int) *ebiten.Image {
	if m.frame == nil || m.frame.Bounds().Dx() != w || m.frame.Bounds().Dy() != h {
		if m.frame != nil {
			m.frame.Deallocate()
		}
		m.frame = ebiten.NewImage(w, h)
	}
	return m.frame
}

// ensureFrameScratch returns the second screen-size buffer used by the
// post-chain ping-pong, reallocating when the screen dimensions change.
func (m *MirrorLayer) ensureFrameScratch(w, h int) *ebiten.Image {
	if m.frameScratch == nil || m.frameScratch.Bounds().Dx() != w || m.frameScratch.Bounds().Dy() != h {
		if m.frameScratch != nil {
			m.frameScratch.Deallocate()
		}
		m.frameScratch = ebiten.NewImage(w, h)
	}
	return m.frameScratch
}

// Dispose frees the frame buffers and pooled scratch textures.
func (m *MirrorLayer) Dispose() {
	if m.frame != nil {
		m.frame.Deallocate()
		m.frame = nil
	}
	if m.frameScratch != nil {
		m.frameScratch.Deallocate()
		m.frameScratch = nil
	}
	m.pool.Drain()
}
