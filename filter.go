package pixeloid

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage says where in the composite a filter runs. Every filter belongs to
// exactly one stage; mixing pre- and post-transform work in a single filter
// is disallowed by contract.
type Stage uint8

const (
	// StagePre filters run on cached textures at their native scale-1
	// resolution, before the camera transform. A fixed-width stroke here
	// scales with the geometry, so a selection outline keeps the same
	// apparent thickness at every zoom level.
	StagePre Stage = iota
	// StagePost filters run on the final composited, camera-scaled image
	// in screen space (vignettes and similar).
	StagePost
)

// Filter is the interface for visual effects applied during compositing.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to
	// accommodate the effect. Zero means no padding.
	Padding() int
	// Stage reports which pipeline stage the filter belongs to.
	Stage() Stage
}

// FilterPipeline holds the ordered global filter chains. Pre-transform
// filters execute on every composited texture before the camera transform;
// post-transform filters execute on the finished frame. The ordering
// between the two stages is fixed and cannot be subverted: Add routes each
// filter by its own Stage.
type FilterPipeline struct {
	pre  []Filter
	post []Filter
}

// Add appends f to the chain for its stage, preserving insertion order.
func (p *FilterPipeline) Add(f Filter) {
	if f.Stage() == StagePre {
		p.pre = append(p.pre, f)
	} else {
		p.post = append(p.post, f)
	}
}

// Remove deletes f from its stage chain. No-op if f was never added.
func (p *FilterPipeline) Remove(f Filter) {
	chain := &p.post
	if f.Stage() == StagePre {
		chain = &p.pre
	}
	for i, g := range *chain {
		if g == f {
			*chain = append((*chain)[:i], (*chain)[i+1:]...)
			return
		}
	}
}

// PrePadding returns the cumulative padding of the pre-transform chain.
// The offscreen buffer for each texture is expanded by this amount so
// outlines and blurs aren't clipped.
func (p *FilterPipeline) PrePadding() int {
	pad := 0
	for _, f := range p.pre {
		pad += f.Padding()
	}
	return pad
}

// applyChain runs a pre-transform filter chain on src, ping-ponging between
// src and one pooled scratch image. Returns the image holding the final
// result; if it is not src, it came from the pool and the caller must
// release it.
//
// Pool buffers round up to powers of two, so this is only correct for the
// pre stage, where src is itself a pooled padded buffer and the texture
// sits at a known offset inside it. The post chain goes through
// MirrorLayer.applyPostChain, which keeps exact frame-size buffers.
func applyChain(filters []Filter, src *ebiten.Image, pool *renderTexturePool) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var scratch *ebiten.Image

	for _, f := range filters {
		if scratch == nil {
			scratch = pool.Acquire(w, h)
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}

	if scratch != nil && scratch != src {
		pool.Release(scratch)
	}
	return current
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine. Ebitengine
// uses premultiplied alpha; shaders un-premultiply before processing and
// re-premultiply output where needed.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Apply 4x5 color matrix (row-major, offset in elements 4,9,14,19).
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	// Clamp and re-premultiply.
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const pixelPerfectOutlineShaderSrc = `//kage:unit pixels
package main

var OutlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		return c
	}
	// Check cardinal neighbors.
	if imageSrc0At(src + vec2(1, 0)).a > 0 ||
		imageSrc0At(src + vec2(-1, 0)).a > 0 ||
		imageSrc0At(src + vec2(0, 1)).a > 0 ||
		imageSrc0At(src + vec2(0, -1)).a > 0 {
		return OutlineColor
	}
	return vec4(0)
}
`

const vignetteShaderSrc = `//kage:unit pixels
package main

var Strength float
var Softness float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Normalized position within the source.
	uv := (src - imageSrc0Origin()) / imageSrc0Size()
	d := distance(uv, vec2(0.5, 0.5)) * 1.4142135
	v := 1.0 - smoothstep(1.0-Softness, 1.0, d)*Strength
	return vec4(c.rgb*v, c.a)
}
`

// --- Lazy shader compilation (single-threaded engine, no sync.Once) ---

var (
	colorMatrixShader *ebiten.Shader
	ppOutlineShader   *ebiten.Shader
	vignetteShader    *ebiten.Shader
)

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("pixeloid: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

func ensurePPOutlineShader() *ebiten.Shader {
	if ppOutlineShader == nil {
		s, err := ebiten.NewShader([]byte(pixelPerfectOutlineShaderSrc))
		if err != nil {
			panic("pixeloid: failed to compile pixel-perfect outline shader: " + err.Error())
		}
		ppOutlineShader = s
	}
	return ppOutlineShader
}

func ensureVignetteShader() *ebiten.Shader {
	if vignetteShader == nil {
		s, err := ebiten.NewShader([]byte(vignetteShaderSrc))
		if err != nil {
			panic("pixeloid: failed to compile vignette shader: " + err.Error())
		}
		vignetteShader = s
	}
	return vignetteShader
}

// --- OutlineFilter ---

// OutlineFilter draws the source in 8 cardinal/diagonal offsets with the
// outline color, then draws the original on top. Pre-transform: the
// thickness is in scale-1 texels, so the outline scales with the shape and
// keeps the same apparent weight at every zoom. The standard selection
// highlight.
type OutlineFilter struct {
	Thickness int
	Color     Color
	imgOp     ebiten.DrawImageOptions
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(thickness int, c Color) *OutlineFilter {
	return &OutlineFilter{Thickness: thickness, Color: c}
}

// Apply draws an 8-direction offset outline behind the source image.
func (f *OutlineFilter) Apply(src, dst *ebiten.Image) {
	t := float64(f.Thickness)
	offsets := [8][2]float64{
		{-t, 0}, {t, 0}, {0, -t}, {0, t},
		{-t, -t}, {t, -t}, {-t, t}, {t, t},
	}

	op := &f.imgOp

	for _, off := range offsets {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Translate(off[0], off[1])
		op.ColorScale.Scale(
			float32(f.Color.R*f.Color.A),
			float32(f.Color.G*f.Color.A),
			float32(f.Color.B*f.Color.A),
			float32(f.Color.A),
		)
		dst.DrawImage(src, op)
	}

	op.GeoM.Reset()
	op.ColorScale.Reset()
	dst.DrawImage(src, op)
}

// Padding returns the outline thickness.
func (f *OutlineFilter) Padding() int { return f.Thickness }

// Stage returns StagePre.
func (f *OutlineFilter) Stage() Stage { return StagePre }

// --- PixelPerfectOutlineFilter ---

// PixelPerfectOutlineFilter uses a Kage shader to draw a 1-texel outline
// around non-transparent pixels by testing cardinal neighbors.
// Pre-transform.
type PixelPerfectOutlineFilter struct {
	Color      Color
	uniforms   map[string]any
	colorF32   [4]float32 // persistent buffer to avoid per-frame slice escape
	colorSlice []float32  // persistent slice header pointing into colorF32
	shaderOp   ebiten.DrawRectShaderOptions
}

// NewPixelPerfectOutlineFilter creates a pixel-perfect outline filter.
func NewPixelPerfectOutlineFilter(c Color) *PixelPerfectOutlineFilter {
	f := &PixelPerfectOutlineFilter{
		Color:    c,
		uniforms: make(map[string]any, 1),
	}
	f.colorSlice = f.colorF32[:]
	f.uniforms["OutlineColor"] = f.colorSlice
	return f
}

// Apply renders a 1-texel outline via a Kage shader testing cardinal neighbors.
func (f *PixelPerfectOutlineFilter) Apply(src, dst *ebiten.Image) {
	shader := ensurePPOutlineShader()
	// Premultiply the outline color for the shader (write in-place, no alloc).
	f.colorF32[0] = float32(f.Color.R * f.Color.A)
	f.colorF32[1] = float32(f.Color.G * f.Color.A)
	f.colorF32[2] = float32(f.Color.B * f.Color.A)
	f.colorF32[3] = float32(f.Color.A)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 1; the outline extends 1 texel beyond the source bounds.
func (f *PixelPerfectOutlineFilter) Padding() int { return 1 }

// Stage returns StagePre.
func (f *PixelPerfectOutlineFilter) Stage() Stage { return StagePre }

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix transformation using a Kage
// shader. The matrix is stored in row-major order: [R_r, R_g, R_b, R_a,
// R_offset, G_r, ...]. The stage is chosen at construction: pre-transform
// to tint individual shapes, post-transform to grade the whole frame.
type ColorMatrixFilter struct {
	Matrix      [20]float64
	stage       Stage
	uniforms    map[string]any
	matrixF32   [20]float32 // persistent buffer to avoid per-frame slice escape
	matrixSlice []float32   // persistent slice header pointing into matrixF32
	shaderOp    ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter initialized to the
// identity, bound to the given stage.
func NewColorMatrixFilter(stage Stage) *ColorMatrixFilter {
	f := &ColorMatrixFilter{
		stage:    stage,
		uniforms: make(map[string]any, 1),
	}
	f.matrixSlice = f.matrixF32[:]
	f.uniforms["Matrix"] = f.matrixSlice
	// Identity matrix: diagonal = 1
	f.Matrix[0] = 1  // R_r
	f.Matrix[6] = 1  // G_g
	f.Matrix[12] = 1 // B_b
	f.Matrix[18] = 1 // A_a
	return f
}

// SetBrightness sets the matrix to adjust brightness by the given offset [-1, 1].
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// SetContrast sets the matrix to adjust contrast. c=1 is normal, 0=gray, >1 is higher.
func (f *ColorMatrixFilter) SetContrast(c float64) {
	t := (1.0 - c) / 2.0
	f.Matrix = [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureColorMatrixShader()
	// Convert [20]float64 to [20]float32 in-place (no allocation —
	// matrixSlice already points into matrixF32 and is pre-stored in the
	// uniforms map).
	for i, v := range f.Matrix {
		f.matrixF32[i] = float32(v)
	}
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; color matrix transforms don't expand the image bounds.
func (f *ColorMatrixFilter) Padding() int { return 0 }

// Stage returns the stage chosen at construction.
func (f *ColorMatrixFilter) Stage() Stage { return f.stage }

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale
// passes. No Kage shader needed — bilinear filtering during DrawImage does
// the work. Post-transform: blur radius is in screen pixels.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	if f.Radius <= 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.ColorScale.Reset()
		f.imgOp.Filter = ebiten.FilterNearest
		dst.DrawImage(src, &f.imgOp)
		return
	}

	// Number of iterations: log2(radius), minimum 1.
	passes := int(math.Ceil(math.Log2(float64(f.Radius))))
	if passes < 1 {
		passes = 1
	}

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	// The downscale chain is reused on the way back up.
	needed := passes
	for len(f.temps) < needed {
		f.temps = append(f.temps, nil)
	}
	// Deallocate excess temp images from a previous larger radius.
	for i := needed; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:needed]

	op := &f.imgOp

	// Downscale passes: each half-size
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		op.GeoM.Scale(float64(w)/sw, float64(h)/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}

	// Upscale passes: draw each back up
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		tw := float64(f.temps[i].Bounds().Dx())
		th := float64(f.temps[i].Bounds().Dy())
		op.GeoM.Scale(tw/sw, th/sh)
		op.Filter = ebiten.FilterLinear
		f.temps[i].DrawImage(current, op)
		current = f.temps[i]
	}

	// Final upscale to dst.
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw := float64(current.Bounds().Dx())
	sh := float64(current.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(current, op)
}

// Padding returns the blur radius; the offscreen buffer is expanded to avoid clipping.
func (f *BlurFilter) Padding() int { return f.Radius }

// Stage returns StagePost.
func (f *BlurFilter) Stage() Stage { return StagePost }

// --- VignetteFilter ---

// VignetteFilter darkens the frame toward its edges via a Kage shader.
// Post-transform: the falloff is in screen space and does not move with
// the camera.
type VignetteFilter struct {
	// Strength is the maximum darkening at the corners, in [0, 1].
	Strength float64
	// Softness is the width of the falloff band, in [0, 1].
	Softness float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewVignetteFilter creates a vignette with the given strength and softness.
func NewVignetteFilter(strength, softness float64) *VignetteFilter {
	return &VignetteFilter{
		Strength: strength,
		Softness: softness,
		uniforms: make(map[string]any, 2),
	}
}

// Apply darkens src toward the edges into dst.
func (f *VignetteFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureVignetteShader()
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	f.uniforms["Strength"] = float32(f.Strength)
	f.uniforms["Softness"] = float32(f.Softness)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; a vignette doesn't expand the image bounds.
func (f *VignetteFilter) Padding() int { return 0 }

// Stage returns StagePost.
func (f *VignetteFilter) Stage() Stage { return StagePost }
