package pixeloid

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestFilterStages(t *testing.T) {
	cases := []struct {
		name string
		f    Filter
		want Stage
	}{
		{"outline", NewOutlineFilter(2, ColorWhite), StagePre},
		{"pixel-perfect outline", NewPixelPerfectOutlineFilter(ColorWhite), StagePre},
		{"color matrix pre", NewColorMatrixFilter(StagePre), StagePre},
		{"color matrix post", NewColorMatrixFilter(StagePost), StagePost},
		{"blur", NewBlurFilter(4), StagePost},
		{"vignette", NewVignetteFilter(0.5, 0.3), StagePost},
	}
	for _, tc := range cases {
		if tc.f.Stage() != tc.want {
			t.Errorf("%s: stage = %d, want %d", tc.name, tc.f.Stage(), tc.want)
		}
	}
}

func TestFilterPadding(t *testing.T) {
	if p := NewOutlineFilter(3, ColorWhite).Padding(); p != 3 {
		t.Errorf("outline padding = %d, want 3", p)
	}
	if p := NewPixelPerfectOutlineFilter(ColorWhite).Padding(); p != 1 {
		t.Errorf("pixel-perfect outline padding = %d, want 1", p)
	}
	if p := NewColorMatrixFilter(StagePre).Padding(); p != 0 {
		t.Errorf("color matrix padding = %d, want 0", p)
	}
	if p := NewBlurFilter(8).Padding(); p != 8 {
		t.Errorf("blur padding = %d, want 8", p)
	}
}

func TestPipelineRoutesByStage(t *testing.T) {
	var p FilterPipeline
	pre := NewOutlineFilter(1, ColorWhite)
	post := NewVignetteFilter(0.5, 0.2)
	p.Add(pre)
	p.Add(post)

	if len(p.pre) != 1 || p.pre[0] != Filter(pre) {
		t.Error("pre-stage filter landed in the wrong chain")
	}
	if len(p.post) != 1 || p.post[0] != Filter(post) {
		t.Error("post-stage filter landed in the wrong chain")
	}
}

func TestPipelineRemove(t *testing.T) {
	var p FilterPipeline
	a := NewOutlineFilter(1, ColorWhite)
	b := NewOutlineFilter(2, ColorWhite)
	p.Add(a)
	p.Add(b)

	p.Remove(a)
	if len(p.pre) != 1 || p.pre[0] != Filter(b) {
		t.Error("Remove should delete only the given filter")
	}
	p.Remove(a) // already gone: no-op
	if len(p.pre) != 1 {
		t.Error("removing a missing filter must be a no-op")
	}
}

func TestPipelinePrePadding(t *testing.T) {
	var p FilterPipeline
	p.Add(NewOutlineFilter(2, ColorWhite))
	p.Add(NewPixelPerfectOutlineFilter(ColorWhite))
	p.Add(NewVignetteFilter(1, 1)) // post: must not count
	if got := p.PrePadding(); got != 3 {
		t.Errorf("PrePadding = %d, want 3", got)
	}
}

func TestApplyChainEmptyReturnsSource(t *testing.T) {
	var pool renderTexturePool
	defer pool.Drain()
	src := ebiten.NewImage(16, 16)

	if got := applyChain(nil, src, &pool); got != src {
		t.Error("empty chain should return src unchanged")
	}
}

func TestApplyChainReturnsPooledResult(t *testing.T) {
	var pool renderTexturePool
	defer pool.Drain()
	src := ebiten.NewImage(16, 16)

	chain := []Filter{NewOutlineFilter(1, ColorWhite)}
	got := applyChain(chain, src, &pool)
	if got == src {
		t.Error("a non-empty chain should produce a new image")
	}
	pool.Release(got)
}

func TestApplyChainTwoFiltersEndsOnSource(t *testing.T) {
	// Two ping-pong hops land the result back in src; the scratch image
	// must be returned to the pool, not leaked.
	var pool renderTexturePool
	defer pool.Drain()
	src := ebiten.NewImage(16, 16)

	chain := []Filter{
		NewOutlineFilter(1, ColorWhite),
		NewOutlineFilter(1, ColorWhite),
	}
	got := applyChain(chain, src, &pool)
	if got != src {
		t.Error("an even-length chain should end back on src")
	}
}

func TestColorMatrixIdentityDefault(t *testing.T) {
	f := NewColorMatrixFilter(StagePre)
	for i, v := range f.Matrix {
		want := 0.0
		if i == 0 || i == 6 || i == 12 || i == 18 {
			want = 1
		}
		if v != want {
			t.Errorf("Matrix[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestColorMatrixSetters(t *testing.T) {
	f := NewColorMatrixFilter(StagePost)

	f.SetBrightness(0.25)
	if f.Matrix[4] != 0.25 || f.Matrix[9] != 0.25 || f.Matrix[14] != 0.25 {
		t.Error("brightness should write the RGB offset column")
	}
	if f.Matrix[19] != 0 {
		t.Error("brightness must leave alpha alone")
	}

	f.SetContrast(2)
	if f.Matrix[0] != 2 || f.Matrix[4] != -0.5 {
		t.Errorf("contrast matrix wrong: scale %v offset %v", f.Matrix[0], f.Matrix[4])
	}

	f.SetSaturation(0)
	// Full desaturation: every RGB row holds the luma weights.
	if !approxEqual(f.Matrix[0], 0.299, 1e-9) || !approxEqual(f.Matrix[1], 0.587, 1e-9) || !approxEqual(f.Matrix[2], 0.114, 1e-9) {
		t.Errorf("saturation row = %v %v %v", f.Matrix[0], f.Matrix[1], f.Matrix[2])
	}
}

func TestBlurRadiusClamped(t *testing.T) {
	if f := NewBlurFilter(-5); f.Radius != 0 {
		t.Errorf("Radius = %d, want 0", f.Radius)
	}
}
