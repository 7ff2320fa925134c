package pixeloid

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// StatsOverlay draws FPS, zoom, and cache counters in the top-left screen
// corner. The text is re-rendered every ~0.5 seconds; between refreshes the
// cached image is drawn as-is.
type StatsOverlay struct {
	engine *Engine
	img    *ebiten.Image
	since  float64
	imgOp  ebiten.DrawImageOptions
}

// NewStatsOverlay creates an overlay for the given engine.
func NewStatsOverlay(engine *Engine) *StatsOverlay {
	// 160x48 fits "FPS: 60.0 TPS: 60.0" plus two stat lines.
	return &StatsOverlay{
		engine: engine,
		img:    ebiten.NewImage(160, 48),
	}
}

// Update advances the refresh timer. Call once per tick.
func (o *StatsOverlay) Update(dt float64) {
	o.since += dt
	if o.since < 0.5 {
		return
	}
	o.since = 0

	o.img.Clear()
	// Semi-transparent background for readability.
	o.img.Fill(color.RGBA{0, 0, 0, 128})

	cam := o.engine.CameraState()
	cs := o.engine.Cache().Stats()
	ebitenutil.DebugPrint(o.img, fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\nzoom: %dx  cached: %d\nhits: %d  misses: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		cam.Zoom, o.engine.Cache().Len(),
		cs.Hits, cs.Misses,
	))
}

// Draw blits the overlay onto screen. Call after Engine.Draw so the text
// sits above the composited frame.
func (o *StatsOverlay) Draw(screen *ebiten.Image) {
	o.imgOp.GeoM.Reset()
	screen.DrawImage(o.img, &o.imgOp)
}

// Dispose frees the overlay's backing image.
func (o *StatsOverlay) Dispose() {
	o.img.Deallocate()
}
