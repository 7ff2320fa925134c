// Package pixeloid is the camera-viewport rendering core of a 2D geometry
// editor for [Ebitengine].
//
// Shapes live on an infinite integer grid ("pixeloid" space) in world
// coordinates. The engine renders each shape exactly once into a scale-1
// texture, then composites those textures under an integer camera zoom, so
// texture memory stays proportional to the shapes themselves rather than to
// the zoom level.
//
// The package is organized around a handful of cooperating pieces:
//
//   - [ObjectStore]: the fixed-scale data layer holding [Object] values and
//     answering window queries.
//   - [TextureCache]: one scale-1 texture per object, with version-checked
//     re-rendering and distance-based eviction.
//   - [MirrorLayer]: composites cached textures under the camera transform.
//   - [FilterPipeline]: visual effects staged before or after the camera
//     transform.
//   - [CameraState] and the routing functions in input.go: which position
//     field navigation moves depends only on the zoom factor.
//
// The simplest way to use it is through [Engine], which wires everything
// together behind an [ebiten.Game]-shaped Update/Draw pair:
//
//	eng := pixeloid.NewEngine(640, 480)
//	// ... add objects ...
//
//	type Game struct{ eng *pixeloid.Engine }
//
//	func (g *Game) Update() error              { return g.eng.Update() }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.eng.Draw(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { return 640, 480 }
//
// [Ebitengine]: https://ebitengine.org
package pixeloid
