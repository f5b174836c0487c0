package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CanonicalSize is the length the longest side of a mesh is scaled to.
// A normalized mesh fits inside the cube [-1, 1] on every axis.
const CanonicalSize = 2.0

// minScalable is the smallest normal float32. Shorter sides would overflow the
// scale factor or lose the box center to denormal rounding.
const minScalable = 0x1p-126

// NormalizeTransform derives the model matrix that centers a box on the origin
// and uniformly scales it so its longest side measures CanonicalSize.
// T = Scale(s) * Translate(-center), s = CanonicalSize / longest.
// A box whose longest side is zero (a single point) or shorter than minScalable gets s = 1.
//
// Parameters:
//   - b: the bounding box of the mesh
//
// Returns:
//   - mgl32.Mat4: the model transform
func NormalizeTransform(b BoundingBox) mgl32.Mat4 {
	if b.IsEmpty() {
		return mgl32.Ident4()
	}
	scale := float32(1)
	e := b.extent64()
	longest := max(e[0], e[1], e[2])
	if longest >= minScalable {
		scale = float32(CanonicalSize / longest)
	}
	center := b.Center()
	translate := mgl32.Translate3D(-center.X(), -center.Y(), -center.Z())
	return mgl32.Scale3D(scale, scale, scale).Mul4(translate)
}
