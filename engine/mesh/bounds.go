package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box given by its minimum and maximum corners.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBoundingBox returns an inverted box that any Extend call will replace.
func EmptyBoundingBox() BoundingBox {
	inf := float32(math.Inf(1))
	return BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// BoundsOf computes the bounding box of a set of points.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - BoundingBox: the tightest enclosing box, or an empty box when points is empty
func BoundsOf(points []mgl32.Vec3) BoundingBox {
	b := EmptyBoundingBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the box grown to include p.
func (b BoundingBox) Extend(p mgl32.Vec3) BoundingBox {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// IsEmpty reports whether the box encloses no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the midpoint of the box. Computed in float64 so that
// opposite extreme coordinates do not overflow.
func (b BoundingBox) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	for i := range 3 {
		c[i] = float32((float64(b.Min[i]) + float64(b.Max[i])) / 2)
	}
	return c
}

// Extent returns the size of the box along each axis.
func (b BoundingBox) Extent() mgl32.Vec3 {
	e := b.extent64()
	return mgl32.Vec3{float32(e[0]), float32(e[1]), float32(e[2])}
}

// Longest returns the largest of the three extents.
func (b BoundingBox) Longest() float32 {
	e := b.extent64()
	return float32(max(e[0], e[1], e[2]))
}

func (b BoundingBox) extent64() [3]float64 {
	var e [3]float64
	if b.IsEmpty() {
		return e
	}
	for i := range 3 {
		e[i] = float64(b.Max[i]) - float64(b.Min[i])
	}
	return e
}
