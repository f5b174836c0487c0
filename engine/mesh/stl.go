package mesh

import (
	"io"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hschendel/stl"
)

// minNormalLength is the shortest stored facet normal treated as meaningful.
const minNormalLength = 1e-6

// fallbackNormal is used for zero-area facets whose normal cannot be derived.
var fallbackNormal = mgl32.Vec3{0, 0, 1}

type loadOptions struct {
	recalcNormals bool
}

// LoadOption configures how an STL solid is converted into a Mesh.
type LoadOption func(*loadOptions)

// WithRecalcNormals ignores the facet normals stored in the file and derives them
// from each triangle's vertex winding instead.
//
// Parameters:
//   - recalc: true to always recompute normals
//
// Returns:
//   - LoadOption: option function to apply
func WithRecalcNormals(recalc bool) LoadOption {
	return func(o *loadOptions) {
		o.recalcNormals = recalc
	}
}

// Load reads a binary or ASCII STL file and builds a Mesh from it.
//
// Parameters:
//   - path: path to the STL file
//   - options: conversion options
//
// Returns:
//   - Mesh: the loaded mesh
//   - error: a *MeshError wrapping the read error or a geometry sentinel
func Load(path string, options ...LoadOption) (Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, &MeshError{Path: path, Err: err}
	}
	m, err := FromSolid(solid, options...)
	if err != nil {
		if merr, ok := err.(*MeshError); ok {
			merr.Path = path
		}
		return nil, err
	}
	common.LogDebug("loaded %s: %d triangles, bounds %v..%v", path, m.TriangleCount(), m.Bounds().Min, m.Bounds().Max)
	return m, nil
}

// Read parses STL data from r and builds a Mesh from it.
//
// Parameters:
//   - r: a seekable reader over binary or ASCII STL data
//   - options: conversion options
//
// Returns:
//   - Mesh: the parsed mesh
//   - error: a *MeshError wrapping the parse error or a geometry sentinel
func Read(r io.ReadSeeker, options ...LoadOption) (Mesh, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, &MeshError{Err: err}
	}
	return FromSolid(solid, options...)
}

// FromSolid expands a parsed STL solid into per-vertex triangle soup.
// Each facet normal is copied to the facet's three vertices. A missing (zero length)
// normal is derived from the vertex winding.
//
// Parameters:
//   - solid: the parsed STL solid
//   - options: conversion options
//
// Returns:
//   - Mesh: the mesh
//   - error: a *MeshError if the solid has no usable geometry
func FromSolid(solid *stl.Solid, options ...LoadOption) (Mesh, error) {
	opts := &loadOptions{}
	for _, opt := range options {
		opt(opts)
	}
	if solid == nil {
		return nil, &MeshError{Err: ErrEmptyMesh}
	}

	vertices := make([]mgl32.Vec3, 0, len(solid.Triangles)*3)
	normals := make([]mgl32.Vec3, 0, len(solid.Triangles)*3)
	recomputed := 0
	for _, tri := range solid.Triangles {
		a := mgl32.Vec3(tri.Vertices[0])
		b := mgl32.Vec3(tri.Vertices[1])
		c := mgl32.Vec3(tri.Vertices[2])

		n := mgl32.Vec3(tri.Normal)
		if opts.recalcNormals || n.Len() < minNormalLength {
			n = FacetNormal(a, b, c)
			recomputed++
		} else {
			n = n.Normalize()
		}
		vertices = append(vertices, a, b, c)
		normals = append(normals, n, n, n)
	}
	if recomputed > 0 && !opts.recalcNormals {
		common.LogDebug("derived %d missing facet normals from winding", recomputed)
	}
	return NewMesh(vertices, normals)
}

// FacetNormal returns the unit normal of the counter-clockwise triangle (a, b, c),
// or +Z when the triangle has no area.
func FacetNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return fallbackNormal
	}
	return n.Normalize()
}
