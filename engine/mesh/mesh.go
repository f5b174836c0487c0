// Package mesh turns STL triangle soup into an immutable, normalized Mesh.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	vertices  []mgl32.Vec3
	normals   []mgl32.Vec3
	bounds    BoundingBox
	transform mgl32.Mat4
}

// Mesh is an index-free triangle list: every three consecutive vertices form one
// triangle, and each vertex carries its own normal. A Mesh is immutable.
type Mesh interface {
	// Vertices returns the vertex positions. The slice must not be modified.
	//
	// Returns:
	//   - []mgl32.Vec3: positions, three per triangle
	Vertices() []mgl32.Vec3

	// Normals returns the per-vertex normals, parallel to Vertices. The slice must not be modified.
	//
	// Returns:
	//   - []mgl32.Vec3: normals, three per triangle
	Normals() []mgl32.Vec3

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: len(Vertices())
	VertexCount() int

	// TriangleCount returns the number of triangles.
	//
	// Returns:
	//   - int: VertexCount() / 3
	TriangleCount() int

	// Bounds returns the axis-aligned bounding box of all vertices.
	//
	// Returns:
	//   - BoundingBox: the box computed at construction
	Bounds() BoundingBox

	// Transform returns the model matrix that centers the mesh and scales its longest side to CanonicalSize.
	//
	// Returns:
	//   - mgl32.Mat4: the normalizing model transform
	Transform() mgl32.Mat4
}

var _ Mesh = &mesh{}

// NewMesh validates triangle soup and builds a Mesh from copies of the given slices.
//
// Parameters:
//   - vertices: positions, three consecutive entries per triangle
//   - normals: per-vertex normals, same length as vertices
//
// Returns:
//   - Mesh: the immutable mesh with its bounds and transform computed
//   - error: a *MeshError wrapping ErrEmptyMesh, ErrLengthMismatch, ErrIncompleteTriangle or ErrNonFinite
func NewMesh(vertices, normals []mgl32.Vec3) (Mesh, error) {
	if len(vertices) == 0 {
		return nil, &MeshError{Err: ErrEmptyMesh}
	}
	if len(vertices) != len(normals) {
		return nil, &MeshError{Err: ErrLengthMismatch}
	}
	if len(vertices)%3 != 0 {
		return nil, &MeshError{Err: ErrIncompleteTriangle}
	}
	for i := range vertices {
		if !finite(vertices[i]) || !finite(normals[i]) {
			return nil, &MeshError{Err: ErrNonFinite}
		}
	}

	m := &mesh{
		vertices: append([]mgl32.Vec3(nil), vertices...),
		normals:  append([]mgl32.Vec3(nil), normals...),
	}
	m.bounds = BoundsOf(m.vertices)
	m.transform = NormalizeTransform(m.bounds)
	return m, nil
}

func (m *mesh) Vertices() []mgl32.Vec3 {
	return m.vertices
}

func (m *mesh) Normals() []mgl32.Vec3 {
	return m.normals
}

func (m *mesh) VertexCount() int {
	return len(m.vertices)
}

func (m *mesh) TriangleCount() int {
	return len(m.vertices) / 3
}

func (m *mesh) Bounds() BoundingBox {
	return m.bounds
}

func (m *mesh) Transform() mgl32.Mat4 {
	return m.transform
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
