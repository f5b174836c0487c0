package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMesh is returned when a mesh has no vertices.
	ErrEmptyMesh = errors.New("mesh has no vertices")
	// ErrLengthMismatch is returned when vertex and normal counts differ.
	ErrLengthMismatch = errors.New("vertex and normal counts differ")
	// ErrIncompleteTriangle is returned when the vertex count is not a multiple of three.
	ErrIncompleteTriangle = errors.New("vertex count is not a multiple of three")
	// ErrNonFinite is returned when a vertex coordinate or normal is NaN or infinite.
	ErrNonFinite = errors.New("vertex coordinate or normal is not finite")
)

// MeshError is the typed failure for unusable mesh input: a file that cannot be read or
// parsed, or geometry that cannot be normalized.
type MeshError struct {
	// Path is the source file, empty for in-memory geometry.
	Path string
	// Err is one of the Err* sentinels or the underlying read/parse error.
	Err error
}

func (e *MeshError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("mesh: %v", e.Err)
	}
	return fmt.Sprintf("mesh %s: %v", e.Path, e.Err)
}

func (e *MeshError) Unwrap() error {
	return e.Err
}
