package renderer

import (
	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/pipeline"
)

// PresentMode controls how window mode frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank. This is the default for window mode.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

// RendererBackend performs the GPU side of a render. The Renderer computes everything
// on the CPU side and drives the backend through one frame.
type RendererBackend interface {
	// RegisterPipeline compiles the pipeline's shaders and creates the GPU pipeline.
	// A shader that fails to compile panics with *shader.CompileError.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: *GPUError if layout or pipeline creation fails
	RegisterPipeline(p pipeline.Pipeline) error

	// UploadMesh replaces the vertex buffers with new positions and normals.
	//
	// Parameters:
	//   - positions: tightly packed vec3<f32> positions
	//   - normals: tightly packed vec3<f32> normals, same count
	//   - vertexCount: number of vertices
	//
	// Returns:
	//   - error: *GPUError if a buffer could not be allocated
	UploadMesh(positions, normals []byte, vertexCount int) error

	// WriteUniforms uploads the uniform block.
	//
	// Parameters:
	//   - data: the marshalled GPUUniforms
	//
	// Returns:
	//   - error: *GPUError if the uniform buffer could not be allocated
	WriteUniforms(data []byte) error

	// Draw clears the offscreen target to bg and draws the uploaded mesh.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - bg: the clear color
	//
	// Returns:
	//   - error: *GPUError if encoding or submission fails
	Draw(p pipeline.Pipeline, bg common.Color) error

	// Readback copies the color target to host memory.
	//
	// Returns:
	//   - []byte: rows padded to the returned stride
	//   - int: the padded row stride in bytes
	//   - error: *GPUError if the copy or mapping fails
	Readback() ([]byte, int, error)

	// Blit draws the offscreen target onto the context's window surface and presents it.
	//
	// Parameters:
	//   - mode: present mode used when the surface is first configured
	//
	// Returns:
	//   - error: *GPUError if the context has no surface or the frame cannot be acquired
	Blit(mode PresentMode) error

	// Release frees every GPU object owned by the backend.
	Release()
}

// backendFactory creates a backend for a render of the given size.
type backendFactory func(r *renderer) (RendererBackend, error)

func newBackend(r *renderer) (RendererBackend, error) {
	return newWGPURendererBackend(r.ctx, r.width, r.height)
}

// rowStride returns the tightly packed and the copy-aligned row sizes for a width.
func rowStride(width int) (packed, padded int) {
	packed = width * common.BytesPerPixel
	return packed, int(common.AlignUp(uint32(packed), copyRowAlignment))
}

// copyRowAlignment is the bytes-per-row alignment WebGPU requires for texture to buffer copies.
const copyRowAlignment = 256
