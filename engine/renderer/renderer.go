package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/camera"
	"github.com/Carmen-Shannon/stl-thumb/engine/device"
	"github.com/Carmen-Shannon/stl-thumb/engine/light"
	"github.com/Carmen-Shannon/stl-thumb/engine/mesh"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/pipeline"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

// mirrorY flips clip space vertically. Rows then land in the target bottom-up, which is
// the order GL-style readback produces and what the final vertical flip expects.
var mirrorY = mgl32.Scale3D(1, -1, 1)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	ctx     device.Context
	backend RendererBackend
	factory backendFactory

	width, height int
	light         light.Light
	presentMode   PresentMode
	logger        *log.Logger

	model    pipeline.Pipeline
	prepared bool
	hasFrame bool
}

// Renderer draws a normalized mesh into an offscreen framebuffer and reads it back.
// It is bound to one context and one output size.
type Renderer interface {
	// Render draws the mesh once and returns the pixels, top row first.
	//
	// Parameters:
	//   - m: the mesh, with its normalizing transform
	//   - cam: the camera providing view and projection
	//   - mat: the surface colors
	//   - bg: the clear color
	//
	// Returns:
	//   - *common.PixelBuffer: exactly Width×Height×4 bytes of RGBA
	//   - error: *GPUError on allocation, submission or readback failure
	Render(m mesh.Mesh, cam camera.Camera, mat material.Material, bg common.Color) (*common.PixelBuffer, error)

	// RenderTarget draws the mesh into the offscreen framebuffer and keeps it there for Blit.
	//
	// Parameters:
	//   - m: the mesh
	//   - cam: the camera
	//   - mat: the surface colors
	//   - bg: the clear color
	//
	// Returns:
	//   - error: *GPUError on failure
	RenderTarget(m mesh.Mesh, cam camera.Camera, mat material.Material, bg common.Color) error

	// Blit presents the cached framebuffer on the context's window surface without re-rendering.
	//
	// Returns:
	//   - error: error if nothing was rendered yet or the surface is unavailable
	Blit() error

	// Width returns the output width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the output height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int

	// Release frees the GPU objects of this renderer. The context is left alone.
	Release()
}

var _ Renderer = &renderer{}

// ErrNoFrame is returned by Blit before anything was rendered.
var ErrNoFrame = errors.New("no frame rendered yet")

// NewRenderer creates a Renderer on the given context. The output size comes from
// WithSize, or from the context's window when there is one.
//
// Parameters:
//   - ctx: a live rendering context
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
//   - error: error if the size is unknown or the backend cannot be created
func NewRenderer(ctx device.Context, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		ctx:         ctx,
		factory:     newBackend,
		light:       light.NewLight(),
		presentMode: PresentModeVSync,
		logger:      common.Logger(),
	}
	for _, opt := range options {
		opt(r)
	}

	if (r.width <= 0 || r.height <= 0) && ctx != nil && ctx.Window() != nil {
		r.width, r.height = ctx.Window().Width(), ctx.Window().Height()
	}
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("renderer size must be positive, got %dx%d", r.width, r.height)
	}

	backend, err := r.factory(r)
	if err != nil {
		return nil, err
	}
	r.backend = backend
	r.model = pipeline.NewModelPipeline()
	return r, nil
}

func (r *renderer) Width() int {
	return r.width
}

func (r *renderer) Height() int {
	return r.height
}

func (r *renderer) Render(m mesh.Mesh, cam camera.Camera, mat material.Material, bg common.Color) (*common.PixelBuffer, error) {
	if err := r.RenderTarget(m, cam, mat, bg); err != nil {
		return nil, err
	}

	raw, stride, err := r.backend.Readback()
	if err != nil {
		return nil, err
	}
	pb, err := common.UnpackRows(raw, r.width, r.height, stride)
	if err != nil {
		return nil, gpuErr("readback", err)
	}
	pb.FlipVertical()
	return pb, nil
}

func (r *renderer) RenderTarget(m mesh.Mesh, cam camera.Camera, mat material.Material, bg common.Color) error {
	if m == nil || m.VertexCount() == 0 {
		return fmt.Errorf("render: %w", mesh.ErrEmptyMesh)
	}
	if cam == nil || mat == nil {
		return errors.New("render: camera and material are required")
	}

	if !r.prepared {
		if err := r.backend.RegisterPipeline(r.model); err != nil {
			return err
		}
		r.prepared = true
	}

	if err := r.backend.UploadMesh(
		common.SliceToBytes(m.Vertices()),
		common.SliceToBytes(m.Normals()),
		m.VertexCount(),
	); err != nil {
		return err
	}

	uniforms := BuildUniforms(m, cam, r.light, mat)
	if err := r.backend.WriteUniforms(uniforms.Marshal()); err != nil {
		return err
	}

	if err := r.backend.Draw(r.model, bg); err != nil {
		return err
	}
	r.hasFrame = true

	r.logger.Debug("mesh drawn", "triangles", m.TriangleCount(), "width", r.width, "height", r.height)
	return nil
}

func (r *renderer) Blit() error {
	if !r.hasFrame {
		return ErrNoFrame
	}
	return r.backend.Blit(r.presentMode)
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
	r.model.Release()
}

// BuildUniforms computes the shader uniforms for one draw.
//
// Parameters:
//   - m: the mesh whose transform maps it into the canonical cube
//   - cam: the camera
//   - l: the view space light
//   - mat: the material
//
// Returns:
//   - GPUUniforms: the uniform block
func BuildUniforms(m mesh.Mesh, cam camera.Camera, l light.Light, mat material.Material) GPUUniforms {
	modelView := cam.ViewMatrix().Mul4(m.Transform())
	return GPUUniforms{
		ModelView:  modelView,
		Projection: mirrorY.Mul4(cam.ProjectionMatrix()),
		Normal:     modelView.Inv().Transpose(),
		Light:      l.GPUDirection(),
		Material:   mat.GPUParams(),
	}
}
