package pipeline

import (
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// OffscreenColorFormat is the format of the offscreen color target.
	OffscreenColorFormat = wgpu.TextureFormatRGBA8Unorm

	// OffscreenDepthFormat is the format of the depth attachment of depth tested pipelines.
	OffscreenDepthFormat = wgpu.TextureFormatDepth24Plus
)

// pipeline is the implementation of the Pipeline interface.
// It carries the fixed-function state of one render pipeline alongside its program.
type pipeline struct {
	pipelineKey string
	program     shader.Program

	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	colorFormat       wgpu.TextureFormat
	cullMode          wgpu.CullMode
	frontFace         wgpu.FrontFace
}

// Pipeline describes a render pipeline before and after it is created on a device.
type Pipeline interface {
	// PipelineKey returns the label used for GPU objects of this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Program returns the vertex and fragment shaders.
	//
	// Returns:
	//   - shader.Program: the shader pair
	Program() shader.Program

	// DepthTestEnabled reports whether fragments are depth tested against a depth attachment.
	//
	// Returns:
	//   - bool: true when a depth attachment is part of the pipeline
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether passing fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writes are enabled
	DepthWriteEnabled() bool

	// ColorFormat returns the format of the single color target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color format
	ColorFormat() wgpu.TextureFormat

	// CullMode returns which faces are discarded.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// FrontFace returns the winding treated as front facing.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding
	FrontFace() wgpu.FrontFace

	// Describe assembles the descriptor used to create the GPU pipeline.
	//
	// Parameters:
	//   - layout: the pipeline layout holding the bind group layouts
	//   - vs: the compiled vertex module
	//   - fs: the compiled fragment module
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Describe(layout *wgpu.PipelineLayout, vs, fs *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor

	// RenderPipeline returns the created GPU pipeline, or nil before SetRenderPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - p: the GPU pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU pipeline, if one was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description with the given program.
// Defaults are a depth tested triangle list with counter-clockwise front faces,
// no culling and an RGBA8 color target.
//
// Parameters:
//   - pipelineKey: label for GPU objects
//   - program: the shaders to run
//   - opts: functional options
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(pipelineKey string, program shader.Program, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		program:           program,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		colorFormat:       OffscreenColorFormat,
		cullMode:          wgpu.CullModeNone,
		frontFace:         wgpu.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewModelPipeline returns the pipeline that shades the mesh. Geometry is drawn with a
// Y-mirrored projection so the readback comes out bottom-up; the mirror reverses screen
// winding, so clockwise is front facing here and back faces are culled.
//
// Parameters:
//   - opts: options applied after the model defaults
//
// Returns:
//   - Pipeline: the model pipeline description
func NewModelPipeline(opts ...PipelineBuilderOption) Pipeline {
	base := []PipelineBuilderOption{
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithDepthTestEnabled(true),
		WithDepthWriteEnabled(true),
	}
	return NewPipeline(shader.KeyModel, shader.ModelProgram(), append(base, opts...)...)
}

// NewBlitPipeline returns the full-screen copy pipeline for a surface of the given format.
//
// Parameters:
//   - surfaceFormat: the window surface format
//
// Returns:
//   - Pipeline: the blit pipeline description
func NewBlitPipeline(surfaceFormat wgpu.TextureFormat) Pipeline {
	return NewPipeline(shader.KeyBlit, shader.BlitProgram(),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithColorFormat(surfaceFormat),
	)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Program() shader.Program {
	return p.program
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) Describe(layout *wgpu.PipelineLayout, vs, fs *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.program.Vertex.EntryPoint(),
			Buffers:    p.program.Vertex.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.program.Fragment.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    p.colorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if p.depthTestEnabled {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            OffscreenDepthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	return desc
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
