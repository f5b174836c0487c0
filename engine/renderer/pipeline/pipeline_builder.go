package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption is a functional option for configuring a pipeline.
type PipelineBuilderOption func(*pipeline)

// WithDepthTestEnabled adds or removes the depth attachment from the pipeline.
//
// Parameters:
//   - enabled: true to depth test with CompareFunctionLess
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether passing fragments write depth.
//
// Parameters:
//   - enabled: true to write depth
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithColorFormat sets the color target format.
//
// Parameters:
//   - format: the render target or surface format
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithCullMode sets which faces are discarded.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the winding treated as front facing.
//
// Parameters:
//   - frontFace: the front face winding
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}
