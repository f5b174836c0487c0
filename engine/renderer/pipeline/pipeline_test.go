package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelPipelineDescriptor(t *testing.T) {
	p := NewModelPipeline()
	desc := p.Describe(nil, nil, nil)

	assert.Equal(t, "model Render Pipeline", desc.Label)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Len(t, desc.Vertex.Buffers, 2)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, uint32(1), desc.Multisample.Count)

	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, OffscreenColorFormat, desc.Fragment.Targets[0].Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, desc.Fragment.Targets[0].WriteMask)

	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, OffscreenDepthFormat, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
}

func TestBlitPipelineDescriptor(t *testing.T) {
	p := NewBlitPipeline(wgpu.TextureFormatBGRA8Unorm)
	desc := p.Describe(nil, nil, nil)

	assert.Nil(t, desc.DepthStencil)
	assert.Empty(t, desc.Vertex.Buffers)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
}

func TestOptionsOverrideModelDefaults(t *testing.T) {
	p := NewModelPipeline(WithCullMode(wgpu.CullModeNone), WithColorFormat(wgpu.TextureFormatBGRA8Unorm))

	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, p.ColorFormat())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Nil(t, p.RenderPipeline())
	p.Release()
}

func TestBuilderOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   PipelineBuilderOption
		check func(t *testing.T, p Pipeline, desc *wgpu.RenderPipelineDescriptor)
	}{
		{"depth test off", WithDepthTestEnabled(false), func(t *testing.T, p Pipeline, desc *wgpu.RenderPipelineDescriptor) {
			assert.False(t, p.DepthTestEnabled())
			assert.Nil(t, desc.DepthStencil)
		}},
		{"depth write off", WithDepthWriteEnabled(false), func(t *testing.T, p Pipeline, desc *wgpu.RenderPipelineDescriptor) {
			require.NotNil(t, desc.DepthStencil)
			assert.False(t, desc.DepthStencil.DepthWriteEnabled)
		}},
		{"surface format", WithColorFormat(wgpu.TextureFormatBGRA8UnormSrgb), func(t *testing.T, _ Pipeline, desc *wgpu.RenderPipelineDescriptor) {
			assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, desc.Fragment.Targets[0].Format)
		}},
		{"cull front", WithCullMode(wgpu.CullModeFront), func(t *testing.T, _ Pipeline, desc *wgpu.RenderPipelineDescriptor) {
			assert.Equal(t, wgpu.CullModeFront, desc.Primitive.CullMode)
		}},
		{"clockwise", WithFrontFace(wgpu.FrontFaceCW), func(t *testing.T, _ Pipeline, desc *wgpu.RenderPipelineDescriptor) {
			assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline("test", NewModelPipeline().Program(), tt.opt)
			tt.check(t, p, p.Describe(nil, nil, nil))
		})
	}
}
