package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/device"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxMapPolls bounds how many times the device is polled while waiting for a buffer map.
const maxMapPolls = 1000

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	ctx    device.Context
	device *wgpu.Device
	queue  *wgpu.Queue

	width, height uint32

	layouts        []*wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	uniformBuffer  *wgpu.Buffer
	bindGroup      *wgpu.BindGroup

	positionBuffer *wgpu.Buffer
	normalBuffer   *wgpu.Buffer
	vertexCount    uint32

	colorTexture *wgpu.Texture
	colorView    *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	readback     *wgpu.Buffer
	paddedStride uint32

	// Window mode state, created on the first Blit.
	surfaceFormat wgpu.TextureFormat
	blit          pipeline.Pipeline
	blitLayouts   []*wgpu.BindGroupLayout
	blitLayout    *wgpu.PipelineLayout
	blitSampler   *wgpu.Sampler
	blitBindGroup *wgpu.BindGroup
	surfaceWidth  uint32
	surfaceHeight uint32
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend allocates the framebuffer (color + depth) and the readback
// buffer for a render of the given size. The caller keeps the goroutine on the
// thread that acquired ctx.
func newWGPURendererBackend(ctx device.Context, width, height int) (RendererBackend, error) {
	if ctx == nil || ctx.Device() == nil {
		return nil, &GPUError{Op: "init", Err: errors.New("context has no device")}
	}

	b := &wgpuRendererBackendImpl{
		mu:     &sync.Mutex{},
		ctx:    ctx,
		device: ctx.Device(),
		queue:  ctx.Queue(),
		width:  uint32(width),
		height: uint32(height),
	}
	if err := b.createFramebuffer(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) createFramebuffer() error {
	size := wgpu.Extent3D{
		Width:              b.width,
		Height:             b.height,
		DepthOrArrayLayers: 1,
	}

	var err error
	b.colorTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Thumbnail Color Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.OffscreenColorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return gpuErr("create color texture", err)
	}
	b.colorView, err = b.colorTexture.CreateView(nil)
	if err != nil {
		return gpuErr("create color view", err)
	}

	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Thumbnail Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.OffscreenDepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return gpuErr("create depth texture", err)
	}
	b.depthView, err = b.depthTexture.CreateView(nil)
	if err != nil {
		return gpuErr("create depth view", err)
	}

	_, padded := rowStride(int(b.width))
	b.paddedStride = uint32(padded)
	b.readback, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Thumbnail Readback Buffer",
		Size:  uint64(b.paddedStride) * uint64(b.height),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return gpuErr("create readback buffer", err)
	}
	return nil
}

// mustCompile creates a GPU shader module. A render cannot proceed without its
// shaders, so failure panics with *shader.CompileError.
func (b *wgpuRendererBackendImpl) mustCompile(s shader.Shader) *wgpu.ShaderModule {
	module, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		panic(&shader.CompileError{Key: s.Key(), Stage: s.ShaderType(), Err: err})
	}
	return module
}

// createPipeline compiles both stages, creates the bind group layouts and the GPU pipeline.
func (b *wgpuRendererBackendImpl) createPipeline(p pipeline.Pipeline) ([]*wgpu.BindGroupLayout, *wgpu.PipelineLayout, error) {
	program := p.Program()
	vs := b.mustCompile(program.Vertex)
	defer vs.Release()
	fs := b.mustCompile(program.Fragment)
	defer fs.Release()

	descs := shader.MergeBindGroupLayouts(program.Vertex, program.Fragment)
	layouts := make([]*wgpu.BindGroupLayout, len(descs))
	for g := range descs {
		descs[g].Label = fmt.Sprintf("%s Bind Group Layout %d", p.PipelineKey(), g)
		layout, err := b.device.CreateBindGroupLayout(&descs[g])
		if err != nil {
			releaseLayouts(layouts)
			return nil, nil, gpuErr(fmt.Sprintf("create bind group layout %d", g), err)
		}
		layouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		releaseLayouts(layouts)
		return nil, nil, gpuErr("create pipeline layout", err)
	}

	created, err := b.device.CreateRenderPipeline(p.Describe(pipelineLayout, vs, fs))
	if err != nil {
		pipelineLayout.Release()
		releaseLayouts(layouts)
		return nil, nil, gpuErr("create render pipeline", err)
	}
	p.SetRenderPipeline(created)

	return layouts, pipelineLayout, nil
}

func (b *wgpuRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layouts, pipelineLayout, err := b.createPipeline(p)
	if err != nil {
		return err
	}
	b.layouts = layouts
	b.pipelineLayout = pipelineLayout

	if len(layouts) == 0 {
		return nil
	}

	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.PipelineKey() + " Uniform Buffer",
		Size:  uint64((&GPUUniforms{}).Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return gpuErr("create uniform buffer", err)
	}

	b.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.PipelineKey() + " Bind Group",
		Layout: layouts[0],
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return gpuErr("create bind group", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) UploadMesh(positions, normals []byte, vertexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(positions) == 0 || len(positions) != len(normals) {
		return gpuErr("upload mesh", fmt.Errorf("position and normal data sizes differ: %d vs %d", len(positions), len(normals)))
	}
	releaseBuffer(&b.positionBuffer)
	releaseBuffer(&b.normalBuffer)

	var err error
	if b.positionBuffer, err = b.vertexBuffer("Position", positions); err != nil {
		return err
	}
	if b.normalBuffer, err = b.vertexBuffer("Normal", normals); err != nil {
		return err
	}
	b.vertexCount = uint32(vertexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) vertexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, gpuErr("create "+label+" buffer", err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) WriteUniforms(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uniformBuffer == nil {
		return gpuErr("write uniforms", errors.New("pipeline not registered"))
	}
	b.queue.WriteBuffer(b.uniformBuffer, 0, data)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(p pipeline.Pipeline, bg common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.RenderPipeline() == nil || b.positionBuffer == nil {
		return gpuErr("draw", errors.New("pipeline or mesh missing"))
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return gpuErr("create command encoder", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.colorView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(bg.R), G: float64(bg.G), B: float64(bg.B), A: float64(bg.A),
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(p.RenderPipeline())
	pass.SetBindGroup(0, b.bindGroup, nil)
	pass.SetVertexBuffer(0, b.positionBuffer, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, b.normalBuffer, 0, wgpu.WholeSize)
	pass.Draw(b.vertexCount, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return gpuErr("finish draw", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Readback() ([]byte, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, 0, gpuErr("create command encoder", err)
	}
	defer encoder.Release()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  b.colorTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: b.readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  b.paddedStride,
				RowsPerImage: b.height,
			},
		},
		&wgpu.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
	)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, 0, gpuErr("finish readback", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	size := uint64(b.paddedStride) * uint64(b.height)
	status := make(chan wgpu.BufferMapAsyncStatus, 1)
	if err := b.readback.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status <- s
	}); err != nil {
		return nil, 0, gpuErr("map readback buffer", err)
	}

	var mapped wgpu.BufferMapAsyncStatus
	received := false
	for i := 0; i < maxMapPolls && !received; i++ {
		b.device.Poll(true, nil)
		select {
		case mapped = <-status:
			received = true
		default:
		}
	}
	if !received {
		return nil, 0, gpuErr("map readback buffer", errors.New("timed out waiting for map"))
	}
	if mapped != wgpu.BufferMapAsyncStatusSuccess {
		return nil, 0, gpuErr("map readback buffer", fmt.Errorf("status %v", mapped))
	}

	data := make([]byte, size)
	copy(data, b.readback.GetMappedRange(0, uint(size)))
	b.readback.Unmap()

	return data, int(b.paddedStride), nil
}

// prepareBlit configures the surface to the window size and builds the blit pipeline.
func (b *wgpuRendererBackendImpl) prepareBlit(mode PresentMode) error {
	surface := b.ctx.Surface()
	win := b.ctx.Window()
	if surface == nil || win == nil {
		return gpuErr("blit", errors.New("context has no window surface"))
	}

	width, height := uint32(win.Width()), uint32(win.Height())
	if b.blit != nil && width == b.surfaceWidth && height == b.surfaceHeight {
		return nil
	}

	capabilities := surface.GetCapabilities(b.ctx.Adapter())
	if len(capabilities.Formats) == 0 {
		return gpuErr("configure surface", errors.New("surface reports no formats"))
	}
	b.surfaceFormat = capabilities.Formats[0]

	presentMode := wgpu.PresentModeFifo
	if mode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(capabilities.AlphaModes) > 0 {
		alphaMode = capabilities.AlphaModes[0]
	}
	surface.Configure(b.ctx.Adapter(), b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: presentMode,
		AlphaMode:   alphaMode,
	})
	b.surfaceWidth, b.surfaceHeight = width, height

	if b.blit != nil {
		return nil
	}

	b.blit = pipeline.NewBlitPipeline(b.surfaceFormat)
	layouts, pipelineLayout, err := b.createPipeline(b.blit)
	if err != nil {
		b.blit = nil
		return err
	}
	b.blitLayouts = layouts
	b.blitLayout = pipelineLayout

	b.blitSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Blit Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return gpuErr("create blit sampler", err)
	}

	b.blitBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit Bind Group",
		Layout: layouts[0],
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.colorView},
			{Binding: 1, Sampler: b.blitSampler},
		},
	})
	if err != nil {
		return gpuErr("create blit bind group", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) Blit(mode PresentMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.prepareBlit(mode); err != nil {
		return err
	}

	surface := b.ctx.Surface()
	surfaceTexture, err := surface.GetCurrentTexture()
	if err != nil {
		return gpuErr("acquire surface texture", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return gpuErr("create surface view", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return gpuErr("create command encoder", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{A: 1.0},
			},
		},
	})
	pass.SetPipeline(b.blit.RenderPipeline())
	pass.SetBindGroup(0, b.blitBindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return gpuErr("finish blit", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.blitBindGroup != nil {
		b.blitBindGroup.Release()
		b.blitBindGroup = nil
	}
	if b.blitSampler != nil {
		b.blitSampler.Release()
		b.blitSampler = nil
	}
	if b.blit != nil {
		b.blit.Release()
		b.blit = nil
	}
	if b.blitLayout != nil {
		b.blitLayout.Release()
		b.blitLayout = nil
	}
	releaseLayouts(b.blitLayouts)
	b.blitLayouts = nil

	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	releaseBuffer(&b.uniformBuffer)
	releaseBuffer(&b.positionBuffer)
	releaseBuffer(&b.normalBuffer)
	releaseBuffer(&b.readback)
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	releaseLayouts(b.layouts)
	b.layouts = nil

	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	if b.colorView != nil {
		b.colorView.Release()
		b.colorView = nil
	}
	if b.colorTexture != nil {
		b.colorTexture.Release()
		b.colorTexture = nil
	}
}

func releaseBuffer(buf **wgpu.Buffer) {
	if *buf != nil {
		(*buf).Release()
		*buf = nil
	}
}

func releaseLayouts(layouts []*wgpu.BindGroupLayout) {
	for _, l := range layouts {
		if l != nil {
			l.Release()
		}
	}
}
