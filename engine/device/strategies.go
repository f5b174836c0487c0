package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/stl-thumb/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// surfacelessStrategy opens the preferred adapter of the substrate with no surface at all.
type surfacelessStrategy struct{}

// headlessStrategy opens an adapter on the GL backend of the substrate. Offscreen GL
// drivers are the usual route on machines without a display server.
type headlessStrategy struct{}

// softwareStrategy forces the CPU fallback adapter on a private instance.
type softwareStrategy struct{}

// windowStrategy creates a glfw window and a surface, then an adapter compatible with it.
type windowStrategy struct {
	visible      bool
	title        string
	wakeInterval time.Duration
}

var (
	_ Strategy = surfacelessStrategy{}
	_ Strategy = headlessStrategy{}
	_ Strategy = softwareStrategy{}
	_ Strategy = &windowStrategy{}
)

// NewSurfacelessStrategy returns the strategy that requests a high performance adapter
// from the substrate without a surface.
func NewSurfacelessStrategy() Strategy {
	return surfacelessStrategy{}
}

// NewHeadlessStrategy returns the strategy that requests a low power GL adapter from
// the substrate, raising the device texture limit to the output size.
func NewHeadlessStrategy() Strategy {
	return headlessStrategy{}
}

// NewSoftwareStrategy returns the strategy that forces the fallback (software) adapter.
func NewSoftwareStrategy() Strategy {
	return softwareStrategy{}
}

// NewHiddenWindowStrategy returns the last resort strategy: an invisible window whose
// surface anchors the adapter request.
func NewHiddenWindowStrategy() Strategy {
	return &windowStrategy{visible: false, title: "stl-thumb", wakeInterval: window.DefaultWakeInterval}
}

// NewWindowStrategy returns a strategy for interactive viewing in a visible window.
//
// Parameters:
//   - title: the window title
func NewWindowStrategy(title string) Strategy {
	return &windowStrategy{visible: true, title: title, wakeInterval: window.DefaultWakeInterval}
}

func (surfacelessStrategy) Name() StrategyName   { return StrategySurfaceless }
func (surfacelessStrategy) NeedsSubstrate() bool { return true }

func (s surfacelessStrategy) Acquire(sub Substrate, req Request) (Context, error) {
	if sub == nil {
		return nil, ErrSubstrateUnavailable
	}
	ctx, err := openDevice(s.Name(), sub.Instance(), &wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	}, req)
	if err != nil {
		return nil, err
	}
	ctx.substrate = sub
	return ctx, nil
}

func (headlessStrategy) Name() StrategyName   { return StrategyHeadless }
func (headlessStrategy) NeedsSubstrate() bool { return true }

func (s headlessStrategy) Acquire(sub Substrate, req Request) (Context, error) {
	if sub == nil {
		return nil, ErrSubstrateUnavailable
	}
	ctx, err := openDevice(s.Name(), sub.Instance(), &wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceLowPower,
		BackendType:     wgpu.BackendTypeOpenGLES,
	}, req)
	if err != nil {
		return nil, err
	}
	ctx.substrate = sub
	return ctx, nil
}

func (softwareStrategy) Name() StrategyName   { return StrategySoftware }
func (softwareStrategy) NeedsSubstrate() bool { return false }

func (s softwareStrategy) Acquire(_ Substrate, req Request) (Context, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, errors.New("wgpu returned no instance")
	}
	ctx, err := openDevice(s.Name(), instance, &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: true,
	}, req)
	if err != nil {
		instance.Release()
		return nil, err
	}
	return ctx, nil
}

func (s *windowStrategy) Name() StrategyName {
	if s.visible {
		return StrategyWindow
	}
	return StrategyHiddenWindow
}

func (s *windowStrategy) NeedsSubstrate() bool { return false }

// windowOptions pins the window to the requested size since the render target
// does not follow resizes.
func (s *windowStrategy) windowOptions(req Request) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(s.title),
		window.WithWidth(req.Width),
		window.WithHeight(req.Height),
		window.WithVisible(s.visible),
		window.WithResizable(false),
		window.WithWakeInterval(s.wakeInterval),
	}
}

func (s *windowStrategy) Acquire(_ Substrate, req Request) (Context, error) {
	win, err := window.NewWindow(s.windowOptions(req)...)
	if err != nil {
		return nil, err
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		_ = win.Close()
		return nil, errors.New("wgpu returned no instance")
	}

	desc := win.SurfaceDescriptor()
	if desc == nil {
		instance.Release()
		_ = win.Close()
		return nil, errors.New("window has no surface descriptor")
	}
	surface := instance.CreateSurface(desc)

	ctx, err := openDevice(s.Name(), instance, &wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	}, req)
	if err != nil {
		surface.Release()
		instance.Release()
		_ = win.Close()
		return nil, err
	}
	ctx.surface = surface
	ctx.window = win
	return ctx, nil
}

// openDevice requests an adapter and a device on it. The device's 2D texture limit is
// raised to cover the requested output when the defaults are too small.
//
// Parameters:
//   - name: strategy name recorded on the context
//   - instance: the instance to request from
//   - opts: adapter request options
//   - req: output dimensions
//
// Returns:
//   - *gpuContext: context holding instance, adapter, device and queue
//   - error: error if no adapter or device could be obtained
func openDevice(name StrategyName, instance *wgpu.Instance, opts *wgpu.RequestAdapterOptions, req Request) (*gpuContext, error) {
	adapter, err := instance.RequestAdapter(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	if adapter == nil {
		return nil, ErrNoAdapter
	}

	limits := wgpu.DefaultLimits()
	needed := uint32(max(req.Width, req.Height))
	if needed > limits.MaxTextureDimension2D {
		supported := adapter.GetLimits().Limits.MaxTextureDimension2D
		if needed > supported {
			adapter.Release()
			return nil, fmt.Errorf("output %dx%d exceeds adapter texture limit %d", req.Width, req.Height, supported)
		}
		limits.MaxTextureDimension2D = needed
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "stl-thumb " + string(name) + " device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	return &gpuContext{
		strategy: name,
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}
