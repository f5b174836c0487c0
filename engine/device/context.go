package device

import (
	"github.com/Carmen-Shannon/stl-thumb/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Context is a live GPU rendering context. It owns every handle it returns and
// releases them together.
type Context interface {
	// Strategy names the acquisition strategy that produced the context.
	//
	// Returns:
	//   - StrategyName: the strategy name
	Strategy() StrategyName

	// Instance returns the GPU API instance.
	//
	// Returns:
	//   - *wgpu.Instance: the instance
	Instance() *wgpu.Instance

	// Adapter returns the physical adapter the device was opened on.
	//
	// Returns:
	//   - *wgpu.Adapter: the adapter
	Adapter() *wgpu.Adapter

	// Device returns the logical device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Surface returns the window surface, or nil for offscreen contexts.
	//
	// Returns:
	//   - *wgpu.Surface: the surface or nil
	Surface() *wgpu.Surface

	// Window returns the host window, or nil for offscreen contexts.
	//
	// Returns:
	//   - window.Window: the window or nil
	Window() window.Window

	// Release frees the queue, device, adapter, surface, instance and window in that
	// order. Calling it more than once is a no-op.
	Release()
}

// gpuContext is the implementation of the Context interface.
type gpuContext struct {
	strategy StrategyName
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	window   window.Window

	// substrate is set when the instance belongs to a shared substrate; it is
	// released in place of the instance.
	substrate Substrate
	released  bool
}

var _ Context = &gpuContext{}

func (c *gpuContext) Strategy() StrategyName {
	return c.strategy
}

func (c *gpuContext) Instance() *wgpu.Instance {
	return c.instance
}

func (c *gpuContext) Adapter() *wgpu.Adapter {
	return c.adapter
}

func (c *gpuContext) Device() *wgpu.Device {
	return c.device
}

func (c *gpuContext) Queue() *wgpu.Queue {
	return c.queue
}

func (c *gpuContext) Surface() *wgpu.Surface {
	return c.surface
}

func (c *gpuContext) Window() window.Window {
	return c.window
}

func (c *gpuContext) Release() {
	if c.released {
		return
	}
	c.released = true

	if c.queue != nil {
		c.queue.Release()
	}
	if c.device != nil {
		c.device.Release()
	}
	if c.adapter != nil {
		c.adapter.Release()
	}
	if c.surface != nil {
		c.surface.Release()
	}
	switch {
	case c.substrate != nil:
		c.substrate.Release()
	case c.instance != nil:
		c.instance.Release()
	}
	if c.window != nil {
		_ = c.window.Close()
	}
}
