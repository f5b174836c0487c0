package window

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultWakeInterval is the longest the message loop sleeps waiting for events.
const DefaultWakeInterval = 10 * time.Millisecond

// Window provides a platform window that a WebGPU surface can be created on.
// It is either shown for interactive viewing or kept hidden as a render host.
type Window interface {
	// SetRefreshCallback sets the function called when the platform asks for the contents to be redrawn.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRefreshCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Visible reports whether the window was created on screen.
	//
	// Returns:
	//   - bool: false for hidden render-host windows
	Visible() bool

	// Close closes the window and releases platform resources. Safe to call more than once.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the window message loop until a close is requested.
	// Each iteration waits at most the wake interval for events.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// visible selects an on-screen window; false creates a hidden render host.
	visible bool

	// resizable allows the user to resize the window. Thumbnails are fixed size by default.
	resizable bool

	// wakeInterval bounds how long ProcessMessages blocks waiting for events.
	wakeInterval time.Duration

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onRefresh is called when the window contents are damaged.
	onRefresh func()
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform could not create a window (for example, no display server)
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:        "stl-thumb",
		width:        1024,
		height:       768,
		visible:      true,
		wakeInterval: DefaultWakeInterval,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetRefreshCallback(callback func()) {
	w.onRefresh = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Visible() bool {
	return w.visible
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
