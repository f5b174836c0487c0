package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// The GLFW window belongs to the thread that created it until it is closed.
var (
	lockThread   = runtime.LockOSThread
	unlockThread = runtime.UnlockOSThread
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
	closed  bool
}

// newPlatformWindow creates the GLFW window and stores it as the internal window.
// go-gl/glfw reports some failures by panicking; those are returned as errors.
// The calling goroutine stays locked to its OS thread until the window is closed.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) (err error) {
	lockThread()
	defer func() {
		if err != nil {
			unlockThread()
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("GLFW aborted while creating window: %v", r)
		}
	}()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, boolHint(w.visible))
	glfw.WindowHint(glfw.Resizable, boolHint(w.resizable))

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	if !w.resizable {
		win.SetSizeLimits(w.width, w.height, w.width, w.height)
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// Escape is treated the same as the close button.
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
		}
	})

	win.SetCloseCallback(func(_ *glfw.Window) {
		gw.running = false
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetRefreshCallback
	win.SetRefreshCallback(func(_ *glfw.Window) {
		if w.onRefresh != nil {
			w.onRefresh()
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	if fbWidth > 0 && fbHeight > 0 {
		w.width = fbWidth
		w.height = fbHeight
	}

	return nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
//
// Parameters:
//   - w: the engineWindow to check
//
// Returns:
//   - bool: true if the window is still running
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.closed && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window, terminates the GLFW library and
// releases the thread lock taken in newPlatformWindow.
// Returns an error if the internal window has not been initialized.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.closed {
		return nil
	}
	gw.running = false
	gw.closed = true
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	unlockThread()
	return nil
}

// platformProcessMessages blocks until an event arrives or the wake interval elapses.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#WaitEventsTimeout
func platformProcessMessages(w *engineWindow) bool {
	glfw.WaitEventsTimeout(w.wakeInterval.Seconds())
	return platformIsRunningCheck(w)
}
