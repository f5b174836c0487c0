package window

import "time"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the window width.
//
// Parameters:
//   - width: width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the window height.
//
// Parameters:
//   - height: height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithVisible chooses between an on-screen window and a hidden one.
//
// Parameters:
//   - visible: false to keep the window off screen
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVisible(visible bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.visible = visible
	}
}

// WithResizable allows the user to resize the window. When false the window
// is pinned to its initial size.
//
// Parameters:
//   - resizable: true to allow resizing
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.resizable = resizable
	}
}

// WithWakeInterval sets the longest the message loop blocks waiting for events.
//
// Parameters:
//   - d: wait timeout per loop iteration
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWakeInterval(d time.Duration) WindowBuilderOption {
	return func(w *engineWindow) {
		w.wakeInterval = d
	}
}
