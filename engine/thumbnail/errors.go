package thumbnail

import (
	"errors"
	"fmt"
)

// ErrRenderAborted is returned when a render stopped on a fatal error raised as a panic,
// such as a shader that failed to compile.
var ErrRenderAborted = errors.New("render aborted")

// ErrNoWindow is returned by RenderToWindow when the acquired context has no window.
var ErrNoWindow = errors.New("context has no window")

// abortError converts a recovered panic value into an error wrapping ErrRenderAborted.
func abortError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrRenderAborted, err)
	}
	return fmt.Errorf("%w: %v", ErrRenderAborted, r)
}
