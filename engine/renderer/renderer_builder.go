package renderer

import (
	"github.com/Carmen-Shannon/stl-thumb/engine/light"
	"github.com/charmbracelet/log"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSize sets the output size in pixels.
//
// Parameters:
//   - width: output width
//   - height: output height
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = width
		r.height = height
	}
}

// WithLight replaces the default view space light.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithLight(l light.Light) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.light = l
		}
	}
}

// WithPresentMode sets how window mode frames are presented.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithLogger(logger *log.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
