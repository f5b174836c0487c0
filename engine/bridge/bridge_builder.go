package bridge

import "github.com/charmbracelet/log"

// BridgeBuilderOption is a functional option for configuring a Bridge.
type BridgeBuilderOption func(*bridge)

// WithRenderFunc replaces the render step. Defaults to a thumbnail.Service's RenderToImage.
//
// Parameters:
//   - fn: the render function
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithRenderFunc(fn RenderFunc) BridgeBuilderOption {
	return func(b *bridge) {
		b.render = fn
	}
}

// WithWorkers sets the size of the render worker pool. Renders from concurrent callers
// beyond this count queue up.
//
// Parameters:
//   - n: worker count, at least 1
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithWorkers(n int) BridgeBuilderOption {
	return func(b *bridge) {
		b.workers = max(n, 1)
	}
}

// WithLogger sets the logger used for rejected and failed calls.
//
// Parameters:
//   - logger: the logger, common.Logger() by default
//
// Returns:
//   - BridgeBuilderOption: option function to apply
func WithLogger(logger *log.Logger) BridgeBuilderOption {
	return func(b *bridge) {
		b.logger = logger
	}
}
