package thumbnail

import (
	"io"

	"github.com/Carmen-Shannon/stl-thumb/engine/device"
	"github.com/charmbracelet/log"
)

// ServiceBuilderOption is a functional option for configuring a Service.
type ServiceBuilderOption func(*service)

// WithAcquirer sets the acquirer used for offscreen renders.
// Defaults to an acquirer over device.DefaultStrategies.
//
// Parameters:
//   - acquirer: the acquirer
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithAcquirer(acquirer device.Acquirer) ServiceBuilderOption {
	return func(s *service) {
		s.acquirer = acquirer
	}
}

// WithHiddenWindowStrategy sets the strategy tried after the acquirer is exhausted.
// Passing nil disables the fallback.
//
// Parameters:
//   - strategy: the fallback strategy
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithHiddenWindowStrategy(strategy device.Strategy) ServiceBuilderOption {
	return func(s *service) {
		s.hiddenWindow = strategy
		s.hiddenWindowSet = true
	}
}

// WithWindowStrategy sets the strategy used by RenderToWindow.
//
// Parameters:
//   - strategy: the visible window strategy
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithWindowStrategy(strategy device.Strategy) ServiceBuilderOption {
	return func(s *service) {
		s.window = strategy
	}
}

// WithRendererFactory replaces the function that creates a renderer on an acquired context.
//
// Parameters:
//   - factory: the renderer factory
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithRendererFactory(factory RendererFactory) ServiceBuilderOption {
	return func(s *service) {
		s.newRenderer = factory
	}
}

// WithStdout sets where RenderToFile writes when the config has no output path.
//
// Parameters:
//   - w: the stream, os.Stdout by default
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithStdout(w io.Writer) ServiceBuilderOption {
	return func(s *service) {
		s.stdout = w
	}
}

// WithLogger sets the logger. Each render logs through a child logger tagged with its render ID.
//
// Parameters:
//   - logger: the logger, common.Logger() by default
//
// Returns:
//   - ServiceBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ServiceBuilderOption {
	return func(s *service) {
		s.logger = logger
	}
}
