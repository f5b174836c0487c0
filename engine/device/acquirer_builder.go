package device

import "github.com/charmbracelet/log"

// AcquirerBuilderOption is a functional option for configuring an acquirer.
type AcquirerBuilderOption func(*acquirer)

// WithStrategies replaces the strategy chain.
//
// Parameters:
//   - strategies: strategies in the order they are tried
//
// Returns:
//   - AcquirerBuilderOption: option function to apply
func WithStrategies(strategies ...Strategy) AcquirerBuilderOption {
	return func(a *acquirer) {
		a.strategies = strategies
	}
}

// WithAppendedStrategies adds strategies after the current chain.
//
// Parameters:
//   - strategies: strategies to try last
//
// Returns:
//   - AcquirerBuilderOption: option function to apply
func WithAppendedStrategies(strategies ...Strategy) AcquirerBuilderOption {
	return func(a *acquirer) {
		a.strategies = append(append([]Strategy(nil), a.strategies...), strategies...)
	}
}

// WithSubstrateFactory replaces how the shared GPU instance is built.
//
// Parameters:
//   - factory: the substrate constructor
//
// Returns:
//   - AcquirerBuilderOption: option function to apply
func WithSubstrateFactory(factory SubstrateFactory) AcquirerBuilderOption {
	return func(a *acquirer) {
		a.substrateFactory = factory
	}
}

// WithLogger sets the logger used for fallback warnings.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - AcquirerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) AcquirerBuilderOption {
	return func(a *acquirer) {
		if logger != nil {
			a.logger = logger
		}
	}
}
