//go:build !linux

package device

// DefaultStrategies returns the offscreen strategies in the order they are tried.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewHeadlessStrategy(),
		NewSoftwareStrategy(),
	}
}
