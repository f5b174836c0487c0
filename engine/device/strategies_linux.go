//go:build linux

package device

// DefaultStrategies returns the offscreen strategies in the order they are tried.
// Linux drivers commonly expose a surfaceless platform, so it goes first.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewSurfacelessStrategy(),
		NewHeadlessStrategy(),
		NewSoftwareStrategy(),
	}
}
