package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a functional option for configuring a light.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the view-space direction toward the light.
//
// Parameters:
//   - direction: direction vector, need not be normalized
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(direction mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = direction
	}
}
