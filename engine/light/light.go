package light

import "github.com/go-gl/mathgl/mgl32"

// DefaultDirection points from the surface toward the light, in view space.
// It sits up and to the left of the viewer so the front faces of a part are lit.
var DefaultDirection = mgl32.Vec3{-1.1, 0.4, 1.0}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction mgl32.Vec3
}

// Light is a single directional light expressed in view space, so it stays fixed
// relative to the camera whatever the model transform is.
type Light interface {
	// Direction returns the unnormalized direction toward the light in view space.
	//
	// Returns:
	//   - mgl32.Vec3: direction toward the light
	Direction() mgl32.Vec3

	// GPUDirection returns the direction normalized and padded for a vec4 uniform slot.
	//
	// Returns:
	//   - [4]float32: xyz = unit direction, w = 0
	GPUDirection() [4]float32
}

var _ Light = &lightImpl{}

// NewLight creates a directional light, using DefaultDirection unless overridden.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: DefaultDirection,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) GPUDirection() [4]float32 {
	d := l.direction
	if d.Len() > 0 {
		d = d.Normalize()
	}
	return [4]float32{d.X(), d.Y(), d.Z(), 0}
}
