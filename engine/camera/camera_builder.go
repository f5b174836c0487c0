package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a camera.
type CameraBuilderOption func(*cameraImpl)

// WithEye sets the camera position.
//
// Parameters:
//   - eye: world-space position
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithEye(eye mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
	}
}

// WithTarget sets the point the camera looks at.
//
// Parameters:
//   - target: world-space position
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = target
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: world-space up direction
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio.
//
// Parameters:
//   - aspect: width / height
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: distance to the near plane
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: distance to the far plane
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
