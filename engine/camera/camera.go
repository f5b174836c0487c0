package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fixed placement used for every thumbnail: looking at the origin from the front-right,
// slightly above, with +Z up.
var (
	DefaultEye    = mgl32.Vec3{2, -4, 2}
	DefaultTarget = mgl32.Vec3{0, 0, 0}
	DefaultUp     = mgl32.Vec3{0, 0, 1}
)

const (
	// DefaultFovDegrees is the vertical field of view.
	DefaultFovDegrees = 30
	// DefaultNear is the near clip plane distance.
	DefaultNear = 0.1
	// DefaultFar is the far clip plane distance.
	DefaultFar = 1024.0
)

// depthCorrection remaps OpenGL clip depth [-w, w] to the WebGPU range [0, w].
var depthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type cameraImpl struct {
	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
}

// Camera is a fixed perspective camera. Matrices are computed once at construction.
type Camera interface {
	// Eye returns the camera position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space eye position
	Eye() mgl32.Vec3

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: world-space up direction
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the world-to-view transform built from eye, target and up.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection with WebGPU [0, 1] depth.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	ProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the thumbnail defaults, then applies options in order.
//
// Parameters:
//   - options: functional options overriding the defaults
//
// Returns:
//   - Camera: the camera with its matrices computed
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		eye:    DefaultEye,
		target: DefaultTarget,
		up:     DefaultUp,
		fov:    mgl32.DegToRad(DefaultFovDegrees),
		aspect: 1,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix
}

func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.eye, c.target, c.up)
	c.projectionMatrix = depthCorrection.Mul4(mgl32.Perspective(c.fov, c.aspect, c.near, c.far))
}
