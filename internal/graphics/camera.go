package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MoveDirection is a discrete camera step
type MoveDirection int

const (
	MoveForward MoveDirection = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// MouseButton is the drag mode of the camera
type MouseButton int

const (
	NoButton MouseButton = iota
	LeftButton
	RightButton
)

const (
	moveStep      = 0.25
	rotateSpeed   = 0.01
	zoomSpeed     = 0.05
	minRadius     = 0.5
	thetaEpsilon  = 0.01
	fovStep       = 0.1
	clipStep      = 0.1
	minNear       = 0.1
	minClipMargin = 0.01
)

// OrbitCamera circles the origin on a sphere and produces the view and
// projection matrices for the renderer
type OrbitCamera struct {
	AspectRatio float32
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32

	Phi    float32 // azimuth
	Theta  float32 // polar angle from +Y
	Radius float32

	button       MouseButton
	lastX, lastY float64
}

// NewOrbitCamera creates a camera at the given spherical position
func NewOrbitCamera(width, height int, phi, theta, radius float32) *OrbitCamera {
	return &OrbitCamera{
		AspectRatio: float32(width) / float32(height),
		FOV:         45.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Phi:         phi,
		Theta:       theta,
		Radius:      radius,
	}
}

// SetViewport updates the aspect ratio
func (c *OrbitCamera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Eye returns the camera position in world space
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	sinT, cosT := math32.Sincos(c.Theta)
	sinP, cosP := math32.Sincos(c.Phi)
	return mgl32.Vec3{
		c.Radius * sinT * sinP,
		c.Radius * cosT,
		c.Radius * sinT * cosP,
	}
}

func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Move steps the camera towards or around the origin
func (c *OrbitCamera) Move(dir MoveDirection) {
	switch dir {
	case MoveForward:
		c.Radius = math32.Max(c.Radius-moveStep, minRadius)
	case MoveBackward:
		c.Radius += moveStep
	case MoveLeft:
		c.Phi -= moveStep
	case MoveRight:
		c.Phi += moveStep
	}
}

// AdjustFOV widens (positive) or narrows the opening angle, clamped to [1, 180]
func (c *OrbitCamera) AdjustFOV(steps float32) {
	c.FOV = mgl32.Clamp(c.FOV+steps*fovStep, 1, 180)
}

// AdjustNear moves the near plane, keeping it in front of the far plane
func (c *OrbitCamera) AdjustNear(steps float32) {
	near := c.NearPlane + steps*clipStep
	c.NearPlane = mgl32.Clamp(near, minNear, c.FarPlane-minClipMargin)
}

// AdjustFar moves the far plane, keeping it behind the near plane
func (c *OrbitCamera) AdjustFar(steps float32) {
	c.FarPlane = math32.Max(c.FarPlane+steps*clipStep, c.NearPlane+minClipMargin)
}

// SetButton starts or ends a mouse drag at the given cursor position
func (c *OrbitCamera) SetButton(b MouseButton, x, y float64) {
	c.button = b
	c.lastX, c.lastY = x, y
}

// MouseMoved orbits on a left drag and zooms on a right drag
func (c *OrbitCamera) MouseMoved(x, y float64) {
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	switch c.button {
	case LeftButton:
		c.Phi -= dx * rotateSpeed
		c.Theta = mgl32.Clamp(c.Theta-dy*rotateSpeed, thetaEpsilon, math32.Pi-thetaEpsilon)
	case RightButton:
		c.Radius = math32.Max(c.Radius+dy*zoomSpeed, minRadius)
	}
}
