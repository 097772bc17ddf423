package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera supplies the per-frame view and projection
type Camera interface {
	ProjectionMatrix() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
}

// Renderable draws itself with whatever program, textures and framebuffer
// are currently bound
type Renderable interface {
	Render()
}

// Mode selects the shading pipeline. It is fixed when the pipeline is built.
type Mode int

const (
	ModeForward Mode = iota
	ModeDeferred
)

func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Grid describes the square of mesh instances drawn every frame. Instances
// sit at integer steps -HalfExtent..HalfExtent on X and Z.
type Grid struct {
	HalfExtent int
	Spacing    float32
	Scale      float32
}

// DefaultGrid is 21x21 instances, one unit apart, scaled by 2
var DefaultGrid = Grid{HalfExtent: 10, Spacing: 1, Scale: 2}

// Placements is the number of instances per pass
func (g Grid) Placements() int {
	if g.HalfExtent < 0 {
		return 0
	}
	side := 2*g.HalfExtent + 1
	return side * side
}

// FrameStats summarizes one Render call
type FrameStats struct {
	Mode       Mode
	Placements int // grid instances drawn
	DrawCalls  int // every mesh draw, including the composite quad
}
