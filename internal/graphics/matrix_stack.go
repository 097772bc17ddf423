package graphics

import "github.com/go-gl/mathgl/mgl32"

// MatrixStack is a LIFO of transforms for one matrix role. The root entry
// is never popped.
type MatrixStack struct {
	entries []mgl32.Mat4
}

// NewMatrixStack returns a stack holding only the identity
func NewMatrixStack() *MatrixStack {
	return &MatrixStack{entries: []mgl32.Mat4{mgl32.Ident4()}}
}

// Top returns the current transform
func (s *MatrixStack) Top() mgl32.Mat4 {
	return s.entries[len(s.entries)-1]
}

// SetTop replaces the current transform
func (s *MatrixStack) SetTop(m mgl32.Mat4) {
	s.entries[len(s.entries)-1] = m
}

// Mul post-multiplies the current transform by m
func (s *MatrixStack) Mul(m mgl32.Mat4) {
	top := len(s.entries) - 1
	s.entries[top] = s.entries[top].Mul4(m)
}

// Depth returns the number of entries, at least 1
func (s *MatrixStack) Depth() int { return len(s.entries) }

// Scoped pushes a copy of the top, runs fn, and pops again, even if fn
// panics. Changes made inside fn do not leak out.
func (s *MatrixStack) Scoped(fn func()) {
	depth := len(s.entries)
	s.entries = append(s.entries, s.Top())
	defer func() { s.entries = s.entries[:depth] }()
	fn()
}
