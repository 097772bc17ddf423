package graphics

import (
	"errors"
	"fmt"

	"deferred-shading/internal/graphics/gpu"
)

var (
	ErrFramebufferIncomplete = errors.New("framebuffer is not complete")
	ErrGBufferWriting        = errors.New("g-buffer is still bound for writing")
)

// GBufferAttachments lists the color targets in draw-buffer order. Index N
// receives fragment output N of the geometry pass.
var GBufferAttachments = [3]TextureID{
	TexturePositionMap,
	TextureNormalBuf,
	TextureTexCoordMap,
}

// GBuffer is the geometry pass render target: three float color
// attachments plus a depth renderbuffer, all the same size.
type GBuffer struct {
	dev      gpu.Device
	textures *TextureRegistry

	fbo     uint32
	depth   uint32
	width   int
	height  int
	writing bool
}

// NewGBuffer creates an uninitialized G-buffer whose attachments will be
// registered in textures
func NewGBuffer(dev gpu.Device, textures *TextureRegistry) *GBuffer {
	return &GBuffer{dev: dev, textures: textures}
}

// Initialize creates the framebuffer and its attachments at the given size
// and leaves the default framebuffer bound.
func (g *GBuffer) Initialize(width, height int) error {
	if g.fbo != 0 {
		g.Dispose()
	}
	g.width, g.height = width, height

	g.fbo = g.dev.CreateFramebuffer()
	g.dev.BindFramebuffer(g.fbo)

	for i, id := range GBufferAttachments {
		tex := g.textures.CreateEmpty(id, width, height)
		g.dev.FramebufferTexture(i, tex.Handle)
	}

	g.depth = g.dev.CreateDepthRenderbuffer(width, height)
	g.dev.FramebufferDepthRenderbuffer(g.depth)

	complete := g.dev.FramebufferComplete()
	g.dev.BindFramebuffer(0)
	if !complete {
		g.Dispose()
		return fmt.Errorf("g-buffer %dx%d: %w", width, height, ErrFramebufferIncomplete)
	}
	return nil
}

// Size returns the attachment dimensions
func (g *GBuffer) Size() (int, int) { return g.width, g.height }

// Handle returns the framebuffer name, 0 before Initialize
func (g *GBuffer) Handle() uint32 { return g.fbo }

// Writing reports whether the framebuffer is currently bound as render target
func (g *GBuffer) Writing() bool { return g.writing }

// BindForWriting makes the G-buffer the render target with all three
// attachments active as draw buffers
func (g *GBuffer) BindForWriting() {
	g.dev.BindFramebuffer(g.fbo)
	g.dev.DrawBuffers(len(GBufferAttachments))
	g.writing = true
}

// Unbind restores the default framebuffer
func (g *GBuffer) Unbind() {
	g.dev.BindFramebuffer(0)
	g.writing = false
}

// BindForReading binds the attachments to texture units units[i] and points
// samplers[i] at them. It refuses while the geometry pass still has the
// framebuffer bound.
func (g *GBuffer) BindForReading(units [3]int, samplers [3]gpu.Uniform) error {
	if g.writing {
		return ErrGBufferWriting
	}
	for i, id := range GBufferAttachments {
		g.textures.Bind(id, units[i], samplers[i])
	}
	return nil
}

// Dispose releases the framebuffer, depth buffer and attachments
func (g *GBuffer) Dispose() {
	if g.fbo == 0 {
		return
	}
	if g.writing {
		g.Unbind()
	}
	for _, id := range GBufferAttachments {
		g.textures.Delete(id)
	}
	if g.depth != 0 {
		g.dev.DeleteRenderbuffer(g.depth)
		g.depth = 0
	}
	g.dev.DeleteFramebuffer(g.fbo)
	g.fbo = 0
}
