// Package gpu describes the slice of an OpenGL 4.1 core context the renderer
// depends on. Every GL call in the renderer goes through Device so the pass
// logic can run against the real driver or against a recording fake.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Uniform is a resolved uniform location inside one linked program.
type Uniform int32

// NoUniform is returned for names the linked program does not use.
// Writes to it are dropped.
const NoUniform Uniform = -1

// Valid reports whether u refers to an active uniform.
func (u Uniform) Valid() bool { return u >= 0 }

// ShaderStage selects the kind of shader object to create.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// TextureFormat is the storage layout of a 2D texture.
type TextureFormat int

const (
	// FormatRGBA32F is a float render target (G-buffer attachments).
	FormatRGBA32F TextureFormat = iota
	// FormatRGBA8 holds decoded 8-bit image data.
	FormatRGBA8
)

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
)

type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
)

// SamplerParams are applied to the texture bound on the active unit.
// A negative MaxLevel leaves the mip range at the driver default.
type SamplerParams struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap
	BaseLevel int32
	MaxLevel  int32
}

// MeshData is indexed triangle geometry. Positions and Normals are xyz
// triples, TexCoords are uv pairs.
type MeshData struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices described by Positions.
func (m MeshData) VertexCount() int { return len(m.Positions) / 3 }

// VertexArray is uploaded geometry ready to draw.
type VertexArray struct {
	VAO     uint32
	Buffers [4]uint32 // positions, normals, texcoords, indices
	Count   int32
}

// UniformWriter uploads values to the currently bound program.
// Implementations must ignore NoUniform.
type UniformWriter interface {
	Uniform1i(u Uniform, v int32)
	Uniform1f(u Uniform, v float32)
	Uniform3f(u Uniform, v mgl32.Vec3)
	UniformMat4(u Uniform, m mgl32.Mat4)
}

// Device is the GL context. All methods must be called from the thread that
// owns the context.
type Device interface {
	UniformWriter

	CreateProgram() uint32
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	CreateShader(stage ShaderStage) uint32
	// CompileShader uploads source and compiles it, returning the info log.
	CompileShader(shader uint32, source string) string
	AttachShader(program, shader uint32)
	DeleteShader(shader uint32)
	BindFragDataLocation(program uint32, index uint32, name string)
	// LinkProgram links program and returns the info log.
	LinkProgram(program uint32) string
	UniformLocation(program uint32, name string) Uniform

	CreateTexture() uint32
	DeleteTexture(tex uint32)
	ActiveTexture(unit int)
	BindTexture(tex uint32)
	TexImage2D(format TextureFormat, width, height int, pixels []byte)
	SetSamplerParams(p SamplerParams)
	GenerateMipmap()

	CreateFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)
	FramebufferTexture(attachment int, tex uint32)
	CreateDepthRenderbuffer(width, height int) uint32
	FramebufferDepthRenderbuffer(rb uint32)
	DeleteRenderbuffer(rb uint32)
	FramebufferComplete() bool
	// DrawBuffers routes fragment outputs 0..count-1 to color attachments 0..count-1.
	DrawBuffers(count int)

	Viewport(width, height int)
	ClearColor(r, g, b, a float32)
	Clear()
	EnableDepthTest()

	UploadMesh(data MeshData) VertexArray
	DrawMesh(va VertexArray)
	DeleteMesh(va VertexArray)

	// Error pops the oldest pending driver error, or ErrNone.
	Error() uint32
}
