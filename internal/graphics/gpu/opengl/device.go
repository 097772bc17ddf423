// Package opengl implements gpu.Device on top of go-gl's 4.1 core bindings.
package opengl

import (
	"strings"

	"deferred-shading/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device issues commands against the GL context current on the calling thread.
type Device struct{}

var _ gpu.Device = (*Device)(nil)

// NewDevice loads the GL function pointers. A context must be current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Device{}, nil
}

// Version returns the driver's GL_VERSION string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CreateProgram() uint32        { return gl.CreateProgram() }
func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (d *Device) UseProgram(program uint32)    { gl.UseProgram(program) }

func (d *Device) CreateShader(stage gpu.ShaderStage) uint32 {
	switch stage {
	case gpu.VertexStage:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case gpu.FragmentStage:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return 0
}

func (d *Device) CompileShader(shader uint32, source string) string {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (d *Device) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }

func (d *Device) BindFragDataLocation(program uint32, index uint32, name string) {
	gl.BindFragDataLocation(program, index, gl.Str(name+"\x00"))
}

func (d *Device) LinkProgram(program uint32) string {
	gl.LinkProgram(program)

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) UniformLocation(program uint32, name string) gpu.Uniform {
	return gpu.Uniform(gl.GetUniformLocation(program, gl.Str(name+"\x00")))
}

func (d *Device) Uniform1i(u gpu.Uniform, v int32) {
	if u.Valid() {
		gl.Uniform1i(int32(u), v)
	}
}

func (d *Device) Uniform1f(u gpu.Uniform, v float32) {
	if u.Valid() {
		gl.Uniform1f(int32(u), v)
	}
}

func (d *Device) Uniform3f(u gpu.Uniform, v mgl32.Vec3) {
	if u.Valid() {
		gl.Uniform3f(int32(u), v[0], v[1], v[2])
	}
}

func (d *Device) UniformMat4(u gpu.Uniform, m mgl32.Mat4) {
	if u.Valid() {
		gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
	}
}

func (d *Device) CreateTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (d *Device) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }
func (d *Device) ActiveTexture(unit int)   { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }
func (d *Device) BindTexture(tex uint32)   { gl.BindTexture(gl.TEXTURE_2D, tex) }

func (d *Device) TexImage2D(format gpu.TextureFormat, width, height int, pixels []byte) {
	switch format {
	case gpu.FormatRGBA32F:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	case gpu.FormatRGBA8:
		if len(pixels) == 0 {
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
			return
		}
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
}

func (d *Device) SetSamplerParams(p gpu.SamplerParams) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(p.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(p.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(p.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(p.MagFilter))
	if p.MaxLevel >= 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, p.BaseLevel)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, p.MaxLevel)
	}
}

func (d *Device) GenerateMipmap() { gl.GenerateMipmap(gl.TEXTURE_2D) }

func (d *Device) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) DeleteFramebuffer(fbo uint32) { gl.DeleteFramebuffers(1, &fbo) }
func (d *Device) BindFramebuffer(fbo uint32)   { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (d *Device) FramebufferTexture(attachment int, tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(attachment), gl.TEXTURE_2D, tex, 0)
}

func (d *Device) CreateDepthRenderbuffer(width, height int) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32F, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return rb
}

func (d *Device) FramebufferDepthRenderbuffer(rb uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rb)
}

func (d *Device) DeleteRenderbuffer(rb uint32) { gl.DeleteRenderbuffers(1, &rb) }

func (d *Device) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (d *Device) DrawBuffers(count int) {
	buffers := make([]uint32, count)
	for i := range buffers {
		buffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(count), &buffers[0])
}

func (d *Device) Viewport(width, height int)     { gl.Viewport(0, 0, int32(width), int32(height)) }
func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) Clear()                        { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }
func (d *Device) EnableDepthTest()              { gl.Enable(gl.DEPTH_TEST) }

// UploadMesh stores each attribute in its own buffer: location 0 position,
// 1 normal, 2 texcoord.
func (d *Device) UploadMesh(data gpu.MeshData) gpu.VertexArray {
	va := gpu.VertexArray{Count: int32(len(data.Indices))}
	gl.GenVertexArrays(1, &va.VAO)
	gl.BindVertexArray(va.VAO)

	attribs := []struct {
		values []float32
		size   int32
	}{
		{data.Positions, 3},
		{data.Normals, 3},
		{data.TexCoords, 2},
	}
	for i, a := range attribs {
		if len(a.values) == 0 {
			continue
		}
		gl.GenBuffers(1, &va.Buffers[i])
		gl.BindBuffer(gl.ARRAY_BUFFER, va.Buffers[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.values)*4, gl.Ptr(a.values), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), a.size, gl.FLOAT, false, a.size*4, 0)
	}

	if len(data.Indices) > 0 {
		gl.GenBuffers(1, &va.Buffers[3])
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.Buffers[3])
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return va
}

func (d *Device) DrawMesh(va gpu.VertexArray) {
	if va.VAO == 0 || va.Count == 0 {
		return
	}
	gl.BindVertexArray(va.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, va.Count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (d *Device) DeleteMesh(va gpu.VertexArray) {
	for i := range va.Buffers {
		if va.Buffers[i] != 0 {
			gl.DeleteBuffers(1, &va.Buffers[i])
		}
	}
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
}

func (d *Device) Error() uint32 { return gl.GetError() }

func glFilter(f gpu.Filter) int32 {
	switch f {
	case gpu.FilterLinear:
		return gl.LINEAR
	case gpu.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.NEAREST
}

func glWrap(w gpu.Wrap) int32 {
	if w == gpu.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}
