// Package gputest provides a recording gpu.Device for tests that exercise
// render logic without a GL context.
package gputest

import (
	"fmt"
	"strings"

	"deferred-shading/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device command.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

// TextureState is what the recorder knows about one texture object.
type TextureState struct {
	Format  gpu.TextureFormat
	Width   int
	Height  int
	Pixels  int // bytes uploaded
	Sampler gpu.SamplerParams
	Mipmaps bool
}

// Recorder implements gpu.Device by tracking bindings and logging every call.
// Handles are allocated from a single counter, so they never collide across
// object kinds.
type Recorder struct {
	Calls []Call

	// Failure injection.
	FailCreateProgram bool
	FailStage         map[gpu.ShaderStage]bool
	CompileLog        func(stage gpu.ShaderStage, source string) string
	LinkLog           string
	Incomplete        bool
	Missing           map[string]bool // uniform names reported as absent
	PendingErrors     []uint32

	nextHandle   uint32
	Program      uint32
	Framebuffer  uint32
	ActiveUnit   int
	UnitTextures map[int]uint32
	Textures     map[uint32]*TextureState
	Shaders      map[uint32]gpu.ShaderStage
	Deleted      map[uint32]bool
	Attached     map[uint32][]uint32
	FragOutputs  map[uint32]map[uint32]string
	locations    map[uint32]map[string]gpu.Uniform
	names        map[uint32]map[gpu.Uniform]string
	// Values holds the last value written per program and uniform name.
	Values     map[uint32]map[string]any
	DrawCount  int
	DrawBuffer int
}

var _ gpu.Device = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		FailStage:    make(map[gpu.ShaderStage]bool),
		Missing:      make(map[string]bool),
		UnitTextures: make(map[int]uint32),
		Textures:     make(map[uint32]*TextureState),
		Shaders:      make(map[uint32]gpu.ShaderStage),
		Deleted:      make(map[uint32]bool),
		Attached:     make(map[uint32][]uint32),
		FragOutputs:  make(map[uint32]map[uint32]string),
		locations:    make(map[uint32]map[string]gpu.Uniform),
		names:        make(map[uint32]map[gpu.Uniform]string),
		Values:       make(map[uint32]map[string]any),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

// Reset drops the call log and draw counter but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.DrawCount = 0
}

// Index returns the position of the first call matching op and args after
// position from, or -1.
func (r *Recorder) Index(from int, op string, args ...any) int {
	for i := from; i < len(r.Calls); i++ {
		c := r.Calls[i]
		if c.Op != op {
			continue
		}
		if len(args) > len(c.Args) {
			continue
		}
		match := true
		for j, a := range args {
			if c.Args[j] != a {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Count returns how many recorded calls have the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Value returns the last value written to uniform name of program.
func (r *Recorder) Value(program uint32, name string) (any, bool) {
	v, ok := r.Values[program][name]
	return v, ok
}

func (r *Recorder) CreateProgram() uint32 {
	if r.FailCreateProgram {
		r.record("CreateProgram", uint32(0))
		return 0
	}
	h := r.handle()
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	r.Deleted[program] = true
	if r.Program == program {
		r.Program = 0
	}
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
	r.Program = program
}

func (r *Recorder) CreateShader(stage gpu.ShaderStage) uint32 {
	if r.FailStage[stage] {
		r.record("CreateShader", stage, uint32(0))
		return 0
	}
	h := r.handle()
	r.Shaders[h] = stage
	r.record("CreateShader", stage, h)
	return h
}

func (r *Recorder) CompileShader(shader uint32, source string) string {
	r.record("CompileShader", shader)
	if r.CompileLog == nil {
		return ""
	}
	return r.CompileLog(r.Shaders[shader], source)
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
	r.Attached[program] = append(r.Attached[program], shader)
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
	r.Deleted[shader] = true
}

func (r *Recorder) BindFragDataLocation(program uint32, index uint32, name string) {
	r.record("BindFragDataLocation", program, index, name)
	if r.FragOutputs[program] == nil {
		r.FragOutputs[program] = make(map[uint32]string)
	}
	r.FragOutputs[program][index] = name
}

func (r *Recorder) LinkProgram(program uint32) string {
	r.record("LinkProgram", program)
	return r.LinkLog
}

func (r *Recorder) UniformLocation(program uint32, name string) gpu.Uniform {
	r.record("UniformLocation", program, name, r.Program)
	if r.Missing[name] || program == 0 {
		return gpu.NoUniform
	}
	locs := r.locations[program]
	if locs == nil {
		locs = make(map[string]gpu.Uniform)
		r.locations[program] = locs
		r.names[program] = make(map[gpu.Uniform]string)
	}
	if u, ok := locs[name]; ok {
		return u
	}
	u := gpu.Uniform(len(locs))
	locs[name] = u
	r.names[program][u] = name
	return u
}

// QueriedWhileBound reports whether every location lookup for program was
// made while that program was current.
func (r *Recorder) QueriedWhileBound(program uint32) bool {
	for _, c := range r.Calls {
		if c.Op == "UniformLocation" && c.Args[0] == program && c.Args[2] != program {
			return false
		}
	}
	return true
}

func (r *Recorder) setValue(op string, u gpu.Uniform, v any) {
	r.record(op, u, v)
	if !u.Valid() {
		return
	}
	name, ok := r.names[r.Program][u]
	if !ok {
		name = fmt.Sprintf("#%d", u)
	}
	if r.Values[r.Program] == nil {
		r.Values[r.Program] = make(map[string]any)
	}
	r.Values[r.Program][name] = v
}

func (r *Recorder) Uniform1i(u gpu.Uniform, v int32)      { r.setValue("Uniform1i", u, v) }
func (r *Recorder) Uniform1f(u gpu.Uniform, v float32)    { r.setValue("Uniform1f", u, v) }
func (r *Recorder) Uniform3f(u gpu.Uniform, v mgl32.Vec3) { r.setValue("Uniform3f", u, v) }
func (r *Recorder) UniformMat4(u gpu.Uniform, m mgl32.Mat4) {
	r.setValue("UniformMat4", u, m)
}

func (r *Recorder) CreateTexture() uint32 {
	h := r.handle()
	r.Textures[h] = &TextureState{}
	r.record("CreateTexture", h)
	return h
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.record("DeleteTexture", tex)
	r.Deleted[tex] = true
	delete(r.Textures, tex)
}

func (r *Recorder) ActiveTexture(unit int) {
	r.record("ActiveTexture", unit)
	r.ActiveUnit = unit
}

func (r *Recorder) BindTexture(tex uint32) {
	r.record("BindTexture", tex)
	r.UnitTextures[r.ActiveUnit] = tex
}

func (r *Recorder) bound() *TextureState {
	return r.Textures[r.UnitTextures[r.ActiveUnit]]
}

func (r *Recorder) TexImage2D(format gpu.TextureFormat, width, height int, pixels []byte) {
	r.record("TexImage2D", format, width, height, len(pixels))
	if t := r.bound(); t != nil {
		t.Format, t.Width, t.Height, t.Pixels = format, width, height, len(pixels)
	}
}

func (r *Recorder) SetSamplerParams(p gpu.SamplerParams) {
	r.record("SetSamplerParams", p)
	if t := r.bound(); t != nil {
		t.Sampler = p
	}
}

func (r *Recorder) GenerateMipmap() {
	r.record("GenerateMipmap")
	if t := r.bound(); t != nil {
		t.Mipmaps = true
	}
}

func (r *Recorder) CreateFramebuffer() uint32 {
	h := r.handle()
	r.record("CreateFramebuffer", h)
	return h
}

func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.record("DeleteFramebuffer", fbo)
	r.Deleted[fbo] = true
}

func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.record("BindFramebuffer", fbo)
	r.Framebuffer = fbo
}

func (r *Recorder) FramebufferTexture(attachment int, tex uint32) {
	r.record("FramebufferTexture", attachment, tex, r.Framebuffer)
}

func (r *Recorder) CreateDepthRenderbuffer(width, height int) uint32 {
	h := r.handle()
	r.record("CreateDepthRenderbuffer", h, width, height)
	return h
}

func (r *Recorder) FramebufferDepthRenderbuffer(rb uint32) {
	r.record("FramebufferDepthRenderbuffer", rb, r.Framebuffer)
}

func (r *Recorder) DeleteRenderbuffer(rb uint32) {
	r.record("DeleteRenderbuffer", rb)
	r.Deleted[rb] = true
}

func (r *Recorder) FramebufferComplete() bool {
	r.record("FramebufferComplete")
	return !r.Incomplete
}

func (r *Recorder) DrawBuffers(count int) {
	r.record("DrawBuffers", count)
	r.DrawBuffer = count
}

func (r *Recorder) Viewport(width, height int)     { r.record("Viewport", width, height) }
func (r *Recorder) ClearColor(cr, g, b, a float32) { r.record("ClearColor", cr, g, b, a) }
func (r *Recorder) Clear()                         { r.record("Clear", r.Framebuffer) }
func (r *Recorder) EnableDepthTest()               { r.record("EnableDepthTest") }

func (r *Recorder) UploadMesh(data gpu.MeshData) gpu.VertexArray {
	va := gpu.VertexArray{VAO: r.handle(), Count: int32(len(data.Indices))}
	r.record("UploadMesh", va.VAO, data.VertexCount(), len(data.Indices))
	return va
}

func (r *Recorder) DrawMesh(va gpu.VertexArray) {
	r.record("DrawMesh", va.VAO, r.Framebuffer, r.Program)
	r.DrawCount++
}

func (r *Recorder) DeleteMesh(va gpu.VertexArray) {
	r.record("DeleteMesh", va.VAO)
	r.Deleted[va.VAO] = true
}

func (r *Recorder) Error() uint32 {
	if len(r.PendingErrors) == 0 {
		return gpu.ErrNone
	}
	code := r.PendingErrors[0]
	r.PendingErrors = r.PendingErrors[1:]
	return code
}
