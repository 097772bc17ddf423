package graphics

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"deferred-shading/internal/graphics/gpu"
)

var (
	ErrProgramCreate = errors.New("could not create shader program")
	ErrShaderStage   = errors.New("could not create shader stage")
	ErrLink          = errors.New("shader program failed to link")
)

// Program is a linked GPU shader program
type Program struct {
	ID  uint32
	dev gpu.Device
}

// Handle returns the GL name, or 0 for a nil program
func (p *Program) Handle() uint32 {
	if p == nil {
		return 0
	}
	return p.ID
}

// Use binds the program. Uniform writes and location queries after this
// call apply to p.
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// Uniform resolves a uniform location, gpu.NoUniform if the linked program
// does not use name
func (p *Program) Uniform(name string) gpu.Uniform {
	return p.dev.UniformLocation(p.ID, name)
}

// StructUniform builds the GLSL name of a struct member, optionally indexed:
// StructUniform("lightSource", "power", 2) == "lightSource[2].power".
// A negative index omits the subscript.
func StructUniform(structName, member string, index int) string {
	if index < 0 {
		return structName + "." + member
	}
	return structName + "[" + strconv.Itoa(index) + "]." + member
}

// ShaderManager compiles, links and owns the programs of one pipeline
type ShaderManager struct {
	dev      gpu.Device
	dir      string
	logger   *slog.Logger
	programs []*Program
}

// NewShaderManager creates a manager loading sources relative to dir
func NewShaderManager(dev gpu.Device, dir string, logger *slog.Logger) *ShaderManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ShaderManager{dev: dev, dir: dir, logger: logger}
}

// LoadSource reads a shader source file whole
func LoadSource(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read shader file: %w", err)
	}
	return string(source), nil
}

// Load reads the two named stage files from the manager's directory and
// builds a program from them. outputs[i] is bound to draw buffer i.
func (m *ShaderManager) Load(vertexFile, fragmentFile string, outputs ...string) (*Program, error) {
	vertexSource, err := LoadSource(filepath.Join(m.dir, vertexFile))
	if err != nil {
		m.logger.Error("vertex shader unavailable", "file", vertexFile, "err", err)
		return nil, err
	}
	fragmentSource, err := LoadSource(filepath.Join(m.dir, fragmentFile))
	if err != nil {
		m.logger.Error("fragment shader unavailable", "file", fragmentFile, "err", err)
		return nil, err
	}

	p, err := m.CompileAndLink(vertexSource, fragmentSource, outputs...)
	if err != nil {
		return nil, fmt.Errorf("%s + %s: %w", vertexFile, fragmentFile, err)
	}
	return p, nil
}

// CompileAndLink builds a program from two sources.
//
// A stage that compiles with a non-empty log is reported and still used. A
// stage object that cannot be created aborts the build. A non-empty link
// log is treated as failure.
func (m *ShaderManager) CompileAndLink(vertexSource, fragmentSource string, outputs ...string) (*Program, error) {
	program := m.dev.CreateProgram()
	if program == 0 {
		return nil, ErrProgramCreate
	}

	vertexShader, err := m.compileShader(vertexSource, gpu.VertexStage)
	if err != nil {
		m.dev.DeleteProgram(program)
		return nil, err
	}
	fragmentShader, err := m.compileShader(fragmentSource, gpu.FragmentStage)
	if err != nil {
		m.dev.DeleteShader(vertexShader)
		m.dev.DeleteProgram(program)
		return nil, err
	}

	m.dev.AttachShader(program, vertexShader)
	m.dev.AttachShader(program, fragmentShader)
	// released once no program references them
	m.dev.DeleteShader(vertexShader)
	m.dev.DeleteShader(fragmentShader)

	for i, name := range outputs {
		m.dev.BindFragDataLocation(program, uint32(i), name)
	}

	if log := m.dev.LinkProgram(program); log != "" {
		m.logger.Error("linker log", "program", program, "log", log)
		m.dev.DeleteProgram(program)
		return nil, fmt.Errorf("%w: %s", ErrLink, log)
	}

	p := &Program{ID: program, dev: m.dev}
	m.programs = append(m.programs, p)
	return p, nil
}

func (m *ShaderManager) compileShader(source string, stage gpu.ShaderStage) (uint32, error) {
	shader := m.dev.CreateShader(stage)
	if shader == 0 {
		return 0, fmt.Errorf("%w: %s", ErrShaderStage, stage)
	}
	// may have compiled with errors, linking decides
	if log := m.dev.CompileShader(shader, source); log != "" {
		m.logger.Warn("compiler log", "stage", stage.String(), "log", log)
	}
	return shader, nil
}

// Delete releases one program owned by the manager
func (m *ShaderManager) Delete(p *Program) {
	if p == nil {
		return
	}
	for i, owned := range m.programs {
		if owned == p {
			m.programs = append(m.programs[:i], m.programs[i+1:]...)
			break
		}
	}
	m.dev.DeleteProgram(p.ID)
}

// DeleteAll unbinds any program and deletes every program built so far
func (m *ShaderManager) DeleteAll() {
	m.dev.UseProgram(0)
	for _, p := range m.programs {
		m.dev.DeleteProgram(p.ID)
	}
	m.programs = nil
}
