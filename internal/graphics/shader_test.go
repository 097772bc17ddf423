package graphics

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndLinkMarksStagesForDeletion(t *testing.T) {
	dev := gputest.New()
	m := NewShaderManager(dev, "", nil)

	p, err := m.CompileAndLink("void main(){}", "void main(){}", "vertex_pos", "vertex_normal", "vertex_texcoord")
	require.NoError(t, err)
	require.NotZero(t, p.Handle())

	attached := dev.Attached[p.ID]
	require.Len(t, attached, 2)
	for _, s := range attached {
		assert.True(t, dev.Deleted[s], "shader %d should be marked for deletion", s)
	}
	assert.Equal(t, map[uint32]string{0: "vertex_pos", 1: "vertex_normal", 2: "vertex_texcoord"}, dev.FragOutputs[p.ID])

	// outputs are bound before linking so they take effect
	assert.Less(t, dev.Index(0, "BindFragDataLocation"), dev.Index(0, "LinkProgram"))
}

func TestCompileLogIsOnlyAWarning(t *testing.T) {
	dev := gputest.New()
	dev.CompileLog = func(stage gpu.ShaderStage, source string) string {
		if stage == gpu.FragmentStage {
			return "0:3(1): warning: unused variable"
		}
		return ""
	}
	var buf bytes.Buffer
	m := NewShaderManager(dev, "", slog.New(slog.NewTextHandler(&buf, nil)))

	p, err := m.CompileAndLink("v", "f")
	require.NoError(t, err)
	assert.NotZero(t, p.Handle())
	assert.Contains(t, buf.String(), "compiler log")
}

func TestLinkLogFailsTheProgram(t *testing.T) {
	dev := gputest.New()
	dev.LinkLog = "error: fragment shader lacks main"
	m := NewShaderManager(dev, "", nil)

	p, err := m.CompileAndLink("v", "f")
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrLink))
	assert.Contains(t, err.Error(), "lacks main")
	assert.Equal(t, 1, dev.Count("DeleteProgram"))
}

func TestZeroStageHandleAbortsAndFreesProgram(t *testing.T) {
	for _, stage := range []gpu.ShaderStage{gpu.VertexStage, gpu.FragmentStage} {
		t.Run(stage.String(), func(t *testing.T) {
			dev := gputest.New()
			dev.FailStage[stage] = true
			m := NewShaderManager(dev, "", nil)

			p, err := m.CompileAndLink("v", "f")
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrShaderStage)
			assert.Zero(t, dev.Count("LinkProgram"))
			assert.Zero(t, dev.Count("AttachShader"))
			assert.Equal(t, 1, dev.Count("DeleteProgram"))
		})
	}
}

func TestZeroProgramHandle(t *testing.T) {
	dev := gputest.New()
	dev.FailCreateProgram = true
	m := NewShaderManager(dev, "", nil)

	_, err := m.CompileAndLink("v", "f")
	assert.ErrorIs(t, err, ErrProgramCreate)
	assert.Zero(t, dev.Count("CreateShader"))
}

func TestLoadMissingFileNeverCreatesProgram(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vert"), []byte("void main(){}"), 0o644))

	dev := gputest.New()
	m := NewShaderManager(dev, dir, nil)

	_, err := m.Load("a.vert", "missing.frag")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, dev.Count("CreateProgram"))
}

func TestLoadReadsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vert"), []byte("void main(){}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.frag"), []byte("void main(){}"), 0o644))

	dev := gputest.New()
	m := NewShaderManager(dev, dir, nil)
	p, err := m.Load("a.vert", "a.frag", "color")
	require.NoError(t, err)
	assert.Equal(t, "color", dev.FragOutputs[p.ID][0])
}

func TestMissingUniformIsSentinel(t *testing.T) {
	dev := gputest.New()
	dev.Missing["unused"] = true
	m := NewShaderManager(dev, "", nil)
	p, err := m.CompileAndLink("v", "f")
	require.NoError(t, err)

	p.Use()
	u := p.Uniform("unused")
	assert.Equal(t, gpu.NoUniform, u)
	// harmless write
	dev.Uniform1f(u, 3)
	assert.True(t, p.Uniform("projection").Valid())
}

func TestDeleteAll(t *testing.T) {
	dev := gputest.New()
	m := NewShaderManager(dev, "", nil)
	a, _ := m.CompileAndLink("v", "f")
	b, _ := m.CompileAndLink("v", "f")

	m.DeleteAll()
	assert.Zero(t, dev.Program)
	assert.True(t, dev.Deleted[a.ID])
	assert.True(t, dev.Deleted[b.ID])
}

func TestStructUniform(t *testing.T) {
	assert.Equal(t, "lightSource[3].ambient_color", StructUniform("lightSource", "ambient_color", 3))
	assert.Equal(t, "material.specular_shininess", StructUniform("material", "specular_shininess", -1))
}
