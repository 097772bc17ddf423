package renderer

import (
	"errors"
	"fmt"

	"deferred-shading/internal/graphics"
	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/scene"
)

// Shader file names, relative to the shader directory
const (
	ForwardVertShader   = "normal_mapping.vert"
	ForwardFragShader   = "normal_mapping.frag"
	GeometryVertShader  = "deferred_pass1.vert"
	GeometryFragShader  = "deferred_pass1.frag"
	CompositeVertShader = "deferred_pass2.vert"
	CompositeFragShader = "deferred_pass2.frag"
)

// Fragment outputs, in draw buffer order
var (
	colorOutputs    = []string{"color"}
	geometryOutputs = []string{"vertex_pos", "vertex_normal", "vertex_texcoord"}
)

// Sampler uniform names
const (
	samplerDiffuse   = "diffuseTexture"
	samplerNormalMap = "normalMap"
)

var gbufferSamplers = [3]string{"def_vertexMap", "def_normalMap", "def_texCoordMap"}

// Texture units
const (
	forwardDiffuseUnit = 0
	forwardNormalUnit  = 1
	geometryNormalUnit = 0
	compositeDiffuse   = 0
)

var compositeGBufferUnits = [3]int{1, 2, 3}

type forwardUniforms struct {
	projection gpu.Uniform
	modelView  gpu.Uniform
	view       gpu.Uniform
	diffuse    gpu.Uniform
	normalMap  gpu.Uniform
	lighting   scene.LightingUniforms
}

type geometryUniforms struct {
	projection gpu.Uniform
	modelView  gpu.Uniform
	normalMap  gpu.Uniform
}

type compositeUniforms struct {
	projection gpu.Uniform
	modelView  gpu.Uniform
	view       gpu.Uniform
	diffuse    gpu.Uniform
	gbuffer    [3]gpu.Uniform
	lighting   scene.LightingUniforms
}

// programSet holds the programs of one mode. A program that failed to build
// is nil and its uniforms are all gpu.NoUniform.
type programSet struct {
	forward  *graphics.Program
	fwd      forwardUniforms
	geometry *graphics.Program
	geo      geometryUniforms
	compose  *graphics.Program
	comp     compositeUniforms
}

func emptyProgramSet() *programSet {
	return &programSet{
		fwd:  resolveForward(nil),
		geo:  resolveGeometry(nil),
		comp: resolveComposite(nil),
	}
}

func (s *programSet) ready(mode Mode) bool {
	if mode == ModeForward {
		return s.forward != nil
	}
	return s.geometry != nil && s.compose != nil
}

func (s *programSet) all() []*graphics.Program {
	var out []*graphics.Program
	for _, p := range []*graphics.Program{s.forward, s.geometry, s.compose} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// buildPrograms compiles the programs mode needs and resolves their uniforms.
// Every program is attempted; failures are joined into the returned error.
func buildPrograms(shaders *graphics.ShaderManager, mode Mode) (*programSet, error) {
	set := emptyProgramSet()
	var errs []error

	switch mode {
	case ModeForward:
		p, err := shaders.Load(ForwardVertShader, ForwardFragShader, colorOutputs...)
		if err != nil {
			errs = append(errs, fmt.Errorf("forward program: %w", err))
		} else {
			set.forward, set.fwd = p, resolveForward(p)
		}

	case ModeDeferred:
		p, err := shaders.Load(GeometryVertShader, GeometryFragShader, geometryOutputs...)
		if err != nil {
			errs = append(errs, fmt.Errorf("geometry program: %w", err))
		} else {
			set.geometry, set.geo = p, resolveGeometry(p)
		}

		p, err = shaders.Load(CompositeVertShader, CompositeFragShader, colorOutputs...)
		if err != nil {
			errs = append(errs, fmt.Errorf("composite program: %w", err))
		} else {
			set.compose, set.comp = p, resolveComposite(p)
		}
	}
	return set, errors.Join(errs...)
}

// uniformOf resolves name on p, or gpu.NoUniform for a nil program
func uniformOf(p *graphics.Program, name string) gpu.Uniform {
	if p == nil {
		return gpu.NoUniform
	}
	return p.Uniform(name)
}

func lightingOf(p *graphics.Program) scene.LightingUniforms {
	if p == nil {
		return scene.NoLightingUniforms()
	}
	return scene.ResolveLightingUniforms(p)
}

// The resolve functions bind p first; location queries are only meaningful
// against the current program.

func resolveForward(p *graphics.Program) forwardUniforms {
	if p != nil {
		p.Use()
	}
	return forwardUniforms{
		projection: uniformOf(p, "projection"),
		modelView:  uniformOf(p, "modelview"),
		view:       uniformOf(p, "view"),
		diffuse:    uniformOf(p, samplerDiffuse),
		normalMap:  uniformOf(p, samplerNormalMap),
		lighting:   lightingOf(p),
	}
}

func resolveGeometry(p *graphics.Program) geometryUniforms {
	if p != nil {
		p.Use()
	}
	return geometryUniforms{
		projection: uniformOf(p, "projection"),
		modelView:  uniformOf(p, "modelview"),
		normalMap:  uniformOf(p, samplerNormalMap),
	}
}

func resolveComposite(p *graphics.Program) compositeUniforms {
	if p != nil {
		p.Use()
	}
	u := compositeUniforms{
		projection: uniformOf(p, "projection"),
		modelView:  uniformOf(p, "modelview"),
		view:       uniformOf(p, "view"),
		diffuse:    uniformOf(p, samplerDiffuse),
		lighting:   lightingOf(p),
	}
	for i, name := range gbufferSamplers {
		u.gbuffer[i] = uniformOf(p, name)
	}
	return u
}
