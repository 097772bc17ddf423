package scene

import (
	"deferred-shading/internal/graphics"
	"deferred-shading/internal/graphics/gpu"
)

type LightUniforms struct {
	Ambient  gpu.Uniform
	Diffuse  gpu.Uniform
	Specular gpu.Uniform
	Power    gpu.Uniform
	Position gpu.Uniform
}

type MaterialUniforms struct {
	Ambient   gpu.Uniform
	Diffuse   gpu.Uniform
	Specular  gpu.Uniform
	Shininess gpu.Uniform
}

// LightingUniforms are the light and material locations of one program
type LightingUniforms struct {
	Lights     [MaxLights]LightUniforms
	LightCount gpu.Uniform
	Material   MaterialUniforms
}

// UniformResolver looks up uniform locations of a linked program
type UniformResolver interface {
	Uniform(name string) gpu.Uniform
}

// ResolveLightingUniforms queries the lightSource[], usedLightCount and
// material uniforms. The program must be bound.
func ResolveLightingUniforms(r UniformResolver) LightingUniforms {
	var u LightingUniforms
	for i := range u.Lights {
		u.Lights[i] = LightUniforms{
			Ambient:  r.Uniform(graphics.StructUniform("lightSource", "ambient_color", i)),
			Diffuse:  r.Uniform(graphics.StructUniform("lightSource", "diffuse_color", i)),
			Specular: r.Uniform(graphics.StructUniform("lightSource", "specular_color", i)),
			Power:    r.Uniform(graphics.StructUniform("lightSource", "power", i)),
			Position: r.Uniform(graphics.StructUniform("lightSource", "position", i)),
		}
	}
	u.LightCount = r.Uniform("usedLightCount")
	u.Material = MaterialUniforms{
		Ambient:   r.Uniform(graphics.StructUniform("material", "ambient_color", -1)),
		Diffuse:   r.Uniform(graphics.StructUniform("material", "diffuse_color", -1)),
		Specular:  r.Uniform(graphics.StructUniform("material", "specular_color", -1)),
		Shininess: r.Uniform(graphics.StructUniform("material", "specular_shininess", -1)),
	}
	return u
}

// NoLightingUniforms is the set for a program that failed to build
func NoLightingUniforms() LightingUniforms {
	u := LightingUniforms{LightCount: gpu.NoUniform}
	for i := range u.Lights {
		u.Lights[i] = LightUniforms{gpu.NoUniform, gpu.NoUniform, gpu.NoUniform, gpu.NoUniform, gpu.NoUniform}
	}
	u.Material = MaterialUniforms{gpu.NoUniform, gpu.NoUniform, gpu.NoUniform, gpu.NoUniform}
	return u
}

// UploadActive writes the enabled lights to consecutive shader slots starting
// at 0, then the slot count and the active material. It returns the number of
// lights uploaded.
func (s *Store) UploadActive(w gpu.UniformWriter, u LightingUniforms) int {
	slot := 0
	for _, l := range s.lights {
		if !l.Enabled {
			continue
		}
		if slot == MaxLights {
			break
		}
		lu := u.Lights[slot]
		w.Uniform3f(lu.Position, l.Position)
		w.Uniform3f(lu.Ambient, l.Ambient)
		w.Uniform3f(lu.Diffuse, l.Diffuse)
		w.Uniform3f(lu.Specular, l.Specular)
		w.Uniform1f(lu.Power, l.Power)
		slot++
	}
	w.Uniform1i(u.LightCount, int32(slot))

	m := s.ActiveMaterial()
	w.Uniform3f(u.Material.Ambient, m.Ambient)
	w.Uniform3f(u.Material.Diffuse, m.Diffuse)
	w.Uniform3f(u.Material.Specular, m.Specular)
	w.Uniform1f(u.Material.Shininess, m.Shininess)
	return slot
}
