package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the lightSource array in the lighting shaders
const MaxLights = 10

var (
	ErrTooManyLights = errors.New("too many lights")
	ErrNoMaterial    = errors.New("at least one material is required")
)

// Material holds Phong shading coefficients
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

// Light is a point light. Disabled lights are skipped on upload.
type Light struct {
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Position mgl32.Vec3
	Power    float32
	Enabled  bool
}

// Store keeps the scene's lights and materials and tracks which material is
// active and which lights are switched on
type Store struct {
	materials []Material
	active    int
	lights    []Light
}

// NewStore copies materials and lights into a new store. The first material
// starts active.
func NewStore(materials []Material, lights []Light) (*Store, error) {
	if len(materials) == 0 {
		return nil, ErrNoMaterial
	}
	if len(lights) > MaxLights {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyLights, len(lights), MaxLights)
	}
	return &Store{
		materials: append([]Material(nil), materials...),
		lights:    append([]Light(nil), lights...),
	}, nil
}

// NewLightRing places n copies of template evenly on a horizontal circle
// around the Y axis, starting on +Z
func NewLightRing(n int, radius, height float32, template Light) []Light {
	if n <= 0 {
		return nil
	}
	lights := make([]Light, n)
	step := 2 * math32.Pi / float32(n)
	for i := range lights {
		sin, cos := math32.Sincos(float32(i) * step)
		l := template
		l.Position = mgl32.Vec3{radius * sin, height, radius * cos}
		l.Enabled = true
		lights[i] = l
	}
	return lights
}

// DefaultMaterials returns the single white material of the demo scene
func DefaultMaterials() []Material {
	return []Material{{
		Ambient:   mgl32.Vec3{1, 1, 1},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{1, 1, 1},
		Shininess: 5,
	}}
}

// DefaultLights returns the demo's ring of ten dim white lights
func DefaultLights() []Light {
	return NewLightRing(MaxLights, 5, 3, Light{
		Ambient:  mgl32.Vec3{0.15, 0.15, 0.15},
		Diffuse:  mgl32.Vec3{1, 1, 1},
		Specular: mgl32.Vec3{1, 1, 1},
		Power:    0.25,
	})
}

// ToggleLight flips light i and reports its new state. Out of range
// indices are ignored.
func (s *Store) ToggleLight(i int) bool {
	if i < 0 || i >= len(s.lights) {
		return false
	}
	s.lights[i].Enabled = !s.lights[i].Enabled
	return s.lights[i].Enabled
}

// CycleMaterial activates the next material, wrapping around, and returns
// its index
func (s *Store) CycleMaterial() int {
	s.active = (s.active + 1) % len(s.materials)
	return s.active
}

func (s *Store) ActiveMaterial() Material { return s.materials[s.active] }

func (s *Store) ActiveMaterialIndex() int { return s.active }

// Lights returns a copy of every light, enabled or not
func (s *Store) Lights() []Light {
	return append([]Light(nil), s.lights...)
}

// EnabledLights returns the enabled lights in store order
func (s *Store) EnabledLights() []Light {
	out := make([]Light, 0, len(s.lights))
	for _, l := range s.lights {
		if l.Enabled {
			out = append(out, l)
		}
	}
	return out
}
