package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"deferred-shading/internal/graphics/renderer"
	"deferred-shading/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Window holds window configuration
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Assets are paths resolved relative to the working directory
type Assets struct {
	ShaderDir      string `toml:"shader_dir"`
	Mesh           string `toml:"mesh"`
	DiffuseTexture string `toml:"diffuse_texture"`
	NormalTexture  string `toml:"normal_texture"`
}

// Grid places copies of the mesh on the XZ plane
type Grid struct {
	HalfExtent int     `toml:"half_extent"`
	Spacing    float32 `toml:"spacing"`
	Scale      float32 `toml:"scale"`
}

// LightRing describes identical point lights on a circle around the Y axis
type LightRing struct {
	Count    int        `toml:"count"`
	Radius   float32    `toml:"radius"`
	Height   float32    `toml:"height"`
	Ambient  [3]float32 `toml:"ambient"`
	Diffuse  [3]float32 `toml:"diffuse"`
	Specular [3]float32 `toml:"specular"`
	Power    float32    `toml:"power"`
}

type Material struct {
	Ambient   [3]float32 `toml:"ambient"`
	Diffuse   [3]float32 `toml:"diffuse"`
	Specular  [3]float32 `toml:"specular"`
	Shininess float32    `toml:"shininess"`
}

// Camera is the starting orbit position
type Camera struct {
	Phi    float32 `toml:"phi"`
	Theta  float32 `toml:"theta"`
	Radius float32 `toml:"radius"`
	Far    float32 `toml:"far"`
}

// Config is the full application configuration
type Config struct {
	Window    Window     `toml:"window"`
	Assets    Assets     `toml:"assets"`
	Grid      Grid       `toml:"grid"`
	Lights    LightRing  `toml:"lights"`
	Materials []Material `toml:"materials"`
	Camera    Camera     `toml:"camera"`

	FPSLimit     int    `toml:"fps_limit"` // 0 = unlimited
	DebugGL      bool   `toml:"debug_gl"`
	WatchShaders bool   `toml:"watch_shaders"`
	LogLevel     string `toml:"log_level"`
}

// Default returns the built-in demo configuration
func Default() Config {
	return Config{
		Window: Window{Width: 512, Height: 512, Title: "Exercise 09 - Deferred Shading", VSync: true},
		Assets: Assets{
			ShaderDir:      "assets/shaders",
			Mesh:           "assets/meshes/cube.obj",
			DiffuseTexture: "assets/textures/diffuse.png",
			NormalTexture:  "assets/textures/normals.png",
		},
		Grid: Grid{HalfExtent: 10, Spacing: 1, Scale: 2},
		Lights: LightRing{
			Count:    scene.MaxLights,
			Radius:   5,
			Height:   3,
			Ambient:  [3]float32{0.15, 0.15, 0.15},
			Diffuse:  [3]float32{1, 1, 1},
			Specular: [3]float32{1, 1, 1},
			Power:    0.25,
		},
		Materials: []Material{{
			Ambient:   [3]float32{1, 1, 1},
			Diffuse:   [3]float32{1, 1, 1},
			Specular:  [3]float32{1, 1, 1},
			Shininess: 5,
		}},
		Camera:   Camera{Phi: 0, Theta: mgl32.DegToRad(45), Radius: 10, Far: 1000},
		FPSLimit: 0,
		LogLevel: "info",
	}
}

// Load overlays the TOML file at path onto the defaults. An empty path
// returns the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	// [[materials]] tables replace the default list rather than extend it
	defaultMaterials := cfg.Materials
	cfg.Materials = nil
	err = decode(f, &cfg)
	if cfg.Materials == nil {
		cfg.Materials = defaultMaterials
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strict.String())
	}
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

// Normalize clamps out-of-range values in place and describes each change
func (c *Config) Normalize() []string {
	var fixes []string
	def := Default()

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fixes = append(fixes, fmt.Sprintf("window %dx%d invalid, using %dx%d",
			c.Window.Width, c.Window.Height, def.Window.Width, def.Window.Height))
		c.Window.Width, c.Window.Height = def.Window.Width, def.Window.Height
	}
	if c.Lights.Count > scene.MaxLights {
		fixes = append(fixes, fmt.Sprintf("lights.count %d clamped to %d", c.Lights.Count, scene.MaxLights))
		c.Lights.Count = scene.MaxLights
	}
	if c.Lights.Count < 0 {
		fixes = append(fixes, "lights.count negative, using 0")
		c.Lights.Count = 0
	}
	if len(c.Materials) == 0 {
		fixes = append(fixes, "no materials, using default")
		c.Materials = def.Materials
	}
	if c.Grid.HalfExtent < 0 {
		fixes = append(fixes, "grid.half_extent negative, using 0")
		c.Grid.HalfExtent = 0
	}
	if c.FPSLimit < 0 {
		fixes = append(fixes, "fps_limit negative, using unlimited")
		c.FPSLimit = 0
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		fixes = append(fixes, fmt.Sprintf("log_level %q unknown, using info", c.LogLevel))
		c.LogLevel = "info"
	}
	return fixes
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}

// ParseMode picks the shading mode from the positional arguments: a first
// argument that parses to an integer greater than zero selects deferred
// shading, anything else forward shading.
func ParseMode(args []string) renderer.Mode {
	if len(args) == 0 {
		return renderer.ModeForward
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n <= 0 {
		return renderer.ModeForward
	}
	return renderer.ModeDeferred
}

func vec3(v [3]float32) mgl32.Vec3 { return mgl32.Vec3(v) }

// SceneMaterials converts the configured materials
func (c Config) SceneMaterials() []scene.Material {
	out := make([]scene.Material, len(c.Materials))
	for i, m := range c.Materials {
		out[i] = scene.Material{
			Ambient:   vec3(m.Ambient),
			Diffuse:   vec3(m.Diffuse),
			Specular:  vec3(m.Specular),
			Shininess: m.Shininess,
		}
	}
	return out
}

// SceneLights builds the configured light ring
func (c Config) SceneLights() []scene.Light {
	l := c.Lights
	return scene.NewLightRing(l.Count, l.Radius, l.Height, scene.Light{
		Ambient:  vec3(l.Ambient),
		Diffuse:  vec3(l.Diffuse),
		Specular: vec3(l.Specular),
		Power:    l.Power,
	})
}

func (c Config) RendererGrid() renderer.Grid {
	return renderer.Grid{HalfExtent: c.Grid.HalfExtent, Spacing: c.Grid.Spacing, Scale: c.Grid.Scale}
}
