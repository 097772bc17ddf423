package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"deferred-shading/internal/graphics/renderer"
	"deferred-shading/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		args []string
		want renderer.Mode
	}{
		{nil, renderer.ModeForward},
		{[]string{"0"}, renderer.ModeForward},
		{[]string{"-3"}, renderer.ModeForward},
		{[]string{"deferred"}, renderer.ModeForward},
		{[]string{"1"}, renderer.ModeDeferred},
		{[]string{"42", "ignored"}, renderer.ModeDeferred},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseMode(c.args), "%v", c.args)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Normalize())
	assert.Equal(t, 512, cfg.Window.Width)
	assert.Equal(t, 441, cfg.RendererGrid().Placements())

	lights := cfg.SceneLights()
	assert.Len(t, lights, scene.MaxLights)
	assert.Equal(t, scene.DefaultLights(), lights)
	assert.Equal(t, scene.DefaultMaterials(), cfg.SceneMaterials())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
fps_limit = 60
log_level = "debug"

[window]
width = 800

[lights]
count = 4

[[materials]]
diffuse = [1.0, 0.0, 0.0]
shininess = 32.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 512, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, 60, cfg.FPSLimit)
	assert.Len(t, cfg.SceneLights(), 4)

	mats := cfg.SceneMaterials()
	require.Len(t, mats, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mats[0].Diffuse)
	assert.Equal(t, float32(32), mats[0].Shininess)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "[window]\nfullscreen = true\n"))
	assert.ErrorContains(t, err, "fullscreen")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNormalizeClamps(t *testing.T) {
	cfg := Default()
	cfg.Lights.Count = 25
	cfg.Window.Width = 0
	cfg.Materials = nil
	cfg.FPSLimit = -1
	cfg.LogLevel = "loud"

	fixes := cfg.Normalize()
	assert.Len(t, fixes, 5)
	assert.Equal(t, scene.MaxLights, cfg.Lights.Count)
	assert.Equal(t, 512, cfg.Window.Width)
	assert.Len(t, cfg.Materials, 1)
	assert.Equal(t, 0, cfg.FPSLimit)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err := scene.NewStore(cfg.SceneMaterials(), cfg.SceneLights())
	assert.NoError(t, err)
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Normalize())

	def := Default()
	assert.Equal(t, def.Window, cfg.Window)
	assert.Equal(t, def.Assets, cfg.Assets)
	assert.Equal(t, def.SceneLights(), cfg.SceneLights())
	assert.Len(t, cfg.Materials, 2)
	assert.Equal(t, def.Materials[0], cfg.Materials[0])
}
