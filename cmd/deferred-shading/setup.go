package main

import (
	"log/slog"
	"os"

	"deferred-shading/internal/config"
	"deferred-shading/internal/graphics"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupLogger(level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// loadTextures reads the material textures. A texture that fails to load
// stays uninitialized and binds as nothing; the registry logs the failure.
func loadTextures(textures *graphics.TextureRegistry, assets config.Assets) int {
	files := []struct {
		id   graphics.TextureID
		path string
	}{
		{graphics.TextureDiffuse, assets.DiffuseTexture},
		{graphics.TextureNormalMap, assets.NormalTexture},
	}
	loaded := 0
	for _, f := range files {
		if _, err := textures.CreateFromFile(f.id, f.path); err == nil {
			loaded++
		}
	}
	return loaded
}
