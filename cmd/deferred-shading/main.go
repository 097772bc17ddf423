// Command deferred-shading renders a grid of normal-mapped meshes lit by a
// ring of point lights, using forward shading or, when the first argument is
// a number greater than zero, two-pass deferred shading.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"runtime"

	"deferred-shading/internal/app"
	"deferred-shading/internal/config"
	"deferred-shading/internal/graphics"
	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/gpu/opengl"
	"deferred-shading/internal/graphics/mesh"
	"deferred-shading/internal/graphics/renderer"
	"deferred-shading/internal/input"
	"deferred-shading/internal/profiling"
	"deferred-shading/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	watch := flag.Bool("watch", false, "rebuild shaders when their sources change")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: deferred-shading [flags] [mode]\n\nmode > 0 selects deferred shading\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		closer.Fatalln(err)
	}
	fixes := cfg.Normalize()
	logger := setupLogger(cfg.LogLevel)
	for _, fix := range fixes {
		logger.Warn("config adjusted", "fix", fix)
	}
	mode := config.ParseMode(flag.Args())

	if err := run(cfg, mode, *watch || cfg.WatchShaders, logger); err != nil {
		logger.Error("exit", "err", err)
		closer.Fatalln(err)
	}
	closer.Close()
}

// run owns every GL resource; they are released here on the render thread
// before closer's cleanup runs
func run(cfg config.Config, mode renderer.Mode, watch bool, logger *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return fmt.Errorf("opengl: %w", err)
	}
	logger.Info("opengl", "version", dev.Version(), "mode", mode)

	textures := graphics.NewTextureRegistry(dev, logger)
	defer textures.Dispose()
	if n := loadTextures(textures, cfg.Assets); n < 2 {
		logger.Warn("rendering with missing textures", "loaded", n)
	}

	meshes := mesh.NewProvider(dev, logger)
	defer meshes.Dispose()
	m, err := meshes.Load(cfg.Assets.Mesh, "model")
	if err != nil {
		return err
	}

	store, err := scene.NewStore(cfg.SceneMaterials(), cfg.SceneLights())
	if err != nil {
		return err
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	camera := graphics.NewOrbitCamera(fbWidth, fbHeight, cfg.Camera.Phi, cfg.Camera.Theta, cfg.Camera.Radius)
	camera.FarPlane = cfg.Camera.Far

	profiler := profiling.New()
	pipeline, err := renderer.New(dev, textures, store, m, renderer.Options{
		Mode:      mode,
		ShaderDir: cfg.Assets.ShaderDir,
		Width:     fbWidth,
		Height:    fbHeight,
		Grid:      cfg.RendererGrid(),
		Logger:    logger,
		Profiler:  profiler,
	})
	if err != nil {
		return err
	}
	defer pipeline.Dispose()
	if !pipeline.Ready() {
		logger.Warn("rendering without a complete program set", "mode", mode)
	}
	gpu.DrainErrors(dev, logger, "init")

	var watcher *graphics.ShaderWatcher
	if watch {
		watcher, err = graphics.NewShaderWatcher(cfg.Assets.ShaderDir, logger)
		if err != nil {
			logger.Warn("shader hot reload disabled", "err", err)
		} else {
			closer.Bind(func() { watcher.Close() })
		}
	}

	a := app.New(app.Options{
		Window:   window,
		Input:    input.NewInputManager(),
		Device:   dev,
		Camera:   camera,
		Store:    store,
		Pipeline: pipeline,
		Watcher:  watcher,
		Profiler: profiler,
		Logger:   logger,
		FPSLimit: cfg.FPSLimit,
		DebugGL:  cfg.DebugGL,
	})
	a.Run()
	return nil
}
