package app

import (
	"log/slog"
	"time"

	"deferred-shading/internal/graphics"
	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/renderer"
	"deferred-shading/internal/input"
	"deferred-shading/internal/profiling"
	"deferred-shading/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	slowFrame   = 16 * time.Millisecond
	fpsInterval = time.Second
)

// Options wires an App to the objects main created
type Options struct {
	Window   *glfw.Window
	Input    *input.InputManager
	Device   gpu.Device
	Camera   *graphics.OrbitCamera
	Store    *scene.Store
	Pipeline *renderer.Pipeline
	Watcher  *graphics.ShaderWatcher // optional
	Profiler *profiling.Profiler
	Logger   *slog.Logger

	FPSLimit int
	DebugGL  bool
}

// App owns the frame loop
type App struct {
	window       *glfw.Window
	inputManager *input.InputManager
	dev          gpu.Device
	camera       *graphics.OrbitCamera
	store        *scene.Store
	pipeline     *renderer.Pipeline
	watcher      *graphics.ShaderWatcher
	profiler     *profiling.Profiler
	logger       *slog.Logger
	fpsLimiter   *FPSLimiter
	debugGL      bool

	frames           int
	lastFPSCheckTime time.Time
	lastStats        renderer.FrameStats
}

func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		window:           opts.Window,
		inputManager:     opts.Input,
		dev:              opts.Device,
		camera:           opts.Camera,
		store:            opts.Store,
		pipeline:         opts.Pipeline,
		watcher:          opts.Watcher,
		profiler:         opts.Profiler,
		logger:           logger,
		fpsLimiter:       NewFPSLimiter(opts.FPSLimit),
		debugGL:          opts.DebugGL,
		lastFPSCheckTime: time.Now(),
	}
	SetupInputHandlers(a)
	return a
}

// Run loops until the window is asked to close
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	a.profiler.ResetFrame()
	startTick := time.Now()

	func() { defer a.profiler.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	a.update()
	a.render()

	func() { defer a.profiler.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	if d := time.Since(startTick); d > slowFrame {
		a.logger.Debug("slow frame", "took", d, "top", a.profiler.TopN(5))
	}

	a.inputManager.PostUpdate()
	a.countFrame(startTick)
	a.fpsLimiter.Wait()
}

func (a *App) update() {
	cmd := ApplyControls(a.inputManager, a.camera, a.store)
	for _, i := range cmd.ToggledLights {
		a.logger.Debug("light toggled", "light", i+1, "enabled", a.store.Lights()[i].Enabled)
	}
	if cmd.MaterialChange {
		a.logger.Debug("material", "index", a.store.ActiveMaterialIndex())
	}

	if cmd.ReloadShaders {
		a.reloadShaders("key")
	} else if a.watcher != nil {
		if name, ok := a.watcher.Changed(); ok {
			a.reloadShaders(name)
		}
	}

	if cmd.Quit {
		a.window.SetShouldClose(true)
	}
}

func (a *App) reloadShaders(trigger string) {
	if err := a.pipeline.Reload(); err != nil {
		a.logger.Error("shader reload failed", "trigger", trigger, "err", err)
	}
}

func (a *App) render() {
	a.lastStats = a.pipeline.Render(a.camera)
	if a.debugGL {
		gpu.DrainErrors(a.dev, a.logger, "frame")
	}
}

// countFrame reports the frame rate once per interval
func (a *App) countFrame(now time.Time) {
	a.frames++
	if elapsed := now.Sub(a.lastFPSCheckTime); elapsed >= fpsInterval {
		fps := float64(a.frames) / elapsed.Seconds()
		a.logger.Debug("fps", "fps", int(fps+0.5), "mode", a.lastStats.Mode, "draws", a.lastStats.DrawCalls)
		a.frames = 0
		a.lastFPSCheckTime = now
	}
}

// RefreshRender repaints during a live resize
func (a *App) RefreshRender() {
	a.render()
	a.window.SwapBuffers()
}
