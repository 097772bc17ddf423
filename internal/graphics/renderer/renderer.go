package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"deferred-shading/internal/graphics"
	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/mesh"
	"deferred-shading/internal/profiling"
	"deferred-shading/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoMesh = errors.New("renderer needs a mesh")

// Options configure a Pipeline
type Options struct {
	Mode      Mode
	ShaderDir string
	Width     int
	Height    int
	Grid      Grid
	Logger    *slog.Logger
	Profiler  *profiling.Profiler
}

// Pipeline renders the mesh grid with forward or deferred shading
type Pipeline struct {
	dev      gpu.Device
	mode     Mode
	grid     Grid
	logger   *slog.Logger
	profiler *profiling.Profiler

	shaders  *graphics.ShaderManager
	programs *programSet
	textures *graphics.TextureRegistry
	store    *scene.Store
	mesh     Renderable

	gbuffer *graphics.GBuffer
	quad    *mesh.Mesh

	projection *graphics.MatrixStack
	modelView  *graphics.MatrixStack

	width, height int
	drawCalls     int
}

// New builds the programs for opts.Mode and, for deferred shading, the
// G-buffer. A program that fails to build is logged and left out; Ready
// reports false and frames render without it. An incomplete G-buffer is
// returned as an error.
func New(dev gpu.Device, textures *graphics.TextureRegistry, store *scene.Store, m Renderable, opts Options) (*Pipeline, error) {
	if m == nil {
		return nil, ErrNoMesh
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pipeline{
		dev:        dev,
		mode:       opts.Mode,
		grid:       opts.Grid,
		logger:     logger,
		profiler:   opts.Profiler,
		shaders:    graphics.NewShaderManager(dev, opts.ShaderDir, logger),
		textures:   textures,
		store:      store,
		mesh:       m,
		projection: graphics.NewMatrixStack(),
		modelView:  graphics.NewMatrixStack(),
		width:      opts.Width,
		height:     opts.Height,
	}

	dev.EnableDepthTest()
	dev.ClearColor(0, 0, 0, 0)

	programs, err := buildPrograms(p.shaders, p.mode)
	if err != nil {
		logger.Error("shader programs failed", "mode", p.mode, "err", err)
	}
	p.programs = programs
	dev.UseProgram(0)

	if p.mode == ModeDeferred {
		p.gbuffer = graphics.NewGBuffer(dev, textures)
		if err := p.gbuffer.Initialize(p.width, p.height); err != nil {
			p.shaders.DeleteAll()
			return nil, err
		}
	}

	logger.Info("renderer ready", "mode", p.mode, "programs", len(programs.all()),
		"width", p.width, "height", p.height)
	return p, nil
}

// Mode returns the shading mode chosen at construction
func (p *Pipeline) Mode() Mode { return p.mode }

// Ready reports whether every program of the mode built successfully
func (p *Pipeline) Ready() bool { return p.programs.ready(p.mode) }

// Render draws one frame to the default framebuffer
func (p *Pipeline) Render(cam Camera) FrameStats {
	p.drawCalls = 0

	p.dev.Viewport(p.width, p.height)
	p.dev.Clear()
	p.projection.SetTop(cam.ProjectionMatrix())
	p.modelView.SetTop(cam.ViewMatrix())

	placements := 0
	switch p.mode {
	case ModeForward:
		placements = p.renderForward()
	case ModeDeferred:
		placements = p.renderGeometry()
		p.renderComposite()
	}

	return FrameStats{Mode: p.mode, Placements: placements, DrawCalls: p.drawCalls}
}

func (p *Pipeline) renderForward() int {
	defer p.profiler.Track("renderer.forward")()

	u := &p.programs.fwd
	p.dev.UseProgram(p.programs.forward.Handle())
	p.dev.UniformMat4(u.projection, p.projection.Top())
	p.dev.UniformMat4(u.view, p.modelView.Top())
	p.store.UploadActive(p.dev, u.lighting)

	p.textures.Bind(graphics.TextureDiffuse, forwardDiffuseUnit, u.diffuse)
	p.textures.Bind(graphics.TextureNormalMap, forwardNormalUnit, u.normalMap)

	return p.drawPlacedGeometry(func(modelView mgl32.Mat4) {
		p.dev.UniformMat4(u.modelView, modelView)
	})
}

// renderGeometry fills the G-buffer with positions, normals and texture
// coordinates of the grid
func (p *Pipeline) renderGeometry() int {
	defer p.profiler.Track("renderer.geometry")()

	u := &p.programs.geo
	p.dev.UseProgram(p.programs.geometry.Handle())
	p.gbuffer.BindForWriting()
	defer p.gbuffer.Unbind()

	p.textures.Bind(graphics.TextureNormalMap, geometryNormalUnit, u.normalMap)
	p.dev.Clear()
	p.dev.UniformMat4(u.projection, p.projection.Top())

	return p.drawPlacedGeometry(func(modelView mgl32.Mat4) {
		p.dev.UniformMat4(u.modelView, modelView)
	})
}

// renderComposite lights a screen-filling quad from the G-buffer
func (p *Pipeline) renderComposite() {
	defer p.profiler.Track("renderer.composite")()

	u := &p.programs.comp
	p.dev.UseProgram(p.programs.compose.Handle())

	// lights are positioned in the camera's space
	lightView := p.modelView.Top()

	p.projection.Scoped(func() {
		p.projection.SetTop(mgl32.Ortho2D(0, 1, 0, 1))
		p.modelView.Scoped(func() {
			p.modelView.SetTop(mgl32.Ident4())

			p.dev.UniformMat4(u.projection, p.projection.Top())
			p.dev.UniformMat4(u.modelView, p.modelView.Top())
			p.dev.UniformMat4(u.view, lightView)
			p.store.UploadActive(p.dev, u.lighting)

			p.textures.Bind(graphics.TextureDiffuse, compositeDiffuse, u.diffuse)
			if err := p.gbuffer.BindForReading(compositeGBufferUnits, u.gbuffer); err != nil {
				p.logger.Error("composite skipped", "err", err)
				return
			}

			if p.quad == nil {
				p.quad = mesh.Upload(p.dev, "screenQuad", mesh.Quad())
			}
			p.draw(p.quad)
		})
	})
}

// drawPlacedGeometry draws the mesh once per grid cell. Each cell gets its own
// model-view scope; upload receives the cell's matrix before the draw.
func (p *Pipeline) drawPlacedGeometry(upload func(modelView mgl32.Mat4)) int {
	h := p.grid.HalfExtent
	spacing, scale := p.grid.Spacing, p.grid.Scale
	n := 0
	for y := -h; y <= h; y++ {
		for x := -h; x <= h; x++ {
			p.modelView.Scoped(func() {
				p.modelView.Mul(mgl32.Translate3D(float32(x)*spacing, 0, float32(y)*spacing))
				p.modelView.Mul(mgl32.Scale3D(scale, scale, scale))
				upload(p.modelView.Top())
				p.draw(p.mesh)
			})
			n++
		}
	}
	return n
}

func (p *Pipeline) draw(r Renderable) {
	r.Render()
	p.drawCalls++
}

// Resize changes the viewport. In deferred mode the G-buffer is rebuilt at
// the new size.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 || (width == p.width && height == p.height) {
		return nil
	}
	p.width, p.height = width, height
	if p.mode != ModeDeferred {
		return nil
	}
	if err := p.gbuffer.Initialize(width, height); err != nil {
		return fmt.Errorf("resize g-buffer: %w", err)
	}
	return nil
}

// Reload rebuilds the programs from disk. On failure the running programs
// stay in use.
func (p *Pipeline) Reload() error {
	next, err := buildPrograms(p.shaders, p.mode)
	p.dev.UseProgram(0)
	if err != nil {
		for _, prog := range next.all() {
			p.shaders.Delete(prog)
		}
		return fmt.Errorf("reload %s programs: %w", p.mode, err)
	}
	for _, prog := range p.programs.all() {
		p.shaders.Delete(prog)
	}
	p.programs = next
	p.logger.Info("shaders reloaded", "mode", p.mode)
	return nil
}

// Dispose releases programs, the G-buffer and the screen quad
func (p *Pipeline) Dispose() {
	if p.quad != nil {
		p.quad.Delete()
		p.quad = nil
	}
	if p.gbuffer != nil {
		p.gbuffer.Dispose()
	}
	p.shaders.DeleteAll()
	p.programs = emptyProgramSet()
}
