package mesh

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deferred-shading/internal/graphics/gpu"
)

var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Provider loads meshes from disk and hands them out by name
type Provider struct {
	dev    gpu.Device
	logger *slog.Logger
	meshes map[string]*Mesh
}

func NewProvider(dev gpu.Device, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{
		dev:    dev,
		logger: logger,
		meshes: make(map[string]*Mesh),
	}
}

// Read parses a mesh file by extension without touching the device
func Read(path string) (gpu.MeshData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		f, err := os.Open(path)
		if err != nil {
			return gpu.MeshData{}, err
		}
		defer f.Close()
		data, err := ParseOBJ(f)
		if err != nil {
			return gpu.MeshData{}, fmt.Errorf("%s: %w", path, err)
		}
		return data, nil
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return gpu.MeshData{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load reads path and registers the uploaded mesh under name, replacing
// any mesh already registered there
func (p *Provider) Load(path, name string) (*Mesh, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	m := p.Add(name, data)
	p.logger.Info("mesh loaded", "name", name, "path", path,
		"vertices", m.VertexCount(), "triangles", m.IndexCount()/3)
	return m, nil
}

// Add uploads data under name
func (p *Provider) Add(name string, data gpu.MeshData) *Mesh {
	if old, ok := p.meshes[name]; ok {
		old.Delete()
	}
	m := Upload(p.dev, name, data)
	p.meshes[name] = m
	return m
}

func (p *Provider) Get(name string) (*Mesh, bool) {
	m, ok := p.meshes[name]
	return m, ok
}

// Dispose deletes every registered mesh
func (p *Provider) Dispose() {
	for name, m := range p.meshes {
		m.Delete()
		delete(p.meshes, name)
	}
}
