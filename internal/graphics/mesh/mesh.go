package mesh

import (
	"deferred-shading/internal/graphics/gpu"
)

// Mesh is geometry uploaded to the device
type Mesh struct {
	Name string

	dev   gpu.Device
	va    gpu.VertexArray
	verts int
}

// Upload sends data to the device and returns the drawable mesh
func Upload(dev gpu.Device, name string, data gpu.MeshData) *Mesh {
	return &Mesh{
		Name:  name,
		dev:   dev,
		va:    dev.UploadMesh(data),
		verts: data.VertexCount(),
	}
}

// Render issues one draw call with whatever program and framebuffer are bound
func (m *Mesh) Render() {
	if m.va.VAO == 0 {
		return
	}
	m.dev.DrawMesh(m.va)
}

// VertexArray returns the device handles, zero after Delete
func (m *Mesh) VertexArray() gpu.VertexArray { return m.va }

// VertexCount returns the number of unique vertices
func (m *Mesh) VertexCount() int { return m.verts }

// IndexCount returns the number of indices drawn per Render
func (m *Mesh) IndexCount() int { return int(m.va.Count) }

// Delete releases the device buffers
func (m *Mesh) Delete() {
	if m.va.VAO == 0 {
		return
	}
	m.dev.DeleteMesh(m.va)
	m.va = gpu.VertexArray{}
}

// Quad returns the unit quad spanning (0,0)-(1,1) in the XY plane with
// texture coordinates equal to its position
func Quad() gpu.MeshData {
	return gpu.MeshData{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		TexCoords: []float32{
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
