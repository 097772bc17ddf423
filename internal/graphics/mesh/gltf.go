package mesh

import (
	"fmt"

	"deferred-shading/internal/graphics/gpu"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file into one
// mesh. Node transforms are ignored; the demo places geometry itself.
func LoadGLTF(path string) (gpu.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return gpu.MeshData{}, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var data gpu.MeshData
	generate := false
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			hasNormals, err := appendPrimitive(&data, doc, prim)
			if err != nil {
				return gpu.MeshData{}, fmt.Errorf("gltf mesh %d prim %d: %w", mi, pi, err)
			}
			if !hasNormals {
				generate = true
			}
		}
	}
	if len(data.Indices) == 0 {
		return gpu.MeshData{}, fmt.Errorf("gltf %q has no triangle geometry", path)
	}
	if generate {
		GenerateNormals(&data)
	}
	return data, nil
}

func appendPrimitive(data *gpu.MeshData, doc *gltf.Document, prim *gltf.Primitive) (bool, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return false, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("texcoords: %w", err)
		}
	}

	base := uint32(data.VertexCount())
	for i, p := range positions {
		data.Positions = append(data.Positions, p[0], p[1], p[2])
		var n [3]float32
		if i < len(normals) {
			n = normals[i]
		}
		data.Normals = append(data.Normals, n[0], n[1], n[2])
		var uv [2]float32
		if i < len(uvs) {
			uv = uvs[i]
		}
		data.TexCoords = append(data.TexCoords, uv[0], uv[1])
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			data.Indices = append(data.Indices, base+idx)
		}
	} else {
		for i := range positions {
			data.Indices = append(data.Indices, base+uint32(i))
		}
	}
	return len(normals) == len(positions), nil
}
