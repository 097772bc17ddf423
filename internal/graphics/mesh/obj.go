package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"deferred-shading/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// objVertex references one corner of a face (0-based, -1 = absent)
type objVertex struct{ v, vt, vn int }

// ParseOBJ reads Wavefront OBJ geometry into a single indexed mesh. Polygons
// are fan-triangulated; corners sharing the same v/vt/vn triple are merged.
// Missing normals are generated from face geometry.
func ParseOBJ(r io.Reader) (gpu.MeshData, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		corners   []objVertex
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return gpu.MeshData{}, fmt.Errorf("obj line %d: %s needs 3 components", line, fields[0])
			}
			vec, err := parseFloats(fields[1:4])
			if err != nil {
				return gpu.MeshData{}, fmt.Errorf("obj line %d: %w", line, err)
			}
			if fields[0] == "v" {
				positions = append(positions, mgl32.Vec3{vec[0], vec[1], vec[2]})
			} else {
				normals = append(normals, mgl32.Vec3{vec[0], vec[1], vec[2]})
			}

		case "vt":
			if len(fields) < 3 {
				return gpu.MeshData{}, fmt.Errorf("obj line %d: vt needs 2 components", line)
			}
			vec, err := parseFloats(fields[1:3])
			if err != nil {
				return gpu.MeshData{}, fmt.Errorf("obj line %d: %w", line, err)
			}
			uvs = append(uvs, mgl32.Vec2{vec[0], vec[1]})

		case "f":
			if len(fields) < 4 {
				continue
			}
			face := make([]objVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return gpu.MeshData{}, fmt.Errorf("obj line %d: %w", line, err)
				}
				face = append(face, fv)
			}
			// 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return gpu.MeshData{}, fmt.Errorf("scan obj: %w", err)
	}
	if len(corners) == 0 {
		return gpu.MeshData{}, fmt.Errorf("obj has no faces")
	}

	return buildOBJ(corners, positions, normals, uvs), nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are
// 1-based; negative ones count back from the end of the list.
func parseFaceVertex(tok string, nv, nvt, nvn int) (objVertex, error) {
	res := objVertex{v: -1, vt: -1, vn: -1}
	parts := strings.Split(tok, "/")
	counts := [3]int{nv, nvt, nvn}
	targets := [3]*int{&res.v, &res.vt, &res.vn}

	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return res, fmt.Errorf("bad face index %q", tok)
		}
		idx := n - 1
		if n < 0 {
			idx = counts[i] + n
		}
		if idx < 0 || idx >= counts[i] {
			return res, fmt.Errorf("face index %q out of range", tok)
		}
		*targets[i] = idx
	}
	if res.v < 0 {
		return res, fmt.Errorf("face corner %q has no position", tok)
	}
	return res, nil
}

func buildOBJ(corners []objVertex, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) gpu.MeshData {
	var data gpu.MeshData
	seen := make(map[objVertex]uint32, len(corners))
	hasNormals := true

	for _, c := range corners {
		if idx, ok := seen[c]; ok {
			data.Indices = append(data.Indices, idx)
			continue
		}
		idx := uint32(data.VertexCount())
		seen[c] = idx
		data.Indices = append(data.Indices, idx)

		p := positions[c.v]
		data.Positions = append(data.Positions, p[0], p[1], p[2])

		var n mgl32.Vec3
		if c.vn >= 0 {
			n = normals[c.vn]
		} else {
			hasNormals = false
		}
		data.Normals = append(data.Normals, n[0], n[1], n[2])

		var uv mgl32.Vec2
		if c.vt >= 0 {
			uv = uvs[c.vt]
		}
		data.TexCoords = append(data.TexCoords, uv[0], uv[1])
	}

	if !hasNormals {
		GenerateNormals(&data)
	}
	return data
}

// GenerateNormals replaces the normals of data with area-weighted vertex
// normals computed from its triangles
func GenerateNormals(data *gpu.MeshData) {
	count := data.VertexCount()
	accum := make([]mgl32.Vec3, count)
	pos := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{data.Positions[i*3], data.Positions[i*3+1], data.Positions[i*3+2]}
	}

	for t := 0; t+2 < len(data.Indices); t += 3 {
		a, b, c := data.Indices[t], data.Indices[t+1], data.Indices[t+2]
		// cross product length is twice the triangle area
		n := pos(b).Sub(pos(a)).Cross(pos(c).Sub(pos(a)))
		accum[a] = accum[a].Add(n)
		accum[b] = accum[b].Add(n)
		accum[c] = accum[c].Add(n)
	}

	data.Normals = make([]float32, 0, count*3)
	for _, n := range accum {
		if n.Len() > 0 {
			n = n.Normalize()
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		data.Normals = append(data.Normals, n[0], n[1], n[2])
	}
}
