package mesh

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deferred-shading/internal/graphics/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestParseOBJTriangulatesAndGeneratesNormals(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, 4, data.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, data.Indices)
	assert.Len(t, data.TexCoords, 8)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, data.Normals[i*3], 1e-6)
		assert.InDelta(t, 0, data.Normals[i*3+1], 1e-6)
		assert.InDelta(t, 1, data.Normals[i*3+2], 1e-6)
	}
}

func TestParseOBJKeepsExplicitNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 1 0
f 1//1 2//1 3//1
`
	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 0, 1, 0, 0, 1, 0}, data.Normals)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, data.Positions)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"out of range": "v 0 0 0\nf 1 2 3\n",
		"bad float":    "v 0 x 0\n",
		"no faces":     "v 0 0 0\n",
		"bad index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 c\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestQuadLayout(t *testing.T) {
	q := Quad()
	assert.Equal(t, 4, q.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, q.Indices)
	for i := 0; i < 4; i++ {
		assert.Equal(t, q.Positions[i*3], q.TexCoords[i*2])
		assert.Equal(t, q.Positions[i*3+1], q.TexCoords[i*2+1])
	}
}

func TestProviderLoadAndReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	dev := gputest.New()
	p := NewProvider(dev, nil)

	first, err := p.Load(path, "quad")
	require.NoError(t, err)
	assert.Equal(t, 6, first.IndexCount())

	got, ok := p.Get("quad")
	require.True(t, ok)
	assert.Same(t, first, got)

	got.Render()
	assert.Equal(t, 1, dev.DrawCount)

	second, err := p.Load(path, "quad")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, dev.Count("DeleteMesh"))

	p.Dispose()
	_, ok = p.Get("quad")
	assert.False(t, ok)
	assert.Equal(t, 2, dev.Count("DeleteMesh"))
}

func TestProviderRejectsUnknownExtension(t *testing.T) {
	p := NewProvider(gputest.New(), nil)
	_, err := p.Load("model.fbx", "model")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDeletedMeshDoesNotDraw(t *testing.T) {
	dev := gputest.New()
	m := Upload(dev, "quad", Quad())
	m.Delete()
	m.Delete()
	m.Render()
	assert.Equal(t, 0, dev.DrawCount)
	assert.Equal(t, 1, dev.Count("DeleteMesh"))
}

func writeTriangleGLTF(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(f)))
	}
	for _, i := range []uint16{0, 1, 2, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, i))
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`, buf.Len(), base64.StdEncoding.EncodeToString(buf.Bytes()))

	path := filepath.Join(dir, "triangle.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadGLTF(t *testing.T) {
	path := writeTriangleGLTF(t, t.TempDir())

	data, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, data.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, data.Indices)
	assert.InDelta(t, 1, data.Normals[2], 1e-6)
	assert.Len(t, data.TexCoords, 6)
}

func TestBundledCube(t *testing.T) {
	data, err := Read(filepath.Join("..", "..", "..", "assets", "meshes", "cube.obj"))
	require.NoError(t, err)
	assert.Equal(t, 24, data.VertexCount(), "4 corners per face, normals differ between faces")
	assert.Len(t, data.Indices, 36)
	assert.Len(t, data.Normals, len(data.Positions))
	assert.Len(t, data.TexCoords, 2*data.VertexCount())
}
