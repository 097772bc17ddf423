package graphics

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"deferred-shading/internal/graphics/gpu"
	"deferred-shading/internal/graphics/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG writes a 2x2 image whose top row is red and bottom row is blue
func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
		img.Set(x, 1, color.RGBA{B: 255, A: 255})
	}
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadImageFlipsVertically(t *testing.T) {
	path := writePNG(t, t.TempDir())

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))
}

func TestLoadImageRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a jpeg"), 0o644))

	_, err := LoadImage(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestCreateEmptyNeverHoldsData(t *testing.T) {
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)

	tex := reg.CreateEmpty(TexturePositionMap, 512, 256)
	assert.Nil(t, tex.Data)
	assert.True(t, tex.Initialized)
	assert.NotZero(t, tex.Handle)

	state := dev.Textures[tex.Handle]
	require.NotNil(t, state)
	assert.Equal(t, gpu.FormatRGBA32F, state.Format)
	assert.Equal(t, 512, state.Width)
	assert.Equal(t, 256, state.Height)
	assert.Zero(t, state.Pixels)
	assert.False(t, state.Mipmaps)
	assert.Equal(t, gpu.FilterNearest, state.Sampler.MinFilter)
	assert.Equal(t, gpu.FilterNearest, state.Sampler.MagFilter)
}

func TestCreateFromFileReleasesData(t *testing.T) {
	path := writePNG(t, t.TempDir())
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)

	tex, err := reg.CreateFromFile(TextureDiffuse, path)
	require.NoError(t, err)
	assert.Nil(t, tex.Data)
	assert.True(t, tex.Initialized)
	assert.Equal(t, 2, tex.Width)

	state := dev.Textures[tex.Handle]
	require.NotNil(t, state)
	assert.Equal(t, gpu.FormatRGBA8, state.Format)
	assert.Equal(t, 2*2*4, state.Pixels)
	assert.True(t, state.Mipmaps)
	assert.Equal(t, gpu.FilterLinearMipmapLinear, state.Sampler.MinFilter)
	assert.Equal(t, int32(4), state.Sampler.MaxLevel)
	assert.Equal(t, gpu.WrapRepeat, state.Sampler.WrapS)
}

func TestCreateFromFileFailureLeavesEntryUninitialized(t *testing.T) {
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)

	tex, err := reg.CreateFromFile(TextureNormalMap, filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
	assert.False(t, tex.Initialized)
	assert.Zero(t, tex.Handle)
	assert.Nil(t, tex.Data)
	assert.Zero(t, dev.Count("CreateTexture"))

	// binding it is harmless and binds nothing
	reg.Bind(TextureNormalMap, 1, gpu.Uniform(4))
	assert.Equal(t, uint32(0), dev.UnitTextures[1])
}

func TestBindWritesUnitNotHandle(t *testing.T) {
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)
	tex := reg.CreateEmpty(TextureNormalBuf, 4, 4)

	dev.Reset()
	reg.Bind(TextureNormalBuf, 2, gpu.Uniform(7))

	require.Len(t, dev.Calls, 3)
	assert.Equal(t, "ActiveTexture(2)", dev.Calls[0].String())
	assert.Equal(t, gputest.Call{Op: "BindTexture", Args: []any{tex.Handle}}, dev.Calls[1])
	assert.Equal(t, gputest.Call{Op: "Uniform1i", Args: []any{gpu.Uniform(7), int32(2)}}, dev.Calls[2])
	assert.Equal(t, tex.Handle, dev.UnitTextures[2])
}

func TestRecreateReleasesPreviousHandle(t *testing.T) {
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)
	first := reg.CreateEmpty(TexturePositionMap, 4, 4).Handle
	second := reg.CreateEmpty(TexturePositionMap, 8, 8).Handle

	assert.NotEqual(t, first, second)
	assert.True(t, dev.Deleted[first])
}

func TestDispose(t *testing.T) {
	dev := gputest.New()
	reg := NewTextureRegistry(dev, nil)
	a := reg.CreateEmpty(TexturePositionMap, 4, 4).Handle
	b := reg.CreateEmpty(TextureTexCoordMap, 4, 4).Handle

	reg.Dispose()
	assert.True(t, dev.Deleted[a])
	assert.True(t, dev.Deleted[b])
	_, ok := reg.Get(TexturePositionMap)
	assert.False(t, ok)
}
