package graphics

import (
	"log/slog"

	"deferred-shading/internal/graphics/gpu"
)

// TextureID names a texture by its role in the shaders
type TextureID string

const (
	TextureDiffuse   TextureID = "diffuse"
	TextureNormalMap TextureID = "normal"

	// G-buffer attachments
	TexturePositionMap TextureID = "def_vertexMap"
	TextureNormalBuf   TextureID = "def_normalMap"
	TextureTexCoordMap TextureID = "def_texCoordMap"
)

// mipLevels is the highest mip level sampled for file textures
const mipLevels = 4

var (
	renderTargetSampler = gpu.SamplerParams{
		MinFilter: gpu.FilterNearest,
		MagFilter: gpu.FilterNearest,
		WrapS:     gpu.WrapClampToEdge,
		WrapT:     gpu.WrapClampToEdge,
		MaxLevel:  -1,
	}
	imageSampler = gpu.SamplerParams{
		MinFilter: gpu.FilterLinearMipmapLinear,
		MagFilter: gpu.FilterLinear,
		WrapS:     gpu.WrapRepeat,
		WrapT:     gpu.WrapRepeat,
		BaseLevel: 0,
		MaxLevel:  mipLevels,
	}
)

// Texture is one registry entry. Handle is non-zero exactly when Initialized.
// Data holds decoded pixels only while an upload is in flight.
type Texture struct {
	ID          TextureID
	Data        []byte
	Width       int
	Height      int
	Handle      uint32
	Initialized bool
}

// TextureRegistry owns the named textures of one pipeline
type TextureRegistry struct {
	dev      gpu.Device
	logger   *slog.Logger
	textures map[TextureID]*Texture
}

// NewTextureRegistry creates an empty registry
func NewTextureRegistry(dev gpu.Device, logger *slog.Logger) *TextureRegistry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TextureRegistry{
		dev:      dev,
		logger:   logger,
		textures: make(map[TextureID]*Texture),
	}
}

// Get returns the entry for id if one was created
func (r *TextureRegistry) Get(id TextureID) (*Texture, bool) {
	t, ok := r.textures[id]
	return t, ok
}

// reset returns the entry for id with any previous GPU object released
func (r *TextureRegistry) reset(id TextureID) *Texture {
	t, ok := r.textures[id]
	if !ok {
		t = &Texture{ID: id}
		r.textures[id] = t
		return t
	}
	if t.Handle != 0 {
		r.dev.DeleteTexture(t.Handle)
	}
	*t = Texture{ID: id}
	return t
}

// CreateEmpty allocates a float RGBA render target with nearest filtering
// and no mip chain. No local pixel buffer is ever held.
func (r *TextureRegistry) CreateEmpty(id TextureID, width, height int) *Texture {
	t := r.reset(id)
	t.Width, t.Height = width, height

	t.Handle = r.dev.CreateTexture()
	r.dev.BindTexture(t.Handle)
	r.dev.SetSamplerParams(renderTargetSampler)
	r.dev.TexImage2D(gpu.FormatRGBA32F, width, height, nil)
	r.dev.BindTexture(0)

	t.Data = nil
	t.Initialized = t.Handle != 0
	return t
}

// CreateFromFile decodes path and uploads it with trilinear mip-mapping. On
// failure the entry stays uninitialized; binding it later is a no-op.
func (r *TextureRegistry) CreateFromFile(id TextureID, path string) (*Texture, error) {
	t := r.reset(id)

	img, err := LoadImage(path)
	if err != nil {
		r.logger.Warn("reading texture failed", "id", string(id), "path", path, "err", err)
		return t, err
	}
	t.Width = img.Rect.Dx()
	t.Height = img.Rect.Dy()
	t.Data = img.Pix

	t.Handle = r.dev.CreateTexture()
	r.dev.BindTexture(t.Handle)
	r.dev.SetSamplerParams(imageSampler)
	r.dev.TexImage2D(gpu.FormatRGBA8, t.Width, t.Height, t.Data)
	r.dev.GenerateMipmap()
	r.dev.BindTexture(0)

	// GPU memory is the only copy from here on
	t.Data = nil
	t.Initialized = t.Handle != 0
	r.logger.Debug("loaded texture", "id", string(id), "width", t.Width, "height", t.Height)
	return t, nil
}

// Bind makes id sample from texture unit unit and writes unit into sampler
// on the current program. Unknown or uninitialized textures bind handle 0.
func (r *TextureRegistry) Bind(id TextureID, unit int, sampler gpu.Uniform) {
	var handle uint32
	if t, ok := r.textures[id]; ok && t.Initialized {
		handle = t.Handle
	}
	r.dev.ActiveTexture(unit)
	r.dev.BindTexture(handle)
	r.dev.Uniform1i(sampler, int32(unit))
}

// Delete releases one texture
func (r *TextureRegistry) Delete(id TextureID) {
	t, ok := r.textures[id]
	if !ok {
		return
	}
	if t.Handle != 0 {
		r.dev.DeleteTexture(t.Handle)
	}
	delete(r.textures, id)
}

// Dispose releases every texture in the registry
func (r *TextureRegistry) Dispose() {
	for id := range r.textures {
		r.Delete(id)
	}
}
