package graphics

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("not an image file")

// LoadImage decodes an image file and flips it vertically so row 0 is the
// bottom of the picture, matching GL texture coordinates.
func LoadImage(path string) (*image.RGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	if !filetype.IsImage(raw) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotImage)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return transform.FlipV(img), nil
}
