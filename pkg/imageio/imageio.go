// Package imageio loads raster input for the vectorizer.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vectrace/pkg/color"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Extensions lists the file types Decode understands.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupported reports whether the file name has a decodable extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Decoded is a loaded image and how it relates to the source.
type Decoded struct {
	Image *color.Image
	// Width and Height are the source dimensions after orientation.
	Width, Height int
	// Scale is Image's size divided by the source size; 1 when the image
	// was not reduced.
	Scale float64
}

// Decode reads an image, applying any EXIF orientation, and shrinks it
// to fit within maxSize×maxSize when maxSize is positive.
func Decode(r io.Reader, maxSize int) (*Decoded, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	out := &Decoded{Width: b.Dx(), Height: b.Dy(), Scale: 1}
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		var fitted image.Image = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
		out.Scale = float64(fitted.Bounds().Dx()) / float64(b.Dx())
		img = fitted
	}
	out.Image = color.FromImage(img)
	return out, nil
}
