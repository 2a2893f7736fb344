// Package potrace traces binary masks with the potrace algorithm, as an
// alternative to the marching-squares and curve-fitting stages.
package potrace

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gotranspile/gotrace"

	"vectrace/pkg/svgdoc"
	"vectrace/pkg/svgpath"
)

// Mask renders a region mask as a grayscale bitmap: black inside, white
// outside.
func Mask(mask []bool, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 || len(mask) != width*height {
		return nil, fmt.Errorf("potrace: mask has %d cells, want %dx%d", len(mask), width, height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, in := range mask {
		if in {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
	return img, nil
}

// Trace returns the outlines of the mask region in pixel coordinates with
// y pointing down. Holes come back as separate subpaths wound opposite to
// their outer boundary.
func Trace(mask []bool, width, height int) ([]*svgpath.SubPath, error) {
	img, err := Mask(mask, width, height)
	if err != nil {
		return nil, err
	}
	bm := gotrace.BitmapFromGray(img, nil)
	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return nil, fmt.Errorf("potrace: trace: %w", err)
	}

	var buf bytes.Buffer
	if err := gotrace.Render("svg", nil, &buf, paths, width, height); err != nil {
		return nil, fmt.Errorf("potrace: render: %w", err)
	}

	root, err := svgdoc.Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}
	shapes, err := root.Shapes()
	if err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}
	var out []*svgpath.SubPath
	for _, shape := range shapes {
		out = append(out, shape.Path...)
	}
	return out, nil
}
