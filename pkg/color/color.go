// Package color holds the pixel grid the pipeline works on and the
// perceptual color model used by quantization and background detection.
package color

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Adaptive palette sizes by pixel count.
const (
	smallImagePixels  = 10000
	mediumImagePixels = 100000
)

// Image is a row-major, non-premultiplied RGBA pixel grid.
type Image struct {
	Width  int
	Height int
	Pix    []color.NRGBA
}

// New returns a fully transparent image of the given size.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]color.NRGBA, width*height),
	}
}

// FromImage copies any image.Image into a pixel grid anchored at (0,0).
func FromImage(src image.Image) *Image {
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	img := New(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < img.Width; x++ {
			i := x * 4
			img.Pix[y*img.Width+x] = color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}
		}
	}
	return img
}

// Fill returns an image of the given size painted with c.
func Fill(width, height int, c color.NRGBA) *Image {
	img := New(width, height)
	for i := range img.Pix {
		img.Pix[i] = c
	}
	return img
}

func (img *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) At(x, y int) color.Color {
	return img.NRGBAAt(x, y)
}

func (img *Image) NRGBAAt(x, y int) color.NRGBA {
	return img.Pix[x+y*img.Width]
}

func (img *Image) Set(x, y int, c color.NRGBA) {
	img.Pix[x+y*img.Width] = c
}

// NRGBA converts the grid to the standard library representation.
func (img *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for i, c := range img.Pix {
		out.Pix[i*4+0] = c.R
		out.Pix[i*4+1] = c.G
		out.Pix[i*4+2] = c.B
		out.Pix[i*4+3] = c.A
	}
	return out
}

// DistanceSq is the weighted squared RGB distance 2Δr² + 4Δg² + 3Δb².
// Alpha is ignored.
func DistanceSq(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return 2*dr*dr + 4*dg*dg + 3*db*db
}

// Luminance is the Rec. 601 luma, truncated to a byte.
func Luminance(c color.NRGBA) uint8 {
	return uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
}

// LuminanceKey is an integer luma ordering key (299r + 587g + 114b).
func LuminanceKey(c color.NRGBA) int {
	return 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
}

// RGBKey packs the color channels into an integer, ignoring alpha.
func RGBKey(c color.NRGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex formats the RGB channels as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CountDistinct returns the number of distinct RGB triples in the image.
func CountDistinct(img *Image) int {
	seen := make(map[uint32]struct{})
	for _, c := range img.Pix {
		seen[RGBKey(c)] = struct{}{}
	}
	return len(seen)
}

// AdaptiveCount picks a palette size from the image's pixel count.
func AdaptiveCount(img *Image) int {
	n := img.Width * img.Height
	switch {
	case n < smallImagePixels:
		return 64
	case n < mediumImagePixels:
		return 128
	default:
		return 256
	}
}
