// Package edge computes gradient-magnitude edge maps.
package edge

import (
	"math"

	"vectrace/pkg/color"
)

type kernel [3][3]int

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Map holds one edge strength per pixel, row-major.
type Map struct {
	Width  int
	Height int
	Data   []uint8
}

// At returns the edge strength at (x, y).
func (m *Map) At(x, y int) uint8 {
	return m.Data[x+y*m.Width]
}

// Sobel runs the 3×3 Sobel operator over the luminance of img. The magnitude
// is capped at 255; border pixels have no full neighbourhood and stay 0.
// See https://en.wikipedia.org/wiki/Sobel_operator
func Sobel(img *color.Image) *Map {
	w, h := img.Width, img.Height
	m := &Map{Width: w, Height: h, Data: make([]uint8, w*h)}

	gray := make([]int, w*h)
	for i, c := range img.Pix {
		gray[i] = int(color.Luminance(c))
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy int
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					v := gray[(y+ky-1)*w+x+kx-1]
					gx += v * kernelX[ky][kx]
					gy += v * kernelY[ky][kx]
				}
			}
			magnitude := math.Sqrt(float64(gx*gx + gy*gy))
			if magnitude > 255 {
				magnitude = 255
			}
			m.Data[y*w+x] = uint8(magnitude)
		}
	}
	return m
}
