package vectorize

import (
	imgcolor "image/color"
	"sort"

	"vectrace/pkg/color"
	"vectrace/pkg/quantize"
)

// Run is a horizontal stretch of pixels [X1, X2) on row Y sharing one
// quantized color.
type Run struct {
	X1, X2 int
	Y      int
}

// Region is every pixel of one quantized color.
type Region struct {
	// Quantized is the palette color the pixels were assigned.
	Quantized imgcolor.NRGBA
	// Color is what the region is painted with.
	Color imgcolor.NRGBA
	Area  int
	Runs  []Run
}

// Mask returns a row-major membership grid for the region.
func (r *Region) Mask(width, height int) []bool {
	mask := make([]bool, width*height)
	for _, run := range r.Runs {
		row := mask[run.Y*width : (run.Y+1)*width]
		for x := run.X1; x < run.X2; x++ {
			row[x] = true
		}
	}
	return mask
}

// findRuns reports every maximal run of equal palette index, row by row.
func findRuns(indices []int, width, height int, report func(index int, run Run)) {
	i := 0
	for y := 0; y < height; y++ {
		runStart := 0
		for x := 1; x <= width; x++ {
			if x == width || indices[i+x] != indices[i+runStart] {
				report(indices[i+runStart], Run{X1: runStart, X2: x, Y: y})
				runStart = x
			}
		}
		i += width
	}
}

// Partition groups the quantized pixels into regions, one per distinct
// palette color, ordered by area with the largest first. With recolor set,
// each region is painted with the integer mean of its pixels in src.
func Partition(q *quantize.Result, src *color.Image, recolor bool) []*Region {
	byColor := map[imgcolor.NRGBA]*Region{}
	var order []*Region
	findRuns(q.Indices, q.Width, q.Height, func(index int, run Run) {
		c := q.Palette[index]
		region, ok := byColor[c]
		if !ok {
			region = &Region{Quantized: c, Color: c}
			byColor[c] = region
			order = append(order, region)
		}
		region.Runs = append(region.Runs, run)
		region.Area += run.X2 - run.X1
	})

	if recolor {
		for _, region := range order {
			region.Color = meanColor(src, region)
		}
	}

	// Stable on first appearance so equal areas keep scan order.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Area > order[j].Area
	})
	return order
}

func meanColor(src *color.Image, region *Region) imgcolor.NRGBA {
	var r, g, b, a uint64
	for _, run := range region.Runs {
		for _, p := range src.Pix[run.Y*src.Width+run.X1 : run.Y*src.Width+run.X2] {
			r += uint64(p.R)
			g += uint64(p.G)
			b += uint64(p.B)
			a += uint64(p.A)
		}
	}
	n := uint64(region.Area)
	if n == 0 {
		return region.Quantized
	}
	return imgcolor.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}
