// Package preprocess holds the edge-preserving pre-filter applied to
// many-color images before quantization.
package preprocess

import (
	"context"
	imgcolor "image/color"
	"math"
	"runtime"

	"vectrace/pkg/color"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Options configure the bilateral filter and the posterize step.
type Options struct {
	// SpatialSigma is the Gaussian σ over pixel distance; 0 disables filtering.
	SpatialSigma float64
	// ColorSigma is the Gaussian σ over RGB distance.
	ColorSigma float64
	// Iterations repeats the bilateral filter.
	Iterations int
	// Reduction in [0,1] posterizes the result; 0 keeps every level and 1
	// leaves two levels per channel.
	Reduction float64
}

// Default is a mild general-purpose filter.
func Default() Options {
	return Options{SpatialSigma: 3, ColorSigma: 30, Iterations: 1}
}

// Photo smooths harder and posterizes, for photographs.
func Photo() Options {
	return Options{SpatialSigma: 5, ColorSigma: 40, Iterations: 2, Reduction: 0.5}
}

// Graphics keeps crisp detail, for flat artwork.
func Graphics() Options {
	return Options{SpatialSigma: 2, ColorSigma: 20, Iterations: 1}
}

// Apply runs the filter and returns a new image; img is not modified. Work
// is split across rows and stops early when ctx is cancelled.
func Apply(ctx context.Context, img *color.Image, opts Options) (*color.Image, error) {
	out := &color.Image{Width: img.Width, Height: img.Height, Pix: append([]imgcolor.NRGBA(nil), img.Pix...)}

	if opts.SpatialSigma > 0 {
		for i := 0; i < opts.Iterations; i++ {
			next, err := bilateral(ctx, out, opts.SpatialSigma, opts.ColorSigma)
			if err != nil {
				return nil, err
			}
			out = next
		}
	}

	if opts.Reduction > 0 {
		out = posterize(out, opts.Reduction)
	}
	return out, nil
}

func bilateral(ctx context.Context, img *color.Image, spatialSigma, colorSigma float64) (*color.Image, error) {
	w, h := img.Width, img.Height
	out := color.New(w, h)
	spaceDen := 2 * spatialSigma * spatialSigma
	colorDen := 2 * colorSigma * colorSigma
	radius := int(math.Ceil(3 * spatialSigma))

	// Spatial weights depend only on the offset.
	side := 2*radius + 1
	spatial := make([]float64, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			spatial[(dy+radius)*side+dx+radius] = math.Exp(-float64(dx*dx+dy*dy) / spaceDen)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < h; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < w; x++ {
				center := img.Pix[y*w+x]
				var sw, sr, sg, sb float64
				for ny := max(y-radius, 0); ny < min(y+radius+1, h); ny++ {
					for nx := max(x-radius, 0); nx < min(x+radius+1, w); nx++ {
						p := img.Pix[ny*w+nx]
						dr := float64(center.R) - float64(p.R)
						dg := float64(center.G) - float64(p.G)
						db := float64(center.B) - float64(p.B)
						weight := spatial[(ny-y+radius)*side+nx-x+radius] *
							math.Exp(-(dr*dr+dg*dg+db*db)/colorDen)
						sw += weight
						sr += weight * float64(p.R)
						sg += weight * float64(p.G)
						sb += weight * float64(p.B)
					}
				}
				out.Pix[y*w+x] = imgcolor.NRGBA{
					R: uint8(sr / sw),
					G: uint8(sg / sw),
					B: uint8(sb / sw),
					A: center.A,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Levels returns the number of levels per channel kept by posterize.
func Levels(reduction float64) int {
	levels := math.Max(2, math.Min(256, (1-reduction)*254+2))
	return min(int(levels), 255)
}

func posterize(img *color.Image, reduction float64) *color.Image {
	factor := 255 / float64(Levels(reduction)-1)
	quantize := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(v)/factor)*factor)))
	}
	adjusted := imaging.AdjustFunc(img.NRGBA(), func(c imgcolor.NRGBA) imgcolor.NRGBA {
		return imgcolor.NRGBA{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B), A: c.A}
	})
	return color.FromImage(adjusted)
}
