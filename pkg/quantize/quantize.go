// Package quantize reduces an image to a small palette with k-means++
// seeding and Lloyd refinement, then optionally cleans up the per-pixel
// assignment with an edge-aware majority vote.
package quantize

import (
	"errors"
	"fmt"
	imgcolor "image/color"
	"math/rand"
	"runtime"

	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
	"vectrace/pkg/edge"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidColorCount = errors.New("target color count must be at least 1")
	ErrEdgeMapSize       = errors.New("edge map does not match image size")
)

// Options tune quantization. The zero value is usable: zero fields fall
// back to the package defaults in cfg.
type Options struct {
	// Seed drives center seeding; equal seeds give equal palettes.
	Seed int64
	// Iterations bounds the refinement passes.
	Iterations int
	// MaxSamples caps the stride-sampled subset the palette is fitted on.
	MaxSamples int
	// EdgeThreshold separates smoothable pixels (below) from edges.
	EdgeThreshold uint8
	// Passes is the number of majority-vote passes; 0 disables smoothing.
	Passes int
	// Workers bounds parallelism; 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the options used by the pipeline.
func DefaultOptions() Options {
	return Options{
		Seed:          cfg.QuantizeSeed,
		Iterations:    cfg.QuantizeIterations,
		MaxSamples:    cfg.QuantizeMaxSamples,
		EdgeThreshold: 25,
		Passes:        2,
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Result is a palette and a total pixel-to-palette mapping.
type Result struct {
	Width   int
	Height  int
	Palette []imgcolor.NRGBA
	Indices []int
}

// Image renders the quantized image.
func (r *Result) Image() *color.Image {
	img := color.New(r.Width, r.Height)
	for i, idx := range r.Indices {
		img.Pix[i] = r.Palette[idx]
	}
	return img
}

// Counts returns the number of pixels assigned to each palette entry.
func (r *Result) Counts() []int {
	counts := make([]int, len(r.Palette))
	for _, idx := range r.Indices {
		counts[idx]++
	}
	return counts
}

// Quantize fits a palette of at most k colors to img and assigns every pixel
// to its nearest palette entry. When edges is non-nil and opts.Passes > 0 the
// assignment is smoothed away from strong edges.
func Quantize(img *color.Image, k int, edges *edge.Map, opts Options) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidColorCount, k)
	}
	if edges != nil && (edges.Width != img.Width || edges.Height != img.Height) {
		return nil, fmt.Errorf("%w: %dx%d edges for %dx%d image",
			ErrEdgeMapSize, edges.Width, edges.Height, img.Width, img.Height)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = cfg.QuantizeIterations
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = cfg.QuantizeMaxSamples
	}

	samples := Sample(img.Pix, opts.MaxSamples)
	rng := rand.New(rand.NewSource(opts.Seed))
	palette := SeedCenters(samples, k, rng)
	palette, err := Refine(palette, samples, opts.Iterations, opts.workers())
	if err != nil {
		return nil, err
	}

	res := &Result{Width: img.Width, Height: img.Height, Palette: palette}
	res.Indices, err = assign(img, palette, opts.workers())
	if err != nil {
		return nil, err
	}

	if edges != nil && opts.Passes > 0 {
		res.Indices, err = Smooth(res.Indices, edges, opts.EdgeThreshold, opts.Passes, opts.workers())
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Sample takes every step-th pixel so that at most roughly maxSamples remain.
func Sample(pix []imgcolor.NRGBA, maxSamples int) []imgcolor.NRGBA {
	step := max(len(pix)/maxSamples, 1)
	samples := make([]imgcolor.NRGBA, 0, (len(pix)+step-1)/step)
	for i := 0; i < len(pix); i += step {
		samples = append(samples, pix[i])
	}
	return samples
}

// SeedCenters picks up to k initial centers with k-means++: the first
// uniformly, each further one with probability proportional to its distance
// to the nearest center already chosen. Seeding stops early once every
// sample coincides with a center.
func SeedCenters(samples []imgcolor.NRGBA, k int, rng *rand.Rand) []imgcolor.NRGBA {
	n := len(samples)
	if n == 0 || k == 0 {
		return nil
	}

	centers := make([]imgcolor.NRGBA, 0, k)
	centers = append(centers, samples[rng.Intn(n)])

	distances := make([]float64, n)
	for iteration := 1; iteration < k; iteration++ {
		newest := centers[len(centers)-1]
		total := 0.0
		for i, s := range samples {
			d := float64(color.DistanceSq(s, newest))
			if iteration == 1 || d < distances[i] {
				distances[i] = d
			}
			total += distances[i]
		}
		if total == 0 {
			break
		}

		target := rng.Float64() * total
		chosen := false
		for i, d := range distances {
			target -= d
			if target <= 0 {
				centers = append(centers, samples[i])
				chosen = true
				break
			}
		}
		if !chosen {
			centers = append(centers, samples[rng.Intn(n)])
		}
	}
	return centers
}

// Nearest returns the index of the palette entry closest to c. Ties go to
// the lower index.
func Nearest(c imgcolor.NRGBA, palette []imgcolor.NRGBA) int {
	best, bestDist := 0, int(^uint(0)>>1)
	for i, p := range palette {
		if d := color.DistanceSq(c, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// clusterSums accumulates channel totals per palette entry.
type clusterSums struct {
	sums   [][4]uint64
	counts []uint64
}

func newClusterSums(k int) *clusterSums {
	return &clusterSums{sums: make([][4]uint64, k), counts: make([]uint64, k)}
}

func (cs *clusterSums) add(c imgcolor.NRGBA, idx int) {
	cs.sums[idx][0] += uint64(c.R)
	cs.sums[idx][1] += uint64(c.G)
	cs.sums[idx][2] += uint64(c.B)
	cs.sums[idx][3] += uint64(c.A)
	cs.counts[idx]++
}

func (cs *clusterSums) merge(other *clusterSums) {
	for i := range cs.counts {
		for ch := 0; ch < 4; ch++ {
			cs.sums[i][ch] += other.sums[i][ch]
		}
		cs.counts[i] += other.counts[i]
	}
}

// Refine runs up to iterations Lloyd passes over samples, moving each center
// to the floor mean of its members. Centers without members stay put. It
// stops early when no center's RGB changes.
func Refine(palette, samples []imgcolor.NRGBA, iterations, workers int) ([]imgcolor.NRGBA, error) {
	if len(palette) == 0 || len(samples) == 0 {
		return palette, nil
	}
	palette = append([]imgcolor.NRGBA(nil), palette...)
	k := len(palette)
	chunks := splitRange(len(samples), max(workers, 1))

	for iter := 0; iter < iterations; iter++ {
		partial := make([]*clusterSums, len(chunks))
		var g errgroup.Group
		g.SetLimit(max(workers, 1))
		for ci, chunk := range chunks {
			g.Go(func() error {
				cs := newClusterSums(k)
				for _, s := range samples[chunk[0]:chunk[1]] {
					cs.add(s, Nearest(s, palette))
				}
				partial[ci] = cs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		total := newClusterSums(k)
		for _, cs := range partial {
			total.merge(cs)
		}

		changed := false
		for j := range palette {
			n := total.counts[j]
			if n == 0 {
				continue
			}
			next := imgcolor.NRGBA{
				R: uint8(total.sums[j][0] / n),
				G: uint8(total.sums[j][1] / n),
				B: uint8(total.sums[j][2] / n),
				A: uint8(total.sums[j][3] / n),
			}
			if next.R != palette[j].R || next.G != palette[j].G || next.B != palette[j].B {
				changed = true
				palette[j] = next
			}
		}
		if !changed {
			break
		}
	}
	return palette, nil
}

// assign maps every pixel to its nearest palette entry, a band of rows per task.
func assign(img *color.Image, palette []imgcolor.NRGBA, workers int) ([]int, error) {
	indices := make([]int, len(img.Pix))
	if len(palette) == 0 {
		return indices, nil
	}
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for _, band := range splitRange(img.Height, max(workers, 1)) {
		g.Go(func() error {
			for i := band[0] * img.Width; i < band[1]*img.Width; i++ {
				indices[i] = Nearest(img.Pix[i], palette)
			}
			return nil
		})
	}
	return indices, g.Wait()
}

// splitRange cuts [0, n) into at most parts contiguous half-open ranges.
func splitRange(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = min(parts, n)
	size := (n + parts - 1) / parts
	ranges := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		ranges = append(ranges, [2]int{start, min(start+size, n)})
	}
	return ranges
}
