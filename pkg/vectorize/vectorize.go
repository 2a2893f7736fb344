// Package vectorize turns a raster image into layered, curve-fitted color
// regions.
//
// The pipeline quantizes the image with an edge-aware k-means, splits the
// result into one region per color, traces each region's mask, then
// smooths, simplifies and fits every outline with cubic Béziers. Paths are
// layered largest region first so later, smaller shapes paint over them.
package vectorize

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"vectrace/pkg/bezier"
	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
	"vectrace/pkg/contour"
	"vectrace/pkg/edge"
	"vectrace/pkg/geometry"
	"vectrace/pkg/log"
	"vectrace/pkg/potrace"
	"vectrace/pkg/preprocess"
	"vectrace/pkg/quantize"
	"vectrace/pkg/svgpath"
)

// profile holds the settings derived from inspecting the image.
type profile struct {
	distinct      int
	small         bool
	manyColors    bool
	photo         bool
	targetColors  int
	passes        int
	simplifyTol   float64
	minPolyArea   float64
	width, height float64
}

func classify(img *color.Image, opts Options) profile {
	p := profile{
		distinct: color.CountDistinct(img),
		small:    img.Width*img.Height < cfg.SmallImagePixels,
		width:    float64(img.Width),
		height:   float64(img.Height),
	}
	p.manyColors = p.distinct > cfg.ManyColorsThreshold
	p.photo = p.manyColors && p.distinct > cfg.PhotoColorsThreshold

	switch {
	case opts.NumColors > 0:
		p.targetColors = opts.NumColors
	case p.manyColors:
		p.targetColors = color.AdaptiveCount(img)
	default:
		p.targetColors = min(p.distinct, cfg.MaxFewColors)
	}

	p.passes = opts.SmoothingPasses
	if p.manyColors && !p.photo {
		p.passes = max(p.passes, cfg.ManyColorsMinPasses)
	}

	switch {
	case p.small:
		p.simplifyTol = math.Min(opts.SimplificationTolerance, cfg.SmallImageMaxSimplify)
	case p.manyColors:
		p.simplifyTol = opts.SimplificationTolerance * 2
	default:
		p.simplifyTol = opts.SimplificationTolerance
	}

	p.minPolyArea = cfg.MinPolygonArea
	if p.manyColors {
		p.minPolyArea = cfg.MinPolygonAreaManyColors
	}
	return p
}

// Vectorize converts img into layered paths.
func Vectorize(ctx context.Context, img *color.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, ErrEmptyImage
	}
	logger := log.WithOperation(log.WithComponent("vectorize"), "vectorize")
	prof := classify(img, opts)

	work := img
	if opts.Preprocess && prof.manyColors {
		var err error
		work, err = preprocess.Apply(ctx, img, preprocess.Photo())
		if err != nil {
			return nil, fmt.Errorf("vectorize: preprocess: %w", err)
		}
	}

	qopts := quantize.DefaultOptions()
	qopts.Seed = opts.Seed
	qopts.EdgeThreshold = opts.EdgeThreshold
	qopts.Passes = prof.passes
	qopts.Workers = opts.workers()
	q, err := quantize.Quantize(work, prof.targetColors, edge.Sobel(work), qopts)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	regions := Partition(q, img, opts.Recolor && prof.manyColors)
	background := Background(q.Image())

	var traced []*Region
	for _, region := range regions {
		if color.RGBKey(region.Quantized) == color.RGBKey(background) || region.Area < opts.MinRegionArea {
			continue
		}
		traced = append(traced, region)
	}

	res := &Result{
		Width:      img.Width,
		Height:     img.Height,
		Background: background,
		Stats: Stats{
			DistinctColors: prof.distinct,
			PaletteSize:    len(q.Palette),
			Regions:        len(traced),
		},
	}

	tr := &tracer{opts: opts, prof: prof, fitter: bezier.NewFitter(opts.CurveTolerance)}
	perRegion := make([][]*Path, len(traced))
	perStats := make([]regionStats, len(traced))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, region := range traced {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, stats, err := tr.region(gctx, region, img.Width, img.Height)
			if err != nil {
				return err
			}
			perRegion[i], perStats[i] = paths, stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, paths := range perRegion {
		res.Paths = append(res.Paths, paths...)
		res.Stats.Contours += perStats[i].contours
		res.Stats.Stripes += perStats[i].stripes
		res.Stats.FailedRegions += perStats[i].failed
	}
	sort.SliceStable(res.Paths, func(i, j int) bool {
		return res.Paths[i].Area > res.Paths[j].Area
	})
	res.Stats.Paths = len(res.Paths)

	logger.Debug("vectorized",
		"width", img.Width, "height", img.Height,
		"distinct", prof.distinct, "palette", len(q.Palette),
		"regions", res.Stats.Regions, "contours", res.Stats.Contours,
		"paths", res.Stats.Paths, "stripes", res.Stats.Stripes,
		"failed", res.Stats.FailedRegions)
	return res, nil
}

// tracer holds what every region's tracing shares. It is read-only while
// regions are processed.
type tracer struct {
	opts   Options
	prof   profile
	fitter *bezier.Fitter
}

// Tracing backends.
var (
	extractContours = contour.Extract
	traceMask       = potrace.Trace
)

// regionStats is the per-region share of Stats.
type regionStats struct {
	contours, stripes, failed int
}

// region traces one region. A region whose mask cannot be traced is
// dropped and counted as failed; only cancellation is returned as an error.
func (t *tracer) region(ctx context.Context, region *Region, width, height int) ([]*Path, regionStats, error) {
	mask := region.Mask(width, height)
	if t.opts.Tracer == TracerPotrace {
		return t.potraceRegion(region, mask, width, height)
	}

	contours, err := extractContours(mask, width, height)
	if err != nil {
		return nil, regionStats{failed: 1}, nil
	}
	stats := regionStats{contours: len(contours)}
	var paths []*Path
	for _, c := range contours {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		p := t.outline(c)
		if p == nil {
			continue
		}
		p.Color, p.Area = region.Color, region.Area
		if p.Override != nil {
			stats.stripes++
		}
		paths = append(paths, p)
	}
	return paths, stats, nil
}

// outline runs one contour through smoothing, simplification, border
// fixes and curve fitting. It returns nil for contours too small to keep.
func (t *tracer) outline(c geometry.Polyline) *Path {
	if len(c) < 4 || c.Area() < t.prof.minPolyArea {
		return nil
	}
	if rect, ok := stripe(c); ok {
		return &Path{Override: []*svgpath.SubPath{rect}}
	}

	smoothed := c.SmoothCorners(t.opts.SmoothWindow, t.opts.CornerThreshold)
	simplified := smoothed.Visvalingam(t.prof.simplifyTol*t.prof.simplifyTol, smoothed.Corners(t.opts.CornerThreshold))
	if len(simplified) < 3 {
		return nil
	}

	w, h := t.prof.width, t.prof.height
	line := snapToBorder(simplified, w, h)
	line = injectCorners(line, w, h)
	line = line.Dedup(cfg.DedupDistance)
	if len(line) < 3 || line.Area() < t.prof.minPolyArea {
		return nil
	}

	curves := t.fitter.FitPath(line, true)
	if len(curves) == 0 {
		return nil
	}
	bezier.ClampControls(curves, geometry.Rectangle{Max: geometry.Point{X: w, Y: h}})
	return &Path{Curves: curves}
}

// stripe returns an exact rectangle for outlines thinner than
// cfg.StripeMaxThickness in exactly one dimension.
func stripe(c geometry.Polyline) (*svgpath.SubPath, bool) {
	b := c.Bounds()
	w, h := b.Width(), b.Height()
	thin := cfg.StripeMaxThickness
	if !(h < thin && w >= thin) && !(w < thin && h >= thin) {
		return nil, false
	}
	x0, y0 := math.Round(b.Min.X), math.Round(b.Min.Y)
	x1, y1 := math.Round(b.Max.X), math.Round(b.Max.Y)
	if w < thin {
		x1 = x0 + math.Max(math.Ceil(w), 1)
	}
	if h < thin {
		y1 = y0 + math.Max(math.Ceil(h), 1)
	}
	return &svgpath.SubPath{X: x0, Y: y0, DrawTo: []*svgpath.DrawTo{
		{Command: svgpath.LineTo, X: x1, Y: y0},
		{Command: svgpath.LineTo, X: x1, Y: y1},
		{Command: svgpath.LineTo, X: x0, Y: y1},
		{Command: svgpath.ClosePath, X: x0, Y: y0},
	}}, true
}

// potraceRegion traces a whole region at once. Holes stay in the same
// path as their outline so they are cut out by the fill.
func (t *tracer) potraceRegion(region *Region, mask []bool, width, height int) ([]*Path, regionStats, error) {
	subs, err := traceMask(mask, width, height)
	if err != nil {
		return nil, regionStats{failed: 1}, nil
	}
	var kept []*svgpath.SubPath
	for _, sub := range subs {
		minX, minY, maxX, maxY := sub.Bounds()
		if maxX-minX < cfg.MinRenderSize && maxY-minY < cfg.MinRenderSize {
			continue
		}
		sub.Simplify()
		kept = append(kept, sub)
	}
	stats := regionStats{contours: len(subs)}
	if len(kept) == 0 {
		return nil, stats, nil
	}
	return []*Path{{Color: region.Color, Area: region.Area, Override: kept}}, stats, nil
}
