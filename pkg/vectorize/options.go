package vectorize

import (
	"errors"
	"fmt"
	"runtime"

	"vectrace/pkg/cfg"
	"vectrace/pkg/geometry"
)

var (
	// ErrInvalidOptions is wrapped by Validate failures together with the
	// offending field.
	ErrInvalidOptions = errors.New("vectorize: invalid options")
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("vectorize: empty image")
)

// Tracer selects how region masks become curves.
type Tracer string

const (
	// TracerMarching runs marching squares, simplification and curve
	// fitting.
	TracerMarching Tracer = "marching"
	// TracerPotrace hands each region mask to potrace.
	TracerPotrace Tracer = "potrace"
)

// Options tunes one conversion.
type Options struct {
	// NumColors is the palette size. Zero picks one from the image.
	NumColors int
	// CurveTolerance is the largest distance a fitted curve may stray from
	// the simplified outline.
	CurveTolerance float64
	// SimplificationTolerance is the side of the square whose area is the
	// Visvalingam-Whyatt removal threshold.
	SimplificationTolerance float64
	// CornerThreshold is the corner score, in degrees, that pins a point.
	CornerThreshold float64
	// MinRegionArea drops colors covering fewer pixels.
	MinRegionArea int
	// EdgeThreshold protects pixels with at least this gradient from the
	// majority vote.
	EdgeThreshold uint8
	// SmoothingPasses is the number of majority-vote passes.
	SmoothingPasses int
	// SmoothWindow is the Gaussian window applied to outlines.
	SmoothWindow int
	// Preprocess runs the photo pre-filter on many-color images.
	Preprocess bool
	// Recolor paints regions with the mean of their original pixels
	// instead of the palette color, for many-color images.
	Recolor bool
	// Seed drives palette initialization.
	Seed int64
	// Workers bounds parallelism. Zero or less means one per CPU.
	Workers int
	Tracer  Tracer
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NumColors:               0,
		CurveTolerance:          2,
		SimplificationTolerance: 1.5,
		CornerThreshold:         60,
		MinRegionArea:           20,
		EdgeThreshold:           25,
		SmoothingPasses:         2,
		SmoothWindow:            3,
		Preprocess:              true,
		Recolor:                 true,
		Seed:                    1,
		Workers:                 runtime.NumCPU(),
		Tracer:                  TracerMarching,
	}
}

// Validate rejects settings the pipeline cannot run with.
func (o Options) Validate() error {
	switch {
	case o.NumColors < 0:
		return fmt.Errorf("%w: NumColors %d is negative", ErrInvalidOptions, o.NumColors)
	case o.CurveTolerance <= 0:
		return fmt.Errorf("%w: CurveTolerance must be positive, got %v", ErrInvalidOptions, o.CurveTolerance)
	case o.SimplificationTolerance < 0:
		return fmt.Errorf("%w: SimplificationTolerance %v is negative", ErrInvalidOptions, o.SimplificationTolerance)
	case o.CornerThreshold <= 0:
		return fmt.Errorf("%w: CornerThreshold must be positive, got %v", ErrInvalidOptions, o.CornerThreshold)
	case o.MinRegionArea < 0:
		return fmt.Errorf("%w: MinRegionArea %d is negative", ErrInvalidOptions, o.MinRegionArea)
	case o.SmoothingPasses < 0:
		return fmt.Errorf("%w: SmoothingPasses %d is negative", ErrInvalidOptions, o.SmoothingPasses)
	case o.SmoothWindow < 0:
		return fmt.Errorf("%w: SmoothWindow %d is negative", ErrInvalidOptions, o.SmoothWindow)
	}
	switch o.Tracer {
	case "", TracerMarching, TracerPotrace:
	default:
		return fmt.Errorf("%w: unknown tracer %q", ErrInvalidOptions, o.Tracer)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// FromConfig builds options from a configuration file section. Unset
// booleans keep their defaults.
func FromConfig(c cfg.VectorizeConfig, workers int) Options {
	opts := DefaultOptions()
	opts.NumColors = c.Colors
	opts.CurveTolerance = c.CurveTolerance
	opts.SimplificationTolerance = c.SimplifyTolerance
	opts.CornerThreshold = c.CornerThreshold
	opts.MinRegionArea = c.MinRegionArea
	opts.EdgeThreshold = uint8(geometry.Clamp(c.EdgeThreshold, 0, 255))
	opts.SmoothingPasses = c.SmoothingPasses
	opts.SmoothWindow = c.SmoothWindow
	if c.Preprocess != nil {
		opts.Preprocess = *c.Preprocess
	}
	if c.Recolor != nil {
		opts.Recolor = *c.Recolor
	}
	opts.Seed = c.Seed
	opts.Tracer = Tracer(c.Tracer)
	if workers > 0 {
		opts.Workers = workers
	}
	return opts
}
