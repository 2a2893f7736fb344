// Package cfg holds the pipeline's tunable constants and the YAML
// configuration file that seeds the command line defaults.
package cfg

import "image/color"

// BackgroundColor is used when an image has no border pixels to vote on.
var BackgroundColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Quantization.
var (
	// QuantizeMaxSamples caps the number of stride-sampled pixels the
	// palette is fitted on.
	QuantizeMaxSamples = 100000
	// QuantizeIterations bounds the Lloyd refinement passes.
	QuantizeIterations = 8
	// QuantizeSeed seeds palette initialization when no seed is given.
	QuantizeSeed int64 = 1
)

// Image classification.
var (
	SmallImagePixels     = 10000
	ManyColorsThreshold  = 16
	PhotoColorsThreshold = 1000
	MaxFewColors         = 64
	ManyColorsMinPasses  = 4
)

// Contour filtering, in square pixels.
var (
	MinPolygonArea           = 8.0
	MinPolygonAreaManyColors = 20.0
	SmallImageMaxSimplify    = 0.5
)

// Border handling.
var (
	// SnapDistance pulls points this close to an image edge onto it.
	SnapDistance = 4.0
	// BorderEpsilon decides whether a point lies on an image edge.
	BorderEpsilon = 0.01
	// CornerInjectDistanceSq keeps injected corners away from existing points.
	CornerInjectDistanceSq = 1.0
	// DedupDistance merges consecutive points closer than this.
	DedupDistance = 0.5
	// StripeMaxThickness routes thinner shapes to the rectangle override.
	StripeMaxThickness = 2.0
)

// Curve fitting.
var (
	FitMaxIterations    = 12
	FitMaxSegmentPoints = 40
	FitCornerAngle      = 30.0
	// FitMarginFraction expands the control-point clamp box by a fraction of
	// the larger source dimension, but never by less than FitMinMargin.
	FitMarginFraction = 0.15
	FitMinMargin      = 2.0
)

// Output.
var (
	// GapStrokeWidth is stroked in the fill color to hide anti-aliasing seams
	// between neighbouring regions.
	GapStrokeWidth = 0.5
	// LinearCurveLength and LinearControlDistance decide when a cubic is
	// written as a line.
	LinearCurveLength     = 0.5
	LinearControlDistance = 1.0
	// LineMergeDistance bounds how far a merged line may stray from the
	// points it replaces.
	LineMergeDistance = 1.5
	// MinRenderSize drops paths smaller than this in both dimensions.
	MinRenderSize = 1.0
)
