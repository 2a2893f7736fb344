package bezier

import (
	"math"

	"vectrace/pkg/cfg"
	"vectrace/pkg/geometry"
)

// Fitter fits cubic chains to polylines within a maximum deviation.
type Fitter struct {
	// Tolerance is the largest allowed distance between an input point and
	// the curve at its parameter.
	Tolerance float64
	// MaxIterations bounds the Newton-Raphson refinement of one segment.
	MaxIterations int
	// MaxSegmentPoints is the largest run fitted without splitting first.
	MaxSegmentPoints int
	// CornerAngle is the turn, in degrees, above which a point splits the
	// polyline into independently fitted runs.
	CornerAngle float64
}

// NewFitter returns a fitter with the default limits and the given
// tolerance.
func NewFitter(tolerance float64) *Fitter {
	return &Fitter{
		Tolerance:        tolerance,
		MaxIterations:    cfg.FitMaxIterations,
		MaxSegmentPoints: cfg.FitMaxSegmentPoints,
		CornerAngle:      cfg.FitCornerAngle,
	}
}

// FitPath fits a chain of cubics through points. Every returned curve
// starts where the previous one ends. When closed is set and the chain does
// not return to its first point, a straight closing curve is appended.
// Control points are kept within a margin around the input bounds.
func (f *Fitter) FitPath(points geometry.Polyline, closed bool) []Curve {
	n := len(points)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []Curve{Line(points[0], points[1])}
	}

	corners := f.sharpCorners(points)
	var curves []Curve
	if len(corners) == 0 {
		curves = f.fitSegment(points)
		if len(curves) > 1 {
			smoothJoins(curves)
		}
	} else {
		splits := make([]int, 0, len(corners)+2)
		splits = append(splits, 0)
		for _, c := range corners {
			if c > 0 && c < n-1 {
				splits = append(splits, c)
			}
		}
		splits = append(splits, n-1)
		for i := 1; i < len(splits); i++ {
			s, e := splits[i-1], splits[i]
			if e > s {
				curves = append(curves, f.fitSegment(points[s:e+1])...)
			}
		}
	}

	if closed && len(curves) > 0 {
		last := curves[len(curves)-1].End
		if last.Distance(curves[0].Start) > cfg.DedupDistance {
			curves = append(curves, Line(last, curves[0].Start))
		}
	}

	bounds := points.Bounds()
	margin := math.Max(cfg.FitMarginFraction*math.Max(bounds.Width(), bounds.Height()), cfg.FitMinMargin)
	ClampControls(curves, bounds.Expand(margin))
	return curves
}

// sharpCorners lists the indices where the polyline turns by more than the
// corner angle.
func (f *Fitter) sharpCorners(points geometry.Polyline) []int {
	limit := f.CornerAngle * math.Pi / 180
	var corners []int
	for i := 1; i+1 < len(points); i++ {
		v1 := points[i].Minus(points[i-1])
		v2 := points[i+1].Minus(points[i])
		l1, l2 := v1.Magnitude(), v2.Magnitude()
		if l1 < 1e-6 || l2 < 1e-6 {
			continue
		}
		cos := geometry.Clamp(v1.Dot(v2)/(l1*l2), -1, 1)
		if math.Acos(cos) > limit {
			corners = append(corners, i)
		}
	}
	return corners
}

// smoothJoins rescales the leading tangent of each curve to continue the
// trailing tangent of its predecessor.
func smoothJoins(curves []Curve) {
	for i := 0; i+1 < len(curves); i++ {
		cur, next := &curves[i], &curves[i+1]
		t1 := cur.End.Minus(cur.Control2)
		t2 := next.Control1.Minus(next.Start)
		l1, l2 := t1.Magnitude(), t2.Magnitude()
		if l1 > 1e-10 && l2 > 1e-10 {
			next.Control1 = next.Start.Add(t1.Scale(l2 / l1))
		}
	}
}

// fitSegment fits one corner-free run. Runs that cannot be fitted within
// tolerance are split and the halves queued; the queue is a stack so the
// left half is always finished first.
func (f *Fitter) fitSegment(points geometry.Polyline) []Curve {
	var curves []Curve
	stack := []geometry.Polyline{points}
	for len(stack) > 0 {
		run := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := len(run)
		switch {
		case n < 2:
			continue
		case n == 2 || f.nearlyLinear(run):
			curves = append(curves, Line(run[0], run[n-1]))
			continue
		case n == 3:
			curves = append(curves, throughThree(run[0], run[1], run[2]))
			continue
		case n > f.MaxSegmentPoints:
			split := bestSplit(run)
			stack = append(stack, run[split:], run[:split+1])
			continue
		}

		curve, ok, worst := f.refine(run)
		if ok {
			curves = append(curves, curve)
			continue
		}
		split := geometry.Clamp(worst, 2, n-2)
		stack = append(stack, run[split:], run[:split+1])
	}
	return curves
}

// refine fits a single curve and improves it by reparameterization. It
// returns the best curve found, whether it meets the tolerance, and the
// index of the worst point.
func (f *Fitter) refine(points geometry.Polyline) (Curve, bool, int) {
	t := ChordLengthParameterize(points)
	best := LeastSquares(points, t)
	bestErr, bestIdx := MaxError(best, points)
	if bestErr <= f.Tolerance {
		return best, true, bestIdx
	}
	for iter := 0; iter < f.MaxIterations; iter++ {
		t = Reparameterize(best, points, t)
		curve := LeastSquares(points, t)
		err, idx := MaxError(curve, points)
		if err >= bestErr {
			break
		}
		best, bestErr, bestIdx = curve, err, idx
		if bestErr <= f.Tolerance {
			return best, true, bestIdx
		}
	}
	return best, false, bestIdx
}

// nearlyLinear reports whether every point lies close to the chord line.
// The allowance grows with the chord so long flat runs stay straight.
func (f *Fitter) nearlyLinear(points geometry.Polyline) bool {
	chord := geometry.LineSegment{A: points[0], B: points[len(points)-1]}
	length := chord.Length()
	if length < 1e-6 {
		return true
	}
	threshold := math.Max(f.Tolerance*0.5, length*0.01)
	for _, p := range points[1 : len(points)-1] {
		if chord.LineDistance(p) > threshold {
			return false
		}
	}
	return true
}

// throughThree builds the curve whose controls sit two thirds of the way
// from each endpoint toward the middle point.
func throughThree(p0, p1, p2 geometry.Point) Curve {
	return Curve{
		Start:    p0,
		Control1: p0.Add(p1.Minus(p0).Scale(2.0 / 3)),
		Control2: p2.Add(p1.Minus(p2).Scale(2.0 / 3)),
		End:      p2,
	}
}

// bestSplit picks the interior index with the strongest local bend, or the
// midpoint when the run is straight.
func bestSplit(points geometry.Polyline) int {
	n := len(points)
	best, bestScore := n/2, 0.0
	for i := 2; i < n-2; i++ {
		v1 := points[i].Minus(points[i-2])
		v2 := points[i+2].Minus(points[i])
		l1, l2 := v1.Magnitude(), v2.Magnitude()
		if l1 <= 0 || l2 <= 0 {
			continue
		}
		score := math.Abs(v1.CrossProductZ(v2)) / (l1 * l2)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return geometry.Clamp(best, 2, n-2)
}

// ChordLengthParameterize assigns each point its normalized cumulative
// distance along the polyline. The last value is always 1.
func ChordLengthParameterize(points geometry.Polyline) []float64 {
	t := make([]float64, len(points))
	if len(points) == 0 {
		return t
	}
	for i := 1; i < len(points); i++ {
		t[i] = t[i-1] + points[i].Distance(points[i-1])
	}
	total := t[len(t)-1]
	if total > 0 {
		for i := range t {
			t[i] /= total
		}
	}
	t[len(t)-1] = 1
	return t
}

// LeastSquares fits the two control points of a curve with fixed endpoints
// to points at parameters t. A singular system falls back to a straight
// curve.
func LeastSquares(points geometry.Polyline, t []float64) Curve {
	start, end := points[0], points[len(points)-1]
	var a11, a12, a22 float64
	var bx1, bx2, by1, by2 float64
	for i, p := range points {
		ti := t[i]
		mt := 1 - ti
		b0 := mt * mt * mt
		b1 := 3 * mt * mt * ti
		b2 := 3 * mt * ti * ti
		b3 := ti * ti * ti

		a11 += b1 * b1
		a12 += b1 * b2
		a22 += b2 * b2

		rx := p.X - b0*start.X - b3*end.X
		ry := p.Y - b0*start.Y - b3*end.Y
		bx1 += b1 * rx
		bx2 += b2 * rx
		by1 += b1 * ry
		by2 += b2 * ry
	}

	det := a11*a22 - a12*a12
	if math.Abs(det) < 1e-12 {
		return Line(start, end)
	}
	return Curve{
		Start: start,
		Control1: geometry.Point{
			X: (a22*bx1 - a12*bx2) / det,
			Y: (a22*by1 - a12*by2) / det,
		},
		Control2: geometry.Point{
			X: (a11*bx2 - a12*bx1) / det,
			Y: (a11*by2 - a12*by1) / det,
		},
		End: end,
	}
}

// MaxError returns the largest distance between an interior point and the
// curve at the point's chord-length parameter, with the point's index.
func MaxError(c Curve, points geometry.Polyline) (float64, int) {
	t := ChordLengthParameterize(points)
	worst, idx := 0.0, len(points)/2
	for i := 1; i+1 < len(points); i++ {
		d := c.Eval(t[i]).Distance(points[i])
		if d > worst {
			worst, idx = d, i
		}
	}
	return worst, idx
}

// Reparameterize applies one Newton-Raphson step to each interior
// parameter, moving it toward the closest point on c. The result starts at
// 0, ends at 1 and is strictly increasing.
func Reparameterize(c Curve, points geometry.Polyline, t []float64) []float64 {
	n := len(points)
	out := make([]float64, n)
	copy(out, t)
	if n == 0 {
		return out
	}
	for i := 1; i+1 < n; i++ {
		ti := out[i]
		diff := c.Eval(ti).Minus(points[i])
		d1 := c.Derivative(ti)
		d2 := c.SecondDerivative(ti)
		num := diff.Dot(d1)
		den := d1.Dot(d1) + diff.Dot(d2)
		if math.Abs(den) > 1e-12 {
			out[i] = geometry.Clamp(ti-num/den, 0, 1)
		}
	}

	const step = 1e-10
	for i := 1; i < n; i++ {
		if out[i] <= out[i-1] {
			out[i] = out[i-1] + step
		}
	}
	out[0] = 0
	out[n-1] = 1
	for i := n - 2; i > 0; i-- {
		if out[i] >= out[i+1] {
			out[i] = out[i+1] - step
		}
	}
	return out
}
