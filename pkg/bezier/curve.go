// Package bezier fits chains of cubic Bézier curves to polylines.
package bezier

import (
	"math"

	"vectrace/pkg/geometry"
	"vectrace/pkg/svgpath"
)

// Curve is a cubic Bézier segment.
type Curve struct {
	Start    geometry.Point
	Control1 geometry.Point
	Control2 geometry.Point
	End      geometry.Point
}

// Line returns the straight segment from a to b as a cubic, with the control
// points at one and two thirds of the chord.
func Line(a, b geometry.Point) Curve {
	d := b.Minus(a)
	return Curve{
		Start:    a,
		Control1: a.Add(d.Scale(1.0 / 3)),
		Control2: a.Add(d.Scale(2.0 / 3)),
		End:      b,
	}
}

// Eval returns the point at parameter t.
func (c Curve) Eval(t float64) geometry.Point {
	mt := 1 - t
	b0 := mt * mt * mt
	b1 := 3 * mt * mt * t
	b2 := 3 * mt * t * t
	b3 := t * t * t
	return geometry.Point{
		X: b0*c.Start.X + b1*c.Control1.X + b2*c.Control2.X + b3*c.End.X,
		Y: b0*c.Start.Y + b1*c.Control1.Y + b2*c.Control2.Y + b3*c.End.Y,
	}
}

// Derivative returns the first derivative at t.
func (c Curve) Derivative(t float64) geometry.Vector2 {
	mt := 1 - t
	a := c.Control1.Minus(c.Start)
	b := c.Control2.Minus(c.Control1)
	d := c.End.Minus(c.Control2)
	return a.Scale(3 * mt * mt).Add(b.Scale(6 * mt * t)).Add(d.Scale(3 * t * t))
}

// SecondDerivative returns the second derivative at t.
func (c Curve) SecondDerivative(t float64) geometry.Vector2 {
	a := c.Control2.Minus(c.Control1.Scale(2)).Add(c.Start)
	b := c.End.Minus(c.Control2.Scale(2)).Add(c.Control1)
	return a.Scale(6 * (1 - t)).Add(b.Scale(6 * t))
}

// Bounds returns the box around all four defining points, which contains
// the curve.
func (c Curve) Bounds() geometry.Rectangle {
	return geometry.Polyline{c.Start, c.Control1, c.Control2, c.End}.Bounds()
}

// Bounds returns the box around every defining point of a chain. An empty
// chain yields the zero rectangle.
func Bounds(curves []Curve) geometry.Rectangle {
	if len(curves) == 0 {
		return geometry.Rectangle{}
	}
	r := curves[0].Bounds()
	for _, c := range curves[1:] {
		b := c.Bounds()
		r.Min.X = math.Min(r.Min.X, b.Min.X)
		r.Min.Y = math.Min(r.Min.Y, b.Min.Y)
		r.Max.X = math.Max(r.Max.X, b.Max.X)
		r.Max.Y = math.Max(r.Max.Y, b.Max.Y)
	}
	return r
}

// ClampControls moves every control point into r. Endpoints are untouched.
func ClampControls(curves []Curve, r geometry.Rectangle) {
	for i := range curves {
		curves[i].Control1 = r.ClampPoint(curves[i].Control1)
		curves[i].Control2 = r.ClampPoint(curves[i].Control2)
	}
}

// ToSubPath converts a chain into SVG path commands, ending with a close
// command when closed is set.
func ToSubPath(curves []Curve, closed bool) *svgpath.SubPath {
	if len(curves) == 0 {
		return nil
	}
	path := &svgpath.SubPath{X: curves[0].Start.X, Y: curves[0].Start.Y}
	for _, c := range curves {
		path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{
			Command: svgpath.CurveTo,
			X1:      c.Control1.X, Y1: c.Control1.Y,
			X2: c.Control2.X, Y2: c.Control2.Y,
			X: c.End.X, Y: c.End.Y,
		})
	}
	if closed {
		path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{Command: svgpath.ClosePath, X: path.X, Y: path.Y})
	}
	return path
}

// FromSubPath converts parsed path commands back into a chain. Lines become
// straight cubics; a close command adds the closing line when the subpath
// does not already end at its start.
func FromSubPath(path *svgpath.SubPath) []Curve {
	var curves []Curve
	cur := geometry.Point{X: path.X, Y: path.Y}
	for _, d := range path.DrawTo {
		end := geometry.Point{X: d.X, Y: d.Y}
		switch d.Command {
		case svgpath.CurveTo:
			curves = append(curves, Curve{
				Start:    cur,
				Control1: geometry.Point{X: d.X1, Y: d.Y1},
				Control2: geometry.Point{X: d.X2, Y: d.Y2},
				End:      end,
			})
		case svgpath.LineTo, svgpath.ClosePath:
			if end == cur {
				continue
			}
			curves = append(curves, Line(cur, end))
		}
		cur = end
	}
	return curves
}
