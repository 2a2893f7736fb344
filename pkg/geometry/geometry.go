// Package geometry holds the planar primitives shared by the tracing and
// fitting stages, plus the corner-aware polyline reducers.
package geometry

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

type Rectangle struct {
	Min Point
	Max Point
}

// Polyline is an ordered point sequence. Closed polylines do not repeat
// their first point at the end.
type Polyline []Point

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// DistanceSq returns the squared distance between two points.
func (p Point) DistanceSq(other Point) float64 {
	dx, dy := p.X-other.X, p.Y-other.Y
	return dx*dx + dy*dy
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return p.Add(q.Minus(p).Scale(t))
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	AP := p.Minus(s.A)
	AB := s.A.Minus(s.B)
	mAP := AP.Magnitude()
	mBP := p.Minus(s.B).Magnitude()
	mAB := AB.Magnitude()

	if mAP > mAB || mBP > mAB {
		// closest point on line is outside segment boundaries, so the closest point
		// is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(AP.CrossProductZ(AB)) / mAB
}

// LineDistance returns the distance from p to the infinite line through the
// segment. A degenerate segment measures the distance to A.
func (s LineSegment) LineDistance(p Point) float64 {
	AB := s.B.Minus(s.A)
	mAB := AB.Magnitude()
	if mAB == 0 {
		return p.Distance(s.A)
	}
	return math.Abs(AB.CrossProductZ(p.Minus(s.A))) / mAB
}

func (r Rectangle) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r Rectangle) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Expand grows the rectangle by m on every side. Negative m shrinks it.
func (r Rectangle) Expand(m float64) Rectangle {
	return Rectangle{
		Min: Point{X: r.Min.X - m, Y: r.Min.Y - m},
		Max: Point{X: r.Max.X + m, Y: r.Max.Y + m},
	}
}

// ClampPoint moves p to the nearest point inside the rectangle.
func (r Rectangle) ClampPoint(p Point) Point {
	return Point{
		X: Clamp(p.X, r.Min.X, r.Max.X),
		Y: Clamp(p.Y, r.Min.Y, r.Max.Y),
	}
}

// Bounds returns the axis-aligned bounding box of the polyline. An empty
// polyline yields the zero rectangle.
func (line Polyline) Bounds() Rectangle {
	if len(line) == 0 {
		return Rectangle{}
	}
	r := Rectangle{Min: line[0], Max: line[0]}
	for _, p := range line[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Area returns the unsigned shoelace area of the polyline read as a closed ring.
func (line Polyline) Area() float64 {
	if len(line) < 3 {
		return 0
	}
	sum := 0.0
	prev := line[len(line)-1]
	for _, p := range line {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(sum) / 2
}

// Clone returns a copy that does not share storage with line.
func (line Polyline) Clone() Polyline {
	if line == nil {
		return nil
	}
	out := make(Polyline, len(line))
	copy(out, line)
	return out
}

// Dedup drops points that are within minDist of the previously kept point.
func (line Polyline) Dedup(minDist float64) Polyline {
	if len(line) == 0 {
		return nil
	}
	limit := minDist * minDist
	out := Polyline{line[0]}
	for _, p := range line[1:] {
		if p.DistanceSq(out[len(out)-1]) > limit {
			out = append(out, p)
		}
	}
	return out
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
