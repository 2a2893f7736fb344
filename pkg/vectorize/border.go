package vectorize

import (
	"math"

	"vectrace/pkg/cfg"
	"vectrace/pkg/geometry"
)

type imageEdge byte

const (
	edgeNone imageEdge = iota
	edgeTop
	edgeRight
	edgeBottom
	edgeLeft
)

// snapToBorder moves points within cfg.SnapDistance of an image edge onto
// it, each axis independently.
func snapToBorder(line geometry.Polyline, w, h float64) geometry.Polyline {
	out := make(geometry.Polyline, len(line))
	for i, p := range line {
		switch {
		case p.X < cfg.SnapDistance:
			p.X = 0
		case p.X > w-cfg.SnapDistance:
			p.X = w
		}
		switch {
		case p.Y < cfg.SnapDistance:
			p.Y = 0
		case p.Y > h-cfg.SnapDistance:
			p.Y = h
		}
		out[i] = p
	}
	return out
}

// edgeOf reports which image edge p lies on. Horizontal edges win at the
// corners.
func edgeOf(p geometry.Point, w, h float64) imageEdge {
	switch {
	case math.Abs(p.Y) < cfg.BorderEpsilon:
		return edgeTop
	case math.Abs(p.Y-h) < cfg.BorderEpsilon:
		return edgeBottom
	case math.Abs(p.X) < cfg.BorderEpsilon:
		return edgeLeft
	case math.Abs(p.X-w) < cfg.BorderEpsilon:
		return edgeRight
	}
	return edgeNone
}

// cornerBetween returns the image corner shared by two adjacent edges.
func cornerBetween(a, b imageEdge, w, h float64) (geometry.Point, bool) {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == edgeTop && b == edgeRight:
		return geometry.Point{X: w, Y: 0}, true
	case a == edgeRight && b == edgeBottom:
		return geometry.Point{X: w, Y: h}, true
	case a == edgeBottom && b == edgeLeft:
		return geometry.Point{X: 0, Y: h}, true
	case a == edgeTop && b == edgeLeft:
		return geometry.Point{X: 0, Y: 0}, true
	}
	return geometry.Point{}, false
}

// injectCorners inserts the image corner between consecutive points (the
// ring wraps) that lie on two adjacent image edges, unless either point is
// already within one pixel of that corner. Opposite edges get nothing.
func injectCorners(line geometry.Polyline, w, h float64) geometry.Polyline {
	n := len(line)
	if n < 3 {
		return line
	}
	out := make(geometry.Polyline, 0, n+4)
	for i, p := range line {
		out = append(out, p)
		q := line[(i+1)%n]
		e1, e2 := edgeOf(p, w, h), edgeOf(q, w, h)
		if e1 == edgeNone || e2 == edgeNone || e1 == e2 {
			continue
		}
		corner, ok := cornerBetween(e1, e2, w, h)
		if !ok {
			continue
		}
		if p.DistanceSq(corner) > cfg.CornerInjectDistanceSq && q.DistanceSq(corner) > cfg.CornerInjectDistanceSq {
			out = append(out, corner)
		}
	}
	return out
}
