package svgpath

import (
	"math"

	"vectrace/pkg/cfg"
)

func (path *SubPath) StartPoint() (float64, float64) {
	return path.X, path.Y
}

// Bounds returns the box around every coordinate of the subpath, control
// points included.
func (path *SubPath) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY, maxX, maxY = path.X, path.Y, path.X, path.Y
	grow := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	for _, d := range path.DrawTo {
		grow(d.X, d.Y)
		if d.Command == CurveTo {
			grow(d.X1, d.Y1)
			grow(d.X2, d.Y2)
		}
	}
	return
}

func pointDistance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// lineDistance is the distance from (px, py) to the infinite line through
// (x1, y1) and (x2, y2).
func lineDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return pointDistance(px, py, x1, y1)
	}
	return math.Abs(dx*(y1-py)-dy*(x1-px)) / length
}

// simplifyCurves turns cubics that are too short to matter, or whose
// control points both hug the chord, into lines.
func (path *SubPath) simplifyCurves() {
	lastX, lastY := path.StartPoint()
	for _, drawTo := range path.DrawTo {
		if drawTo.Command == CurveTo {
			short := pointDistance(lastX, lastY, drawTo.X, drawTo.Y) < cfg.LinearCurveLength
			flat := lineDistance(drawTo.X1, drawTo.Y1, lastX, lastY, drawTo.X, drawTo.Y) < cfg.LinearControlDistance &&
				lineDistance(drawTo.X2, drawTo.Y2, lastX, lastY, drawTo.X, drawTo.Y) < cfg.LinearControlDistance
			if short || flat {
				drawTo.Command = LineTo
			}
		}
		lastX, lastY = drawTo.X, drawTo.Y
	}
}

// simplifyLines merges runs of lines. A line end is dropped when the
// following line ends close to the last kept point, or when the dropped
// point stays near the merged line.
func (path *SubPath) simplifyLines() {
	lastX, lastY := path.StartPoint()
	keepIndex := 0
	for i, drawTo := range path.DrawTo {
		if i == len(path.DrawTo)-1 {
			path.DrawTo[keepIndex] = drawTo
			keepIndex++
			break
		}
		next := path.DrawTo[i+1]
		redundant := false
		if drawTo.Command == LineTo && next.Command == LineTo {
			redundant = pointDistance(lastX, lastY, next.X, next.Y) < cfg.LinearCurveLength ||
				lineDistance(drawTo.X, drawTo.Y, lastX, lastY, next.X, next.Y) < cfg.LineMergeDistance
		}
		if !redundant {
			path.DrawTo[keepIndex] = drawTo
			keepIndex++
			lastX, lastY = drawTo.X, drawTo.Y
		}
	}
	path.DrawTo = path.DrawTo[:keepIndex]
}

// Simplify converts near-straight curves to lines and merges collinear
// line runs.
func (path *SubPath) Simplify() {
	path.simplifyCurves()
	path.simplifyLines()
}
