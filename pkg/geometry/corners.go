package geometry

import "math"

// cornerWindows are the neighbourhood sizes probed by the structure-tensor
// measure; the strongest response wins.
var cornerWindows = []int{3, 5, 7}

const harrisK = 0.04

// Corners returns the indices of interior points whose turn is sharp enough
// to count as a corner. The score of a point is its deviation from a straight
// line (radians) boosted by a multi-scale structure-tensor response; a point
// is a corner when the score exceeds thresholdDeg and it is not beaten by
// either neighbour.
func (line Polyline) Corners(thresholdDeg float64) []int {
	n := len(line)
	if n < 3 {
		return nil
	}

	threshold := thresholdDeg * math.Pi / 180
	scores := make([]float64, n)
	for i := 1; i < n-1; i++ {
		deviation := math.Abs(math.Pi - turnAngle(line[i-1], line[i], line[i+1]))
		harris := 0.0
		for _, w := range cornerWindows {
			if r, ok := line.harrisResponse(i, w); ok {
				harris = math.Max(harris, r)
			}
		}
		scores[i] = deviation * (1 + harris)
	}

	var corners []int
	for i := 1; i < n-1; i++ {
		s := scores[i]
		if s <= threshold {
			continue
		}
		if (i == 1 || s >= scores[i-1]) && (i == n-2 || s >= scores[i+1]) {
			corners = append(corners, i)
		}
	}
	return corners
}

// turnAngle is the angle at b between the rays towards a and c, in [0, π].
// A zero-length ray reads as a straight continuation.
func turnAngle(a, b, c Point) float64 {
	v1 := a.Minus(b)
	v2 := c.Minus(b)
	l1, l2 := v1.Magnitude(), v2.Magnitude()
	if l1 == 0 || l2 == 0 {
		return math.Pi
	}
	return math.Acos(Clamp(v1.Dot(v2)/(l1*l2), -1, 1))
}

// harrisResponse accumulates the structure tensor of the edge vectors in a
// window centred on idx and returns det-k*trace² normalised by the trace.
// Windows clipped to fewer than three points report ok=false.
func (line Polyline) harrisResponse(idx, window int) (float64, bool) {
	half := window / 2
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := idx + half + 1
	if end > len(line) {
		end = len(line)
	}
	if end-start < 3 {
		return 0, false
	}

	var ixx, iyy, ixy float64
	for i := start; i < end-1; i++ {
		d := line[i+1].Minus(line[i])
		ixx += d.X * d.X
		iyy += d.Y * d.Y
		ixy += d.X * d.Y
	}

	det := ixx*iyy - ixy*ixy
	trace := ixx + iyy
	response := det - harrisK*trace*trace
	if response <= 0 {
		return 0, true
	}
	return response / (trace + 1e-10), true
}
