package geometry

import "math"

// SmoothCorners blends every point with its neighbours using Gaussian weights
// over a window of the given size (σ = 0.6·window/2). Endpoints and points
// detected as corners at thresholdDeg are copied through unchanged.
func (line Polyline) SmoothCorners(window int, thresholdDeg float64) Polyline {
	n := len(line)
	half := window / 2
	if n <= window || half == 0 {
		return line.Clone()
	}

	sigma := float64(half) * 0.6
	weights := make([]float64, 2*half+1)
	for i := range weights {
		d := float64(i - half)
		weights[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	for _, c := range line.Corners(thresholdDeg) {
		keep[c] = true
	}

	out := make(Polyline, n)
	for i, p := range line {
		if keep[i] {
			out[i] = p
			continue
		}
		start := max(i-half, 0)
		end := min(i+half+1, n)
		var sx, sy, sw float64
		for j := start; j < end; j++ {
			w := weights[j-i+half]
			sx += line[j].X * w
			sy += line[j].Y * w
			sw += w
		}
		if sw > 0 {
			out[i] = Point{X: sx / sw, Y: sy / sw}
		} else {
			out[i] = p
		}
	}
	return out
}
