package quantize

import (
	"vectrace/pkg/edge"

	"golang.org/x/sync/errgroup"
)

// Smooth applies passes rounds of majority voting to the index map. A pixel
// whose edge strength is at or above threshold keeps its index; any other
// pixel takes the most frequent index among the non-edge pixels of its 3×3
// window (itself included). Each pass reads the previous pass's result only.
func Smooth(indices []int, edges *edge.Map, threshold uint8, passes, workers int) ([]int, error) {
	w, h := edges.Width, edges.Height
	k := 0
	for _, idx := range indices {
		k = max(k, idx+1)
	}

	cur := append([]int(nil), indices...)
	next := make([]int, len(cur))
	for pass := 0; pass < passes; pass++ {
		var g errgroup.Group
		g.SetLimit(max(workers, 1))
		for _, band := range splitRange(h, max(workers, 1)) {
			g.Go(func() error {
				counts := make([]int, k)
				for y := band[0]; y < band[1]; y++ {
					for x := 0; x < w; x++ {
						next[y*w+x] = vote(cur, edges, threshold, x, y, counts)
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		cur, next = next, cur
	}
	return cur, nil
}

func vote(cur []int, edges *edge.Map, threshold uint8, x, y int, counts []int) int {
	w, h := edges.Width, edges.Height
	idx := y*w + x
	if edges.Data[idx] >= threshold {
		return cur[idx]
	}

	x0, x1 := max(x-1, 0), min(x+2, w)
	y0, y1 := max(y-1, 0), min(y+2, h)
	best, bestCount := cur[idx], 0
	for ny := y0; ny < y1; ny++ {
		for nx := x0; nx < x1; nx++ {
			n := ny*w + nx
			if edges.Data[n] >= threshold {
				continue
			}
			c := cur[n]
			counts[c]++
			if counts[c] > bestCount {
				best, bestCount = c, counts[c]
			}
		}
	}
	// counts is shared across the band; clear only what was touched.
	for ny := y0; ny < y1; ny++ {
		for nx := x0; nx < x1; nx++ {
			counts[cur[ny*w+nx]] = 0
		}
	}
	return best
}
