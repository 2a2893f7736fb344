package geometry

import (
	"container/heap"
	"math"
)

// Visvalingam reduces the polyline by repeatedly dropping the interior point
// whose triangle with its live neighbours has the smallest area, for as long
// as that area is below minArea and more than three points remain. Endpoints
// and the pinned indices are never dropped. A neighbour's recomputed area is
// floored at the area just removed, so the removal order is monotonic.
func (line Polyline) Visvalingam(minArea float64, pinned []int) Polyline {
	n := len(line)
	if n <= 3 {
		return line.Clone()
	}

	isPinned := make([]bool, n)
	for _, i := range pinned {
		if i >= 0 && i < n {
			isPinned[i] = true
		}
	}

	areas := make([]float64, n)
	areas[0], areas[n-1] = math.MaxFloat64, math.MaxFloat64
	q := make(areaQueue, 0, n)
	for i := 1; i < n-1; i++ {
		if isPinned[i] {
			areas[i] = math.MaxFloat64
		} else {
			areas[i] = triangleArea(line[i-1], line[i], line[i+1])
		}
		q = append(q, areaEntry{idx: i, area: areas[i]})
	}
	heap.Init(&q)

	// prev/next form a doubly linked list over the live points.
	prev := make([]int, n)
	next := make([]int, n)
	for i := range line {
		prev[i] = i - 1
		next[i] = i + 1
	}
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}
	aliveCount := n

	for q.Len() > 0 {
		top := q[0]
		if !alive[top.idx] || top.area != areas[top.idx] {
			heap.Pop(&q)
			continue
		}
		if top.area >= minArea || aliveCount <= 3 {
			break
		}
		heap.Pop(&q)

		idx, floor := top.idx, top.area
		alive[idx] = false
		aliveCount--
		p, nx := prev[idx], next[idx]
		next[p] = nx
		prev[nx] = p

		if pp := prev[p]; pp >= 0 && !isPinned[p] {
			areas[p] = math.Max(triangleArea(line[pp], line[p], line[nx]), floor)
			heap.Push(&q, areaEntry{idx: p, area: areas[p]})
		}
		if nn := next[nx]; nn < n && !isPinned[nx] {
			areas[nx] = math.Max(triangleArea(line[p], line[nx], line[nn]), floor)
			heap.Push(&q, areaEntry{idx: nx, area: areas[nx]})
		}
	}

	out := make(Polyline, 0, aliveCount)
	for i, p := range line {
		if alive[i] {
			out = append(out, p)
		}
	}
	return out
}

// Simplify detects corners and then removes points whose effective area is
// below tolerance², keeping the corners in place. Corners are detected again
// on each reduced line until a round removes nothing, so simplifying the
// result a second time returns it unchanged.
func (line Polyline) Simplify(tolerance, cornerThresholdDeg float64) Polyline {
	if tolerance < 0 {
		tolerance = 0
	}
	minArea := tolerance * tolerance
	out := line.Visvalingam(minArea, line.Corners(cornerThresholdDeg))
	for len(out) > 3 {
		next := out.Visvalingam(minArea, out.Corners(cornerThresholdDeg))
		if len(next) == len(out) {
			break
		}
		out = next
	}
	return out
}

func triangleArea(a, b, c Point) float64 {
	return math.Abs((a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y)) / 2)
}

type areaEntry struct {
	idx  int
	area float64
}

// areaQueue orders by area, then by index so equal areas resolve to the
// earliest point.
type areaQueue []areaEntry

func (q areaQueue) Len() int { return len(q) }
func (q areaQueue) Less(i, j int) bool {
	if q[i].area != q[j].area {
		return q[i].area < q[j].area
	}
	return q[i].idx < q[j].idx
}
func (q areaQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *areaQueue) Push(x any)   { *q = append(*q, x.(areaEntry)) }
func (q *areaQueue) Pop() any {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}
