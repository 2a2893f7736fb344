package vectorize

import (
	"math"
	"sort"

	"github.com/asim/quadtree"

	"vectrace/pkg/svgpath"
)

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// Index finds paths by the anchor points of their outlines.
type Index struct {
	tree    *quadtree.QuadTree
	anchors map[*Path][][2]float64
	order   map[*Path]int
}

// NewIndex indexes every path of r.
func NewIndex(r *Result) *Index {
	w, h := float64(r.Width), float64(r.Height)
	// The margin keeps anchors on the far edges inside the root box.
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(w/2, h/2, nil),
		quadtree.NewPoint(w/2+10, h/2+10, nil))
	idx := &Index{
		tree:    quadtree.New(aabb, 0, nil),
		anchors: make(map[*Path][][2]float64),
		order:   make(map[*Path]int, len(r.Paths)),
	}
	for i, p := range r.Paths {
		if _, ok := idx.order[p]; !ok {
			idx.order[p] = i
		}
		idx.add(p)
	}
	return idx
}

func anchorsOf(p *Path) [][2]float64 {
	var pts [][2]float64
	for _, c := range p.Curves {
		pts = append(pts, [2]float64{c.Start.X, c.Start.Y})
	}
	for _, sub := range p.Override {
		pts = append(pts, [2]float64{sub.X, sub.Y})
		for _, d := range sub.DrawTo {
			if d.Command != svgpath.ClosePath {
				pts = append(pts, [2]float64{d.X, d.Y})
			}
		}
	}
	return pts
}

func (idx *Index) add(p *Path) {
	pts := anchorsOf(p)
	if len(pts) == 0 {
		return
	}
	idx.anchors[p] = pts
	for _, xy := range pts {
		point := quadtree.NewPoint(xy[0], xy[1], nil)
		found := idx.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(found) > 0 {
			fx, fy := found[0].Coordinates()
			if fx == xy[0] && fy == xy[1] {
				found[0].Data().(map[*Path]struct{})[p] = struct{}{}
				continue
			}
		}
		idx.tree.Insert(quadtree.NewPoint(xy[0], xy[1], map[*Path]struct{}{p: {}}))
	}
}

// distance is the distance from (x, y) to the closest anchor of p.
func (idx *Index) distance(p *Path, x, y float64) float64 {
	best := math.Inf(1)
	for _, xy := range idx.anchors[p] {
		best = math.Min(best, math.Hypot(xy[0]-x, xy[1]-y))
	}
	return best
}

// Near returns the paths with an anchor within radius of (x, y), closest
// first. Ties go to the larger path, then to the one earlier in the result.
func (idx *Index) Near(x, y, radius float64) []*Path {
	box := quadtree.NewAABB(
		quadtree.NewPoint(x, y, nil),
		quadtree.NewPoint(radius, radius, nil))
	seen := make(map[*Path]struct{})
	var near []*Path
	for _, point := range idx.tree.Search(box) {
		for p := range point.Data().(map[*Path]struct{}) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			if idx.distance(p, x, y) <= radius {
				near = append(near, p)
			}
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		di, dj := idx.distance(near[i], x, y), idx.distance(near[j], x, y)
		if di != dj {
			return di < dj
		}
		if near[i].Area != near[j].Area {
			return near[i].Area > near[j].Area
		}
		return idx.order[near[i]] < idx.order[near[j]]
	})
	return near
}
