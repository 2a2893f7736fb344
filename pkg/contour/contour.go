// Package contour traces region boundaries out of binary pixel masks with
// marching squares.
//
// The mask is padded with one ring of outside cells, so the corner grid is
// (width+2)×(height+2) and grid corner (gx, gy) stands for pixel
// (gx-1, gy-1). Every cell has a 4-bit case built from its corners
// (top-left, top-right, bottom-right, bottom-left) and zero, one, or two
// boundary crossings. Crossings are emitted at edge midpoints, shifted back
// into pixel coordinates, so a w×h block of pixels traces a ring spanning
// [0,w]×[0,h] with its corners cut at 45°.
package contour

import (
	"errors"
	"fmt"

	"vectrace/pkg/geometry"
)

var ErrMaskSize = errors.New("mask length does not match width*height")

// Cell sides.
const (
	top side = iota
	right
	bottom
	left
)

type side uint8

func (s side) opposite() side {
	return (s + 2) % 4
}

type crossing struct {
	entry, exit side
}

// crossings lists the (entry, exit) pairs of each case. Cases 5 and 10 are
// the saddles: both diagonal crossings are kept, with no attempt to decide
// whether the centre of the cell is inside.
var crossings = [16][]crossing{
	0:  nil,
	1:  {{bottom, left}},
	2:  {{right, bottom}},
	3:  {{right, left}},
	4:  {{top, right}},
	5:  {{top, right}, {bottom, left}},
	6:  {{top, bottom}},
	7:  {{top, left}},
	8:  {{left, top}},
	9:  {{bottom, top}},
	10: {{left, top}, {right, bottom}},
	11: {{right, top}},
	12: {{left, right}},
	13: {{bottom, right}},
	14: {{left, bottom}},
	15: nil,
}

type grid struct {
	mask          []bool
	width, height int
	// gw and gh count cells including the padding ring.
	gw, gh  int
	visited []bool
}

// Extract returns every closed boundary of the true pixels in mask. Each
// contour has at least three points and does not repeat its first point.
// Chains that leave the grid without closing are dropped.
func Extract(mask []bool, width, height int) ([]geometry.Polyline, error) {
	if width < 0 || height < 0 || len(mask) != width*height {
		return nil, fmt.Errorf("%w: len %d for %dx%d", ErrMaskSize, len(mask), width, height)
	}

	g := &grid{
		mask:   mask,
		width:  width,
		height: height,
		gw:     width + 2,
		gh:     height + 2,
	}
	g.visited = make([]bool, g.gw*g.gh*4)

	var contours []geometry.Polyline
	for cy := 0; cy < g.gh; cy++ {
		for cx := 0; cx < g.gw; cx++ {
			for _, c := range crossings[g.caseAt(cx, cy)] {
				if g.visited[g.key(cx, cy, c.entry)] {
					continue
				}
				if contour, ok := g.follow(cx, cy, c); ok && len(contour) >= 3 {
					contours = append(contours, contour)
				}
			}
		}
	}
	return contours, nil
}

func (g *grid) inside(gx, gy int) bool {
	if gx == 0 || gy == 0 || gx > g.width || gy > g.height {
		return false
	}
	return g.mask[(gy-1)*g.width+gx-1]
}

func (g *grid) caseAt(cx, cy int) int {
	c := 0
	if g.inside(cx, cy) {
		c |= 8
	}
	if g.inside(cx+1, cy) {
		c |= 4
	}
	if g.inside(cx+1, cy+1) {
		c |= 2
	}
	if g.inside(cx, cy+1) {
		c |= 1
	}
	return c
}

func (g *grid) key(cx, cy int, s side) int {
	return (cy*g.gw+cx)*4 + int(s)
}

// point returns the midpoint of a cell side in pixel coordinates, clamped to
// the image.
func (g *grid) point(cx, cy int, s side) geometry.Point {
	x, y := float64(cx), float64(cy)
	switch s {
	case top:
		x += 0.5
	case right:
		x++
		y += 0.5
	case bottom:
		x += 0.5
		y++
	case left:
		y += 0.5
	}
	return geometry.Point{
		X: geometry.Clamp(x-0.5, 0, float64(g.width)),
		Y: geometry.Clamp(y-0.5, 0, float64(g.height)),
	}
}

func (g *grid) neighbor(cx, cy int, s side) (int, int, bool) {
	switch s {
	case top:
		return cx, cy - 1, cy > 0
	case right:
		return cx + 1, cy, cx+1 < g.gw
	case bottom:
		return cx, cy + 1, cy+1 < g.gh
	default:
		return cx - 1, cy, cx > 0
	}
}

// follow walks crossings from the start cell until it returns to the start
// crossing. ok is false for chains that dead-end.
func (g *grid) follow(startX, startY int, start crossing) (geometry.Polyline, bool) {
	var contour geometry.Polyline
	cx, cy, cur := startX, startY, start
	// Each crossing is visited at most once per chain.
	for steps := 0; steps < len(g.visited); steps++ {
		g.visited[g.key(cx, cy, cur.entry)] = true
		g.visited[g.key(cx, cy, cur.exit)] = true
		contour = append(contour, g.point(cx, cy, cur.exit))

		nx, ny, ok := g.neighbor(cx, cy, cur.exit)
		if !ok {
			return nil, false
		}
		entry := cur.exit.opposite()
		found := false
		for _, c := range crossings[g.caseAt(nx, ny)] {
			if c.entry == entry {
				cur, found = c, true
				break
			}
		}
		if !found {
			return nil, false
		}
		if nx == startX && ny == startY && cur.entry == start.entry {
			return contour, true
		}
		cx, cy = nx, ny
	}
	return nil, false
}
