package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var approx = cmp.Comparer(func(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
})

// sampledSquare walks the border of [0,10]² in unit steps, starting
// mid-edge at (5,0) so the four geometric corners are interior points.
func sampledSquare() Polyline {
	var line Polyline
	for x := 5.0; x < 10; x++ {
		line = append(line, Point{X: x, Y: 0})
	}
	for y := 0.0; y < 10; y++ {
		line = append(line, Point{X: 10, Y: y})
	}
	for x := 10.0; x > 0; x-- {
		line = append(line, Point{X: x, Y: 10})
	}
	for y := 10.0; y > 0; y-- {
		line = append(line, Point{X: 0, Y: y})
	}
	for x := 0.0; x < 5; x++ {
		line = append(line, Point{X: x, Y: 0})
	}
	return line
}

func TestPolylineArea(t *testing.T) {
	tests := []struct {
		name string
		line Polyline
		want float64
	}{
		{"empty", nil, 0},
		{"segment", Polyline{{0, 0}, {3, 4}}, 0},
		{"unit square", Polyline{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"clockwise", Polyline{{0, 0}, {0, 2}, {3, 2}, {3, 0}}, 6},
		{"triangle", Polyline{{0, 0}, {4, 0}, {0, 3}}, 6},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, tc.line.Area(), approx); diff != "" {
			t.Errorf("%s: incorrect area: %s", tc.name, diff)
		}
	}
}

func TestBoundsAndDedup(t *testing.T) {
	line := Polyline{{1, 2}, {1.2, 2.1}, {5, -1}, {5, -1}, {3, 7}}
	want := Rectangle{Min: Point{1, -1}, Max: Point{5, 7}}
	if diff := cmp.Diff(want, line.Bounds()); diff != "" {
		t.Errorf("incorrect bounds: %s", diff)
	}

	dedup := line.Dedup(0.5)
	wantDedup := Polyline{{1, 2}, {5, -1}, {3, 7}}
	if diff := cmp.Diff(wantDedup, dedup); diff != "" {
		t.Errorf("incorrect dedup: %s", diff)
	}
}

func TestLineDistance(t *testing.T) {
	s := LineSegment{A: Point{0, 0}, B: Point{10, 0}}
	if d := s.LineDistance(Point{20, 3}); d != 3 {
		t.Errorf("expected 3 from the infinite line, got %v", d)
	}
	if d := s.Distance(Point{20, 0}); d != 10 {
		t.Errorf("expected 10 from the segment, got %v", d)
	}
	degenerate := LineSegment{A: Point{1, 1}, B: Point{1, 1}}
	if d := degenerate.LineDistance(Point{4, 5}); d != 5 {
		t.Errorf("expected 5 from a degenerate line, got %v", d)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("got %d", got)
	}
	if got := Clamp(-0.5, 0.0, 1.0); got != 0 {
		t.Errorf("got %v", got)
	}
	r := Rectangle{Max: Point{10, 10}}.Expand(2)
	if diff := cmp.Diff(Point{12, -2}, r.ClampPoint(Point{30, -9})); diff != "" {
		t.Errorf("incorrect clamp: %s", diff)
	}
}
