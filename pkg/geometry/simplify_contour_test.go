package geometry_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vectrace/pkg/contour"
	"vectrace/pkg/geometry"
)

// ringMask rasterizes a disc whose radius varies with the angle by
// bumps[i] over len(bumps) equal sectors.
func ringMask(size int, radius float64, bumps []float64) []bool {
	mask := make([]bool, size*size)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			r := radius
			if len(bumps) > 0 {
				a := math.Atan2(dy, dx) + math.Pi
				r += bumps[int(a/(2*math.Pi)*float64(len(bumps)))%len(bumps)]
			}
			mask[y*size+x] = math.Hypot(dx, dy) < r
		}
	}
	return mask
}

func outline(t *testing.T, mask []bool, size int) geometry.Polyline {
	t.Helper()
	contours, err := contour.Extract(mask, size, size)
	if err != nil {
		t.Fatal(err)
	}
	if len(contours) == 0 {
		t.Fatal("no contour")
	}
	return contours[0]
}

func TestSimplifyCircleContourIsStable(t *testing.T) {
	line := outline(t, ringMask(60, 25, nil), 60)
	for _, tol := range []float64{1, 1.5, 3} {
		once := line.Simplify(tol, 60)
		twice := once.Simplify(tol, 60)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("tolerance %v: second pass changed %d points to %d: %s", tol, len(once), len(twice), diff)
		}
		if len(once) >= len(line) {
			t.Errorf("tolerance %v: nothing was removed from %d points", tol, len(line))
		}
	}
}

func TestSimplifyNoisyContoursAreStable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		bumps := make([]float64, 8+rng.Intn(24))
		for j := range bumps {
			bumps[j] = rng.Float64()*6 - 3
		}
		line := outline(t, ringMask(60, 20, bumps), 60)
		tol := 0.5 + rng.Float64()*3
		once := line.Simplify(tol, 60)
		if twice := once.Simplify(tol, 60); len(twice) != len(once) {
			t.Errorf("ring %d, tolerance %.2f: second pass changed %d points to %d", i, tol, len(once), len(twice))
		}
	}
}
