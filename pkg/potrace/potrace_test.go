package potrace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vectrace/pkg/potrace"
)

func squareMask(w, h, x0, y0, x1, y1 int) []bool {
	mask := make([]bool, w*h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			mask[y*w+x] = true
		}
	}
	return mask
}

func TestMask(t *testing.T) {
	img, err := potrace.Mask([]bool{true, false, false, true}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 255, 255, 0}, img.Pix)

	_, err = potrace.Mask([]bool{true}, 2, 2)
	require.Error(t, err)
}

func TestTraceSquare(t *testing.T) {
	paths, err := potrace.Trace(squareMask(30, 20, 5, 5, 15, 15), 30, 20)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	minX, minY, maxX, maxY := paths[0].Bounds()
	require.InDelta(t, 5, minX, 1)
	require.InDelta(t, 5, minY, 1)
	require.InDelta(t, 15, maxX, 1)
	require.InDelta(t, 15, maxY, 1)
}

func TestTraceHole(t *testing.T) {
	mask := squareMask(30, 30, 2, 2, 28, 28)
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			mask[y*30+x] = false
		}
	}
	paths, err := potrace.Trace(mask, 30, 30)
	require.NoError(t, err)
	require.Len(t, paths, 2)
}

func TestTraceEmpty(t *testing.T) {
	paths, err := potrace.Trace(make([]bool, 100), 10, 10)
	require.NoError(t, err)
	require.Empty(t, paths)
}
