package vectorize

import (
	imgcolor "image/color"
	"testing"

	"vectrace/pkg/color"
	"vectrace/pkg/geometry"
	"vectrace/pkg/quantize"
	"vectrace/pkg/svgpath"

	"github.com/google/go-cmp/cmp"
)

func TestSnapToBorder(t *testing.T) {
	line := geometry.Polyline{{X: 2, Y: 10}, {X: 17, Y: 19}, {X: 10, Y: 10}, {X: 4, Y: 3.9}}
	expected := geometry.Polyline{{X: 0, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 10}, {X: 4, Y: 0}}
	if diff := cmp.Diff(expected, snapToBorder(line, 20, 20)); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestInjectCorners(t *testing.T) {
	tests := []struct {
		name     string
		line     geometry.Polyline
		expected geometry.Polyline
	}{
		{
			name:     "adjacent edges",
			line:     geometry.Polyline{{X: 5, Y: 0}, {X: 20, Y: 5}, {X: 10, Y: 10}},
			expected: geometry.Polyline{{X: 5, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 5}, {X: 10, Y: 10}},
		},
		{
			name:     "wraps around",
			line:     geometry.Polyline{{X: 10, Y: 10}, {X: 0, Y: 15}, {X: 5, Y: 20}},
			expected: geometry.Polyline{{X: 10, Y: 10}, {X: 0, Y: 15}, {X: 0, Y: 20}, {X: 5, Y: 20}},
		},
		{
			name:     "opposite edges",
			line:     geometry.Polyline{{X: 5, Y: 0}, {X: 5, Y: 20}, {X: 10, Y: 10}},
			expected: geometry.Polyline{{X: 5, Y: 0}, {X: 5, Y: 20}, {X: 10, Y: 10}},
		},
		{
			name:     "already near corner",
			line:     geometry.Polyline{{X: 19.5, Y: 0}, {X: 20, Y: 5}, {X: 10, Y: 10}},
			expected: geometry.Polyline{{X: 19.5, Y: 0}, {X: 20, Y: 5}, {X: 10, Y: 10}},
		},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.expected, injectCorners(test.line, 20, 20)); diff != "" {
			t.Errorf("%s: incorrect output: %s", test.name, diff)
		}
	}
}

func TestStripe(t *testing.T) {
	thin := geometry.Polyline{{X: 3, Y: 10.5}, {X: 3.5, Y: 10}, {X: 16.5, Y: 10}, {X: 17, Y: 10.5}, {X: 16.5, Y: 11}, {X: 3.5, Y: 11}}
	rect, ok := stripe(thin)
	if !ok {
		t.Fatalf("expected a stripe")
	}
	if got := svgpath.Format([]*svgpath.SubPath{rect}); got != "M3,10L17,10L17,11L3,11Z" {
		t.Errorf("incorrect output: %s", got)
	}

	tall := geometry.Polyline{{X: 4.2, Y: 2}, {X: 5.4, Y: 2}, {X: 5.4, Y: 9}, {X: 4.2, Y: 9}}
	rect, ok = stripe(tall)
	if !ok {
		t.Fatalf("expected a stripe")
	}
	if got := svgpath.Format([]*svgpath.SubPath{rect}); got != "M4,2L6,2L6,9L4,9Z" {
		t.Errorf("incorrect output: %s", got)
	}

	for _, line := range []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 5}},
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	} {
		if _, ok := stripe(line); ok {
			t.Errorf("unexpected stripe for %v", line)
		}
	}
}

func TestFindRuns(t *testing.T) {
	type found struct {
		Index int
		Run   Run
	}
	var got []found
	findRuns([]int{0, 0, 1, 1, 1, 1}, 3, 2, func(index int, run Run) {
		got = append(got, found{index, run})
	})
	expected := []found{
		{0, Run{X1: 0, X2: 2, Y: 0}},
		{1, Run{X1: 2, X2: 3, Y: 0}},
		{1, Run{X1: 0, X2: 3, Y: 1}},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
}

func TestPartition(t *testing.T) {
	red := imgcolor.NRGBA{R: 200, A: 255}
	blue := imgcolor.NRGBA{B: 200, A: 255}
	q := &quantize.Result{
		Width:   3,
		Height:  2,
		Palette: []imgcolor.NRGBA{red, blue},
		Indices: []int{0, 0, 1, 1, 1, 1},
	}
	src := color.New(3, 2)
	src.Set(0, 0, imgcolor.NRGBA{R: 10, A: 255})
	src.Set(1, 0, imgcolor.NRGBA{R: 21, A: 255})
	for _, xy := range [][2]int{{2, 0}, {0, 1}, {1, 1}, {2, 1}} {
		src.Set(xy[0], xy[1], imgcolor.NRGBA{B: 100, A: 200})
	}

	regions := Partition(q, src, false)
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Quantized != blue || regions[0].Area != 4 || regions[1].Area != 2 {
		t.Errorf("incorrect order: %+v %+v", regions[0], regions[1])
	}
	if regions[0].Color != blue {
		t.Errorf("expected palette color without recolor, got %v", regions[0].Color)
	}
	mask := regions[1].Mask(3, 2)
	if diff := cmp.Diff([]bool{true, true, false, false, false, false}, mask); diff != "" {
		t.Errorf("incorrect mask: %s", diff)
	}

	regions = Partition(q, src, true)
	if diff := cmp.Diff(imgcolor.NRGBA{B: 100, A: 200}, regions[0].Color); diff != "" {
		t.Errorf("incorrect mean: %s", diff)
	}
	if diff := cmp.Diff(imgcolor.NRGBA{R: 15, A: 255}, regions[1].Color); diff != "" {
		t.Errorf("incorrect mean: %s", diff)
	}
}

func TestBackground(t *testing.T) {
	red := imgcolor.NRGBA{R: 220, G: 20, B: 30, A: 255}
	blue := imgcolor.NRGBA{R: 10, G: 40, B: 200, A: 255}
	white := imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := imgcolor.NRGBA{A: 255}

	img := color.Fill(4, 4, red)
	img.Set(1, 1, blue)
	img.Set(2, 2, blue)
	img.Set(0, 0, blue)
	if got := Background(img); got != red {
		t.Errorf("expected red, got %v", got)
	}

	tie := color.New(2, 1)
	tie.Set(0, 0, black)
	tie.Set(1, 0, white)
	if got := Background(tie); got != white {
		t.Errorf("expected the brighter color on a tie, got %v", got)
	}

	alpha := color.Fill(3, 3, imgcolor.NRGBA{R: 1, G: 2, B: 3, A: 10})
	alpha.Set(0, 0, imgcolor.NRGBA{R: 1, G: 2, B: 3, A: 255})
	alpha.Set(2, 2, blue)
	if got := Background(alpha); color.RGBKey(got) != color.RGBKey(imgcolor.NRGBA{R: 1, G: 2, B: 3}) {
		t.Errorf("expected alpha to be ignored, got %v", got)
	}

	if got := Background(color.New(0, 0)); got != white {
		t.Errorf("expected white for an empty image, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	opts := DefaultOptions()

	small := classify(color.Fill(10, 10, imgcolor.NRGBA{A: 255}), opts)
	if !small.small || small.manyColors || small.targetColors != 1 {
		t.Errorf("incorrect small profile: %+v", small)
	}
	if small.simplifyTol != 0.5 || small.minPolyArea != 8 || small.passes != 2 {
		t.Errorf("incorrect small settings: %+v", small)
	}

	ramp := color.New(120, 120)
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			ramp.Set(x, y, imgcolor.NRGBA{R: uint8(x), G: uint8(y % 5), A: 255})
		}
	}
	many := classify(ramp, opts)
	if many.small || !many.manyColors || many.photo {
		t.Errorf("incorrect profile: %+v", many)
	}
	if many.passes != 4 || many.simplifyTol != 3 || many.minPolyArea != 20 {
		t.Errorf("incorrect many-color settings: %+v", many)
	}

	opts.NumColors = 5
	if got := classify(ramp, opts).targetColors; got != 5 {
		t.Errorf("expected explicit color count, got %d", got)
	}
}
