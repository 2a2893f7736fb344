package color_test

import (
	"image"
	imgcolor "image/color"
	"testing"

	"vectrace/pkg/color"

	"github.com/google/go-cmp/cmp"
)

func TestDistanceSqWeights(t *testing.T) {
	black := imgcolor.NRGBA{A: 255}
	tests := []struct {
		c    imgcolor.NRGBA
		want int
	}{
		{imgcolor.NRGBA{R: 10, A: 255}, 200},
		{imgcolor.NRGBA{G: 10, A: 255}, 400},
		{imgcolor.NRGBA{B: 10, A: 0}, 300},
		{imgcolor.NRGBA{R: 1, G: 1, B: 1, A: 7}, 9},
	}
	for _, tc := range tests {
		if got := color.DistanceSq(black, tc.c); got != tc.want {
			t.Errorf("DistanceSq(%v) = %d, want %d", tc.c, got, tc.want)
		}
		if got := color.DistanceSq(tc.c, black); got != tc.want {
			t.Errorf("DistanceSq is not symmetric for %v", tc.c)
		}
	}
}

func TestLuminanceAndHex(t *testing.T) {
	white := imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := color.Luminance(white); got < 254 {
		t.Errorf("white luminance = %d", got)
	}
	if got := color.Luminance(imgcolor.NRGBA{R: 100, A: 255}); got != 29 {
		t.Errorf("red luminance = %d", got)
	}
	if got := color.Hex(imgcolor.NRGBA{R: 0xab, G: 0x01, B: 0xff}); got != "#ab01ff" {
		t.Errorf("hex = %s", got)
	}
	if color.LuminanceKey(white) <= color.LuminanceKey(imgcolor.NRGBA{R: 255, G: 255, B: 254}) {
		t.Errorf("luminance key is not monotonic")
	}
}

func TestCountDistinctIgnoresAlpha(t *testing.T) {
	img := color.New(3, 1)
	img.Pix[0] = imgcolor.NRGBA{R: 1, A: 255}
	img.Pix[1] = imgcolor.NRGBA{R: 1, A: 10}
	img.Pix[2] = imgcolor.NRGBA{G: 1, A: 255}
	if got := color.CountDistinct(img); got != 2 {
		t.Errorf("expected 2 distinct colors, got %d", got)
	}
}

func TestAdaptiveCount(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{99, 100, 64},
		{100, 100, 128},
		{317, 316, 256},
	}
	for _, tc := range tests {
		if got := color.AdaptiveCount(color.New(tc.w, tc.h)); got != tc.want {
			t.Errorf("%dx%d: got %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, imgcolor.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(6, 5, imgcolor.NRGBA{R: 4, G: 5, B: 6, A: 128})

	img := color.FromImage(src)
	want := &color.Image{
		Width:  2,
		Height: 1,
		Pix: []imgcolor.NRGBA{
			{R: 1, G: 2, B: 3, A: 255},
			{R: 4, G: 5, B: 6, A: 128},
		},
	}
	if diff := cmp.Diff(want, img); diff != "" {
		t.Errorf("incorrect output: %s", diff)
	}
	if diff := cmp.Diff(src.Pix, img.NRGBA().Pix); diff != "" {
		t.Errorf("NRGBA round trip: %s", diff)
	}
}
