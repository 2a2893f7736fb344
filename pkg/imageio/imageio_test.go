package imageio_test

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"vectrace/pkg/imageio"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, imgcolor.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeKeepsSize(t *testing.T) {
	dec, err := imageio.Decode(bytes.NewReader(encodePNG(t, 30, 20)), 100)
	require.NoError(t, err)
	require.Equal(t, 30, dec.Width)
	require.Equal(t, 20, dec.Height)
	require.Equal(t, 1.0, dec.Scale)
	require.Equal(t, 30, dec.Image.Width)
	require.Equal(t, imgcolor.NRGBA{R: 4, G: 5, B: 7, A: 255}, dec.Image.NRGBAAt(4, 5))
}

func TestDecodeFitsMaxSize(t *testing.T) {
	dec, err := imageio.Decode(bytes.NewReader(encodePNG(t, 200, 100)), 50)
	require.NoError(t, err)
	require.Equal(t, 200, dec.Width)
	require.Equal(t, 100, dec.Height)
	require.Equal(t, 50, dec.Image.Width)
	require.Equal(t, 25, dec.Image.Height)
	require.InDelta(t, 0.25, dec.Scale, 1e-9)

	dec, err = imageio.Decode(bytes.NewReader(encodePNG(t, 200, 100)), 0)
	require.NoError(t, err)
	require.Equal(t, 200, dec.Image.Width)
}

func TestDecodeBMP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, imgcolor.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	dec, err := imageio.Decode(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(255), dec.Image.NRGBAAt(1, 1).R)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := imageio.Decode(strings.NewReader("not an image"), 0)
	require.ErrorContains(t, err, "imageio: decode")
}

func TestIsSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png":        true,
		"b.JPG":        true,
		"c/d.webp":     true,
		"scan.tiff":    true,
		"notes.txt":    false,
		"no-extension": false,
	} {
		require.Equal(t, want, imageio.IsSupported(name), name)
	}
}
