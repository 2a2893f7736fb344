// Package svgdoc writes layered vector documents as SVG and reads SVG back
// into absolute path data.
package svgdoc

import (
	"bytes"
	"fmt"
	imgcolor "image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
)

// Layer is one filled path element. D holds the concatenated subpaths of
// every region sharing the color.
type Layer struct {
	Color imgcolor.NRGBA
	D     string
}

// Document is a background rectangle with filled layers painted in order.
type Document struct {
	Width      int
	Height     int
	Background imgcolor.NRGBA
	Layers     []Layer
}

// errWriter remembers the first write error, since the canvas API does not
// report them.
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err
	return n, err
}

// WriteTo writes the document as a standalone SVG file. Each layer is
// stroked in its own fill color so adjacent regions leave no hairline gaps.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(d.Width, d.Height, 0, 0, d.Width, d.Height)
	canvas.Rect(0, 0, d.Width, d.Height, fmt.Sprintf(`fill="%s"`, color.Hex(d.Background)))
	for _, layer := range d.Layers {
		if layer.D == "" {
			continue
		}
		hex := color.Hex(layer.Color)
		canvas.Path(layer.D, fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%g" stroke-linejoin="round"`,
			hex, hex, cfg.GapStrokeWidth))
	}
	canvas.End()
	if ew.err != nil {
		return ew.n, fmt.Errorf("svgdoc: write: %w", ew.err)
	}
	return ew.n, nil
}

// Bytes renders the document into memory.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// PathCount returns the number of non-empty layers.
func (d *Document) PathCount() int {
	n := 0
	for _, layer := range d.Layers {
		if layer.D != "" {
			n++
		}
	}
	return n
}
