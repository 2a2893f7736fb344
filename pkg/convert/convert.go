// Package convert turns encoded images into SVG documents.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"vectrace/pkg/imageio"
	"vectrace/pkg/svgpath"
	"vectrace/pkg/vectorize"
)

// Converter holds the settings shared by every conversion of one run.
type Converter struct {
	Options vectorize.Options
	// MaxSize bounds the longer image side before tracing. Zero keeps the
	// decoded size.
	MaxSize int
}

// Convert vectorizes the image read from r and writes the SVG to w. The
// geometry is mapped back to the source size when the input was reduced.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) (*vectorize.Result, error) {
	dec, err := imageio.Decode(r, c.MaxSize)
	if err != nil {
		return nil, err
	}
	res, err := vectorize.Vectorize(ctx, dec.Image, c.Options)
	if err != nil {
		return nil, err
	}
	if dec.Scale != 1 {
		res.Transform(svgpath.Scale(1/dec.Scale, 1/dec.Scale), dec.Width, dec.Height)
	}
	if _, err := res.Document().WriteTo(w); err != nil {
		return nil, err
	}
	return res, nil
}

// ConvertFile is the file form of Convert.
func (c *Converter) ConvertFile(ctx context.Context, src, dst string) error {
	_, err := c.ConvertFileResult(ctx, src, dst)
	return err
}

// ConvertFileResult converts src into dst and returns what was traced.
func (c *Converter) ConvertFileResult(ctx context.Context, src, dst string) (*vectorize.Result, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	res, err := c.Convert(ctx, in, out)
	if err = errors.Join(err, out.Close()); err != nil {
		return nil, err
	}
	return res, nil
}
