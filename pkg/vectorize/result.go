package vectorize

import (
	imgcolor "image/color"
	"strings"

	"vectrace/pkg/bezier"
	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
	"vectrace/pkg/geometry"
	"vectrace/pkg/svgdoc"
	"vectrace/pkg/svgpath"
)

// Path is one traced outline ready for output.
type Path struct {
	Color imgcolor.NRGBA
	// Area is the pixel count of the region the outline came from. Paths
	// are layered by it, largest first.
	Area int
	// Curves is a closed chain of cubics. It is empty when Override is set.
	Curves []bezier.Curve
	// Override is written verbatim instead of Curves: exact rectangles for
	// thin stripes, and whole regions from the potrace tracer.
	Override []*svgpath.SubPath
}

// Data returns the path data for p, or "" when nothing would be visible.
func (p *Path) Data() string {
	if p.Override != nil {
		return svgpath.Format(p.Override)
	}
	if len(p.Curves) == 0 {
		return ""
	}
	b := bezier.Bounds(p.Curves)
	if b.Width() < cfg.MinRenderSize && b.Height() < cfg.MinRenderSize {
		return ""
	}
	sub := bezier.ToSubPath(p.Curves, true)
	sub.Simplify()
	return svgpath.Format([]*svgpath.SubPath{sub})
}

// Stats counts the work done by one conversion.
type Stats struct {
	DistinctColors int
	PaletteSize    int
	Regions        int
	Contours       int
	Paths          int
	Stripes        int
	// FailedRegions counts regions dropped because their mask could not
	// be traced.
	FailedRegions int
}

// Result is the outcome of Vectorize.
type Result struct {
	Width      int
	Height     int
	Background imgcolor.NRGBA
	// Paths is ordered by descending area.
	Paths []*Path
	Stats Stats
}

// Group is a run of consecutive paths sharing a display color.
type Group struct {
	Color imgcolor.NRGBA
	Paths []*Path
}

// Groups merges consecutive paths with the same hex color. Paths with no
// geometry are skipped. Layer order is preserved, so a color may appear in
// several groups.
func (r *Result) Groups() []Group {
	var groups []Group
	for _, p := range r.Paths {
		if len(p.Curves) == 0 && p.Override == nil {
			continue
		}
		if n := len(groups); n > 0 && color.Hex(groups[n-1].Color) == color.Hex(p.Color) {
			groups[n-1].Paths = append(groups[n-1].Paths, p)
			continue
		}
		groups = append(groups, Group{Color: p.Color, Paths: []*Path{p}})
	}
	return groups
}

// Document lays the result out as an SVG document, one layer per group.
func (r *Result) Document() *svgdoc.Document {
	doc := &svgdoc.Document{Width: r.Width, Height: r.Height, Background: r.Background}
	for _, g := range r.Groups() {
		var d strings.Builder
		for _, p := range g.Paths {
			d.WriteString(p.Data())
		}
		if d.Len() == 0 {
			continue
		}
		doc.Layers = append(doc.Layers, svgdoc.Layer{Color: g.Color, D: d.String()})
	}
	return doc
}

// Transform maps every path through m and resizes the canvas, for
// returning to the source resolution after tracing a downscaled copy.
func (r *Result) Transform(m svgpath.Matrix, width, height int) {
	apply := func(p geometry.Point) geometry.Point {
		x, y := m.TransformPoint(p.X, p.Y)
		return geometry.Point{X: x, Y: y}
	}
	for _, p := range r.Paths {
		for i := range p.Curves {
			c := &p.Curves[i]
			c.Start, c.Control1, c.Control2, c.End = apply(c.Start), apply(c.Control1), apply(c.Control2), apply(c.End)
		}
		m.TransformPath(p.Override)
	}
	r.Width, r.Height = width, height
}
