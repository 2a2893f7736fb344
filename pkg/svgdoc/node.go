package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	imgcolor "image/color"
	"regexp"
	"strconv"
	"strings"

	"vectrace/pkg/svgpath"
)

// ErrNoColor is returned by ParseColor for paint values that carry no
// color, such as "none" or a gradient reference.
var ErrNoColor = errors.New("svgdoc: no color")

// Node is a generic SVG element. Only the attributes needed to recover
// filled geometry are decoded.
type Node struct {
	XMLName   xml.Name
	Width     string  `xml:"width,attr,omitempty"`
	Height    string  `xml:"height,attr,omitempty"`
	ViewBox   string  `xml:"viewBox,attr,omitempty"`
	ID        string  `xml:"id,attr,omitempty"`
	Styles    string  `xml:"style,attr,omitempty"`
	Fill      string  `xml:"fill,attr,omitempty"`
	Stroke    string  `xml:"stroke,attr,omitempty"`
	D         string  `xml:"d,attr,omitempty"`
	Transform string  `xml:"transform,attr,omitempty"`
	Children  []*Node `xml:",any"`

	style map[string]string
}

// Shape is a path element flattened into document coordinates with its
// effective fill.
type Shape struct {
	Fill string
	Path []*svgpath.SubPath
}

// Parse decodes an SVG document.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := xml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("svgdoc: %w", err)
	}
	return &n, nil
}

// Style returns a presentation property, preferring the style attribute
// over the plain attribute.
func (n *Node) Style(name string) string {
	if n.style == nil {
		n.style = map[string]string{}
		for _, pair := range strings.Split(n.Styles, ";") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) == 2 {
				n.style[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
			}
		}
	}
	if v, ok := n.style[name]; ok {
		return v
	}
	switch name {
	case "fill":
		return n.Fill
	case "stroke":
		return n.Stroke
	}
	return ""
}

// Shapes walks the tree and returns every path element with its
// transforms applied. Fill is inherited from the nearest ancestor that
// sets one.
func (n *Node) Shapes() ([]Shape, error) {
	var shapes []Shape
	var descend func(node *Node, matrix svgpath.Matrix, fill string) error
	descend = func(node *Node, matrix svgpath.Matrix, fill string) error {
		m, err := svgpath.ParseTransform(node.Transform)
		if err != nil {
			return fmt.Errorf("svgdoc: <%s> transform: %w", node.XMLName.Local, err)
		}
		matrix = matrix.Multiply(m)
		if f := node.Style("fill"); f != "" {
			fill = f
		}

		if node.XMLName.Local == "path" && node.D != "" {
			path, err := svgpath.Parse(node.D)
			if err != nil {
				return fmt.Errorf("svgdoc: <path id=%q>: %w", node.ID, err)
			}
			matrix.TransformPath(path)
			shapes = append(shapes, Shape{Fill: fill, Path: path})
		}
		for _, child := range node.Children {
			if err := descend(child, matrix, fill); err != nil {
				return err
			}
		}
		return nil
	}
	if err := descend(n, svgpath.Identity, ""); err != nil {
		return nil, err
	}
	return shapes, nil
}

var (
	rgbPercentRE = regexp.MustCompile(`^rgb\(\s*([0-9.]+)%\s*,\s*([0-9.]+)%\s*,\s*([0-9.]+)%\s*\)$`)
	rgbIntRE     = regexp.MustCompile(`^rgb\(\s*([0-9]+)\s*,\s*([0-9]+)\s*,\s*([0-9]+)\s*\)$`)
	hexColorRE   = regexp.MustCompile(`^#([[:xdigit:]]{2})([[:xdigit:]]{2})([[:xdigit:]]{2})$`)
	shortHexRE   = regexp.MustCompile(`^#([[:xdigit:]])([[:xdigit:]])([[:xdigit:]])$`)
)

// ParseColor parses hex, rgb() and the few named colors tracers emit.
func ParseColor(s string) (imgcolor.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return imgcolor.NRGBA{}, ErrNoColor
	case "black":
		return imgcolor.NRGBA{A: 255}, nil
	case "white":
		return imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}

	channel := func(v string, scale float64) uint8 {
		f, _ := strconv.ParseFloat(v, 64)
		f *= scale
		if f > 255 {
			f = 255
		}
		return uint8(f + 0.5)
	}
	hexChannel := func(v string) uint8 {
		n, _ := strconv.ParseUint(v, 16, 8)
		return uint8(n)
	}

	if m := hexColorRE.FindStringSubmatch(s); m != nil {
		return imgcolor.NRGBA{R: hexChannel(m[1]), G: hexChannel(m[2]), B: hexChannel(m[3]), A: 255}, nil
	}
	if m := shortHexRE.FindStringSubmatch(s); m != nil {
		return imgcolor.NRGBA{R: hexChannel(m[1] + m[1]), G: hexChannel(m[2] + m[2]), B: hexChannel(m[3] + m[3]), A: 255}, nil
	}
	if m := rgbIntRE.FindStringSubmatch(s); m != nil {
		return imgcolor.NRGBA{R: channel(m[1], 1), G: channel(m[2], 1), B: channel(m[3], 1), A: 255}, nil
	}
	if m := rgbPercentRE.FindStringSubmatch(s); m != nil {
		return imgcolor.NRGBA{R: channel(m[1], 2.55), G: channel(m[2], 2.55), B: channel(m[3], 2.55), A: 255}, nil
	}
	if strings.HasPrefix(s, "url(") {
		return imgcolor.NRGBA{}, ErrNoColor
	}
	return imgcolor.NRGBA{}, fmt.Errorf("svgdoc: unknown color %q", s)
}
