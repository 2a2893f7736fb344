// Package svgpath reads and writes SVG path data.
//
// Parsing covers move, line, horizontal, vertical, cubic and smooth cubic
// commands in both absolute and relative form, plus close. All coordinates
// come out absolute and every command is reduced to one of LineTo, CurveTo
// or ClosePath.
package svgpath

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("svgpath: syntax error")

type Command string

const (
	ClosePath Command = "Z"
	LineTo    Command = "L"
	CurveTo   Command = "C"
)

// SubPath is one move followed by its drawing commands.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

// DrawTo is one drawing command. X1/Y1 and X2/Y2 are only set for CurveTo.
// A ClosePath carries the subpath start as its endpoint.
type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64
}

type parser struct {
	data  string
	pos   int
	paths []*SubPath
	group *SubPath

	// current point, start of the current subpath, and the second control
	// point of the previous cubic for smooth curves
	curX, curY     float64
	startX, startY float64
	ctrlX, ctrlY   float64
	lastCubic      bool
}

// Parse parses path data. On error the subpaths read so far are returned
// along with an error wrapping ErrSyntax.
func Parse(data string) ([]*SubPath, error) {
	p := &parser{data: data}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return p.paths, nil
		}
		at := p.pos
		if err := p.command(p.data[p.pos]); err != nil {
			return p.paths, fmt.Errorf("%w at offset %d: %v", ErrSyntax, at, err)
		}
	}
}

func (p *parser) command(c byte) error {
	p.pos++
	rel := c >= 'a' && c <= 'z'
	if c != 'M' && c != 'm' && p.paths == nil {
		return fmt.Errorf("path must begin with a move, got %q", c)
	}
	switch c {
	case 'M', 'm':
		return p.moveTo(rel)
	case 'L', 'l':
		return p.repeat(2, func(a []float64) { p.lineTo(p.abs(rel, a[0], a[1])) })
	case 'H', 'h':
		return p.repeat(1, func(a []float64) {
			x := a[0]
			if rel {
				x += p.curX
			}
			p.lineTo(x, p.curY)
		})
	case 'V', 'v':
		return p.repeat(1, func(a []float64) {
			y := a[0]
			if rel {
				y += p.curY
			}
			p.lineTo(p.curX, y)
		})
	case 'C', 'c':
		return p.repeat(6, func(a []float64) {
			x1, y1 := p.abs(rel, a[0], a[1])
			x2, y2 := p.abs(rel, a[2], a[3])
			x, y := p.abs(rel, a[4], a[5])
			p.curveTo(x1, y1, x2, y2, x, y)
		})
	case 'S', 's':
		return p.repeat(4, func(a []float64) {
			x1, y1 := p.curX, p.curY
			if p.lastCubic {
				x1, y1 = 2*p.curX-p.ctrlX, 2*p.curY-p.ctrlY
			}
			x2, y2 := p.abs(rel, a[0], a[1])
			x, y := p.abs(rel, a[2], a[3])
			p.curveTo(x1, y1, x2, y2, x, y)
		})
	case 'Z', 'z':
		p.closePath()
		return nil
	}
	return fmt.Errorf("unsupported command %q", c)
}

// moveTo always starts a new subpath. Extra coordinate pairs are implicit
// line commands with the same relativity.
func (p *parser) moveTo(rel bool) error {
	first := true
	return p.repeat(2, func(a []float64) {
		x, y := p.abs(rel, a[0], a[1])
		if first {
			p.group = &SubPath{X: x, Y: y}
			p.paths = append(p.paths, p.group)
			p.curX, p.curY = x, y
			p.startX, p.startY = x, y
			p.lastCubic = false
			first = false
			return
		}
		p.lineTo(x, y)
	})
}

func (p *parser) abs(rel bool, x, y float64) (float64, float64) {
	if rel {
		return x + p.curX, y + p.curY
	}
	return x, y
}

// ensureGroup reopens a subpath at the current point after a close.
func (p *parser) ensureGroup() {
	if p.group == nil {
		p.group = &SubPath{X: p.curX, Y: p.curY}
		p.paths = append(p.paths, p.group)
		p.startX, p.startY = p.curX, p.curY
	}
}

func (p *parser) lineTo(x, y float64) {
	p.ensureGroup()
	p.group.DrawTo = append(p.group.DrawTo, &DrawTo{Command: LineTo, X: x, Y: y})
	p.curX, p.curY = x, y
	p.lastCubic = false
}

func (p *parser) curveTo(x1, y1, x2, y2, x, y float64) {
	p.ensureGroup()
	p.group.DrawTo = append(p.group.DrawTo, &DrawTo{
		Command: CurveTo,
		X1:      x1, Y1: y1,
		X2: x2, Y2: y2,
		X: x, Y: y,
	})
	p.curX, p.curY = x, y
	p.ctrlX, p.ctrlY = x2, y2
	p.lastCubic = true
}

func (p *parser) closePath() {
	if p.group != nil {
		p.group.DrawTo = append(p.group.DrawTo, &DrawTo{Command: ClosePath, X: p.startX, Y: p.startY})
	}
	p.curX, p.curY = p.startX, p.startY
	p.group = nil
	p.lastCubic = false
}

// repeat reads groups of n numbers, calling fn for each, until the next
// token is not a number. At least one group is required.
func (p *parser) repeat(n int, fn func([]float64)) error {
	args := make([]float64, n)
	for count := 0; ; count++ {
		p.skipSeparator()
		if !p.atNumber() {
			if count == 0 {
				return errors.New("missing arguments")
			}
			return nil
		}
		for i := range args {
			if i > 0 {
				p.skipSeparator()
			}
			v, err := p.number()
			if err != nil {
				return err
			}
			args[i] = v
		}
		fn(args)
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			p.pos++
		default:
			return
		}
	}
}

// skipSeparator consumes whitespace with at most one comma.
func (p *parser) skipSeparator() {
	p.skipSpace()
	if p.pos < len(p.data) && p.data[p.pos] == ',' {
		p.pos++
		p.skipSpace()
	}
}

func (p *parser) atNumber() bool {
	if p.pos >= len(p.data) {
		return false
	}
	c := p.data[p.pos]
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

// number scans a float. A second '.' or a sign ends the number, so
// "1.5.5" is two numbers and "1-2" is two numbers.
func (p *parser) number() (float64, error) {
	start := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}
	digits := p.digits()
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		digits += p.digits()
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected a number, got %q", p.data[start:p.pos])
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		save := p.pos
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
			p.pos++
		}
		if p.digits() == 0 {
			p.pos = save
		}
	}
	return strconv.ParseFloat(p.data[start:p.pos], 64)
}

func (p *parser) digits() int {
	n := 0
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
		n++
	}
	return n
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Function is one entry of a transform list, such as translate(1 2).
type Function struct {
	Name string
	Args []float64
}

// ParseFunctions parses a transform attribute into its function calls.
func ParseFunctions(data string) ([]*Function, error) {
	p := &parser{data: data}
	var functions []*Function
	for {
		p.skipSeparator()
		if p.pos >= len(p.data) {
			return functions, nil
		}
		start := p.pos
		for p.pos < len(p.data) && isNameByte(p.data[p.pos]) {
			p.pos++
		}
		if start == p.pos {
			return functions, fmt.Errorf("%w: expected a function name at offset %d", ErrSyntax, start)
		}
		fn := &Function{Name: p.data[start:p.pos]}
		p.skipSpace()
		if p.pos >= len(p.data) || p.data[p.pos] != '(' {
			return functions, fmt.Errorf("%w: expected \"(\" after %s", ErrSyntax, fn.Name)
		}
		p.pos++
		for {
			p.skipSeparator()
			if !p.atNumber() {
				break
			}
			v, err := p.number()
			if err != nil {
				return functions, fmt.Errorf("%w: %s: %v", ErrSyntax, fn.Name, err)
			}
			fn.Args = append(fn.Args, v)
		}
		if p.pos >= len(p.data) || p.data[p.pos] != ')' {
			return functions, fmt.Errorf("%w: expected \")\" to close %s", ErrSyntax, fn.Name)
		}
		p.pos++
		functions = append(functions, fn)
	}
}

func isNameByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || isDigit(c) || c == '_' || c == '-'
}
