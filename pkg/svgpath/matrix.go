package svgpath

import (
	"fmt"
	"math"
)

// Matrix is the affine transform
//
//	⎡ A C E ⎤
//	⎢ B D F ⎥
//	⎣ 0 0 1 ⎦
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Matrix{A: 1, D: 1}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, E: x, F: y}
}

// Scale returns a scaling about the origin.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, D: y}
}

// ParseTransform parses an SVG transform attribute. An empty attribute is
// the identity.
func ParseTransform(transform string) (Matrix, error) {
	m := Identity
	functions, err := ParseFunctions(transform)
	if err != nil {
		return m, err
	}

	for _, fn := range functions {
		args := fn.Args
		switch fn.Name {
		case "matrix":
			if len(args) != 6 {
				return m, fmt.Errorf("matrix takes 6 arguments, got %v", args)
			}
			m = m.Multiply(Matrix{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]})
		case "translate":
			if len(args) != 1 && len(args) != 2 {
				return m, fmt.Errorf("translate takes 1 or 2 arguments, got %v", args)
			}
			y := 0.0
			if len(args) == 2 {
				y = args[1]
			}
			m = m.Multiply(Translate(args[0], y))
		case "scale":
			if len(args) != 1 && len(args) != 2 {
				return m, fmt.Errorf("scale takes 1 or 2 arguments, got %v", args)
			}
			y := args[0]
			if len(args) == 2 {
				y = args[1]
			}
			m = m.Multiply(Scale(args[0], y))
		case "rotate":
			//  ⎡ cos(θ)  −sin(θ)  −x⋅cos(θ)+y⋅sin(θ)+x ⎤
			//  ⎢ sin(θ)   cos(θ)  −x⋅sin(θ)−y⋅cos(θ)+y |
			//  ⎣   0        0               1          ⎦
			if len(args) != 1 && len(args) != 3 {
				return m, fmt.Errorf("rotate takes 1 or 3 arguments, got %v", args)
			}
			cos := math.Cos(args[0] * math.Pi / 180)
			sin := math.Sin(args[0] * math.Pi / 180)
			var x, y float64
			if len(args) == 3 {
				x, y = args[1], args[2]
			}
			m = m.Multiply(Matrix{
				A: cos, C: -sin, E: -x*cos + y*sin + x,
				B: sin, D: cos, F: -x*sin - y*cos + y,
			})
		default:
			return m, fmt.Errorf("unknown transform function %q", fn.Name)
		}
	}

	return m, nil
}

// Multiply returns m·other, which applies other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// TransformPath maps every coordinate of the subpaths in place.
func (m Matrix) TransformPath(paths []*SubPath) {
	for _, group := range paths {
		group.X, group.Y = m.TransformPoint(group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			drawTo.X, drawTo.Y = m.TransformPoint(drawTo.X, drawTo.Y)
			if drawTo.Command == CurveTo {
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
				drawTo.X2, drawTo.Y2 = m.TransformPoint(drawTo.X2, drawTo.Y2)
			}
		}
	}
}
