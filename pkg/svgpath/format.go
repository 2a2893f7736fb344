package svgpath

import (
	"math"
	"strconv"
	"strings"
)

// Format writes subpaths in compact absolute form, for example
// "M0,0L10,0C12,1 12,3 10,4Z". Subpaths are concatenated without
// separators.
func Format(paths []*SubPath) string {
	var buf strings.Builder
	for _, group := range paths {
		writePoint(&buf, 'M', group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				writePoint(&buf, 'L', drawTo.X, drawTo.Y)
			case CurveTo:
				writePoint(&buf, 'C', drawTo.X1, drawTo.Y1)
				writePoint(&buf, ' ', drawTo.X2, drawTo.Y2)
				writePoint(&buf, ' ', drawTo.X, drawTo.Y)
			case ClosePath:
				buf.WriteByte('Z')
			}
		}
	}
	return buf.String()
}

func writePoint(buf *strings.Builder, prefix byte, x, y float64) {
	buf.WriteByte(prefix)
	buf.WriteString(FormatNumber(x))
	buf.WriteByte(',')
	buf.WriteString(FormatNumber(y))
}

// FormatNumber prints v as an integer when it is within 1e-4 of one, and
// otherwise with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < 1e-4 {
		if r == 0 {
			return "0"
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
