package pdf

import (
	"math"

	"github.com/ledongthuc/pdf"
)

// affine is a PDF transformation matrix [a b c d e f]
type affine [6]float64

var identity = affine{1, 0, 0, 1, 0, 0}

// then returns the transformation that applies m first and n second
func (m affine) then(n affine) affine {
	return affine{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m affine) apply(x, y float64) pdf.Point {
	return pdf.Point{X: m[0]*x + m[2]*y + m[4], Y: m[1]*x + m[3]*y + m[5]}
}

// paintedLines returns the straight, axis-aligned segments of every painted
// path on a page as zero-width rectangles. Content only reports "re"
// operators, so grids drawn with moveto/lineto are collected here and fed to
// the same ruling detection.
func paintedLines(page pdf.Page) []pdf.Rect {
	strm := page.V.Key("Contents")
	if strm.IsNull() {
		return nil
	}

	var (
		out            []pdf.Rect
		path           []pdf.Rect
		ctm            = identity
		saved          []affine
		start, current pdf.Point
	)

	lineTo := func(p pdf.Point) {
		if r, ok := axisSegment(current, p); ok {
			path = append(path, r)
		}
		current = p
	}

	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]float64, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop().Float64()
		}

		switch op {
		case "q":
			saved = append(saved, ctm)
		case "Q":
			if len(saved) > 0 {
				ctm = saved[len(saved)-1]
				saved = saved[:len(saved)-1]
			}
		case "cm":
			if n == 6 {
				ctm = affine{args[0], args[1], args[2], args[3], args[4], args[5]}.then(ctm)
			}
		case "m":
			if n == 2 {
				current = ctm.apply(args[0], args[1])
				start = current
			}
		case "l":
			if n == 2 {
				lineTo(ctm.apply(args[0], args[1]))
			}
		case "c":
			if n == 6 {
				current = ctm.apply(args[4], args[5])
			}
		case "v", "y":
			if n == 4 {
				current = ctm.apply(args[2], args[3])
			}
		case "re":
			if n == 4 {
				start = ctm.apply(args[0], args[1])
				current = start
			}
		case "h":
			lineTo(start)
		case "s", "b", "b*":
			lineTo(start)
			out = append(out, path...)
			path = nil
		case "S", "f", "F", "f*", "B", "B*":
			out = append(out, path...)
			path = nil
		case "n":
			path = nil
		}
	})

	return out
}

// axisSegment turns a horizontal or vertical segment into a degenerate
// rectangle. Slanted segments are not rulings.
func axisSegment(from, to pdf.Point) (pdf.Rect, bool) {
	dx, dy := math.Abs(to.X-from.X), math.Abs(to.Y-from.Y)
	if dx > rulingThickness && dy > rulingThickness {
		return pdf.Rect{}, false
	}
	return pdf.Rect{
		Min: pdf.Point{X: math.Min(from.X, to.X), Y: math.Min(from.Y, to.Y)},
		Max: pdf.Point{X: math.Max(from.X, to.X), Y: math.Max(from.Y, to.Y)},
	}, true
}
