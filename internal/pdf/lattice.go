package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/turni-pdf/internal/roster"
)

const (
	// rulingThickness is the widest rectangle still treated as a drawn line.
	rulingThickness = 1.5
	// snapTolerance merges ruling coordinates closer than this, in points.
	snapTolerance = 3.0
	// spaceFactor is the gap, relative to the font size, that separates words.
	spaceFactor = 0.15
	// lineFactor is the baseline distance, relative to the font size, within
	// which glyphs share a line.
	lineFactor = 0.5
)

// segment is a horizontal or vertical ruling: pos is the fixed coordinate,
// from and to span the other axis.
type segment struct {
	pos, from, to float64
}

type grid struct {
	ys []float64 // row boundaries, top to bottom
	xs []float64 // column boundaries, left to right
}

// latticeTables rebuilds the ruled tables of a page from its rectangles.
// Cell borders drawn as boxes and thin filled rectangles both count as rulings.
func latticeTables(content pdf.Content) []roster.Table {
	horizontal, vertical := rulings(content.Rect)
	if len(horizontal) == 0 || len(vertical) == 0 {
		return nil
	}

	var tables []roster.Table
	for _, g := range grids(horizontal, vertical) {
		tables = append(tables, fillGrid(g, content.Text))
	}
	return tables
}

func rulings(rects []pdf.Rect) (horizontal, vertical []segment) {
	for _, rc := range rects {
		x0, x1 := math.Min(rc.Min.X, rc.Max.X), math.Max(rc.Min.X, rc.Max.X)
		y0, y1 := math.Min(rc.Min.Y, rc.Max.Y), math.Max(rc.Min.Y, rc.Max.Y)
		w, h := x1-x0, y1-y0

		switch {
		case w <= rulingThickness && h <= rulingThickness:
			continue
		case h <= rulingThickness:
			horizontal = append(horizontal, segment{pos: (y0 + y1) / 2, from: x0, to: x1})
		case w <= rulingThickness:
			vertical = append(vertical, segment{pos: (x0 + x1) / 2, from: y0, to: y1})
		default:
			horizontal = append(horizontal,
				segment{pos: y0, from: x0, to: x1},
				segment{pos: y1, from: x0, to: x1})
			vertical = append(vertical,
				segment{pos: x0, from: y0, to: y1},
				segment{pos: x1, from: y0, to: y1})
		}
	}
	return horizontal, vertical
}

// grids splits the page into separate tables: two consecutive row boundaries
// belong to the same table only when a vertical ruling spans the band between
// them.
func grids(horizontal, vertical []segment) []grid {
	ys := snap(positions(horizontal))
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	var out []grid
	var band []float64
	flush := func() {
		if len(band) >= 2 {
			if xs := columnBounds(vertical, band[len(band)-1], band[0]); len(xs) >= 2 {
				out = append(out, grid{ys: band, xs: xs})
			}
		}
		band = nil
	}

	for i, y := range ys {
		if i == 0 {
			band = []float64{y}
			continue
		}
		if spans(vertical, y, ys[i-1]) {
			band = append(band, y)
			continue
		}
		flush()
		band = []float64{y}
	}
	flush()

	return out
}

func spans(vertical []segment, bottom, top float64) bool {
	for _, v := range vertical {
		if v.from <= bottom+snapTolerance && v.to >= top-snapTolerance {
			return true
		}
	}
	return false
}

func columnBounds(vertical []segment, bottom, top float64) []float64 {
	var xs []float64
	for _, v := range vertical {
		if math.Min(v.to, top)-math.Max(v.from, bottom) > snapTolerance {
			xs = append(xs, v.pos)
		}
	}
	return snap(xs)
}

func positions(segments []segment) []float64 {
	out := make([]float64, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.pos)
	}
	return out
}

// snap sorts values and merges those within snapTolerance into their mean.
func snap(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var out []float64
	sum, n := sorted[0], 1
	for _, v := range sorted[1:] {
		if v-sum/float64(n) <= snapTolerance {
			sum += v
			n++
			continue
		}
		out = append(out, sum/float64(n))
		sum, n = v, 1
	}
	return append(out, sum/float64(n))
}

// fillGrid places each glyph in the cell containing its visual center.
// Absent or empty cells stay "".
func fillGrid(g grid, glyphs []pdf.Text) roster.Table {
	rows, cols := len(g.ys)-1, len(g.xs)-1
	cells := make([][][]pdf.Text, rows)
	for i := range cells {
		cells[i] = make([][]pdf.Text, cols)
	}

	for _, t := range glyphs {
		cx := t.X + t.W/2
		cy := t.Y + 0.3*t.FontSize
		row := sort.Search(rows, func(i int) bool { return g.ys[i+1] < cy })
		col := sort.Search(cols, func(i int) bool { return g.xs[i+1] > cx })
		if row >= rows || col >= cols || cy > g.ys[0] || cx < g.xs[0] {
			continue
		}
		cells[row][col] = append(cells[row][col], t)
	}

	table := make(roster.Table, rows)
	for i := range cells {
		table[i] = make([]string, cols)
		for j, cell := range cells[i] {
			table[i][j] = strings.Join(textLines(cell), "\n")
		}
	}
	return table
}

// run is a stretch of text on one line with no wide gap inside it
type run struct {
	from, to float64
	text     string
}

func (r run) center() float64 {
	return (r.from + r.to) / 2
}

// streamTable reads a page without rulings: each text line becomes a row and
// wide horizontal gaps separate runs. The line with the most runs fixes the
// columns and every run lands in the column its center falls in, so an empty
// cell keeps its place instead of pulling the cells after it to the left.
func streamTable(glyphs []pdf.Text) roster.Table {
	var lines [][]run
	for _, line := range groupLines(glyphs) {
		if runs := splitRuns(line); len(runs) > 0 {
			lines = append(lines, runs)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	columns := lines[0]
	for _, line := range lines[1:] {
		if len(line) > len(columns) {
			columns = line
		}
	}
	bounds := make([]float64, 0, len(columns)-1)
	for i := 1; i < len(columns); i++ {
		bounds = append(bounds, (columns[i-1].to+columns[i].from)/2)
	}

	table := make(roster.Table, 0, len(lines))
	for _, line := range lines {
		row := make([]string, len(columns))
		for _, r := range line {
			col := sort.SearchFloat64s(bounds, r.center())
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += r.text
		}
		table = append(table, row)
	}
	return table
}

func splitRuns(line []pdf.Text) []run {
	var runs []run
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && gap(line[i-1], line[i]) < 2*line[i].FontSize {
			continue
		}
		if s := joinGlyphs(line[start:i]); s != "" {
			last := line[i-1]
			runs = append(runs, run{from: line[start].X, to: last.X + last.W, text: s})
		}
		start = i
	}
	return runs
}

// textLines returns the text of glyphs line by line, top to bottom.
func textLines(glyphs []pdf.Text) []string {
	var out []string
	for _, line := range groupLines(glyphs) {
		if s := joinGlyphs(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// groupLines clusters glyphs by baseline. Glyph order within a line follows
// X, falling back to content stream order for glyphs drawn at the same X,
// which is what fonts without width tables produce.
func groupLines(glyphs []pdf.Text) [][]pdf.Text {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := append([]pdf.Text(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines [][]pdf.Text
	current := []pdf.Text{sorted[0]}
	for _, t := range sorted[1:] {
		ref := current[0]
		if ref.Y-t.Y <= lineFactor*math.Max(ref.FontSize, t.FontSize) {
			current = append(current, t)
			continue
		}
		lines = append(lines, current)
		current = []pdf.Text{t}
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

func gap(prev, next pdf.Text) float64 {
	return next.X - (prev.X + prev.W)
}

func joinGlyphs(line []pdf.Text) string {
	var b strings.Builder
	for i, t := range line {
		if i > 0 && gap(line[i-1], t) > spaceFactor*t.FontSize {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
