// Package pdftest generates roster documents for tests.
package pdftest

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// Grid is one ruled table of a generated roster page
type Grid [][]string

// Week is a three-day roster: Rossi works two mornings (one as "Rossi M.")
// and one afternoon, Verdi one afternoon and Bianchi one morning.
var Week = Grid{
	{"Luogo", "lunedì 1", "martedì 2", "mercoledì 3"},
	{"Castello mattina", "Rossi", "", "Bianchi"},
	{"Castello mattina bis", "", "Rossi M.", ""},
	{"Castello pomeriggio", "Verdi", "", "Rossi"},
}

// Borders selects how a generated roster draws its cell borders
type Borders int

const (
	// Boxes outlines every cell with its own rectangle
	Boxes Borders = iota
	// Lines draws the grid with stroked lines, as office suites export it
	Lines
	// NoBorders leaves the grid undrawn so only text positions remain
	NoBorders
)

const (
	firstColumnWidth = 45.0
	columnWidth      = 30.0
	rowHeight        = 6.0
)

// Roster draws each grid as a bordered table, one below the other with a gap
// between them, the way the custody office prints its weekly roster.
func Roster(grids ...Grid) ([]byte, error) {
	return RosterWith(Boxes, grids...)
}

// RosterWith draws the grids like Roster using the given border style
func RosterWith(borders Borders, grids ...Grid) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	cellBorder := ""
	if borders == Boxes {
		cellBorder = "1"
	}

	doc.AddPage()
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, "SERVIZIO CUSTODIA", "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "", 8)
	for _, grid := range grids {
		left, top := doc.GetXY()
		for _, row := range grid {
			for i, cell := range row {
				ln := 0
				if i == len(row)-1 {
					ln = 1
				}
				doc.CellFormat(cellWidth(i), rowHeight, tr(cell), cellBorder, ln, "C", false, 0, "")
			}
		}
		if borders == Lines && len(grid) > 0 {
			drawLines(doc, left, top, grid)
		}
		doc.Ln(12)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellWidth(column int) float64 {
	if column == 0 {
		return firstColumnWidth
	}
	return columnWidth
}

// drawLines strokes one horizontal line per row boundary and one vertical
// line per column boundary across the whole grid
func drawLines(doc *fpdf.Fpdf, left, top float64, grid Grid) {
	xs := []float64{left}
	for i := range grid[0] {
		xs = append(xs, xs[len(xs)-1]+cellWidth(i))
	}
	bottom := top + float64(len(grid))*rowHeight
	right := xs[len(xs)-1]

	for r := 0; r <= len(grid); r++ {
		y := top + float64(r)*rowHeight
		doc.Line(left, y, right, y)
	}
	for _, x := range xs {
		doc.Line(x, top, x, bottom)
	}
}

// PlainText draws lines of text with no rulings at all
func PlainText(lines ...string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()
	doc.SetFont("Arial", "", 11)
	for _, line := range lines {
		doc.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
