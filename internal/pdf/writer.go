package pdf

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
)

// documentDate is stamped on every rendered schedule so output bytes depend
// only on the shifts.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	rowHeight  = 10.0
	titleWidth = 200.0
)

type columnWidths struct {
	day, date, location, time, bathroom float64
	maxLocation                         int
}

var (
	plainColumns    = columnWidths{day: 30, date: 15, location: 85, time: 60, maxLocation: 44}
	bathroomColumns = columnWidths{day: 25, date: 10, location: 80, time: 40, bathroom: 30, maxLocation: 40}
)

// Writer renders a shift list as a one-table A4 document
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a schedule writer
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Render lays out the shifts under the title "Turni di lavoro <surname>".
// The bathroom column appears only when a Giardini del Castello shift exists,
// and unset flags on those rows print as "No".
func (w *Writer) Render(shifts []roster.Shift, surname string) ([]byte, error) {
	shifts = roster.FillBathroomDefaults(shifts)
	withBathroom := roster.HasBathroomColumn(shifts)
	cols := plainColumns
	if withBathroom {
		cols = bathroomColumns
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(documentDate)
	doc.SetModificationDate(documentDate)
	doc.SetCatalogSort(true)
	doc.SetAutoPageBreak(true, 15)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Arial", "B", 17)
	doc.CellFormat(titleWidth, rowHeight, tr("Turni di lavoro "+surname), "", 1, "C", false, 0, "")
	doc.Ln(rowHeight)

	doc.SetFont("Arial", "", 12)
	doc.SetFillColor(200, 200, 200)
	dayCell(doc, cols, "Giorno", " ", true)
	doc.CellFormat(cols.location, rowHeight, "Luogo", "1", 0, "C", true, 0, "")
	if withBathroom {
		doc.CellFormat(cols.time, rowHeight, "Orario", "1", 0, "C", true, 0, "")
		doc.CellFormat(cols.bathroom, rowHeight, "Pulizia bagni", "1", 1, "C", true, 0, "")
	} else {
		doc.CellFormat(cols.time, rowHeight, "Orario", "1", 1, "C", true, 0, "")
	}

	for _, s := range shifts {
		dayCell(doc, cols, tr(roster.DisplayDayName(s.Day)), s.Date, false)
		doc.CellFormat(cols.location, rowHeight, tr(truncate(s.Location, cols.maxLocation)), "1", 0, "C", false, 0, "")
		if withBathroom {
			doc.CellFormat(cols.time, rowHeight, tr(s.Time), "1", 0, "C", false, 0, "")
			doc.CellFormat(cols.bathroom, rowHeight, tr(string(s.Bathroom)), "1", 1, "C", false, 0, "")
		} else {
			doc.CellFormat(cols.time, rowHeight, tr(s.Time), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeRender, "failed to render schedule", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(buf.Bytes()), conf); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeRender, "rendered schedule failed validation", err)
	}

	w.logger.Debug("schedule rendered",
		zap.String("surname", surname),
		zap.Int("shifts", len(shifts)),
		zap.Bool("bathroom_column", withBathroom),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// dayCell draws the day name right-aligned and the day number left-aligned
// inside one outlined box, so the pair reads as a single "lunedì 1" column.
func dayCell(doc *fpdf.Fpdf, cols columnWidths, day, date string, fill bool) {
	x, y := doc.GetXY()
	if fill {
		doc.Rect(x, y, cols.day+cols.date, rowHeight, "F")
	}
	doc.CellFormat(cols.day, rowHeight, day, "", 0, "R", false, 0, "")
	doc.CellFormat(cols.date, rowHeight, date, "", 0, "L", false, 0, "")
	doc.Rect(x, y, cols.day+cols.date, rowHeight, "D")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
