package roster

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Result is the outcome of a shift extraction
type Result struct {
	Shifts  []Shift
	Days    []DayColumn // days discovered in the header
	Matches int         // cells that matched the surname
}

// Extractor finds one person's shifts in roster tables
type Extractor struct {
	layout *Layout
	logger *zap.Logger
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithLayout replaces the built-in row layout
func WithLayout(layout *Layout) ExtractorOption {
	return func(e *Extractor) {
		if layout != nil {
			e.layout = layout
		}
	}
}

// WithLogger sets the logger used for row-level tracing
func WithLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor with the default layout and a no-op logger
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		layout: DefaultLayout(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout returns the row layout in use
func (e *Extractor) Layout() *Layout {
	return e.layout
}

// ExtractShifts extracts shifts with the default layout.
// The result is unsorted and empty when no table has a day header.
func ExtractShifts(tables []Table, surname string) []Shift {
	return NewExtractor().Extract(tables, surname).Shifts
}

// Extract walks every data row of every table and emits one shift per cell
// that contains the surname, then adds a rest day for each header day that
// got no match.
func (e *Extractor) Extract(tables []Table, surname string) Result {
	days := DiscoverDays(tables)
	if len(days) == 0 {
		e.logger.Debug("no day header found in any table", zap.Int("tables", len(tables)))
		return Result{}
	}

	result := Result{Days: days}
	needle := strings.ToLower(strings.TrimSpace(norm.NFC.String(surname)))
	if needle == "" {
		e.logger.Debug("blank surname, only rest days will be produced")
	}

	matchedDays := map[string]bool{}

	for tableIdx, table := range tables {
		header, ok := ResolveHeader(table)
		if !ok {
			e.logger.Debug("table skipped, no day header", zap.Int("table", tableIdx))
			continue
		}

		e.logger.Debug("day header resolved",
			zap.Int("table", tableIdx),
			zap.Int("header_row", header.RowIndex),
			zap.Int("day_columns", len(header.Days)))

		if needle == "" {
			continue
		}

		for rowIdx := header.RowIndex + 1; rowIdx < len(table); rowIdx++ {
			row := table[rowIdx]
			if isEmptyRow(row) {
				continue
			}

			structureIdx := rowIdx - header.RowIndex - 1
			slot, defined := e.layout.Slot(structureIdx)
			if !defined {
				e.logger.Debug("row outside layout, using fallback slot",
					zap.Int("table", tableIdx), zap.Int("structure_index", structureIdx))
			}

			for colIdx, cell := range row {
				if cell == "" || !strings.Contains(strings.ToLower(norm.NFC.String(cell)), needle) {
					continue
				}
				dc, isDay := header.Columns[colIdx]
				if !isDay {
					continue
				}

				shift := shiftForSlot(dc, slot)
				result.Shifts = append(result.Shifts, shift)
				result.Matches++
				matchedDays[dc.Day] = true

				e.logger.Debug("surname matched",
					zap.String("day", dc.Day),
					zap.String("date", dc.Number),
					zap.Int("column", colIdx),
					zap.Int("structure_index", structureIdx),
					zap.String("location", shift.Location))
			}
		}
	}

	for _, dc := range days {
		if !matchedDays[dc.Day] {
			result.Shifts = append(result.Shifts, Shift{Day: dc.Day, Date: dc.Number, Location: RestLocation})
		}
	}

	e.logger.Debug("extraction finished",
		zap.Int("shifts", len(result.Shifts)), zap.Int("matches", result.Matches))

	return result
}

// shiftForSlot builds the shift for a matched cell. Closed locations become
// rest entries and leave/rest rows drop the time.
func shiftForSlot(dc DayColumn, slot RowSlot) Shift {
	location := slot.Location
	if location == "" {
		location = "Turno"
	}

	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "chiuso"), strings.Contains(lower, "chiusa"):
		return Shift{Day: dc.Day, Date: dc.Number, Location: RestLocation + " - " + location}
	case strings.Contains(lower, "riposo"), strings.Contains(lower, "ferie"):
		return Shift{Day: dc.Day, Date: dc.Number, Location: location}
	default:
		return Shift{Day: dc.Day, Date: dc.Number, Location: location, Time: slot.Time}
	}
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
