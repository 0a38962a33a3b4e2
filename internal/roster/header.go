package roster

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxHeaderRows is how many leading rows of a table may hold the day header
const maxHeaderRows = 3

var dayCellPattern = regexp.MustCompile(`(?i)^([a-zàèéìòù']+)\s+(\d+)`)

// Header is the day header found at the top of a table
type Header struct {
	RowIndex int
	Days     []DayColumn       // in column order
	Columns  map[int]DayColumn // column index -> day
}

// ParseDayCell matches a "<day> <number>" header cell.
// Only the seven canonical days are accepted.
func ParseDayCell(cell string) (day, number string, ok bool) {
	text := strings.TrimSpace(norm.NFC.String(cell))
	if text == "" {
		return "", "", false
	}

	m := dayCellPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}

	day = NormalizeDayName(m[1])
	if _, known := dayRanks[day]; !known {
		return "", "", false
	}
	return day, m[2], true
}

// ResolveHeader scans the first rows of a table for day header cells.
// Scanning stops at the first row with at least one day.
func ResolveHeader(table Table) (Header, bool) {
	limit := min(maxHeaderRows, len(table))
	for rowIdx := 0; rowIdx < limit; rowIdx++ {
		row := table[rowIdx]
		if len(row) == 0 {
			continue
		}

		header := Header{RowIndex: rowIdx, Columns: map[int]DayColumn{}}
		for colIdx, cell := range row {
			day, number, ok := ParseDayCell(cell)
			if !ok {
				continue
			}
			dc := DayColumn{Day: day, Number: number, Column: colIdx}
			header.Days = append(header.Days, dc)
			header.Columns[colIdx] = dc
		}

		if len(header.Days) > 0 {
			return header, true
		}
	}

	return Header{RowIndex: -1}, false
}

// DiscoverDays returns the days of the first table that carries a header.
// An empty result means no table in the document has a day header.
func DiscoverDays(tables []Table) []DayColumn {
	for _, table := range tables {
		if len(table) == 0 {
			continue
		}
		if header, ok := ResolveHeader(table); ok {
			return header.Days
		}
	}
	return nil
}
