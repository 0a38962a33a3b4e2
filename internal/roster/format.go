package roster

import (
	"fmt"
	"strings"
)

// FormatShiftTable renders shifts as a numbered plain-text table. The
// bathroom column is only printed when a Giardini del Castello shift exists.
func FormatShiftTable(shifts []Shift) string {
	withBathroom := HasBathroomColumn(shifts)
	width := 80
	if withBathroom {
		width = 100
	}
	rule := strings.Repeat("-", width)

	var b strings.Builder
	b.WriteString(rule + "\n")
	if withBathroom {
		fmt.Fprintf(&b, "%-3s %-12s %-6s %-35s %-15s %-12s\n", "N.", "Giorno", "Data", "Luogo", "Orario", "Pulizia bagni")
	} else {
		fmt.Fprintf(&b, "%-3s %-12s %-6s %-35s %-15s\n", "N.", "Giorno", "Data", "Luogo", "Orario")
	}
	b.WriteString(rule + "\n")

	for i, s := range shifts {
		if withBathroom {
			fmt.Fprintf(&b, "%-3d %-12s %-6s %-35s %-15s %-12s\n",
				i+1, DisplayDayName(s.Day), s.Date, s.Location, s.Time, string(s.Bathroom))
		} else {
			fmt.Fprintf(&b, "%-3d %-12s %-6s %-35s %-15s\n",
				i+1, DisplayDayName(s.Day), s.Date, s.Location, s.Time)
		}
	}
	b.WriteString(rule + "\n")

	return b.String()
}
