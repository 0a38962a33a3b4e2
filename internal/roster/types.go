package roster

import "strings"

// Table is a raw grid of cells pulled out of a roster document, row-major.
// Rows may have different lengths; an absent cell is the empty string.
type Table [][]string

// DayColumn ties a table column to the day it holds
type DayColumn struct {
	Day    string `json:"day"`    // canonical day name
	Number string `json:"number"` // day of month as printed in the header
	Column int    `json:"column"`
}

// BathroomFlag is the tri-state bathroom-cleaning annotation
type BathroomFlag string

const (
	BathroomUnset BathroomFlag = ""
	BathroomNo    BathroomFlag = "No"
	BathroomYes   BathroomFlag = "Sì"
)

// Shift is one work (or rest) entry for the target person
type Shift struct {
	Day      string       `json:"day"`  // canonical day name
	Date     string       `json:"date"` // day of month
	Location string       `json:"location"`
	Time     string       `json:"time,omitempty"` // "HH:MM-HH:MM" or empty
	Bathroom BathroomFlag `json:"bathroom_cleaning,omitempty"`
}

// Location labels with special meaning
const (
	RestLocation      = "Riposo"
	UndefinedLocation = "Turno non definito"
	CastleMarker      = "giardini del castello"
)

// IsCastle reports whether the shift takes place at Giardini del Castello,
// the only location that tracks bathroom cleaning.
func (s Shift) IsCastle() bool {
	return IsCastleLocation(s.Location)
}

// IsCastleLocation reports whether a location contains the Giardini del Castello marker
func IsCastleLocation(location string) bool {
	return strings.Contains(strings.ToLower(location), CastleMarker)
}

// ParseBathroomFlag reads a user supplied yes/no answer.
// Anything that is not an affirmative answer is treated as "No".
func ParseBathroomFlag(s string) BathroomFlag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sì", "si", "s", "yes", "y", "true", "1":
		return BathroomYes
	default:
		return BathroomNo
	}
}
