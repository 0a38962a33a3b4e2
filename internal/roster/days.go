package roster

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical day names as they appear in the roster header. Wednesday is the
// only day whose internal spelling differs from the display spelling.
const (
	Monday    = "lunedì"
	Tuesday   = "martedì"
	Wednesday = "mercoledi'"
	Thursday  = "giovedì"
	Friday    = "venerdì"
	Saturday  = "sabato"
	Sunday    = "domenica"

	wednesdayDisplay = "mercoledì"

	// unknownDayRank sorts unrecognized day names after Sunday
	unknownDayRank = 8
)

var dayNames = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayRanks = map[string]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
	Sunday:    7,
}

// DayNames returns the canonical day names in weekday order
func DayNames() []string {
	names := make([]string, len(dayNames))
	copy(names, dayNames)
	return names
}

// NormalizeDayName converts a day name into its canonical internal form.
// Text pulled out of PDFs may carry decomposed accents, so the name is
// NFC-composed before comparison.
func NormalizeDayName(name string) string {
	name = strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
	if name == wednesdayDisplay {
		return Wednesday
	}
	return name
}

// DisplayDayName converts a canonical day name into its display form
func DisplayDayName(canonical string) string {
	if canonical == Wednesday {
		return wednesdayDisplay
	}
	return canonical
}

// ParseDay reads a weekday as a person types it. Accents may be written as
// an apostrophe or left out, so "giovedi'", "giovedi" and "GIOVEDÌ" all give
// the canonical "giovedì".
func ParseDay(name string) (string, bool) {
	day := NormalizeDayName(name)
	if _, ok := dayRanks[day]; ok {
		return day, true
	}
	day, ok := foldedDays[foldDay(day)]
	return day, ok
}

var foldedDays = func() map[string]string {
	m := make(map[string]string, len(dayNames))
	for _, day := range dayNames {
		m[foldDay(day)] = day
	}
	return m
}()

var accentFolder = strings.NewReplacer("ì", "i", "í", "i")

func foldDay(name string) string {
	return strings.TrimRight(accentFolder.Replace(name), "'’`")
}

// DayRank returns the weekday position (1 = Monday) of a day name.
// Unknown names rank after Sunday.
func DayRank(name string) int {
	if rank, ok := dayRanks[NormalizeDayName(name)]; ok {
		return rank
	}
	return unknownDayRank
}
