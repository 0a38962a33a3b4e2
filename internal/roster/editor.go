package roster

import (
	"fmt"
	"slices"
	"strings"
)

// HasBathroomColumn reports whether any shift is at Giardini del Castello.
// It decides whether the bathroom-cleaning column is shown at all.
func HasBathroomColumn(shifts []Shift) bool {
	for _, s := range shifts {
		if s.IsCastle() {
			return true
		}
	}
	return false
}

// FillBathroomDefaults returns a copy of shifts where every Giardini del
// Castello shift without a bathroom flag is set to "No".
func FillBathroomDefaults(shifts []Shift) []Shift {
	filled := make([]Shift, len(shifts))
	copy(filled, shifts)
	if !HasBathroomColumn(filled) {
		return filled
	}

	for i := range filled {
		if filled[i].IsCastle() && filled[i].Bathroom == BathroomUnset {
			filled[i].Bathroom = BathroomNo
		}
	}
	return filled
}

// AddShift appends a new shift and returns the re-sorted list.
// The bathroom flag is kept only for Giardini del Castello.
func AddShift(shifts []Shift, day, date, location, timeRange string, bathroom BathroomFlag) []Shift {
	s := Shift{
		Day:      NormalizeDayName(day),
		Date:     strings.TrimSpace(date),
		Location: strings.TrimSpace(location),
		Time:     strings.TrimSpace(timeRange),
	}
	if s.IsCastle() {
		s.Bathroom = normalizeFlag(bathroom)
	}

	return SortShifts(append(slices.Clone(shifts), s))
}

// EditShift replaces location, time and bathroom flag of the shift at index.
// Day and date never change and the list is not re-sorted.
func EditShift(shifts []Shift, index int, location, timeRange string, bathroom BathroomFlag) error {
	if err := checkIndex(shifts, index); err != nil {
		return err
	}

	s := &shifts[index]
	s.Location = location
	s.Time = timeRange
	s.Bathroom = bathroomAfterEdit(*s, bathroom)
	return nil
}

// BatchEdit applies the same changes to several shifts. A blank location or
// time keeps each row's own value, and an unset flag keeps each row's flag.
func BatchEdit(shifts []Shift, indices []int, location, timeRange string, bathroom BathroomFlag) error {
	for _, idx := range indices {
		if err := checkIndex(shifts, idx); err != nil {
			return err
		}
	}

	location = strings.TrimSpace(location)
	timeRange = strings.TrimSpace(timeRange)

	for _, idx := range indices {
		s := shifts[idx]
		if location != "" {
			s.Location = location
		}
		if timeRange != "" {
			s.Time = timeRange
		}

		flag := bathroom
		if flag == BathroomUnset {
			flag = s.Bathroom
		}
		if err := EditShift(shifts, idx, s.Location, s.Time, flag); err != nil {
			return err
		}
	}
	return nil
}

// DeleteShift removes the shift at index
func DeleteShift(shifts []Shift, index int) ([]Shift, error) {
	if err := checkIndex(shifts, index); err != nil {
		return shifts, err
	}

	out := make([]Shift, 0, len(shifts)-1)
	out = append(out, shifts[:index]...)
	return append(out, shifts[index+1:]...), nil
}

// bathroomAfterEdit decides the flag of an edited shift: Giardini del
// Castello shifts always carry Sì/No, every other shift carries none.
func bathroomAfterEdit(edited Shift, requested BathroomFlag) BathroomFlag {
	if edited.IsCastle() {
		return normalizeFlag(requested)
	}
	return BathroomUnset
}

func normalizeFlag(flag BathroomFlag) BathroomFlag {
	if flag == BathroomYes {
		return BathroomYes
	}
	return BathroomNo
}

func checkIndex(shifts []Shift, index int) error {
	if index < 0 || index >= len(shifts) {
		return fmt.Errorf("shift index %d out of range (have %d shifts)", index, len(shifts))
	}
	return nil
}
