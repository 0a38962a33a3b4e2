package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
)

func loadedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(4, zap.NewNop())
	m.Load("client-1", &Schedule{
		Surname:    "Rossi",
		Source:     "servizio custodia dal 01 al 07.pdf",
		OutputName: "Turni Rossi dal 01 al 07.pdf",
		Shifts: []roster.Shift{
			{Day: "lunedì", Date: "1", Location: "Villa Bonelli", Time: "09:00-13:00"},
			{Day: "martedì", Date: "2", Location: "Riposo"},
			{Day: "mercoledi'", Date: "3", Location: "Giardini del Castello", Time: "08:00-14:00", Bathroom: roster.BathroomNo},
		},
	})
	return m
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := loadedManager(t)

	_, err := m.Schedule("client-2")
	assert.ErrorIs(t, err, ErrNoSchedule)

	_, err = m.Add("client-2", AddShiftRequest{Day: "lunedì", Date: "1", Location: "Cimitero"})
	assert.ErrorIs(t, err, ErrNoSchedule)

	s, err := m.Schedule("client-1")
	require.NoError(t, err)
	assert.Equal(t, "Rossi", s.Surname)
	assert.Equal(t, 1, m.Sessions())
}

func TestManager_Add(t *testing.T) {
	m := loadedManager(t)

	s, err := m.Add("client-1", AddShiftRequest{
		Day: "Lunedì", Date: "1", Location: "Cimitero", Time: "07:30-12:30", Bathroom: "sì",
	})
	require.NoError(t, err)
	require.Len(t, s.Shifts, 4)
	assert.Equal(t, roster.Shift{Day: "lunedì", Date: "1", Location: "Cimitero", Time: "07:30-12:30"}, s.Shifts[0])

	s, err = m.Add("client-1", AddShiftRequest{Day: "giovedi'", Date: "4", Location: "Villa Bonelli", Time: "09:00-13:00"})
	require.NoError(t, err)
	assert.Equal(t, roster.Shift{Day: roster.Thursday, Date: "4", Location: "Villa Bonelli", Time: "09:00-13:00"}, s.Shifts[4],
		"typed day forms are stored canonically")

	s, err = m.Add("client-1", AddShiftRequest{Day: "domenica", Date: "7", Location: "Giardini del Castello", Bathroom: "si"})
	require.NoError(t, err)
	assert.Equal(t, roster.BathroomYes, s.Shifts[len(s.Shifts)-1].Bathroom)
}

func TestManager_AddValidation(t *testing.T) {
	m := loadedManager(t)

	tests := []struct {
		name string
		req  AddShiftRequest
	}{
		{"unknown day", AddShiftRequest{Day: "festivo", Date: "1", Location: "X"}},
		{"missing location", AddShiftRequest{Day: "lunedì", Date: "1"}},
		{"date not numeric", AddShiftRequest{Day: "lunedì", Date: "uno", Location: "X"}},
		{"date too long", AddShiftRequest{Day: "lunedì", Date: "123", Location: "X"}},
		{"bad time", AddShiftRequest{Day: "lunedì", Date: "1", Location: "X", Time: "mattina"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add("client-1", tt.req)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}

	s, _ := m.Schedule("client-1")
	assert.Len(t, s.Shifts, 3, "rejected requests change nothing")
}

func TestManager_Edit(t *testing.T) {
	m := loadedManager(t)

	s, err := m.Edit("client-1", EditShiftsRequest{Rows: []int{1, 3}, Time: "10:00-13:00"})
	require.NoError(t, err)
	assert.Equal(t, "Villa Bonelli", s.Shifts[0].Location)
	assert.Equal(t, "10:00-13:00", s.Shifts[0].Time)
	assert.Equal(t, "10:00-13:00", s.Shifts[2].Time)
	assert.Equal(t, roster.BathroomNo, s.Shifts[2].Bathroom, "blank bathroom keeps the flag")

	s, err = m.Edit("client-1", EditShiftsRequest{Rows: []int{3}, Bathroom: "yes"})
	require.NoError(t, err)
	assert.Equal(t, roster.BathroomYes, s.Shifts[2].Bathroom)

	_, err = m.Edit("client-1", EditShiftsRequest{Rows: []int{2, 9}, Location: "Stadio Puttilli"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	s, _ = m.Schedule("client-1")
	assert.Equal(t, "Riposo", s.Shifts[1].Location, "out of range selection applies to no row")

	_, err = m.Edit("client-1", EditShiftsRequest{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = m.Edit("client-1", EditShiftsRequest{Rows: []int{0}})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestManager_Delete(t *testing.T) {
	m := loadedManager(t)

	s, err := m.Delete("client-1", DeleteShiftRequest{Row: 2})
	require.NoError(t, err)
	require.Len(t, s.Shifts, 2)
	assert.Equal(t, "Giardini del Castello", s.Shifts[1].Location)

	_, err = m.Delete("client-1", DeleteShiftRequest{Row: 3})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = m.Delete("client-1", DeleteShiftRequest{Row: 0})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	assert.True(t, m.Forget("client-1"))
	_, err = m.Schedule("client-1")
	assert.ErrorIs(t, err, ErrNoSchedule)
}

func TestDescribe(t *testing.T) {
	v := newValidator()

	err := describe(v.Struct(AddShiftRequest{Day: "festivo", Date: "1", Location: "X", Time: "sera"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"festivo" is not an Italian weekday`)
	assert.Contains(t, err.Error(), "08:00-14:00")

	assert.NoError(t, v.Struct(AddShiftRequest{Day: "mercoledì", Date: "03", Location: "X", Time: " 8:00 - 12:30 "}))
}
