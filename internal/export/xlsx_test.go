package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/turni-pdf/internal/roster"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestXLSX_PlainSchedule(t *testing.T) {
	data, err := XLSX([]roster.Shift{
		{Day: "mercoledi'", Date: "3", Location: "Villa Bonelli", Time: "09:00-13:00"},
		{Day: "giovedì", Date: "4", Location: "Riposo"},
	}, "Rossi")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Giorno", "Data", "Luogo", "Orario"},
		{"mercoledì", "3", "Villa Bonelli", "09:00-13:00"},
		{"giovedì", "4", "Riposo"},
	}, readRows(t, data))
}

func TestXLSX_BathroomColumn(t *testing.T) {
	data, err := XLSX([]roster.Shift{
		{Day: "lunedì", Date: "1", Location: "Giardini del Castello", Time: "08:00-14:00"},
		{Day: "martedì", Date: "2", Location: "Giardini del Castello", Time: "16:00-22:00", Bathroom: roster.BathroomYes},
	}, "Bianchi")
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "Pulizia bagni", rows[0][4])
	assert.Equal(t, "No", rows[1][4])
	assert.Equal(t, "Sì", rows[2][4])
}

func TestXLSX_Empty(t *testing.T) {
	data, err := XLSX(nil, "Rossi")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Giorno", "Data", "Luogo", "Orario"}}, readRows(t, data))
}
