package pdf

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/roster"
)

func TestWriter_RenderRoundTrip(t *testing.T) {
	writer := NewWriter(zap.NewNop())
	reader := NewTableReader(10*1024*1024, nil)

	shifts := []roster.Shift{
		{Day: "lunedì", Date: "1", Location: "Villa Bonelli", Time: "09:00-13:00"},
		{Day: "mercoledi'", Date: "3", Location: "Riposo"},
		{Day: "venerdì", Date: "5", Location: "Palazzo di Città", Time: "18:00-24:00"},
	}

	data, err := writer.Render(shifts, "Rossi")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	tables, err := reader.ReadTables(data)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, roster.Table{
		{"Giorno", "Luogo", "Orario"},
		{"lunedì 1", "Villa Bonelli", "09:00-13:00"},
		{"mercoledì 3", "Riposo", ""},
		{"venerdì 5", "Palazzo di Città", "18:00-24:00"},
	}, tables[0])
}

func TestWriter_TitleCenteredOnTitleWidth(t *testing.T) {
	data, err := NewWriter(nil).Render(nil, "Rossi")
	require.NoError(t, err)

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var first *pdf.Text
	for _, glyph := range doc.Page(1).Content().Text {
		if glyph.FontSize > 16 {
			first = &glyph
			break
		}
	}
	require.NotNil(t, first, "title glyphs")

	measure := fpdf.New("P", "mm", "A4", "")
	measure.SetFont("Arial", "B", 17)
	left, _, _, _ := measure.GetMargins()
	startMM := left + (titleWidth-measure.GetStringWidth("Turni di lavoro Rossi"))/2

	assert.Equal(t, "T", first.S)
	assert.InDelta(t, startMM*72/25.4, first.X, 0.5)
}

func TestWriter_BathroomColumn(t *testing.T) {
	writer := NewWriter(nil)
	reader := NewTableReader(10*1024*1024, nil)

	shifts := []roster.Shift{
		{Day: "lunedì", Date: "1", Location: "Giardini del Castello", Time: "08:00-14:00"},
		{Day: "martedì", Date: "2", Location: "Giardini del Castello", Time: "16:00-22:00", Bathroom: roster.BathroomYes},
		{Day: "mercoledi'", Date: "3", Location: "Cimitero", Time: "07:30-12:30"},
	}

	data, err := writer.Render(shifts, "Bianchi")
	require.NoError(t, err)

	tables, err := reader.ReadTables(data)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, roster.Table{
		{"Giorno", "Luogo", "Orario", "Pulizia bagni"},
		{"lunedì 1", "Giardini del Castello", "08:00-14:00", "No"},
		{"martedì 2", "Giardini del Castello", "16:00-22:00", "Sì"},
		{"mercoledì 3", "Cimitero", "07:30-12:30", ""},
	}, tables[0])
	assert.Equal(t, roster.BathroomUnset, shifts[0].Bathroom, "input must not be modified")
}

func TestWriter_LongLocation(t *testing.T) {
	writer := NewWriter(nil)

	long := "Giardini viale Manzoni-Via Da Vinci e aree limitrofe del quartiere"
	data, err := writer.Render([]roster.Shift{{Day: "sabato", Date: "6", Location: long, Time: "10:00-12:00"}}, "Rossi")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.Len(t, []rune(truncate(long, plainColumns.maxLocation)), 44)
	assert.Len(t, []rune(truncate(long, bathroomColumns.maxLocation)), 40)
}

func TestWriter_Deterministic(t *testing.T) {
	writer := NewWriter(nil)
	shifts := []roster.Shift{
		{Day: "domenica", Date: "7", Location: "Stadio Puttilli", Time: "15:00-18:00"},
	}

	first, err := writer.Render(shifts, "Rossi")
	require.NoError(t, err)
	second, err := writer.Render(shifts, "Rossi")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriter_EmptySchedule(t *testing.T) {
	writer := NewWriter(nil)
	reader := NewTableReader(10*1024*1024, nil)

	data, err := writer.Render(nil, "Rossi")
	require.NoError(t, err)

	tables, err := reader.ReadTables(data)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, roster.Table{{"Giorno", "Luogo", "Orario"}}, tables[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Città", truncate("Città", 5))
	assert.Equal(t, "Cit", truncate("Città", 3))
	assert.Equal(t, "", truncate("", 3))
}
