package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayCell(t *testing.T) {
	tests := []struct {
		cell   string
		day    string
		number string
		ok     bool
	}{
		{"lunedì 1", "lunedì", "1", true},
		{"  Martedì 12 ", "martedì", "12", true},
		{"MERCOLEDÌ 3", "mercoledi'", "3", true},
		{"mercoledi' 3", "mercoledi'", "3", true},
		{"domenica 7\nnote", "domenica", "7", true},
		{"Servizio 4", "", "", false},
		{"lunedì", "", "", false},
		{"1 lunedì", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			day, number, ok := ParseDayCell(tt.cell)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.day, day)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestResolveHeader(t *testing.T) {
	t.Run("header on second row", func(t *testing.T) {
		table := Table{
			{"SERVIZIO CUSTODIA", "", ""},
			{"Luogo", "lunedì 1", "martedì 2"},
			{"Castello", "Rossi", ""},
		}

		header, ok := ResolveHeader(table)
		require.True(t, ok)
		assert.Equal(t, 1, header.RowIndex)
		assert.Equal(t, []DayColumn{
			{Day: "lunedì", Number: "1", Column: 1},
			{Day: "martedì", Number: "2", Column: 2},
		}, header.Days)
		assert.Contains(t, header.Columns, 2)
		assert.NotContains(t, header.Columns, 0)
	})

	t.Run("header beyond the first three rows is ignored", func(t *testing.T) {
		table := Table{{"a"}, {"b"}, {"c"}, {"lunedì 1"}}
		_, ok := ResolveHeader(table)
		assert.False(t, ok)
	})

	t.Run("empty table", func(t *testing.T) {
		_, ok := ResolveHeader(nil)
		assert.False(t, ok)
	})
}
