package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDayName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "lunedì", "lunedì"},
		{"upper case", "LUNEDÌ", "lunedì"},
		{"surrounding spaces", "  sabato ", "sabato"},
		{"accented wednesday", "mercoledì", "mercoledi'"},
		{"capitalized wednesday", "Mercoledì", "mercoledi'"},
		{"decomposed accent", "mercoledi\u0300", "mercoledi'"},
		{"already canonical", "mercoledi'", "mercoledi'"},
		{"unknown passes through", "Festivo", "festivo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDayName(tt.input))
		})
	}
}

func TestNormalizeDayName_Idempotent(t *testing.T) {
	for _, day := range append(DayNames(), "mercoledì", "Giovedì", " DOMENICA") {
		once := NormalizeDayName(day)
		assert.Equal(t, once, NormalizeDayName(once), "day %q", day)
		assert.Equal(t, once, NormalizeDayName(DisplayDayName(once)), "day %q", day)
	}
}

func TestDisplayDayName(t *testing.T) {
	assert.Equal(t, "mercoledì", DisplayDayName("mercoledi'"))
	assert.Equal(t, "lunedì", DisplayDayName("lunedì"))
	assert.Equal(t, "domenica", DisplayDayName("domenica"))
}

func TestDayRank(t *testing.T) {
	for i, day := range DayNames() {
		assert.Equal(t, i+1, DayRank(day))
	}
	assert.Equal(t, 3, DayRank("Mercoledì"))
	assert.Equal(t, 8, DayRank("festivo"))
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"giovedì", Thursday, true},
		{"giovedi'", Thursday, true},
		{"Giovedi", Thursday, true},
		{"GIOVEDÌ", Thursday, true},
		{"giovedi’", Thursday, true},
		{"mercoledi", Wednesday, true},
		{"mercoledì", Wednesday, true},
		{"mercoledi'", Wednesday, true},
		{" sabato ", Saturday, true},
		{"festivo", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDay(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, got, NormalizeDayName(got), "parsed days are canonical")
			}
		})
	}
}
