package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		input   string
		surname string
		want    string
	}{
		{"Servizio Custodia DAL 01 al 07.pdf", "Rossi", "Turni Rossi dal 01 al 07.pdf"},
		{"roster.pdf", "Rossi", "Turni Rossi.pdf"},
		{"/tmp/uploads/servizio custodia dal 10 AL 16 MARZO.PDF", "Bianchi", "Turni Bianchi dal 10 al 16 marzo.pdf"},
		{"DAL 01 al 07.docx", "Rossi", "Turni Rossi.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.input, tt.surname))
		})
	}
}
