package roster

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var periodPattern = regexp.MustCompile(`(?i)DAL.*\.pdf`)

// OutputFilename derives the personal schedule filename from the roster
// filename. "Servizio Custodia DAL 01 al 07.pdf" for Rossi becomes
// "Turni Rossi dal 01 al 07.pdf".
func OutputFilename(inputFilename, surname string) string {
	base := filepath.Base(inputFilename)
	if m := periodPattern.FindString(base); m != "" {
		return fmt.Sprintf("Turni %s %s", surname, strings.ToLower(m))
	}
	return fmt.Sprintf("Turni %s.pdf", surname)
}
