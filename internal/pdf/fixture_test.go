package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a3tai/turni-pdf/internal/pdf/pdftest"
)

type rosterGrid = pdftest.Grid

var weekGrid = pdftest.Week

func buildRoster(t *testing.T, grids ...rosterGrid) []byte {
	t.Helper()
	data, err := pdftest.Roster(grids...)
	require.NoError(t, err)
	return data
}

func buildRosterWith(t *testing.T, borders pdftest.Borders, grids ...rosterGrid) []byte {
	t.Helper()
	data, err := pdftest.RosterWith(borders, grids...)
	require.NoError(t, err)
	return data
}

func buildPlainText(t *testing.T, lines ...string) []byte {
	t.Helper()
	data, err := pdftest.PlainText(lines...)
	require.NoError(t, err)
	return data
}

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
