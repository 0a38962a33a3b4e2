package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RosterPrefix is how roster documents are named by the office that issues them
const RosterPrefix = "servizio custodia"

// Search finds roster documents below a directory
type Search struct {
	maxFileSize int64
}

// NewSearch creates a new search handler with the specified size limit
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		maxFileSize: maxFileSize,
	}
}

// SearchDirectory walks the directory and returns the PDFs that look like
// rosters. A query narrows the result with fuzzy filename matching.
func (s *Search) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	files, absDirectory, err := s.walk(req.Directory, 0, func(name string) bool {
		if !req.All && !IsRosterName(name) {
			return false
		}
		return matchesQuery(name, strings.ToLower(strings.TrimSpace(req.Query)))
	})
	if err != nil {
		return nil, err
	}

	return &SearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// FindRosters returns at most limit roster documents, or all of them when
// limit is not positive.
func (s *Search) FindRosters(directory string, limit int) ([]FileInfo, error) {
	files, _, err := s.walk(directory, limit, IsRosterName)
	return files, err
}

// IsRosterName reports whether a file name follows the roster naming scheme
func IsRosterName(name string) bool {
	name = strings.ToLower(filepath.Base(name))
	return isPDFFile(name) && strings.HasPrefix(name, RosterPrefix)
}

func (s *Search) walk(directory string, limit int, keep func(name string) bool) ([]FileInfo, string, error) {
	if directory == "" {
		return nil, "", fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var files []FileInfo
	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if limit > 0 && len(files) >= limit {
			return filepath.SkipAll
		}

		// Symlinked files are skipped so the walk stays inside the directory
		if d.Type()&os.ModeSymlink != 0 || !isPDFFile(d.Name()) || !keep(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}
		if info.Size() == 0 || info.Size() > s.maxFileSize {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("error walking directory: %w", err)
	}

	return files, absDirectory, nil
}

// matchesQuery performs fuzzy matching on the filename
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	fileName := strings.ToLower(filename)
	if strings.Contains(fileName, query) {
		return true
	}

	// Every query word must appear in some filename word
	words := splitIntoWords(strings.TrimSuffix(fileName, ".pdf"))
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// splitIntoWords splits a string into words using common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
