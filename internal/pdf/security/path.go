package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator keeps roster reads inside one directory and rendered
// schedules inside another.
type PathValidator struct {
	rosterDirectory string
	outputDirectory string
}

// NewPathValidator creates a validator for the given roster directory. An
// empty outputDirectory means schedules are written next to the rosters.
func NewPathValidator(rosterDirectory, outputDirectory string) (*PathValidator, error) {
	if rosterDirectory == "" {
		return nil, fmt.Errorf("roster directory cannot be empty")
	}
	if outputDirectory == "" {
		outputDirectory = rosterDirectory
	}

	// Directories are not required to exist yet
	return &PathValidator{
		rosterDirectory: rosterDirectory,
		outputDirectory: outputDirectory,
	}, nil
}

// RosterDirectory returns the configured roster directory
func (v *PathValidator) RosterDirectory() string {
	return v.rosterDirectory
}

// OutputDirectory returns the directory rendered schedules are written to
func (v *PathValidator) OutputDirectory() string {
	return v.outputDirectory
}

// ResolveRoster turns a user supplied path into an absolute path inside the
// roster directory. Relative paths are taken relative to that directory.
func (v *PathValidator) ResolveRoster(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.rosterDirectory, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := within(abs, v.rosterDirectory)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return abs, nil
}

// ValidateDirectory checks that dir is the roster directory or below it
func (v *PathValidator) ValidateDirectory(dir string) error {
	abs, err := v.ResolveRoster(dir)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	return nil
}

// OutputPath returns where a schedule named name is written. Only the base
// name is kept so a crafted name cannot escape the output directory.
func (v *PathValidator) OutputPath(name, ext string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\x00", ""))
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return "", fmt.Errorf("invalid output name: %q", name)
	}
	if !strings.EqualFold(filepath.Ext(base), ext) {
		base += ext
	}

	abs, err := filepath.Abs(filepath.Join(v.outputDirectory, base))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// within reports whether path lies in dir, following symlinks on both sides
// when they exist. A missing dir allows any path.
func within(path, dir string) (bool, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return true, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(path)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p string) bool {
		for _, d := range []string{cleanDir, realDir} {
			if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	return inside(cleanPath) && inside(realPath), nil
}
