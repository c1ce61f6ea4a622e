package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	CovenantDir  = ".covenant"
	ExportsDir   = "exports"
	SettingsFile = "settings.yaml"
	StateFile    = "state.yaml"
	ExportExt    = ".json"
)

func InitProjectStructure() error {
	dirs := []string{
		CovenantDir,
		filepath.Join(CovenantDir, ExportsDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	settingsPath := filepath.Join(CovenantDir, SettingsFile)
	if _, err := os.Stat(settingsPath); errors.Is(err, os.ErrNotExist) {
		if err := WriteSettings(nil); err != nil {
			return err
		}
	}

	return nil
}

// ExportPath resolves an export name. Bare names land in the exports
// directory with a .json extension; anything with a separator is used
// as given.
func ExportPath(name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return name
	}
	if filepath.Ext(name) == "" {
		name += ExportExt
	}
	return filepath.Join(CovenantDir, ExportsDir, name)
}

func ReadExport(name string) ([]byte, error) {
	path := ExportPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}
	return data, nil
}

// WriteExport stores data under name and returns the path written.
func WriteExport(name string, data []byte) (string, error) {
	path := ExportPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return path, nil
}

func ListExports() ([]string, error) {
	exportsPath := filepath.Join(CovenantDir, ExportsDir)

	entries, err := os.ReadDir(exportsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	var exports []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ExportExt) {
			exports = append(exports, entry.Name())
		}
	}
	sort.Strings(exports)

	return exports, nil
}

// ExportName suggests a file name for a document title.
func ExportName(kind, title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	return kind + "-" + slug + ExportExt
}
