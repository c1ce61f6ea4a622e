package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateDocumentID validates a plan or form id passed on the command line
func ValidateDocumentID(id string) error {
	err := validation.Validate(id,
		validation.Required.Error("document id cannot be empty"),
		validation.Length(1, 128),
		validation.Match(documentIDPattern).Error("document id may only contain letters, digits, '-' and '_'"),
	)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", id, err)
	}
	return nil
}

// ValidateFolderName validates a folder name
func ValidateFolderName(name string) error {
	name = strings.TrimSpace(name)
	return validation.Validate(name,
		validation.Required.Error("folder name cannot be empty"),
		validation.RuneLength(1, 100),
	)
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	if slices.Contains(formats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateDocumentKind validates the kind argument of export and import
func ValidateDocumentKind(kind string) error {
	switch strings.ToLower(kind) {
	case "plan", "form":
		return nil
	}
	return fmt.Errorf("invalid document kind: %s (must be: plan or form)", kind)
}
