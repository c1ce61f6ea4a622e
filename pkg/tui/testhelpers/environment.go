package testhelpers

import (
	"os"
	"testing"

	"github.com/covenant/covenant-terminal/pkg/files"
)

// TestEnvironment is a temporary project directory the test runs in.
type TestEnvironment struct {
	t          testing.TB
	TempDir    string
	OriginalWd string
}

// NewTestEnvironment switches into a fresh temporary directory and
// switches back when the test ends.
func NewTestEnvironment(t testing.TB) *TestEnvironment {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(originalWd) })

	return &TestEnvironment{t: t, TempDir: tmpDir, OriginalWd: originalWd}
}

// InitProjectStructure creates the .covenant directory with default
// settings.
func (e *TestEnvironment) InitProjectStructure() {
	e.t.Helper()
	if err := files.InitProjectStructure(); err != nil {
		e.t.Fatalf("Failed to init project: %v", err)
	}
}

// ReadFile returns a file under the temp dir, failing the test if it is
// missing.
func (e *TestEnvironment) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		e.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
