package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

var _ lifecycle.Signal = (*FlagStore)(nil)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(oldWd) })
	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}
	return tempDir
}

func TestInitProjectStructure(t *testing.T) {
	chdirTemp(t)

	if err := InitProjectStructure(); err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	expected := []string{
		CovenantDir,
		filepath.Join(CovenantDir, ExportsDir),
		filepath.Join(CovenantDir, SettingsFile),
	}
	for _, path := range expected {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Expected %s to exist", path)
		}
	}

	// A second run keeps edited settings.
	settings, _ := ReadSettings()
	settings.Builder.PageSize = 7
	if err := WriteSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := InitProjectStructure(); err != nil {
		t.Fatal(err)
	}
	again, err := ReadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if again.Builder.PageSize != 7 {
		t.Errorf("page size = %d after re-init, want 7", again.Builder.PageSize)
	}
}

func TestReadSettings_Defaults(t *testing.T) {
	chdirTemp(t)

	settings, err := ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}
	if settings.Builder.PageSize != 31 {
		t.Errorf("page size = %d, want 31", settings.Builder.PageSize)
	}
	if settings.API.Timeout != 15*time.Second {
		t.Errorf("timeout = %v", settings.API.Timeout)
	}
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, got string, timeout time.Duration, pageSize int)
	}{
		{
			name: "expands environment",
			content: `api:
  base_url: ${COVENANT_TEST_URL}
  timeout: 3s
`,
			check: func(t *testing.T, got string, timeout time.Duration, pageSize int) {
				if got != "https://church.example.org/api" {
					t.Errorf("base_url = %q", got)
				}
				if timeout != 3*time.Second {
					t.Errorf("timeout = %v", timeout)
				}
				if pageSize != 31 {
					t.Errorf("unset page size = %d, want default", pageSize)
				}
			},
		},
		{
			name:    "rejects bad url",
			content: "api:\n  base_url: not a url\n",
			wantErr: true,
		},
		{
			name:    "rejects page size",
			content: "builder:\n  page_size: 0\n",
			wantErr: true,
		},
		{
			name:    "rejects log level",
			content: "log:\n  level: loud\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "api: [",
			wantErr: true,
		},
	}

	t.Setenv("COVENANT_TEST_URL", "https://church.example.org/api")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), SettingsFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			settings, err := LoadSettings(path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSettings failed: %v", err)
			}
			tt.check(t, settings.API.BaseURL, settings.API.Timeout, settings.Builder.PageSize)
		})
	}
}

func TestExports(t *testing.T) {
	chdirTemp(t)

	path, err := WriteExport("summer", []byte(`{"name":"Summer"}`))
	if err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	if path != filepath.Join(CovenantDir, ExportsDir, "summer.json") {
		t.Errorf("path = %q", path)
	}

	data, err := ReadExport("summer.json")
	if err != nil {
		t.Fatalf("ReadExport failed: %v", err)
	}
	if string(data) != `{"name":"Summer"}` {
		t.Errorf("data = %s", data)
	}

	list, err := ListExports()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0] != "summer.json" {
		t.Errorf("ListExports() = %v", list)
	}

	outside := filepath.Join(t.TempDir(), "plan.json")
	if ExportPath(outside) != outside {
		t.Errorf("ExportPath(%q) rewrote an explicit path", outside)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		kind, title, want string
	}{
		{"plan", "Summer Reading 2026", "plan-summer-reading-2026.json"},
		{"form", "  Visitor card!  ", "form-visitor-card.json"},
		{"plan", "", "plan-untitled.json"},
	}
	for _, tt := range tests {
		if got := ExportName(tt.kind, tt.title); got != tt.want {
			t.Errorf("ExportName(%q, %q) = %q, want %q", tt.kind, tt.title, got, tt.want)
		}
	}
}

func TestFlagStore(t *testing.T) {
	store := NewFlagStore(filepath.Join(t.TempDir(), "nested", StateFile))

	if got, err := store.Unsaved(); err != nil || got {
		t.Fatalf("fresh store Unsaved() = %v, %v", got, err)
	}
	if err := store.SetUnsaved(true); err != nil {
		t.Fatalf("SetUnsaved failed: %v", err)
	}

	reopened := NewFlagStore(store.Path())
	if got, _ := reopened.Get(UnsavedKey); !got {
		t.Error("flag not persisted")
	}

	if err := reopened.SetUnsaved(false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("cleared flag file = %q", data)
	}
}
