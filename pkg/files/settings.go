package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/covenant/covenant-terminal/pkg/models"
	"gopkg.in/yaml.v3"
)

// ReadSettings loads .covenant/settings.yaml over the defaults. ${VAR}
// references are expanded from the environment before parsing. A missing
// file yields the defaults.
func ReadSettings() (*models.Settings, error) {
	return LoadSettings(filepath.Join(CovenantDir, SettingsFile))
}

func LoadSettings(path string) (*models.Settings, error) {
	settings := models.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return settings, nil
}

// WriteSettings saves settings, or the defaults when settings is nil.
func WriteSettings(settings *models.Settings) error {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.MkdirAll(CovenantDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", CovenantDir, err)
	}

	path := filepath.Join(CovenantDir, SettingsFile)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}
