package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/covenant/covenant-terminal/internal/logging"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
)

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	Logger      *slog.Logger
	validated   bool
	logCloser   io.Closer
}

// NewCommandContext creates a new command context
func NewCommandContext() *CommandContext {
	return &CommandContext{
		ProjectPath: files.CovenantDir,
	}
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if _, err := os.Stat(c.ProjectPath); os.IsNotExist(err) {
		return fmt.Errorf("no %s directory found. Run 'covenant init' first", files.CovenantDir)
	}

	c.validated = true
	return nil
}

// LoadSettings reads and validates the project settings once.
func (c *CommandContext) LoadSettings() (*models.Settings, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}

	settings, err := files.LoadSettings(c.settingsPath())
	if err != nil {
		return nil, err
	}

	c.Settings = settings
	return settings, nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	settings, err := c.LoadSettings()
	if err != nil {
		settings = models.DefaultSettings()
		c.Settings = settings
	}
	return settings
}

// OpenLogger opens the project log file. Without a project directory the
// logger discards everything.
func (c *CommandContext) OpenLogger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	settings := c.LoadSettingsWithDefault()
	if _, err := os.Stat(c.ProjectPath); err != nil {
		c.Logger = logging.Discard()
		return c.Logger
	}

	logger, closer, err := logging.Open(c.ProjectPath, settings.Log)
	if err != nil {
		PrintWarning("logging disabled: %v", err)
		logger, closer = logging.Discard(), nil
	}
	c.Logger = logger
	c.logCloser = closer
	return logger
}

// Client returns a remote store client built from the settings.
func (c *CommandContext) Client() (*remote.Client, error) {
	settings, err := c.LoadSettings()
	if err != nil {
		return nil, err
	}
	return remote.New(settings.API, c.OpenLogger()), nil
}

// Close releases the log file.
func (c *CommandContext) Close() error {
	if c.logCloser == nil {
		return nil
	}
	err := c.logCloser.Close()
	c.logCloser = nil
	return err
}

func (c *CommandContext) settingsPath() string {
	return filepath.Join(c.ProjectPath, files.SettingsFile)
}
