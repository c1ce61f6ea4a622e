package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Settings represents the application configuration
type Settings struct {
	API     APISettings     `yaml:"api"`
	Builder BuilderSettings `yaml:"builder"`
	Log     LogSettings     `yaml:"log"`
	UI      UISettings      `yaml:"ui"`
}

// Validate validates the whole settings tree.
func (s *Settings) Validate() error {
	if err := s.API.Validate(); err != nil {
		return err
	}
	if err := s.Builder.Validate(); err != nil {
		return err
	}
	return s.Log.Validate()
}

// APISettings points the builders at the remote store
type APISettings struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the API settings.
func (s *APISettings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.BaseURL, validation.Required, is.URL),
		validation.Field(&s.Timeout, validation.Min(time.Duration(0))),
	)
}

// BuilderSettings controls the plan and form builders
type BuilderSettings struct {
	PageSize    int  `yaml:"page_size"`
	DateOverlay bool `yaml:"date_overlay"`
}

// Validate validates the builder settings.
func (s *BuilderSettings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.PageSize, validation.Required, validation.Min(1), validation.Max(366)),
	)
}

// LogSettings controls where diagnostics go. The TUI owns stdout, so logs
// are written to a file.
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Validate validates the log settings.
func (s *LogSettings) Validate() error {
	s.Level = strings.ToLower(s.Level)
	return validation.ValidateStruct(s,
		validation.Field(&s.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// UISettings controls UI preferences
type UISettings struct {
	ShowPreview bool `yaml:"show_preview"`
}

// DefaultPageSize is the number of day cells per plan page.
const DefaultPageSize = 31

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		API: APISettings{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 15 * time.Second,
		},
		Builder: BuilderSettings{
			PageSize:    DefaultPageSize,
			DateOverlay: false,
		},
		Log: LogSettings{
			Level: "info",
			File:  "covenant.log",
		},
		UI: UISettings{
			ShowPreview: true,
		},
	}
}
