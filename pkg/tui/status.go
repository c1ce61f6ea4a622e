package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

// StatusFeedback represents a temporary status message
type StatusFeedback struct {
	Message   string
	Icon      string
	ShowUntil time.Time
	Type      StatusType
}

// StatusType represents the type of status message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

// StatusManager manages temporary status messages
type StatusManager struct {
	CurrentStatus   *StatusFeedback
	DefaultDuration time.Duration
	now             func() time.Time
}

// NewStatusManager creates a status manager whose messages last as long
// as lifecycle notices.
func NewStatusManager() *StatusManager {
	return &StatusManager{
		DefaultDuration: lifecycle.NoticeTTL,
		now:             time.Now,
	}
}

// ShowFeedback displays a status message with an icon
func (sm *StatusManager) ShowFeedback(icon, message string, statusType StatusType) tea.Cmd {
	sm.CurrentStatus = &StatusFeedback{
		Message:   message,
		Icon:      icon,
		ShowUntil: sm.now().Add(sm.DefaultDuration),
		Type:      statusType,
	}
	return clearStatusAfter(sm.DefaultDuration)
}

func (sm *StatusManager) ShowSuccess(message string) tea.Cmd {
	return sm.ShowFeedback("✓", message, StatusTypeSuccess)
}

func (sm *StatusManager) ShowWarning(message string) tea.Cmd {
	return sm.ShowFeedback("⚠", message, StatusTypeWarning)
}

func (sm *StatusManager) ShowError(message string) tea.Cmd {
	return sm.ShowFeedback("×", message, StatusTypeError)
}

func (sm *StatusManager) ShowInfo(message string) tea.Cmd {
	return sm.ShowFeedback("ℹ", message, StatusTypeInfo)
}

// Clear removes the current status
func (sm *StatusManager) Clear() {
	sm.CurrentStatus = nil
}

// IsActive checks if a status is currently showing
func (sm *StatusManager) IsActive() bool {
	if sm.CurrentStatus == nil {
		return false
	}
	if sm.now().After(sm.CurrentStatus.ShowUntil) {
		sm.CurrentStatus = nil
		return false
	}
	return true
}

// GetStatus returns the current status message if active
func (sm *StatusManager) GetStatus() (string, bool) {
	if sm.IsActive() {
		return fmt.Sprintf("%s %s", sm.CurrentStatus.Icon, sm.CurrentStatus.Message), true
	}
	return "", false
}

// ClearStatusMsg is sent when a status or notice has expired and the view
// should be redrawn.
type ClearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// alertLine renders the builder's status line: an inline alert wins over a
// notice, which wins over transient feedback.
func alertLine(alert *lifecycle.Error, notice string, sm *StatusManager) string {
	if alert != nil {
		return ErrorStyle.Render("× " + alert.Message())
	}
	if notice != "" {
		return SuccessStyle.Render("✓ " + notice)
	}
	if msg, ok := sm.GetStatus(); ok {
		switch sm.CurrentStatus.Type {
		case StatusTypeError:
			return ErrorStyle.Render(msg)
		case StatusTypeWarning:
			return WarningStyle.Render(msg)
		case StatusTypeSuccess:
			return SuccessStyle.Render(msg)
		}
		return DescriptionStyle.Render(msg)
	}
	return ""
}
