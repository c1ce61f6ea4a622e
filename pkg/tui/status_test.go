package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

func TestStatusManagerExpires(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	sm := NewStatusManager()
	sm.now = func() time.Time { return now }

	if cmd := sm.ShowWarning("Choose a folder"); cmd == nil {
		t.Error("expected a clear timer")
	}
	msg, ok := sm.GetStatus()
	if !ok || msg != "⚠ Choose a folder" {
		t.Errorf("GetStatus() = %q, %v", msg, ok)
	}

	now = now.Add(lifecycle.NoticeTTL + time.Second)
	if sm.IsActive() {
		t.Error("status still active after its duration")
	}
	if sm.CurrentStatus != nil {
		t.Error("expired status not cleared")
	}
}

func TestAlertLinePrecedence(t *testing.T) {
	sm := NewStatusManager()
	sm.ShowInfo("New plan")
	alert := &lifecycle.Error{Kind: lifecycle.SaveFailed, Err: errors.New("boom")}

	tests := []struct {
		name   string
		alert  *lifecycle.Error
		notice string
		want   string
	}{
		{"alert wins", alert, "Saved", "Failed to save"},
		{"notice over feedback", nil, "Saved", "✓ Saved"},
		{"feedback", nil, "", "ℹ New plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alertLine(tt.alert, tt.notice, sm); !strings.Contains(got, tt.want) {
				t.Errorf("alertLine() = %q, want %q", got, tt.want)
			}
		})
	}

	sm.Clear()
	if got := alertLine(nil, "", sm); got != "" {
		t.Errorf("alertLine() = %q with nothing to show", got)
	}
}
