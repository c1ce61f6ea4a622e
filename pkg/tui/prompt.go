package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptKind names what a single line input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptName
	promptDuration
	promptPassage
	promptFilter
	promptAnchor
	promptImport
	promptExport
	promptDescription
	promptFolderName
	promptFieldAttr
)

// linePrompt is a one-line input shown above the status bar.
type linePrompt struct {
	kind  promptKind
	label string
	input textinput.Model
}

func newLinePrompt() linePrompt {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 48
	ti.Cursor.SetMode(cursor.CursorStatic)
	return linePrompt{input: ti}
}

func (p *linePrompt) Open(kind promptKind, label, value, placeholder string) tea.Cmd {
	p.kind = kind
	p.label = label
	p.input.SetValue(value)
	p.input.Placeholder = placeholder
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *linePrompt) Close() {
	p.kind = promptNone
	p.input.Blur()
}

func (p *linePrompt) Active() bool { return p.kind != promptNone }

func (p *linePrompt) Value() string { return p.input.Value() }

// Update feeds a key to the input. It reports submitted on enter and
// cancelled on esc; in both cases the prompt stays open until Close.
func (p *linePrompt) Update(msg tea.KeyMsg) (cmd tea.Cmd, submitted, cancelled bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return nil, true, false
	case tea.KeyEsc:
		return nil, false, true
	}
	p.input, cmd = p.input.Update(msg)
	return cmd, false, false
}

func (p *linePrompt) View(width int) string {
	if !p.Active() {
		return ""
	}
	label := CursorStyle.Render(p.label + ":")
	return InputStyle.Width(max(20, width-4)).Render(lipgloss.JoinHorizontal(lipgloss.Top, label, " ", p.input.View()))
}
