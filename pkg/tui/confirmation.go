package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

// Prompt is a yes/no question put to the user before the document is
// replaced or dropped.
type Prompt struct {
	Title   string
	Message string
	// Details lists what answering yes affects.
	Details     []string
	Destructive bool
	YesLabel    string
	NoLabel     string
	// Dialog draws a bordered box instead of a single line.
	Dialog bool
}

// conflictPrompt asks whether to override the saved document that
// already uses the name.
func conflictPrompt(kind, name, existingID string, details ...string) Prompt {
	title, verb := "Name already in use", "named"
	if kind == "form" {
		title, verb = "Title already in use", "titled"
	}
	return Prompt{
		Title:       title,
		Message:     fmt.Sprintf("A %s %s %q already exists.", kind, verb, name),
		Details:     append([]string{fmt.Sprintf("Override replaces %s %s", kind, existingID)}, details...),
		Destructive: true,
		YesLabel:    "Override",
		NoLabel:     "Keep editing",
		Dialog:      true,
	}
}

// discardPrompt asks before the pending action drops the document.
func discardPrompt(a lifecycle.Action, details ...string) Prompt {
	return Prompt{
		Message:     a.Prompt(),
		Details:     details,
		Destructive: true,
		YesLabel:    "Yes",
		NoLabel:     "No",
	}
}

// ConfirmationModel shows one Prompt and routes y/n to its callbacks.
type ConfirmationModel struct {
	active    bool
	prompt    Prompt
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
	viewWidth int
}

func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the prompt. Either callback may be nil.
func (m *ConfirmationModel) Show(p Prompt, onConfirm, onCancel func() tea.Cmd) {
	if p.YesLabel == "" {
		p.YesLabel = "Yes"
	}
	if p.NoLabel == "" {
		p.NoLabel = "No"
	}
	m.active = true
	m.prompt = p
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

func (m *ConfirmationModel) Active() bool {
	return m.active
}

func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	var next func() tea.Cmd
	switch msg.String() {
	case "y", "Y":
		next = m.onConfirm
	case "n", "N", "esc":
		next = m.onCancel
	default:
		return nil
	}
	m.active = false
	if next == nil {
		return nil
	}
	return next()
}

func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}
	if m.prompt.Dialog {
		return m.renderDialog()
	}
	return m.renderInline()
}

// ViewWithWidth renders the prompt centered in width columns.
func (m *ConfirmationModel) ViewWithWidth(width int) string {
	m.viewWidth = width
	return m.View()
}

func (m *ConfirmationModel) renderInline() string {
	message := m.prompt.Message
	if len(m.prompt.Details) > 0 {
		message += " " + DescriptionStyle.Render("("+strings.Join(m.prompt.Details, ", ")+")")
	}
	message += " " + formatConfirmOptions(m.prompt.Destructive)

	if m.viewWidth > 0 && lipgloss.Width(message) < m.viewWidth {
		return lipgloss.NewStyle().Width(m.viewWidth).Align(lipgloss.Center).Render(message)
	}
	return message
}

func (m *ConfirmationModel) renderDialog() string {
	width := 60
	if m.viewWidth > 0 {
		width = min(width, m.viewWidth-4)
	}
	center := lipgloss.NewStyle().Width(width - 4).Align(lipgloss.Center)

	var b strings.Builder
	if m.prompt.Title != "" {
		b.WriteString(center.Render(WarningStyle.Bold(true).Render(m.prompt.Title)))
		b.WriteString("\n\n")
	}
	b.WriteString(center.Render(m.prompt.Message))
	b.WriteString("\n")
	if len(m.prompt.Details) > 0 {
		b.WriteString("\n")
		for _, d := range m.prompt.Details {
			b.WriteString(DescriptionStyle.Render("  • " + d))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	labels := fmt.Sprintf("(%s / %s)", strings.ToLower(m.prompt.YesLabel), strings.ToLower(m.prompt.NoLabel))
	b.WriteString(center.Render(formatConfirmOptions(m.prompt.Destructive) + "  " + labels))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("170")).
		Width(width).
		Render(b.String())
}

// formatConfirmOptions renders the key hints. Destructive prompts color
// the confirming key red.
func formatConfirmOptions(destructive bool) string {
	yes, no := SuccessStyle, ErrorStyle
	if destructive {
		yes, no = ErrorStyle, SuccessStyle
	}
	return fmt.Sprintf("[%s]es / [%s]o", yes.Bold(true).Render("y"), no.Bold(true).Render("n"))
}
