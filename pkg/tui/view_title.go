package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ViewTitle is the badge naming the active builder.
type ViewTitle struct {
	text string
}

func NewViewTitle(text string) *ViewTitle {
	return &ViewTitle{text: text}
}

// View renders the title white on black.
func (v *ViewTitle) View() string {
	if v.text == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Background(lipgloss.Color("0")).
		Bold(true).
		Padding(0, 1).
		Render(v.text)
}
