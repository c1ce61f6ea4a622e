package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Version is shown under the logo. The build overrides it.
var Version = "dev"

const logo = `┏━╸┏━┓╻ ╻┏━╸┏┓╻┏━┓┏┓╻╺┳╸
┃  ┃ ┃┃┏┛┣╸ ┃┗┫┣━┫┃┗┫ ┃
┗━╸┗━┛┗┛ ┗━╸╹ ╹╹ ╹╹ ╹ ╹`

func renderHeader(width int, title string) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorActive)).
		Bold(true)

	headerPadding := HeaderPaddingStyle.Width(width)

	logoLines := strings.Split(logo, "\n")
	logoRendered := lipgloss.JoinVertical(lipgloss.Right,
		logoStyle.Render(logo),
		DescriptionStyle.Render("v"+strings.TrimPrefix(Version, "v")),
	)

	if title == "" {
		return headerPadding.Render(lipgloss.NewStyle().
			Width(width - 2).
			Align(lipgloss.Right).
			Render(logoRendered))
	}

	// Title sits on the version line.
	titleRendered := logoStyle.Render(strings.Repeat("\n", len(logoLines)) + title)
	gap := max(1, width-2-lipgloss.Width(title)-lipgloss.Width(logoLines[0]))
	return headerPadding.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		strings.Repeat(" ", gap),
		logoRendered,
	))
}
