package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/covenant/covenant-terminal/pkg/dragdrop"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/projection"
)

const (
	libraryPaneWidth = 32
	cellHeight       = 4 // passage lines below the day header
)

func (m *PlanBuilderModel) View() string {
	width := m.width
	if width == 0 {
		width = 120
	}

	var sections []string
	sections = append(sections, m.renderHeader(width))

	gridWidth := max(daysPerRow*12, width-libraryPaneWidth-2)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderGrid(gridWidth),
		m.renderLibrary(libraryPaneWidth),
	)
	sections = append(sections, body)

	if m.confirm.Active() {
		sections = append(sections, m.confirm.ViewWithWidth(width))
	}
	if m.prompt.Active() {
		sections = append(sections, m.prompt.View(width))
	}
	if line := alertLine(m.ctl.Alert(), m.ctl.Notice(), m.status); line != "" {
		sections = append(sections, " "+line)
	}
	sections = append(sections, " "+m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *PlanBuilderModel) renderHeader(width int) string {
	doc := m.plan.Document()
	name := doc.Name
	if strings.TrimSpace(name) == "" {
		name = PlaceholderStyle.Render("Untitled plan")
	}
	phase := m.ctl.Phase()
	badge := PhaseBadgeStyle(phase).Render(phase.String())
	if phase.Busy() {
		badge = m.spinner.View() + " " + badge
	}

	visibility := "hidden"
	if doc.Visible {
		visibility = "visible"
	}
	meta := DescriptionStyle.Render(fmt.Sprintf("%d days • %s", doc.DurationDays, visibility))

	save := HelpStyle.Render("[save]")
	if projection.SaveButtonEnabled(projection.SaveState{Phase: phase, Name: doc.Name}) {
		save = CursorStyle.Render("[ctrl+s save]")
	}

	title := NewViewTitle("Reading Plan Builder")
	left := lipgloss.JoinHorizontal(lipgloss.Center, title.View(), "  ", HeaderStyle.Render(name), "  ", badge, "  ", meta)
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(save)-2)
	return HeaderPaddingStyle.Render(left + strings.Repeat(" ", gap) + save)
}

func (m *PlanBuilderModel) renderGrid(width int) string {
	duration := m.plan.DurationDays()
	anchor, overlay := m.days.Overlay()
	cells := m.cache.Page(m.plan, m.days.Page(), m.days.PageSize(), anchor, overlay)

	cellWidth := max(10, width/daysPerRow-2)
	var rows []string
	for start := 0; start < len(cells); start += daysPerRow {
		end := min(start+daysPerRow, len(cells))
		var row []string
		for _, c := range cells[start:end] {
			row = append(row, m.renderCell(c, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	pager := m.renderPager(duration)
	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{pager}, rows...)...)
	return GetActiveBorderStyle(m.pane == paneGrid).Width(width).Render(content)
}

func (m *PlanBuilderModel) renderPager(duration int) string {
	total := m.days.TotalPages(duration)
	var parts []string
	for _, b := range projection.PaginationWindow(m.days.Page(), total) {
		switch {
		case b.Ellipsis:
			parts = append(parts, EmptyInactiveStyle.Render(b.Label))
		case b.Current:
			parts = append(parts, CurrentPageStyle.Render(" "+b.Label+" "))
		default:
			parts = append(parts, NormalStyle.Render(" "+b.Label+" "))
		}
	}
	days := DescriptionStyle.Render(fmt.Sprintf("days %d-%d", m.days.FirstDay(), m.days.LastDay(duration)))
	return GetActiveHeaderStyle(m.pane == paneGrid).Render("Schedule") + "  " + strings.Join(parts, " ") + "  " + days
}

func (m *PlanBuilderModel) renderCell(c projection.DayCell, width int) string {
	selected := c.Day == m.days.Selected()

	lines := []string{DayNumberStyle.Render(fmt.Sprintf("Day %d", c.Day))}
	if c.Label != "" {
		lines = append(lines, DateLabelStyle.Render(truncate.StringWithTail(c.Label, uint(width), "…")))
	}
	head := len(lines)

	for i, ps := range c.Passages {
		if i == cellHeight-1 && len(c.Passages) > cellHeight {
			lines = append(lines, DescriptionStyle.Render(fmt.Sprintf("+%d more", len(c.Passages)-i)))
			break
		}
		text := truncate.StringWithTail(passageLabel(ps), uint(width-2), "…")
		switch {
		case m.isDragged(ps.ID):
			lines = append(lines, PlaceholderStyle.Render("▸ "+text))
		case selected && i == m.days.Item():
			lines = append(lines, SelectedStyle.Render("▸ "+text))
		default:
			lines = append(lines, NormalStyle.Render("  "+text))
		}
	}
	for len(lines) < cellHeight+head {
		lines = append(lines, "")
	}

	style := InactiveBorderStyle
	switch {
	case m.hoveringDay(c.Day):
		style = DropBorderStyle
	case selected:
		style = ActiveBorderStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *PlanBuilderModel) isDragged(id string) bool {
	p, ok := m.drag.Active()
	return ok && p.ItemID == id
}

func (m *PlanBuilderModel) hoveringDay(day int) bool {
	t, ok := m.drag.Hovered()
	return ok && t.Kind == dragdrop.TargetDay && t.Day == day && m.drag.Highlighted(t)
}

func (m *PlanBuilderModel) renderLibrary(width int) string {
	items := m.libraryItems()
	active := m.pane == paneLibrary

	var b strings.Builder
	b.WriteString(GetActiveHeaderStyle(active).Render(fmt.Sprintf("Library (%d)", m.passages.Len())))
	b.WriteString("\n")
	if chips := projection.ActiveFilterLabels(m.filter.Filters()); len(chips) > 0 {
		for _, c := range chips {
			b.WriteString(FilterChipStyle.Render(c))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	if len(items) == 0 {
		b.WriteString(EmptyInactiveStyle.Render("No passages. Press a to add one."))
	}
	for i, ps := range items {
		text := truncate.StringWithTail(passageLabel(ps), uint(width-4), "…")
		switch {
		case m.isDragged(ps.ID):
			b.WriteString(PlaceholderStyle.Render("▸ " + text))
		case active && i == m.libCursor:
			b.WriteString(SelectedStyle.Render("▸ " + text))
		default:
			b.WriteString(NormalStyle.Render("  " + text))
		}
		b.WriteString("\n")
	}

	style := GetActiveBorderStyle(active)
	if t, ok := m.drag.Hovered(); ok && t.Kind == dragdrop.TargetLibrary && m.drag.Highlighted(t) {
		style = DropBorderStyle
	}
	return style.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *PlanBuilderModel) renderHelp() string {
	k := m.keys
	switch {
	case m.confirm.Active():
		return ""
	case m.prompt.Active():
		return helpLine(k.Drop, k.Cancel)
	case m.drag.Dragging():
		return helpLine(k.Left, k.Right, k.Focus, k.Drop, k.Cancel)
	case m.ctl.Phase() == lifecycle.Loading:
		return HelpStyle.Render("Loading plan…")
	}
	return helpLine(k.Grab, k.Focus, k.PrevPage, k.NextPage, k.AddPassage, k.Rename, k.Duration, k.Overlay, k.Save, k.Yank, k.Leave)
}

// passageLabel is the text used for a passage in lists and previews.
func passageLabel(p models.Passage) string {
	if p.Reference != "" {
		return p.Reference
	}
	return fmt.Sprintf("%s %d", p.Book, p.ChapterStart)
}
