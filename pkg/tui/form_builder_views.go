package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/covenant/covenant-terminal/pkg/dragdrop"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/projection"
)

const (
	palettePaneWidth   = 28
	inspectorPaneWidth = 40
)

func (m *FormBuilderModel) View() string {
	width := m.width
	if width == 0 {
		width = 120
	}

	side := ""
	sideWidth := 0
	switch {
	case m.canvas.InspectorOpen():
		sideWidth = inspectorPaneWidth
		side = m.renderInspector(sideWidth)
	case m.showPreview:
		sideWidth = m.preview.Width + 2
		side = m.renderPreview()
	}
	canvasWidth := max(30, width-palettePaneWidth-sideWidth-6)

	panes := []string{m.renderPalette(palettePaneWidth), m.renderCanvas(canvasWidth)}
	if side != "" {
		panes = append(panes, side)
	}

	sections := []string{
		m.renderHeader(width),
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
	}
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

func (m *FormBuilderModel) renderHeader(width int) string {
	doc := m.form.Document()
	title := doc.Title
	if strings.TrimSpace(title) == "" {
		title = PlaceholderStyle.Render("Untitled form")
	}
	phase := m.ctl.Phase()
	badge := PhaseBadgeStyle(phase).Render(phase.String())
	if phase.Busy() {
		badge = m.spinner.View() + " " + badge
	}

	folder := WarningStyle.Render("no folder")
	if doc.Folder != "" {
		folder = DescriptionStyle.Render("in " + m.picker.Name(doc.Folder))
	}
	visibility := "hidden"
	if doc.Visible {
		visibility = "visible"
	}
	meta := DescriptionStyle.Render(fmt.Sprintf("%d fields • %s", len(doc.Fields), visibility))

	save := HelpStyle.Render("[save]")
	if projection.SaveButtonEnabled(projection.SaveState{Phase: phase, Name: doc.Title, Folder: doc.Folder, NeedsFolder: true}) {
		save = CursorStyle.Render("[ctrl+s save]")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center,
		NewViewTitle("Form Builder").View(), "  ", HeaderStyle.Render(title), "  ", badge, "  ", folder, "  ", meta)
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(save)-2)
	return HeaderPaddingStyle.Render(left + strings.Repeat(" ", gap) + save)
}

func (m *FormBuilderModel) renderPalette(width int) string {
	active := m.pane == panePalette
	var b strings.Builder
	b.WriteString(GetActiveHeaderStyle(active).Render("Fields"))
	b.WriteString("\n")
	for i, t := range m.catalog.Templates() {
		name := truncate.StringWithTail(t.Name, uint(width-4), "…")
		dragged := false
		if p, ok := m.drag.Active(); ok && p.Kind == dragdrop.KindFieldTemplate && p.Template == t.Type {
			dragged = true
		}
		switch {
		case dragged:
			b.WriteString(PlaceholderStyle.Render("▸ " + name))
		case active && i == m.paletteRow:
			b.WriteString(SelectedStyle.Render("▸ " + name))
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render("  " + truncate.StringWithTail(t.Description, uint(width-4), "…")))
		default:
			b.WriteString(NormalStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}
	return GetActiveBorderStyle(active).Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *FormBuilderModel) renderCanvas(width int) string {
	active := m.pane == paneCanvas
	fields := m.form.Fields()

	var b strings.Builder
	b.WriteString(GetActiveHeaderStyle(active).Render("Canvas"))
	b.WriteString("\n")
	if len(fields) == 0 {
		b.WriteString(EmptyInactiveStyle.Render("Drop a field here, or press a in the palette."))
	}

	hover, hovering := m.drag.Hovered()
	for i, fl := range fields {
		label := fl.Label
		if label == "" {
			label = PlaceholderStyle.Render("(no label)")
		}
		if fl.Required {
			label += ErrorStyle.Render(" *")
		}
		line := fmt.Sprintf("%-9s %s", fl.Type, label)
		line = truncate.StringWithTail(line, uint(max(8, width-4)), "…")

		switch {
		case m.isDraggedField(fl.ID):
			b.WriteString(PlaceholderStyle.Render("▸ " + line))
		case i == m.canvas.Row() && (active || m.canvas.InspectorOpen()):
			b.WriteString(SelectedStyle.Render("▸ " + line))
		default:
			b.WriteString(NormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
		if hovering && hover.Kind == dragdrop.TargetFieldRow && hover.Index == i && m.drag.Highlighted(hover) {
			b.WriteString(CursorStyle.Render("  ── drop here ──"))
			b.WriteString("\n")
		}
	}

	style := GetActiveBorderStyle(active)
	if hovering && m.drag.Highlighted(hover) {
		style = DropBorderStyle
	}
	return style.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *FormBuilderModel) isDraggedField(id string) bool {
	p, ok := m.drag.Active()
	return ok && p.Kind == dragdrop.KindField && p.ItemID == id
}

func (m *FormBuilderModel) renderInspector(width int) string {
	active := m.pane == paneInspector
	fl, ok := m.focusedField()
	var b strings.Builder
	b.WriteString(GetActiveHeaderStyle(active).Render("Inspector"))
	b.WriteString("\n")
	if !ok {
		b.WriteString(EmptyInactiveStyle.Render("No field selected"))
		return GetActiveBorderStyle(active).Width(width).Render(b.String())
	}
	for i, attr := range inspectorAttrsFor(fl) {
		value := fieldAttrValue(fl, attr)
		if value == "" {
			value = EmptyInactiveStyle.Render("-")
		}
		line := fmt.Sprintf("%-14s %s", fieldAttrLabel(attr), value)
		line = truncate.StringWithTail(line, uint(width-4), "…")
		if active && i == m.attrRow {
			b.WriteString(SelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(NormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return GetActiveBorderStyle(active).Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *FormBuilderModel) renderPreview() string {
	head := GetActiveHeaderStyle(false).Render("Preview")
	return InactiveBorderStyle.Render(head + "\n" + m.preview.View())
}

func (m *FormBuilderModel) renderHelp() string {
	k := m.keys
	switch {
	case m.confirm.Active():
		return ""
	case m.prompt.Active():
		return helpLine(k.Drop, k.Cancel)
	case m.drag.Dragging():
		return helpLine(k.Up, k.Down, k.Focus, k.Drop, k.Cancel)
	case m.ctl.Phase() == lifecycle.Loading:
		return HelpStyle.Render("Loading form…")
	case m.pane == paneInspector:
		return helpLine(k.Up, k.Down, k.Drop, k.Cancel)
	case m.pane == panePalette:
		return helpLine(k.Grab, k.Add, k.Focus, k.Rename, k.Folder, k.NewFolder, k.Save, k.Leave)
	}
	return helpLine(k.Grab, k.Inspect, k.Remove, k.Focus, k.Rename, k.Description, k.Folder, k.Preview, k.Save, k.Yank, k.Leave)
}

// renderFormPreview draws the form roughly as a respondent would see it.
func renderFormPreview(doc models.FormSchema, folders *lifecycle.FolderPicker, width int) string {
	wrap := func(s string) string { return wordwrap.String(s, max(10, width)) }

	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = "Untitled form"
	}
	b.WriteString(HeaderStyle.Render(wrap(title)))
	b.WriteString("\n")
	if doc.Folder != "" {
		b.WriteString(DescriptionStyle.Render(folders.Name(doc.Folder)))
		b.WriteString("\n")
	}
	if doc.Description != "" {
		b.WriteString(wrap(doc.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, fl := range doc.Fields {
		label := fl.Label
		if fl.Required {
			label += " *"
		}
		b.WriteString(NormalStyle.Bold(true).Render(wrap(label)))
		b.WriteString("\n")
		switch {
		case fl.Type == models.FieldCheckbox:
			b.WriteString("[ ] " + fl.Label)
		case fl.Type.HasOptions():
			mark := "( )"
			if fl.Type == models.FieldSelect {
				mark = " - "
			}
			for i, o := range fl.Options {
				if i > 0 {
					b.WriteString("\n")
				}
				b.WriteString(mark + " " + o.Label)
			}
		case fl.Type == models.FieldTextarea:
			b.WriteString(InputStyle.Width(max(10, width-2)).Height(3).Render(PlaceholderStyle.Render(fl.Placeholder)))
		default:
			b.WriteString(InputStyle.Width(max(10, width-2)).Render(PlaceholderStyle.Render(fl.Placeholder)))
		}
		b.WriteString("\n")
		if fl.HelpText != "" {
			b.WriteString(DescriptionStyle.Render(wrap(fl.HelpText)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// inspectorAttrsFor drops options for fields without choices.
func inspectorAttrsFor(fl models.Field) []string {
	if fl.Type.HasOptions() {
		return inspectorAttrs
	}
	out := make([]string, 0, len(inspectorAttrs)-1)
	for _, a := range inspectorAttrs {
		if a != "options" {
			out = append(out, a)
		}
	}
	return out
}

func fieldAttrLabel(attr string) string {
	switch attr {
	case "helpText":
		return "Help text"
	case "validation.min":
		return "Min"
	case "validation.max":
		return "Max"
	case "validation.minLength":
		return "Min length"
	case "validation.maxLength":
		return "Max length"
	case "validation.pattern":
		return "Pattern"
	}
	return strings.ToUpper(attr[:1]) + attr[1:]
}

func fieldAttrHint(attr string) string {
	switch attr {
	case "type":
		return "text, email, select…"
	case "width":
		return "full, half or third"
	case "options":
		return "comma separated"
	}
	return ""
}

// fieldAttrValue renders an attribute for display and as the prompt's
// starting text.
func fieldAttrValue(fl models.Field, attr string) string {
	v := fl.Validation
	if v == nil {
		v = &models.FieldValidation{}
	}
	switch attr {
	case "label":
		return fl.Label
	case "type":
		return string(fl.Type)
	case "placeholder":
		return fl.Placeholder
	case "helpText":
		return fl.HelpText
	case "width":
		return fl.Width
	case "required":
		return yesNo(fl.Required)
	case "options":
		labels := make([]string, len(fl.Options))
		for i, o := range fl.Options {
			labels[i] = o.Label
		}
		return strings.Join(labels, ", ")
	case "validation.min":
		return formatFloat(v.Min)
	case "validation.max":
		return formatFloat(v.Max)
	case "validation.minLength":
		return formatInt(v.MinLength)
	case "validation.maxLength":
		return formatInt(v.MaxLength)
	case "validation.pattern":
		return v.Pattern
	}
	return ""
}

// fieldAttrInput converts prompt text to the value SetProperty expects.
func fieldAttrInput(attr, value string) any {
	if attr == "options" {
		return strings.Split(value, ",")
	}
	return value
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
