package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/dragdrop"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/grid"
	"github.com/covenant/covenant-terminal/pkg/library"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
)

type formPane int

const (
	panePalette formPane = iota
	paneCanvas
	paneInspector
)

// inspectorAttrs are the editable field attributes, in display order.
var inspectorAttrs = []string{
	"label",
	"type",
	"placeholder",
	"helpText",
	"width",
	"required",
	"options",
	"validation.min",
	"validation.max",
	"validation.minLength",
	"validation.maxLength",
	"validation.pattern",
}

// FormBuilderConfig wires a form builder to its stores.
type FormBuilderConfig struct {
	Forms   lifecycle.Store[models.FormSchema]
	Folders lifecycle.FolderStore
	Signal  lifecycle.Signal
	// Preview opens the rendered preview next to the canvas.
	Preview bool
	Logger  *slog.Logger
}

// FormBuilderModel is the form schema editor: a palette of field
// templates, an ordered canvas, and an inspector for the focused field.
type FormBuilderModel struct {
	ctl     *lifecycle.Controller[models.FormSchema]
	forms   lifecycle.Store[models.FormSchema]
	form    *document.Form
	catalog *library.Catalog
	canvas  *grid.Canvas
	picker  *lifecycle.FolderPicker
	drag    *dragdrop.Coordinator
	logger  *slog.Logger

	keys    formKeys
	status  *StatusManager
	confirm *ConfirmationModel
	prompt  linePrompt
	spinner spinner.Model
	preview viewport.Model

	pane        formPane
	paletteRow  int
	attrRow     int
	editingAttr string
	showPreview bool

	width  int
	height int
}

func NewFormBuilderModel(cfg FormBuilderConfig) *FormBuilderModel {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	form := document.NewForm()
	catalog := library.DefaultCatalog()
	ctl := lifecycle.New[models.FormSchema](form, cfg.Forms, lifecycle.FormCodec{}, logger)
	if cfg.Signal != nil {
		ctl.SetSignal(cfg.Signal)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &FormBuilderModel{
		ctl:         ctl,
		forms:       cfg.Forms,
		form:        form,
		catalog:     catalog,
		canvas:      grid.NewCanvas(),
		picker:      lifecycle.NewFolderPicker(cfg.Folders),
		drag:        dragdrop.NewFormCoordinator(form, catalog, logger),
		logger:      logger,
		keys:        defaultFormKeys(),
		status:      NewStatusManager(),
		confirm:     NewConfirmation(),
		prompt:      newLinePrompt(),
		spinner:     sp,
		preview:     viewport.New(40, 20),
		showPreview: cfg.Preview,
	}
}

// Init loads the folder list for a new form.
func (m *FormBuilderModel) Init() tea.Cmd {
	return listFolders(m.picker.Store())
}

func (m *FormBuilderModel) Controller() *lifecycle.Controller[models.FormSchema] {
	return m.ctl
}

func (m *FormBuilderModel) Form() *document.Form { return m.form }

func (m *FormBuilderModel) Folders() *lifecycle.FolderPicker { return m.picker }

func (m *FormBuilderModel) Canvas() *grid.Canvas { return m.canvas }

func (m *FormBuilderModel) Close() {
	m.ctl.Close()
}

func (m *FormBuilderModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.preview.Width = max(20, width/3)
	m.preview.Height = max(5, height-8)
}

// Open starts loading form id together with the folder list.
func (m *FormBuilderModel) Open(id string) tea.Cmd {
	t, err := m.ctl.BeginLoad(id)
	if err != nil {
		return m.status.ShowError(err.Error())
	}
	return tea.Batch(fetchForm(m.forms, m.picker.Store(), t), m.spinner.Tick)
}

func (m *FormBuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.Phase().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ClearStatusMsg:
		return m, nil

	case foldersLoadedMsg:
		if msg.err != nil {
			return m, m.status.ShowWarning("Could not list folders: " + msg.err.Error())
		}
		m.picker.SetFolders(msg.folders)
		_ = m.picker.Select(m.form.Folder())
		return m, nil

	case folderCreatedMsg:
		if msg.err != nil {
			return m, m.status.ShowError(msg.err.Error())
		}
		m.picker.Added(msg.folder)
		if m.ctl.CanEdit() {
			_ = m.form.SetProperty("folder", msg.folder.ID)
		}
		return m, m.status.ShowSuccess("Created folder " + msg.folder.Name)

	case formLoadedMsg:
		b := msg.bundle
		if b.FoldersErr == nil {
			m.picker.SetFolders(b.Folders)
		}
		err := m.ctl.CompleteLoad(msg.ticket, b.Doc, b.LoadErr)
		if errors.Is(err, lifecycle.ErrStaleLoad) {
			return m, nil
		}
		_ = m.picker.Select(m.form.Folder())
		m.canvas.Focus(0, m.form.Len())
		m.settle()
		switch {
		case err != nil:
			return m, nil
		case b.FoldersErr != nil:
			return m, m.status.ShowWarning("Loaded, but folders are unavailable: " + b.FoldersErr.Error())
		}
		return m, m.status.ShowSuccess(fmt.Sprintf("Loaded %q", m.form.Name()))

	case saveDoneMsg[models.FormSchema]:
		err := m.ctl.CompleteSave(msg.req, msg.res)
		switch {
		case err == nil:
			return m, clearStatusAfter(lifecycle.NoticeTTL)
		case lifecycle.KindOf(err) == lifecycle.NameConflict:
			m.showConflict()
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.showPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *FormBuilderModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.Active() {
		return m.confirm.Update(msg)
	}
	if m.prompt.Active() {
		return m.handlePromptKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Save):
		return m.save()
	case key.Matches(msg, k.Leave):
		if m.ctl.Phase().Busy() {
			return nil
		}
		if m.ctl.RequestLeave() {
			m.showDiscard()
			return nil
		}
		return leaveBuilder
	case key.Matches(msg, k.New):
		pending, err := m.ctl.RequestNew()
		if err != nil {
			return nil
		}
		if pending {
			m.showDiscard()
			return nil
		}
		m.resetView()
		return m.status.ShowInfo("New form")
	case key.Matches(msg, k.Clear):
		if err := m.ctl.RequestClear(); err == nil {
			m.showDiscard()
		}
		return nil
	case key.Matches(msg, k.Yank):
		return m.yank()
	case key.Matches(msg, k.Cancel):
		switch {
		case m.drag.Dragging():
			m.drag.Cancel()
		case m.pane == paneInspector:
			m.canvas.CloseInspector()
			m.pane = paneCanvas
		default:
			m.ctl.DismissAlert()
		}
		return nil
	case key.Matches(msg, k.Focus):
		m.cyclePane()
		m.updateHover()
		return nil
	case key.Matches(msg, k.Preview):
		m.showPreview = !m.showPreview
		m.refreshPreview()
		return nil
	case key.Matches(msg, k.Drop) && m.drag.Dragging():
		return m.drop()
	case key.Matches(msg, k.Export):
		return m.prompt.Open(promptExport, "Export as", files.ExportName("form", m.form.Name()), "")
	}

	if !m.ctl.CanEdit() {
		return nil
	}
	switch {
	case key.Matches(msg, k.Import):
		return m.prompt.Open(promptImport, "Import file", "", "form.json")
	case key.Matches(msg, k.Rename):
		return m.prompt.Open(promptName, "Form title", m.form.Name(), "Volunteer Sign-up")
	case key.Matches(msg, k.Description):
		return m.prompt.Open(promptDescription, "Description", m.form.Document().Description, "")
	case key.Matches(msg, k.Visible):
		return m.apply(m.form.SetProperty("visible", !m.form.Document().Visible))
	case key.Matches(msg, k.Folder):
		return m.nextFolder()
	case key.Matches(msg, k.NewFolder):
		return m.prompt.Open(promptFolderName, "New folder", "", "Events")
	}

	switch m.pane {
	case panePalette:
		return m.handlePaletteKey(msg)
	case paneInspector:
		return m.handleInspectorKey(msg)
	}
	return m.handleCanvasKey(msg)
}

func (m *FormBuilderModel) cyclePane() {
	switch m.pane {
	case panePalette:
		m.pane = paneCanvas
	case paneCanvas:
		if m.canvas.InspectorOpen() {
			m.pane = paneInspector
		} else {
			m.pane = panePalette
		}
	default:
		m.pane = panePalette
	}
}

func (m *FormBuilderModel) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	templates := m.catalog.Templates()
	switch {
	case key.Matches(msg, k.Up):
		m.paletteRow = max(0, m.paletteRow-1)
	case key.Matches(msg, k.Down):
		m.paletteRow = min(m.paletteRow+1, len(templates)-1)
	case key.Matches(msg, k.Grab):
		m.drag.Begin(dragdrop.FieldTemplate(templates[m.paletteRow].Type))
	case key.Matches(msg, k.Add):
		field, err := m.catalog.Clone(templates[m.paletteRow].Type)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		if _, err := m.form.AddItem(field, -1); err != nil {
			return m.apply(err)
		}
		m.canvas.Focus(m.form.Len()-1, m.form.Len())
		m.settle()
	default:
		return nil
	}
	m.updateHover()
	return nil
}

func (m *FormBuilderModel) handleCanvasKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	n := m.form.Len()
	switch {
	case key.Matches(msg, k.Up):
		m.canvas.Up(n)
		m.attrRow = 0
	case key.Matches(msg, k.Down):
		m.canvas.Down(n)
		m.attrRow = 0
	case key.Matches(msg, k.Grab):
		fl, ok := m.focusedField()
		if !ok {
			return nil
		}
		m.drag.Begin(m.canvas.PayloadFor(fl.ID))
	case key.Matches(msg, k.Remove):
		fl, ok := m.focusedField()
		if !ok {
			return nil
		}
		return m.apply(m.form.RemoveItem(fl.ID))
	case key.Matches(msg, k.Inspect):
		if m.canvas.OpenInspector() {
			m.pane = paneInspector
			m.attrRow = 0
		}
		return nil
	default:
		return nil
	}
	m.updateHover()
	return nil
}

func (m *FormBuilderModel) handleInspectorKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	fl, ok := m.focusedField()
	if !ok {
		m.canvas.CloseInspector()
		m.pane = paneCanvas
		return nil
	}
	attrs := inspectorAttrsFor(fl)
	m.attrRow = min(m.attrRow, len(attrs)-1)
	switch {
	case key.Matches(msg, k.Up):
		m.attrRow = max(0, m.attrRow-1)
	case key.Matches(msg, k.Down):
		m.attrRow = min(m.attrRow+1, len(attrs)-1)
	case key.Matches(msg, k.Grab), key.Matches(msg, k.Drop):
		attr := attrs[m.attrRow]
		if attr == "required" {
			return m.apply(m.form.SetProperty("field."+fl.ID+".required", !fl.Required))
		}
		m.editingAttr = attr
		return m.prompt.Open(promptFieldAttr, fieldAttrLabel(attr), fieldAttrValue(fl, attr), fieldAttrHint(attr))
	}
	return nil
}

func (m *FormBuilderModel) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	cmd, submitted, cancelled := m.prompt.Update(msg)
	if cancelled {
		m.prompt.Close()
		return nil
	}
	if !submitted {
		return cmd
	}
	kind, value := m.prompt.kind, strings.TrimSpace(m.prompt.Value())
	m.prompt.Close()

	switch kind {
	case promptName:
		return m.apply(m.form.SetProperty("title", value))
	case promptDescription:
		return m.apply(m.form.SetProperty("description", value))
	case promptFolderName:
		name, err := m.picker.CheckName(value)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		return createFolder(m.picker.Store(), name)
	case promptFieldAttr:
		fl, ok := m.focusedField()
		if !ok {
			return nil
		}
		return m.apply(m.form.SetProperty("field."+fl.ID+"."+m.editingAttr, fieldAttrInput(m.editingAttr, value)))
	case promptImport:
		data, err := readImport(value)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		if err := m.ctl.Import(data); err != nil {
			return nil
		}
		_ = m.picker.Select(m.form.Folder())
		m.resetView()
		return clearStatusAfter(lifecycle.NoticeTTL)
	case promptExport:
		data, err := m.ctl.Export()
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		path, err := files.WriteExport(value, data)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		return m.status.ShowSuccess("Exported to " + path)
	}
	return nil
}

// nextFolder moves the form to the next listed folder.
func (m *FormBuilderModel) nextFolder() tea.Cmd {
	list := m.picker.Folders()
	if len(list) == 0 {
		return m.status.ShowInfo("No folders yet. Press + to create one.")
	}
	next := 0
	current := m.form.Folder()
	for i, f := range list {
		if f.ID == current {
			next = (i + 1) % len(list)
			break
		}
	}
	if err := m.picker.Select(list[next].ID); err != nil {
		return m.status.ShowError(err.Error())
	}
	return m.apply(m.form.SetProperty("folder", list[next].ID))
}

func (m *FormBuilderModel) save() tea.Cmd {
	req, err := m.ctl.BeginSave()
	switch {
	case errors.Is(err, lifecycle.ErrNothingToSave):
		return m.status.ShowInfo("No changes to save")
	case errors.Is(err, document.ErrFolderRequired):
		return m.status.ShowWarning("Choose a folder with f before saving")
	case err != nil:
		return nil
	}
	return tea.Batch(sendSave(m.ctl, req), m.spinner.Tick)
}

func (m *FormBuilderModel) showConflict() {
	m.confirm.Show(conflictPrompt("form", m.form.Name(), m.ctl.ConflictID(), m.draftSummary()), func() tea.Cmd {
		req, err := m.ctl.BeginOverride()
		if err != nil {
			return nil
		}
		return tea.Batch(sendSave(m.ctl, req), m.spinner.Tick)
	}, func() tea.Cmd {
		_ = m.ctl.CancelConflict()
		return nil
	})
}

// draftSummary describes the form an override would store.
func (m *FormBuilderModel) draftSummary() string {
	return fmt.Sprintf("Fields in this draft: %d", m.form.Len())
}

// discardDetails lists what the pending action throws away.
func (m *FormBuilderModel) discardDetails() []string {
	var out []string
	if n := m.form.Len(); n > 0 {
		out = append(out, fmt.Sprintf("fields: %d", n))
	}
	if id := m.form.ID(); id != "" && m.ctl.Pending() == lifecycle.ActionClear {
		out = append(out, "the next save creates a new form instead of updating "+id)
	}
	return out
}

func (m *FormBuilderModel) showDiscard() {
	m.confirm.Show(discardPrompt(m.ctl.Pending(), m.discardDetails()...), func() tea.Cmd {
		action, err := m.ctl.ConfirmDiscard()
		if err != nil {
			return nil
		}
		m.resetView()
		if action == lifecycle.ActionLeave {
			return leaveBuilder
		}
		return nil
	}, func() tea.Cmd {
		_ = m.ctl.CancelDiscard()
		return nil
	})
}

func (m *FormBuilderModel) yank() tea.Cmd {
	data, err := m.ctl.Export()
	if err != nil {
		return m.status.ShowError(err.Error())
	}
	if err := copyToClipboard(string(data)); err != nil {
		return m.status.ShowError("Clipboard unavailable: " + err.Error())
	}
	return m.status.ShowSuccess("Copied form JSON")
}

func (m *FormBuilderModel) drop() tea.Cmd {
	p, _ := m.drag.Active()
	out, err := m.drag.DropOnHovered()
	if err != nil {
		return m.status.ShowError(err.Error())
	}
	if out == dragdrop.Applied {
		switch p.Kind {
		case dragdrop.KindField:
			m.canvas.Focus(m.form.IndexOf(p.ItemID), m.form.Len())
		case dragdrop.KindFieldTemplate:
			if t, ok := m.lastTarget(); ok && t.Kind == dragdrop.TargetFieldRow {
				m.canvas.Focus(t.Index+1, m.form.Len())
			} else {
				m.canvas.Focus(m.form.Len()-1, m.form.Len())
			}
		}
	}
	m.settle()
	return nil
}

// lastTarget is the zone the cursor pointed at when the drop happened.
func (m *FormBuilderModel) lastTarget() (dragdrop.Target, bool) {
	if m.pane != paneCanvas {
		return dragdrop.Target{}, false
	}
	if row := m.canvas.Row(); row >= 0 {
		return m.canvas.RowTarget(row), true
	}
	return m.canvas.Target(), true
}

func (m *FormBuilderModel) apply(err error) tea.Cmd {
	m.settle()
	if err == nil {
		return nil
	}
	return m.status.ShowError(err.Error())
}

func (m *FormBuilderModel) focusedField() (models.Field, bool) {
	fields := m.form.Fields()
	row := m.canvas.Row()
	if row < 0 || row >= len(fields) {
		return models.Field{}, false
	}
	return fields[row], true
}

// updateHover points the drag at the focused row, or the canvas body
// when there are no rows. Outside the canvas nothing is hovered.
func (m *FormBuilderModel) updateHover() {
	if !m.drag.Dragging() {
		return
	}
	t, ok := m.lastTarget()
	if !ok {
		m.drag.Hover(nil)
		return
	}
	m.drag.Hover(&t)
}

func (m *FormBuilderModel) resetView() {
	m.drag.Cancel()
	m.canvas.CloseInspector()
	if m.pane == paneInspector {
		m.pane = paneCanvas
	}
	m.canvas.Focus(0, m.form.Len())
	m.settle()
}

func (m *FormBuilderModel) settle() {
	m.canvas.Clamp(m.form.Len())
	if !m.canvas.InspectorOpen() && m.pane == paneInspector {
		m.pane = paneCanvas
	}
	m.refreshPreview()
}

func (m *FormBuilderModel) refreshPreview() {
	if !m.showPreview {
		return
	}
	m.preview.SetContent(renderFormPreview(m.form.Document(), m.picker, m.preview.Width))
}
