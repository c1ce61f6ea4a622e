package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/dragdrop"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/grid"
	"github.com/covenant/covenant-terminal/pkg/library"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/projection"
)

type planPane int

const (
	paneGrid planPane = iota
	paneLibrary
)

// daysPerRow is the width of the calendar grid.
const daysPerRow = 7

// PlanBuilderConfig wires a plan builder to its store and settings.
type PlanBuilderConfig struct {
	Store    lifecycle.Store[models.ReadingPlan]
	Signal   lifecycle.Signal
	PageSize int
	// Overlay turns the date overlay on from the start, anchored today.
	Overlay bool
	Logger  *slog.Logger
}

// PlanBuilderModel is the reading plan editor: a paginated day grid fed
// from a passage library, with keyboard driven drag and drop.
type PlanBuilderModel struct {
	ctl      *lifecycle.Controller[models.ReadingPlan]
	plan     *document.Plan
	passages *library.Passages
	days     *grid.Days
	drag     *dragdrop.Coordinator
	cache    *projection.PageCache
	logger   *slog.Logger

	keys    planKeys
	status  *StatusManager
	confirm *ConfirmationModel
	prompt  linePrompt
	spinner spinner.Model

	pane      planPane
	libCursor int
	filter    projection.LibraryFilters
	anchor    time.Time

	width  int
	height int
}

func NewPlanBuilderModel(cfg PlanBuilderConfig) *PlanBuilderModel {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	plan := document.NewPlan()
	passages := library.NewPassages()
	ctl := lifecycle.New[models.ReadingPlan](plan, cfg.Store, lifecycle.PlanCodec{}, logger)
	if cfg.Signal != nil {
		ctl.SetSignal(cfg.Signal)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &PlanBuilderModel{
		ctl:      ctl,
		plan:     plan,
		passages: passages,
		days:     grid.NewDays(cfg.PageSize),
		drag:     dragdrop.NewPlanCoordinator(plan, passages, logger),
		cache:    projection.NewPageCache(0),
		logger:   logger,
		keys:     defaultPlanKeys(),
		status:   NewStatusManager(),
		confirm:  NewConfirmation(),
		prompt:   newLinePrompt(),
		spinner:  sp,
		anchor:   today(),
	}
	if cfg.Overlay {
		m.days.SetOverlay(m.anchor)
	}
	m.days.Select(1, plan.DurationDays())
	return m
}

func today() time.Time {
	y, mo, d := time.Now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}

func (m *PlanBuilderModel) Init() tea.Cmd {
	return nil
}

// Controller exposes the save lifecycle, mainly for the CLI and tests.
func (m *PlanBuilderModel) Controller() *lifecycle.Controller[models.ReadingPlan] {
	return m.ctl
}

func (m *PlanBuilderModel) Plan() *document.Plan { return m.plan }

func (m *PlanBuilderModel) Library() *library.Passages { return m.passages }

func (m *PlanBuilderModel) Days() *grid.Days { return m.days }

func (m *PlanBuilderModel) Close() {
	m.ctl.Close()
}

func (m *PlanBuilderModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Open starts loading plan id from the store.
func (m *PlanBuilderModel) Open(id string) tea.Cmd {
	t, err := m.ctl.BeginLoad(id)
	if err != nil {
		return m.status.ShowError(err.Error())
	}
	return tea.Batch(fetchPlan(m.ctl, t), m.spinner.Tick)
}

func (m *PlanBuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case planLoadedMsg:
		err := m.ctl.CompleteLoad(msg.ticket, msg.doc, msg.err)
		if errors.Is(err, lifecycle.ErrStaleLoad) {
			return m, nil
		}
		m.days.SetPage(0, m.plan.DurationDays())
		m.days.Select(1, m.plan.DurationDays())
		m.settle()
		if err != nil {
			return m, nil
		}
		return m, m.status.ShowSuccess(fmt.Sprintf("Loaded %q", m.plan.Name()))

	case saveDoneMsg[models.ReadingPlan]:
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
	}
	return m, nil
}

func (m *PlanBuilderModel) handleKey(msg tea.KeyMsg) tea.Cmd {
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
		return m.status.ShowInfo("New plan")
	case key.Matches(msg, k.Clear):
		if err := m.ctl.RequestClear(); err == nil {
			m.showDiscard()
		}
		return nil
	case key.Matches(msg, k.Yank):
		return m.yank()
	case key.Matches(msg, k.Cancel):
		if m.drag.Dragging() {
			m.drag.Cancel()
			return nil
		}
		m.ctl.DismissAlert()
		return nil
	case key.Matches(msg, k.Focus):
		if m.pane == paneGrid {
			m.pane = paneLibrary
		} else {
			m.pane = paneGrid
		}
		m.updateHover()
		return nil
	case key.Matches(msg, k.PrevPage):
		m.days.PrevPage(m.plan.DurationDays())
		m.days.Select(m.days.FirstDay(), m.plan.DurationDays())
		m.updateHover()
		return nil
	case key.Matches(msg, k.NextPage):
		m.days.NextPage(m.plan.DurationDays())
		m.days.Select(m.days.FirstDay(), m.plan.DurationDays())
		m.updateHover()
		return nil
	case key.Matches(msg, k.Drop) && m.drag.Dragging():
		return m.drop()
	case key.Matches(msg, k.Filter):
		return m.prompt.Open(promptFilter, "Filter library", filterText(m.filter), "book:john 3")
	case key.Matches(msg, k.Overlay):
		if _, on := m.days.Overlay(); on {
			m.days.ClearOverlay()
			return nil
		}
		return m.prompt.Open(promptAnchor, "Day 1 date", m.anchor.Format(time.DateOnly), "YYYY-MM-DD")
	case key.Matches(msg, k.Export):
		return m.prompt.Open(promptExport, "Export as", files.ExportName("plan", m.plan.Name()), "")
	}

	if !m.ctl.CanEdit() {
		return nil
	}
	switch {
	case key.Matches(msg, k.Import):
		return m.prompt.Open(promptImport, "Import file", "", "plan.json")
	case key.Matches(msg, k.Rename):
		return m.prompt.Open(promptName, "Plan name", m.plan.Name(), "Summer Reading")
	case key.Matches(msg, k.Duration):
		return m.prompt.Open(promptDuration, "Duration in days", strconv.Itoa(m.plan.DurationDays()), "")
	case key.Matches(msg, k.AddPassage):
		return m.prompt.Open(promptPassage, "Add passage", "", "John 3:16-21")
	case key.Matches(msg, k.Visible):
		return m.apply(m.plan.SetProperty("visible", !m.plan.Document().Visible))
	}

	if m.pane == paneLibrary {
		return m.handleLibraryKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m *PlanBuilderModel) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	sel := m.days.Selected()
	switch {
	case key.Matches(msg, k.Left):
		m.moveSelection(sel - 1)
	case key.Matches(msg, k.Right):
		m.moveSelection(sel + 1)
	case key.Matches(msg, k.Up):
		m.moveSelection(sel - daysPerRow)
	case key.Matches(msg, k.Down):
		m.moveSelection(sel + daysPerRow)
	case key.Matches(msg, k.PrevItem):
		if m.days.Item() > 0 {
			m.days.SelectItem(m.days.Item() - 1)
		}
	case key.Matches(msg, k.NextItem):
		if n := len(m.plan.Passages(sel)); n > 0 {
			m.days.SelectItem(min(m.days.Item()+1, n-1))
		}
	case key.Matches(msg, k.Grab):
		ps, ok := m.selectedPassage()
		if !ok {
			return nil
		}
		m.drag.Begin(m.days.PayloadFor(sel, ps.ID))
	case key.Matches(msg, k.Remove):
		ps, ok := m.selectedPassage()
		if !ok {
			return nil
		}
		return m.apply(m.plan.RemoveItem(ps.ID))
	default:
		return nil
	}
	m.updateHover()
	return nil
}

func (m *PlanBuilderModel) handleLibraryKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	items := m.libraryItems()
	switch {
	case key.Matches(msg, k.Up):
		m.libCursor = max(0, m.libCursor-1)
	case key.Matches(msg, k.Down):
		m.libCursor = max(0, min(m.libCursor+1, len(items)-1))
	case key.Matches(msg, k.Grab):
		if m.libCursor >= len(items) {
			return nil
		}
		m.drag.Begin(dragdrop.LibraryPassage(items[m.libCursor].ID))
	case key.Matches(msg, k.Remove):
		if m.libCursor >= len(items) {
			return nil
		}
		if err := m.passages.Remove(items[m.libCursor].ID); err != nil {
			return m.status.ShowError(err.Error())
		}
		m.settle()
	default:
		return nil
	}
	m.updateHover()
	return nil
}

func (m *PlanBuilderModel) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
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
		return m.apply(m.plan.SetProperty("name", value))
	case promptDuration:
		n, err := strconv.Atoi(value)
		if err != nil {
			return m.status.ShowError("Duration must be a whole number of days")
		}
		return m.apply(m.plan.SetProperty("durationDays", n))
	case promptPassage:
		ps, err := m.passages.AddReference(value)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		m.filter = projection.LibraryFilters{}
		m.libCursor = m.passages.Len() - 1
		return m.status.ShowSuccess("Added " + ps.Reference)
	case promptFilter:
		f, err := libraryFilter(value)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		m.filter = f
		m.libCursor = 0
	case promptAnchor:
		t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
		if err != nil {
			return m.status.ShowError("Dates look like 2026-06-01")
		}
		m.anchor = t
		m.days.SetOverlay(t)
	case promptImport:
		data, err := readImport(value)
		if err != nil {
			return m.status.ShowError(err.Error())
		}
		if err := m.ctl.Import(data); err != nil {
			return nil
		}
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

// filterText writes filters back in the form libraryFilter reads.
func filterText(f projection.LibraryFilters) string {
	parts := make([]string, 0, 2)
	if f.Book != "" {
		parts = append(parts, fmt.Sprintf("book:%q", f.Book))
	}
	if f.Query != "" {
		parts = append(parts, f.Query)
	}
	return strings.Join(parts, " ")
}

func libraryFilter(value string) (projection.LibraryFilters, error) {
	q, err := library.ParseQuery(value)
	if err != nil {
		return projection.LibraryFilters{}, err
	}
	return projection.LibraryFilters{Query: q.Text, Book: q.Book}, nil
}

func (m *PlanBuilderModel) libraryItems() []models.Passage {
	items := m.passages.Filter(m.filter.Query)
	if m.filter.Book == "" {
		return items
	}
	var out []models.Passage
	for _, p := range items {
		if p.Book == m.filter.Book {
			out = append(out, p)
		}
	}
	return out
}

func (m *PlanBuilderModel) save() tea.Cmd {
	req, err := m.ctl.BeginSave()
	switch {
	case errors.Is(err, lifecycle.ErrNothingToSave):
		return m.status.ShowInfo("No changes to save")
	case err != nil:
		return nil
	}
	return tea.Batch(sendSave(m.ctl, req), m.spinner.Tick)
}

func (m *PlanBuilderModel) showConflict() {
	m.confirm.Show(conflictPrompt("plan", m.plan.Name(), m.ctl.ConflictID(), m.draftSummary()), func() tea.Cmd {
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

// draftSummary describes the plan an override would store.
func (m *PlanBuilderModel) draftSummary() string {
	return fmt.Sprintf("Passages in this draft: %d over %d days", m.plan.Document().PassageCount(), m.plan.DurationDays())
}

// discardDetails lists what the pending action throws away.
func (m *PlanBuilderModel) discardDetails() []string {
	var out []string
	if n := m.plan.Document().PassageCount(); n > 0 {
		out = append(out, fmt.Sprintf("scheduled passages: %d", n))
	}
	if id := m.plan.ID(); id != "" && m.ctl.Pending() == lifecycle.ActionClear {
		out = append(out, "the next save creates a new plan instead of updating "+id)
	}
	return out
}

func (m *PlanBuilderModel) showDiscard() {
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

func (m *PlanBuilderModel) yank() tea.Cmd {
	data, err := m.ctl.Export()
	if err != nil {
		return m.status.ShowError(err.Error())
	}
	if err := copyToClipboard(string(data)); err != nil {
		return m.status.ShowError("Clipboard unavailable: " + err.Error())
	}
	return m.status.ShowSuccess("Copied plan JSON")
}

func (m *PlanBuilderModel) drop() tea.Cmd {
	// A drop past the end of the plan is rejected without a message.
	if _, err := m.drag.DropOnHovered(); err != nil {
		return m.status.ShowError(err.Error())
	}
	m.settle()
	return nil
}

// apply reports a mutation failure and re-clamps the view.
func (m *PlanBuilderModel) apply(err error) tea.Cmd {
	m.settle()
	if err == nil {
		return nil
	}
	return m.status.ShowError(err.Error())
}

func (m *PlanBuilderModel) moveSelection(day int) {
	if day < 1 || day > m.plan.DurationDays() {
		return
	}
	m.days.Select(day, m.plan.DurationDays())
	m.days.ClampItem(len(m.plan.Passages(day)))
}

func (m *PlanBuilderModel) selectedPassage() (models.Passage, bool) {
	list := m.plan.Passages(m.days.Selected())
	i := m.days.Item()
	if i < 0 || i >= len(list) {
		return models.Passage{}, false
	}
	return list[i], true
}

// updateHover points the drag at the zone under the cursor: the selected
// day, after its focused passage, or the library.
func (m *PlanBuilderModel) updateHover() {
	if !m.drag.Dragging() {
		return
	}
	var t dragdrop.Target
	if m.pane == paneLibrary {
		t = dragdrop.LibraryTarget()
	} else {
		index := -1
		if item := m.days.Item(); item >= 0 {
			index = item + 1
		}
		t = m.days.DropTarget(m.days.Selected(), index)
	}
	m.drag.Hover(&t)
}

func (m *PlanBuilderModel) resetView() {
	m.drag.Cancel()
	m.days.SetPage(0, m.plan.DurationDays())
	m.days.Select(1, m.plan.DurationDays())
	m.settle()
}

// settle keeps view state inside the document after any change.
func (m *PlanBuilderModel) settle() {
	d := m.plan.DurationDays()
	m.days.Clamp(d)
	if m.days.Selected() == 0 {
		m.days.Select(m.days.FirstDay(), d)
	}
	m.days.ClampItem(len(m.plan.Passages(m.days.Selected())))
	m.libCursor = max(0, min(m.libCursor, len(m.libraryItems())-1))
}
