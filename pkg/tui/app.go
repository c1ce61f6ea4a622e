package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
)

type sessionState int

const (
	homeView sessionState = iota
	planBuilderView
	formBuilderView
)

// Start selects the screen the App opens on.
type Start int

const (
	StartHome Start = iota
	StartPlan
	StartForm
)

// Options wires the App to its stores and settings.
type Options struct {
	Plans   lifecycle.Store[models.ReadingPlan]
	Forms   lifecycle.Store[models.FormSchema]
	Folders lifecycle.FolderStore
	Signal  lifecycle.Signal
	Builder models.BuilderSettings
	UI      models.UISettings
	Logger  *slog.Logger

	Start Start
	// DocumentID is loaded into the starting builder; empty starts blank.
	DocumentID string
}

type homeItem struct {
	title, description string
	view               sessionState
}

var homeItems = []homeItem{
	{"Reading plan builder", "Schedule passages across the days of a plan", planBuilderView},
	{"Form builder", "Lay out fields for a sign-up or survey form", formBuilderView},
}

// App hosts the home menu and one builder at a time.
type App struct {
	opts   Options
	state  sessionState
	cursor int

	plan *PlanBuilderModel
	form *FormBuilderModel

	keys   builderKeys
	width  int
	height int
}

func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &App{opts: opts, keys: defaultBuilderKeys()}
}

func (a *App) Init() tea.Cmd {
	switch a.opts.Start {
	case StartPlan:
		return a.switchTo(planBuilderView, a.opts.DocumentID)
	case StartForm:
		return a.switchTo(formBuilderView, a.opts.DocumentID)
	}
	return nil
}

// SwitchViewMsg opens a builder, loading id when it is set.
type SwitchViewMsg struct {
	view sessionState
	id   string
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.plan != nil {
			a.plan.SetSize(msg.Width, msg.Height)
		}
		if a.form != nil {
			a.form.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.closeBuilders()
			return a, tea.Quit
		}

	case SwitchViewMsg:
		return a, a.switchTo(msg.view, msg.id)

	case leaveBuilderMsg:
		a.closeBuilders()
		a.state = homeView
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case homeView:
		cmd = a.updateHome(msg)
	case planBuilderView:
		_, cmd = a.plan.Update(msg)
	case formBuilderView:
		_, cmd = a.form.Update(msg)
	}
	return a, cmd
}

func (a *App) updateHome(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, a.keys.Up):
		a.cursor = max(0, a.cursor-1)
	case key.Matches(km, a.keys.Down):
		a.cursor = min(a.cursor+1, len(homeItems)-1)
	case key.Matches(km, a.keys.Drop):
		view := homeItems[a.cursor].view
		return func() tea.Msg { return SwitchViewMsg{view: view} }
	case key.Matches(km, a.keys.Leave):
		return tea.Quit
	}
	return nil
}

// switchTo opens a fresh builder; any previous one is closed first so
// its unsaved flag and subscriptions go with it.
func (a *App) switchTo(view sessionState, id string) tea.Cmd {
	a.closeBuilders()
	a.state = view
	b := a.opts.Builder

	switch view {
	case planBuilderView:
		a.plan = NewPlanBuilderModel(PlanBuilderConfig{
			Store:    a.opts.Plans,
			Signal:   a.opts.Signal,
			PageSize: b.PageSize,
			Overlay:  b.DateOverlay,
			Logger:   a.opts.Logger,
		})
		a.plan.SetSize(a.width, a.height)
		if id != "" {
			return tea.Batch(a.plan.Init(), a.plan.Open(id))
		}
		return a.plan.Init()
	case formBuilderView:
		a.form = NewFormBuilderModel(FormBuilderConfig{
			Forms:   a.opts.Forms,
			Folders: a.opts.Folders,
			Signal:  a.opts.Signal,
			Preview: a.opts.UI.ShowPreview,
			Logger:  a.opts.Logger,
		})
		a.form.SetSize(a.width, a.height)
		if id != "" {
			return a.form.Open(id)
		}
		return a.form.Init()
	}
	return nil
}

func (a *App) closeBuilders() {
	if a.plan != nil {
		a.plan.Close()
		a.plan = nil
	}
	if a.form != nil {
		a.form.Close()
		a.form = nil
	}
}

// Plan returns the open plan builder, or nil.
func (a *App) Plan() *PlanBuilderModel { return a.plan }

// Form returns the open form builder, or nil.
func (a *App) Form() *FormBuilderModel { return a.form }

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	switch a.state {
	case planBuilderView:
		return a.plan.View()
	case formBuilderView:
		return a.form.View()
	}
	return a.viewHome()
}

func (a *App) viewHome() string {
	var b strings.Builder
	b.WriteString(renderHeader(a.width, "Builders"))
	b.WriteString("\n\n")
	for i, item := range homeItems {
		if i == a.cursor {
			b.WriteString(SelectedStyle.Render("▸ " + item.title))
		} else {
			b.WriteString(NormalStyle.Render("  " + item.title))
		}
		b.WriteString("\n")
		b.WriteString(DescriptionStyle.Render("    " + item.description))
		b.WriteString("\n\n")
	}
	b.WriteString(helpLine(a.keys.Up, a.keys.Down, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")), key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))))
	return lipgloss.NewStyle().PaddingLeft(1).Render(b.String())
}
