package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// builderKeys are shared by both builders.
type builderKeys struct {
	Up, Down, Left, Right key.Binding
	Focus                 key.Binding
	Grab, Drop, Cancel    key.Binding
	Remove                key.Binding
	Rename                key.Binding
	Visible               key.Binding
	Save                  key.Binding
	New, Clear, Leave     key.Binding
	Yank, Export, Import  key.Binding
}

func defaultBuilderKeys() builderKeys {
	return builderKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Grab:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "grab")),
		Drop:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Remove:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Visible: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visibility")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		New:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new")),
		Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
		Leave:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "back")),
		Yank:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy json")),
		Export:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
		Import:  key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "import")),
	}
}

type planKeys struct {
	builderKeys
	PrevPage, NextPage key.Binding
	PrevItem, NextItem key.Binding
	Duration           key.Binding
	AddPassage         key.Binding
	Filter             key.Binding
	Overlay            key.Binding
}

func defaultPlanKeys() planKeys {
	return planKeys{
		builderKeys: defaultBuilderKeys(),
		PrevPage:    key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev page")),
		NextPage:    key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next page")),
		PrevItem:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "prev passage")),
		NextItem:    key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "next passage")),
		Duration:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duration")),
		AddPassage:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add passage")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Overlay:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "dates")),
	}
}

type formKeys struct {
	builderKeys
	Add         key.Binding
	Inspect     key.Binding
	Description key.Binding
	Folder      key.Binding
	NewFolder   key.Binding
	Preview     key.Binding
}

func defaultFormKeys() formKeys {
	return formKeys{
		builderKeys: defaultBuilderKeys(),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "append field")),
		Inspect:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit field")),
		Description: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "description")),
		Folder:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "folder")),
		NewFolder:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "new folder")),
		Preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	}
}

// helpLine renders bindings as "key action" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, " • "))
}
