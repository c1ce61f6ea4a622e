package tui

import (
	"context"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
)

// saveDoneMsg carries the store's answer to a save request back to the
// event loop.
type saveDoneMsg[D any] struct {
	req *lifecycle.SaveRequest[D]
	res lifecycle.SaveResult
}

type planLoadedMsg struct {
	ticket lifecycle.LoadTicket
	doc    models.ReadingPlan
	err    error
}

type formLoadedMsg struct {
	ticket lifecycle.LoadTicket
	bundle lifecycle.FormBundle
}

type foldersLoadedMsg struct {
	folders []models.Folder
	err     error
}

type folderCreatedMsg struct {
	folder models.Folder
	err    error
}

// leaveBuilderMsg asks the App to return to the home menu.
type leaveBuilderMsg struct{}

func leaveBuilder() tea.Msg { return leaveBuilderMsg{} }

// sendSave runs req against the store off the event loop.
func sendSave[D any](ctl *lifecycle.Controller[D], req *lifecycle.SaveRequest[D]) tea.Cmd {
	return func() tea.Msg {
		return saveDoneMsg[D]{req: req, res: ctl.Send(context.Background(), req)}
	}
}

func fetchPlan(ctl *lifecycle.Controller[models.ReadingPlan], t lifecycle.LoadTicket) tea.Cmd {
	return func() tea.Msg {
		doc, err := ctl.Fetch(context.Background(), t)
		return planLoadedMsg{ticket: t, doc: doc, err: err}
	}
}

func fetchForm(forms lifecycle.Store[models.FormSchema], folders lifecycle.FolderStore, t lifecycle.LoadTicket) tea.Cmd {
	return func() tea.Msg {
		return formLoadedMsg{ticket: t, bundle: lifecycle.FetchForm(context.Background(), forms, folders, t.ID)}
	}
}

func listFolders(store lifecycle.FolderStore) tea.Cmd {
	return func() tea.Msg {
		list, err := store.List(context.Background())
		return foldersLoadedMsg{folders: list, err: err}
	}
}

func createFolder(store lifecycle.FolderStore, name string) tea.Cmd {
	return func() tea.Msg {
		f, err := lifecycle.CreateFolder(context.Background(), store, name)
		return folderCreatedMsg{folder: f, err: err}
	}
}

// copyToClipboard is swapped out in tests, where no clipboard exists.
var copyToClipboard = clipboard.WriteAll

// readImport reads an export file given by name or path.
func readImport(name string) ([]byte, error) {
	if _, err := os.Stat(name); err == nil {
		return os.ReadFile(name)
	}
	return files.ReadExport(name)
}
