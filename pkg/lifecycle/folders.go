package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
)

var (
	ErrDuplicateFolder = errors.New("folder already exists")
	ErrUnknownFolder   = errors.New("unknown folder")
	ErrFolderName      = errors.New("folder name is required")
)

// FolderStore lists and creates form folders.
type FolderStore interface {
	List(ctx context.Context) ([]models.Folder, error)
	Create(ctx context.Context, name string) (models.Folder, error)
}

// FolderPicker holds the folder choices of the form save dialog.
type FolderPicker struct {
	store    FolderStore
	folders  []models.Folder
	selected string
}

func NewFolderPicker(store FolderStore) *FolderPicker {
	return &FolderPicker{store: store}
}

func (p *FolderPicker) Store() FolderStore { return p.store }

// Refresh reloads the folder list.
func (p *FolderPicker) Refresh(ctx context.Context) error {
	list, err := p.store.List(ctx)
	if err != nil {
		return err
	}
	p.SetFolders(list)
	return nil
}

// SetFolders replaces the choices, sorted by name. A selection that no
// longer exists is cleared.
func (p *FolderPicker) SetFolders(list []models.Folder) {
	p.folders = append([]models.Folder(nil), list...)
	sort.SliceStable(p.folders, func(i, j int) bool {
		return strings.ToLower(p.folders[i].Name) < strings.ToLower(p.folders[j].Name)
	})
	if _, ok := p.find(p.selected); !ok {
		p.selected = ""
	}
}

func (p *FolderPicker) Folders() []models.Folder {
	return append([]models.Folder(nil), p.folders...)
}

// Select chooses a folder by id; the empty id clears the choice.
func (p *FolderPicker) Select(id string) error {
	if id == "" {
		p.selected = ""
		return nil
	}
	if _, ok := p.find(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFolder, id)
	}
	p.selected = id
	return nil
}

func (p *FolderPicker) Selected() (models.Folder, bool) {
	return p.find(p.selected)
}

// Name returns the display name of a folder id, or the id itself.
func (p *FolderPicker) Name(id string) string {
	if f, ok := p.find(id); ok {
		return f.Name
	}
	return id
}

// CheckName rejects blank names and names already listed.
func (p *FolderPicker) CheckName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrFolderName
	}
	for _, f := range p.folders {
		if strings.EqualFold(f.Name, name) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateFolder, f.Name)
		}
	}
	return name, nil
}

// Added records a folder created on the store and selects it.
func (p *FolderPicker) Added(f models.Folder) {
	if _, ok := p.find(f.ID); !ok {
		p.SetFolders(append(p.folders, f))
	}
	p.selected = f.ID
}

// Create adds a folder on the store and selects it.
func (p *FolderPicker) Create(ctx context.Context, name string) (models.Folder, error) {
	name, err := p.CheckName(name)
	if err != nil {
		return models.Folder{}, err
	}
	f, err := CreateFolder(ctx, p.store, name)
	if err != nil {
		return models.Folder{}, err
	}
	p.Added(f)
	return f, nil
}

// CreateFolder creates a folder, mapping a store conflict to
// ErrDuplicateFolder.
func CreateFolder(ctx context.Context, store FolderStore, name string) (models.Folder, error) {
	f, err := store.Create(ctx, name)
	if errors.Is(err, remote.ErrConflict) {
		return models.Folder{}, fmt.Errorf("%w: %s", ErrDuplicateFolder, name)
	}
	return f, err
}

func (p *FolderPicker) find(id string) (models.Folder, bool) {
	if id == "" {
		return models.Folder{}, false
	}
	for _, f := range p.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

// FormBundle is the result of fetching a form together with the folder
// list.
type FormBundle struct {
	Doc        models.FormSchema
	LoadErr    error
	Folders    []models.Folder
	FoldersErr error
}

// FetchForm reads the form and the folders concurrently. An empty id
// fetches only the folders. Neither failure cancels the other request.
func FetchForm(ctx context.Context, forms Store[models.FormSchema], folders FolderStore, id string) FormBundle {
	var b FormBundle
	var g errgroup.Group
	if id != "" {
		g.Go(func() error {
			b.Doc, b.LoadErr = forms.Get(ctx, id)
			return nil
		})
	}
	g.Go(func() error {
		b.Folders, b.FoldersErr = folders.List(ctx)
		return nil
	})
	_ = g.Wait()
	return b
}

// OpenForm loads form id and the folder list, blocking until both are in.
func OpenForm(ctx context.Context, ctl *Controller[models.FormSchema], picker *FolderPicker, id string) error {
	t, err := ctl.BeginLoad(id)
	if err != nil {
		return err
	}
	b := FetchForm(ctx, ctl.store, picker.store, id)
	if b.FoldersErr == nil {
		picker.SetFolders(b.Folders)
	}
	if err := ctl.CompleteLoad(t, b.Doc, b.LoadErr); err != nil {
		return err
	}
	_ = picker.Select(ctl.model.Document().Folder)
	if b.FoldersErr != nil {
		return fmt.Errorf("list folders: %w", b.FoldersErr)
	}
	return nil
}
