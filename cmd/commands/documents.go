package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/covenant/covenant-terminal/internal/cli"
	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
)

// docSession is one plan or form controller driven from the command line.
type docSession interface {
	Open(ctx context.Context, id string) error
	Import(data []byte) error
	Export() ([]byte, error)
	Save(ctx context.Context) error
	Override(ctx context.Context) error
	Phase() lifecycle.Phase
	Close()
}

type planSession struct {
	*lifecycle.Controller[models.ReadingPlan]
}

type formSession struct {
	*lifecycle.Controller[models.FormSchema]
	form   *document.Form
	picker *lifecycle.FolderPicker
}

// Open also lists the folders so the form's folder can be named.
func (s formSession) Open(ctx context.Context, id string) error {
	return lifecycle.OpenForm(ctx, s.Controller, s.picker, id)
}

func newSession(kind string, client *remote.Client, logger *slog.Logger) docSession {
	if kind == "form" {
		form := document.NewForm()
		return formSession{
			Controller: lifecycle.New[models.FormSchema](form, client.Forms(), lifecycle.FormCodec{}, logger),
			form:       form,
			picker:     lifecycle.NewFolderPicker(client.Folders()),
		}
	}
	return planSession{lifecycle.New[models.ReadingPlan](document.NewPlan(), client.Plans(), lifecycle.PlanCodec{}, logger)}
}

func documentName(s docSession) string {
	switch s := s.(type) {
	case planSession:
		return s.Model().Name()
	case formSession:
		return s.Model().Name()
	}
	return ""
}

func documentID(s docSession) string {
	switch s := s.(type) {
	case planSession:
		return s.Model().ID()
	case formSession:
		return s.Model().ID()
	}
	return ""
}

// saveWithConfirm saves the session, asking before it overrides a
// document that already uses the same name.
func saveWithConfirm(ctx context.Context, s docSession, kind string) error {
	err := s.Save(ctx)
	if lifecycle.KindOf(err) != lifecycle.NameConflict {
		return err
	}
	ok, cerr := cli.Confirm(fmt.Sprintf("A %s named %q already exists. Override it?", kind, documentName(s)), false)
	if cerr != nil {
		return cerr
	}
	if !ok {
		return errors.New("save cancelled")
	}
	return s.Override(ctx)
}

// readImportFile reads an export by path, or by name from the exports
// directory.
func readImportFile(name string) ([]byte, error) {
	if err := cli.ValidateFilePath(name); err == nil {
		return os.ReadFile(name)
	}
	data, err := files.ReadExport(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
