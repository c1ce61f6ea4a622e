package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
	"github.com/covenant/covenant-terminal/pkg/remote/remotetest"
)

func newFormController(t *testing.T) (*Controller[models.FormSchema], *document.Form, *FolderPicker, *remotetest.Server) {
	t.Helper()
	srv := remotetest.NewServer(t, "")
	client := remote.New(models.APISettings{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	form := document.NewForm()
	ctl := New[models.FormSchema](form, client.Forms(), FormCodec{}, nil)
	t.Cleanup(ctl.Close)
	return ctl, form, NewFolderPicker(client.Folders()), srv
}

func TestFolderPicker_CreateAndSelect(t *testing.T) {
	_, _, picker, srv := newFormController(t)
	srv.PutFolder("Youth")
	ctx := context.Background()
	must(t, picker.Refresh(ctx))

	f, err := picker.Create(ctx, "  Adults ")
	must(t, err)
	if f.Name != "Adults" {
		t.Errorf("created %q", f.Name)
	}
	if sel, ok := picker.Selected(); !ok || sel.ID != f.ID {
		t.Errorf("Selected() = %v, %v", sel, ok)
	}
	if names := picker.Folders(); names[0].Name != "Adults" || names[1].Name != "Youth" {
		t.Errorf("Folders() not sorted: %v", names)
	}

	if _, err := picker.Create(ctx, "youth"); !errors.Is(err, ErrDuplicateFolder) {
		t.Errorf("local duplicate error = %v", err)
	}
	srv.PutFolder("Staff")
	if _, err := picker.Create(ctx, "staff"); !errors.Is(err, ErrDuplicateFolder) {
		t.Errorf("remote duplicate error = %v", err)
	}
	if _, err := picker.Create(ctx, " "); !errors.Is(err, ErrFolderName) {
		t.Errorf("blank name error = %v", err)
	}
	if err := picker.Select("nope"); !errors.Is(err, ErrUnknownFolder) {
		t.Errorf("Select(nope) error = %v", err)
	}
}

func TestFormSave_FolderRequired(t *testing.T) {
	ctl, form, _, srv := newFormController(t)
	must(t, form.SetProperty("title", "Visitor card"))

	err := ctl.Save(context.Background())
	if KindOf(err) != FolderRequired {
		t.Fatalf("Save() error = %v, want FolderRequired", err)
	}
	if len(srv.Calls()) != 0 {
		t.Error("save without folder reached the network")
	}
}

func TestOpenForm_LoadsFormAndFolders(t *testing.T) {
	ctl, form, picker, srv := newFormController(t)
	folder := srv.PutFolder("Intake")
	id := srv.PutForm(models.FormSchema{
		Title:  "Visitor card",
		Folder: folder.ID,
		Fields: []models.Field{{ID: "f1", Type: models.FieldText, Label: "Name"}},
	})

	must(t, OpenForm(context.Background(), ctl, picker, id))
	if ctl.Phase() != Clean || form.ID() != id || form.Len() != 1 {
		t.Errorf("phase=%v id=%q fields=%d", ctl.Phase(), form.ID(), form.Len())
	}
	if sel, ok := picker.Selected(); !ok || sel.ID != folder.ID {
		t.Errorf("folder not selected: %v", sel)
	}
	if srv.Count(http.MethodGet, "/forms/folders") != 1 {
		t.Error("folders not fetched")
	}
}

func TestOpenForm_ReportsPartialFailure(t *testing.T) {
	ctl, form, picker, srv := newFormController(t)
	id := srv.PutForm(models.FormSchema{Title: "Card", Folder: "x", Fields: []models.Field{}})
	srv.FailNext(http.StatusInternalServerError)

	err := OpenForm(context.Background(), ctl, picker, id)
	if err == nil {
		t.Fatal("OpenForm() succeeded with one failed request")
	}
	if form.Name() != "Card" && ctl.Phase() != Blank {
		t.Errorf("unexpected state: name=%q phase=%v", form.Name(), ctl.Phase())
	}
}

func TestFormCodec_RoundTrip(t *testing.T) {
	ctl, form, _, _ := newFormController(t)
	must(t, form.SetProperty("title", "Membership"))
	must(t, form.SetProperty("folder", "f1"))
	id, err := form.AddItem(models.Field{Type: models.FieldSelect, Label: "Campus", Options: []models.FieldOption{{Label: "North", Value: "n"}}}, -1)
	must(t, err)
	must(t, form.SetProperty("field."+id+".validation.maxLength", 12))
	want := form.Snapshot()

	data, err := ctl.Export()
	must(t, err)
	form.Reset()
	must(t, ctl.Import(data))
	if form.Snapshot() != want {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", form.Snapshot(), want)
	}
}

func TestFormCodec_RejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no data", `{"title":"x"}`},
		{"data object", `{"data":{}}`},
		{"data null", `{"data":null}`},
		{"unknown type", `{"data":[{"id":"a","type":"signature","label":"Sign"}]}`},
		{"missing type", `{"data":[{"id":"a","label":"Sign"}]}`},
		{"bad width", `{"data":[{"id":"a","type":"text","width":"quarter"}]}`},
		{"title wrong type", `{"data":[],"title":["x"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (FormCodec{}).Import([]byte(tt.data)); err == nil {
				t.Errorf("Import(%s) succeeded", tt.data)
			}
		})
	}
	if _, err := (FormCodec{}).Import([]byte(`{"data":[]}`)); err != nil {
		t.Errorf("Import(empty data) error = %v", err)
	}
}
