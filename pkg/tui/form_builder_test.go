package tui

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/covenant/covenant-terminal/pkg/files"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
	"github.com/covenant/covenant-terminal/pkg/remote"
	"github.com/covenant/covenant-terminal/pkg/remote/remotetest"
	"github.com/covenant/covenant-terminal/pkg/tui/testhelpers"
)

type formHarness struct {
	srv *remotetest.Server
	m   *FormBuilderModel
	d   *testhelpers.Driver
}

func newFormHarness(t *testing.T, folders ...string) *formHarness {
	t.Helper()
	env := testhelpers.NewTestEnvironment(t)
	env.InitProjectStructure()

	srv := remotetest.NewServer(t, "")
	for _, name := range folders {
		srv.PutFolder(name)
	}
	client := remote.New(models.APISettings{BaseURL: srv.URL}, nil)
	m := NewFormBuilderModel(FormBuilderConfig{
		Forms:   client.Forms(),
		Folders: client.Folders(),
		Signal:  files.NewFlagStore(filepath.Join(env.TempDir, files.CovenantDir, files.StateFile)),
	})
	t.Cleanup(m.Close)
	m.SetSize(150, 50)
	d := testhelpers.NewDriver(t, m).Init()
	return &formHarness{srv: srv, m: m, d: d}
}

// draft titles the form and appends a text and a paragraph field from
// the palette.
func (h *formHarness) draft(title string) {
	h.d.Press("r").Type(title).Press("enter")
	h.d.Press("a", "down", "a")
}

func labels(m *FormBuilderModel) []string {
	var out []string
	for _, fl := range m.Form().Fields() {
		out = append(out, fl.Label)
	}
	return out
}

func TestFormBuilderInitListsFolders(t *testing.T) {
	h := newFormHarness(t, "Youth", "Events")

	got := h.m.Folders().Folders()
	if len(got) != 2 || got[0].Name != "Events" || got[1].Name != "Youth" {
		t.Errorf("folders = %v, want Events and Youth sorted", got)
	}
	testhelpers.AssertContains(t, h.m.View(), "Form Builder", "no folder")
}

func TestFormBuilderSaveNeedsFolder(t *testing.T) {
	h := newFormHarness(t, "Events")
	h.draft("Sign-up")

	if got := labels(h.m); strings.Join(got, ",") != "Text,Paragraph" {
		t.Fatalf("fields = %v", got)
	}

	h.d.Press("ctrl+s")
	if n := h.srv.Count(http.MethodPost, "/forms"); n != 0 {
		t.Fatalf("POST count = %d before a folder was chosen", n)
	}
	alert := h.m.Controller().Alert()
	if alert == nil || alert.Kind != lifecycle.FolderRequired {
		t.Errorf("alert = %v, want FolderRequired", alert)
	}

	h.d.Press("f", "ctrl+s")

	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Fatalf("phase = %v, want Clean (alert %v)", h.m.Controller().Phase(), h.m.Controller().Alert())
	}
	saved, ok := h.srv.Form(h.m.Form().ID())
	if !ok {
		t.Fatalf("form %q not on the server", h.m.Form().ID())
	}
	if saved.Title != "Sign-up" || saved.Folder != "folder-1" {
		t.Errorf("saved %q in %q", saved.Title, saved.Folder)
	}
	testhelpers.AssertFieldLabels(t, saved, "Text", "Paragraph")
}

func TestFormBuilderOpen(t *testing.T) {
	h := newFormHarness(t, "Events")
	id := h.srv.PutForm(testhelpers.NewFormFixture("Retreat").
		InFolder("folder-1").
		WithField(models.FieldText, "Name").
		WithField(models.FieldRadio, "Attending").
		Build())

	h.d.Run(h.m.Open(id))

	if h.m.Controller().Phase() != lifecycle.Clean {
		t.Fatalf("phase = %v, want Clean", h.m.Controller().Phase())
	}
	if f, ok := h.m.Folders().Selected(); !ok || f.Name != "Events" {
		t.Errorf("selected folder = %v", f)
	}
	if h.m.Canvas().Row() != 0 {
		t.Errorf("focused row = %d, want 0", h.m.Canvas().Row())
	}
	testhelpers.AssertContains(t, h.m.View(), "Retreat", "Events", "Attending")
}

func TestFormBuilderInspector(t *testing.T) {
	h := newFormHarness(t, "Events")
	h.d.Press("a", "tab", "e")

	if !h.m.Canvas().InspectorOpen() {
		t.Fatal("inspector not open")
	}

	// Relabel the field.
	h.d.Press("enter", "backspace", "backspace", "backspace", "backspace").Type("Full name").Press("enter")
	// Walk down to required and toggle it.
	h.d.Press("down", "down", "down", "down", "down", "space")

	fl := h.m.Form().Fields()[0]
	if fl.Label != "Full name" {
		t.Errorf("label = %q", fl.Label)
	}
	if !fl.Required {
		t.Error("required not toggled")
	}
	testhelpers.AssertContains(t, h.m.View(), "Inspector", "Full name")

	h.d.Press("esc")
	if h.m.Canvas().InspectorOpen() {
		t.Error("esc left the inspector open")
	}
}

func TestFormBuilderCreateFolder(t *testing.T) {
	h := newFormHarness(t)

	h.d.Press("+").Type("Retreats").Press("enter")

	f, ok := h.m.Folders().Selected()
	if !ok || f.Name != "Retreats" {
		t.Fatalf("selected folder = %v", f)
	}
	if h.m.Form().Folder() != f.ID {
		t.Errorf("form folder = %q, want %q", h.m.Form().Folder(), f.ID)
	}
	if n := h.srv.Count(http.MethodPost, "/forms/folders"); n != 1 {
		t.Errorf("folder POST count = %d", n)
	}

	// The same name again is refused before reaching the server.
	h.d.Press("+").Type("retreats").Press("enter")
	if n := h.srv.Count(http.MethodPost, "/forms/folders"); n != 1 {
		t.Errorf("duplicate folder reached the server (%d calls)", n)
	}
}

func TestFormBuilderReorderRows(t *testing.T) {
	h := newFormHarness(t)
	h.draft("Order")

	h.d.Press("tab", "up", "space", "down", "enter")

	if got := strings.Join(labels(h.m), ","); got != "Paragraph,Text" {
		t.Errorf("fields = %s, want Paragraph,Text", got)
	}
	if h.m.Canvas().Row() != 1 {
		t.Errorf("focus = %d, want the moved row", h.m.Canvas().Row())
	}
}

func TestFormBuilderInsertFromPalette(t *testing.T) {
	h := newFormHarness(t)
	h.draft("Insert")

	// Grab Email, cross to the canvas and drop below the first row.
	h.d.Press("down", "space", "tab", "up", "enter")

	if got := strings.Join(labels(h.m), ","); got != "Text,Email,Paragraph" {
		t.Errorf("fields = %s", got)
	}
	if h.m.Canvas().Row() != 1 {
		t.Errorf("focus = %d, want the inserted row", h.m.Canvas().Row())
	}
}

func TestFormBuilderDropOutsideCanvas(t *testing.T) {
	h := newFormHarness(t)
	h.draft("Outside")

	h.d.Press("space", "enter")

	if h.m.Form().Len() != 2 {
		t.Errorf("fields = %v, want the drop ignored", labels(h.m))
	}
}

func TestFormBuilderRemoveField(t *testing.T) {
	h := newFormHarness(t)
	h.draft("Remove")

	h.d.Press("tab", "x")

	if got := strings.Join(labels(h.m), ","); got != "Text" {
		t.Errorf("fields = %s", got)
	}
}

func TestFormBuilderTitleConflict(t *testing.T) {
	h := newFormHarness(t, "Events")
	existing := h.srv.PutForm(testhelpers.NewFormFixture("Sign-up").InFolder("folder-1").Build())

	h.draft("sign-up")
	h.d.Press("f", "ctrl+s")

	if h.m.Controller().Phase() != lifecycle.ConflictPending {
		t.Fatalf("phase = %v, want ConflictPending", h.m.Controller().Phase())
	}
	testhelpers.AssertContains(t, h.m.View(), "Title already in use")

	h.d.Press("y")

	if h.m.Form().ID() != existing {
		t.Errorf("id = %q, want %q", h.m.Form().ID(), existing)
	}
	saved, _ := h.srv.Form(existing)
	testhelpers.AssertFieldLabels(t, saved, "Text", "Paragraph")
}

func TestFormBuilderPreview(t *testing.T) {
	h := newFormHarness(t)
	h.draft("Picnic")

	h.d.Press("p")
	testhelpers.AssertContains(t, h.m.View(), "Preview")

	h.d.Press("p")
	if strings.Contains(h.m.View(), "Preview") {
		t.Error("preview still shown after toggling off")
	}
}

func TestRenderFormPreview(t *testing.T) {
	picker := lifecycle.NewFolderPicker(nil)
	picker.SetFolders([]models.Folder{{ID: "folder-1", Name: "Events"}})
	doc := testhelpers.NewFormFixture("Picnic").
		InFolder("folder-1").
		WithDescription("Bring a dish to share.").
		WithField(models.FieldText, "Name").
		WithField(models.FieldRadio, "Attending").
		Build()
	doc.Fields[0].Required = true

	out := renderFormPreview(doc, picker, 40)

	testhelpers.AssertContains(t, out, "Picnic", "Events", "Bring a dish", "Name *", "Attending", "Yes", "No")
}
