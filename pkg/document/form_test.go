package document

import (
	"errors"
	"testing"

	"github.com/covenant/covenant-terminal/pkg/models"
)

func field(id string, typ models.FieldType) models.Field {
	return models.Field{ID: id, Type: typ, Label: id}
}

func newTestForm(t *testing.T, ids ...string) *Form {
	t.Helper()
	f := NewForm()
	for _, id := range ids {
		if _, err := f.AddItem(field(id, models.FieldText), -1); err != nil {
			t.Fatalf("AddItem(%s): %v", id, err)
		}
	}
	return f
}

func fieldOrder(f *Form) string {
	s := ""
	for _, fl := range f.Fields() {
		s += fl.ID
	}
	return s
}

func TestForm_AddItem(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"append", -1, "abcx"},
		{"front", 0, "xabc"},
		{"middle", 2, "abxc"},
		{"past end appends", 10, "abcx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm(t, "a", "b", "c")
			if _, err := f.AddItem(field("x", models.FieldEmail), tt.index); err != nil {
				t.Fatal(err)
			}
			if got := fieldOrder(f); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForm_AddItemRejectsUnknownType(t *testing.T) {
	f := NewForm()
	if _, err := f.AddItem(field("a", "signature"), -1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("AddItem() error = %v, want ErrInvalidValue", err)
	}
}

func TestForm_AddItemReissuesCollidingID(t *testing.T) {
	f := newTestForm(t, "a")
	id, err := f.AddItem(field("a", models.FieldText), -1)
	if err != nil {
		t.Fatal(err)
	}
	if id == "a" {
		t.Error("colliding id was kept")
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}

func TestForm_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     string
		wantErr  error
	}{
		{"down", 0, 2, "bcad", nil},
		{"up", 3, 1, "adbc", nil},
		{"same", 1, 1, "abcd", nil},
		{"adjacent", 1, 2, "acbd", nil},
		{"from out of range", 4, 0, "abcd", ErrIndexOutOfRange},
		{"to negative", 0, -1, "abcd", ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm(t, "a", "b", "c", "d")
			err := f.Reorder(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Reorder() error = %v, want %v", err, tt.wantErr)
			}
			if got := fieldOrder(f); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForm_MoveAndRemove(t *testing.T) {
	f := newTestForm(t, "a", "b", "c")
	if err := f.MoveItem("a", -1); err != nil {
		t.Fatal(err)
	}
	if got := fieldOrder(f); got != "bca" {
		t.Errorf("order = %q, want bca", got)
	}
	if err := f.RemoveItem("c"); err != nil {
		t.Fatal(err)
	}
	if got := fieldOrder(f); got != "ba" {
		t.Errorf("order = %q, want ba", got)
	}
	if err := f.RemoveItem("c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveItem() error = %v, want ErrNotFound", err)
	}
	if err := f.MoveItem("zz", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("MoveItem() error = %v, want ErrNotFound", err)
	}
}

func TestForm_SetProperty(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		value   any
		wantErr error
		check   func(models.FormSchema) bool
	}{
		{"title", "title", "Membership", nil, func(d models.FormSchema) bool { return d.Title == "Membership" }},
		{"folder", "folder", "f1", nil, func(d models.FormSchema) bool { return d.Folder == "f1" }},
		{"label", "field.a.label", "Full name", nil, func(d models.FormSchema) bool { return d.Fields[0].Label == "Full name" }},
		{"type", "field.a.type", "select", nil, func(d models.FormSchema) bool { return d.Fields[0].Type == models.FieldSelect }},
		{"bad type", "field.a.type", "signature", ErrInvalidValue, nil},
		{"width", "field.a.width", "half", nil, func(d models.FormSchema) bool { return d.Fields[0].Width == "half" }},
		{"bad width", "field.a.width", "quarter", ErrInvalidValue, nil},
		{"required", "field.a.required", true, nil, func(d models.FormSchema) bool { return d.Fields[0].Required }},
		{"options from strings", "field.a.options", []string{"Yes", " ", "No"}, nil, func(d models.FormSchema) bool {
			return len(d.Fields[0].Options) == 2 && d.Fields[0].Options[1].Value == "No"
		}},
		{"validation max length", "field.a.validation.maxLength", "40", nil, func(d models.FormSchema) bool {
			return d.Fields[0].Validation != nil && *d.Fields[0].Validation.MaxLength == 40
		}},
		{"validation cleared", "field.a.validation.pattern", nil, nil, func(d models.FormSchema) bool { return d.Fields[0].Validation == nil }},
		{"unknown validation", "field.a.validation.step", 1, ErrUnknownProperty, nil},
		{"unknown field", "field.zz.label", "x", ErrNotFound, nil},
		{"unknown path", "owner", "x", ErrUnknownProperty, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm(t, "a")
			err := f.SetProperty(tt.path, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetProperty(%s) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(f.Document()) {
				t.Errorf("SetProperty(%s) not applied: %+v", tt.path, f.Document())
			}
		})
	}
}

func TestForm_Validate(t *testing.T) {
	f := NewForm()
	if err := f.Validate(); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Validate() = %v, want ErrTitleRequired", err)
	}
	_ = f.SetProperty("title", "  Intake ")
	if err := f.Validate(); !errors.Is(err, ErrFolderRequired) {
		t.Errorf("Validate() = %v, want ErrFolderRequired", err)
	}
	_ = f.SetProperty("folder", "f1")
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestForm_SnapshotNormalizesEmptyCollections(t *testing.T) {
	a := newTestForm(t, "a")
	b := NewForm()
	err := b.Load(models.FormSchema{Fields: []models.Field{{
		ID: "a", Type: models.FieldText, Label: "a",
		Options:    []models.FieldOption{},
		Validation: &models.FieldValidation{},
	}}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Snapshot() != b.Snapshot() {
		t.Errorf("snapshots differ:\n%s\n%s", a.Snapshot(), b.Snapshot())
	}
}

func TestForm_LoadRejectsUnknownType(t *testing.T) {
	err := NewForm().Load(models.FormSchema{Fields: []models.Field{{ID: "a", Type: "hologram"}}})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Load() error = %v, want ErrInvalidValue", err)
	}
}
