package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/covenant/covenant-terminal/pkg/models"
)

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrFolderRequired = errors.New("folder is required")
)

// Form owns the form schema being edited.
type Form struct {
	mu      sync.RWMutex
	doc     models.FormSchema
	version uint64

	observers
}

// NewForm returns a model holding the canonical blank form.
func NewForm() *Form {
	return &Form{doc: models.NewFormSchema()}
}

// Load replaces the document. Fields with empty or duplicate ids get fresh
// ones; unknown field types are rejected.
func (f *Form) Load(doc models.FormSchema) error {
	next := doc.Clone()
	seen := make(map[string]bool, len(next.Fields))
	for i := range next.Fields {
		fl := &next.Fields[i]
		if !fl.Type.Valid() {
			return fmt.Errorf("%w: field %q has type %q", ErrInvalidValue, fl.Label, fl.Type)
		}
		if fl.ID == "" || seen[fl.ID] {
			fl.ID = NewID()
		}
		seen[fl.ID] = true
	}
	f.replace(next)
	return nil
}

// Reset installs the canonical blank form.
func (f *Form) Reset() {
	f.replace(models.NewFormSchema())
}

func (f *Form) replace(doc models.FormSchema) {
	f.mu.Lock()
	f.doc = doc
	f.version++
	f.mu.Unlock()
	f.notify()
}

// Document returns a deep copy of the current form.
func (f *Form) Document() models.FormSchema {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc.Clone()
}

func (f *Form) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

func (f *Form) ID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc.ID
}

// SetID records the remote identity without notifying observers.
func (f *Form) SetID(id string) {
	f.mu.Lock()
	f.doc.ID = id
	f.mu.Unlock()
}

func (f *Form) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc.Title
}

func (f *Form) Folder() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc.Folder
}

// Fields returns a copy of the ordered field list.
func (f *Form) Fields() []models.Field {
	return f.Document().Fields
}

// Len returns the number of fields.
func (f *Form) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.doc.Fields)
}

// IndexOf returns the position of a field or -1.
func (f *Form) IndexOf(id string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return indexOf(f.doc.Fields, id)
}

// Validate reports whether the form can be saved.
func (f *Form) Validate() error {
	doc := f.Document()
	if strings.TrimSpace(doc.Title) == "" {
		return ErrTitleRequired
	}
	if doc.Folder == "" {
		return ErrFolderRequired
	}
	return nil
}

// AddItem inserts a field at index, or appends when index is negative or
// past the end. Returns the id the field was stored under.
func (f *Form) AddItem(field models.Field, index int) (string, error) {
	if !field.Type.Valid() {
		return "", fmt.Errorf("%w: field type %q", ErrInvalidValue, field.Type)
	}
	var id string
	err := f.mutate(func(doc *models.FormSchema) (bool, error) {
		item := field.Clone()
		if item.ID == "" || indexOf(doc.Fields, item.ID) >= 0 {
			item.ID = NewID()
		}
		if index < 0 || index >= len(doc.Fields) {
			doc.Fields = append(doc.Fields, item)
		} else {
			doc.Fields = append(doc.Fields, models.Field{})
			copy(doc.Fields[index+1:], doc.Fields[index:])
			doc.Fields[index] = item
		}
		id = item.ID
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveItem deletes a field.
func (f *Form) RemoveItem(id string) error {
	return f.mutate(func(doc *models.FormSchema) (bool, error) {
		i := indexOf(doc.Fields, id)
		if i < 0 {
			return false, fmt.Errorf("%w: field %s", ErrNotFound, id)
		}
		doc.Fields = append(doc.Fields[:i:i], doc.Fields[i+1:]...)
		return true, nil
	})
}

// MoveItem moves a field so that it ends up at index. A negative or
// past-the-end index moves it last.
func (f *Form) MoveItem(id string, index int) error {
	return f.mutate(func(doc *models.FormSchema) (bool, error) {
		from := indexOf(doc.Fields, id)
		if from < 0 {
			return false, fmt.Errorf("%w: field %s", ErrNotFound, id)
		}
		if index < 0 || index >= len(doc.Fields) {
			index = len(doc.Fields) - 1
		}
		return shift(doc.Fields, from, index), nil
	})
}

// Reorder moves the field at from to position to, shifting the fields in
// between by one.
func (f *Form) Reorder(from, to int) error {
	return f.mutate(func(doc *models.FormSchema) (bool, error) {
		n := len(doc.Fields)
		if from < 0 || from >= n || to < 0 || to >= n {
			return false, fmt.Errorf("%w: %d -> %d of %d", ErrIndexOutOfRange, from, to, n)
		}
		return shift(doc.Fields, from, to), nil
	})
}

func shift(fields []models.Field, from, to int) bool {
	if from == to {
		return false
	}
	item := fields[from]
	if from < to {
		copy(fields[from:to], fields[from+1:to+1])
	} else {
		copy(fields[to+1:from+1], fields[to:from])
	}
	fields[to] = item
	return true
}

// SetProperty edits form metadata or a field attribute.
//
// Paths: title, description, folder, visible, field.<id>.<attr> where attr
// is one of type, label, placeholder, helpText, width, required, options,
// validation.min, validation.max, validation.minLength, validation.maxLength,
// validation.pattern.
func (f *Form) SetProperty(path string, value any) error {
	return f.mutate(func(doc *models.FormSchema) (bool, error) {
		switch path {
		case "title", "description", "folder":
			s, err := asString(path, value)
			if err != nil {
				return false, err
			}
			target := map[string]*string{"title": &doc.Title, "description": &doc.Description, "folder": &doc.Folder}[path]
			if *target == s {
				return false, nil
			}
			*target = s
			return true, nil
		case "visible":
			b, err := asBool(path, value)
			if err != nil {
				return false, err
			}
			if b == doc.Visible {
				return false, nil
			}
			doc.Visible = b
			return true, nil
		}
		parts := strings.SplitN(path, ".", 3)
		if len(parts) != 3 || parts[0] != "field" {
			return false, unknown(path)
		}
		i := indexOf(doc.Fields, parts[1])
		if i < 0 {
			return false, fmt.Errorf("%w: field %s", ErrNotFound, parts[1])
		}
		before := FormSnapshot(models.FormSchema{Fields: []models.Field{doc.Fields[i]}})
		if err := setFieldAttr(&doc.Fields[i], parts[2], value); err != nil {
			return false, err
		}
		after := FormSnapshot(models.FormSchema{Fields: []models.Field{doc.Fields[i]}})
		return before != after, nil
	})
}

func setFieldAttr(fl *models.Field, attr string, value any) error {
	path := "field." + attr
	switch attr {
	case "type":
		var t models.FieldType
		switch v := value.(type) {
		case models.FieldType:
			t = v
		case string:
			t = models.FieldType(v)
		default:
			return invalid(path, value)
		}
		if !t.Valid() {
			return invalid(path, value)
		}
		fl.Type = t
	case "label", "placeholder", "helpText":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		switch attr {
		case "label":
			fl.Label = s
		case "placeholder":
			fl.Placeholder = s
		default:
			fl.HelpText = s
		}
	case "width":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		if s != "" && s != models.WidthFull && s != models.WidthHalf && s != models.WidthThird {
			return invalid(path, value)
		}
		fl.Width = s
	case "required":
		b, err := asBool(path, value)
		if err != nil {
			return err
		}
		fl.Required = b
	case "options":
		opts, err := asOptions(path, value)
		if err != nil {
			return err
		}
		fl.Options = opts
	default:
		key, ok := strings.CutPrefix(attr, "validation.")
		if !ok {
			return unknown(path)
		}
		return setValidation(fl, key, value)
	}
	return nil
}

func setValidation(fl *models.Field, key string, value any) error {
	path := "field.validation." + key
	v := models.FieldValidation{}
	if fl.Validation != nil {
		v = *fl.Validation
	}
	var err error
	switch key {
	case "min":
		v.Min, err = asOptionalFloat(path, value)
	case "max":
		v.Max, err = asOptionalFloat(path, value)
	case "minLength":
		v.MinLength, err = asOptionalInt(path, value)
	case "maxLength":
		v.MaxLength, err = asOptionalInt(path, value)
	case "pattern":
		if value == nil {
			v.Pattern = ""
		} else {
			v.Pattern, err = asString(path, value)
		}
	default:
		return unknown(path)
	}
	if err != nil {
		return err
	}
	if v.IsZero() {
		fl.Validation = nil
	} else {
		fl.Validation = &v
	}
	return nil
}

// asOptions accepts option structs or bare strings, which become options
// whose value equals the label.
func asOptions(path string, value any) ([]models.FieldOption, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []models.FieldOption:
		return append([]models.FieldOption(nil), v...), nil
	case []string:
		opts := make([]models.FieldOption, 0, len(v))
		for _, s := range v {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			opts = append(opts, models.FieldOption{Label: s, Value: s})
		}
		return opts, nil
	}
	return nil, invalid(path, value)
}

func (f *Form) mutate(fn func(doc *models.FormSchema) (bool, error)) error {
	f.mu.Lock()
	next := f.doc.Clone()
	changed, err := fn(&next)
	if err != nil || !changed {
		f.mu.Unlock()
		return err
	}
	f.doc = next
	f.version++
	f.mu.Unlock()
	f.notify()
	return nil
}

// Snapshot returns the normalized form used for dirty detection.
func (f *Form) Snapshot() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return FormSnapshot(f.doc)
}

func indexOf(fields []models.Field, id string) int {
	if id == "" {
		return -1
	}
	for i, fl := range fields {
		if fl.ID == id {
			return i
		}
	}
	return -1
}
