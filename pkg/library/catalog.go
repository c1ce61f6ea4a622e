package library

import (
	"fmt"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/models"
)

// Template is a palette entry of the form builder.
type Template struct {
	Type        models.FieldType
	Name        string
	Description string
	Field       models.Field
}

// Catalog is the static set of field templates, in palette order.
type Catalog struct {
	templates []Template
}

// DefaultCatalog returns one template per supported field type.
func DefaultCatalog() *Catalog {
	choices := []models.FieldOption{
		{Label: "Option 1", Value: "option_1"},
		{Label: "Option 2", Value: "option_2"},
	}
	return &Catalog{templates: []Template{
		{models.FieldText, "Text", "Single line of text", models.Field{Label: "Text", Placeholder: "Enter text"}},
		{models.FieldTextarea, "Paragraph", "Multi-line text", models.Field{Label: "Paragraph", Placeholder: "Enter details"}},
		{models.FieldEmail, "Email", "Email address", models.Field{Label: "Email", Placeholder: "name@example.com"}},
		{models.FieldTel, "Phone", "Telephone number", models.Field{Label: "Phone", Placeholder: "(555) 555-5555"}},
		{models.FieldNumber, "Number", "Numeric value", models.Field{Label: "Number"}},
		{models.FieldDate, "Date", "Calendar date", models.Field{Label: "Date"}},
		{models.FieldTime, "Time", "Time of day", models.Field{Label: "Time"}},
		{models.FieldSelect, "Dropdown", "Pick one from a list", models.Field{Label: "Dropdown", Options: choices}},
		{models.FieldRadio, "Multiple choice", "Pick one of several", models.Field{Label: "Multiple choice", Options: choices}},
		{models.FieldCheckbox, "Checkbox", "Yes or no", models.Field{Label: "Checkbox"}},
	}}
}

func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		t.Field = t.Field.Clone()
		out[i] = t
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.templates)
}

func (c *Catalog) Lookup(t models.FieldType) (Template, bool) {
	for _, tmpl := range c.templates {
		if tmpl.Type == t {
			tmpl.Field = tmpl.Field.Clone()
			return tmpl, true
		}
	}
	return Template{}, false
}

// Clone materializes a template as a new field with a fresh id.
func (c *Catalog) Clone(t models.FieldType) (models.Field, error) {
	tmpl, ok := c.Lookup(t)
	if !ok {
		return models.Field{}, fmt.Errorf("%w: no template for field type %q", document.ErrInvalidValue, t)
	}
	f := tmpl.Field
	f.ID = document.NewID()
	f.Type = t
	f.Width = models.WidthFull
	return f, nil
}
