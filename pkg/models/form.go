package models

// FieldType identifies the input rendered for a form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

// FieldTypes lists every supported field type in palette order.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldEmail, FieldTel, FieldNumber,
	FieldDate, FieldTime, FieldSelect, FieldRadio, FieldCheckbox,
}

// HasOptions reports whether the field type renders a list of choices.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldRadio
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Field widths used by the form renderer.
const (
	WidthFull  = "full"
	WidthHalf  = "half"
	WidthThird = "third"
)

// FieldOption is one choice of a select or radio field.
type FieldOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FieldValidation holds the optional client-side constraints of a field.
type FieldValidation struct {
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// IsZero reports whether no constraint is set.
func (v *FieldValidation) IsZero() bool {
	return v == nil || (v.Min == nil && v.Max == nil && v.MinLength == nil && v.MaxLength == nil && v.Pattern == "")
}

// Field describes a single form input.
type Field struct {
	ID          string           `json:"id" yaml:"id"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string           `json:"helpText,omitempty" yaml:"help_text,omitempty"`
	Width       string           `json:"width,omitempty" yaml:"width,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []FieldOption    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	c := f
	if f.Options != nil {
		c.Options = append([]FieldOption(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		if v.Min != nil {
			x := *v.Min
			v.Min = &x
		}
		if v.Max != nil {
			x := *v.Max
			v.Max = &x
		}
		if v.MinLength != nil {
			x := *v.MinLength
			v.MinLength = &x
		}
		if v.MaxLength != nil {
			x := *v.MaxLength
			v.MaxLength = &x
		}
		c.Validation = &v
	}
	return c
}

// FormSchema is an editable form definition.
type FormSchema struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Folder      string  `json:"folder" yaml:"folder"`
	Visible     bool    `json:"visible" yaml:"visible"`
	Fields      []Field `json:"data" yaml:"data"`
}

// NewFormSchema returns the canonical blank form.
func NewFormSchema() FormSchema {
	return FormSchema{Fields: []Field{}}
}

// Clone returns a deep copy of the form.
func (f FormSchema) Clone() FormSchema {
	c := f
	c.Fields = make([]Field, len(f.Fields))
	for i, fl := range f.Fields {
		c.Fields[i] = fl.Clone()
	}
	return c
}

// Folder groups form schemas. Names are unique.
type Folder struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
