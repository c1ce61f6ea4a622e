package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// PlanFile is the portable plan format.
type PlanFile struct {
	Name         string                      `json:"name"`
	DurationDays int                         `json:"durationDays"`
	Visible      bool                        `json:"visible"`
	Readings     map[string][]models.Passage `json:"readings"`
}

// FormFile is the portable form format.
type FormFile struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Folder      string         `json:"folder"`
	Visible     bool           `json:"visible"`
	Data        []models.Field `json:"data"`
}

type PlanCodec struct{}

func (PlanCodec) Export(doc models.ReadingPlan) ([]byte, error) {
	out := PlanFile{
		Name:         doc.Name,
		DurationDays: doc.DurationDays,
		Visible:      doc.Visible,
		Readings:     make(map[string][]models.Passage, len(doc.Readings)),
	}
	for day, list := range doc.Readings {
		if len(list) > 0 {
			out.Readings[strconv.Itoa(day)] = list
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Import accepts an object with durationDays >= 1 and readings keyed by
// day numbers inside 1..durationDays.
func (PlanCodec) Import(data []byte) (models.ReadingPlan, error) {
	raw, err := object(data)
	if err != nil {
		return models.ReadingPlan{}, err
	}
	doc := models.NewReadingPlan()

	doc.DurationDays = 0
	if err := json.Unmarshal(raw["durationDays"], &doc.DurationDays); err != nil {
		return models.ReadingPlan{}, errors.New("durationDays must be an integer")
	}
	if doc.DurationDays < 1 {
		return models.ReadingPlan{}, fmt.Errorf("durationDays must be at least 1, got %d", doc.DurationDays)
	}
	if err := optional(raw, "name", &doc.Name); err != nil {
		return models.ReadingPlan{}, err
	}
	if err := optional(raw, "visible", &doc.Visible); err != nil {
		return models.ReadingPlan{}, err
	}

	var readings map[string]json.RawMessage
	if err := json.Unmarshal(raw["readings"], &readings); err != nil || readings == nil {
		return models.ReadingPlan{}, errors.New("readings must map day numbers to passage lists")
	}
	for key, value := range readings {
		day, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(day) != key {
			return models.ReadingPlan{}, fmt.Errorf("reading day %q is not a day number", key)
		}
		if day < 1 || day > doc.DurationDays {
			return models.ReadingPlan{}, fmt.Errorf("reading day %q is outside 1..%d", key, doc.DurationDays)
		}
		var list []models.Passage
		if err := json.Unmarshal(value, &list); err != nil {
			return models.ReadingPlan{}, fmt.Errorf("readings[%s] must be a list of passages", key)
		}
		for i := range list {
			if err := validatePassageShape(list[i]); err != nil {
				return models.ReadingPlan{}, fmt.Errorf("readings[%s][%d]: %w", key, i, err)
			}
		}
		if len(list) > 0 {
			doc.Readings[day] = list
		}
	}
	return doc, nil
}

func validatePassageShape(p models.Passage) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ChapterStart, validation.Min(0)),
		validation.Field(&p.ChapterEnd, validation.Min(0)),
		validation.Field(&p.VerseStart, validation.Min(1)),
		validation.Field(&p.VerseEnd, validation.Min(1)),
	)
}

type FormCodec struct{}

func (FormCodec) Export(doc models.FormSchema) ([]byte, error) {
	out := FormFile{
		Title:       doc.Title,
		Description: doc.Description,
		Folder:      doc.Folder,
		Visible:     doc.Visible,
		Data:        doc.Fields,
	}
	if out.Data == nil {
		out.Data = []models.Field{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Import accepts an object whose data is a list of fields of known types.
func (FormCodec) Import(data []byte) (models.FormSchema, error) {
	raw, err := object(data)
	if err != nil {
		return models.FormSchema{}, err
	}
	doc := models.NewFormSchema()

	if _, ok := raw["data"]; !ok {
		return models.FormSchema{}, errors.New("data is required")
	}
	doc.Fields = nil
	if err := json.Unmarshal(raw["data"], &doc.Fields); err != nil || doc.Fields == nil {
		return models.FormSchema{}, errors.New("data must be a list of fields")
	}
	for _, key := range []string{"title", "description", "folder"} {
		target := map[string]*string{"title": &doc.Title, "description": &doc.Description, "folder": &doc.Folder}[key]
		if err := optional(raw, key, target); err != nil {
			return models.FormSchema{}, err
		}
	}
	if err := optional(raw, "visible", &doc.Visible); err != nil {
		return models.FormSchema{}, err
	}
	for i := range doc.Fields {
		if err := validateFieldShape(doc.Fields[i]); err != nil {
			return models.FormSchema{}, fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return doc, nil
}

func validateFieldShape(f models.Field) error {
	types := make([]any, len(models.FieldTypes))
	for i, t := range models.FieldTypes {
		types[i] = t
	}
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type, validation.Required, validation.In(types...)),
		validation.Field(&f.Width, validation.In(models.WidthFull, models.WidthHalf, models.WidthThird)),
	)
}

func object(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, errors.New("expected a JSON object")
	}
	return raw, nil
}

// optional decodes raw[key] into dst when present and not null.
func optional[T any](raw map[string]json.RawMessage, key string, dst *T) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s has the wrong type", key)
	}
	return nil
}
