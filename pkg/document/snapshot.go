package document

import (
	"encoding/json"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// Snapshots are canonical JSON: struct fields in declaration order, days in
// ascending order, empty days and empty collections omitted. The remote id
// is identity rather than content and is left out.

type planSnapshot struct {
	Name         string        `json:"name"`
	DurationDays int           `json:"durationDays"`
	Visible      bool          `json:"visible"`
	Readings     []daySnapshot `json:"readings,omitempty"`
}

type daySnapshot struct {
	Day      int              `json:"day"`
	Passages []models.Passage `json:"passages"`
}

type formSnapshot struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Folder      string         `json:"folder"`
	Visible     bool           `json:"visible"`
	Fields      []models.Field `json:"fields,omitempty"`
}

// PlanSnapshot serializes the comparable content of a plan.
func PlanSnapshot(doc models.ReadingPlan) string {
	snap := planSnapshot{
		Name:         doc.Name,
		DurationDays: doc.DurationDays,
		Visible:      doc.Visible,
	}
	for _, day := range readingDays(doc) {
		snap.Readings = append(snap.Readings, daySnapshot{Day: day, Passages: doc.Readings[day]})
	}
	return marshal(snap)
}

// FormSnapshot serializes the comparable content of a form.
func FormSnapshot(doc models.FormSchema) string {
	snap := formSnapshot{
		Title:       doc.Title,
		Description: doc.Description,
		Folder:      doc.Folder,
		Visible:     doc.Visible,
	}
	for _, f := range doc.Fields {
		f = f.Clone()
		if f.Validation.IsZero() {
			f.Validation = nil
		}
		snap.Fields = append(snap.Fields, f)
	}
	return marshal(snap)
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Only plain structs, strings and numbers reach here.
		panic(err)
	}
	return string(b)
}
