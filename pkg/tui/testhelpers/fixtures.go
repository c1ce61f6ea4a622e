package testhelpers

import (
	"fmt"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// PlanFixture builds reading plans for tests.
type PlanFixture struct {
	plan models.ReadingPlan
	n    int
}

func NewPlanFixture(name string) *PlanFixture {
	p := models.NewReadingPlan()
	p.Name = name
	return &PlanFixture{plan: p}
}

func (f *PlanFixture) WithDuration(days int) *PlanFixture {
	f.plan.DurationDays = days
	return f
}

func (f *PlanFixture) WithID(id string) *PlanFixture {
	f.plan.ID = id
	return f
}

func (f *PlanFixture) Visible() *PlanFixture {
	f.plan.Visible = true
	return f
}

// WithReading schedules a whole-chapter reading on day.
func (f *PlanFixture) WithReading(day int, book string, chapter int) *PlanFixture {
	f.n++
	f.plan.Readings[day] = append(f.plan.Readings[day], models.Passage{
		ID:           fmt.Sprintf("p%d", f.n),
		Reference:    fmt.Sprintf("%s %d", book, chapter),
		Book:         book,
		ChapterStart: chapter,
		ChapterEnd:   chapter,
	})
	return f
}

func (f *PlanFixture) Build() models.ReadingPlan {
	return f.plan.Clone()
}

// FormFixture builds form schemas for tests.
type FormFixture struct {
	form models.FormSchema
	n    int
}

func NewFormFixture(title string) *FormFixture {
	f := models.NewFormSchema()
	f.Title = title
	return &FormFixture{form: f}
}

func (f *FormFixture) InFolder(id string) *FormFixture {
	f.form.Folder = id
	return f
}

func (f *FormFixture) WithDescription(s string) *FormFixture {
	f.form.Description = s
	return f
}

// WithField appends a field of type t labelled label.
func (f *FormFixture) WithField(t models.FieldType, label string) *FormFixture {
	f.n++
	fl := models.Field{ID: fmt.Sprintf("f%d", f.n), Type: t, Label: label}
	if t.HasOptions() {
		fl.Options = []models.FieldOption{{Label: "Yes", Value: "yes"}, {Label: "No", Value: "no"}}
	}
	f.form.Fields = append(f.form.Fields, fl)
	return f
}

func (f *FormFixture) Build() models.FormSchema {
	return f.form.Clone()
}
