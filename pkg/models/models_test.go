package models

import (
	"testing"
	"time"
)

func TestDefaultSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{"empty base url", func(s *Settings) { s.API.BaseURL = "" }, true},
		{"malformed base url", func(s *Settings) { s.API.BaseURL = "not a url" }, true},
		{"negative timeout", func(s *Settings) { s.API.Timeout = -time.Second }, true},
		{"zero page size", func(s *Settings) { s.Builder.PageSize = 0 }, true},
		{"page size above a year", func(s *Settings) { s.Builder.PageSize = 400 }, true},
		{"unknown log level", func(s *Settings) { s.Log.Level = "trace" }, true},
		{"upper case log level", func(s *Settings) { s.Log.Level = "DEBUG" }, false},
		{"empty log level", func(s *Settings) { s.Log.Level = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogLevelNormalized(t *testing.T) {
	s := DefaultSettings()
	s.Log.Level = "Warn"
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if s.Log.Level != "warn" {
		t.Errorf("level = %q, want warn", s.Log.Level)
	}
}

func TestReadingPlanClone(t *testing.T) {
	verse := 16
	plan := NewReadingPlan()
	plan.Name = "Gospels"
	plan.Readings[1] = []Passage{{ID: "p1", Reference: "John 3:16", Book: "John", ChapterStart: 3, ChapterEnd: 3, VerseStart: &verse}}
	plan.Readings[2] = []Passage{}

	c := plan.Clone()
	*c.Readings[1][0].VerseStart = 17
	c.Readings[1][0].Reference = "John 3:17"
	c.Readings[3] = []Passage{{ID: "p2"}}

	if verse != 16 || plan.Readings[1][0].Reference != "John 3:16" {
		t.Errorf("clone shares passage state with the original: %+v", plan.Readings[1][0])
	}
	if _, ok := plan.Readings[3]; ok {
		t.Error("clone shares the readings map")
	}
	if _, ok := c.Readings[2]; ok {
		t.Error("empty day survived the clone")
	}
}

func TestPassageCount(t *testing.T) {
	plan := NewReadingPlan()
	if n := plan.PassageCount(); n != 0 {
		t.Errorf("blank plan count = %d", n)
	}
	plan.Readings[1] = []Passage{{ID: "a"}, {ID: "b"}}
	plan.Readings[40] = []Passage{{ID: "c"}}
	if n := plan.PassageCount(); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if plan.DurationDays != DefaultPlanDuration {
		t.Errorf("duration = %d", plan.DurationDays)
	}
}

func TestFormSchemaClone(t *testing.T) {
	minLen := 2
	form := NewFormSchema()
	form.Fields = append(form.Fields, Field{
		ID:         "f1",
		Type:       FieldRadio,
		Label:      "Attending",
		Options:    []FieldOption{{Label: "Yes", Value: "yes"}},
		Validation: &FieldValidation{MinLength: &minLen},
	})

	c := form.Clone()
	c.Fields[0].Options[0].Label = "No"
	*c.Fields[0].Validation.MinLength = 5
	c.Fields[0].Label = "Changed"

	f := form.Fields[0]
	if f.Options[0].Label != "Yes" || *f.Validation.MinLength != 2 || f.Label != "Attending" {
		t.Errorf("clone shares field state with the original: %+v", f)
	}
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		typ         FieldType
		valid, opts bool
	}{
		{FieldText, true, false},
		{FieldSelect, true, true},
		{FieldRadio, true, true},
		{FieldCheckbox, true, false},
		{FieldType("signature"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.typ.HasOptions(); got != tt.opts {
				t.Errorf("HasOptions() = %v, want %v", got, tt.opts)
			}
		})
	}
}

func TestFieldValidationIsZero(t *testing.T) {
	var nilV *FieldValidation
	if !nilV.IsZero() {
		t.Error("nil validation is not zero")
	}
	if !(&FieldValidation{}).IsZero() {
		t.Error("empty validation is not zero")
	}
	if (&FieldValidation{Pattern: "^[0-9]+$"}).IsZero() {
		t.Error("pattern counted as zero")
	}
}
