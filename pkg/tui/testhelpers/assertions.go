package testhelpers

import (
	"reflect"
	"strings"
	"testing"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// AssertPlanEqual compares plans ignoring their ids.
func AssertPlanEqual(t testing.TB, expected, actual models.ReadingPlan) {
	t.Helper()

	if expected.Name != actual.Name {
		t.Errorf("Plan name mismatch: expected %q, got %q", expected.Name, actual.Name)
	}
	if expected.DurationDays != actual.DurationDays {
		t.Errorf("Plan duration mismatch: expected %d, got %d", expected.DurationDays, actual.DurationDays)
	}
	if expected.Visible != actual.Visible {
		t.Errorf("Plan visibility mismatch: expected %v, got %v", expected.Visible, actual.Visible)
	}
	if !reflect.DeepEqual(references(expected), references(actual)) {
		t.Errorf("Plan readings mismatch: expected %v, got %v", references(expected), references(actual))
	}
}

// references lists each day's references, dropping empty days.
func references(p models.ReadingPlan) map[int][]string {
	out := map[int][]string{}
	for day, list := range p.Readings {
		for _, ps := range list {
			out[day] = append(out[day], ps.Reference)
		}
	}
	return out
}

// AssertFieldLabels checks the form's field labels, in order.
func AssertFieldLabels(t testing.TB, form models.FormSchema, want ...string) {
	t.Helper()
	got := make([]string, len(form.Fields))
	for i, fl := range form.Fields {
		got[i] = fl.Label
	}
	if len(want) == 0 {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Field labels mismatch: expected %v, got %v", want, got)
	}
}

// AssertContains fails when s does not contain every substring.
func AssertContains(t testing.TB, s string, substrings ...string) {
	t.Helper()
	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			t.Errorf("Expected output to contain %q\n%s", sub, s)
		}
	}
}
