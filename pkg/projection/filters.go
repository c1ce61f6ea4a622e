package projection

import (
	"fmt"
	"strings"
	"time"
)

// Filter is one listing filter with its default value.
type Filter struct {
	Name    string
	Value   string
	Default string
	// Flag filters render as just their name when set.
	Flag bool
}

// ActiveFilterLabels returns a label for every filter not at its default,
// in the given order.
func ActiveFilterLabels(filters []Filter) []string {
	var out []string
	for _, f := range filters {
		v := strings.TrimSpace(f.Value)
		if v == strings.TrimSpace(f.Default) {
			continue
		}
		if f.Flag {
			out = append(out, f.Name)
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", f.Name, v))
	}
	return out
}

const filterDateLayout = "Jan 2, 2006"

func dateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(filterDateLayout)
}

func flagValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func quoted(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return fmt.Sprintf("%q", s)
}

// LibraryFilters narrows the passage library panel.
type LibraryFilters struct {
	Query string
	Book  string
}

func (f LibraryFilters) Filters() []Filter {
	return []Filter{
		{Name: "Search", Value: quoted(f.Query)},
		{Name: "Book", Value: f.Book},
	}
}

// BulletinFilters narrows a bulletin listing.
type BulletinFilters struct {
	Query      string
	Status     string
	Category   string
	From, To   time.Time
	PinnedOnly bool
}

func (f BulletinFilters) Filters() []Filter {
	return []Filter{
		{Name: "Search", Value: quoted(f.Query)},
		{Name: "Status", Value: titleCase(f.Status), Default: "All"},
		{Name: "Category", Value: f.Category},
		{Name: "From", Value: dateValue(f.From)},
		{Name: "To", Value: dateValue(f.To)},
		{Name: "Pinned only", Value: flagValue(f.PinnedOnly), Flag: true},
	}
}

// EventFilters narrows an event listing.
type EventFilters struct {
	Query            string
	Location         string
	From, To         time.Time
	IncludeRecurring bool
	RegistrationOpen bool
}

func (f EventFilters) Filters() []Filter {
	return []Filter{
		{Name: "Search", Value: quoted(f.Query)},
		{Name: "Location", Value: f.Location},
		{Name: "From", Value: dateValue(f.From)},
		{Name: "To", Value: dateValue(f.To)},
		{Name: "Including recurring", Value: flagValue(f.IncludeRecurring), Flag: true},
		{Name: "Registration open", Value: flagValue(f.RegistrationOpen), Flag: true},
	}
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "All"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
