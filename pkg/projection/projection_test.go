package projection

import (
	"reflect"
	"testing"
	"time"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/lifecycle"
	"github.com/covenant/covenant-terminal/pkg/models"
)

func TestPaginationWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{"centered", 3, 7, []string{"1", "…", "2", "3", "4", "5", "6", "…", "7"}},
		{"first page", 0, 7, []string{"1", "2", "3", "4", "5", "…", "7"}},
		{"last page", 6, 7, []string{"1", "…", "3", "4", "5", "6", "7"}},
		{"fits", 1, 4, []string{"1", "2", "3", "4"}},
		{"exactly five", 4, 5, []string{"1", "2", "3", "4", "5"}},
		{"single", 0, 1, []string{"1"}},
		{"current clamped", 40, 12, []string{"1", "…", "8", "9", "10", "11", "12"}},
		{"year", 5, 12, []string{"1", "…", "4", "5", "6", "7", "8", "…", "12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Labels(PaginationWindow(tt.current, tt.total))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PaginationWindow(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestPaginationWindow_MarksCurrent(t *testing.T) {
	for _, b := range PaginationWindow(3, 7) {
		if b.Current != (b.Page == 3) {
			t.Errorf("button %q current = %v", b.Label, b.Current)
		}
		if b.Ellipsis && b.Page != -1 {
			t.Errorf("ellipsis carries page %d", b.Page)
		}
	}
}

func TestPageDays_TwoHundredDays(t *testing.T) {
	doc := models.NewReadingPlan()
	doc.DurationDays = 200
	doc.Readings[100] = []models.Passage{{ID: "p1", Reference: "Psalm 23"}}

	cells := PageDays(doc, 3, 31)
	if len(cells) != 31 || cells[0].Day != 94 || cells[30].Day != 124 {
		t.Fatalf("page 3 = %d cells, %d..%d", len(cells), cells[0].Day, cells[len(cells)-1].Day)
	}
	if len(cells[6].Passages) != 1 || cells[6].Passages[0].ID != "p1" {
		t.Errorf("day 100 passages = %v", cells[6].Passages)
	}
	if cells[0].Passages == nil {
		t.Error("empty day has a nil passage list")
	}
}

func TestPageDays_CoverEveryDayOnce(t *testing.T) {
	for _, duration := range []int{1, 7, 30, 31, 32, 200, 365, 366} {
		for _, size := range []int{1, 7, 31} {
			doc := models.ReadingPlan{DurationDays: duration}
			seen := make(map[int]int)
			for page := 0; page < TotalPages(duration, size); page++ {
				for _, c := range PageDays(doc, page, size) {
					seen[c.Day]++
				}
			}
			if len(seen) != duration {
				t.Errorf("duration %d size %d covered %d days", duration, size, len(seen))
			}
			for day, n := range seen {
				if day < 1 || day > duration || n != 1 {
					t.Errorf("duration %d size %d: day %d seen %d times", duration, size, day, n)
				}
			}
		}
	}
}

func TestPageDays_OutOfRange(t *testing.T) {
	doc := models.ReadingPlan{DurationDays: 10}
	if got := PageDays(doc, 1, 31); got != nil {
		t.Errorf("page past the end = %v", got)
	}
	if got := PageDays(doc, -1, 31); got != nil {
		t.Errorf("negative page = %v", got)
	}
}

func TestDateLabels(t *testing.T) {
	anchor := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	got := DateLabels(anchor, []int{1, 2, 3, 366})
	want := map[int]string{
		1:   "Feb 27 Fri",
		2:   "Feb 28 Sat",
		3:   "Mar 1 Sun",
		366: "Feb 27 Sat",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DateLabels() = %v, want %v", got, want)
	}
}

func TestSaveButtonEnabled(t *testing.T) {
	tests := []struct {
		name  string
		state SaveState
		want  bool
	}{
		{"dirty named plan", SaveState{Phase: lifecycle.Dirty, Name: "Summer Reading"}, true},
		{"failed can retry", SaveState{Phase: lifecycle.Failed, Name: "Summer Reading"}, true},
		{"clean", SaveState{Phase: lifecycle.Clean, Name: "Summer Reading"}, false},
		{"saving", SaveState{Phase: lifecycle.Saving, Name: "Summer Reading"}, false},
		{"blank name", SaveState{Phase: lifecycle.Dirty, Name: "  "}, false},
		{"form without folder", SaveState{Phase: lifecycle.Dirty, Name: "Card", NeedsFolder: true}, false},
		{"form with folder", SaveState{Phase: lifecycle.Dirty, Name: "Card", Folder: "f1", NeedsFolder: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SaveButtonEnabled(tt.state); got != tt.want {
				t.Errorf("SaveButtonEnabled(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestActiveFilterLabels(t *testing.T) {
	if got := ActiveFilterLabels(BulletinFilters{}.Filters()); len(got) != 0 {
		t.Errorf("default bulletin filters = %v", got)
	}
	if got := ActiveFilterLabels(BulletinFilters{Status: "all"}.Filters()); len(got) != 0 {
		t.Errorf("status all = %v", got)
	}

	b := BulletinFilters{
		Query:      " easter ",
		Status:     "draft",
		From:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PinnedOnly: true,
	}
	want := []string{`Search: "easter"`, "Status: Draft", "From: Mar 1, 2026", "Pinned only"}
	if got := ActiveFilterLabels(b.Filters()); !reflect.DeepEqual(got, want) {
		t.Errorf("bulletin labels = %v, want %v", got, want)
	}

	e := EventFilters{Location: "Main hall", RegistrationOpen: true}
	want = []string{"Location: Main hall", "Registration open"}
	if got := ActiveFilterLabels(e.Filters()); !reflect.DeepEqual(got, want) {
		t.Errorf("event labels = %v, want %v", got, want)
	}

	l := LibraryFilters{Book: "John"}
	if got := ActiveFilterLabels(l.Filters()); !reflect.DeepEqual(got, []string{"Book: John"}) {
		t.Errorf("library labels = %v", got)
	}
}

func TestPageCache(t *testing.T) {
	plan := document.NewPlan()
	cache := NewPageCache(4)
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	first := cache.Page(plan, 0, 31, anchor, false)
	_ = cache.Page(plan, 0, 31, anchor, false)
	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses", hits, misses)
	}
	if first[0].Label != "" {
		t.Error("label without overlay")
	}

	labelled := cache.Page(plan, 0, 31, anchor, true)
	if labelled[0].Label != "Jun 1 Mon" {
		t.Errorf("overlay label = %q", labelled[0].Label)
	}

	if _, err := plan.AddItem(models.Passage{Reference: "Mark 1"}, document.AtEnd(2)); err != nil {
		t.Fatal(err)
	}
	after := cache.Page(plan, 0, 31, anchor, false)
	if len(after[1].Passages) != 1 {
		t.Error("cache served a page from before the mutation")
	}

	for page := 0; page < 10; page++ {
		cache.Page(plan, page, 31, anchor, false)
	}
	if n := len(cache.entries); n > 4 {
		t.Errorf("cache holds %d entries, limit 4", n)
	}
}
