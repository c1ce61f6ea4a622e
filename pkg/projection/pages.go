package projection

import (
	"strconv"
	"time"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// WindowWidth is the number of page buttons around the current page.
const WindowWidth = 5

// DateLayout renders overlay dates as month, day and weekday.
const DateLayout = "Jan 2 Mon"

// DayCell is one rendered day of the plan grid.
type DayCell struct {
	Day      int
	Passages []models.Passage
	// Label is the overlay date, empty when the overlay is off.
	Label string
}

// TotalPages is ceil(durationDays / pageSize), never less than 1.
func TotalPages(durationDays, pageSize int) int {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	if durationDays < 1 {
		return 1
	}
	return (durationDays + pageSize - 1) / pageSize
}

// PageDays returns the cells of the zero-based page. Days without
// readings get an empty passage list.
func PageDays(doc models.ReadingPlan, page, pageSize int) []DayCell {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	first := page*pageSize + 1
	last := min(doc.DurationDays, first+pageSize-1)
	if page < 0 || first > last {
		return nil
	}
	cells := make([]DayCell, 0, last-first+1)
	for day := first; day <= last; day++ {
		src := doc.Readings[day]
		list := make([]models.Passage, len(src))
		for i, p := range src {
			list[i] = p.Clone()
		}
		cells = append(cells, DayCell{Day: day, Passages: list})
	}
	return cells
}

// DateLabel is the civil date of day n counted from anchor as day 1.
func DateLabel(anchor time.Time, day int) string {
	return anchor.AddDate(0, 0, day-1).Format(DateLayout)
}

// DateLabels maps each day to its overlay date.
func DateLabels(anchor time.Time, days []int) map[int]string {
	out := make(map[int]string, len(days))
	for _, d := range days {
		out[d] = DateLabel(anchor, d)
	}
	return out
}

// PageButton is one entry of the page control. Ellipsis entries carry
// Page -1.
type PageButton struct {
	Page     int
	Label    string
	Current  bool
	Ellipsis bool
}

// PaginationWindow lays out the page control: a window of up to
// WindowWidth pages centered on current, with the first and last pages
// pinned at either end and an ellipsis wherever a pinned page sits
// outside the window. Pages are zero-based; labels are one-based.
func PaginationWindow(current, total int) []PageButton {
	if total < 1 {
		return nil
	}
	current = max(0, min(current, total-1))
	start := max(0, min(current-WindowWidth/2, total-WindowWidth))
	end := min(total-1, start+WindowWidth-1)

	var out []PageButton
	page := func(p int) {
		out = append(out, PageButton{Page: p, Label: strconv.Itoa(p + 1), Current: p == current})
	}
	ellipsis := func() {
		out = append(out, PageButton{Page: -1, Label: "…", Ellipsis: true})
	}
	if start > 0 {
		page(0)
		ellipsis()
	}
	for p := start; p <= end; p++ {
		page(p)
	}
	if end < total-1 {
		ellipsis()
		page(total - 1)
	}
	return out
}

// Labels flattens a page control for display and tests.
func Labels(buttons []PageButton) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.Label
	}
	return out
}
