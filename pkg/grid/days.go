package grid

import (
	"time"

	"github.com/covenant/covenant-terminal/pkg/dragdrop"
	"github.com/covenant/covenant-terminal/pkg/models"
)

// Days is the view state of the plan calendar. None of it is part of the
// document: paging, selecting or toggling the date overlay never mutates
// the plan.
type Days struct {
	pageSize int
	page     int
	selected int
	item     int

	overlay bool
	anchor  time.Time
}

// NewDays returns a grid paginated at pageSize days, or the default size
// when pageSize is not positive.
func NewDays(pageSize int) *Days {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	return &Days{pageSize: pageSize, item: -1}
}

func (d *Days) PageSize() int { return d.pageSize }

// Page returns the zero-based current page.
func (d *Days) Page() int { return d.page }

// TotalPages is ceil(durationDays / pageSize), and at least 1.
func (d *Days) TotalPages(durationDays int) int {
	if durationDays < 1 {
		return 1
	}
	return (durationDays + d.pageSize - 1) / d.pageSize
}

// SetPage moves to page, clamped to the valid range.
func (d *Days) SetPage(page, durationDays int) {
	d.page = max(0, min(page, d.TotalPages(durationDays)-1))
}

func (d *Days) NextPage(durationDays int) { d.SetPage(d.page+1, durationDays) }

func (d *Days) PrevPage(durationDays int) { d.SetPage(d.page-1, durationDays) }

// PageOf returns the zero-based page containing day.
func (d *Days) PageOf(day int) int {
	if day < 1 {
		return 0
	}
	return (day - 1) / d.pageSize
}

// FirstDay and LastDay bound the current page.
func (d *Days) FirstDay() int {
	return d.page*d.pageSize + 1
}

func (d *Days) LastDay(durationDays int) int {
	return min(durationDays, (d.page+1)*d.pageSize)
}

// Clamp pulls page and selection back inside a plan that shrank or was
// replaced.
func (d *Days) Clamp(durationDays int) {
	d.SetPage(d.page, durationDays)
	if d.selected > durationDays {
		d.selected = 0
		d.item = -1
	}
}

// Select makes day the single selected day; 0 clears the selection. The
// current page follows the selection only when the day lies elsewhere.
func (d *Days) Select(day, durationDays int) {
	if day < 1 || day > durationDays {
		d.selected = 0
		d.item = -1
		return
	}
	if d.selected != day {
		d.item = -1
	}
	d.selected = day
	d.SetPage(d.PageOf(day), durationDays)
}

// Selected returns the selected day, or 0.
func (d *Days) Selected() int { return d.selected }

// SelectItem focuses a passage inside the selected day. It never changes
// the page.
func (d *Days) SelectItem(index int) {
	if d.selected == 0 {
		return
	}
	d.item = index
}

// Item returns the focused passage index inside the selected day, or -1.
func (d *Days) Item() int { return d.item }

// ClampItem keeps the focused passage inside a day of n passages.
func (d *Days) ClampItem(n int) {
	if n == 0 {
		d.item = -1
		return
	}
	d.item = max(-1, min(d.item, n-1))
}

// SetOverlay enables the date overlay anchored on day one.
func (d *Days) SetOverlay(anchor time.Time) {
	d.overlay = true
	d.anchor = anchor
}

func (d *Days) ClearOverlay() {
	d.overlay = false
}

// Overlay returns the anchor date when the overlay is on.
func (d *Days) Overlay() (time.Time, bool) {
	return d.anchor, d.overlay
}

// DropTarget is the zone a day cell advertises. index is the insertion
// position inside the day; negative appends.
func (d *Days) DropTarget(day, index int) dragdrop.Target {
	return dragdrop.DayTarget(day, index)
}

// PayloadFor is what a rendered passage advertises when dragged.
func (d *Days) PayloadFor(day int, passageID string) dragdrop.Payload {
	return dragdrop.ScheduledPassage(passageID, day)
}
