package grid

import (
	"testing"
	"time"

	"github.com/covenant/covenant-terminal/pkg/dragdrop"
)

func TestDays_Paging(t *testing.T) {
	tests := []struct {
		name      string
		duration  int
		size      int
		wantPages int
	}{
		{"single page", 7, 31, 1},
		{"exact", 62, 31, 2},
		{"year", 365, 31, 12},
		{"two hundred", 200, 31, 7},
		{"default size", 365, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDays(tt.size)
			if got := d.TotalPages(tt.duration); got != tt.wantPages {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.duration, got, tt.wantPages)
			}
			d.SetPage(100, tt.duration)
			if d.Page() != tt.wantPages-1 {
				t.Errorf("SetPage(100) = %d, want %d", d.Page(), tt.wantPages-1)
			}
			d.PrevPage(tt.duration)
			d.SetPage(-4, tt.duration)
			if d.Page() != 0 {
				t.Errorf("SetPage(-4) = %d, want 0", d.Page())
			}
		})
	}
}

func TestDays_PageBounds(t *testing.T) {
	d := NewDays(31)
	d.SetPage(3, 200)
	if d.FirstDay() != 94 || d.LastDay(200) != 124 {
		t.Errorf("page 3 = %d..%d, want 94..124", d.FirstDay(), d.LastDay(200))
	}
	d.SetPage(6, 200)
	if d.LastDay(200) != 200 {
		t.Errorf("last page ends at %d, want 200", d.LastDay(200))
	}
}

func TestDays_Selection(t *testing.T) {
	d := NewDays(31)
	d.Select(40, 100)
	if d.Selected() != 40 || d.Page() != 1 {
		t.Fatalf("Select(40) selected=%d page=%d", d.Selected(), d.Page())
	}
	d.SelectItem(2)
	d.SetPage(0, 100)
	if d.Selected() != 40 || d.Item() != 2 {
		t.Error("paging cleared the selection")
	}
	d.SelectItem(0)
	if d.Page() != 0 {
		t.Error("selecting a passage changed the page")
	}
	d.Select(41, 100)
	if d.Item() != -1 {
		t.Error("item focus survived a day change")
	}
	d.Select(0, 100)
	if d.Selected() != 0 {
		t.Error("Select(0) kept a selection")
	}
	d.Select(101, 100)
	if d.Selected() != 0 {
		t.Error("out of range day was selected")
	}
}

func TestDays_ClampAfterShrink(t *testing.T) {
	d := NewDays(31)
	d.Select(300, 365)
	d.Clamp(30)
	if d.Selected() != 0 || d.Page() != 0 {
		t.Errorf("after Clamp(30) selected=%d page=%d", d.Selected(), d.Page())
	}
}

func TestDays_OverlayAndAdvertising(t *testing.T) {
	d := NewDays(31)
	if _, on := d.Overlay(); on {
		t.Error("overlay on by default")
	}
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	d.SetOverlay(anchor)
	if got, on := d.Overlay(); !on || !got.Equal(anchor) {
		t.Errorf("Overlay() = %v, %v", got, on)
	}
	d.ClearOverlay()
	if _, on := d.Overlay(); on {
		t.Error("overlay still on")
	}

	if got := d.DropTarget(3, -1); got.Kind != dragdrop.TargetDay || got.Day != 3 {
		t.Errorf("DropTarget = %+v", got)
	}
	if got := d.PayloadFor(3, "p1"); got.Kind != dragdrop.KindPassage || got.SourceDay != 3 || got.ItemID != "p1" {
		t.Errorf("PayloadFor = %+v", got)
	}
}

func TestCanvas_Focus(t *testing.T) {
	c := NewCanvas()
	if c.OpenInspector() {
		t.Error("inspector opened on an empty canvas")
	}
	c.Clamp(3)
	if c.Row() != 0 {
		t.Fatalf("Row() = %d, want 0", c.Row())
	}
	c.Down(3)
	c.Down(3)
	c.Down(3)
	if c.Row() != 2 {
		t.Errorf("Row() = %d, want 2", c.Row())
	}
	if !c.OpenInspector() || !c.InspectorOpen() {
		t.Error("inspector did not open")
	}
	c.Clamp(0)
	if c.Row() != -1 || c.InspectorOpen() {
		t.Error("empty canvas kept focus or inspector")
	}
}
