package grid

import "github.com/covenant/covenant-terminal/pkg/dragdrop"

// Canvas is the view state of the form canvas: the focused row and
// whether the inspector sheet is open for it.
type Canvas struct {
	row       int
	inspector bool
}

func NewCanvas() *Canvas {
	return &Canvas{row: -1}
}

// Row returns the focused row, or -1 when the canvas is empty.
func (c *Canvas) Row() int { return c.row }

// Focus moves the cursor to row, clamped to n rows.
func (c *Canvas) Focus(row, n int) {
	if n == 0 {
		c.row = -1
		c.inspector = false
		return
	}
	c.row = max(0, min(row, n-1))
}

func (c *Canvas) Up(n int)   { c.Focus(c.row-1, n) }
func (c *Canvas) Down(n int) { c.Focus(c.row+1, n) }

// Clamp keeps the cursor valid after rows were added or removed.
func (c *Canvas) Clamp(n int) {
	if c.row < 0 && n > 0 {
		c.row = 0
	}
	c.Focus(c.row, n)
}

// OpenInspector opens the side sheet for the focused row.
func (c *Canvas) OpenInspector() bool {
	if c.row < 0 {
		return false
	}
	c.inspector = true
	return true
}

func (c *Canvas) CloseInspector()      { c.inspector = false }
func (c *Canvas) InspectorOpen() bool { return c.inspector }

// RowTarget is the zone a field row advertises.
func (c *Canvas) RowTarget(row int) dragdrop.Target {
	return dragdrop.RowTarget(row)
}

// Target is the zone of the canvas body; drops there append.
func (c *Canvas) Target() dragdrop.Target {
	return dragdrop.CanvasTarget(-1)
}

// PayloadFor is what a row's drag handle advertises.
func (c *Canvas) PayloadFor(fieldID string) dragdrop.Payload {
	return dragdrop.FieldRow(fieldID)
}
