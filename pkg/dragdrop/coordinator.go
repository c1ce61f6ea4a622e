package dragdrop

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/library"
)

var (
	ErrNoDrag   = errors.New("no drag in progress")
	ErrNoSource = errors.New("no drag source for this document")
)

// Outcome describes what a drop did to the document.
type Outcome int

const (
	// Ignored: no target, incompatible target, or a drop onto the source.
	Ignored Outcome = iota
	Applied
	// Rejected: the target is outside the document's range. Nothing is
	// mutated and nothing is reported to the user.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	}
	return "ignored"
}

// Coordinator routes one drag gesture at a time from a source to a target
// and commits the resulting mutation.
type Coordinator struct {
	plan     *document.Plan
	passages *library.Passages
	form     *document.Form
	catalog  *library.Catalog
	logger   *slog.Logger

	active *Payload
	hover  *Target
}

// NewPlanCoordinator drags passages between the library and plan days.
func NewPlanCoordinator(plan *document.Plan, passages *library.Passages, logger *slog.Logger) *Coordinator {
	return &Coordinator{plan: plan, passages: passages, logger: orDiscard(logger)}
}

// NewFormCoordinator drags templates onto the canvas and reorders rows.
func NewFormCoordinator(form *document.Form, catalog *library.Catalog, logger *slog.Logger) *Coordinator {
	return &Coordinator{form: form, catalog: catalog, logger: orDiscard(logger)}
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// Begin starts a drag. A drag already in flight is replaced.
func (c *Coordinator) Begin(p Payload) {
	c.active = &p
	c.hover = nil
}

// Active returns the payload being dragged.
func (c *Coordinator) Active() (Payload, bool) {
	if c.active == nil {
		return Payload{}, false
	}
	return *c.active, true
}

func (c *Coordinator) Dragging() bool {
	return c.active != nil
}

// Hover records the target under the pointer; nil means none.
func (c *Coordinator) Hover(t *Target) {
	if t == nil {
		c.hover = nil
		return
	}
	cp := *t
	c.hover = &cp
}

func (c *Coordinator) Hovered() (Target, bool) {
	if c.hover == nil {
		return Target{}, false
	}
	return *c.hover, true
}

// Highlighted reports whether t should be highlighted for the current drag.
func (c *Coordinator) Highlighted(t Target) bool {
	if c.active == nil {
		return false
	}
	return c.Accepts(*c.active, t)
}

// Accepts reports whether a payload kind can land on a target kind.
func (c *Coordinator) Accepts(p Payload, t Target) bool {
	switch p.Kind {
	case KindPassage:
		if c.plan == nil {
			return false
		}
		return t.Kind == TargetDay || (t.Kind == TargetLibrary && p.SourceDay > 0)
	case KindFieldTemplate, KindField:
		if c.form == nil {
			return false
		}
		return t.Kind == TargetCanvas || t.Kind == TargetFieldRow
	}
	return false
}

// Cancel aborts the drag without touching the document.
func (c *Coordinator) Cancel() {
	if c.active != nil {
		c.logger.Debug("drag cancelled", "payload", c.active.String())
	}
	c.active = nil
	c.hover = nil
}

// DropOnHovered drops on the last hovered target, or outside any target
// when nothing is hovered.
func (c *Coordinator) DropOnHovered() (Outcome, error) {
	return c.Drop(c.hover)
}

// Drop ends the drag over t. A nil target is a drop outside any zone.
// The drag is finished whatever the outcome.
func (c *Coordinator) Drop(t *Target) (Outcome, error) {
	if c.active == nil {
		return Ignored, ErrNoDrag
	}
	p := *c.active
	c.active = nil
	c.hover = nil

	if t == nil || !c.Accepts(p, *t) {
		return Ignored, nil
	}
	out, err := c.apply(p, *t)
	if errors.Is(err, document.ErrOutOfRange) {
		c.logger.Debug("drop rejected", "payload", p.String(), "target", t.String(), "err", err)
		return Rejected, nil
	}
	if err != nil {
		return Ignored, err
	}
	if out == Applied {
		c.logger.Debug("drop applied", "payload", p.String(), "target", t.String())
	}
	return out, nil
}

func (c *Coordinator) apply(p Payload, t Target) (Outcome, error) {
	switch p.Kind {
	case KindPassage:
		return c.dropPassage(p, t)
	case KindFieldTemplate:
		field, err := c.catalog.Clone(p.Template)
		if err != nil {
			return Ignored, err
		}
		index := t.Index
		if t.Kind == TargetFieldRow {
			index++
		}
		if _, err := c.form.AddItem(field, index); err != nil {
			return Ignored, err
		}
		return Applied, nil
	case KindField:
		from := c.form.IndexOf(p.ItemID)
		if from < 0 {
			return Ignored, fmt.Errorf("%w: field %s", document.ErrNotFound, p.ItemID)
		}
		to := t.Index
		if t.Kind == TargetCanvas || to < 0 || to >= c.form.Len() {
			to = c.form.Len() - 1
		}
		if from == to {
			return Ignored, nil
		}
		if err := c.form.Reorder(from, to); err != nil {
			return Ignored, err
		}
		return Applied, nil
	}
	return Ignored, nil
}

func (c *Coordinator) dropPassage(p Payload, t Target) (Outcome, error) {
	if t.Kind == TargetLibrary {
		loc, ok := c.plan.Locate(p.ItemID)
		if !ok {
			return Ignored, fmt.Errorf("%w: passage %s", document.ErrNotFound, p.ItemID)
		}
		ps := c.plan.Passages(loc.Day)[loc.Index]
		if err := c.plan.RemoveItem(p.ItemID); err != nil {
			return Ignored, err
		}
		if c.passages != nil {
			c.passages.Restore(ps)
		}
		return Applied, nil
	}

	if p.SourceDay == 0 {
		if c.passages == nil {
			return Ignored, ErrNoSource
		}
		ps, ok := c.passages.Get(p.ItemID)
		if !ok {
			return Ignored, fmt.Errorf("%w: %s", library.ErrPassageNotFound, p.ItemID)
		}
		if _, err := c.plan.AddItem(ps, document.Location{Day: t.Day, Index: t.Index}); err != nil {
			return Ignored, err
		}
		return Applied, nil
	}
	if p.SourceDay == t.Day {
		return Ignored, nil
	}
	if err := c.plan.MoveItem(p.ItemID, document.Location{Day: t.Day, Index: t.Index}); err != nil {
		return Ignored, err
	}
	return Applied, nil
}
