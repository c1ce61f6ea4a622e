package dragdrop

import (
	"fmt"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// Kind identifies what is being dragged.
type Kind string

const (
	KindPassage       Kind = "passage"
	KindFieldTemplate Kind = "field-template"
	KindField         Kind = "field"
)

// Payload is advertised by a drag source.
type Payload struct {
	Kind Kind
	// ItemID is the passage or field id. Empty for templates.
	ItemID string
	// SourceDay is the day a scheduled passage is dragged from; 0 means
	// the passage comes from the library.
	SourceDay int
	Template  models.FieldType
}

func LibraryPassage(id string) Payload {
	return Payload{Kind: KindPassage, ItemID: id}
}

func ScheduledPassage(id string, day int) Payload {
	return Payload{Kind: KindPassage, ItemID: id, SourceDay: day}
}

func FieldTemplate(t models.FieldType) Payload {
	return Payload{Kind: KindFieldTemplate, Template: t}
}

func FieldRow(id string) Payload {
	return Payload{Kind: KindField, ItemID: id}
}

func (p Payload) String() string {
	switch p.Kind {
	case KindFieldTemplate:
		return fmt.Sprintf("%s(%s)", p.Kind, p.Template)
	case KindPassage:
		if p.SourceDay > 0 {
			return fmt.Sprintf("%s(%s@day %d)", p.Kind, p.ItemID, p.SourceDay)
		}
	}
	return fmt.Sprintf("%s(%s)", p.Kind, p.ItemID)
}

// TargetKind identifies where a payload can land.
type TargetKind string

const (
	TargetDay      TargetKind = "day"
	TargetLibrary  TargetKind = "library"
	TargetCanvas   TargetKind = "canvas"
	TargetFieldRow TargetKind = "field-row"
)

// Target is advertised by a drop zone. Index is the insertion position
// within the day or canvas, or the row index for field rows; a negative
// index means the end.
type Target struct {
	Kind  TargetKind
	Day   int
	Index int
}

func DayTarget(day, index int) Target {
	return Target{Kind: TargetDay, Day: day, Index: index}
}

func LibraryTarget() Target {
	return Target{Kind: TargetLibrary, Index: -1}
}

func CanvasTarget(index int) Target {
	return Target{Kind: TargetCanvas, Index: index}
}

func RowTarget(index int) Target {
	return Target{Kind: TargetFieldRow, Index: index}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetDay:
		return fmt.Sprintf("day %d", t.Day)
	case TargetFieldRow:
		return fmt.Sprintf("row %d", t.Index)
	}
	return string(t.Kind)
}
