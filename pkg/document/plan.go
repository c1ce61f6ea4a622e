package document

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/covenant/covenant-terminal/pkg/models"
)

// ErrNameRequired is returned by Validate when the plan has no name.
var ErrNameRequired = errors.New("name is required")

// Location addresses a slot in the plan. Index is the insertion position in
// the day's list as currently rendered; a negative Index appends.
type Location struct {
	Day   int
	Index int
}

// AtEnd returns the location after the last passage of day.
func AtEnd(day int) Location {
	return Location{Day: day, Index: -1}
}

// Plan owns the reading plan being edited. All writes go through its
// mutation methods; readers always observe a complete document.
type Plan struct {
	mu      sync.RWMutex
	doc     models.ReadingPlan
	version uint64

	observers
}

// NewPlan returns a model holding the canonical blank plan.
func NewPlan() *Plan {
	return &Plan{doc: models.NewReadingPlan()}
}

// Load replaces the document. Duplicate passage ids are re-issued; a
// reading outside 1..DurationDays fails the load.
func (p *Plan) Load(doc models.ReadingPlan) error {
	next := doc.Clone()
	if next.DurationDays < 1 {
		return fmt.Errorf("%w: durationDays = %d", ErrInvalidValue, next.DurationDays)
	}
	if orphan := newOrphanError(next.DurationDays, readingDays(next)); orphan != nil {
		return orphan
	}
	for day := range next.Readings {
		if day < 1 {
			return fmt.Errorf("%w: day %d", ErrOutOfRange, day)
		}
	}
	seen := make(map[string]bool)
	for _, day := range readingDays(next) {
		for i := range next.Readings[day] {
			ps := &next.Readings[day][i]
			if ps.ID == "" || seen[ps.ID] {
				ps.ID = NewID()
			}
			seen[ps.ID] = true
		}
	}
	p.replace(next)
	return nil
}

// Reset installs the canonical blank plan.
func (p *Plan) Reset() {
	p.replace(models.NewReadingPlan())
}

func (p *Plan) replace(doc models.ReadingPlan) {
	p.mu.Lock()
	p.doc = doc
	p.version++
	p.mu.Unlock()
	p.notify()
}

// Document returns a deep copy of the current plan.
func (p *Plan) Document() models.ReadingPlan {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.Clone()
}

// Version increases with every applied mutation.
func (p *Plan) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

func (p *Plan) ID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.ID
}

// SetID records the remote identity. It is not part of the snapshot, so
// observers are not notified.
func (p *Plan) SetID(id string) {
	p.mu.Lock()
	p.doc.ID = id
	p.mu.Unlock()
}

func (p *Plan) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.Name
}

func (p *Plan) DurationDays() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.DurationDays
}

// Passages returns a copy of the passages scheduled on day.
func (p *Plan) Passages(day int) []models.Passage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	src := p.doc.Readings[day]
	out := make([]models.Passage, len(src))
	for i, ps := range src {
		out[i] = ps.Clone()
	}
	return out
}

// Locate finds the day and position of a scheduled passage.
func (p *Plan) Locate(id string) (Location, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return locate(p.doc, id)
}

// Validate reports whether the plan can be saved.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name()) == "" {
		return ErrNameRequired
	}
	return nil
}

// AddItem schedules a passage at the given location and returns the id it
// was stored under. An empty or colliding id is replaced with a fresh one.
func (p *Plan) AddItem(ps models.Passage, at Location) (string, error) {
	var id string
	err := p.mutate(func(doc *models.ReadingPlan) (bool, error) {
		if at.Day < 1 || at.Day > doc.DurationDays {
			return false, fmt.Errorf("%w: day %d of %d", ErrOutOfRange, at.Day, doc.DurationDays)
		}
		item := ps.Clone()
		if _, taken := locate(*doc, item.ID); item.ID == "" || taken {
			item.ID = NewID()
		}
		doc.Readings[at.Day] = insertPassage(doc.Readings[at.Day], at.Index, item)
		id = item.ID
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveItem unschedules a passage.
func (p *Plan) RemoveItem(id string) error {
	return p.mutate(func(doc *models.ReadingPlan) (bool, error) {
		loc, ok := locate(*doc, id)
		if !ok {
			return false, fmt.Errorf("%w: passage %s", ErrNotFound, id)
		}
		removePassage(doc, loc)
		return true, nil
	})
}

// MoveItem reassigns a passage to a new location, keeping its id and
// attributes. Moving onto its current slot is a no-op.
func (p *Plan) MoveItem(id string, at Location) error {
	return p.mutate(func(doc *models.ReadingPlan) (bool, error) {
		from, ok := locate(*doc, id)
		if !ok {
			return false, fmt.Errorf("%w: passage %s", ErrNotFound, id)
		}
		if at.Day < 1 || at.Day > doc.DurationDays {
			return false, fmt.Errorf("%w: day %d of %d", ErrOutOfRange, at.Day, doc.DurationDays)
		}
		index := at.Index
		if from.Day == at.Day {
			n := len(doc.Readings[at.Day])
			if index < 0 || index > n {
				index = n
			}
			if index == from.Index || index == from.Index+1 {
				return false, nil
			}
			if index > from.Index {
				index--
			}
		}
		item := doc.Readings[from.Day][from.Index]
		removePassage(doc, from)
		doc.Readings[at.Day] = insertPassage(doc.Readings[at.Day], index, item)
		return true, nil
	})
}

// SetProperty edits plan metadata or a scheduled passage attribute.
//
// Paths: name, durationDays, visible, passage.<id>.<attr> where attr is one
// of reference, book, chapterStart, chapterEnd, verseStart, verseEnd.
func (p *Plan) SetProperty(path string, value any) error {
	return p.mutate(func(doc *models.ReadingPlan) (bool, error) {
		switch path {
		case "name":
			s, err := asString(path, value)
			if err != nil {
				return false, err
			}
			if s == doc.Name {
				return false, nil
			}
			doc.Name = s
			return true, nil
		case "durationDays":
			n, err := asInt(path, value)
			if err != nil {
				return false, err
			}
			if n < 1 {
				return false, invalid(path, value)
			}
			if n == doc.DurationDays {
				return false, nil
			}
			if orphan := newOrphanError(n, readingDays(*doc)); orphan != nil {
				return false, orphan
			}
			doc.DurationDays = n
			return true, nil
		case "visible":
			b, err := asBool(path, value)
			if err != nil {
				return false, err
			}
			if b == doc.Visible {
				return false, nil
			}
			doc.Visible = b
			return true, nil
		}
		parts := strings.SplitN(path, ".", 3)
		if len(parts) != 3 || parts[0] != "passage" {
			return false, unknown(path)
		}
		loc, ok := locate(*doc, parts[1])
		if !ok {
			return false, fmt.Errorf("%w: passage %s", ErrNotFound, parts[1])
		}
		ps := &doc.Readings[loc.Day][loc.Index]
		before := ps.Clone()
		if err := SetPassageAttr(ps, parts[2], value); err != nil {
			return false, err
		}
		return !passageEqual(before, *ps), nil
	})
}

// SetPassageAttr applies a single attribute edit to a passage. The library
// shares it so both surfaces accept the same attribute names.
func SetPassageAttr(ps *models.Passage, attr string, value any) error {
	path := "passage." + attr
	switch attr {
	case "reference":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		ps.Reference = s
	case "book":
		s, err := asString(path, value)
		if err != nil {
			return err
		}
		ps.Book = s
	case "chapterStart", "chapterEnd":
		n, err := asInt(path, value)
		if err != nil {
			return err
		}
		if n < 1 {
			return invalid(path, value)
		}
		if attr == "chapterStart" {
			ps.ChapterStart = n
		} else {
			ps.ChapterEnd = n
		}
	case "verseStart", "verseEnd":
		n, err := asOptionalInt(path, value)
		if err != nil {
			return err
		}
		if n != nil && *n < 1 {
			return invalid(path, value)
		}
		if attr == "verseStart" {
			ps.VerseStart = n
		} else {
			ps.VerseEnd = n
		}
	default:
		return unknown(path)
	}
	return nil
}

// Snapshot returns the normalized form used for dirty detection.
func (p *Plan) Snapshot() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PlanSnapshot(p.doc)
}

func (p *Plan) mutate(fn func(doc *models.ReadingPlan) (bool, error)) error {
	p.mu.Lock()
	next := p.doc.Clone()
	changed, err := fn(&next)
	if err != nil || !changed {
		p.mu.Unlock()
		return err
	}
	p.doc = next
	p.version++
	p.mu.Unlock()
	p.notify()
	return nil
}

func locate(doc models.ReadingPlan, id string) (Location, bool) {
	if id == "" {
		return Location{}, false
	}
	for day, passages := range doc.Readings {
		for i, ps := range passages {
			if ps.ID == id {
				return Location{Day: day, Index: i}, true
			}
		}
	}
	return Location{}, false
}

func readingDays(doc models.ReadingPlan) []int {
	days := make([]int, 0, len(doc.Readings))
	for day, passages := range doc.Readings {
		if len(passages) > 0 {
			days = append(days, day)
		}
	}
	sort.Ints(days)
	return days
}

func insertPassage(list []models.Passage, index int, ps models.Passage) []models.Passage {
	if index < 0 || index >= len(list) {
		return append(list, ps)
	}
	list = append(list, models.Passage{})
	copy(list[index+1:], list[index:])
	list[index] = ps
	return list
}

func removePassage(doc *models.ReadingPlan, loc Location) {
	list := doc.Readings[loc.Day]
	list = append(list[:loc.Index:loc.Index], list[loc.Index+1:]...)
	if len(list) == 0 {
		delete(doc.Readings, loc.Day)
		return
	}
	doc.Readings[loc.Day] = list
}

func passageEqual(a, b models.Passage) bool {
	return a.ID == b.ID && a.Reference == b.Reference && a.Book == b.Book &&
		a.ChapterStart == b.ChapterStart && a.ChapterEnd == b.ChapterEnd &&
		intPtrEqual(a.VerseStart, b.VerseStart) && intPtrEqual(a.VerseEnd, b.VerseEnd)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
