package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/covenant/covenant-terminal/pkg/document"
	"github.com/covenant/covenant-terminal/pkg/models"
)

var ErrPassageNotFound = errors.New("passage not in library")

// Passages is the pool of unscheduled passages the editor has created.
// A passage may sit in the pool and on plan days at the same time; the
// pool keeps its own copy under the shared id.
type Passages struct {
	items []models.Passage
}

func NewPassages() *Passages {
	return &Passages{}
}

// Add stores a passage and returns its id. Empty or colliding ids are
// replaced with fresh ones.
func (l *Passages) Add(p models.Passage) string {
	p = p.Clone()
	if p.ID == "" || l.index(p.ID) >= 0 {
		p.ID = document.NewID()
	}
	l.items = append(l.items, p)
	return p.ID
}

// AddReference parses ref and adds the resulting passage.
func (l *Passages) AddReference(ref string) (models.Passage, error) {
	p, err := ParseReference(ref)
	if err != nil {
		return models.Passage{}, err
	}
	p.ID = l.Add(p)
	return p, nil
}

// Restore puts a passage back into the pool under its own id. It is a
// no-op when the id is already present.
func (l *Passages) Restore(p models.Passage) {
	if p.ID == "" || l.index(p.ID) >= 0 {
		return
	}
	l.items = append(l.items, p.Clone())
}

func (l *Passages) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPassageNotFound, id)
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return nil
}

// Update edits one attribute of a pooled passage. Editing the reference
// text re-parses it so the structured fields follow.
func (l *Passages) Update(id, attr string, value any) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPassageNotFound, id)
	}
	next := l.items[i].Clone()
	if attr == "reference" {
		if s, ok := value.(string); ok {
			parsed, err := ParseReference(s)
			if err != nil {
				return err
			}
			parsed.ID = id
			l.items[i] = parsed
			return nil
		}
	}
	if err := document.SetPassageAttr(&next, attr, value); err != nil {
		return err
	}
	l.items[i] = next
	return nil
}

func (l *Passages) Get(id string) (models.Passage, bool) {
	i := l.index(id)
	if i < 0 {
		return models.Passage{}, false
	}
	return l.items[i].Clone(), true
}

func (l *Passages) Contains(id string) bool {
	return l.index(id) >= 0
}

func (l *Passages) Len() int {
	return len(l.items)
}

// Items returns copies of the pooled passages in insertion order.
func (l *Passages) Items() []models.Passage {
	out := make([]models.Passage, len(l.items))
	for i, p := range l.items {
		out[i] = p.Clone()
	}
	return out
}

// Filter returns pooled passages whose reference contains query,
// case-insensitively.
func (l *Passages) Filter(query string) []models.Passage {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return l.Items()
	}
	var out []models.Passage
	for _, p := range l.items {
		if strings.Contains(strings.ToLower(p.Reference), query) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (l *Passages) index(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range l.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
