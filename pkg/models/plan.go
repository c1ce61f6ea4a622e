package models

// Passage is a bible text reference that can be scheduled on a plan day.
type Passage struct {
	ID           string `json:"id" yaml:"id"`
	Reference    string `json:"reference" yaml:"reference"`
	Book         string `json:"book" yaml:"book"`
	ChapterStart int    `json:"chapterStart" yaml:"chapter_start"`
	ChapterEnd   int    `json:"chapterEnd" yaml:"chapter_end"`
	VerseStart   *int   `json:"verseStart,omitempty" yaml:"verse_start,omitempty"`
	VerseEnd     *int   `json:"verseEnd,omitempty" yaml:"verse_end,omitempty"`
}

// Clone returns a deep copy of the passage.
func (p Passage) Clone() Passage {
	c := p
	if p.VerseStart != nil {
		v := *p.VerseStart
		c.VerseStart = &v
	}
	if p.VerseEnd != nil {
		v := *p.VerseEnd
		c.VerseEnd = &v
	}
	return c
}

// ReadingPlan is a bible reading plan. Readings maps a day number
// (1..DurationDays) to the passages scheduled on that day, in order.
type ReadingPlan struct {
	ID           string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string            `json:"name" yaml:"name"`
	DurationDays int               `json:"durationDays" yaml:"duration_days"`
	Readings     map[int][]Passage `json:"readings" yaml:"readings"`
	Visible      bool              `json:"visible" yaml:"visible"`
}

// DefaultPlanDuration is the length of a freshly created plan.
const DefaultPlanDuration = 365

// NewReadingPlan returns the canonical blank plan.
func NewReadingPlan() ReadingPlan {
	return ReadingPlan{
		DurationDays: DefaultPlanDuration,
		Readings:     map[int][]Passage{},
	}
}

// Clone returns a deep copy of the plan.
func (p ReadingPlan) Clone() ReadingPlan {
	c := p
	c.Readings = make(map[int][]Passage, len(p.Readings))
	for day, passages := range p.Readings {
		if len(passages) == 0 {
			continue
		}
		cp := make([]Passage, len(passages))
		for i, ps := range passages {
			cp[i] = ps.Clone()
		}
		c.Readings[day] = cp
	}
	return c
}

// PassageCount returns the number of scheduled passages across all days.
func (p ReadingPlan) PassageCount() int {
	n := 0
	for _, passages := range p.Readings {
		n += len(passages)
	}
	return n
}
