package library

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/covenant/covenant-terminal/pkg/models"
)

var ErrUnknownBook = errors.New("unknown book")

// book, chapter, optional :verse, optional -chapter or -verse or -chapter:verse
var referencePattern = regexp.MustCompile(`^\s*((?:[1-3]\s*)?[A-Za-z][A-Za-z ]*?)\s*(\d+)(?::(\d+))?(?:\s*[-–]\s*(\d+)(?::(\d+))?)?\s*$`)

// ParseReference turns a human reference such as "John 1:1-18" or
// "1 Cor 13" into a passage. The returned passage has no id.
func ParseReference(ref string) (models.Passage, error) {
	m := referencePattern.FindStringSubmatch(ref)
	if m == nil {
		return models.Passage{}, fmt.Errorf("cannot parse reference %q", ref)
	}
	book, ok := LookupBook(m[1])
	if !ok {
		return models.Passage{}, fmt.Errorf("%w: %q", ErrUnknownBook, strings.TrimSpace(m[1]))
	}

	p := models.Passage{Book: book.Name}
	p.ChapterStart, _ = strconv.Atoi(m[2])
	p.ChapterEnd = p.ChapterStart

	switch {
	case m[3] == "" && m[4] != "":
		// Chapter range: "Genesis 1-3".
		p.ChapterEnd, _ = strconv.Atoi(m[4])
	case m[3] != "":
		v, _ := strconv.Atoi(m[3])
		p.VerseStart = &v
		end := v
		if m[4] != "" && m[5] == "" {
			end, _ = strconv.Atoi(m[4])
		} else if m[5] != "" {
			p.ChapterEnd, _ = strconv.Atoi(m[4])
			end, _ = strconv.Atoi(m[5])
		}
		p.VerseEnd = &end
	}

	p.Reference = FormatReference(p)
	if err := ValidatePassage(p); err != nil {
		return models.Passage{}, err
	}
	return p, nil
}

// FormatReference renders the canonical reference text of a passage.
func FormatReference(p models.Passage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", p.Book, p.ChapterStart)
	if p.VerseStart != nil {
		fmt.Fprintf(&b, ":%d", *p.VerseStart)
	}
	switch {
	case p.VerseStart != nil && p.VerseEnd != nil && p.ChapterEnd != p.ChapterStart:
		fmt.Fprintf(&b, "-%d:%d", p.ChapterEnd, *p.VerseEnd)
	case p.VerseStart != nil && p.VerseEnd != nil && *p.VerseEnd != *p.VerseStart:
		fmt.Fprintf(&b, "-%d", *p.VerseEnd)
	case p.VerseStart == nil && p.ChapterEnd != p.ChapterStart:
		fmt.Fprintf(&b, "-%d", p.ChapterEnd)
	}
	return b.String()
}

// ValidatePassage checks a passage against the book catalog.
func ValidatePassage(p models.Passage) error {
	book, known := LookupBook(p.Book)
	chapters := 150
	if known {
		chapters = book.Chapters
	}
	return validation.ValidateStruct(&p,
		validation.Field(&p.Reference, validation.Required),
		validation.Field(&p.Book, validation.Required, validation.By(func(any) error {
			if !known {
				return fmt.Errorf("%w: %q", ErrUnknownBook, p.Book)
			}
			return nil
		})),
		validation.Field(&p.ChapterStart, validation.Required, validation.Min(1), validation.Max(chapters)),
		validation.Field(&p.ChapterEnd, validation.Required, validation.Min(p.ChapterStart), validation.Max(chapters)),
		validation.Field(&p.VerseEnd, validation.By(func(any) error {
			if p.VerseStart == nil || p.VerseEnd == nil {
				return nil
			}
			if *p.VerseStart < 1 || *p.VerseEnd < 1 {
				return errors.New("verses start at 1")
			}
			if p.ChapterEnd == p.ChapterStart && *p.VerseEnd < *p.VerseStart {
				return errors.New("must not precede the first verse")
			}
			return nil
		})),
	)
}
