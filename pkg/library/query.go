package library

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/covenant/covenant-terminal/pkg/document"
)

// Query narrows the passage library: an optional book plus free text
// matched against references.
type Query struct {
	Book string
	Text string
}

var fieldPattern = regexp.MustCompile(`^(\w+):(.*)$`)

// ParseQuery reads a library filter. book:NAME (quoted when it has
// spaces) restricts to one book; every other term is free text. Input
// that is nothing but a book name is taken as a book filter.
func ParseQuery(input string) (Query, error) {
	input = strings.TrimSpace(input)
	if b, ok := LookupBook(input); ok && !strings.Contains(input, ":") {
		return Query{Book: b.Name}, nil
	}

	var q Query
	var text []string
	for _, token := range tokenize(input) {
		m := fieldPattern.FindStringSubmatch(token)
		if m == nil || !strings.EqualFold(m[1], "book") {
			text = append(text, unquote(token))
			continue
		}
		name := unquote(m[2])
		b, ok := LookupBook(name)
		if !ok {
			return Query{}, fmt.Errorf("%w: unknown book %q", document.ErrInvalidValue, name)
		}
		if q.Book != "" && q.Book != b.Name {
			return Query{}, fmt.Errorf("%w: only one book filter at a time", document.ErrInvalidValue)
		}
		q.Book = b.Name
	}
	q.Text = strings.Join(text, " ")
	return q, nil
}

// tokenize splits on spaces outside double quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}
