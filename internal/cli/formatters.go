package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"gopkg.in/yaml.v3"
)

// Output encodings accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var formats = []string{FormatText, FormatJSON, FormatYAML}

// Texter is a result with its own terminal rendering. Other results
// print with %v in text mode.
type Texter interface {
	WriteText(w io.Writer) error
}

// OutputResults encodes data in the requested format.
func OutputResults(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatText, "":
		if t, ok := data.(Texter); ok {
			return t.WriteText(w)
		}
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// Table writes aligned columns. Each header is underlined to its own width.
type Table struct {
	tw *tabwriter.Writer
}

func NewTable(w io.Writer, columns ...string) *Table {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	rules := make([]string, len(columns))
	for i, c := range columns {
		rules[i] = strings.Repeat("-", len(c))
	}
	t.Row(columns...)
	t.Row(rules...)
	return t
}

func (t *Table) Row(values ...string) {
	fmt.Fprintln(t.tw, strings.Join(values, "\t"))
}

func (t *Table) Flush() error {
	return t.tw.Flush()
}

// Clip shortens s to width terminal cells, marking the cut with "...".
func Clip(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(max(width, 0)), "...")
}
