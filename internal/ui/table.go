package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyStyle = lipgloss.NewStyle().Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Table renders rows of data in aligned columns.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	t := &Table{w: tw, headers: headers}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return t
}

// Row appends a row of values. The number of values should match the number of headers.
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// Field is one labelled value in a KeyValues listing.
type Field struct {
	Key   string
	Value any
}

// KeyValues writes fields one per line with keys padded to a common width.
func KeyValues(out io.Writer, fields []Field) error {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Key)+1)
	}
	style := keyStyle.Width(width)
	for _, f := range fields {
		if _, err := fmt.Fprintf(out, "%s %v\n", style.Render(f.Key+":"), f.Value); err != nil {
			return err
		}
	}
	return nil
}
