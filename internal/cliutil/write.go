// Package cliutil holds output helpers shared by the xsd2oas subcommands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Writef writes formatted output to w. A failed write is reported on
// stderr since command output has nowhere else to go.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Table writes tab-aligned columns with two spaces of padding.
type Table struct {
	tw *tabwriter.Writer
}

// NewTable starts a table on w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.Row(headers...)
	return t
}

// Row appends one row.
func (t *Table) Row(cells ...string) {
	Writef(t.tw, "%s\n", strings.Join(cells, "\t"))
}

// Flush aligns and writes the buffered rows.
func (t *Table) Flush() error {
	if err := t.tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
