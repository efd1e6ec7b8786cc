// Package debug renders indented dumps of in-memory structures for the
// debug report.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) pad(depth int) {
	tw.w.WriteString(strings.Repeat(indent, depth))
}

// Line writes formatted line at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Field writes "label: value" with value quoted, empty values are left as
// is so missing fields stand out.
func (tw *TreeWriter) Field(depth int, label, value string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quote(value))
	tw.w.WriteByte('\n')
}

// Items writes numbered quoted items one per line under label.
func (tw *TreeWriter) Items(depth int, label string, items []string) {
	tw.Line(depth, "%s (%d)", label, len(items))
	for i, it := range items {
		tw.Line(depth+1, "[%d] %s", i+1, quote(it))
	}
}

// Grid writes row-major cells as rows of quoted values separated by " | ".
func (tw *TreeWriter) Grid(depth, cols int, cells []string) {
	if cols <= 0 {
		tw.Line(depth, "<no columns>")
		return
	}
	for r := 0; r*cols < len(cells); r++ {
		end := min((r+1)*cols, len(cells))
		row := make([]string, 0, cols)
		for _, c := range cells[r*cols : end] {
			row = append(row, strconv.Quote(c))
		}
		tw.Line(depth, "row %d: %s", r, strings.Join(row, " | "))
	}
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
