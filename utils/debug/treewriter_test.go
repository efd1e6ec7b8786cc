package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "test", want: "test\n"},
		{name: "depth 1", depth: 1, format: "indented", want: "  indented\n"},
		{name: "depth 2", depth: 2, format: "double indent", want: "    double indent\n"},
		{name: "with formatting", depth: 1, format: "value: %d", args: []any{42}, want: "  value: 42\n"},
		{name: "multiple args", depth: 0, format: "%s = %d", args: []any{"count", 5}, want: "count = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", depth: 0, label: "field", value: "", want: "field: \n"},
		{name: "simple", depth: 0, label: "title", value: "Laporan", want: "title: \"Laporan\"\n"},
		{name: "indented", depth: 2, label: "text", value: "a", want: "    text: \"a\"\n"},
		{name: "newline escaped", depth: 0, label: "cell", value: "a\nb", want: "cell: \"a\\nb\"\n"},
		{name: "quotes escaped", depth: 0, label: "q", value: `say "hi"`, want: "q: \"say \\\"hi\\\"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Items(t *testing.T) {
	tw := NewTreeWriter()
	tw.Items(1, "items", []string{"one", "two"})

	want := "  items (2)\n    [1] \"one\"\n    [2] \"two\"\n"
	if got := tw.String(); got != want {
		t.Errorf("Items() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Grid(t *testing.T) {
	tw := NewTreeWriter()
	tw.Grid(0, 2, []string{"A", "B", "C", "D"})

	want := "row 0: \"A\" | \"B\"\nrow 1: \"C\" | \"D\"\n"
	if got := tw.String(); got != want {
		t.Errorf("Grid() = %q, want %q", got, want)
	}
}

func TestTreeWriter_GridRagged(t *testing.T) {
	tw := NewTreeWriter()
	tw.Grid(0, 2, []string{"A", "B", "C"})
	if got := tw.String(); !strings.HasSuffix(got, "row 1: \"C\"\n") {
		t.Errorf("Grid() ragged tail = %q", got)
	}

	tw = NewTreeWriter()
	tw.Grid(0, 0, []string{"A"})
	if got := tw.String(); got != "<no columns>\n" {
		t.Errorf("Grid() zero cols = %q", got)
	}
}

func TestTreeWriter_ComplexTree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "document")
	tw.Field(1, "title", "My Document")
	tw.Line(1, "blocks")
	tw.Line(2, "block id=%q", "home")
	tw.Field(3, "text", "This is the intro")

	result := tw.String()
	for _, want := range []string{
		"document\n",
		"  title: \"My Document\"\n",
		"    block id=\"home\"\n",
		"      text: \"This is the intro\"\n",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in\n%s", want, result)
		}
	}
}
