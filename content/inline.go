package content

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Span is a run of text with uniform inline formatting.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Link   string
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Code == o.Code && s.Link == o.Link
}

// inlineParser only knows paragraphs so that text like "- name" or "1. item"
// stays text instead of becoming block structure.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
)

// Lines splits multi-line text, renderers emit explicit line breaks between
// them.
func Lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// ParseInline converts single line of text with markdown emphasis
// (**bold**, *italic*, `code`, [text](url)) into spans. Adjacent spans with
// the same formatting are merged.
func ParseInline(line string) []Span {
	if strings.TrimSpace(line) == "" {
		if line == "" {
			return nil
		}
		return []Span{{Text: line}}
	}

	src := []byte(line)
	doc := inlineParser.Parse(text.NewReader(src))

	var spans []Span
	var walk func(n ast.Node, st Span)
	add := func(st Span, s string) {
		if s == "" {
			return
		}
		st.Text = s
		if l := len(spans); l > 0 && spans[l-1].sameStyle(st) {
			spans[l-1].Text += s
			return
		}
		spans = append(spans, st)
	}
	walk = func(n ast.Node, st Span) {
		switch v := n.(type) {
		case *ast.Text:
			add(st, string(v.Segment.Value(src)))
			if v.SoftLineBreak() || v.HardLineBreak() {
				add(st, " ")
			}
			return
		case *ast.String:
			add(st, string(v.Value))
			return
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				add(st, string(seg.Value(src)))
			}
			return
		case *ast.AutoLink:
			st.Link = string(v.URL(src))
			add(st, string(v.Label(src)))
			return
		case *ast.Emphasis:
			if v.Level >= 2 {
				st.Bold = true
			} else {
				st.Italic = true
			}
		case *ast.CodeSpan:
			st.Code = true
		case *ast.Link:
			st.Link = string(v.Destination)
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c, st)
		}
	}
	walk(doc, Span{})

	// paragraph parser trims surrounding blanks, keep them for exact round trip
	if lead := len(line) - len(strings.TrimLeft(line, " \t")); lead > 0 && len(spans) > 0 {
		spans[0].Text = line[:lead] + spans[0].Text
	}
	return spans
}

// PlainText strips inline formatting.
func PlainText(line string) string {
	var b strings.Builder
	for _, s := range ParseInline(line) {
		b.WriteString(s.Text)
	}
	return b.String()
}
