// Package markdown produces repository readme: a navigation table linking to
// every block followed by blocks themselves.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/content"
)

// DefaultNavColumns is used when options do not specify table width.
const DefaultNavColumns = 4

// Options controls readme rendering.
type Options struct {
	NavColumns int
	// Artifacts maps formats produced in the same run to their file names,
	// navigation links to formats not produced are omitted.
	Artifacts map[common.ArtifactFormat]string
}

// lines starting with these would turn into block structure
var blockMarker = regexp.MustCompile(`^(#{1,6}|>|[-+*]|\d+[.)])(\s|$)`)

type writer struct {
	strings.Builder
}

func (w *writer) line(parts ...string) {
	for _, p := range parts {
		w.WriteString(p)
	}
	w.WriteByte('\n')
}

// Anchors maps block IDs to fragment identifiers, unique within document.
func Anchors(blocks []*content.Block) map[string]string {
	res := make(map[string]string, len(blocks))
	used := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		base := slug.Make(b.Title)
		if base == "" {
			base = slug.Make(b.ID)
		}
		anchor := base
		for i := 1; used[anchor]; i++ {
			anchor = base + "-" + strconv.Itoa(i)
		}
		used[anchor] = true
		res[b.ID] = anchor
	}
	return res
}

// Render produces readme text.
func Render(ctx context.Context, doc *content.Document, opts *Options, log *zap.Logger) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cols := opts.NavColumns
	if cols <= 0 {
		cols = DefaultNavColumns
	}
	blocks := doc.BlocksFor(common.ArtifactFormatMarkdown)
	anchors := Anchors(blocks)
	labels := content.LabelsFor(doc.Meta.Lang)

	var w writer
	header(&w, &doc.Meta, labels)

	var entries []string
	for _, b := range blocks {
		entries = append(entries, fmt.Sprintf("[%s](#%s)", title(b.Icon, b.Title), anchors[b.ID]))
	}
	for _, l := range doc.Links {
		name, ok := opts.Artifacts[l.Artifact]
		if !ok {
			log.Debug("Skipping navigation link to artifact which is not produced", zap.String("link", l.ID), zap.Stringer("artifact", l.Artifact))
			continue
		}
		entries = append(entries, fmt.Sprintf("[%s](%s)", title(l.Icon, l.Title), linkTarget(name)))
	}
	if len(entries) > 0 {
		w.line("## ", labels.Navigation)
		w.line()
		navigation(&w, entries, cols)
		w.line()
		w.line("---")
		w.line()
	}

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.line(`<a id="`, anchors[b.ID], `"></a>`)
		w.line()
		w.line("## ", title(b.Icon, b.Title))
		w.line()
		for i := range b.Sections {
			if err := section(&w, &b.Sections[i]); err != nil {
				return nil, fmt.Errorf("block %q section %d: %w", b.ID, i, err)
			}
		}
	}

	footer(&w, &doc.Meta)

	log.Debug("Readme rendered", zap.Int("blocks", len(blocks)), zap.Int("navigation", len(entries)), zap.Int("size", w.Len()))
	return []byte(w.String()), nil
}

func title(icon, text string) string {
	if icon == "" {
		return text
	}
	return icon + " " + text
}

func linkTarget(name string) string {
	return strings.ReplaceAll(name, " ", "%20")
}

func header(w *writer, m *content.Meta, labels content.Labels) {
	w.line("# ", strings.ToUpper(m.Title))
	if m.Subtitle != "" {
		w.line("## ", m.Subtitle)
	}
	w.line()

	var info []string
	if m.Author != "" {
		info = append(info, fmt.Sprintf("**%s: %s**", labels.By, m.Author))
	}
	for _, s := range []string{m.AuthorID, m.Affiliation} {
		if s != "" {
			info = append(info, "**"+s+"**")
		}
	}
	if len(info) > 0 {
		w.line(`<div align="center">`)
		w.line()
		w.line(strings.Join(info, "  \n"))
		w.line()
		w.line("</div>")
		w.line()
	}
	w.line("---")
	w.line()
}

func footer(w *writer, m *content.Meta) {
	w.line("---")
	w.line()
	w.line(`<div align="center">`)
	w.line()
	if m.Footer != "" {
		w.line("*", m.Footer, "*")
		w.line()
	}
	credits := []string{}
	if m.Year > 0 {
		credits = append(credits, fmt.Sprintf("© %d", m.Year))
	}
	for _, s := range []string{m.Author, m.Affiliation} {
		if s != "" {
			credits = append(credits, s)
		}
	}
	if len(credits) > 0 {
		w.line("**", strings.Join(credits, " - "), "**")
		w.line()
	}
	w.line("</div>")
}

// navigation writes entries into centered table cols wide, first row of
// entries doubles as table header.
func navigation(w *writer, entries []string, cols int) {
	cols = min(cols, len(entries))
	for i := 0; i < len(entries); i += cols {
		row := make([]string, cols)
		copy(row, entries[i:min(i+cols, len(entries))])
		tableRow(w, row)
		if i == 0 {
			tableRow(w, repeat(":---:", cols))
		}
	}
}

func repeat(s string, n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = s
	}
	return res
}

func tableRow(w *writer, cells []string) {
	w.WriteString("|")
	for _, c := range cells {
		if c == "" {
			w.WriteString("   |")
			continue
		}
		w.WriteString(" ")
		w.WriteString(c)
		w.WriteString(" |")
	}
	w.WriteByte('\n')
}

func escapeLine(s string) string {
	if m := blockMarker.FindStringSubmatchIndex(s); m != nil {
		marker := s[m[2]:m[3]]
		switch last := len(marker) - 1; {
		case marker[0] >= '0' && marker[0] <= '9':
			return marker[:last] + `\` + s[last:]
		default:
			return `\` + s
		}
	}
	return s
}

func cellText(s string) string {
	lines := content.Lines(s)
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(strings.TrimSpace(l), "|", `\|`)
	}
	return strings.Join(lines, "<br>")
}

// emphasize wraps text into emphasis markers, lines carrying their own
// emphasis are left alone.
func emphasize(s string, st content.Style) string {
	var marker string
	switch {
	case st.Bold && st.Italic:
		marker = "***"
	case st.Bold:
		marker = "**"
	case st.Italic:
		marker = "*"
	}
	s = strings.TrimSpace(s)
	if marker == "" || s == "" || strings.ContainsAny(s, "*_") {
		return s
	}
	return marker + s + marker
}

func section(w *writer, s *content.Section) error {
	switch s.Kind {
	case content.KindHeading:
		level := min(s.Level+2, 6)
		w.line(strings.Repeat("#", level), " ", strings.Join(content.Lines(s.Text), " "))
		w.line()
	case content.KindParagraph:
		lines := content.Lines(s.Text)
		for i, l := range lines {
			lines[i] = emphasize(escapeLine(strings.TrimSpace(l)), s.Style)
		}
		text := strings.Join(lines, "  \n")
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if s.Style.Align == content.AlignCenter {
			w.line(`<div align="center">`)
			w.line()
			w.line(text)
			w.line()
			w.line("</div>")
		} else {
			w.line(text)
		}
		w.line()
	case content.KindTable:
		table(w, s.Table)
		w.line()
	case content.KindList:
		for i, item := range s.Items {
			marker := "-"
			if s.Ordered {
				marker = strconv.Itoa(i+1) + "."
			}
			w.line(marker, " ", cellText(item))
		}
		w.line()
	case content.KindGallery:
		for _, img := range s.Images {
			w.line("![", strings.ReplaceAll(img.Alt, "]", `\]`), "](", img.Path, ")")
			w.line()
		}
	case content.KindPageBreak:
	default:
		return fmt.Errorf("unsupported section kind %s", s.Kind)
	}
	return nil
}

// table writes exactly Rows x Cols cells. Markdown tables always have header,
// when content table has none it is left empty.
func table(w *writer, t *content.Table) {
	cells := func(r int) []string {
		row := make([]string, 0, t.Cols)
		for c, cell := range t.Row(r) {
			text := cellText(cell)
			if t.Labels && c == 0 && text != "" {
				text = emphasize(text, content.Style{Bold: true})
			}
			row = append(row, text)
		}
		return row
	}

	first := 0
	if t.Header {
		tableRow(w, cells(0))
		first = 1
	} else {
		tableRow(w, make([]string, t.Cols))
	}
	align := "---"
	if t.Class == "stats" {
		align = ":---:"
	}
	tableRow(w, repeat(align, t.Cols))
	for r := first; r < t.Rows; r++ {
		tableRow(w, cells(r))
	}
}
