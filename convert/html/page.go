// Package html produces single self-contained interactive page: a menu of
// content blocks where selecting an entry hides the menu and shows the block.
package html

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/content"
	"rpkg/css"
)

var (
	//go:embed page.html.tmpl
	pageTemplate string
	//go:embed page.css
	pageCSS []byte
)

// Options controls page rendering.
type Options struct {
	// DefaultBlock is shown on load instead of the menu.
	DefaultBlock string
	// Stylesheet is appended to built-in page styles.
	Stylesheet []byte
	// Artifacts maps formats produced in the same run to their file names,
	// menu links to formats not produced are omitted.
	Artifacts map[common.ArtifactFormat]string
	Generator string
}

type pageView struct {
	Lang        string
	Title       string
	Heading     string
	Subtitle    string
	Author      string
	AuthorID    string
	Affiliation string
	Description string
	Identifier  string
	Generator   string
	Year        int
	Footer      string
	Back        string
	Stylesheet  template.CSS
	Menu        []menuEntry
	Blocks      []blockView
	Registry    map[string]string
	Initial     string
}

type menuEntry struct {
	Name    string
	Element string
	Href    string
	Title   string
	Icon    string
	Summary string
}

type blockView struct {
	Element  string
	Title    string
	Icon     string
	Active   bool
	Sections []sectionView
}

type sectionView struct {
	Kind    string
	Level   int
	Style   template.CSS
	Lines   [][]content.Span
	Table   *tableView
	Items   [][][]content.Span
	Ordered bool
	Images  []content.Image
}

type tableView struct {
	Class string
	Rows  [][]cellView
}

type cellView struct {
	Header bool
	Label  bool
	Lines  [][]content.Span
}

func parsePage() (*template.Template, error) {
	tmpl, err := template.New("page").Funcs(sprig.FuncMap()).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse page template: %w", err)
	}
	return tmpl, nil
}

// Probe checks that page template and built-in styles are usable and that
// custom stylesheet, when given, can be inlined.
func Probe(stylesheet []byte, log *zap.Logger) error {
	if _, err := parsePage(); err != nil {
		return err
	}
	if _, err := stylesheetCSS(stylesheet, log); err != nil {
		return err
	}
	return nil
}

func stylesheetCSS(custom []byte, log *zap.Logger) (template.CSS, error) {
	p := css.NewParser(log)
	if _, err := p.Parse(pageCSS, "page.css"); err != nil {
		return "", err
	}
	out := strings.TrimSpace(string(pageCSS))
	if len(bytes.TrimSpace(custom)) == 0 {
		return template.CSS(out), nil
	}

	sheet, err := p.Parse(custom, "custom stylesheet")
	if err != nil {
		return "", err
	}
	for _, w := range sheet.Warnings {
		log.Warn("Custom stylesheet", zap.String("warning", w))
	}
	if ext := sheet.External(); len(ext) > 0 {
		log.Warn("Custom stylesheet references external resources, page will not be self-contained", zap.Strings("refs", ext))
	}
	return template.CSS(out + "\n" + strings.TrimSpace(string(custom))), nil
}

// NewNavigatorFor returns navigator registered with page blocks of the
// document.
func NewNavigatorFor(doc *content.Document, initial string) *Navigator {
	var names []string
	for _, b := range doc.BlocksFor(common.ArtifactFormatHtml) {
		names = append(names, b.ID)
	}
	return NewNavigator(names, initial)
}

// Render produces the page.
func Render(ctx context.Context, doc *content.Document, opts *Options, log *zap.Logger) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := parsePage()
	if err != nil {
		return nil, err
	}
	styles, err := stylesheetCSS(opts.Stylesheet, log)
	if err != nil {
		return nil, err
	}

	nav := NewNavigatorFor(doc, opts.DefaultBlock)
	if opts.DefaultBlock != "" && !nav.Registered(opts.DefaultBlock) {
		log.Warn("Default section is not on the page, showing menu on load", zap.String("section", opts.DefaultBlock))
	}

	view := &pageView{
		Lang:        doc.Meta.Lang.String(),
		Title:       doc.Meta.Title,
		Heading:     strings.ToUpper(doc.Meta.Title),
		Subtitle:    doc.Meta.Subtitle,
		Author:      doc.Meta.Author,
		AuthorID:    doc.Meta.AuthorID,
		Affiliation: doc.Meta.Affiliation,
		Description: doc.Description(),
		Identifier:  doc.Meta.Identifier().String(),
		Generator:   opts.Generator,
		Year:        doc.Meta.Year,
		Footer:      doc.Meta.Footer,
		Back:        content.LabelsFor(doc.Meta.Lang).Back,
		Stylesheet:  styles,
		Registry:    nav.Registry(),
		Initial:     nav.Initial().Block,
	}

	for _, b := range doc.BlocksFor(common.ArtifactFormatHtml) {
		view.Menu = append(view.Menu, menuEntry{
			Name:    b.ID,
			Element: ElementID(b.ID),
			Title:   b.Title,
			Icon:    b.Icon,
			Summary: b.Summary,
		})
		bv := blockView{
			Element: ElementID(b.ID),
			Title:   b.Title,
			Icon:    b.Icon,
			Active:  nav.Initial().Block == b.ID,
		}
		for i := range b.Sections {
			bv.Sections = append(bv.Sections, viewSection(&b.Sections[i]))
		}
		view.Blocks = append(view.Blocks, bv)
	}
	for _, l := range doc.Links {
		name, ok := opts.Artifacts[l.Artifact]
		if !ok {
			log.Debug("Skipping menu link to artifact which is not produced", zap.String("link", l.ID), zap.Stringer("artifact", l.Artifact))
			continue
		}
		view.Menu = append(view.Menu, menuEntry{Name: l.ID, Href: name, Title: l.Title, Icon: l.Icon, Summary: l.Summary})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("unable to execute page template: %w", err)
	}

	log.Debug("Page rendered", zap.Int("blocks", len(view.Blocks)), zap.Int("menu", len(view.Menu)), zap.Int("size", buf.Len()))
	return buf.Bytes(), nil
}

func spans(text string) [][]content.Span {
	lines := content.Lines(text)
	res := make([][]content.Span, 0, len(lines))
	for _, l := range lines {
		res = append(res, content.ParseInline(l))
	}
	return res
}

func styleCSS(st content.Style) template.CSS {
	var decl []string
	if st.Size > 0 {
		decl = append(decl, fmt.Sprintf("font-size: %dpt", st.Size))
	}
	if st.Bold {
		decl = append(decl, "font-weight: bold")
	}
	if st.Italic {
		decl = append(decl, "font-style: italic")
	}
	if st.Align != content.AlignLeft {
		decl = append(decl, "text-align: "+st.Align.String())
	}
	if st.Color != "" {
		// validated as six hex digits
		decl = append(decl, "color: #"+st.Color)
	}
	return template.CSS(strings.Join(decl, "; "))
}

func viewSection(s *content.Section) sectionView {
	v := sectionView{Kind: s.Kind.String(), Level: s.Level, Style: styleCSS(s.Style), Ordered: s.Ordered}
	switch s.Kind {
	case content.KindHeading, content.KindParagraph:
		v.Lines = spans(s.Text)
	case content.KindTable:
		t := s.Table
		v.Style = styleCSS(t.Style)
		tv := &tableView{Class: t.Class}
		for r := range t.Rows {
			row := make([]cellView, 0, t.Cols)
			for c, cell := range t.Row(r) {
				row = append(row, cellView{
					Header: t.Header && r == 0,
					Label:  t.Labels && c == 0,
					Lines:  spans(cell),
				})
			}
			tv.Rows = append(tv.Rows, row)
		}
		v.Table = tv
	case content.KindList:
		for _, item := range s.Items {
			v.Items = append(v.Items, spans(item))
		}
	case content.KindGallery:
		v.Images = s.Images
	}
	return v
}
