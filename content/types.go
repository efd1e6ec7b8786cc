// Package content defines report structure shared by all renderers. Single
// Document is the only source of truth: every artifact is produced from it.
package content

import (
	"slices"

	"golang.org/x/text/language"

	"rpkg/common"
)

// Kind of the section content.
type Kind int

const (
	KindHeading Kind = iota
	KindParagraph
	KindTable
	KindList
	KindGallery
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	case KindList:
		return "list"
	case KindGallery:
		return "gallery"
	case KindPageBreak:
		return "pagebreak"
	}
	return "unknown"
}

// Alignment of paragraph text.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	}
	return "left"
}

// Style carries presentation attributes. Zero value means renderer defaults.
type Style struct {
	Size   int // points
	Bold   bool
	Italic bool
	Align  Alignment
	Color  string // RRGGBB
}

// Table is a fixed Rows x Cols grid with cells in row-major order.
type Table struct {
	Rows, Cols int
	Cells      []string
	// Header marks first row as column labels.
	Header bool
	// Labels marks first column as row labels (rendered bold).
	Labels bool
	// Class is presentation hint for HTML ("stats" renders cards).
	Class string
	Style Style
}

// Cell returns text at row r, column c.
func (t *Table) Cell(r, c int) string {
	return t.Cells[r*t.Cols+c]
}

// Row returns cells of the row r.
func (t *Table) Row(r int) []string {
	return t.Cells[r*t.Cols : (r+1)*t.Cols]
}

// Image refers to photo file inside package, relative to package root with
// forward slashes.
type Image struct {
	Path string
	Alt  string
}

type Section struct {
	Kind    Kind
	Text    string
	Level   int
	Style   Style
	Table   *Table
	Items   []string
	Ordered bool
	Images  []Image
}

// Chapter is numbered heading word-processing document puts above block.
type Chapter struct {
	Label string
	Title string
}

// Block is named group of sections. HTML page maps every block to a content
// block selectable from menu, markdown links to it from navigation table.
type Block struct {
	ID      string
	Title   string
	Icon    string
	Summary string
	Chapter *Chapter
	// NewPage starts block on a new page in paged formats.
	NewPage bool
	// Only restricts block to listed formats, empty means all.
	Only     []common.ArtifactFormat
	Sections []Section
}

// For reports whether block participates in the format.
func (b *Block) For(format common.ArtifactFormat) bool {
	return len(b.Only) == 0 || slices.Contains(b.Only, format)
}

// Link is menu entry pointing to another produced artifact rather than to
// a block.
type Link struct {
	ID       string
	Title    string
	Icon     string
	Summary  string
	Artifact common.ArtifactFormat
}

type Meta struct {
	Title        string
	Subtitle     string
	Author       string
	AuthorID     string
	Affiliation  string
	Organization string
	Year         int
	Lang         language.Tag
	Footer       string
}

type Document struct {
	Meta   Meta
	Blocks []Block
	Links  []Link
}

// BlocksFor returns blocks participating in the format, preserving order.
func (d *Document) BlocksFor(format common.ArtifactFormat) []*Block {
	res := make([]*Block, 0, len(d.Blocks))
	for i := range d.Blocks {
		if d.Blocks[i].For(format) {
			res = append(res, &d.Blocks[i])
		}
	}
	return res
}

// Sections flattens blocks participating in the format into single ordered
// sequence.
func (d *Document) Sections(format common.ArtifactFormat) []Section {
	var res []Section
	for _, b := range d.BlocksFor(format) {
		res = append(res, b.Sections...)
	}
	return res
}

// Images returns all gallery images in document order.
func (d *Document) Images() []Image {
	var res []Image
	for _, b := range d.Blocks {
		for _, s := range b.Sections {
			if s.Kind == KindGallery {
				res = append(res, s.Images...)
			}
		}
	}
	return res
}

// Section constructors keep built-in content readable.

func Heading(level int, text string) Section {
	return Section{Kind: KindHeading, Level: level, Text: text}
}

func Paragraph(text string) Section {
	return Section{Kind: KindParagraph, Text: text}
}

func Styled(text string, st Style) Section {
	return Section{Kind: KindParagraph, Text: text, Style: st}
}

func List(items ...string) Section {
	return Section{Kind: KindList, Items: items}
}

func OrderedList(items ...string) Section {
	return Section{Kind: KindList, Items: items, Ordered: true}
}

// Grid builds table section from rows, all rows must have equal length.
func Grid(rows ...[]string) Section {
	t := &Table{Rows: len(rows)}
	if len(rows) > 0 {
		t.Cols = len(rows[0])
	}
	for _, r := range rows {
		t.Cells = append(t.Cells, r...)
	}
	return Section{Kind: KindTable, Table: t}
}

func Gallery(images ...Image) Section {
	return Section{Kind: KindGallery, Images: images}
}

func PageBreak() Section {
	return Section{Kind: KindPageBreak}
}
