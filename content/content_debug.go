package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"rpkg/utils/debug"
)

// String returns readable tree of the document. It is stored in debug
// report and exists solely for manual inspection.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document id=%s lang=%s", d.Meta.Identifier(), d.Meta.Lang)
	tw.Field(1, "title", d.Meta.Title)
	tw.Field(1, "subtitle", d.Meta.Subtitle)
	tw.Field(1, "author", d.Meta.Author)
	tw.Field(1, "description", d.Description())

	tw.Line(0, "Blocks: %d", len(d.Blocks))
	for i := range d.Blocks {
		b := &d.Blocks[i]
		tw.Line(1, "Block[%q] title=%q only=%v sections=%d", b.ID, b.Title, b.Only, len(b.Sections))
		if b.Chapter != nil {
			tw.Line(2, "chapter %q %q", b.Chapter.Label, b.Chapter.Title)
		}
		for j := range b.Sections {
			dumpSection(tw, 2, &b.Sections[j])
		}
	}

	if len(d.Links) > 0 {
		tw.Line(0, "Links: %d", len(d.Links))
		for _, l := range d.Links {
			tw.Line(1, "Link[%q] title=%q artifact=%s", l.ID, l.Title, l.Artifact)
		}
	}

	if images := d.Images(); len(images) > 0 {
		index := make(map[string]string, len(images))
		for _, img := range images {
			index[img.Path] = img.Alt
		}
		tw.Line(0, "Images index: %d", len(index))
		keys := slices.Collect(maps.Keys(index))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Image[%q] alt=%q", k, index[k])
		}
	}
	return tw.String()
}

func dumpSection(tw *debug.TreeWriter, depth int, s *Section) {
	switch s.Kind {
	case KindHeading:
		tw.Line(depth, "heading level=%d", s.Level)
		tw.Field(depth+1, "text", s.Text)
	case KindParagraph:
		tw.Line(depth, "paragraph %+v", s.Style)
		tw.Field(depth+1, "text", s.Text)
	case KindTable:
		if s.Table == nil {
			tw.Line(depth, "table <nil>")
			return
		}
		tw.Line(depth, "table %dx%d header=%t labels=%t class=%q", s.Table.Rows, s.Table.Cols, s.Table.Header, s.Table.Labels, s.Table.Class)
		tw.Grid(depth+1, s.Table.Cols, s.Table.Cells)
	case KindList:
		tw.Items(depth, "list ordered="+boolName(s.Ordered), s.Items)
	case KindGallery:
		tw.Line(depth, "gallery images=%d", len(s.Images))
	default:
		tw.Line(depth, "%s", s.Kind)
	}
}

func boolName(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
