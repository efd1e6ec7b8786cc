package docx

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/content"
)

const (
	// A4 portrait in twips with 2.5cm margins.
	pageWidth   = 11906
	pageHeight  = 16838
	pageMargin  = 1418
	textWidth   = pageWidth - 2*pageMargin
	pictureEMU  = 4 * 914400
	monospace   = "Courier New"
	bulletGlyph = "•"
)

type mediaFile struct {
	name string
	data []byte
}

type builder struct {
	opts *Options
	log  *zap.Logger

	doc  *etree.Document
	body *etree.Element
	rels *relationships

	media      []mediaFile
	paragraphs int
	tables     int
}

func newBuilder(opts *Options, log *zap.Logger) *builder {
	doc := newXML()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:pic", nsPic)
	return &builder{
		opts: opts,
		log:  log,
		doc:  doc,
		body: root.CreateElement("w:body"),
		rels: newRelationships(),
	}
}

func (b *builder) build(ctx context.Context, doc *content.Document) error {
	for i, blk := range doc.BlocksFor(common.ArtifactFormatDocx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && blk.NewPage && b.opts.PageBreaks {
			b.pageBreak()
		}
		if blk.Chapter != nil {
			b.chapter(blk.Chapter)
		}
		for j := range blk.Sections {
			if err := b.section(&blk.Sections[j]); err != nil {
				return fmt.Errorf("block %q section %d: %w", blk.ID, j, err)
			}
		}
	}
	if footer := doc.Meta.Footer; footer != "" {
		b.paragraph(footer, content.Style{Size: 9, Italic: true, Align: content.AlignCenter}, "")
	}
	b.sectionProperties()
	return nil
}

func (b *builder) chapter(c *content.Chapter) {
	for _, t := range []string{c.Label, c.Title} {
		if t != "" {
			b.paragraph(t, content.Style{}, "Heading1")
		}
	}
}

func (b *builder) section(s *content.Section) error {
	switch s.Kind {
	case content.KindHeading:
		b.paragraph(s.Text, s.Style, headingStyle(s.Level))
	case content.KindParagraph:
		b.paragraph(s.Text, s.Style, "")
	case content.KindTable:
		b.table(s.Table)
	case content.KindList:
		for i, item := range s.Items {
			marker := bulletGlyph
			if s.Ordered {
				marker = strconv.Itoa(i+1) + "."
			}
			p := b.newParagraph("ListParagraph", s.Style)
			b.run(p, content.Span{Text: marker}, s.Style)
			p.CreateElement("w:r").CreateElement("w:tab")
			b.inline(p, item, s.Style)
		}
	case content.KindGallery:
		for _, img := range s.Images {
			b.picture(img)
		}
	case content.KindPageBreak:
		b.pageBreak()
	default:
		return fmt.Errorf("unsupported section kind %s", s.Kind)
	}
	return nil
}

func headingStyle(level int) string {
	switch level {
	case 1:
		return "Heading2"
	default:
		return "Heading3"
	}
}

func alignment(a content.Alignment) string {
	switch a {
	case content.AlignCenter:
		return "center"
	case content.AlignRight:
		return "right"
	case content.AlignJustify:
		return "both"
	}
	return ""
}

func (b *builder) newParagraphIn(parent *etree.Element, style string, st content.Style) *etree.Element {
	b.paragraphs++
	p := parent.CreateElement("w:p")
	jc := alignment(st.Align)
	if style == "" && jc == "" {
		return p
	}
	pPr := p.CreateElement("w:pPr")
	if style != "" {
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", style)
	}
	if jc != "" {
		pPr.CreateElement("w:jc").CreateAttr("w:val", jc)
	}
	return p
}

func (b *builder) newParagraph(style string, st content.Style) *etree.Element {
	return b.newParagraphIn(b.body, style, st)
}

// paragraph writes text, every line of it is separated by line break.
func (b *builder) paragraph(text string, st content.Style, style string) {
	p := b.newParagraph(style, st)
	b.inline(p, text, st)
}

func (b *builder) inline(p *etree.Element, text string, st content.Style) {
	for i, line := range content.Lines(text) {
		if i > 0 {
			p.CreateElement("w:r").CreateElement("w:br")
		}
		for _, span := range content.ParseInline(line) {
			if span.Link != "" {
				h := p.CreateElement("w:hyperlink")
				h.CreateAttr("r:id", b.rels.link(span.Link))
				b.run(h, span, st)
				continue
			}
			b.run(p, span, st)
		}
	}
}

func (b *builder) run(parent *etree.Element, span content.Span, st content.Style) *etree.Element {
	r := parent.CreateElement("w:r")
	rPr := etree.NewElement("w:rPr")
	if span.Link != "" {
		rPr.CreateElement("w:rStyle").CreateAttr("w:val", "Hyperlink")
	}
	if span.Code {
		f := rPr.CreateElement("w:rFonts")
		f.CreateAttr("w:ascii", monospace)
		f.CreateAttr("w:hAnsi", monospace)
	}
	if st.Bold || span.Bold {
		rPr.CreateElement("w:b")
	}
	if st.Italic || span.Italic {
		rPr.CreateElement("w:i")
	}
	if st.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", strings.ToUpper(st.Color))
	}
	if st.Size > 0 {
		// half-points
		sz := strconv.Itoa(st.Size * 2)
		rPr.CreateElement("w:sz").CreateAttr("w:val", sz)
		rPr.CreateElement("w:szCs").CreateAttr("w:val", sz)
	}
	if len(rPr.ChildElements()) > 0 {
		r.AddChild(rPr)
	}
	t := r.CreateElement("w:t")
	if strings.TrimSpace(span.Text) != span.Text {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(span.Text)
	return r
}

func (b *builder) pageBreak() {
	b.paragraphs++
	b.body.CreateElement("w:p").CreateElement("w:r").CreateElement("w:br").CreateAttr("w:type", "page")
}

// table always writes Rows x Cols cells, header row repeats on every page.
func (b *builder) table(t *content.Table) {
	b.tables++
	tbl := b.body.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblPr.CreateElement("w:tblStyle").CreateAttr("w:val", "TableGrid")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "5000")
	w.CreateAttr("w:type", "pct")

	colWidth := strconv.Itoa(textWidth / t.Cols)
	grid := tbl.CreateElement("w:tblGrid")
	for range t.Cols {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", colWidth)
	}

	for r := range t.Rows {
		tr := tbl.CreateElement("w:tr")
		header := t.Header && r == 0
		if header {
			tr.CreateElement("w:trPr").CreateElement("w:tblHeader")
		}
		for c, cell := range t.Row(r) {
			tc := tr.CreateElement("w:tc")
			tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
			tcW.CreateAttr("w:w", colWidth)
			tcW.CreateAttr("w:type", "dxa")

			st := t.Style
			if header || (t.Labels && c == 0) {
				st.Bold = true
			}
			p := b.newParagraphIn(tc, "", st)
			b.inline(p, cell, st)
		}
	}
	// consecutive tables would merge without paragraph between them
	b.newParagraph("", content.Style{})
}

func (b *builder) picture(img content.Image) {
	caption := func() {
		b.paragraph(img.Alt, content.Style{}, "Caption")
	}

	if !b.opts.EmbedImages || b.opts.Root == "" {
		caption()
		return
	}
	data, err := os.ReadFile(filepath.Join(b.opts.Root, filepath.FromSlash(img.Path)))
	if err != nil {
		b.log.Warn("Image is not available, using caption only", zap.String("image", img.Path), zap.Error(err))
		caption()
		return
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != "jpeg" || cfg.Width == 0 || cfg.Height == 0 {
		b.log.Warn("Image can not be embedded, using caption only", zap.String("image", img.Path), zap.String("format", format), zap.Error(err))
		caption()
		return
	}

	num := len(b.media) + 1
	name := fmt.Sprintf("image%d.jpg", num)
	b.media = append(b.media, mediaFile{name: name, data: data})
	rid := b.rels.add(relImage, "media/"+name, false)

	cx := int64(pictureEMU)
	cy := cx * int64(cfg.Height) / int64(cfg.Width)
	b.drawing(rid, num, name, img.Alt, cx, cy)
	caption()
}

func (b *builder) drawing(rid string, id int, name, descr string, cx, cy int64) {
	p := b.newParagraph("", content.Style{Align: content.AlignCenter})
	inline := p.CreateElement("w:r").CreateElement("w:drawing").CreateElement("wp:inline")
	for _, d := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(d, "0")
	}
	ext := inline.CreateElement("wp:extent")
	ext.CreateAttr("cx", strconv.FormatInt(cx, 10))
	ext.CreateAttr("cy", strconv.FormatInt(cy, 10))

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", "Picture "+strconv.Itoa(id))
	docPr.CreateAttr("descr", descr)

	data := inline.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")

	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", rid)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	aext := xfrm.CreateElement("a:ext")
	aext.CreateAttr("cx", strconv.FormatInt(cx, 10))
	aext.CreateAttr("cy", strconv.FormatInt(cy, 10))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

func (b *builder) sectionProperties() {
	sectPr := b.body.CreateElement("w:sectPr")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(pageWidth))
	pgSz.CreateAttr("w:h", strconv.Itoa(pageHeight))
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, strconv.Itoa(pageMargin))
	}
	for _, a := range []string{"w:header", "w:footer"} {
		pgMar.CreateAttr(a, "709")
	}
	pgMar.CreateAttr("w:gutter", "0")
}
