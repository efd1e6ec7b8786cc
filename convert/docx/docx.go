// Package docx produces word-processing (Office Open XML) document from
// report content.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rpkg/archive"
	"rpkg/content"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	nsPkgRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes    = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCore     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtended = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	ctMain     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtended = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"

	mediaDir = "word/media"
)

//go:embed styles.xml
var stylesXML []byte

// Options controls document rendering.
type Options struct {
	Font        string
	PageBreaks  bool
	EmbedImages bool
	FixZip      bool
	// Root is package directory gallery images are read from. Empty disables
	// embedding, images are replaced with their captions.
	Root string
	// AppName goes into extended properties.
	AppName string
}

// Probe checks that embedded style part is usable.
func Probe() error {
	_, err := loadStyles("Arial", "en")
	return err
}

func loadStyles(font, lang string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(stylesXML); err != nil {
		return nil, fmt.Errorf("unable to parse styles part: %w", err)
	}
	rPr := doc.FindElement("//w:docDefaults/w:rPrDefault/w:rPr")
	if rPr == nil {
		return nil, fmt.Errorf("styles part has no default run properties")
	}
	if fonts := rPr.SelectElement("w:rFonts"); fonts != nil && font != "" {
		for _, a := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
			fonts.CreateAttr(a, font)
		}
	}
	if l := rPr.SelectElement("w:lang"); l != nil && lang != "" {
		l.CreateAttr("w:val", lang)
	}
	return doc, nil
}

// modTime is timestamp of every part, it depends only on content so that
// repeated renders are byte-identical.
func modTime(doc *content.Document) time.Time {
	return archive.Timestamp(doc.Meta.Year)
}

// Render produces complete document package in memory.
func Render(ctx context.Context, doc *content.Document, opts *Options, log *zap.Logger) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	styles, err := loadStyles(opts.Font, doc.Meta.Lang.String())
	if err != nil {
		return nil, err
	}

	b := newBuilder(opts, log)
	if err := b.build(ctx, doc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	p := &packer{zw: zw, mod: modTime(doc)}

	p.xml("[Content_Types].xml", contentTypes(b.media))
	p.xml("_rels/.rels", packageRels())
	p.xml("docProps/core.xml", coreProps(doc))
	p.xml("docProps/app.xml", appProps(doc, opts.AppName))
	p.xml("word/document.xml", b.doc)
	p.xml("word/styles.xml", styles)
	p.xml("word/_rels/document.xml.rels", b.rels.doc)
	for _, m := range b.media {
		p.data(mediaDir+"/"+m.name, m.data)
	}
	if p.err != nil {
		return nil, fmt.Errorf("unable to write document part: %w", p.err)
	}
	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("unable to close document archive: %w", err)
	}

	log.Debug("Document packed",
		zap.Int("paragraphs", b.paragraphs),
		zap.Int("tables", b.tables),
		zap.Int("images", len(b.media)),
		zap.Int("size", buf.Len()))

	if opts.FixZip {
		return archive.StripDataDescriptors(buf.Bytes())
	}
	return buf.Bytes(), nil
}

type packer struct {
	zw  *zip.Writer
	mod time.Time
	err error
}

func (p *packer) xml(name string, doc *etree.Document) {
	if p.err != nil {
		return
	}
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	p.data(name, buf.Bytes())
}

func (p *packer) data(name string, data []byte) {
	if p.err != nil {
		return
	}
	w, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: p.mod})
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
	}
}
