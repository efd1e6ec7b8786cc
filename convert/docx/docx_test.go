package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"

	"rpkg/content"
)

func sampleDoc() *content.Document {
	return &content.Document{
		Meta: content.Meta{Title: "Title", Author: "Author", Year: 2025},
		Blocks: []content.Block{{
			ID: "main",
			Sections: []content.Section{
				content.Heading(1, "Title"),
				content.Paragraph("Body text with **bold** and [link](https://example.com)"),
				content.Grid([]string{"A", "B"}, []string{"C", "D"}),
			},
		}},
	}
}

func defaultOptions() *Options {
	return &Options{Font: "Arial", PageBreaks: true, EmbedImages: true, AppName: "rpkg"}
}

func readParts(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unable to open result as zip: %v", err)
	}
	parts := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = b
	}
	return parts
}

func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}
	return doc
}

func TestProbe(t *testing.T) {
	if err := Probe(); err != nil {
		t.Fatalf("Probe() = %v", err)
	}
}

func TestRender_Parts(t *testing.T) {
	data, err := Render(context.Background(), sampleDoc(), defaultOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	parts := readParts(t, data)
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	doc := parseXML(t, parts["word/document.xml"])
	var texts []string
	for _, el := range doc.FindElements("//w:t") {
		texts = append(texts, el.Text())
	}
	all := strings.Join(texts, "")
	for _, want := range []string{"Title", "Body text", "bold", "link"} {
		if !strings.Contains(all, want) {
			t.Errorf("document text %q does not contain %q", all, want)
		}
	}

	rels := parseXML(t, parts["word/_rels/document.xml.rels"])
	found := false
	for _, r := range rels.FindElements("//Relationship") {
		if r.SelectAttrValue("Target", "") == "https://example.com" && r.SelectAttrValue("TargetMode", "") == "External" {
			found = true
		}
	}
	if !found {
		t.Error("hyperlink relationship not written")
	}

	core := parseXML(t, parts["docProps/core.xml"])
	id := core.FindElement("//dc:identifier")
	if id == nil || !strings.HasPrefix(id.Text(), "urn:uuid:") {
		t.Errorf("bad identifier element: %v", id)
	}
}

func TestRender_TableCells(t *testing.T) {
	d := sampleDoc()
	d.Blocks[0].Sections = append(d.Blocks[0].Sections,
		content.Grid([]string{"1", "2", "3"}, []string{"4", "5", "6"}, []string{"7", "8", "9"}))

	data, err := Render(context.Background(), d, defaultOptions(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc := parseXML(t, readParts(t, data)["word/document.xml"])

	tables := doc.FindElements("//w:tbl")
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	for i, tc := range []struct {
		rows, cols int
		cells      string
	}{
		{2, 2, "ABCD"},
		{3, 3, "123456789"},
	} {
		rows := tables[i].SelectElements("w:tr")
		if len(rows) != tc.rows {
			t.Errorf("table %d: got %d rows, want %d", i, len(rows), tc.rows)
		}
		cells := tables[i].FindElements(".//w:tc")
		if len(cells) != tc.rows*tc.cols {
			t.Errorf("table %d: got %d cells, want %d", i, len(cells), tc.rows*tc.cols)
		}
		var got strings.Builder
		for _, c := range cells {
			for _, txt := range c.FindElements(".//w:t") {
				got.WriteString(txt.Text())
			}
		}
		if got.String() != tc.cells {
			t.Errorf("table %d: cells in order %q, want %q", i, got.String(), tc.cells)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	log := zaptest.NewLogger(t)
	for _, fix := range []bool{false, true} {
		opts := defaultOptions()
		opts.FixZip = fix
		first, err := Render(context.Background(), content.Report(content.DefaultPhotos), opts, log)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		second, err := Render(context.Background(), content.Report(content.DefaultPhotos), opts, log)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("fix=%t: renders differ", fix)
		}
	}
}

func TestRender_FixZip(t *testing.T) {
	opts := defaultOptions()
	opts.FixZip = true
	data, err := Render(context.Background(), sampleDoc(), opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unable to open result as zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Flags&0x8 != 0 {
			t.Errorf("entry %s still has data descriptor flag", f.Name)
		}
	}
}

func TestRender_FontAndLanguage(t *testing.T) {
	d := sampleDoc()
	opts := defaultOptions()
	opts.Font = "Times New Roman"
	data, err := Render(context.Background(), d, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	styles := parseXML(t, readParts(t, data)["word/styles.xml"])
	fonts := styles.FindElement("//w:rPrDefault/w:rPr/w:rFonts")
	if fonts == nil || fonts.SelectAttrValue("w:ascii", "") != "Times New Roman" {
		t.Errorf("default font not replaced: %v", fonts)
	}
}

func TestRender_PageBreaks(t *testing.T) {
	count := func(opts *Options) int {
		data, err := Render(context.Background(), content.Report(0), opts, zaptest.NewLogger(t))
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		doc := parseXML(t, readParts(t, data)["word/document.xml"])
		n := 0
		for _, br := range doc.FindElements("//w:br") {
			if br.SelectAttrValue("w:type", "") == "page" {
				n++
			}
		}
		return n
	}

	opts := defaultOptions()
	if n := count(opts); n == 0 {
		t.Error("expected page breaks between chapters")
	}
	opts.PageBreaks = false
	if n := count(opts); n != 0 {
		t.Errorf("got %d page breaks with page breaks disabled", n)
	}
}

func writeJPEG(t *testing.T, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRender_EmbedImages(t *testing.T) {
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "images", "image_1.jpg"), 40, 30)
	// image_2 is absent and falls back to caption

	d := content.Report(2)
	opts := defaultOptions()
	opts.Root = root

	data, err := Render(context.Background(), d, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	parts := readParts(t, data)
	if _, ok := parts["word/media/image1.jpg"]; !ok {
		t.Error("image was not embedded")
	}
	if len(parts) != 8 {
		t.Errorf("got %d parts, want 8", len(parts))
	}

	doc := parseXML(t, parts["word/document.xml"])
	if n := len(doc.FindElements("//w:drawing")); n != 1 {
		t.Errorf("got %d drawings, want 1", n)
	}
	ext := doc.FindElement("//wp:extent")
	if ext == nil || ext.SelectAttrValue("cy", "") != "2743200" {
		t.Errorf("unexpected extent %v", ext)
	}

	types := string(parts["[Content_Types].xml"])
	if !strings.Contains(types, `Extension="jpg"`) {
		t.Error("content types miss jpg default")
	}

	opts.EmbedImages = false
	data, err = Render(context.Background(), d, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if _, ok := readParts(t, data)["word/media/image1.jpg"]; ok {
		t.Error("image embedded with embedding disabled")
	}
}

func TestRender_EmbedImagesMediaName(t *testing.T) {
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "photos", "first.jpeg"), 40, 30)
	writeJPEG(t, filepath.Join(root, "photos", "second.JPG"), 40, 30)

	d := sampleDoc()
	d.Blocks[0].Sections = append(d.Blocks[0].Sections, content.Gallery(
		content.Image{Path: "photos/first.jpeg", Alt: "first"},
		content.Image{Path: "photos/second.JPG", Alt: "second"},
	))
	opts := defaultOptions()
	opts.Root = root

	data, err := Render(context.Background(), d, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	parts := readParts(t, data)
	for _, name := range []string{"word/media/image1.jpg", "word/media/image2.jpg"} {
		if _, ok := parts[name]; !ok {
			t.Errorf("%s was not embedded", name)
		}
	}
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") && !strings.HasSuffix(name, ".jpg") {
			t.Errorf("media %s has extension without content type", name)
		}
	}
	rels := string(parts["word/_rels/document.xml.rels"])
	if strings.Contains(rels, ".jpeg") || strings.Contains(rels, ".JPG") {
		t.Errorf("relationships keep source extension:\n%s", rels)
	}
}

func TestRender_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, sampleDoc(), defaultOptions(), zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for canceled context")
	}
}
