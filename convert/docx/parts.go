package docx

import (
	"strconv"

	"github.com/beevik/etree"

	"rpkg/content"
)

func newXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func contentTypes(media []mediaFile) *etree.Document {
	doc := newXML()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsTypes)

	def := func(ext, ct string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", ct)
	}
	def("rels", ctRels)
	def("xml", "application/xml")
	if len(media) > 0 {
		def("jpg", "image/jpeg")
	}

	override := func(part, ct string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}
	override("/word/document.xml", ctMain)
	override("/word/styles.xml", ctStyles)
	override("/docProps/core.xml", ctCore)
	override("/docProps/app.xml", ctExtended)
	return doc
}

func packageRels() *etree.Document {
	doc := newXML()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRels)
	for i, r := range [][2]string{
		{relOfficeDocument, "word/document.xml"},
		{relCoreProps, "docProps/core.xml"},
		{relExtendedProps, "docProps/app.xml"},
	} {
		rel := rels.CreateElement("Relationship")
		rel.CreateAttr("Id", "rId"+strconv.Itoa(i+1))
		rel.CreateAttr("Type", r[0])
		rel.CreateAttr("Target", r[1])
	}
	return doc
}

func coreProps(d *content.Document) *etree.Document {
	doc := newXML()
	core := doc.CreateElement("cp:coreProperties")
	core.CreateAttr("xmlns:cp", nsCore)
	core.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	core.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	core.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	core.CreateElement("dc:title").SetText(d.Meta.Title)
	if d.Meta.Subtitle != "" {
		core.CreateElement("dc:subject").SetText(d.Meta.Subtitle)
	}
	core.CreateElement("dc:creator").SetText(d.Meta.Author)
	core.CreateElement("dc:description").SetText(d.Description())
	core.CreateElement("dc:identifier").SetText("urn:uuid:" + d.Meta.Identifier().String())
	core.CreateElement("dc:language").SetText(d.Meta.Lang.String())

	created := core.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(modTime(d).Format("2006-01-02T15:04:05Z"))
	return doc
}

func appProps(d *content.Document, app string) *etree.Document {
	doc := newXML()
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", nsExtended)
	if app != "" {
		props.CreateElement("Application").SetText(app)
	}
	if d.Meta.Organization != "" {
		props.CreateElement("Company").SetText(d.Meta.Organization)
	}
	return doc
}

// relationships of the main document part.
type relationships struct {
	doc   *etree.Document
	root  *etree.Element
	next  int
	links map[string]string
}

func newRelationships() *relationships {
	doc := newXML()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsPkgRels)
	r := &relationships{doc: doc, root: root, next: 1, links: make(map[string]string)}
	r.add(relStyles, "styles.xml", false)
	return r
}

func (r *relationships) add(typ, target string, external bool) string {
	id := "rId" + strconv.Itoa(r.next)
	r.next++
	rel := r.root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", typ)
	rel.CreateAttr("Target", target)
	if external {
		rel.CreateAttr("TargetMode", "External")
	}
	return id
}

// link returns relationship for external hyperlink, one per target.
func (r *relationships) link(target string) string {
	if id, ok := r.links[target]; ok {
		return id
	}
	id := r.add(relHyperlink, target, true)
	r.links[target] = id
	return id
}
