// Package pptxtest builds minimal .pptx archives in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"
)

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	relNS   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	pkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Builder accumulates slides and writes a .pptx archive.
type Builder struct {
	slides []*Slide
	// LayoutShapes is the spTree content of the single slide layout.
	LayoutShapes string
	// MasterShapes is the spTree content of the single slide master.
	MasterShapes string
	media        int
	charts       int
	// extra parts written verbatim, keyed by part name
	extra map[string][]byte
}

// Slide is one slide under construction.
type Slide struct {
	b      *Builder
	shapes []string
	rels   []rel
	notes  *string
}

type rel struct {
	id, relType, target string
}

// New returns an empty builder with a default layout and master.
func New() *Builder {
	return &Builder{
		LayoutShapes: Placeholder("Title 1", "title", "", 457200, 685800, ""),
		MasterShapes: Placeholder("Title Placeholder 1", "title", "", 400000, 600000, "") +
			Placeholder("Text Placeholder 2", "body", "1", 1600000, 600000, ""),
		extra: make(map[string][]byte),
	}
}

// AddSlide appends a slide.
func (b *Builder) AddSlide() *Slide {
	s := &Slide{b: b}
	s.rels = append(s.rels, rel{"rIdLayout", relNS + "/slideLayout", "../slideLayouts/slideLayout1.xml"})
	b.slides = append(b.slides, s)
	return s
}

// Add appends shape XML to the slide's spTree.
func (s *Slide) Add(shapes ...string) *Slide {
	s.shapes = append(s.shapes, shapes...)
	return s
}

// SetNotes attaches a notes slide whose body holds text.
func (s *Slide) SetNotes(text string) *Slide {
	s.notes = &text
	return s
}

// AddImage stores a media part and returns its relationship id.
func (s *Slide) AddImage(ext string, data []byte) string {
	s.b.media++
	name := fmt.Sprintf("image%d.%s", s.b.media, ext)
	s.b.extra["ppt/media/"+name] = data
	id := fmt.Sprintf("rIdImg%d", s.b.media)
	s.rels = append(s.rels, rel{id, relNS + "/image", "../media/" + name})
	return id
}

// AddChart stores a chart part with its embedded workbook and returns
// the chart relationship id. workbook may be nil.
func (s *Slide) AddChart(chartXML string, workbook []byte) string {
	s.b.charts++
	n := s.b.charts
	chartPart := fmt.Sprintf("ppt/charts/chart%d.xml", n)
	s.b.extra[chartPart] = []byte(chartXML)
	if workbook != nil {
		wbName := fmt.Sprintf("Microsoft_Excel_Worksheet%d.xlsx", n)
		s.b.extra["ppt/embeddings/"+wbName] = workbook
		s.b.extra[fmt.Sprintf("ppt/charts/_rels/chart%d.xml.rels", n)] = []byte(relsXML([]rel{
			{"rId1", relNS + "/package", "../embeddings/" + wbName},
		}))
	}
	id := fmt.Sprintf("rIdChart%d", n)
	s.rels = append(s.rels, rel{id, relNS + "/chart", fmt.Sprintf("../charts/chart%d.xml", n)})
	return id
}

// AddPart writes an arbitrary part.
func (b *Builder) AddPart(name string, data []byte) {
	b.extra[name] = data
}

// Bytes writes the archive.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	var sldIDs strings.Builder
	presRels := []rel{{"rIdMaster", relNS + "/slideMaster", "slideMasters/slideMaster1.xml"}}
	for i := range b.slides {
		id := fmt.Sprintf("rIdSlide%d", i+1)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, 256+i, id)
		presRels = append(presRels, rel{id, relNS + "/slide", fmt.Sprintf("slides/slide%d.xml", i+1)})
	}

	files := map[string]string{
		"[Content_Types].xml":  `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels":          relsXML([]rel{{"rId1", relNS + "/officeDocument", "ppt/presentation.xml"}}),
		"ppt/presentation.xml": fmt.Sprintf(`<p:presentation %s><p:sldIdLst>%s</p:sldIdLst></p:presentation>`, nsDecl, sldIDs.String()),
		"ppt/_rels/presentation.xml.rels":                 relsXML(presRels),
		"ppt/slideLayouts/slideLayout1.xml":               treeXML("sldLayout", b.LayoutShapes),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":    relsXML([]rel{{"rId1", relNS + "/slideMaster", "../slideMasters/slideMaster1.xml"}}),
		"ppt/slideMasters/slideMaster1.xml":               treeXML("sldMaster", b.MasterShapes),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":    relsXML(nil),
	}

	for i, s := range b.slides {
		n := i + 1
		rels := s.rels
		if s.notes != nil {
			notesName := fmt.Sprintf("notesSlide%d.xml", n)
			rels = append(rels, rel{"rIdNotes", relNS + "/notesSlide", "../notesSlides/" + notesName})
			files["ppt/notesSlides/"+notesName] = treeXML("notes",
				Placeholder("Slide Image Placeholder 1", "sldImg", "", 0, 0, "")+
					Placeholder("Notes Placeholder 2", "body", "1", 0, 0, *s.notes))
		}
		files[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = treeXML("sld", strings.Join(s.shapes, ""))
		files[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n)] = relsXML(rels)
	}

	for name, content := range files {
		if err := write(name, content); err != nil {
			return nil, err
		}
	}
	for name, data := range b.extra {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the archive to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func relsXML(rels []rel) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="` + pkgRels + `">`)
	for _, r := range rels {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.relType, r.target)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func treeXML(root, shapes string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><p:%s %s><p:cSld><p:spTree>`+
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
		`%s</p:spTree></p:cSld></p:%s>`, root, nsDecl, shapes, root)
}

func xfrm(top, left int64) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="1000000" cy="500000"/></a:xfrm>`, left, top)
}

// TxBody renders paragraphs; a size of 0 leaves the font size unset.
// "\v" inside a paragraph becomes a line break.
func TxBody(size int, paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for i, p := range paragraphs {
		sb.WriteString(`<a:p>`)
		if i == 0 && size > 0 {
			fmt.Fprintf(&sb, `<a:pPr><a:defRPr sz="%d"/></a:pPr>`, size)
		}
		for j, part := range strings.Split(p, "\v") {
			if j > 0 {
				sb.WriteString(`<a:br/>`)
			}
			if part != "" {
				fmt.Fprintf(&sb, `<a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r>`, html.EscapeString(part))
			}
		}
		sb.WriteString(`</a:p>`)
	}
	sb.WriteString(`</p:txBody>`)
	return sb.String()
}

// TextBox renders a p:sp text box. size is in hundredths of a point.
func TextBox(name, text string, size int, top, left int64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"/></p:spPr>%s</p:sp>`,
		html.EscapeString(name), xfrm(top, left), TxBody(size, strings.Split(text, "\n")...))
}

// RunSizedTextBox renders a single-run text box whose size is set on the
// run's a:rPr rather than on the paragraph defaults.
func RunSizedTextBox(name, text string, size int, top, left int64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"/></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="%d"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		html.EscapeString(name), xfrm(top, left), size, html.EscapeString(text))
}

// Placeholder renders a placeholder p:sp. An empty idx omits the
// attribute; zero top and left omit the xfrm so geometry is inherited.
func Placeholder(name, phType, idx string, top, left int64, text string) string {
	ph := `<p:ph`
	if phType != "" {
		ph += fmt.Sprintf(` type="%s"`, phType)
	}
	if idx != "" {
		ph += fmt.Sprintf(` idx="%s"`, idx)
	}
	ph += `/>`
	spPr := `<p:spPr/>`
	if top != 0 || left != 0 {
		spPr = `<p:spPr>` + xfrm(top, left) + `</p:spPr>`
	}
	body := ""
	if text != "" {
		body = TxBody(0, strings.Split(text, "\n")...)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="%s"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr>%s%s</p:sp>`,
		html.EscapeString(name), ph, spPr, body)
}

// AutoShape renders a plain p:sp with preset geometry and text.
func AutoShape(name, text string, top, left int64) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="4" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="ellipse"/></p:spPr>%s</p:sp>`,
		html.EscapeString(name), xfrm(top, left), TxBody(0, text))
}

// Picture renders a p:pic referencing an image relationship.
func Picture(name, relID string, top, left int64) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="5" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr>%s</p:spPr></p:pic>`,
		html.EscapeString(name), relID, xfrm(top, left))
}

// Table renders a graphic frame holding an a:tbl.
func Table(name string, rows [][]string, top, left int64) string {
	var sb strings.Builder
	sb.WriteString(`<a:tbl><a:tblPr/>`)
	for _, row := range rows {
		sb.WriteString(`<a:tr h="370840">`)
		for _, cell := range row {
			fmt.Fprintf(&sb, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody></a:tc>`,
				html.EscapeString(cell))
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl>`)
	return graphicFrame(name, "http://schemas.openxmlformats.org/drawingml/2006/table", sb.String(), top, left)
}

// ChartFrame renders a graphic frame referencing a chart relationship.
func ChartFrame(name, relID string, top, left int64) string {
	inner := fmt.Sprintf(`<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="%s"/>`, relID)
	return graphicFrame(name, "http://schemas.openxmlformats.org/drawingml/2006/chart", inner, top, left)
}

// OLEFrame renders a graphic frame holding an embedded OLE object.
func OLEFrame(name string, top, left int64) string {
	return graphicFrame(name, "http://schemas.openxmlformats.org/presentationml/2006/ole",
		`<p:oleObj progId="Package"><p:embed/></p:oleObj>`, top, left)
}

func graphicFrame(name, uri, inner string, top, left int64) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="6" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="1000000" cy="500000"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="%s">%s</a:graphicData></a:graphic></p:graphicFrame>`,
		html.EscapeString(name), left, top, uri, inner)
}

// Group renders a p:grpSp around child shapes.
func Group(name string, children ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="7" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr>%s</p:grpSpPr>%s</p:grpSp>`, html.EscapeString(name), xfrm(0, 0), strings.Join(children, ""))
}

// Connector renders a p:cxnSp.
func Connector(name string) string {
	return fmt.Sprintf(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="8" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`+
		`<p:spPr>%s</p:spPr></p:cxnSp>`, html.EscapeString(name), xfrm(0, 0))
}

// ChartSeries describes one c:ser of a chart fixture.
type ChartSeries struct {
	Name    string
	NameRef string
	XRef    string
	YRef    string
	// NoMarker sets c:marker/c:symbol to none.
	NoMarker bool
}

// Chart renders a chartSpace holding one plot. plot is the plot element
// name (e.g. "scatterChart") and props its leading property elements.
func Chart(plot, props string, series ...ChartSeries) string {
	xKey, yKey := "cat", "val"
	if plot == "scatterChart" || plot == "bubbleChart" {
		xKey, yKey = "xVal", "yVal"
	}
	var sb strings.Builder
	for i, s := range series {
		fmt.Fprintf(&sb, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		fmt.Fprintf(&sb, `<c:tx><c:strRef><c:f>%s</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>`,
			html.EscapeString(s.NameRef), html.EscapeString(s.Name))
		if s.NoMarker {
			sb.WriteString(`<c:marker><c:symbol val="none"/></c:marker>`)
		}
		if s.XRef != "" {
			fmt.Fprintf(&sb, `<c:%s><c:numRef><c:f>%s</c:f></c:numRef></c:%s>`, xKey, html.EscapeString(s.XRef), xKey)
		}
		if s.YRef != "" {
			fmt.Fprintf(&sb, `<c:%s><c:numRef><c:f>%s</c:f></c:numRef></c:%s>`, yKey, html.EscapeString(s.YRef), yKey)
		}
		sb.WriteString(`</c:ser>`)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>`+
		`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="%s">`+
		`<c:chart><c:plotArea><c:layout/><c:%s>%s%s</c:%s></c:plotArea></c:chart>`+
		`<c:externalData r:id="rId1"><c:autoUpdate val="0"/></c:externalData></c:chartSpace>`,
		relNS, plot, props, sb.String(), plot)
}
