package parser

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// offset is a shape's top-left corner in EMU.
type offset struct {
	top  int64
	left int64
}

// placeholderGeometry indexes the placeholder positions of a layout or
// master by idx and by type.
type placeholderGeometry struct {
	byIdx  map[string]offset
	byType map[string]offset
}

func (g *placeholderGeometry) lookup(idx, typ string) (offset, bool) {
	if g == nil {
		return offset{}, false
	}
	if off, ok := g.byIdx[idx]; ok {
		return off, true
	}
	off, ok := g.byType[typ]
	return off, ok
}

// placeholderKey returns the idx and type of a p:ph element with OOXML
// defaults applied.
func placeholderKey(ph *xmlNode) (idx, typ string) {
	idx = ph.attr("idx")
	if idx == "" {
		idx = "0"
	}
	typ = ph.attr("type")
	if typ == "" {
		typ = "obj"
	}
	return idx, typ
}

// masterType maps a placeholder type to the type carried by slide masters.
func masterType(typ string) string {
	switch typ {
	case "ctrTitle":
		return "title"
	case "subTitle", "obj":
		return "body"
	}
	return typ
}

// shapeReader parses one slide's shape tree.
type shapeReader struct {
	pkg    *Package
	part   string
	rels   map[string]relationship
	layout *placeholderGeometry
	master *placeholderGeometry
}

// ReadSlide parses a slide part into a Slide. number is the 1-based
// position of the slide in the deck.
func (p *Package) ReadSlide(slidePath string, number int) (models.Slide, error) {
	root, err := p.readXML(slidePath)
	if err != nil {
		return models.Slide{}, err
	}
	r := &shapeReader{
		pkg:  p,
		part: slidePath,
		rels: p.relationships(slidePath),
	}
	r.loadPlaceholderGeometry()

	slide := models.Slide{
		Number: number,
		Shapes: r.parseTree(root.path("cSld", "spTree")),
	}

	if notesPath := relatedPart(r.rels, slidePath, relNotes); notesPath != "" {
		slide.HasNotes = true
		notes, err := p.readNotes(notesPath)
		if err != nil {
			return models.Slide{}, fmt.Errorf("slide %d notes: %w", number, err)
		}
		slide.Notes = notes
	}
	return slide, nil
}

// loadPlaceholderGeometry reads the layout and master placeholder
// positions. Missing parts leave the geometry empty.
func (r *shapeReader) loadPlaceholderGeometry() {
	layoutPath := relatedPart(r.rels, r.part, relLayout)
	if layoutPath == "" {
		return
	}
	layoutRels := r.pkg.relationships(layoutPath)
	if masterPath := relatedPart(layoutRels, layoutPath, relMaster); masterPath != "" {
		if root, err := r.pkg.readXML(masterPath); err == nil {
			r.master = collectPlaceholders(root.path("cSld", "spTree"), nil)
		}
	}
	if root, err := r.pkg.readXML(layoutPath); err == nil {
		r.layout = collectPlaceholders(root.path("cSld", "spTree"), r.master)
	}
}

// collectPlaceholders indexes placeholder offsets of a shape tree.
// Placeholders without their own xfrm take the position of the matching
// parent placeholder when parent is non-nil.
func collectPlaceholders(tree *xmlNode, parent *placeholderGeometry) *placeholderGeometry {
	g := &placeholderGeometry{
		byIdx:  make(map[string]offset),
		byType: make(map[string]offset),
	}
	if tree == nil {
		return g
	}
	for i := range tree.Children {
		n := &tree.Children[i]
		ph := nonVisualProps(n).path("nvPr", "ph")
		if ph == nil {
			continue
		}
		idx, typ := placeholderKey(ph)
		off, ok := xfrmOffset(n)
		if !ok {
			off, ok = parent.lookup("", masterType(typ))
		}
		if !ok {
			continue
		}
		if _, seen := g.byIdx[idx]; !seen {
			g.byIdx[idx] = off
		}
		if _, seen := g.byType[typ]; !seen {
			g.byType[typ] = off
		}
		if mt := masterType(typ); mt != typ {
			if _, seen := g.byType[mt]; !seen {
				g.byType[mt] = off
			}
		}
	}
	return g
}

// nonVisualProps returns the p:nvXxxPr child of a shape element.
func nonVisualProps(n *xmlNode) *xmlNode {
	for i := range n.Children {
		local := n.Children[i].XMLName.Local
		if strings.HasPrefix(local, "nv") && strings.HasSuffix(local, "Pr") {
			return &n.Children[i]
		}
	}
	return nil
}

// xfrmOffset reads the a:off of a shape's own transform.
func xfrmOffset(n *xmlNode) (offset, bool) {
	var xfrm *xmlNode
	switch n.XMLName.Local {
	case "graphicFrame":
		xfrm = n.child("xfrm")
	case "grpSp":
		xfrm = n.path("grpSpPr", "xfrm")
	default:
		xfrm = n.path("spPr", "xfrm")
	}
	off := xfrm.child("off")
	if off == nil {
		return offset{}, false
	}
	x, errX := strconv.ParseInt(off.attr("x"), 10, 64)
	y, errY := strconv.ParseInt(off.attr("y"), 10, 64)
	if errX != nil || errY != nil {
		return offset{}, false
	}
	return offset{top: y, left: x}, true
}

// position returns the shape offset, inheriting placeholder geometry
// from the layout and then the master.
func (r *shapeReader) position(n, ph *xmlNode) offset {
	if off, ok := xfrmOffset(n); ok {
		return off
	}
	if ph == nil {
		return offset{}
	}
	idx, typ := placeholderKey(ph)
	if off, ok := r.layout.lookup(idx, typ); ok {
		return off
	}
	if off, ok := r.master.lookup("", masterType(typ)); ok {
		return off
	}
	return offset{}
}

// parseTree parses the shape children of a p:spTree or p:grpSp in
// document order.
func (r *shapeReader) parseTree(tree *xmlNode) []models.Shape {
	if tree == nil {
		return nil
	}
	var shapes []models.Shape
	for i := range tree.Children {
		shapes = append(shapes, r.parseElement(&tree.Children[i])...)
	}
	return shapes
}

func (r *shapeReader) parseElement(n *xmlNode) []models.Shape {
	switch n.XMLName.Local {
	case "sp":
		return []models.Shape{r.parseSp(n)}
	case "pic":
		return []models.Shape{r.parsePic(n)}
	case "graphicFrame":
		return []models.Shape{r.parseGraphicFrame(n)}
	case "grpSp":
		return []models.Shape{r.parseGroup(n)}
	case "cxnSp":
		return []models.Shape{r.baseShape(n, models.TypeLine)}
	case "contentPart":
		return []models.Shape{r.baseShape(n, models.TypeInk)}
	case "AlternateContent":
		if choice := n.child("Choice"); choice != nil {
			if shapes := r.parseTree(choice); len(shapes) > 0 {
				return shapes
			}
		}
		return r.parseTree(n.child("Fallback"))
	}
	return nil
}

// baseShape fills the fields common to every shape element.
func (r *shapeReader) baseShape(n *xmlNode, code int) models.Shape {
	nv := nonVisualProps(n)
	ph := nv.path("nvPr", "ph")
	name := nv.child("cNvPr").attr("name")
	if name == "" {
		name = n.find("cNvPr").attr("name")
	}
	off := r.position(n, ph)
	s := models.Shape{
		Kind:        models.KindUnsupported,
		Name:        name,
		TypeCode:    code,
		Placeholder: ph != nil,
		Top:         off.top,
		Left:        off.left,
	}
	if ph != nil {
		s.TypeCode = models.TypePlaceholder
	}
	return s
}

func (r *shapeReader) parseSp(n *xmlNode) models.Shape {
	code := models.TypeAutoShape
	switch txBox := nonVisualProps(n).child("cNvSpPr").attr("txBox"); {
	case txBox == "1" || txBox == "true":
		code = models.TypeTextBox
	case n.path("spPr", "custGeom") != nil:
		code = models.TypeFreeform
	}
	s := r.baseShape(n, code)
	if s.Placeholder || s.TypeCode == models.TypeTextBox {
		s.Kind = models.KindTextBox
		s.Text = extractTextFrame(n.child("txBody"))
		if s.Text == nil {
			s.Text = &models.TextFrame{}
		}
	}
	return s
}

func (r *shapeReader) parsePic(n *xmlNode) models.Shape {
	nvPr := nonVisualProps(n).child("nvPr")
	media := nvPr.child("videoFile") != nil || nvPr.child("audioFile") != nil ||
		nvPr.find("media") != nil
	code := models.TypePicture
	if media {
		code = models.TypeMedia
	}
	s := r.baseShape(n, code)
	if media {
		return s
	}
	blip := n.path("blipFill", "blip")
	if blip == nil {
		return s
	}
	s.Kind = models.KindPicture
	s.Image = r.readBlip(blip)
	return s
}

// readBlip resolves an a:blip to its media part. Linked or unreadable
// images carry a nil blob.
func (r *shapeReader) readBlip(blip *xmlNode) *models.Image {
	img := &models.Image{}
	rID := blip.relAttr("embed")
	if rID == "" {
		rID = blip.relAttr("link")
	}
	rel, ok := r.rels[rID]
	if !ok {
		return img
	}
	img.Ext = normalizeExt(path.Ext(rel.target))
	if rel.external || blip.relAttr("embed") == "" {
		return img
	}
	if data, err := r.pkg.ReadPart(rel.resolve(r.part)); err == nil {
		img.Blob = data
	}
	return img
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

func (r *shapeReader) parseGraphicFrame(n *xmlNode) models.Shape {
	data := n.path("graphic", "graphicData")
	code := 0
	switch data.attr("uri") {
	case uriTable:
		code = models.TypeTable
	case uriChart:
		code = models.TypeChart
	case uriOLE:
		code = models.TypeEmbeddedOLEObject
		if data.find("oleObj").child("link") != nil {
			code = models.TypeLinkedOLEObject
		}
	case uriDgm:
		code = models.TypeDiagram
	}
	s := r.baseShape(n, code)

	switch data.attr("uri") {
	case uriTable:
		s.Kind = models.KindTable
		s.Table = extractTable(data.child("tbl"))
	case uriChart:
		s.Kind = models.KindChart
		rel, ok := r.rels[data.child("chart").relAttr("id")]
		if !ok {
			return s
		}
		chart, err := r.pkg.readChart(rel.resolve(r.part))
		if err == nil {
			s.Chart = chart
		}
	}
	return s
}

func (r *shapeReader) parseGroup(n *xmlNode) models.Shape {
	s := r.baseShape(n, models.TypeGroup)
	s.Kind = models.KindGroup
	s.Children = r.parseTree(n)
	return s
}

// extractTable returns the cell texts of an a:tbl, row by row.
func extractTable(tbl *xmlNode) [][]string {
	var rows [][]string
	for _, tr := range tbl.children("tr") {
		var row []string
		for _, tc := range tr.children("tc") {
			text := ""
			if tf := extractTextFrame(tc.child("txBody")); tf != nil {
				text = tf.Text
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}
	return rows
}
