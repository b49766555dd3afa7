package parser

import (
	"bytes"
	"testing"

	"github.com/ukaji3/deck2qmd/internal/pptxtest"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

func openBuilder(t *testing.T, b *pptxtest.Builder) *Package {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("building pptx: %v", err)
	}
	p, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSlidePaths(t *testing.T) {
	b := pptxtest.New()
	for i := 0; i < 3; i++ {
		b.AddSlide()
	}
	p := openBuilder(t, b)

	paths, err := p.SlidePaths()
	if err != nil {
		t.Fatalf("SlidePaths failed: %v", err)
	}
	expected := []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/slide3.xml"}
	if len(paths) != len(expected) {
		t.Fatalf("Expected %d slides, got %d", len(expected), len(paths))
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("paths[%d] = %q, expected %q", i, paths[i], expected[i])
		}
	}
}

func TestOpenReaderRejectsNonPresentation(t *testing.T) {
	if _, err := OpenReader(bytes.NewReader([]byte("not a zip")), 9); err == nil {
		t.Error("Expected error for non-zip input")
	}
}

func TestReadSlideShapes(t *testing.T) {
	b := pptxtest.New()
	s := b.AddSlide()
	img := s.AddImage("png", []byte("png-bytes"))
	s.Add(
		pptxtest.Placeholder("Title 1", "title", "", 0, 0, "Quarterly"),
		pptxtest.TextBox("TextBox 2", "Body line", 1800, 2000000, 500000),
		pptxtest.AutoShape("Oval 3", "label", 100, 100),
		pptxtest.Picture("Picture 4", img, 300, 400),
		pptxtest.Table("Table 5", [][]string{{"a", "b"}, {"1", "2"}}, 10, 20),
		pptxtest.Group("Group 6", pptxtest.Connector("Connector 7")),
		pptxtest.OLEFrame("Object 8", 0, 0),
	)
	p := openBuilder(t, b)

	slide, err := p.ReadSlide("ppt/slides/slide1.xml", 1)
	if err != nil {
		t.Fatalf("ReadSlide failed: %v", err)
	}
	if len(slide.Shapes) != 7 {
		t.Fatalf("Expected 7 shapes, got %d", len(slide.Shapes))
	}

	tests := []struct {
		name string
		kind models.ShapeKind
		code int
	}{
		{"Title 1", models.KindTextBox, models.TypePlaceholder},
		{"TextBox 2", models.KindTextBox, models.TypeTextBox},
		{"Oval 3", models.KindUnsupported, models.TypeAutoShape},
		{"Picture 4", models.KindPicture, models.TypePicture},
		{"Table 5", models.KindTable, models.TypeTable},
		{"Group 6", models.KindGroup, models.TypeGroup},
		{"Object 8", models.KindUnsupported, models.TypeEmbeddedOLEObject},
	}
	for i, tt := range tests {
		got := slide.Shapes[i]
		if got.Name != tt.name || got.Kind != tt.kind || got.TypeCode != tt.code {
			t.Errorf("shape %d = {%q %v %d}, expected {%q %v %d}",
				i, got.Name, got.Kind, got.TypeCode, tt.name, tt.kind, tt.code)
		}
	}

	title := slide.Shapes[0]
	if title.Top != 457200 || title.Left != 685800 {
		t.Errorf("placeholder geometry = (%d, %d), expected layout (457200, 685800)", title.Top, title.Left)
	}
	if title.Text == nil || title.Text.Text != "Quarterly" {
		t.Errorf("placeholder text = %+v", title.Text)
	}

	box := slide.Shapes[1]
	if box.Top != 2000000 || box.Left != 500000 {
		t.Errorf("text box geometry = (%d, %d)", box.Top, box.Left)
	}
	if box.Text.FontSize == nil || *box.Text.FontSize != 18 {
		t.Errorf("text box font size = %v, expected 18", box.Text.FontSize)
	}

	pic := slide.Shapes[3]
	if pic.Image == nil || string(pic.Image.Blob) != "png-bytes" || pic.Image.Ext != "png" {
		t.Errorf("picture image = %+v", pic.Image)
	}

	tbl := slide.Shapes[4].Table
	if len(tbl) != 2 || tbl[0][1] != "b" || tbl[1][0] != "1" {
		t.Errorf("table = %v", tbl)
	}

	group := slide.Shapes[5]
	if len(group.Children) != 1 || group.Children[0].TypeCode != models.TypeLine {
		t.Errorf("group children = %+v", group.Children)
	}

	if slide.HasNotes {
		t.Error("Expected no notes")
	}
}

func TestReadSlideMasterFallback(t *testing.T) {
	b := pptxtest.New()
	b.LayoutShapes = pptxtest.Placeholder("Body 1", "body", "1", 0, 0, "")
	b.AddSlide().Add(pptxtest.Placeholder("Content 2", "", "1", 0, 0, "x"))
	p := openBuilder(t, b)

	slide, err := p.ReadSlide("ppt/slides/slide1.xml", 1)
	if err != nil {
		t.Fatalf("ReadSlide failed: %v", err)
	}
	got := slide.Shapes[0]
	if got.Top != 1600000 || got.Left != 600000 {
		t.Errorf("geometry = (%d, %d), expected master body (1600000, 600000)", got.Top, got.Left)
	}
}

func TestReadSlideNotes(t *testing.T) {
	b := pptxtest.New()
	b.AddSlide().SetNotes("Remember the demo")
	b.AddSlide().SetNotes("")
	p := openBuilder(t, b)

	slide, err := p.ReadSlide("ppt/slides/slide1.xml", 1)
	if err != nil {
		t.Fatalf("ReadSlide failed: %v", err)
	}
	if !slide.HasNotes || slide.Notes != "Remember the demo" {
		t.Errorf("notes = (%v, %q)", slide.HasNotes, slide.Notes)
	}

	slide, err = p.ReadSlide("ppt/slides/slide2.xml", 2)
	if err != nil {
		t.Fatalf("ReadSlide failed: %v", err)
	}
	if !slide.HasNotes || slide.Notes != "" {
		t.Errorf("empty notes = (%v, %q)", slide.HasNotes, slide.Notes)
	}
}

func TestExtractTextFrame(t *testing.T) {
	root, err := parseXML([]byte(`<p:sp xmlns:p="p" xmlns:a="a">` +
		pptxtest.TxBody(2400, "first\vbreak", "café") + `</p:sp>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}
	tf := extractTextFrame(root.child("txBody"))
	if tf.Text != "first\vbreak\ncafé" {
		t.Errorf("text = %q", tf.Text)
	}
	if tf.FontSize == nil || *tf.FontSize != 24 {
		t.Errorf("font size = %v, expected 24", tf.FontSize)
	}

	root, err = parseXML([]byte(`<p:sp xmlns:p="p" xmlns:a="a"><p:txBody>` +
		`<a:p><a:r><a:rPr lang="en-US" sz="4000"/><a:t>run sized</a:t></a:r></a:p>` +
		`</p:txBody></p:sp>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}
	tf = extractTextFrame(root.child("txBody"))
	if tf.Text != "run sized" {
		t.Errorf("text = %q", tf.Text)
	}
	if tf.FontSize != nil {
		t.Errorf("run-level size should be ignored, got %v", *tf.FontSize)
	}

	root, err = parseXML([]byte(`<p:sp xmlns:p="p" xmlns:a="a">` +
		pptxtest.TxBody(0, "cafe\u0301") + `</p:sp>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}
	tf = extractTextFrame(root.child("txBody"))
	if tf.Text != "caf\u00e9" {
		t.Errorf("decomposed text = %q, expected composed %q", tf.Text, "caf\u00e9")
	}

	tf = extractTextFrame(nil)
	if tf != nil {
		t.Errorf("nil body should yield nil frame, got %+v", tf)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected string
	}{
		{"ppt/slides/slide1.xml", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt/presentation.xml", "slides/slide2.xml", "ppt/slides/slide2.xml"},
		{"ppt/charts/chart1.xml", "/ppt/embeddings/a.xlsx", "ppt/embeddings/a.xlsx"},
	}
	for _, tt := range tests {
		if got := resolveTarget(tt.source, tt.target); got != tt.expected {
			t.Errorf("resolveTarget(%q, %q) = %q, expected %q", tt.source, tt.target, got, tt.expected)
		}
	}
	if got := relsPathFor("ppt/slides/slide1.xml"); got != "ppt/slides/_rels/slide1.xml.rels" {
		t.Errorf("relsPathFor = %q", got)
	}
}
