package render

import (
	"bytes"
	"encoding/csv"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/chartdata"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeFile(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg
}

func TestDocumentHead(t *testing.T) {
	assert.Equal(t,
		"---\nformat:\n  revealjs:\n    theme: moon\n---\n\n{{< include _imports.qmd >}}\n",
		DocumentHead("moon"))
}

func TestWidths(t *testing.T) {
	tests := []struct {
		text, data string
		w1, w2     int
	}{
		{"t", "d", 50, 50},
		{"t", "", 100, 0},
		{"", "d", 0, 100},
		{"", "", 0, 100},
	}
	for _, tt := range tests {
		w1, w2 := Widths(tt.text, tt.data)
		assert.Equal(t, tt.w1, w1)
		assert.Equal(t, tt.w2, w2)
		assert.Equal(t, 100, w1+w2)
		assert.Equal(t, tt.text == "", w1 == 0)
	}
}

func TestSlide(t *testing.T) {
	got := Slide(SlideParts{TitleMarkup: "\n\n## Hello\n\n", Text: "\nBody\n\n"})
	want := "\n\n\n## Hello\n\n\n:::: {.columns}\n\n" +
		"::: {.column width=\"100%\"}\n\n\nBody\n\n\n\n:::\n\n" +
		"::: {.column width=\"0%\"}\n\n\n\n:::\n\n::::\n"
	assert.Equal(t, want, got)

	withNotes := Slide(SlideParts{TitleMarkup: "x", HasNotes: true, Notes: "say hi"})
	assert.True(t, strings.HasSuffix(withNotes, "::::\n\n\n::: {.notes}\n\nsay hi\n\n:::\n\n"))
}

func TestChunks(t *testing.T) {
	assert.Equal(t, "\n![](images/deck/1_0.png)\n", ImageRef("images/deck/1_0.png"))

	tbl := TableChunk("2_1", "Data/deck/2_1_Table.csv")
	assert.Contains(t, tbl, "#| label: tbl-2_1\n#| tbl-cap: \n")
	assert.Contains(t, tbl, "read.csv(file = 'Data/deck/2_1_Table.csv',sep=',')")
	assert.Contains(t, tbl, `kable(Data, col.names = gsub("[.]", " ", names(Data)))`)

	fig := FigureChunk("3_0", "Data/deck/3_0_Line_Table.csv", "TRACES")
	assert.Contains(t, fig, "#| label: fig-3_0\n")
	assert.Contains(t, fig, "check.names = FALSE)\n\nfig <- plot_ly(data=Data)\nTRACES\nfig\n\n```\n")
}

func TestTraces(t *testing.T) {
	out, err := Traces("Scatter", chartdata.OneX, []string{"Sales"})
	require.NoError(t, err)
	assert.Equal(t,
		"\nfig <- fig %>% add_trace(x = ~X, y = ~Sales, name = 'Sales',type = \"scatter\", mode = \"markers\")\n",
		out)

	out, err = Traces("Bar", chartdata.VariableX, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t,
		"\nfig <- fig %>% add_trace(x = ~A.x, y = ~A.y,  name = 'A.y', type = \"bar\")\n"+
			"\nfig <- fig %>% add_trace(x = ~B.x, y = ~B.y,  name = 'B.y', type = \"bar\")\n",
		out)

	out, err = Traces("Line", chartdata.OneX, []string{"C"})
	require.NoError(t, err)
	assert.Contains(t, out, `type = "scatter",mode = "lines")`)

	_, err = Traces("Pie", chartdata.OneX, []string{"C"})
	assert.ErrorIs(t, err, ErrNoTraceTemplate)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h       int
		ww, wh     int
		wantResize bool
	}{
		{3500, 1000, 1750, 500, true},
		{1000, 3500, 500, 1750, true},
		{2000, 2000, 1750, 1750, true},
		{1750, 1750, 1750, 1750, false},
		{800, 600, 800, 600, false},
		{3000, 1001, 1750, 583, true},
	}
	for _, tt := range tests {
		w, h, resized := FitWithin(tt.w, tt.h, 1750)
		assert.Equal(t, tt.ww, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wh, h, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantResize, resized)
	}
}

func TestWriteImageResizes(t *testing.T) {
	dir := t.TempDir()
	ref, err := WriteImage(&models.Image{Blob: pngBytes(t, 3500, 700), Ext: "PNG"}, dir, "deck", "1_0", 1750)
	require.NoError(t, err)
	assert.Equal(t, "\n![](images/deck/1_0.png)\n", ref)

	cfg := decodeFile(t, filepath.Join(dir, "images", "deck", "1_0.png"))
	assert.Equal(t, 1750, cfg.Width)
	assert.Equal(t, 350, cfg.Height)
}

func TestWriteImageKeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteImage(&models.Image{Blob: pngBytes(t, 1750, 20), Ext: "png"}, dir, "deck", "1_0", 0)
	require.NoError(t, err)

	cfg := decodeFile(t, filepath.Join(dir, "images", "deck", "1_0.png"))
	assert.Equal(t, 1750, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestWriteImageConvertsToJPEG(t *testing.T) {
	dir := t.TempDir()
	// tiff is not kept; the blob here is png data with a foreign extension
	ref, err := WriteImage(&models.Image{Blob: pngBytes(t, 10, 10), Ext: "tiff"}, dir, "deck", "2_3", 1750)
	require.NoError(t, err)
	assert.Equal(t, "\n![](images/deck/2_3.jpg)\n", ref)

	f, err := os.Open(filepath.Join(dir, "images", "deck", "2_3.jpg"))
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	assert.NoError(t, err)
}

func TestWriteImageKeepsGIFAnimation(t *testing.T) {
	palette := color.Palette{color.Black, color.White}
	anim := &gif.GIF{
		Image: []*image.Paletted{
			image.NewPaletted(image.Rect(0, 0, 4, 4), palette),
			image.NewPaletted(image.Rect(0, 0, 4, 4), palette),
		},
		Delay: []int{10, 10},
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, anim))

	dir := t.TempDir()
	_, err := WriteImage(&models.Image{Blob: buf.Bytes(), Ext: "gif"}, dir, "deck", "1_1", 1750)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "images", "deck", "1_1.gif"))
	require.NoError(t, err)
	defer f.Close()
	out, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, out.Image, 2)
}

func TestWriteImageFailures(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteImage(&models.Image{Ext: "png"}, dir, "deck", "1_0", 1750)
	assert.ErrorIs(t, err, ErrNoImageData)

	_, err = WriteImage(&models.Image{Blob: []byte("not an image"), Ext: "png"}, dir, "deck", "1_0", 1750)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "images", "deck", "1_0.png"))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	rows := [][]string{{"Name", "Score"}, {"a", "1"}, {"b, c", "2"}}
	chunk, err := WriteTable(rows, dir, "deck", "2_0")
	require.NoError(t, err)
	assert.Contains(t, chunk, "file = 'Data/deck/2_0_Table.csv'")
	assert.Equal(t, rows, readCSV(t, filepath.Join(dir, "Data", "deck", "2_0_Table.csv")))

	_, err = WriteTable([][]string{{"a", "b"}, {"1"}}, dir, "deck", "2_1")
	assert.ErrorIs(t, err, ErrRaggedTable)

	_, err = WriteTable(nil, dir, "deck", "2_2")
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestWriteChart(t *testing.T) {
	dir := t.TempDir()
	table := models.NewChartTable([]string{"X", "Sales"}, [][]models.Cell{
		{models.NumberCell("1"), models.NumberCell("10")},
		{models.NumberCell("2"), models.EmptyCell()},
	})
	rel, err := WriteChart(table, dir, "deck", "3_0", "Line")
	require.NoError(t, err)
	assert.Equal(t, "Data/deck/3_0_Line_Table.csv", rel)
	assert.Equal(t,
		[][]string{{"X", "Sales"}, {"1", "10"}, {"2", ""}},
		readCSV(t, filepath.Join(dir, "Data", "deck", "3_0_Line_Table.csv")))
}
