// Package render produces the Quarto markup and the image and CSV assets
// of a converted deck.
package render

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/chartdata"
)

// ErrNoTraceTemplate indicates a chart label without a plotting template.
var ErrNoTraceTemplate = errors.New("no trace template for chart type")

// The document uses "{{<" shortcodes and R's "%>%", so templates are
// parsed with [[ ]] delimiters.
func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("[[", "]]").Parse(text))
}

var documentHeadTmpl = parse("head", "---\nformat:\n  revealjs:\n    theme: [[.]]\n---\n\n{{< include _imports.qmd >}}\n")

var slideTmpl = parse("slide", `
[[.Title]]
:::: {.columns}

::: {.column width="[[.Width1]]%"}

[[.Text]]

:::

::: {.column width="[[.Width2]]%"}

[[.Data]]

:::

::::
`)

var notesTmpl = parse("notes", "\n\n::: {.notes}\n\n[[.]]\n\n:::\n\n")

var imageTmpl = parse("image", "\n![]([[.]])\n")

var tableTmpl = parse("table", "\n```{r}\n"+
	"#| label: tbl-[[.Label]]\n"+
	"#| tbl-cap: [[.Caption]]\n\n"+
	"Data <- read.csv(file = '[[.Path]]',sep=',')\n\n"+
	"kable(Data, col.names = gsub(\"[.]\", \" \", names(Data)))\n\n"+
	"```\n")

var figureTmpl = parse("figure", "\n```{r}\n"+
	"#| label: fig-[[.Label]]\n"+
	"#| fig-cap: [[.Caption]]\n\n"+
	"Data <- read.csv(file = '[[.Path]]',sep=',', check.names = FALSE)\n\n"+
	"fig <- plot_ly(data=Data)\n"+
	"[[.Traces]]\n"+
	"fig\n\n"+
	"```\n")

// traceTmpls holds one add_trace template per chart label.
var traceTmpls = map[string]*template.Template{
	"Scatter": parse("Scatter",
		"\nfig <- fig %>% add_trace(x = ~[[.X]], y = ~[[.Y]], name = '[[.Y]]',type = \"scatter\", mode = \"markers\")\n"),
	"Scatter_Lines": parse("Scatter_Lines",
		"\nfig <- fig %>% add_trace(x = ~[[.X]], y = ~[[.Y]], name = '[[.Y]]',type = \"scatter\", mode = \"lines+markers\")\n"),
	"Line": parse("Line",
		"\nfig <- fig %>% add_trace(x = ~[[.X]], y = ~[[.Y]], name = '[[.Y]]',type = \"scatter\",mode = \"lines\")\n"),
	"Bar": parse("Bar",
		"\nfig <- fig %>% add_trace(x = ~[[.X]], y = ~[[.Y]],  name = '[[.Y]]', type = \"bar\")\n"),
}

// execute panics on error: the templates and their data types are fixed.
func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic(fmt.Sprintf("render %s: %v", t.Name(), err))
	}
	return b.String()
}

// DocumentHead renders the document front matter for a reveal.js theme.
func DocumentHead(theme string) string {
	return execute(documentHeadTmpl, theme)
}

// SlideParts are the assembled regions of one slide.
type SlideParts struct {
	// TitleMarkup is a heading or section break.
	TitleMarkup string
	Text        string
	Data        string
	HasNotes    bool
	Notes       string
}

// Widths returns the text and data column widths in percent.
func Widths(text, data string) (int, int) {
	switch {
	case text != "" && data != "":
		return 50, 50
	case text != "":
		return 100, 0
	default:
		return 0, 100
	}
}

// Slide renders a two-column slide, followed by its notes block.
func Slide(p SlideParts) string {
	w1, w2 := Widths(p.Text, p.Data)
	out := execute(slideTmpl, struct {
		Title          string
		Width1, Width2 int
		Text, Data     string
	}{p.TitleMarkup, w1, w2, p.Text, p.Data})
	if p.HasNotes {
		out += execute(notesTmpl, p.Notes)
	}
	return out
}

// ImageRef renders the markdown reference to an image file.
func ImageRef(path string) string {
	return execute(imageTmpl, path)
}

type chunk struct {
	Label   string
	Caption string
	Path    string
	Traces  string
}

// TableChunk renders the R chunk that prints a CSV table. Captions are
// left empty.
func TableChunk(label, path string) string {
	return execute(tableTmpl, chunk{Label: label, Path: path})
}

// FigureChunk renders the R chunk that plots a CSV with the given traces.
func FigureChunk(label, path, traces string) string {
	return execute(figureTmpl, chunk{Label: label, Path: path, Traces: traces})
}

// Traces renders one add_trace call per series. In OneX mode every trace
// reads the shared X column; otherwise each reads <s>.x and <s>.y.
func Traces(label string, mode chartdata.Mode, names []string) (string, error) {
	t, ok := traceTmpls[label]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrNoTraceTemplate, label)
	}
	var b strings.Builder
	for _, name := range names {
		xy := struct{ X, Y string }{chartdata.SharedX, name}
		if mode == chartdata.VariableX {
			xy.X, xy.Y = name+".x", name+".y"
		}
		b.WriteString(execute(t, xy))
	}
	return b.String(), nil
}
