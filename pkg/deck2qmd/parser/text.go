package parser

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// extractTextFrame reads a p:txBody or a:txBody element. Paragraphs are
// joined with "\n", line breaks inside a paragraph become "\v", and the
// result is NFC-normalized.
func extractTextFrame(txBody *xmlNode) *models.TextFrame {
	if txBody == nil {
		return nil
	}
	paras := txBody.children("p")
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, paragraphText(p))
	}
	return &models.TextFrame{
		Text:     norm.NFC.String(strings.Join(lines, "\n")),
		FontSize: firstFontSize(paras),
	}
}

func paragraphText(p *xmlNode) string {
	var b strings.Builder
	for i := range p.Children {
		c := &p.Children[i]
		switch c.XMLName.Local {
		case "r", "fld":
			if t := c.child("t"); t != nil {
				b.WriteString(t.Content)
			}
		case "br":
			b.WriteByte('\v')
		}
	}
	return b.String()
}

// firstFontSize returns the first paragraph's default run size. Sizes set
// on individual runs are not consulted; nil when defRPr carries no size.
func firstFontSize(paras []*xmlNode) *float64 {
	if len(paras) == 0 {
		return nil
	}
	if sz := paras[0].path("pPr", "defRPr").attr("sz"); sz != "" {
		return parseFontSize(sz)
	}
	return nil
}

func parseFontSize(sz string) *float64 {
	v, err := strconv.ParseInt(sz, 10, 64)
	if err != nil {
		return nil
	}
	pt := centipointsToPoints(v)
	return &pt
}
