// Package layout infers the reading order of slide text and renders the
// title and body markup.
package layout

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

const (
	// SectionBreak replaces the title of slides without a usable one.
	SectionBreak = "\n\n---\n\n"
	// demoteFactor multiplies the rank of near-empty records.
	demoteFactor = 10
)

// TextRecord is one text-bearing shape of a slide.
type TextRecord struct {
	Text string
	// FontSize is the first paragraph's size in points, nil when unset.
	FontSize *float64
	// Length is the text length in characters.
	Length int
	Top    int64
	Left   int64
}

// NewTextRecord builds a record from a shape's text frame and position.
func NewTextRecord(tf *models.TextFrame, top, left int64) TextRecord {
	r := TextRecord{Top: top, Left: left}
	if tf != nil {
		r.Text = tf.Text
		r.FontSize = tf.FontSize
		r.Length = utf8.RuneCountInString(tf.Text)
	}
	return r
}

// demoted reports whether the record is too short to be a title.
func (r TextRecord) demoted() bool {
	return r.Length <= 1
}

// Rank orders records by ascending rank:
//
//	rank = fontIdx + lenIdx + topIdx + leftIdx/2
//
// where each index is the position of the record's value among the
// distinct values of all records, sorted by font size descending, length
// ascending, top descending and left ascending. Records without a font
// size take the last font index. Records of length <= 1 have their rank
// multiplied by 10 and always follow the others. The input is not
// modified and ties keep input order.
func Rank(records []TextRecord) []TextRecord {
	if len(records) == 0 {
		return nil
	}

	var sizes []float64
	lengths := make([]int64, len(records))
	tops := make([]int64, len(records))
	lefts := make([]int64, len(records))
	for i, r := range records {
		if r.FontSize != nil {
			sizes = append(sizes, *r.FontSize)
		}
		lengths[i] = int64(r.Length)
		tops[i] = r.Top
		lefts[i] = r.Left
	}

	sizeIdx := indexOf(sizes, true)
	missingSize := 0
	if len(sizeIdx) > 0 {
		missingSize = len(sizeIdx) - 1
	}
	lenIdx := indexOf(lengths, false)
	topIdx := indexOf(tops, true)
	leftIdx := indexOf(lefts, false)

	type ranked struct {
		rec  TextRecord
		rank float64
	}
	out := make([]ranked, len(records))
	for i, r := range records {
		font := missingSize
		if r.FontSize != nil {
			font = sizeIdx[*r.FontSize]
		}
		rank := float64(font+lenIdx[lengths[i]]+topIdx[tops[i]]) + float64(leftIdx[lefts[i]])/2
		if r.demoted() {
			rank *= demoteFactor
		}
		out[i] = ranked{rec: r, rank: rank}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].rec.demoted(), out[j].rec.demoted()
		if di != dj {
			return dj
		}
		return out[i].rank < out[j].rank
	})

	sorted := make([]TextRecord, len(out))
	for i, r := range out {
		sorted[i] = r.rec
	}
	return sorted
}

// indexOf maps each distinct value to its position in sorted order.
func indexOf[T int64 | float64](values []T, descending bool) map[T]int {
	uniq := make(map[T]struct{}, len(values))
	var distinct []T
	for _, v := range values {
		if _, ok := uniq[v]; !ok {
			uniq[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Slice(distinct, func(i, j int) bool {
		if descending {
			return distinct[i] > distinct[j]
		}
		return distinct[i] < distinct[j]
	})
	idx := make(map[T]int, len(distinct))
	for i, v := range distinct {
		idx[v] = i
	}
	return idx
}

// CleanTitle keeps the text after the last "|" without leading spaces.
func CleanTitle(text string) string {
	if i := strings.LastIndex(text, "|"); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimLeftFunc(text, unicode.IsSpace)
}

// TitleMarkup renders a cleaned title as a level-2 heading, or a section
// break when it has two characters or fewer.
func TitleMarkup(title string) string {
	if utf8.RuneCountInString(title) <= 2 {
		return SectionBreak
	}
	return "\n\n## " + title + "\n\n"
}

// Body renders one body record. Multi-line text becomes a bullet list;
// single-line text a paragraph. Lines of two characters or fewer are
// dropped.
func Body(text string) string {
	lines := strings.Split(text, "\n")
	prefix, suffix := "\n", "\n\n"
	if len(lines) > 1 {
		prefix, suffix = "* ", "\n"
	}
	var b strings.Builder
	for _, line := range lines {
		if utf8.RuneCountInString(line) > 2 {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString(suffix)
		}
	}
	return b.String()
}

// Result is the title and body of one slide.
type Result struct {
	// Title is the cleaned title text, "" when the slide has no text.
	Title string
	// TitleMarkup is the heading or section break for the title region.
	TitleMarkup string
	// Body is the text column markup.
	Body string
}

// Arrange ranks the records, takes the first as the title and renders
// the rest as body text.
func Arrange(records []TextRecord) Result {
	ranked := Rank(records)
	if len(ranked) == 0 {
		return Result{TitleMarkup: TitleMarkup("")}
	}
	res := Result{Title: CleanTitle(ranked[0].Text)}
	res.TitleMarkup = TitleMarkup(res.Title)

	var body strings.Builder
	for _, r := range ranked[1:] {
		body.WriteString(Body(r.Text))
	}
	res.Body = body.String()
	return res
}
