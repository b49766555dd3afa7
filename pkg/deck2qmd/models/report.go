package models

import "strings"

// IssueKind classifies a per-shape processing problem.
type IssueKind int

const (
	// IssueUnsupported is a shape without a handler.
	IssueUnsupported IssueKind = iota
	// IssueRender is an image that could not be decoded or written.
	IssueRender
	// IssueOther is any other handler failure.
	IssueOther
)

// Issue is a non-fatal problem recorded against a shape.
type Issue struct {
	Kind IssueKind
	// Description is the shape-type description for IssueUnsupported.
	Description string
	// ShapeName is the name of the offending shape.
	ShapeName string
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueRender:
		return "Failed to Render:" + i.ShapeName
	case IssueOther:
		return "Other Error:" + i.ShapeName
	default:
		return i.Description + ":" + i.ShapeName
	}
}

// IssueLog is the ordered list of issues of one slide.
type IssueLog []Issue

// String renders the log pipe-delimited, each entry followed by "|".
func (l IssueLog) String() string {
	var b strings.Builder
	for _, i := range l {
		b.WriteString(i.String())
		b.WriteByte('|')
	}
	return b.String()
}

// ReportRow is one slide's line in the conversion report.
type ReportRow struct {
	SlideNumber int    `json:"slide_number" yaml:"slide_number"`
	Issue       string `json:"issue" yaml:"issue"`
	Title       string `json:"Title" yaml:"Title"`
}

// Report collects one row per slide, in slide order.
type Report struct {
	Rows []ReportRow `json:"rows" yaml:"rows"`
}

// Add appends a slide's row.
func (r *Report) Add(slide int, issues IssueLog, title string) {
	r.Rows = append(r.Rows, ReportRow{
		SlideNumber: slide,
		Issue:       issues.String(),
		Title:       title,
	})
}

// IssueCount returns the number of slides with at least one issue.
func (r *Report) IssueCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.Issue != "" {
			n++
		}
	}
	return n
}

// Deck is the result of converting one presentation.
type Deck struct {
	// Name is the output name used for the .qmd file and asset directories.
	Name string `json:"name" yaml:"name"`
	// Title is the inferred title of the first slide.
	Title string `json:"title" yaml:"title"`
	// OutputPath is the path of the written .qmd document.
	OutputPath string `json:"output_path" yaml:"output_path"`
	// Document is the full .qmd text.
	Document string `json:"-" yaml:"-"`
	// Report holds per-slide issues and titles.
	Report Report `json:"report" yaml:"report"`
}
