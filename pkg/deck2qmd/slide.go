package deck2qmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/chartdata"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/codes"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/layout"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/parser"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/render"
)

var errNoChartData = errors.New("chart has no embedded workbook")

// converter holds the per-deck state shared by all slides.
type converter struct {
	opts     Options
	tables   *codes.Tables
	progress io.Writer
}

// slideContext accumulates one slide's output. A fresh context is used for
// every slide.
type slideContext struct {
	number  int
	records []layout.TextRecord
	data    strings.Builder
	issues  models.IssueLog
}

func (s *slideContext) addData(chunk string) {
	s.data.WriteString("\n\n")
	s.data.WriteString(chunk)
}

type slideOutput struct {
	markup string
	title  string
	issues models.IssueLog
}

// convertSlide dispatches every flattened shape, then assembles the slide.
func (c *converter) convertSlide(slide models.Slide) slideOutput {
	ctx := &slideContext{number: slide.Number}
	for i, shape := range models.Flatten(slide.Shapes) {
		key := fmt.Sprintf("%d_%d", slide.Number, i)
		if issue := c.dispatch(ctx, shape, key); issue != nil {
			ctx.issues = append(ctx.issues, *issue)
		}
	}

	arranged := layout.Arrange(ctx.records)
	markup := render.Slide(render.SlideParts{
		TitleMarkup: arranged.TitleMarkup,
		Text:        arranged.Body,
		Data:        ctx.data.String(),
		HasNotes:    slide.HasNotes,
		Notes:       slide.Notes,
	})
	return slideOutput{markup: markup, title: arranged.Title, issues: ctx.issues}
}

// dispatch routes a shape to its handler and returns the issue it raised,
// if any. Handler panics become Other Error issues.
func (c *converter) dispatch(ctx *slideContext, shape models.Shape, key string) (issue *models.Issue) {
	defer func() {
		if r := recover(); r != nil {
			c.logFailure(ctx.number, shape, fmt.Errorf("panic: %v", r))
			issue = &models.Issue{Kind: models.IssueOther, ShapeName: shape.Name}
		}
	}()

	switch shape.Kind {
	case models.KindTextBox:
		ctx.records = append(ctx.records, layout.NewTextRecord(shape.Text, shape.Top, shape.Left))
		return nil

	case models.KindPicture:
		ref, err := render.WriteImage(shape.Image, c.opts.OutputDir, c.opts.OutputName, key, c.opts.MaxImageDim)
		if err != nil {
			c.logFailure(ctx.number, shape, err)
			return &models.Issue{Kind: models.IssueRender, ShapeName: shape.Name}
		}
		ctx.addData(ref)
		return nil

	case models.KindTable:
		chunk, err := render.WriteTable(shape.Table, c.opts.OutputDir, c.opts.OutputName, key)
		if err != nil {
			c.logFailure(ctx.number, shape, err)
			return &models.Issue{Kind: models.IssueOther, ShapeName: shape.Name}
		}
		ctx.addData(chunk)
		return nil

	case models.KindChart:
		chunk, err := c.chart(shape, key)
		if err != nil {
			c.logFailure(ctx.number, shape, err)
			return &models.Issue{Kind: models.IssueOther, ShapeName: shape.Name}
		}
		ctx.addData(chunk)
		return nil
	}

	desc, ok := c.tables.ShapeDescription(shape.TypeCode)
	if !ok {
		return &models.Issue{Kind: models.IssueOther, ShapeName: shape.Name}
	}
	return &models.Issue{Kind: models.IssueUnsupported, Description: desc, ShapeName: shape.Name}
}

// chart reads the embedded workbook, normalizes it, writes the CSV and
// returns the figure chunk.
func (c *converter) chart(shape models.Shape, key string) (string, error) {
	part := shape.Chart
	if part == nil || part.Workbook == nil {
		return "", errNoChartData
	}
	label, ok := c.tables.ChartLabel(part.TypeCode)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownChartType, part.TypeCode)
	}

	var refs []string
	for _, s := range part.Series {
		refs = append(refs, s.NameRange, s.YRange, s.XRange)
	}
	table, err := parser.ReadWorkbook(part.Workbook, parser.DataSheet(refs...))
	if err != nil {
		return "", err
	}

	res, err := chartdata.Normalize(table, part.SeriesNames(), label)
	if err != nil {
		return "", err
	}
	if c.progress != nil && len(res.SparseColumns) > 0 {
		fmt.Fprintf(c.progress, "  %s: sparse columns %v\n", key, res.SparseColumns)
	}

	rel, err := render.WriteChart(res.Table, c.opts.OutputDir, c.opts.OutputName, key, label)
	if err != nil {
		return "", err
	}
	traces, err := render.Traces(label, res.Mode, res.Names)
	if err != nil {
		return "", err
	}
	return render.FigureChunk(key, rel, traces), nil
}

func (c *converter) logFailure(slide int, shape models.Shape, err error) {
	if c.progress == nil {
		return
	}
	fmt.Fprintf(c.progress, "  %v\n", NewExtractionError(slide, shape.Kind.String(), fmt.Errorf("%s: %w", shape.Name, err)))
}
