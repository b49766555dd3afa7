package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func leaf(name string) Shape { return Shape{Kind: KindTextBox, Name: name} }

func group(name string, children ...Shape) Shape {
	return Shape{Kind: KindGroup, Name: name, Children: children}
}

func names(shapes []Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.Name
	}
	return out
}

func TestFlattenBreadthFirst(t *testing.T) {
	tree := []Shape{
		leaf("a"),
		group("g1", leaf("b"), group("g2", leaf("d"), leaf("e")), leaf("c")),
		leaf("f"),
	}
	flat := Flatten(tree)
	assert.Equal(t, []string{"a", "f", "b", "c", "d", "e"}, names(flat))
	for _, s := range flat {
		assert.NotEqual(t, KindGroup, s.Kind)
	}
}

func TestFlattenDeepNesting(t *testing.T) {
	shape := leaf("deep")
	for i := 0; i < 50; i++ {
		shape = group("g", shape, leaf("side"))
	}
	flat := Flatten([]Shape{shape, group("empty")})
	assert.Len(t, flat, 51)
	assert.Empty(t, Flatten(nil))
}

func TestIssueLogString(t *testing.T) {
	log := IssueLog{
		{Kind: IssueUnsupported, Description: "AutoShape", ShapeName: "Oval 3"},
		{Kind: IssueRender, ShapeName: "Picture 1"},
		{Kind: IssueOther, ShapeName: "Chart 2"},
	}
	assert.Equal(t, "AutoShape:Oval 3|Failed to Render:Picture 1|Other Error:Chart 2|", log.String())
	assert.Equal(t, "", IssueLog(nil).String())
}

func TestReport(t *testing.T) {
	var r Report
	r.Add(1, nil, "Intro")
	r.Add(2, IssueLog{{Kind: IssueOther, ShapeName: "x"}}, "")
	assert.Equal(t, []ReportRow{
		{SlideNumber: 1, Issue: "", Title: "Intro"},
		{SlideNumber: 2, Issue: "Other Error:x|", Title: ""},
	}, r.Rows)
	assert.Equal(t, 1, r.IssueCount())
}

func TestChartTableOperations(t *testing.T) {
	table := NewChartTable([]string{"a", "b", "a"}, [][]Cell{
		{NumberCell("1"), TextCell("x")},
		{NumberCell("2"), TextCell("y"), DateCell("2024-01-01"), TextCell("dropped")},
	})
	assert.Equal(t, 2, table.NumRows())
	assert.Len(t, table.Rows[0], 3)
	assert.True(t, table.Rows[0][2].IsEmpty())
	assert.Equal(t, 0, table.ColumnIndex("a"))
	assert.False(t, table.HasColumn("c"))

	table.AppendColumn("c", []Cell{TextCell("only first")})
	assert.Equal(t, []Cell{TextCell("only first"), EmptyCell()}, table.Column(3))

	table.DropColumns(0, 2)
	assert.Equal(t, []string{"b", "c"}, table.Columns)
	table.DropRows(0)
	assert.Equal(t, [][]string{{"b", "c"}, {"y", ""}}, table.Records())
}

func TestChartPartSeriesNames(t *testing.T) {
	part := ChartPart{Series: []ChartSeries{{Name: "Sales"}, {Name: "Costs"}}}
	assert.Equal(t, []string{"Sales", "Costs"}, part.SeriesNames())
	assert.Equal(t, "Chart", KindChart.String())
}
