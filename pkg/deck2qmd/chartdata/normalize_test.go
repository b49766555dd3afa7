package chartdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

func num(s string) models.Cell  { return models.NumberCell(s) }
func text(s string) models.Cell { return models.TextCell(s) }
func date(s string) models.Cell { return models.DateCell(s) }

var empty = models.EmptyCell()

func columnValues(t *testing.T, table *models.ChartTable, name string) []string {
	t.Helper()
	idx := table.ColumnIndex(name)
	require.GreaterOrEqual(t, idx, 0, "column %q missing from %v", name, table.Columns)
	var out []string
	for _, c := range table.Column(idx) {
		out = append(out, c.Value)
	}
	return out
}

func TestNormalizeSharedDateColumn(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Sales", "Costs"},
		[][]models.Cell{
			{date("2024-01-01"), num("10"), num("4")},
			{date("2024-02-01"), num("12"), num("5")},
			{date("2024-03-01"), num("15"), num("7")},
		},
	)

	res, err := Normalize(table, []string{"Sales", "Costs"}, "Line")
	require.NoError(t, err)

	assert.Equal(t, OneX, res.Mode)
	assert.Equal(t, []string{"X", "Sales", "Costs"}, res.Table.Columns)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, columnValues(t, res.Table, "X"))
	assert.Equal(t, []string{"10", "12", "15"}, columnValues(t, res.Table, "Sales"))
	assert.Equal(t, []string{"Sales", "Costs"}, res.Names)
	assert.False(t, res.Pivoted)
}

func TestNormalizeIsIdempotentForOneX(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Sales", "Costs"},
		[][]models.Cell{
			{num("1"), num("10"), num("5")},
			{num("2"), num("20"), num("6")},
			{num("3"), num("30"), num("7")},
		},
	)
	series := []string{"Sales", "Costs"}

	first, err := Normalize(table, series, "Scatter")
	require.NoError(t, err)
	require.Equal(t, OneX, first.Mode)

	again := models.NewChartTable(append([]string(nil), first.Table.Columns...), first.Table.Rows)
	second, err := Normalize(again, series, "Scatter")
	require.NoError(t, err)

	assert.Equal(t, OneX, second.Mode)
	assert.Equal(t, first.Table.Columns, second.Table.Columns)
	assert.Equal(t, first.Table.Records(), second.Table.Records())
}

func TestNormalizePivotsTransposedData(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Q1", "Q2", "Q3"},
		[][]models.Cell{
			{text("Sales"), num("10"), num("12"), num("15")},
			{text("Costs"), num("4"), num("5"), num("7")},
		},
	)

	res, err := Normalize(table, []string{"Sales", "Costs"}, "Line")
	require.NoError(t, err)

	assert.True(t, res.Pivoted)
	assert.Equal(t, OneX, res.Mode)
	assert.Equal(t, []string{"X", "Sales", "Costs"}, res.Table.Columns)
	assert.Equal(t, []string{"1", "2", "3"}, columnValues(t, res.Table, "X"))
	assert.Equal(t, []string{"4", "5", "7"}, columnValues(t, res.Table, "Costs"))
}

func TestNormalizeBarKeepsText(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Q1", "Q2"},
		[][]models.Cell{
			{text("Sales"), num("10"), num("12")},
			{text("Costs"), num("4"), num("5")},
		},
	)

	res, err := Normalize(table, []string{"Sales", "Costs"}, "Bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, columnValues(t, res.Table, "X"))
}

func TestNormalizeVariableX(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Sales", "Unnamed: 1", "Costs", "Unnamed: 3"},
		[][]models.Cell{
			{num("10"), num("1"), num("20"), num("2")},
			{num("30"), num("3"), num("40"), num("4")},
		},
	)

	res, err := Normalize(table, []string{"Sales", "Costs"}, "Scatter")
	require.NoError(t, err)

	assert.Equal(t, VariableX, res.Mode)
	assert.Equal(t, []string{"Sales.y", "Sales.x", "Costs.y", "Costs.x"}, res.Table.Columns)
}

func TestNormalizeCleansValues(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Rate", "Unnamed: 2"},
		[][]models.Cell{
			{num("1"), text("12.5%"), empty},
			{num("2"), text("n/a"), empty},
			{empty, empty, empty},
			{num("3"), text("-3 pts"), empty},
		},
	)

	res, err := Normalize(table, []string{"Rate"}, "Line")
	require.NoError(t, err)

	// the empty column and the empty row are gone
	assert.Equal(t, 3, res.Table.NumRows())
	assert.Equal(t, []string{"12.5", "", "-3"}, columnValues(t, res.Table, "Rate.y"))
	assert.Equal(t, VariableX, res.Mode)
}

func TestNormalizeReportsSparseColumns(t *testing.T) {
	table := models.NewChartTable(
		[]string{"Unnamed: 0", "Sales", "Note"},
		[][]models.Cell{
			{num("1"), num("10"), text("launch")},
			{num("2"), num("20"), empty},
			{num("3"), num("30"), empty},
			{num("4"), num("40"), empty},
			{num("5"), num("50"), empty},
		},
	)

	res, err := Normalize(table, []string{"Sales"}, "Bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"Note"}, res.SparseColumns)
	assert.True(t, res.Table.HasColumn("Note"), "sparse columns are not dropped")
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(models.NewChartTable([]string{"a"}, nil), nil, "Line")
	assert.ErrorIs(t, err, ErrNoSeries)

	missing := models.NewChartTable(
		[]string{"Unnamed: 0", "Sales"},
		[][]models.Cell{{num("1"), num("2")}},
	)
	_, err = Normalize(missing, []string{"Sales", "Profit"}, "Line")
	assert.ErrorIs(t, err, ErrSeriesColumn)

	noX := models.NewChartTable(
		[]string{"Sales", "Costs"},
		[][]models.Cell{{num("1"), num("2")}},
	)
	_, err = Normalize(noX, []string{"Sales", "Costs"}, "Line")
	assert.ErrorIs(t, err, ErrNoXColumn)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "NetSales2024", Sanitize("Net Sales (2024)"))
	assert.Equal(t, "a_b", Sanitize("a_b"))
	assert.Equal(t, "", Sanitize("%%"))
}
