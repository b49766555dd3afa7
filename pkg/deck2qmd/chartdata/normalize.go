// Package chartdata reshapes chart workbook tables into per-series x/y
// columns ready for plotting.
package chartdata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// Mode tells how traces read their x values.
type Mode int

const (
	// VariableX gives every series its own <s>.x and <s>.y columns.
	VariableX Mode = iota
	// OneX shares a single X column; y columns carry the bare series name.
	OneX
)

func (m Mode) String() string {
	if m == OneX {
		return "OneX"
	}
	return "VariableX"
}

// SharedX is the name of the shared x column in OneX mode.
const SharedX = "X"

// sparseRows and sparseEmpty define the sparse-column heuristic: a column
// with at least sparseEmpty empty values among its first sparseRows rows.
const (
	sparseRows  = 5
	sparseEmpty = 4
)

var (
	// ErrNoSeries indicates a chart without series.
	ErrNoSeries = errors.New("chart has no series")
	// ErrSeriesColumn indicates a series name with no matching column.
	ErrSeriesColumn = errors.New("series has no column")
	// ErrNoXColumn indicates that no x column exists to backfill from.
	ErrNoXColumn = errors.New("no x column to copy")
)

var (
	nonWord       = regexp.MustCompile(`\W+`)
	leadingNumber = regexp.MustCompile(`[+-]?\d*\.*\d+`)
)

// Sanitize strips every non-word character from a series name.
func Sanitize(name string) string {
	return nonWord.ReplaceAllString(name, "")
}

// Result is a normalized chart table.
type Result struct {
	Table *models.ChartTable
	Mode  Mode
	// Names are the sanitized series names, one trace each.
	Names []string
	// Pivoted reports whether the table was transposed.
	Pivoted bool
	// SparseColumns are the columns flagged by the sparse-column
	// heuristic. They are reported, not removed.
	SparseColumns []string
}

// Normalize reshapes a workbook table for the given raw series names.
// The input table may be modified. label is the chart's trace label;
// numeric cleanup is skipped for "Bar".
func Normalize(table *models.ChartTable, series []string, label string) (*Result, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}
	res := &Result{Names: make([]string, len(series))}
	for i, s := range series {
		res.Names[i] = Sanitize(s)
	}

	if !anySeriesColumn(table, series) {
		table = pivot(table)
		res.Pivoted = true
	}

	dropEmpty(table)
	res.SparseColumns = sparseColumns(table)

	if label != "Bar" {
		extractNumbers(table)
	}

	if err := renameColumns(table, series, res.Names[0]); err != nil {
		return nil, err
	}
	if err := backfillX(table, res.Names); err != nil {
		return nil, err
	}

	res.Mode = collapseSharedX(table)
	res.Table = table
	return res, nil
}

func anySeriesColumn(table *models.ChartTable, series []string) bool {
	for _, s := range series {
		if table.HasColumn(s) {
			return true
		}
	}
	return false
}

// pivot transposes the table around its first column: the first column's
// values become the headers and the remaining headers become an "index"
// column.
func pivot(table *models.ChartTable) *models.ChartTable {
	if len(table.Columns) == 0 {
		return table
	}
	columns := []string{"index"}
	for r, row := range table.Rows {
		name := row[0].Value
		if row[0].IsEmpty() {
			name = "Unnamed: " + strconv.Itoa(r+1)
		}
		columns = append(columns, name)
	}

	rows := make([][]models.Cell, 0, len(table.Columns)-1)
	for c := 1; c < len(table.Columns); c++ {
		row := []models.Cell{models.TextCell(table.Columns[c])}
		for _, old := range table.Rows {
			row = append(row, old[c])
		}
		rows = append(rows, row)
	}
	return models.NewChartTable(columns, rows)
}

// dropEmpty removes all-empty columns, then all-empty rows.
func dropEmpty(table *models.ChartTable) {
	var cols []int
	for c := range table.Columns {
		if allEmpty(table.Column(c)) {
			cols = append(cols, c)
		}
	}
	table.DropColumns(cols...)

	var rows []int
	for r, row := range table.Rows {
		if allEmpty(row) {
			rows = append(rows, r)
		}
	}
	table.DropRows(rows...)
}

func allEmpty(cells []models.Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// sparseColumns lists columns with mostly empty leading values.
func sparseColumns(table *models.ChartTable) []string {
	var sparse []string
	for c, name := range table.Columns {
		empty := 0
		for r := 0; r < len(table.Rows) && r < sparseRows; r++ {
			if table.Rows[r][c].IsEmpty() {
				empty++
			}
		}
		if empty >= sparseEmpty {
			sparse = append(sparse, name)
		}
	}
	return sparse
}

// extractNumbers replaces every text cell with its first numeric
// substring, or an empty cell when there is none.
func extractNumbers(table *models.ChartTable) {
	for _, row := range table.Rows {
		for c, cell := range row {
			if cell.Kind != models.CellText {
				continue
			}
			if m := leadingNumber.FindString(cell.Value); m != "" {
				row[c] = models.TextCell(m)
			} else {
				row[c] = models.EmptyCell()
			}
		}
	}
}

// renameColumns turns series columns into <s>.y and placeholder columns
// ("Unnamed", "index") into <base>.x, where base is the sanitized name of
// the nearest column to the left, starting with the first series.
func renameColumns(table *models.ChartTable, series []string, firstName string) error {
	renames := make(map[string]string, len(table.Columns))
	for _, col := range table.Columns {
		renames[col] = col
	}
	for _, s := range series {
		if _, ok := renames[s]; !ok {
			return fmt.Errorf("%w: %q", ErrSeriesColumn, s)
		}
		renames[s] = Sanitize(s) + ".y"
	}

	base := firstName
	for _, col := range table.Columns {
		if strings.Contains(col, "Unnamed") || strings.Contains(col, "index") {
			renames[col] = base + ".x"
		} else {
			base = Sanitize(col)
		}
	}

	for i, col := range table.Columns {
		table.Columns[i] = renames[col]
	}
	return nil
}

// backfillX gives every series without an x column a copy of the last
// column whose name holds an x.
func backfillX(table *models.ChartTable, names []string) error {
	for _, name := range names {
		if table.HasColumn(name + ".x") {
			continue
		}
		src := -1
		for c, col := range table.Columns {
			if strings.Contains(col, "x") || col == SharedX {
				src = c
			}
		}
		if src < 0 {
			return fmt.Errorf("%w for series %q", ErrNoXColumn, name)
		}
		table.AppendColumn(name+".x", table.Column(src))
	}
	return nil
}

// duplicateColumns returns the columns whose value, in every row, also
// appears in another column of that row.
func duplicateColumns(table *models.ChartTable) []int {
	var dups []int
	for c := range table.Columns {
		dup := true
		for _, row := range table.Rows {
			if !repeatedInRow(row, c) {
				dup = false
				break
			}
		}
		if dup {
			dups = append(dups, c)
		}
	}
	return dups
}

func repeatedInRow(row []models.Cell, c int) bool {
	for i, cell := range row {
		if i != c && cell == row[c] {
			return true
		}
	}
	return false
}

// collapseSharedX merges duplicate x columns into a single X column and
// strips the .x/.y suffixes. With fewer than two duplicate columns the
// table is left as is.
func collapseSharedX(table *models.ChartTable) Mode {
	dups := duplicateColumns(table)
	if len(dups) <= 1 {
		return VariableX
	}
	table.Columns[dups[0]] = SharedX
	table.DropColumns(dups[1:]...)
	for i, col := range table.Columns {
		if base, _, found := strings.Cut(col, "."); found {
			table.Columns[i] = base
		}
	}
	return OneX
}
