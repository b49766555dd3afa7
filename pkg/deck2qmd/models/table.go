package models

// CellKind is the value type of a chart table cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellDate
)

// Cell is a single chart table value.
type Cell struct {
	Kind  CellKind
	Value string
}

// EmptyCell returns a missing value.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a text value.
func TextCell(s string) Cell { return Cell{Kind: CellText, Value: s} }

// NumberCell returns a numeric value in its canonical string form.
func NumberCell(s string) Cell { return Cell{Kind: CellNumber, Value: s} }

// DateCell returns a formatted date value.
func DateCell(s string) Cell { return Cell{Kind: CellDate, Value: s} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// ChartTable is a 2D table with ordered, possibly repeated column names.
// Rows are always as wide as Columns.
type ChartTable struct {
	Columns []string
	Rows    [][]Cell
}

// NewChartTable creates a table, padding or truncating rows to the header width.
func NewChartTable(columns []string, rows [][]Cell) *ChartTable {
	t := &ChartTable{Columns: columns, Rows: make([][]Cell, len(rows))}
	for i, row := range rows {
		r := make([]Cell, len(columns))
		copy(r, row)
		t.Rows[i] = r
	}
	return t
}

// NumRows returns the row count.
func (t *ChartTable) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the first column named name, or -1.
func (t *ChartTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column named name exists.
func (t *ChartTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the values of column i.
func (t *ChartTable) Column(i int) []Cell {
	col := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row[i]
	}
	return col
}

// AppendColumn adds a column at the right edge.
func (t *ChartTable) AppendColumn(name string, values []Cell) {
	t.Columns = append(t.Columns, name)
	for r := range t.Rows {
		var v Cell
		if r < len(values) {
			v = values[r]
		}
		t.Rows[r] = append(t.Rows[r], v)
	}
}

// DropColumns removes the columns at the given indexes.
func (t *ChartTable) DropColumns(indexes ...int) {
	drop := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		drop[i] = true
	}
	keep := func(cells []Cell) []Cell {
		out := make([]Cell, 0, len(cells))
		for i, c := range cells {
			if !drop[i] {
				out = append(out, c)
			}
		}
		return out
	}
	cols := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !drop[i] {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	for r, row := range t.Rows {
		t.Rows[r] = keep(row)
	}
}

// DropRows removes the rows at the given indexes.
func (t *ChartTable) DropRows(indexes ...int) {
	drop := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		drop[i] = true
	}
	rows := make([][]Cell, 0, len(t.Rows))
	for i, row := range t.Rows {
		if !drop[i] {
			rows = append(rows, row)
		}
	}
	t.Rows = rows
}

// Records returns the header followed by every row as strings, the
// shape written to CSV. Empty cells become empty strings.
func (t *ChartTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.Value
		}
		out = append(out, rec)
	}
	return out
}
