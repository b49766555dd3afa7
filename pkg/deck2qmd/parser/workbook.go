package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// ErrEmptyWorkbook indicates a chart workbook without any data.
var ErrEmptyWorkbook = errors.New("workbook has no data")

// ReadWorkbook reads the chart data of an embedded workbook into a table.
// The first row is the header. sheet selects the data sheet when it
// exists in the workbook; otherwise the first sheet is used.
func ReadWorkbook(data []byte, sheet string) (*models.ChartTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening chart workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	if idx, err := f.GetSheetIndex(sheet); sheet == "" || err != nil || idx < 0 {
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", sheet, ErrEmptyWorkbook)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	use1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		use1904 = *props.Date1904
	}
	reader := cellReader{f: f, sheet: sheet, date1904: use1904}

	header := make([]string, width)
	for colIdx := 0; colIdx < width; colIdx++ {
		if colIdx < len(rows[0]) {
			header[colIdx] = reader.cell(colIdx, 0, rows[0][colIdx]).Value
		}
	}

	body := make([][]models.Cell, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		cells := make([]models.Cell, width)
		for colIdx, raw := range row {
			cells[colIdx] = reader.cell(colIdx, rowIdx+1, raw)
		}
		body = append(body, cells)
	}

	return models.NewChartTable(columnNames(header), body), nil
}

// columnNames fills empty headers with "Unnamed: <i>" and makes repeated
// names unique by appending ".<n>".
func columnNames(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int)
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		cur := counts[name]
		for cur > 0 {
			counts[name] = cur + 1
			name = name + "." + strconv.Itoa(cur)
			cur = counts[name]
		}
		names[i] = name
		counts[name] = cur + 1
	}
	return names
}

// cellReader types raw sheet values using excelize cell types and
// number formats.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
}

// cell returns the typed value at 0-based column col and row row.
func (r cellReader) cell(col, row int, raw string) models.Cell {
	if raw == "" {
		return models.EmptyCell()
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return models.TextCell(raw)
	}
	cellType, _ := r.f.GetCellType(r.sheet, name)

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return models.TextCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return models.TextCell("True")
		}
		return models.TextCell("False")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return models.DateCell(formatDate(t))
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return models.DateCell(formatDate(t))
		}
		return models.TextCell(raw)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.TextCell(raw)
	}
	if r.isDateFormatted(name) {
		if t, err := excelize.ExcelDateToTime(v, r.date1904); err == nil {
			return models.DateCell(formatDate(t))
		}
	}
	return models.NumberCell(strconv.FormatFloat(v, 'f', -1, 64))
}

// builtInDateFormats are the built-in number format ids that display
// dates or times.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true, 45: true, 46: true,
	47: true, 50: true, 51: true, 52: true, 53: true, 54: true, 55: true,
	56: true, 57: true, 58: true,
}

// quotedOrBracketed matches literal text and [..] sections of a format code.
var quotedOrBracketed = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

func (r cellReader) isDateFormatted(cell string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := r.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtInDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	return isDateFormatCode(*style.CustomNumFmt)
}

// isDateFormatCode reports whether a custom number format renders a date
// or time.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(quotedOrBracketed.ReplaceAllString(code, ""))
	if code == "general" {
		return false
	}
	return strings.ContainsAny(code, "ymdhs")
}

// formatDate renders a date, with its time of day when one is set.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
