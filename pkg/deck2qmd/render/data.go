package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// ErrRaggedTable indicates a table row whose width differs from the header.
var ErrRaggedTable = errors.New("table row width differs from header")

// ErrEmptyTable indicates a table without a header row.
var ErrEmptyTable = errors.New("table has no rows")

// TablePath returns the CSV path of a native table, relative to the output
// directory.
func TablePath(outputName, key string) string {
	return path.Join("Data", outputName, key+"_Table.csv")
}

// ChartPath returns the CSV path of a chart table, relative to the output
// directory.
func ChartPath(outputName, key, label string) string {
	return path.Join("Data", outputName, key+"_"+label+"_Table.csv")
}

// WriteTable writes a native table as CSV and returns its table chunk. The
// first row is the header.
func WriteTable(rows [][]string, outDir, outputName, key string) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyTable
	}
	width := len(rows[0])
	for i, row := range rows[1:] {
		if len(row) != width {
			return "", fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRaggedTable, i+1, len(row), width)
		}
	}
	rel := TablePath(outputName, key)
	if err := WriteCSV(filepath.Join(outDir, filepath.FromSlash(rel)), rows); err != nil {
		return "", err
	}
	return TableChunk(key, rel), nil
}

// WriteChart writes a normalized chart table as CSV and returns its path
// relative to outDir.
func WriteChart(table *models.ChartTable, outDir, outputName, key, label string) (string, error) {
	rel := ChartPath(outputName, key, label)
	if err := WriteCSV(filepath.Join(outDir, filepath.FromSlash(rel)), table.Records()); err != nil {
		return "", err
	}
	return rel, nil
}

// WriteCSV writes records to dest, creating parent directories.
func WriteCSV(dest string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
