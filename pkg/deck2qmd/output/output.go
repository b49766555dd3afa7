// Package output serializes conversion reports.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// ErrUnknownFormat indicates a report file extension with no serializer.
var ErrUnknownFormat = errors.New("unknown report format")

var csvHeader = []string{"slide_number", "issue", "Title"}

func rows(r *models.Report) []models.ReportRow {
	if r == nil || r.Rows == nil {
		return []models.ReportRow{}
	}
	return r.Rows
}

// ReportToJSON serializes the report rows as a JSON array.
func ReportToJSON(r *models.Report, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(rows(r), "", "  ")
	}
	return json.Marshal(rows(r))
}

// ReportToYAML serializes the report rows as a YAML sequence.
func ReportToYAML(r *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rows(r)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportToCSV serializes the report with a slide_number,issue,Title header.
func ReportToCSV(r *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, row := range rows(r) {
		if err := w.Write([]string{strconv.Itoa(row.SlideNumber), row.Issue, row.Title}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal serializes the report in the format named by the file extension
// of path: .json, .yaml, .yml or .csv.
func Marshal(r *models.Report, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReportToJSON(r, true)
	case ".yaml", ".yml":
		return ReportToYAML(r)
	case ".csv":
		return ReportToCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// WriteFile writes the report to path in the format given by its extension.
func WriteFile(r *models.Report, path string) error {
	data, err := Marshal(r, path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteTable prints the report as aligned columns.
func WriteTable(w io.Writer, r *models.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(csvHeader, "\t"))
	for _, row := range rows(r) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", row.SlideNumber, row.Issue, row.Title)
	}
	return tw.Flush()
}
