// Package codes holds the static shape-type and chart-type lookup tables.
package codes

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed shape_types.yaml
var shapeTypesYAML []byte

//go:embed chart_types.yaml
var chartTypesYAML []byte

// ShapeType is one row of the shape-type code table.
type ShapeType struct {
	Value       int    `yaml:"value"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ChartType is one row of the chart-type code table.
type ChartType struct {
	Value int    `yaml:"value"`
	Name  string `yaml:"name"`
	// Type is the trace label: Scatter, Scatter_Lines, Line, Bar, ...
	Type string `yaml:"type"`
}

// Tables is the pair of lookup tables used during conversion.
type Tables struct {
	shapes map[int]ShapeType
	charts map[int]ChartType
}

// Default returns the embedded tables.
func Default() (*Tables, error) {
	return Load("", "")
}

// Load reads the tables from YAML files. An empty path selects the
// embedded table.
func Load(shapeTypesPath, chartTypesPath string) (*Tables, error) {
	shapeData, err := readOr(shapeTypesPath, shapeTypesYAML)
	if err != nil {
		return nil, err
	}
	chartData, err := readOr(chartTypesPath, chartTypesYAML)
	if err != nil {
		return nil, err
	}

	var shapes []ShapeType
	if err := yaml.Unmarshal(shapeData, &shapes); err != nil {
		return nil, fmt.Errorf("parsing shape type codes: %w", err)
	}
	var charts []ChartType
	if err := yaml.Unmarshal(chartData, &charts); err != nil {
		return nil, fmt.Errorf("parsing chart type codes: %w", err)
	}

	t := &Tables{
		shapes: make(map[int]ShapeType, len(shapes)),
		charts: make(map[int]ChartType, len(charts)),
	}
	for _, s := range shapes {
		t.shapes[s.Value] = s
	}
	for _, c := range charts {
		t.charts[c.Value] = c
	}
	return t, nil
}

func readOr(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code table %s: %w", path, err)
	}
	return data, nil
}

// ShapeDescription returns the description for an MSO_SHAPE_TYPE code.
func (t *Tables) ShapeDescription(code int) (string, bool) {
	s, ok := t.shapes[code]
	return s.Description, ok
}

// ChartLabel returns the trace label for an XL_CHART_TYPE code.
func (t *Tables) ChartLabel(code int) (string, bool) {
	c, ok := t.charts[code]
	return c.Type, ok
}
