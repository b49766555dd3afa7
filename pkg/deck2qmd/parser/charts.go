package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// ErrNoPlot indicates a chart part without any plot element.
var ErrNoPlot = errors.New("chart has no plot")

// plotElements lists the c:plotArea children that hold series.
var plotElements = map[string]bool{
	"areaChart":      true,
	"area3DChart":    true,
	"barChart":       true,
	"bar3DChart":     true,
	"bubbleChart":    true,
	"doughnutChart":  true,
	"lineChart":      true,
	"line3DChart":    true,
	"ofPieChart":     true,
	"pieChart":       true,
	"pie3DChart":     true,
	"radarChart":     true,
	"scatterChart":   true,
	"stockChart":     true,
	"surfaceChart":   true,
	"surface3DChart": true,
}

// plot is one plot element of a chart.
type plot struct {
	kind         string
	barDir       string
	grouping     string
	scatterStyle string
	radarStyle   string
	ofPieType    string
	wireframe    bool
	series       []series
}

// series is one c:ser element.
type series struct {
	models.ChartSeries
	// markerSymbol is c:marker/c:symbol@val, "" when absent.
	markerSymbol string
	hasMarker    bool
	noLine       bool
	explosion    bool
	bubble3D     bool
	// order is c:order@val, the series' position within its plot.
	order int
}

// readChart parses a chart part and loads its embedded workbook.
func (p *Package) readChart(chartPath string) (*models.ChartPart, error) {
	data, err := p.ReadPart(chartPath)
	if err != nil {
		return nil, err
	}
	plots, externalID, err := parseChartSpace(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", chartPath, err)
	}
	if len(plots) == 0 {
		return nil, fmt.Errorf("%s: %w", chartPath, ErrNoPlot)
	}

	chart := &models.ChartPart{TypeCode: plots[0].chartType()}
	for _, pl := range plots {
		for _, s := range pl.series {
			chart.Series = append(chart.Series, s.ChartSeries)
		}
	}

	rels := p.relationships(chartPath)
	workbookPath := ""
	if rel, ok := rels[externalID]; ok && !rel.external {
		workbookPath = rel.resolve(chartPath)
	} else {
		workbookPath = relatedPart(rels, chartPath, relPkg)
	}
	if workbookPath != "" {
		if wb, err := p.ReadPart(workbookPath); err == nil {
			chart.Workbook = wb
		}
	}
	return chart, nil
}

// parseChartSpace streams a c:chartSpace document, returning its plots in
// document order and the r:id of c:externalData.
func parseChartSpace(data []byte) ([]plot, string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var plots []plot
	var externalID string

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, "", err
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case se.Name.Local == "externalData":
			for _, attr := range se.Attr {
				if attr.Name.Local == "id" && attr.Name.Space == nsR {
					externalID = attr.Value
				}
			}
		case plotElements[se.Name.Local]:
			pl, err := parsePlot(decoder, se.Name.Local)
			if err != nil {
				return nil, "", err
			}
			plots = append(plots, pl)
		}
	}

	return plots, externalID, nil
}

// parsePlot consumes a plot element. Its series are sorted by c:order.
func parsePlot(decoder *xml.Decoder, kind string) (plot, error) {
	pl := plot{kind: kind}
	for {
		token, err := decoder.Token()
		if err != nil {
			return pl, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ser":
				s, err := parseSingleSeries(decoder)
				if err != nil {
					return pl, err
				}
				pl.series = append(pl.series, s)
				continue
			case "barDir":
				pl.barDir = valOf(t)
			case "grouping":
				pl.grouping = valOf(t)
			case "scatterStyle":
				pl.scatterStyle = valOf(t)
			case "radarStyle":
				pl.radarStyle = valOf(t)
			case "ofPieType":
				pl.ofPieType = valOf(t)
			case "wireframe":
				pl.wireframe = boolVal(valOf(t), true)
			}
			if err := decoder.Skip(); err != nil {
				return pl, err
			}
		case xml.EndElement:
			sort.SliceStable(pl.series, func(i, j int) bool {
				return pl.series[i].order < pl.series[j].order
			})
			return pl, nil
		}
	}
}

// parseSingleSeries consumes a c:ser element.
func parseSingleSeries(decoder *xml.Decoder) (series, error) {
	var s series
	for {
		token, err := decoder.Token()
		if err != nil {
			return s, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tx":
				s.Name, s.NameRange, err = parseSeriesName(decoder)
			case "cat", "xVal":
				s.XRange, err = parseSeriesRange(decoder)
			case "val", "yVal":
				s.YRange, err = parseSeriesRange(decoder)
			case "marker":
				s.hasMarker = true
				s.markerSymbol, err = parseMarkerSymbol(decoder)
			case "spPr":
				s.noLine, err = parseNoLine(decoder)
			case "explosion":
				s.explosion = true
				err = decoder.Skip()
			case "bubble3D":
				s.bubble3D = boolVal(valOf(t), true)
				err = decoder.Skip()
			case "order":
				if n, convErr := strconv.Atoi(valOf(t)); convErr == nil {
					s.order = n
				}
				err = decoder.Skip()
			default:
				err = decoder.Skip()
			}
			if err != nil {
				return s, err
			}
		case xml.EndElement:
			return s, nil
		}
	}
}

// parseSeriesName consumes c:tx, returning the first cached value and
// the formula reference.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string, err error) {
	depth := 1
	seenValue := false

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return name, nameRange, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				txt, err := readElementText(decoder)
				if err != nil {
					return name, nameRange, err
				}
				nameRange = strings.TrimSpace(txt)
				depth--
			case "v":
				txt, err := readElementText(decoder)
				if err != nil {
					return name, nameRange, err
				}
				if !seenValue {
					name = txt
					seenValue = true
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return name, nameRange, nil
}

// parseSeriesRange consumes a cat/val/xVal/yVal element and returns its
// formula reference.
func parseSeriesRange(decoder *xml.Decoder) (string, error) {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return ref, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" && ref == "" {
				txt, err := readElementText(decoder)
				if err != nil {
					return ref, err
				}
				ref = strings.TrimSpace(txt)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref, nil
}

// parseMarkerSymbol consumes c:marker and returns c:symbol@val.
func parseMarkerSymbol(decoder *xml.Decoder) (string, error) {
	var symbol string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return symbol, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "symbol" && depth == 2 {
				symbol = valOf(t)
			}
		case xml.EndElement:
			depth--
		}
	}

	return symbol, nil
}

// parseNoLine consumes c:spPr and reports whether a:ln/a:noFill is set.
func parseNoLine(decoder *xml.Decoder) (bool, error) {
	noLine := false
	inLine := false
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return noLine, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "ln" && depth == 2:
				inLine = true
			case t.Name.Local == "noFill" && inLine && depth == 3:
				noLine = true
			}
		case xml.EndElement:
			depth--
			if depth == 1 {
				inLine = false
			}
		}
	}

	return noLine, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func valOf(se xml.StartElement) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == "val" {
			return attr.Value
		}
	}
	return ""
}

// boolVal parses an xsd:boolean attribute, returning def when empty.
func boolVal(v string, def bool) bool {
	switch v {
	case "":
		return def
	case "1", "true":
		return true
	}
	return false
}

// firstSymbol returns the marker symbol of the first series that has one.
func (pl plot) firstSymbol() (string, bool) {
	for _, s := range pl.series {
		if s.hasMarker && s.markerSymbol != "" {
			return s.markerSymbol, true
		}
	}
	return "", false
}

// anySymbolNone reports whether any series hides its markers.
func (pl plot) anySymbolNone() bool {
	for _, s := range pl.series {
		if s.markerSymbol == "none" {
			return true
		}
	}
	return false
}

func (pl plot) anyNoLine() bool {
	for _, s := range pl.series {
		if s.noLine {
			return true
		}
	}
	return false
}

func (pl plot) anyExplosion() bool {
	for _, s := range pl.series {
		if s.explosion {
			return true
		}
	}
	return false
}

// byGrouping picks a code by c:grouping: standard/clustered, stacked,
// percentStacked.
func (pl plot) byGrouping(def, standard, stacked, percent int) int {
	switch pl.grouping {
	case "stacked":
		return stacked
	case "percentStacked":
		return percent
	case "standard":
		return standard
	}
	return def
}

// chartType returns the XL_CHART_TYPE code of the plot.
func (pl plot) chartType() int {
	switch pl.kind {
	case "areaChart":
		return pl.byGrouping(1, 1, 76, 77)
	case "area3DChart":
		return pl.byGrouping(-4098, -4098, 78, 79)
	case "barChart":
		if pl.barDir == "bar" {
			return pl.byGrouping(57, 57, 58, 59)
		}
		return pl.byGrouping(51, 51, 52, 53)
	case "bar3DChart":
		if pl.barDir == "bar" {
			return pl.byGrouping(60, 60, 61, 62)
		}
		return pl.byGrouping(54, -4100, 55, 56)
	case "bubbleChart":
		if len(pl.series) > 0 && pl.series[0].bubble3D {
			return 87
		}
		return 15
	case "doughnutChart":
		if pl.anyExplosion() {
			return 80
		}
		return -4120
	case "lineChart":
		if pl.anySymbolNone() {
			return pl.byGrouping(4, 4, 63, 64)
		}
		return pl.byGrouping(65, 65, 66, 67)
	case "line3DChart":
		return -4101
	case "pieChart":
		if pl.anyExplosion() {
			return 69
		}
		return 5
	case "pie3DChart":
		if pl.anyExplosion() {
			return 70
		}
		return -4102
	case "ofPieChart":
		if pl.ofPieType == "bar" {
			return 71
		}
		return 68
	case "radarChart":
		switch pl.radarStyle {
		case "filled":
			return 82
		case "":
			return -4151
		}
		if symbol, ok := pl.firstSymbol(); ok && symbol == "none" {
			return -4151
		}
		return 81
	case "scatterChart":
		symbol, _ := pl.firstSymbol()
		noMarkers := symbol == "none"
		switch pl.scatterStyle {
		case "lineMarker":
			if pl.anyNoLine() {
				return -4169
			}
			if noMarkers {
				return 75
			}
			return 74
		case "smoothMarker":
			if noMarkers {
				return 73
			}
			return 72
		}
		return -4169
	case "stockChart":
		return 88
	case "surfaceChart":
		if pl.wireframe {
			return 86
		}
		return 85
	case "surface3DChart":
		if pl.wireframe {
			return 84
		}
		return 83
	}
	return 0
}
