package models

// ChartSeries represents series metadata for a chart.
type ChartSeries struct {
	// Name is the series display name.
	Name string `json:"name"`
	// NameRange is the range reference for the series name.
	NameRange string `json:"name_range,omitempty"`
	// XRange is the range reference for category or X values.
	XRange string `json:"x_range,omitempty"`
	// YRange is the range reference for Y values.
	YRange string `json:"y_range,omitempty"`
}

// ChartPart represents a chart graphic frame and its backing data.
type ChartPart struct {
	// TypeCode is the XL_CHART_TYPE value of the first plot.
	TypeCode int `json:"type_code"`
	// Series is the list of series across all plots, in order.
	Series []ChartSeries `json:"series"`
	// Workbook is the embedded xlsx blob. Nil when the chart has no data.
	Workbook []byte `json:"-"`
}

// SeriesNames returns the display names of all series.
func (c *ChartPart) SeriesNames() []string {
	names := make([]string, len(c.Series))
	for i, s := range c.Series {
		names[i] = s.Name
	}
	return names
}
