package parser

// centipointsToPoints converts a DrawingML font size (hundredths of a
// point, as in a:rPr@sz) to points.
func centipointsToPoints(sz int64) float64 {
	return float64(sz) / 100
}
