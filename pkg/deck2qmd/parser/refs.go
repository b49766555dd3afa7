package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reference is a parsed series formula such as 'Sheet 1'!$B$2:$B$10.
// Coordinates are 1-based; a single-cell reference has equal corners.
type Reference struct {
	Sheet string
	R1    int
	C1    int
	R2    int
	C2    int
}

// ParseReference parses a sheet-qualified cell or range reference.
// It returns false when ref has no sheet part or an invalid range.
func ParseReference(ref string) (Reference, bool) {
	ref = strings.TrimSpace(ref)
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return Reference{}, false
	}
	sheet := strings.Trim(strings.TrimPrefix(ref[:idx], "("), "'")
	sheet = strings.ReplaceAll(sheet, "''", "'")

	rangeStr := strings.ReplaceAll(strings.TrimSuffix(ref[idx+1:], ")"), "$", "")
	parts := strings.Split(rangeStr, ":")
	if len(parts) > 2 {
		return Reference{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Reference{}, false
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Reference{}, false
		}
	}

	return Reference{
		Sheet: sheet,
		R1:    startRow,
		C1:    startCol,
		R2:    endRow,
		C2:    endCol,
	}, true
}

// DataSheet returns the sheet named by the first parsable series
// reference, or "" when no series carries one.
func DataSheet(refs ...string) string {
	for _, ref := range refs {
		if r, ok := ParseReference(ref); ok && r.Sheet != "" {
			return r.Sheet
		}
	}
	return ""
}
