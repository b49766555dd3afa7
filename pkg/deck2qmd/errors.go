package deck2qmd

import (
	"errors"
	"fmt"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/render"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid pptx package.
var ErrInvalidFormat = errors.New("invalid pptx format")

// ErrLegacyFormat indicates a binary (pre-2007) presentation.
var ErrLegacyFormat = errors.New("legacy binary presentation format")

// ErrEncrypted indicates a password-protected presentation.
var ErrEncrypted = errors.New("presentation is encrypted")

// ErrNoTraceTemplate indicates a chart type that cannot be plotted.
var ErrNoTraceTemplate = render.ErrNoTraceTemplate

// ErrUnknownChartType indicates a chart type code missing from the table.
var ErrUnknownChartType = errors.New("unknown chart type")

// ExtractionError represents an error while converting one slide.
type ExtractionError struct {
	Slide     int
	Component string // "slide" or the shape kind
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in slide %d (%s): %v", e.Slide, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(slide int, component string, err error) *ExtractionError {
	return &ExtractionError{
		Slide:     slide,
		Component: component,
		Err:       err,
	}
}
