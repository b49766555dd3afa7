// Package models defines data structures for presentation conversion.
package models

// ShapeKind is the variant of a shape as seen by the slide dispatcher.
type ShapeKind int

const (
	// KindUnsupported covers every shape the converter has no handler for.
	KindUnsupported ShapeKind = iota
	// KindTextBox is a text box or a placeholder holding a text frame.
	KindTextBox
	// KindPicture is a picture or a placeholder holding an image.
	KindPicture
	// KindTable is a native table or a placeholder holding one.
	KindTable
	// KindChart is a chart or a placeholder holding one.
	KindChart
	// KindGroup is a group shape. Groups are flattened before dispatch.
	KindGroup
)

func (k ShapeKind) String() string {
	switch k {
	case KindTextBox:
		return "TextBox"
	case KindPicture:
		return "Picture"
	case KindTable:
		return "Table"
	case KindChart:
		return "Chart"
	case KindGroup:
		return "Group"
	default:
		return "Unsupported"
	}
}

// MSO_SHAPE_TYPE codes assigned to shapes at ingestion.
const (
	TypeAutoShape         = 1
	TypeCallout           = 2
	TypeChart             = 3
	TypeComment           = 4
	TypeFreeform          = 5
	TypeGroup             = 6
	TypeEmbeddedOLEObject = 7
	TypeFormControl       = 8
	TypeLine              = 9
	TypeLinkedOLEObject   = 10
	TypeLinkedPicture     = 11
	TypeOLEControlObject  = 12
	TypePicture           = 13
	TypePlaceholder       = 14
	TypeTextEffect        = 15
	TypeMedia             = 16
	TypeTextBox           = 17
	TypeScriptAnchor      = 18
	TypeTable             = 19
	TypeCanvas            = 20
	TypeDiagram           = 21
	TypeInk               = 22
	TypeInkComment        = 23
	TypeSmartArt          = 24
	TypeWebVideo          = 26
	TypeContentApp        = 27
	TypeGraphic           = 28
	TypeLinkedGraphic     = 29
	Type3DModel           = 30
	TypeLinked3DModel     = 31
)

// Shape represents one slide shape after classification.
type Shape struct {
	// Kind is the dispatch variant.
	Kind ShapeKind
	// Name is the shape name from cNvPr.
	Name string
	// TypeCode is the MSO_SHAPE_TYPE value.
	TypeCode int
	// Placeholder reports whether the shape is a layout placeholder.
	Placeholder bool
	// Top is the vertical offset in EMU.
	Top int64
	// Left is the horizontal offset in EMU.
	Left int64
	// Text is set for KindTextBox.
	Text *TextFrame
	// Image is set for KindPicture.
	Image *Image
	// Table is set for KindTable: rows of cell texts.
	Table [][]string
	// Chart is set for KindChart.
	Chart *ChartPart
	// Children is set for KindGroup, in document order.
	Children []Shape
}

// TextFrame holds the text of a text-bearing shape.
type TextFrame struct {
	// Text is the paragraphs joined with "\n"; line breaks are "\v".
	Text string
	// FontSize is the first paragraph's font size in points, nil when unset.
	FontSize *float64
}

// Image holds an embedded picture.
type Image struct {
	// Blob is the raw image part. Nil for linked pictures.
	Blob []byte
	// Ext is the lower-cased extension of the image part, without dot.
	Ext string
}
