package models

// Slide represents one parsed slide.
type Slide struct {
	// Number is the 1-based slide position in the deck.
	Number int
	// Shapes is the top-level shape tree in document order.
	Shapes []Shape
	// HasNotes reports whether the slide declares a notes slide.
	HasNotes bool
	// Notes is the verbatim text of the notes body.
	Notes string
}

// Flatten expands group shapes breadth-first: a group's children are
// appended to the end of the pending queue. The result holds no groups.
func Flatten(shapes []Shape) []Shape {
	pending := append([]Shape(nil), shapes...)
	var leaves []Shape
	for len(pending) > 0 {
		s := pending[0]
		pending = pending[1:]
		if s.Kind == KindGroup {
			pending = append(pending, s.Children...)
			continue
		}
		leaves = append(leaves, s)
	}
	return leaves
}
