package parser

// readNotes returns the text of the body placeholder of a notes slide.
func (p *Package) readNotes(notesPath string) (string, error) {
	root, err := p.readXML(notesPath)
	if err != nil {
		return "", err
	}
	for _, sp := range root.path("cSld", "spTree").children("sp") {
		ph := sp.path("nvSpPr", "nvPr", "ph")
		if ph == nil || ph.attr("type") != "body" {
			continue
		}
		if tf := extractTextFrame(sp.child("txBody")); tf != nil {
			return tf.Text, nil
		}
		return "", nil
	}
	return "", nil
}
