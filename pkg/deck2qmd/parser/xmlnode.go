package parser

import (
	"bytes"
	"encoding/xml"
)

// XML namespaces used in PresentationML and DrawingML
const (
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	uriTable  = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart  = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriOLE    = "http://schemas.openxmlformats.org/presentationml/2006/ole"
	uriDgm    = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	relLayout = "/slideLayout"
	relMaster = "/slideMaster"
	relNotes  = "/notesSlide"
	relPkg    = "/package"
)

// xmlNode is a generic XML element that keeps its children in document order.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Content  string     `xml:",chardata"`
}

func parseXML(data []byte) (*xmlNode, error) {
	var root xmlNode
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// attr returns the value of the first attribute with the given local name.
func (n *xmlNode) attr(local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// relAttr returns a relationship-namespaced attribute such as r:id or r:embed.
func (n *xmlNode) relAttr(local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == nsR {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) child(local string) *xmlNode {
	if n == nil {
		return nil
	}
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// path follows a chain of child names.
func (n *xmlNode) path(locals ...string) *xmlNode {
	cur := n
	for _, l := range locals {
		cur = cur.child(l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (n *xmlNode) children(local string) []*xmlNode {
	if n == nil {
		return nil
	}
	var out []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// find returns the first descendant with the given local name.
func (n *xmlNode) find(local string) *xmlNode {
	if n == nil {
		return nil
	}
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
		if found := n.Children[i].find(local); found != nil {
			return found
		}
	}
	return nil
}
