package parser

import (
	"bytes"
	"encoding/xml"
	"path"
	"sort"
	"strings"
)

// relationship is one entry of a part's .rels file.
type relationship struct {
	id       string
	relType  string
	target   string
	external bool
}

// resolve returns the package part name the relationship points to,
// relative to the source part.
func (r relationship) resolve(source string) string {
	return resolveTarget(source, r.target)
}

// is reports whether the relationship type ends with suffix, e.g. "/chart".
func (r relationship) is(suffix string) bool {
	return strings.HasSuffix(r.relType, suffix)
}

// relsPathFor returns the .rels part name of a source part.
func relsPathFor(source string) string {
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against its source part.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// relationships returns the relationships of a part keyed by Id.
// A missing .rels part yields an empty map.
func (p *Package) relationships(source string) map[string]relationship {
	result := make(map[string]relationship)
	data, err := p.ReadPart(relsPathFor(source))
	if err != nil {
		return result
	}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.id = attr.Value
				case "Target":
					rel.target = attr.Value
				case "Type":
					rel.relType = attr.Value
				case "TargetMode":
					rel.external = attr.Value == "External"
				}
			}
			if rel.id != "" {
				result[rel.id] = rel
			}
		}
	}

	return result
}

// relatedPart returns the first internal relationship target of the
// given type, or "" when absent.
func relatedPart(rels map[string]relationship, source, suffix string) string {
	var found []string
	for _, rel := range rels {
		if rel.is(suffix) && !rel.external {
			found = append(found, rel.resolve(source))
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.Strings(found)
	return found[0]
}
