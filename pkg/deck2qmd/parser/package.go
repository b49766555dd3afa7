// Package parser reads PresentationML packages into slide models.
package parser

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// ErrPartNotFound indicates a missing package part.
var ErrPartNotFound = errors.New("part not found")

// Package is an opened .pptx archive.
type Package struct {
	closer io.Closer
	files  map[string]*zip.File
}

// Open opens a .pptx file.
func Open(pptxPath string) (*Package, error) {
	rc, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, err
	}
	p, err := newPackage(&rc.Reader, rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return p, nil
}

// OpenReader opens a .pptx archive from memory or any io.ReaderAt.
func OpenReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return newPackage(zr, nil)
}

func newPackage(zr *zip.Reader, closer io.Closer) (*Package, error) {
	p := &Package{
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		p.files[f.Name] = f
	}
	if _, ok := p.files["ppt/presentation.xml"]; !ok {
		return nil, fmt.Errorf("ppt/presentation.xml: %w", ErrPartNotFound)
	}
	return p, nil
}

// Close releases the underlying archive.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	return err
}

// ReadPart returns the bytes of a package part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) readXML(name string) (*xmlNode, error) {
	data, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}
	root, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return root, nil
}

// SlidePaths returns slide part names in presentation order.
func (p *Package) SlidePaths() ([]string, error) {
	pres, err := p.readXML("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	rels := p.relationships("ppt/presentation.xml")

	var paths []string
	for _, sldID := range pres.path("sldIdLst").children("sldId") {
		rel, ok := rels[sldID.relAttr("id")]
		if !ok {
			continue
		}
		paths = append(paths, rel.resolve("ppt/presentation.xml"))
	}
	if len(paths) > 0 {
		return paths, nil
	}

	for name := range p.files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			paths = append(paths, name)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return slideNumber(paths[i]) < slideNumber(paths[j])
	})
	return paths, nil
}

// slideNumber extracts N from "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(path.Base(name), "slide"), ".xml"))
	return n
}
