package deck2qmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/codes"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/parser"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/render"
)

// oleSignature starts every compound file: binary .ppt and encrypted
// OOXML packages.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Convert converts a .pptx file into a Quarto document written to
// <OutputDir>/<OutputName>.qmd, with images and data files beside it.
// Problems with single shapes are recorded in the report; only deck-level
// failures return an error.
func Convert(path string, opts Options) (*models.Deck, error) {
	opts = opts.withDefaults(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if err := sniff(path); err != nil {
		return nil, err
	}

	tables, err := codes.Load(opts.ShapeCodesFile, opts.ChartCodesFile)
	if err != nil {
		return nil, err
	}

	pkg, err := parser.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer pkg.Close()

	slidePaths, err := pkg.SlidePaths()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	c := &converter{opts: opts, tables: tables, progress: opts.progress()}
	deck := &models.Deck{Name: opts.OutputName}

	var doc strings.Builder
	doc.WriteString(render.DocumentHead(opts.Theme))
	for i, slidePath := range slidePaths {
		number := i + 1
		if c.progress != nil {
			fmt.Fprintf(c.progress, "slide %d\n", number)
		}
		slide, err := pkg.ReadSlide(slidePath, number)
		if err != nil {
			return nil, NewExtractionError(number, "slide", err)
		}
		out := c.convertSlide(slide)
		if number == 1 {
			deck.Title = out.title
		}
		doc.WriteString(out.markup)
		deck.Report.Add(number, out.issues, out.title)
	}
	deck.Document = doc.String()

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	deck.OutputPath = filepath.Join(opts.OutputDir, opts.OutputName+".qmd")
	if err := os.WriteFile(deck.OutputPath, []byte(deck.Document), 0o644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return deck, nil
}

// sniff rejects compound files: encrypted packages and binary
// presentations.
func sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, len(oleSignature))
	if _, err := io.ReadFull(f, head); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if !bytes.Equal(head, oleSignature) {
		return nil
	}

	doc, err := mscfb.New(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name == "EncryptedPackage" {
			return ErrEncrypted
		}
	}
	return ErrLegacyFormat
}
