// Package deck2qmd converts PowerPoint presentations into Quarto reveal.js
// documents.
package deck2qmd

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/render"
)

// DefaultTheme is the reveal.js theme used when none is set.
const DefaultTheme = "default"

// Options configures conversion behavior.
type Options struct {
	// OutputDir receives the .qmd file and the images and Data trees.
	// Defaults to the current directory.
	OutputDir string `mapstructure:"out_dir"`
	// OutputName names the .qmd file and the asset subdirectories.
	// Defaults to the input file's base name without extension.
	OutputName string `mapstructure:"name"`
	// Theme is the reveal.js theme written to the document header.
	Theme string `mapstructure:"theme"`
	// MaxImageDim bounds the larger side of written images.
	MaxImageDim int `mapstructure:"max_image_dim"`
	// ShapeCodesFile and ChartCodesFile override the embedded code tables.
	ShapeCodesFile string `mapstructure:"shape_codes"`
	ChartCodesFile string `mapstructure:"chart_codes"`
	// TroubleShoot writes one progress line per slide to Progress.
	TroubleShoot bool `mapstructure:"trouble_shoot"`
	// Progress receives progress lines. Nil disables them.
	Progress io.Writer `mapstructure:"-"`
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		OutputDir:   ".",
		Theme:       DefaultTheme,
		MaxImageDim: render.DefaultMaxImageDim,
	}
}

// withDefaults fills unset fields for the given input path.
func (o Options) withDefaults(path string) Options {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.OutputName == "" {
		base := filepath.Base(path)
		o.OutputName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.MaxImageDim <= 0 {
		o.MaxImageDim = render.DefaultMaxImageDim
	}
	return o
}

// progress reports whether progress lines are written.
func (o Options) progress() io.Writer {
	if !o.TroubleShoot || o.Progress == nil {
		return nil
	}
	return o.Progress
}
