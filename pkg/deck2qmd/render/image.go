package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	// Extra decoders for formats converted to jpg.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// DefaultMaxImageDim bounds the larger side of written images.
const DefaultMaxImageDim = 1750

const jpegQuality = 95

// ErrNoImageData indicates a picture without an embedded blob.
var ErrNoImageData = errors.New("picture has no image data")

// keptFormats are written in their own format; anything else becomes jpg.
var keptFormats = map[string]bool{"jpg": true, "png": true, "gif": true}

// ImagePath returns the image path relative to the output directory.
func ImagePath(outputName, key, ext string) string {
	return path.Join("images", outputName, key+"."+ext)
}

// FitWithin returns the target size for a w x h image bounded by maxDim.
// A wide or square image is bounded by its width, a tall one by its
// height. Images are never upscaled.
func FitWithin(w, h, maxDim int) (int, int, bool) {
	switch {
	case w > maxDim && w >= h:
		return maxDim, h * maxDim / w, true
	case h > maxDim && h > w:
		return w * maxDim / h, maxDim, true
	default:
		return w, h, false
	}
}

// WriteImage decodes a picture, converts and resizes it as needed and
// writes it under outDir. It returns the image reference markup.
func WriteImage(img *models.Image, outDir, outputName, key string, maxDim int) (string, error) {
	if img == nil || len(img.Blob) == 0 {
		return "", ErrNoImageData
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxImageDim
	}

	ext := strings.ToLower(img.Ext)
	if ext == "jpeg" {
		ext = "jpg"
	}
	if !keptFormats[ext] {
		ext = "jpg"
	}

	var (
		src  image.Image
		anim *gif.GIF
		err  error
	)
	if ext == "gif" {
		anim, err = gif.DecodeAll(bytes.NewReader(img.Blob))
		if err == nil {
			src = anim.Image[0]
		}
	} else {
		src, _, err = image.Decode(bytes.NewReader(img.Blob))
	}
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h, resized := FitWithin(b.Dx(), b.Dy(), maxDim)
	if resized {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		src = dst
	}

	rel := ImagePath(outputName, key, ext)
	dest := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	switch {
	case ext == "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(f, src)
	case ext == "gif" && !resized:
		err = gif.EncodeAll(f, anim)
	case ext == "gif":
		err = gif.Encode(f, src, nil)
	default:
		err = jpeg.Encode(f, opaque(src), &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", ext, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return ImageRef(rel), nil
}

// opaque flattens an image to an RGB raster with full alpha.
func opaque(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
