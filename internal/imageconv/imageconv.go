// Package imageconv re-encodes decrypted PNG assets.
package imageconv

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Output formats.
const (
	PNG  = "png"
	WebP = "webp"
	TGA  = "tga"
)

// Options controls Convert.
type Options struct {
	Format  string // PNG, WebP or TGA
	MaxSize int    // longest side in pixels; 0 keeps the original size
}

// Valid reports whether format is a supported output format.
func Valid(format string) bool {
	switch format {
	case PNG, WebP, TGA:
		return true
	}
	return false
}

// Convert decodes PNG data and re-encodes it as opts.Format, returning the
// encoded bytes and the file extension to use. PNG data that needs no
// resizing is returned unchanged.
func Convert(pngData []byte, opts Options) ([]byte, string, error) {
	if !Valid(opts.Format) {
		return nil, "", fmt.Errorf("imageconv: unknown format %q", opts.Format)
	}

	if opts.Format == PNG && opts.MaxSize <= 0 {
		return pngData, PNG, nil
	}

	src, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, "", fmt.Errorf("imageconv: decode png: %w", err)
	}

	img := toNRGBA(src)
	if opts.MaxSize > 0 {
		img = FitWithin(img, opts.MaxSize)
	}

	var buf bytes.Buffer
	switch opts.Format {
	case WebP:
		err = nativewebp.Encode(&buf, img, nil)
	case TGA:
		err = tga.Encode(&buf, img)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("imageconv: encode %s: %w", opts.Format, err)
	}
	return buf.Bytes(), opts.Format, nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.Gray, *image.RGBA, *image.Paletted:
		draw.Draw(dst, b, src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Set(x, y, color.NRGBAModel.Convert(src.At(x, y)))
			}
		}
	}
	return dst
}
