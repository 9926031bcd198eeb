// Package imageio decodes source images into true color pixel buffers and
// encodes them back to PNG.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"  // register gif decoder
	_ "image/jpeg" // register jpeg decoder
	"image/png"
	"io"
	"os"

	"github.com/retroenv/pceimg/internal/color"
	_ "golang.org/x/image/bmp"  // register bmp decoder
	_ "golang.org/x/image/tiff" // register tiff decoder
)

// Image is a true color image stored row by row.
type Image struct {
	Width  int
	Height int
	Pixels []color.Color
}

// New returns an image of the given size filled with black.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]color.Color, width*height),
	}
}

// At returns the pixel at the given position.
func (img *Image) At(x, y int) color.Color {
	return img.Pixels[y*img.Width+x]
}

// Set sets the pixel at the given position.
func (img *Image) Set(x, y int, c color.Color) {
	img.Pixels[y*img.Width+x] = c
}

// FromStd converts a standard library image.
func FromStd(src image.Image) *Image {
	bounds := src.Bounds()
	img := New(bounds.Dx(), bounds.Dy())
	for y := range img.Height {
		for x := range img.Width {
			img.Set(x, y, color.FromStd(src.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return img
}

// ToStd converts the image to an 8-bit RGBA image.
func (img *Image) ToStd() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := range img.Height {
		for x := range img.Width {
			dst.Set(x, y, img.At(x, y))
		}
	}
	return dst
}

// Decode reads an image in any of the registered formats.
func Decode(r io.Reader) (*Image, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return FromStd(src), format, nil
}

// Load opens and decodes the image file at the given path.
func Load(path string) (*Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, format, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, "", fmt.Errorf("loading %s: %w", path, err)
	}
	return img, format, nil
}

// Encode writes the image as PNG.
func Encode(w io.Writer, img *Image) error {
	if err := png.Encode(w, img.ToStd()); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Save writes the image as PNG file.
func Save(path string, img *Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	buf := bufio.NewWriter(file)
	if err := Encode(buf, img); err != nil {
		_ = file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	return nil
}
