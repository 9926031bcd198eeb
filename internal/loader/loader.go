// Package loader handles image file loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/options"
)

// ErrFormatMismatch is returned when the decoded file content does not
// match the expected image format.
var ErrFormatMismatch = errors.New("image format mismatch")

// Loader handles loading image files from disk.
type Loader struct{}

// New creates a new image loader.
func New() *Loader {
	return &Loader{}
}

// Load loads and decodes the input image file. A non empty format has to
// match the format detected from the file content.
func (l *Loader) Load(opts options.Program, format string) (*imageio.Image, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	img, err := l.load(file, format)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", opts.Input, err)
	}
	return img, nil
}

// LoadFromBytes decodes an image from a byte slice.
func (l *Loader) LoadFromBytes(data []byte, format string) (*imageio.Image, error) {
	return l.load(bytes.NewReader(data), format)
}

func (l *Loader) load(r io.Reader, format string) (*imageio.Image, error) {
	img, decoded, err := imageio.Decode(r)
	if err != nil {
		return nil, err
	}
	if format != "" && decoded != format {
		return nil, fmt.Errorf("%w: file content is %s, expected %s", ErrFormatMismatch, decoded, format)
	}
	return img, nil
}
