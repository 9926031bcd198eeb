// Package detector handles input image format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Image formats as reported by the image decoders.
const (
	BMP  = "bmp"
	GIF  = "gif"
	JPEG = "jpeg"
	PNG  = "png"
	TIFF = "tiff"
)

// Detector handles image format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the image format from options or file auto-detection.
// It first checks if a format is explicitly specified in options, otherwise
// attempts to detect the format from the input filename extension.
// An empty result leaves the detection to the decoder.
func (d *Detector) Detect(opts options.Program) string {
	format := Normalize(opts.Format)
	if format == "" {
		format = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected image format",
			log.String("format", format),
			log.String("file", opts.Input))
	}
	return format
}

// Normalize returns the decoder name for a format name or extension,
// unknown names return an empty string.
func Normalize(format string) string {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "bmp":
		return BMP
	case "gif":
		return GIF
	case "jpg", "jpeg":
		return JPEG
	case "png":
		return PNG
	case "tif", "tiff":
		return TIFF
	default:
		return ""
	}
}

// detectFromFile determines the image format based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	return Normalize(filepath.Ext(filename))
}
