// Package options contains the program options.
package options

import (
	"fmt"
	"strings"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/palette"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input image file"`
	Output string `flag:"o" usage:"output base name (default: input name without extension)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.png)"`
}

// Flags contains behavior options.
type Flags struct {
	Format  string `flag:"f" usage:"input image format: png, gif, jpeg, bmp, tiff (default: auto-detect)"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
	Verify  bool   `flag:"verify" usage:"verify output by running an example program on the console simulator"`
	Program string `flag:"program" usage:"example program used for verification: bytes, sectors, color, noscroll" default:"bytes"`
	Preview bool   `flag:"preview" usage:"print the generated palettes to the terminal"`
}

// OutputFlags contains output file options.
type OutputFlags struct {
	Assembler string `flag:"a" usage:"write an assembler include: pceas, ca65"`
	Header    bool   `flag:"header" usage:"write a C header with the data sizes"`
	Disc      bool   `flag:"disc" usage:"write a disc image with the example overlay layout"`
	PNG       bool   `flag:"png" usage:"write a PNG of the converted image"`
}

// Program options of the converter.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Method names of the palette builders.
const (
	MethodKMeans    = "kmeans"
	MethodMedianCut = "bsp"
)

// Converter defines options to control the image conversion.
type Converter struct {
	Palettes int    // maximum number of palettes to generate
	Method   string // palette builder name
	Metric   string // color distance metric name

	Builder     palette.Builder
	ColorMetric color.Metric
}

// NewConverter returns a new options instance with default options.
func NewConverter() Converter {
	return Converter{
		Palettes:    palette.MaxPalettes,
		Method:      MethodKMeans,
		Metric:      color.ManhattanMetric,
		Builder:     palette.KMeans,
		ColorMetric: color.Manhattan,
	}
}

// Normalize lower cases the names and resolves the builder and metric
// functions.
func (c *Converter) Normalize() error {
	c.Method = strings.ToLower(c.Method)
	c.Metric = strings.ToLower(c.Metric)

	builder, ok := palette.BuilderByName(c.Method)
	if !ok {
		return fmt.Errorf("unsupported palette method '%s'. Valid options: %s, %s",
			c.Method, MethodKMeans, MethodMedianCut)
	}
	metric, err := color.MetricByName(c.Metric)
	if err != nil {
		return fmt.Errorf("resolving metric: %w", err)
	}

	c.Builder = builder
	c.ColorMetric = metric
	return nil
}
