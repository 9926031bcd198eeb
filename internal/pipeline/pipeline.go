// Package pipeline orchestrates the image conversion workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/pceimg/internal/detector"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/loader"
	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/pceimg/internal/preview"
	"github.com/retroenv/pceimg/internal/quantize"
	"github.com/retroenv/pceimg/internal/tile"
	"github.com/retroenv/pceimg/internal/verification"
	"github.com/retroenv/pceimg/internal/vram"
	"github.com/retroenv/pceimg/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// PreviewSuffix is appended to the output base name of the preview image.
const PreviewSuffix = "_preview.png"

// Pipeline orchestrates the complete conversion workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	terminal io.Writer
}

// Result contains the outputs of a conversion.
type Result struct {
	Quantized *quantize.Result
	Data      *vram.Data
	Files     []string
}

// New creates a new conversion pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		terminal: os.Stdout,
	}
}

// Execute runs the complete conversion pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, convOpts options.Converter) (*Result, error) {
	// Detect image format
	format := p.detector.Detect(opts)

	// Load image
	img, err := p.loader.Load(opts, format)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}

	return p.ExecuteWithImage(ctx, img, opts, convOpts)
}

// ExecuteWithImage runs the conversion pipeline with a pre-loaded image.
// This is useful for testing and programmatic usage where the image is already in memory.
// Output files are only written if an output base name is set.
func (p *Pipeline) ExecuteWithImage(ctx context.Context, img *imageio.Image, opts options.Program,
	convOpts options.Converter) (*Result, error) {

	p.printInfo(opts, img, convOpts)

	tiled, err := tile.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("splitting image into tiles: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quantized, err := quantize.Quantize(tiled, quantize.Options{
		Palettes: convOpts.Palettes,
		Builder:  convOpts.Builder,
		Metric:   convOpts.ColorMetric,
	})
	if err != nil {
		return nil, fmt.Errorf("quantizing image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := vram.Encode(quantized)
	if err != nil {
		return nil, fmt.Errorf("encoding video data: %w", err)
	}

	result := &Result{
		Quantized: quantized,
		Data:      data,
	}
	p.logger.Debug("Converted image",
		log.Int("palettes", data.PaletteCount),
		log.Int("patterns", len(data.CHR)),
		log.Int("size", data.Size()),
		log.Int("sectors", data.Sectors()))

	if err := p.writeOutput(opts, result); err != nil {
		return nil, err
	}

	if opts.Preview {
		if err := preview.Palettes(p.terminal, quantized.Palettes, opts.Debug); err != nil {
			return nil, fmt.Errorf("printing palettes: %w", err)
		}
	}

	// Verify output (if requested)
	if opts.Verify {
		if err := verification.VerifyOutput(ctx, p.logger, opts.Program, quantized, data); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful", log.String("program", opts.Program))
	}

	return result, nil
}

// writeOutput writes the output files and stores their names in the result.
func (p *Pipeline) writeOutput(opts options.Program, result *Result) error {
	if opts.Output == "" {
		return nil
	}

	files, err := writer.WriteFiles(opts.Output, opts.OutputFlags, result.Data)
	if err != nil {
		return fmt.Errorf("writing output files: %w", err)
	}
	result.Files = files

	if opts.PNG {
		path := opts.Output + PreviewSuffix
		if err := preview.SavePNG(path, result.Quantized, 1); err != nil {
			return fmt.Errorf("writing preview image: %w", err)
		}
		result.Files = append(result.Files, path)
	}

	for _, file := range result.Files {
		p.logger.Debug("Wrote file", log.String("file", file))
	}
	return nil
}

// printInfo prints information about the image being processed.
func (p *Pipeline) printInfo(opts options.Program, img *imageio.Image, convOpts options.Converter) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing image",
		log.String("file", opts.Input),
		log.Int("width", img.Width),
		log.Int("height", img.Height),
		log.String("method", convOpts.Method),
		log.String("metric", convOpts.Metric),
	)
	if img.Width > 512 || img.Height > 512 {
		p.logger.Warn("Image is larger than the virtual screen of the console, only a part can be displayed")
	}
}
