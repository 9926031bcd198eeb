// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/pceimg/internal/detector"
	"github.com/retroenv/pceimg/internal/examples"
	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/writer"
)

// ParseFlags parses command line flags and returns program and converter options
func ParseFlags() (options.Program, options.Converter, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	convOptions := options.NewConverter()
	readConverterOptionFlags(flags, &convOptions)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, convOptions, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, convOptions, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, convOptions, err
	}

	if err := validateOptionCombinations(opts, convOptions); err != nil {
		return opts, convOptions, err
	}

	if err := convOptions.Normalize(); err != nil {
		return opts, convOptions, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, convOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: pceimg [options] <image file to convert>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to convert, please pass the file to convert as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Assembler = strings.ToLower(opts.Assembler)
	if opts.Assembler == "pce" || opts.Assembler == "huc" {
		opts.Assembler = writer.Pceas
	}
	if opts.Assembler != "" {
		if _, err := writer.AssemblerOptions(opts.Assembler); err != nil {
			return err
		}
	}

	if opts.Format != "" {
		format := detector.Normalize(opts.Format)
		if format == "" {
			return fmt.Errorf("unsupported image format: %s. Valid options: %s",
				opts.Format, strings.Join([]string{detector.PNG, detector.GIF, detector.JPEG, detector.BMP, detector.TIFF}, ", "))
		}
		opts.Format = format
	}

	opts.Program = strings.ToLower(opts.Program)
	if _, err := examples.ByName(opts.Program); err != nil {
		return err
	}
	return nil
}

// validateOptionCombinations checks for options that can not be used together
func validateOptionCombinations(opts options.Program, convOptions options.Converter) error {
	if opts.Batch != "" && opts.Output != "" {
		return errors.New("output base name can not be used in batch mode, the names are derived from the input files")
	}
	if convOptions.Palettes < 1 || convOptions.Palettes > palette.MaxPalettes {
		return fmt.Errorf("palette count %d out of range 1-%d", convOptions.Palettes, palette.MaxPalettes)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input image file")
	flags.StringVar(&opts.Output, "o", "", "base name of the output files, derived from the input file name if not given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.png")
	flags.StringVar(&opts.Format, "f", "", "input image format (png/gif/jpeg/bmp/tiff) - if not auto-detected from file extension")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by running an example program on the console simulator")
	flags.StringVar(&opts.Program, "program", examples.LoadBytesName,
		"example program used for verification ("+strings.Join(examples.Names(), "/")+")")
	flags.BoolVar(&opts.Preview, "preview", false, "print the generated palettes to the terminal")
	flags.StringVar(&opts.Assembler, "a", "", "write an assembler include file (pceas/ca65)")
	flags.BoolVar(&opts.Header, "header", false, "write a C header file with the data sizes")
	flags.BoolVar(&opts.Disc, "disc", false, "write a disc image using the overlay layout of the example programs")
	flags.BoolVar(&opts.PNG, "png", false, "write a PNG file of the converted image")
}

func readConverterOptionFlags(flags *flag.FlagSet, opts *options.Converter) {
	flags.IntVar(&opts.Palettes, "palettes", opts.Palettes, "maximum number of palettes to generate (1-16)")
	flags.StringVar(&opts.Method, "method", opts.Method, "palette color selection method (kmeans/bsp)")
	flags.StringVar(&opts.Metric, "metric", opts.Metric, "color distance metric used for remapping (manhattan/lab)")
}
