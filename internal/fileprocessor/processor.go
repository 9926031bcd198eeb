// Package fileprocessor handles file selection and batch processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/pceimg/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoFiles is returned when a batch pattern matches no files.
var ErrNoFiles = errors.New("no files to process")

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, convOpts options.Converter) error {
	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts, convOpts); err != nil {
		return fmt.Errorf("converting %s: %w", opts.Input, err)
	}
	return nil
}

// ProcessFiles processes all files concurrently. Every file gets its output
// base name derived from the input name unless a single file with an
// explicit output name is processed. Failures are logged, the first error
// is returned after all files were processed.
func ProcessFiles(ctx context.Context, logger *log.Logger, files []string,
	opts options.Program, convOpts options.Converter) error {

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	errs := make([]error, len(files))

	for i, file := range files {
		fileOpts := opts
		fileOpts.Input = file
		if len(files) > 1 || fileOpts.Output == "" {
			fileOpts.Output = GenerateOutputBase(file)
		}

		group.Go(func() error {
			err := ProcessFile(ctx, logger, fileOpts, convOpts)
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				logger.Error("Converting failed", log.String("file", file), log.Err(err))
			}
			errs[i] = err
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: pattern '%s' matches no files", ErrNoFiles, opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputBase generates the output base name for a given input file
func GenerateOutputBase(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)]
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("pceimg", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
