package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/pceimg/internal/disc"
	"github.com/retroenv/pceimg/internal/options"
	"github.com/retroenv/pceimg/internal/vram"
)

// Output file extensions.
const (
	PaletteExt   = ".pal"
	VideoDataExt = ".vram"
	AssemblerExt = ".asm"
	HeaderExt    = ".h"
	DiscExt      = ".ovl"
)

// WriteFiles writes the binary palette and video data files and the
// optional files selected by the flags. It returns the names of the
// written files.
func WriteFiles(base string, flags options.OutputFlags, data *vram.Data) ([]string, error) {
	name := filepath.Base(base)

	var asmOptions Options
	if flags.Assembler != "" {
		var err error
		asmOptions, err = AssemblerOptions(flags.Assembler)
		if err != nil {
			return nil, err
		}
	}

	outputs := []struct {
		enabled bool
		ext     string
		write   func(io.Writer) error
	}{
		{true, PaletteExt, writeBytes(data.PaletteBytes())},
		{true, VideoDataExt, writeBytes(data.Bytes())},
		{flags.Assembler != "", AssemblerExt, func(w io.Writer) error {
			return New(data, w, asmOptions).WriteAssembler(name)
		}},
		{flags.Header, HeaderExt, func(w io.Writer) error {
			return New(data, w, Options{}).WriteHeader(name)
		}},
		{flags.Disc, DiscExt, func(w io.Writer) error {
			_, err := disc.NewExampleLayout(data.PaletteBytes(), data.Bytes()).WriteTo(w)
			return err
		}},
	}

	var files []string
	for _, output := range outputs {
		if !output.enabled {
			continue
		}
		path := base + output.ext
		if err := writeFile(path, output.write); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func writeBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing file '%s': %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", path, err)
	}
	return nil
}
