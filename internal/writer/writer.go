// Package writer implements the output file writing of converted images.
package writer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/vram"
)

const dataBytesPerLine = 16

// Supported assembler syntaxes.
const (
	Pceas = "pceas"
	Ca65  = "ca65"
)

type lineWriterFunc func(line string, byteCount int) error

// Writer writes the video data as assembler source or C header.
type Writer struct {
	data    *vram.Data
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	ByteDirective   string
	WordDirective   string
	DirectivePrefix string // pceas treats directives in the first column as labels
}

// AssemblerOptions returns the writer options for the named assembler.
func AssemblerOptions(name string) (Options, error) {
	switch strings.ToLower(name) {
	case Pceas:
		return Options{ByteDirective: ".db", WordDirective: ".dw", DirectivePrefix: "  "}, nil
	case Ca65:
		return Options{ByteDirective: ".byte", WordDirective: ".word", DirectivePrefix: "  "}, nil
	default:
		return Options{}, fmt.Errorf("unsupported assembler '%s'. Valid options: %s, %s", name, Pceas, Ca65)
	}
}

// New creates a new writer.
func New(data *vram.Data, writer io.Writer, options Options) *Writer {
	return &Writer{
		data:    data,
		options: options,
		writer:  writer,
	}
}

// WriteAssembler writes the palettes, the attribute table and the patterns
// as labeled data blocks. The labels are prefixed with the given name.
func (w Writer) WriteAssembler(name string) error {
	prefix := Identifier(name)

	if err := w.writeCommentHeader(); err != nil {
		return err
	}
	if err := w.writeConstants(prefix); err != nil {
		return err
	}

	if err := w.writeLabel(prefix + "_palette"); err != nil {
		return err
	}
	if err := w.BundleWordWrites(w.data.Palettes[:w.data.PaletteCount*palette.ColorsPerPalette]); err != nil {
		return fmt.Errorf("writing palette data: %w", err)
	}

	if err := w.writeLabel(prefix + "_batm"); err != nil {
		return err
	}
	if err := w.BundleDataWrites(w.data.BATM, nil); err != nil {
		return fmt.Errorf("writing attribute table data: %w", err)
	}

	if err := w.writeLabel(prefix + "_chr"); err != nil {
		return err
	}
	base := w.data.Layout.PatternBase()
	for i, pattern := range w.data.CHR {
		first := true
		lineWriter := func(line string, _ int) error {
			var err error
			if first {
				_, err = fmt.Fprintf(w.writer, "%s ; pattern $%03x\n", line, base+i)
			} else {
				_, err = fmt.Fprintf(w.writer, "%s\n", line)
			}
			first = false
			return err
		}
		if err := w.BundleDataWrites(pattern[:], lineWriter); err != nil {
			return fmt.Errorf("writing pattern %d: %w", i, err)
		}
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		if _, err := fmt.Fprintf(buf, "%s%s ", w.options.DirectivePrefix, w.options.ByteDirective); err != nil {
			return fmt.Errorf("writing data prefix: %w", err)
		}

		for j := range toWrite {
			if _, err := fmt.Fprintf(buf, "$%02x, ", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		line := strings.TrimRight(buf.String(), ", ")

		if lineWriter != nil {
			if err := lineWriter(line, toWrite); err != nil {
				return fmt.Errorf("writing data line using custom writer: %w", err)
			}
		} else {
			if _, err := fmt.Fprintf(w.writer, "%s\n", line); err != nil {
				return fmt.Errorf("writing data line: %w", err)
			}
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

// BundleWordWrites writes data words, using the same line width as the
// byte writes.
func (w Writer) BundleWordWrites(data []uint16) error {
	const wordsPerLine = dataBytesPerLine / 2

	for i := 0; i < len(data); i += wordsPerLine {
		words := data[i:min(i+wordsPerLine, len(data))]
		values := make([]string, len(words))
		for j, word := range words {
			values[j] = fmt.Sprintf("$%04x", word)
		}
		if _, err := fmt.Fprintf(w.writer, "%s%s %s\n", w.options.DirectivePrefix, w.options.WordDirective,
			strings.Join(values, ", ")); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}
	}
	return nil
}

// WriteHeader writes a C header defining the data sizes.
func (w Writer) WriteHeader(name string) error {
	guard := strings.ToUpper(Identifier(name)) + "_H"
	defines := []struct {
		name  string
		value int
	}{
		{"BATM_SIZE", w.data.Layout.BATMSize()},
		{"CHR_SIZE", len(w.data.CHR) * vram.PatternSize},
		{"VRAM_SIZE", w.data.Size()},
		{"VRAM_SECTORS", w.data.Sectors()},
		{"PALETTE_COUNT", w.data.PaletteCount},
	}

	if _, err := fmt.Fprintf(w.writer, "#ifndef %s\n#define %s\n\n", guard, guard); err != nil {
		return fmt.Errorf("writing include guard: %w", err)
	}
	for _, define := range defines {
		if _, err := fmt.Fprintf(w.writer, "#define %-14s %d\n", define.name, define.value); err != nil {
			return fmt.Errorf("writing define: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "\n#endif\n"); err != nil {
		return fmt.Errorf("writing include guard: %w", err)
	}
	return nil
}

// writeCommentHeader writes the image dimensions and data sizes as comments to the output.
func (w Writer) writeCommentHeader() error {
	layout := w.data.Layout
	if _, err := fmt.Fprintf(w.writer, "; Image size: %dx%d tiles\n", layout.WidthInTiles, layout.HeightInTiles); err != nil {
		return fmt.Errorf("writing image size: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Attribute table: %dx%d\n", layout.BATWidth, layout.BATHeight); err != nil {
		return fmt.Errorf("writing attribute table size: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Palettes: %d\n\n", w.data.PaletteCount); err != nil {
		return fmt.Errorf("writing palette count: %w", err)
	}
	return nil
}

func (w Writer) writeConstants(prefix string) error {
	constants := []struct {
		name  string
		value int
	}{
		{"batm_size", w.data.Layout.BATMSize()},
		{"chr_size", len(w.data.CHR) * vram.PatternSize},
		{"vram_size", w.data.Size()},
		{"vram_sectors", w.data.Sectors()},
	}
	for _, constant := range constants {
		if _, err := fmt.Fprintf(w.writer, "%s_%s = $%04X\n", prefix, constant.name, constant.value); err != nil {
			return fmt.Errorf("writing constant: %w", err)
		}
	}
	return nil
}

func (w Writer) writeLabel(label string) error {
	if _, err := fmt.Fprintf(w.writer, "\n%s:\n", label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

// Identifier converts a name into a valid assembler and C identifier.
func Identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "_" + s
	}
	return s
}
