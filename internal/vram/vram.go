// Package vram encodes quantized images into the video memory layout of the
// PC Engine video display controller: a background attribute table (BATM)
// followed by the character patterns (CHR) and a separate palette block.
package vram

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/quantize"
)

const (
	// Size is the size of the video memory in bytes.
	Size = 0x10000
	// SectorSize is the size of a CD-ROM data sector in bytes.
	SectorSize = 2048
	// PatternSize is the size of an 8x8 character pattern in bytes.
	PatternSize = 32
	// PaletteWords is the number of words of all background palettes.
	PaletteWords = palette.MaxPalettes * palette.ColorsPerPalette

	batAlignment   = 32
	maxPatternBase = 0xfff
)

// ErrOverflow is returned when the encoded data does not fit into video memory.
var ErrOverflow = errors.New("data exceeds video memory")

// Layout describes the background attribute table dimensions.
type Layout struct {
	WidthInTiles  int
	HeightInTiles int
	BATWidth      int // virtual screen width in tiles, multiple of 32
	BATHeight     int // virtual screen height in tiles, multiple of 32
}

// NewLayout returns the layout for an image of the given size in tiles.
func NewLayout(widthInTiles, heightInTiles int) Layout {
	return Layout{
		WidthInTiles:  widthInTiles,
		HeightInTiles: heightInTiles,
		BATWidth:      roundUp(widthInTiles, batAlignment),
		BATHeight:     roundUp(heightInTiles, batAlignment),
	}
}

// BATMSize returns the size of the attribute table in bytes.
func (l Layout) BATMSize() int {
	return l.BATWidth * l.BATHeight * 2
}

// PatternBase returns the pattern number of the first character pattern,
// the patterns are stored directly after the attribute table.
func (l Layout) PatternBase() int {
	return l.BATMSize() / PatternSize
}

// Data is the encoded video memory content of an image.
type Data struct {
	Layout       Layout
	BATM         []byte
	CHR          []Pattern
	Palettes     [PaletteWords]uint16
	PaletteCount int // number of palettes used by the image
}

// Encode converts the quantized image into video memory data.
func Encode(img *quantize.Result) (*Data, error) {
	layout := NewLayout(img.WidthInTiles, img.HeightInTiles)
	base := layout.PatternBase()
	if base+len(img.Tiles)-1 > maxPatternBase ||
		layout.BATMSize()+len(img.Tiles)*PatternSize > Size {

		return nil, fmt.Errorf("%w: %d tiles in a %dx%d attribute table",
			ErrOverflow, len(img.Tiles), layout.BATWidth, layout.BATHeight)
	}
	if len(img.Palettes) > palette.MaxPalettes {
		return nil, fmt.Errorf("too many palettes: %d", len(img.Palettes))
	}

	data := &Data{
		Layout:       layout,
		BATM:         make([]byte, layout.BATMSize()),
		CHR:          make([]Pattern, len(img.Tiles)),
		PaletteCount: len(img.Palettes),
	}

	for y := range layout.HeightInTiles {
		for x := range layout.WidthInTiles {
			index := y*layout.WidthInTiles + x
			if index >= len(img.Tiles) {
				continue
			}
			t := img.Tiles[index]
			word := BATEntry(base+index, int(t.Palette))
			binary.LittleEndian.PutUint16(data.BATM[(y*layout.BATWidth+x)*2:], word)
		}
	}

	for i, t := range img.Tiles {
		data.CHR[i] = EncodePattern(t.Pattern)
	}

	for i, pal := range img.Palettes {
		for j, v := range pal.VCE() {
			data.Palettes[i*palette.ColorsPerPalette+j] = uint16(v)
		}
	}

	return data, nil
}

// BATEntry returns the attribute table word for a pattern and palette.
func BATEntry(pattern, paletteIndex int) uint16 {
	return uint16(pattern&0xfff) | uint16(paletteIndex&0xf)<<12
}

// SplitBATEntry returns the pattern and palette number of an attribute table word.
func SplitBATEntry(word uint16) (pattern, paletteIndex int) {
	return int(word & 0xfff), int(word >> 12)
}

// Size returns the size of the attribute table and patterns in bytes.
func (d *Data) Size() int {
	return len(d.BATM) + len(d.CHR)*PatternSize
}

// Sectors returns the number of CD-ROM sectors needed to store the data.
func (d *Data) Sectors() int {
	return SectorCount(d.Size())
}

// Bytes returns the attribute table followed by all patterns.
func (d *Data) Bytes() []byte {
	buf := make([]byte, 0, d.Size())
	buf = append(buf, d.BATM...)
	for _, p := range d.CHR {
		buf = append(buf, p[:]...)
	}
	return buf
}

// PaletteBytes returns the palette block as little endian words.
func (d *Data) PaletteBytes() []byte {
	return PaletteBytes(d.Palettes[:])
}

// PaletteBytes converts palette words into little endian bytes.
func PaletteBytes(words []uint16) []byte {
	buf := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*2:], w)
	}
	return buf
}

// PaletteWordsFromBytes converts little endian bytes into palette words,
// a trailing odd byte is ignored.
func PaletteWordsFromBytes(buf []byte) []uint16 {
	words := make([]uint16, len(buf)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return words
}

// SectorCount returns the number of sectors needed for the given bytes.
func SectorCount(bytes int) int {
	return roundUp(bytes, SectorSize) / SectorSize
}

func roundUp(value, alignment int) int {
	return ((value + alignment - 1) / alignment) * alignment
}
