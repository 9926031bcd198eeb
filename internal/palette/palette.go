// Package palette contains the background palette type and the palette
// builders used to pick the colors of a palette.
package palette

import (
	"github.com/retroenv/pceimg/internal/color"
)

const (
	// MaxPalettes is the number of background palettes of the video color encoder.
	MaxPalettes = 16
	// ColorsPerPalette is the number of entries of a palette.
	ColorsPerPalette = 16
	// MaxColors is the number of freely selectable colors of a palette,
	// entry 0 is shared by all palettes as background color.
	MaxColors = ColorsPerPalette - 1
)

// Palette is a background palette.
type Palette struct {
	Background color.Color
	Colors     []color.Color // at most MaxColors colors, mapped to entries 1..15
}

// Entries returns the colors in hardware order, index 0 is the background
// color. Unused entries are black.
func (p Palette) Entries() [ColorsPerPalette]color.Color {
	var entries [ColorsPerPalette]color.Color
	entries[0] = p.Background
	copy(entries[1:], p.Colors)
	return entries
}

// Used returns the background color followed by the selectable colors.
func (p Palette) Used() []color.Color {
	colors := make([]color.Color, 0, len(p.Colors)+1)
	colors = append(colors, p.Background)
	return append(colors, p.Colors...)
}

// VCE returns the palette entries as color encoder words.
func (p Palette) VCE() [ColorsPerPalette]color.VCE {
	var words [ColorsPerPalette]color.VCE
	for i, c := range p.Entries() {
		words[i] = c.VCE()
	}
	return words
}

// Snap returns the palette with all colors rounded to the precision of the
// color encoder.
func (p Palette) Snap() Palette {
	snapped := Palette{
		Background: p.Background.Snap(),
		Colors:     make([]color.Color, len(p.Colors)),
	}
	for i, c := range p.Colors {
		snapped.Colors[i] = c.Snap()
	}
	return snapped
}

// Builder selects at most maxColors colors representing the given pixels.
type Builder func(pixels []color.Color, maxColors int) []color.Color
