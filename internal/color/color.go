// Package color provides the color types used during conversion and the
// conversion to the 9-bit color format of the PC Engine video color encoder.
package color

import (
	"fmt"
	"image/color"
	"math"
)

// Color is a true color value with channels in the range [0, 1].
type Color struct {
	R, G, B float64
}

// RGB8 is a color with 8 bits per channel.
type RGB8 struct {
	R, G, B uint8
}

// VCE is a 9-bit color word as stored in the video color encoder,
// bit layout GGGRRRBBB.
type VCE uint16

// Magenta marks pixels that were not covered by any source data.
var Magenta = Color{R: 1, G: 0, B: 1}

// FromStd converts a standard library color.
func FromStd(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{
		R: float64(r) / 0xffff,
		G: float64(g) / 0xffff,
		B: float64(b) / 0xffff,
	}
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	c8 := c.RGB8()
	r = uint32(c8.R) * 0x101
	g = uint32(c8.G) * 0x101
	b = uint32(c8.B) * 0x101
	return r, g, b, 0xffff
}

// RGB8 returns the color rounded to 8 bits per channel.
func (c Color) RGB8() RGB8 {
	return RGB8{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
	}
}

// VCE returns the color rounded to the precision of the video color encoder.
func (c Color) VCE() VCE {
	r := channel3(c.R)
	g := channel3(c.G)
	b := channel3(c.B)
	return VCE(g<<6 | r<<3 | b)
}

// Snap returns the color as it will be displayed by the console.
func (c Color) Snap() Color {
	return c.VCE().Color()
}

// Add returns the component wise sum of both colors.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Scale returns the color with every component multiplied by f.
func (c Color) Scale(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Component returns the channel with the given index, 0 is red, 1 is green
// and 2 is blue.
func (c Color) Component(i int) float64 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

func (c Color) String() string {
	c8 := c.RGB8()
	return c8.String()
}

// Color returns the true color value of the 8-bit color.
func (c RGB8) Color() Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func (c RGB8) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color returns the true color value of the color word.
func (v VCE) Color() Color {
	return Color{
		R: float64(v>>3&7) / 7,
		G: float64(v>>6&7) / 7,
		B: float64(v&7) / 7,
	}
}

func (v VCE) String() string {
	return fmt.Sprintf("$%03x", uint16(v)&0x1ff)
}

// Average returns the average of all colors, black for an empty slice.
func Average(colors []Color) Color {
	if len(colors) == 0 {
		return Color{}
	}
	var sum Color
	for _, c := range colors {
		sum = sum.Add(c)
	}
	return sum.Scale(1 / float64(len(colors)))
}

func channel8(v float64) uint8 {
	return uint8(math.Round(clamp(v) * 255))
}

func channel3(v float64) uint16 {
	return uint16(math.Round(clamp(v) * 7))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
