// Package preview renders converted images for inspection, as colored
// palette swatches in the terminal or as an image file.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/quantize"
)

const swatch = "  "

// Palettes writes one line per palette showing every used entry as a
// colored swatch. With values enabled the color encoder words of all 16
// entries follow the swatches.
func Palettes(w io.Writer, palettes []palette.Palette, values bool) error {
	renderer := lipgloss.NewRenderer(w)
	title := renderer.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))

	for i, pal := range palettes {
		var b strings.Builder
		b.WriteString(title.Render(fmt.Sprintf("palette %2d", i)))
		b.WriteString(" ")

		snapped := pal.Snap()
		for _, c := range snapped.Used() {
			style := renderer.NewStyle().Background(lipgloss.Color(c.String()))
			b.WriteString(style.Render(swatch))
		}
		b.WriteString(strings.Repeat(swatch, palette.ColorsPerPalette-len(snapped.Used())))

		if values {
			for _, v := range pal.VCE() {
				fmt.Fprintf(&b, " %s", v)
			}
		}

		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return fmt.Errorf("writing palette %d: %w", i, err)
		}
	}
	return nil
}

// Image returns the image as the console displays it, scaled by the given
// integer factor.
func Image(result *quantize.Result, scale int) *imageio.Image {
	src := result.TiledImage().ToImage()
	if scale <= 1 {
		return src
	}

	img := imageio.New(src.Width*scale, src.Height*scale)
	for y := range img.Height {
		for x := range img.Width {
			img.Set(x, y, src.At(x/scale, y/scale))
		}
	}
	return img
}

// SavePNG writes the preview image to a PNG file.
func SavePNG(path string, result *quantize.Result, scale int) error {
	if err := imageio.Save(path, Image(result, scale)); err != nil {
		return fmt.Errorf("saving preview: %w", err)
	}
	return nil
}
