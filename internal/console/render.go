package console

import (
	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/vram"
)

const tileSize = 8

// RenderBackground renders the top left part of the background plane
// without scrolling, as a true color image.
func (m *Machine) RenderBackground(widthInTiles, heightInTiles int) *imageio.Image {
	img := imageio.New(widthInTiles*tileSize, heightInTiles*tileSize)
	for y := range img.Height {
		for x := range img.Width {
			img.Set(x, y, m.backgroundPixel(x, y))
		}
	}
	return img
}

// Screenshot renders the visible display using the configured resolution
// and scroll windows. Lines outside of any window or with a disabled
// background show the background color.
func (m *Machine) Screenshot() *imageio.Image {
	img := imageio.New(m.xres, visibleLines)
	background := color.VCE(m.colors[0]).Color()

	for y := range visibleLines {
		window, ok := m.windowForLine(y)
		for x := range m.xres {
			if !ok || !window.BackgroundEnabled() {
				img.Set(x, y, background)
				continue
			}
			img.Set(x, y, m.backgroundPixel(window.X+x, window.Y+y-window.Top))
		}
	}
	return img
}

// windowForLine returns the window covering the display line, later
// windows override earlier ones. Without any configured window the
// background is displayed unscrolled.
func (m *Machine) windowForLine(line int) (ScrollWindow, bool) {
	var (
		found      ScrollWindow
		ok         bool
		configured bool
	)
	for _, w := range m.windows {
		if w == nil {
			continue
		}
		configured = true
		if line >= w.Top && line <= w.Bottom {
			found = *w
			ok = true
		}
	}
	if !configured {
		return ScrollWindow{Bottom: visibleLines - 1, Flags: displayBackground}, true
	}
	return found, ok
}

// backgroundPixel returns the color of a background plane pixel, the
// coordinates wrap around the virtual screen.
func (m *Machine) backgroundPixel(x, y int) color.Color {
	planeWidth := m.batWidth * tileSize
	planeHeight := m.batHeight * tileSize
	x = ((x % planeWidth) + planeWidth) % planeWidth
	y = ((y % planeHeight) + planeHeight) % planeHeight

	entry := m.vram[(y/tileSize)*m.batWidth+x/tileSize]
	pattern, paletteIndex := vram.SplitBATEntry(entry)

	address := pattern * (vram.PatternSize / 2)
	var indexes uint8
	if address+vram.PatternSize/2 <= VRAMWords {
		p := vram.PatternFromWords(m.vram[address : address+vram.PatternSize/2])
		indexes = p.Indexes()[y%tileSize][x%tileSize]
	}

	if indexes == 0 {
		return color.VCE(m.colors[0]).Color()
	}
	return color.VCE(m.colors[paletteIndex*PaletteSize+int(indexes)]).Color()
}
