// Package console models the hardware abstraction primitives that PC Engine
// CD programs use to set up the display and to load data from CD overlays
// into video memory.
package console

import (
	"context"
	"errors"
	"slices"
)

// Names of the primitives, as used by the runtime library.
const (
	CallSetXRes   = "set_xres"
	CallScroll    = "scroll"
	CallSetColor  = "set_color"
	CallLoadData  = "cd_loaddata"
	CallSetBGPal  = "set_bgpal"
	CallLoadVRAM  = "cd_loadvram"
	CallFastVRAM  = "cd_fastvram"
	CallVSync     = "vsync"
	callSeparator = ", "
)

const (
	// VRAMWords is the size of the video memory in 16-bit words.
	VRAMWords = 0x8000
	// ColorEntries is the number of color table entries, 256 background
	// followed by 256 sprite colors.
	ColorEntries = 512
	// BackgroundPalettes is the number of background palettes.
	BackgroundPalettes = 16
	// PaletteSize is the number of colors per palette.
	PaletteSize = 16
	// ScrollWindows is the number of supported scroll windows.
	ScrollWindows = 4

	displayBackground = 0x80
)

var (
	// ErrInvalidResolution is returned for unsupported horizontal resolutions.
	ErrInvalidResolution = errors.New("unsupported horizontal resolution")
	// ErrInvalidArgument is returned for arguments outside of the hardware limits.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrVRAMRange is returned for transfers exceeding the video memory.
	ErrVRAMRange = errors.New("transfer exceeds video memory")
	// ErrVBlankClosed is returned by VSync when the vertical blank source was closed.
	ErrVBlankClosed = errors.New("vertical blank source closed")
)

// Resolutions lists the supported horizontal resolutions.
var Resolutions = []int{256, 320, 336, 512}

// System is the set of primitives available to a console program.
// Load primitives and VSync can block and honor context cancellation.
type System interface {
	// SetXRes sets the horizontal display resolution in pixels.
	SetXRes(width int) error
	// Scroll configures a scroll window: the background scroll position for
	// the display lines from top to bottom and the display flags.
	Scroll(window, x, y, top, bottom, flags int) error
	// SetColor sets a color table entry directly.
	SetColor(index int, value uint16) error
	// LoadData reads 2*len(dst) bytes from an overlay into dst.
	LoadData(ctx context.Context, overlay, sectorOffset int, dst []uint16) error
	// SetBGPal uploads count background palettes starting at palette first.
	SetBGPal(first int, colors []uint16, count int) error
	// LoadVRAM transfers a number of bytes from an overlay into video memory
	// starting at the word address vramAddr.
	LoadVRAM(ctx context.Context, overlay, sectorOffset, vramAddr, bytes int) error
	// LoadVRAMSectors transfers whole sectors from an overlay into video
	// memory starting at the word address vramAddr.
	LoadVRAMSectors(ctx context.Context, overlay, sectorOffset, vramAddr, sectors int) error
	// VSync blocks until the next vertical blank.
	VSync(ctx context.Context) error
}

// ScrollWindow is the configuration of a scroll window.
type ScrollWindow struct {
	X, Y        int
	Top, Bottom int
	Flags       int
}

// BackgroundEnabled returns whether the window displays the background.
func (w ScrollWindow) BackgroundEnabled() bool {
	return w.Flags&displayBackground != 0
}

func validResolution(width int) bool {
	return slices.Contains(Resolutions, width)
}
