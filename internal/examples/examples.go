// Package examples contains the CD example programs. Each program sets the
// display resolution, loads a palette and background graphics from CD
// overlays into video memory and then waits for vertical blanks forever.
// The programs only differ in a single primitive call.
package examples

import (
	"context"
	"fmt"
	"sort"

	"github.com/retroenv/pceimg/internal/console"
	"github.com/retroenv/pceimg/internal/disc"
)

// Overlay indexes on the example disc.
const (
	OverlayBoot      = disc.OverlayBoot
	OverlayProgram   = disc.OverlayProgram
	OverlayPalette   = disc.OverlayPalette
	OverlayVideoData = disc.OverlayVideoData
)

// Video data sizes for a 320x256 image in a 64x32 attribute table.
const (
	BATMSize = 64 * 32 * 2
	CHRSize  = (320 / 8) * (256 / 8) * 32
	VRAMSize = BATMSize + CHRSize
)

// Display settings used by all programs.
const (
	XRes            = 320
	ScrollY         = 8
	ScrollBottom    = 223
	DisplayFlags    = 0xc0
	BackgroundColor = 0x000
)

// Program names.
const (
	LoadBytesName     = "bytes"
	LoadSectorsName   = "sectors"
	ColorRegisterName = "color"
	NoScrollName      = "noscroll"
)

const paletteEntries = console.BackgroundPalettes * console.PaletteSize

type displaySetup int

const (
	setupScroll displaySetup = iota
	setupColorRegister
	setupNone
)

// Program is an example program. The palette buffer is allocated with the
// program, filled once by the palette load and then only read.
type Program struct {
	name      string
	setup     displaySetup
	fastLoad  bool
	videoSize int

	palettes [paletteEntries]uint16
}

// Option configures a program.
type Option func(*Program)

// WithVideoSize sets the number of bytes of video data to load, it
// defaults to VRAMSize.
func WithVideoSize(bytes int) Option {
	return func(p *Program) {
		p.videoSize = bytes
	}
}

func newProgram(name string, setup displaySetup, fastLoad bool, options []Option) *Program {
	p := &Program{
		name:      name,
		setup:     setup,
		fastLoad:  fastLoad,
		videoSize: VRAMSize,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// LoadBytes returns the program that loads the video data with a byte
// granular transfer.
func LoadBytes(options ...Option) *Program {
	return newProgram(LoadBytesName, setupScroll, false, options)
}

// LoadSectors returns the program that loads the video data with a sector
// granular fast transfer.
func LoadSectors(options ...Option) *Program {
	return newProgram(LoadSectorsName, setupScroll, true, options)
}

// ColorRegister returns the program that sets the background color
// register directly instead of configuring the scroll window.
func ColorRegister(options ...Option) *Program {
	return newProgram(ColorRegisterName, setupColorRegister, false, options)
}

// NoScroll returns the program that keeps the default display setup.
func NoScroll(options ...Option) *Program {
	return newProgram(NoScrollName, setupNone, false, options)
}

var constructors = map[string]func(...Option) *Program{
	LoadBytesName:     LoadBytes,
	LoadSectorsName:   LoadSectors,
	ColorRegisterName: ColorRegister,
	NoScrollName:      NoScroll,
}

// ByName returns the program with the given name.
func ByName(name string, options ...Option) (*Program, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown example program '%s', valid programs: %v", name, Names())
	}
	return constructor(options...), nil
}

// Names returns the names of all programs.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the name of the program.
func (p *Program) Name() string {
	return p.name
}

// Palettes returns a copy of the palette buffer.
func (p *Program) Palettes() []uint16 {
	return append([]uint16(nil), p.palettes[:]...)
}

// Run executes the program. It only returns if a primitive fails or the
// context is cancelled.
func (p *Program) Run(ctx context.Context, sys console.System) error {
	if err := p.Setup(ctx, sys); err != nil {
		return err
	}
	return Idle(ctx, sys)
}

// Setup executes the call sequence of the program up to the idle loop.
func (p *Program) Setup(ctx context.Context, sys console.System) error {
	if err := sys.SetXRes(XRes); err != nil {
		return fmt.Errorf("setting resolution: %w", err)
	}

	switch p.setup {
	case setupScroll:
		if err := sys.Scroll(0, 0, ScrollY, 0, ScrollBottom, DisplayFlags); err != nil {
			return fmt.Errorf("setting scroll window: %w", err)
		}
	case setupColorRegister:
		if err := sys.SetColor(0, BackgroundColor); err != nil {
			return fmt.Errorf("setting background color: %w", err)
		}
	case setupNone:
	}

	if err := sys.LoadData(ctx, OverlayPalette, 0, p.palettes[:]); err != nil {
		return fmt.Errorf("loading palettes: %w", err)
	}
	if err := sys.SetBGPal(0, p.palettes[:], console.BackgroundPalettes); err != nil {
		return fmt.Errorf("uploading palettes: %w", err)
	}

	if p.fastLoad {
		sectors := (p.videoSize + disc.SectorSize - 1) / disc.SectorSize
		if err := sys.LoadVRAMSectors(ctx, OverlayVideoData, 0, 0, sectors); err != nil {
			return fmt.Errorf("loading video data: %w", err)
		}
		return nil
	}

	if err := sys.LoadVRAM(ctx, OverlayVideoData, 0, 0, p.videoSize); err != nil {
		return fmt.Errorf("loading video data: %w", err)
	}
	return nil
}

// Idle waits for vertical blanks until a wait fails.
func Idle(ctx context.Context, sys console.System) error {
	for {
		if err := sys.VSync(ctx); err != nil {
			return fmt.Errorf("waiting for vertical blank: %w", err)
		}
	}
}
