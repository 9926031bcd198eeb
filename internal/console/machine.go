package console

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/pceimg/internal/disc"
	"github.com/retroenv/retrogolib/log"
)

// FrameDuration is the duration of a frame of the NTSC display.
const FrameDuration = time.Second * 1001 / 60000

const (
	defaultBATWidth  = 64
	defaultBATHeight = 32
	visibleLines     = 224
)

// Machine simulates the effect of the primitives on video memory, the
// color table and the display registers. Data is loaded from a disc image.
// A Machine is not safe for concurrent use.
type Machine struct {
	logger *log.Logger
	disc   *disc.Image

	vram    [VRAMWords]uint16
	colors  [ColorEntries]uint16
	xres    int
	windows [ScrollWindows]*ScrollWindow

	batWidth  int
	batHeight int

	frames    uint64
	vblank    <-chan struct{}
	nextFrame time.Time
	onVSync   func(frame uint64)
}

// Option configures a Machine.
type Option func(*Machine)

// WithVBlank sets a channel that signals vertical blanks, replacing the
// internal frame timer.
func WithVBlank(ch <-chan struct{}) Option {
	return func(m *Machine) {
		m.vblank = ch
	}
}

// WithBATSize sets the virtual screen size in tiles.
func WithBATSize(width, height int) Option {
	return func(m *Machine) {
		m.batWidth = width
		m.batHeight = height
	}
}

// WithVSyncHook sets a function that is called after every vertical blank.
func WithVSyncHook(fn func(frame uint64)) Option {
	return func(m *Machine) {
		m.onVSync = fn
	}
}

// NewMachine returns a machine reading overlays from the given disc.
func NewMachine(logger *log.Logger, d *disc.Image, options ...Option) *Machine {
	m := &Machine{
		logger:    logger,
		disc:      d,
		xres:      256,
		batWidth:  defaultBATWidth,
		batHeight: defaultBATHeight,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// XRes returns the horizontal resolution.
func (m *Machine) XRes() int {
	return m.xres
}

// Frames returns the number of vertical blanks that passed.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// VRAM returns the word at the given video memory address.
func (m *Machine) VRAM(address int) uint16 {
	return m.vram[address&(VRAMWords-1)]
}

// Color returns the color table entry with the given index.
func (m *Machine) Color(index int) uint16 {
	return m.colors[index&(ColorEntries-1)]
}

// Window returns the configuration of a scroll window, false if it was not set.
func (m *Machine) Window(index int) (ScrollWindow, bool) {
	if index < 0 || index >= ScrollWindows || m.windows[index] == nil {
		return ScrollWindow{}, false
	}
	return *m.windows[index], true
}

// SetXRes implements System.
func (m *Machine) SetXRes(width int) error {
	if !validResolution(width) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, width)
	}
	m.xres = width
	m.logger.Debug("Set resolution", log.Int("width", width))
	return nil
}

// Scroll implements System.
func (m *Machine) Scroll(window, x, y, top, bottom, flags int) error {
	if window < 0 || window >= ScrollWindows {
		return fmt.Errorf("%w: scroll window %d", ErrInvalidArgument, window)
	}
	if top < 0 || bottom < top {
		return fmt.Errorf("%w: scroll lines %d-%d", ErrInvalidArgument, top, bottom)
	}
	m.windows[window] = &ScrollWindow{
		X:      x,
		Y:      y,
		Top:    top,
		Bottom: bottom,
		Flags:  flags,
	}
	return nil
}

// SetColor implements System.
func (m *Machine) SetColor(index int, value uint16) error {
	if index < 0 || index >= ColorEntries {
		return fmt.Errorf("%w: color index %d", ErrInvalidArgument, index)
	}
	m.colors[index] = value & 0x1ff
	return nil
}

// LoadData implements System.
func (m *Machine) LoadData(ctx context.Context, overlay, sectorOffset int, dst []uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, len(dst)*2)
	if err := m.disc.ReadBytes(overlay, sectorOffset, buf); err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	for i := range dst {
		dst[i] = uint16(buf[i*2]) | uint16(buf[i*2+1])<<8
	}

	m.logger.Debug("Loaded data",
		log.Int("overlay", overlay),
		log.Int("sector", sectorOffset),
		log.Int("bytes", len(buf)))
	return nil
}

// SetBGPal implements System.
func (m *Machine) SetBGPal(first int, colors []uint16, count int) error {
	if first < 0 || count < 0 || first+count > BackgroundPalettes {
		return fmt.Errorf("%w: palettes %d+%d", ErrInvalidArgument, first, count)
	}
	if len(colors) < count*PaletteSize {
		return fmt.Errorf("%w: %d colors for %d palettes", ErrInvalidArgument, len(colors), count)
	}

	for i := range count * PaletteSize {
		m.colors[first*PaletteSize+i] = colors[i] & 0x1ff
	}
	return nil
}

// LoadVRAM implements System.
func (m *Machine) LoadVRAM(ctx context.Context, overlay, sectorOffset, vramAddr, bytes int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes < 0 {
		return fmt.Errorf("%w: length %d", ErrInvalidArgument, bytes)
	}

	buf := make([]byte, bytes)
	if err := m.disc.ReadBytes(overlay, sectorOffset, buf); err != nil {
		return fmt.Errorf("loading video data: %w", err)
	}
	return m.writeVRAM(vramAddr, buf)
}

// LoadVRAMSectors implements System.
func (m *Machine) LoadVRAMSectors(ctx context.Context, overlay, sectorOffset, vramAddr, sectors int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := m.disc.ReadSectors(overlay, sectorOffset, sectors)
	if err != nil {
		return fmt.Errorf("loading video sectors: %w", err)
	}
	return m.writeVRAM(vramAddr, buf)
}

// writeVRAM writes little endian words, a trailing odd byte is written as
// low byte of the last word.
func (m *Machine) writeVRAM(address int, buf []byte) error {
	words := (len(buf) + 1) / 2
	if address < 0 || address+words > VRAMWords {
		return fmt.Errorf("%w: address $%04x length %d", ErrVRAMRange, address, len(buf))
	}

	for i := range words {
		word := uint16(buf[i*2])
		if i*2+1 < len(buf) {
			word |= uint16(buf[i*2+1]) << 8
		}
		m.vram[address+i] = word
	}

	m.logger.Debug("Transferred video data",
		log.Hex("address", uint16(address)),
		log.Int("bytes", len(buf)))
	return nil
}

// VSync implements System.
func (m *Machine) VSync(ctx context.Context) error {
	if err := m.waitVBlank(ctx); err != nil {
		return err
	}

	m.frames++
	if m.onVSync != nil {
		m.onVSync(m.frames)
	}
	return nil
}

func (m *Machine) waitVBlank(ctx context.Context) error {
	if m.vblank != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-m.vblank:
			if !ok {
				return ErrVBlankClosed
			}
			return nil
		}
	}

	now := time.Now()
	if m.nextFrame.Before(now) {
		m.nextFrame = now
	}
	m.nextFrame = m.nextFrame.Add(FrameDuration)

	timer := time.NewTimer(m.nextFrame.Sub(now))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
