package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/disc"
	"github.com/retroenv/pceimg/internal/vram"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMachine(t *testing.T, d *disc.Image, options ...Option) *Machine {
	t.Helper()
	if d == nil {
		d = disc.New()
	}
	return NewMachine(log.NewTestLogger(t), d, options...)
}

func TestSetXRes(t *testing.T) {
	m := newTestMachine(t, nil)
	assert.NoError(t, m.SetXRes(320))
	assert.Equal(t, 320, m.XRes())

	err := m.SetXRes(300)
	assert.True(t, errors.Is(err, ErrInvalidResolution))
	assert.Equal(t, 320, m.XRes())
}

func TestScroll(t *testing.T) {
	m := newTestMachine(t, nil)
	assert.NoError(t, m.Scroll(0, 0, 8, 0, 223, 0xc0))

	w, ok := m.Window(0)
	assert.True(t, ok)
	assert.Equal(t, ScrollWindow{Y: 8, Bottom: 223, Flags: 0xc0}, w)
	assert.True(t, w.BackgroundEnabled())

	_, ok = m.Window(1)
	assert.False(t, ok)

	assert.True(t, errors.Is(m.Scroll(4, 0, 0, 0, 1, 0), ErrInvalidArgument))
	assert.True(t, errors.Is(m.Scroll(0, 0, 0, 10, 9, 0), ErrInvalidArgument))
}

func TestColors(t *testing.T) {
	m := newTestMachine(t, nil)
	assert.NoError(t, m.SetColor(1, 0xffff))
	assert.Equal(t, uint16(0x1ff), m.Color(1))
	assert.Error(t, m.SetColor(512, 0))

	colors := make([]uint16, 32)
	for i := range colors {
		colors[i] = uint16(i)
	}
	assert.NoError(t, m.SetBGPal(2, colors, 2))
	assert.Equal(t, uint16(0), m.Color(32))
	assert.Equal(t, uint16(31), m.Color(63))

	assert.True(t, errors.Is(m.SetBGPal(15, colors, 2), ErrInvalidArgument))
	assert.True(t, errors.Is(m.SetBGPal(0, colors, 3), ErrInvalidArgument))
}

func TestLoadData(t *testing.T) {
	d := disc.New([]byte{0x34, 0x12, 0xff, 0x01})
	m := newTestMachine(t, d)
	ctx := context.Background()

	dst := make([]uint16, 2)
	assert.NoError(t, m.LoadData(ctx, 0, 0, dst))
	assert.Equal(t, []uint16{0x1234, 0x01ff}, dst)

	assert.True(t, errors.Is(m.LoadData(ctx, 1, 0, dst), disc.ErrInvalidOverlay))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.True(t, errors.Is(m.LoadData(cancelled, 0, 0, dst), context.Canceled))
}

func TestLoadVRAM(t *testing.T) {
	data := make([]byte, disc.SectorSize+3)
	for i := range data {
		data[i] = byte(i)
	}
	m := newTestMachine(t, disc.New(data))
	ctx := context.Background()

	assert.NoError(t, m.LoadVRAM(ctx, 0, 0, 0x100, 5))
	assert.Equal(t, uint16(0x0100), m.VRAM(0x100))
	assert.Equal(t, uint16(0x0302), m.VRAM(0x101))
	assert.Equal(t, uint16(0x0004), m.VRAM(0x102))

	assert.NoError(t, m.LoadVRAMSectors(ctx, 0, 1, 0x2000, 1))
	assert.Equal(t, uint16(0x0100), m.VRAM(0x2000))
	assert.Equal(t, uint16(0x0002), m.VRAM(0x2001))
	assert.Equal(t, uint16(0), m.VRAM(0x2002))

	err := m.LoadVRAM(ctx, 0, 0, VRAMWords-1, 4)
	assert.True(t, errors.Is(err, ErrVRAMRange))
	err = m.LoadVRAMSectors(ctx, 0, 0, 0, 3)
	assert.True(t, errors.Is(err, disc.ErrOutOfRange))
	err = m.LoadVRAM(ctx, 0, 0, 0, -1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestVSyncChannel(t *testing.T) {
	vblank := make(chan struct{}, 2)
	var frames []uint64
	m := newTestMachine(t, nil, WithVBlank(vblank), WithVSyncHook(func(frame uint64) {
		frames = append(frames, frame)
	}))

	vblank <- struct{}{}
	vblank <- struct{}{}
	ctx := context.Background()
	assert.NoError(t, m.VSync(ctx))
	assert.NoError(t, m.VSync(ctx))
	assert.Equal(t, uint64(2), m.Frames())
	assert.Equal(t, []uint64{1, 2}, frames)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.True(t, errors.Is(m.VSync(cancelled), context.Canceled))

	close(vblank)
	assert.True(t, errors.Is(m.VSync(ctx), ErrVBlankClosed))
}

func TestVSyncTimer(t *testing.T) {
	m := newTestMachine(t, nil)
	start := time.Now()
	assert.NoError(t, m.VSync(context.Background()))
	assert.True(t, time.Since(start) >= FrameDuration/2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	m.nextFrame = time.Now().Add(time.Hour)
	assert.True(t, errors.Is(m.VSync(ctx), context.DeadlineExceeded))
}

func TestRender(t *testing.T) {
	m := newTestMachine(t, nil, WithBATSize(32, 32))

	// pattern 64 directly behind the 32x32 attribute table, palette 1
	m.vram[0] = vram.BATEntry(64, 1)
	m.vram[1] = vram.BATEntry(64, 0)
	var indexes [8][8]uint8
	indexes[0][0] = 1
	indexes[0][1] = 2
	p := vram.EncodePattern(indexes)
	for i := range 16 {
		m.vram[64*16+i] = uint16(p[i*2]) | uint16(p[i*2+1])<<8
	}

	assert.NoError(t, m.SetColor(0, 0x007))  // background blue
	assert.NoError(t, m.SetColor(17, 0x038)) // palette 1 entry 1 red
	assert.NoError(t, m.SetColor(18, 0x1c0)) // palette 1 entry 2 green
	assert.NoError(t, m.SetColor(1, 0x1ff))  // palette 0 entry 1 white

	img := m.RenderBackground(2, 1)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, color.Color{R: 1}, img.At(0, 0))
	assert.Equal(t, color.Color{G: 1}, img.At(1, 0))
	assert.Equal(t, color.Color{B: 1}, img.At(2, 0))
	assert.Equal(t, color.Color{R: 1, G: 1, B: 1}, img.At(8, 0))

	shot := m.Screenshot()
	assert.Equal(t, 256, shot.Width)
	assert.Equal(t, 224, shot.Height)
	assert.Equal(t, color.Color{R: 1}, shot.At(0, 0))

	// scrolled by one pixel, only lines 0-9 use the window
	assert.NoError(t, m.Scroll(0, 1, 0, 0, 9, 0xc0))
	shot = m.Screenshot()
	assert.Equal(t, color.Color{G: 1}, shot.At(0, 0))
	assert.Equal(t, color.Color{B: 1}, shot.At(0, 20))
}
