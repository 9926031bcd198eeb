package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Call is a recorded primitive call.
type Call struct {
	Name string
	Args []int
	Data []uint16 // palette data passed to set_bgpal
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strconv.Itoa(a)
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, callSeparator))
}

// Recorder is a System that records all calls in order. If a System is
// set as backend the calls are forwarded to it.
type Recorder struct {
	Calls   []Call
	Backend System

	// OnVSync is called after every recorded vertical blank with the number
	// of vertical blanks so far.
	OnVSync func(count int)

	vsyncs int
}

// NewRecorder returns a recorder forwarding to the given backend, which can be nil.
func NewRecorder(backend System) *Recorder {
	return &Recorder{Backend: backend}
}

// Names returns the names of all recorded calls.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Find returns the index of the first call with the given name or -1.
func (r *Recorder) Find(name string) int {
	for i, c := range r.Calls {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// VSyncs returns the number of recorded vertical blanks.
func (r *Recorder) VSyncs() int {
	return r.vsyncs
}

func (r *Recorder) record(name string, args ...int) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// SetXRes implements System.
func (r *Recorder) SetXRes(width int) error {
	r.record(CallSetXRes, width)
	if r.Backend != nil {
		return r.Backend.SetXRes(width)
	}
	return nil
}

// Scroll implements System.
func (r *Recorder) Scroll(window, x, y, top, bottom, flags int) error {
	r.record(CallScroll, window, x, y, top, bottom, flags)
	if r.Backend != nil {
		return r.Backend.Scroll(window, x, y, top, bottom, flags)
	}
	return nil
}

// SetColor implements System.
func (r *Recorder) SetColor(index int, value uint16) error {
	r.record(CallSetColor, index, int(value))
	if r.Backend != nil {
		return r.Backend.SetColor(index, value)
	}
	return nil
}

// LoadData implements System, the recorded length is in bytes.
func (r *Recorder) LoadData(ctx context.Context, overlay, sectorOffset int, dst []uint16) error {
	r.record(CallLoadData, overlay, sectorOffset, len(dst)*2)
	if r.Backend != nil {
		return r.Backend.LoadData(ctx, overlay, sectorOffset, dst)
	}
	return ctx.Err()
}

// SetBGPal implements System, the uploaded colors are copied into the call.
func (r *Recorder) SetBGPal(first int, colors []uint16, count int) error {
	r.Calls = append(r.Calls, Call{
		Name: CallSetBGPal,
		Args: []int{first, count},
		Data: append([]uint16(nil), colors...),
	})
	if r.Backend != nil {
		return r.Backend.SetBGPal(first, colors, count)
	}
	return nil
}

// LoadVRAM implements System.
func (r *Recorder) LoadVRAM(ctx context.Context, overlay, sectorOffset, vramAddr, bytes int) error {
	r.record(CallLoadVRAM, overlay, sectorOffset, vramAddr, bytes)
	if r.Backend != nil {
		return r.Backend.LoadVRAM(ctx, overlay, sectorOffset, vramAddr, bytes)
	}
	return ctx.Err()
}

// LoadVRAMSectors implements System.
func (r *Recorder) LoadVRAMSectors(ctx context.Context, overlay, sectorOffset, vramAddr, sectors int) error {
	r.record(CallFastVRAM, overlay, sectorOffset, vramAddr, sectors)
	if r.Backend != nil {
		return r.Backend.LoadVRAMSectors(ctx, overlay, sectorOffset, vramAddr, sectors)
	}
	return ctx.Err()
}

// VSync implements System.
func (r *Recorder) VSync(ctx context.Context) error {
	r.record(CallVSync)
	if r.Backend != nil {
		if err := r.Backend.VSync(ctx); err != nil {
			return err
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	r.vsyncs++
	if r.OnVSync != nil {
		r.OnVSync(r.vsyncs)
	}
	return nil
}
