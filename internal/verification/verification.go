// Package verification verifies that the generated output displays the converted image.
package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/pceimg/internal/console"
	"github.com/retroenv/pceimg/internal/disc"
	"github.com/retroenv/pceimg/internal/examples"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/quantize"
	"github.com/retroenv/pceimg/internal/vram"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyOutput boots the named example program on the console simulator
// with a disc holding the generated data. After the first vertical blank
// the displayed background is compared with the converted image.
func VerifyOutput(ctx context.Context, logger *log.Logger, programName string,
	result *quantize.Result, data *vram.Data) error {

	program, err := examples.ByName(programName, examples.WithVideoSize(data.Size()))
	if err != nil {
		return fmt.Errorf("creating example program: %w", err)
	}

	machine, err := runProgram(ctx, logger, program, data)
	if err != nil {
		return err
	}

	expected := result.TiledImage().ToImage()
	got := machine.RenderBackground(data.Layout.WidthInTiles, data.Layout.HeightInTiles)
	if err := checkImageEqual(logger, expected, got); err != nil {
		return fmt.Errorf("displayed image mismatch: %w", err)
	}
	return nil
}

// runProgram runs the program until the first vertical blank passed and
// returns the machine state.
func runProgram(ctx context.Context, logger *log.Logger, program *examples.Program,
	data *vram.Data) (*console.Machine, error) {

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	vblank := make(chan struct{}, 1)
	vblank <- struct{}{}

	d := disc.NewExampleLayout(data.PaletteBytes(), data.Bytes())
	machine := console.NewMachine(logger, d,
		console.WithBATSize(data.Layout.BATWidth, data.Layout.BATHeight),
		console.WithVBlank(vblank),
		console.WithVSyncHook(func(uint64) { cancel() }),
	)

	err := program.Run(runCtx, machine)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("running example program '%s': %w", program.Name(), err)
	}

	logger.Debug("Example program displayed first frame",
		log.String("program", program.Name()),
		log.Int("resolution", machine.XRes()))
	return machine, nil
}

func checkImageEqual(logger *log.Logger, expected, got *imageio.Image) error {
	if expected.Width != got.Width || expected.Height != got.Height {
		return fmt.Errorf("mismatched dimensions, %dx%d != %dx%d",
			expected.Width, expected.Height, got.Width, got.Height)
	}

	var diffs uint64
	for y := range expected.Height {
		for x := range expected.Width {
			want := expected.At(x, y).VCE()
			have := got.At(x, y).VCE()
			if want == have {
				continue
			}

			diffs++
			if diffs <= maxLoggedMismatches {
				logger.Error("Pixel mismatch",
					log.Int("x", x),
					log.Int("y", y),
					log.Stringer("expected", want),
					log.Stringer("got", have))
			}
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d pixel mismatches", diffs)
}
