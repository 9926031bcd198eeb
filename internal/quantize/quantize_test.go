package quantize

import (
	"errors"
	"testing"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/tile"
	"github.com/retroenv/retrogolib/assert"
)

var (
	black = color.Color{}
	red   = color.Color{R: 1}
	blue  = color.Color{B: 1}
)

// createTestImage returns two tiles, a red checkerboard on the left and blue
// stripes on the right, both on black.
func createTestImage(t *testing.T) *tile.Image {
	t.Helper()

	img := imageio.New(16, 8)
	for y := range 8 {
		for x := range 8 {
			if (x+y)%2 == 0 {
				img.Set(x, y, red)
			}
			if x%2 == 0 {
				img.Set(8+x, y, blue)
			}
		}
	}

	tiled, err := tile.FromImage(img)
	assert.NoError(t, err)
	return tiled
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		palettes int
		builder  palette.Builder
		want     int
	}{
		{name: "kmeans separate palettes", palettes: 16, builder: palette.KMeans, want: 2},
		{name: "median cut separate palettes", palettes: 16, builder: palette.MedianCut, want: 2},
		{name: "shared palette", palettes: 1, builder: palette.KMeans, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(t)

			result, err := Quantize(img, Options{Palettes: tt.palettes, Builder: tt.builder})
			assert.NoError(t, err)
			assert.Equal(t, black, result.Background)
			assert.Len(t, result.Palettes, tt.want)
			assert.Len(t, result.Tiles, 2)

			for _, pal := range result.Palettes {
				assert.Equal(t, black, pal.Background)
			}

			// background pixels use the shared entry 0
			assert.Equal(t, uint8(0), result.Tiles[0].Pattern[0][1])
			assert.True(t, result.Tiles[0].Pattern[0][0] != 0)

			back := result.TiledImage()
			assert.Equal(t, img.Tiles, back.Tiles)
		})
	}
}

func TestQuantizeSeparatePaletteIndices(t *testing.T) {
	result, err := Quantize(createTestImage(t), Options{Palettes: 16})
	assert.NoError(t, err)

	assert.Equal(t, uint8(0), result.Tiles[0].Palette)
	assert.Equal(t, uint8(1), result.Tiles[1].Palette)
	assert.Equal(t, []color.Color{red}, result.Palettes[0].Colors)
	assert.Equal(t, []color.Color{blue}, result.Palettes[1].Colors)
	assert.Equal(t, uint8(1), result.Tiles[1].Pattern[3][0])
}

func TestQuantizeSnapsColors(t *testing.T) {
	img := imageio.New(8, 8)
	gray := color.Color{R: 0.3, G: 0.3, B: 0.3}
	for y := range 2 {
		for x := range 8 {
			img.Set(x, y, gray)
		}
	}
	tiled, err := tile.FromImage(img)
	assert.NoError(t, err)

	result, err := Quantize(tiled, Options{Palettes: 4, Metric: color.Lab})
	assert.NoError(t, err)
	assert.Len(t, result.Palettes, 1)
	assert.Equal(t, []color.Color{gray.Snap()}, result.Palettes[0].Colors)
}

func TestQuantizeErrors(t *testing.T) {
	_, err := Quantize(&tile.Image{}, Options{Palettes: 16})
	assert.True(t, errors.Is(err, ErrNoTiles))

	_, err = Quantize(createTestImage(t), Options{Palettes: 17})
	assert.Error(t, err)

	_, err = Quantize(createTestImage(t), Options{Palettes: 0})
	assert.Error(t, err)
}
