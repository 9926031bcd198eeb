package preview

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/imageio"
	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/quantize"
	"github.com/retroenv/retrogolib/assert"
)

var (
	black = color.Color{}
	red   = color.Color{R: 1}
	blue  = color.Color{B: 1}
)

func testResult() *quantize.Result {
	result := &quantize.Result{
		WidthInTiles:  1,
		HeightInTiles: 1,
		Background:    black,
		Palettes: []palette.Palette{
			{Background: black, Colors: []color.Color{red}},
			{Background: black, Colors: []color.Color{red, blue}},
		},
		Tiles: []quantize.IndexedTile{{Palette: 0}},
	}
	result.Tiles[0].Pattern[0][0] = 1
	return result
}

func TestPalettes(t *testing.T) {
	tests := []struct {
		name   string
		values bool
		want   []string
	}{
		{name: "swatches only", values: false, want: []string{"palette  0", "palette  1"}},
		{name: "with values", values: true, want: []string{"$000 $038 $000", "$000 $038 $007 $000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, Palettes(&buf, testResult().Palettes, tt.values))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Len(t, lines, 2)
			for i, want := range tt.want {
				assert.Contains(t, lines[i], want)
			}
			if !tt.values {
				assert.False(t, strings.Contains(buf.String(), "$"))
			}
		})
	}
}

func TestImage(t *testing.T) {
	img := Image(testResult(), 1)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, red, img.At(0, 0))
	assert.Equal(t, black, img.At(1, 0))

	img = Image(testResult(), 2)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 16, img.Height)
	assert.Equal(t, red, img.At(1, 1))
	assert.Equal(t, black, img.At(2, 0))
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	assert.NoError(t, SavePNG(path, testResult(), 3))

	img, format, err := imageio.Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 24, img.Width)
	assert.Equal(t, red, img.At(2, 2))

	err = SavePNG(filepath.Join(t.TempDir(), "missing", "preview.png"), testResult(), 1)
	assert.Error(t, err)
}
