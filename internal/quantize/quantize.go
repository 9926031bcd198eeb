// Package quantize reduces a tiled true color image to indexed tiles that
// each reference one of up to 16 background palettes.
package quantize

import (
	"errors"
	"fmt"

	"github.com/retroenv/pceimg/internal/cluster"
	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/palette"
	"github.com/retroenv/pceimg/internal/tile"
	"github.com/retroenv/retrogolib/set"
)

const tileClusterIterations = 100

// ErrNoTiles is returned when quantizing an image without tiles.
var ErrNoTiles = errors.New("image contains no tiles")

// Pattern holds the palette entry index of every pixel of a tile.
type Pattern [tile.Size][tile.Size]uint8

// IndexedTile is a tile using a single palette.
type IndexedTile struct {
	Palette uint8
	Pattern Pattern
}

// Options control the quantization.
type Options struct {
	Palettes int             // maximum number of palettes to generate, 1 to 16
	Builder  palette.Builder // palette color selection, defaults to k-means
	Metric   color.Metric    // color distance for remapping, defaults to manhattan
}

// Result is the quantized image.
type Result struct {
	WidthInTiles  int
	HeightInTiles int
	Background    color.Color
	Palettes      []palette.Palette
	Tiles         []IndexedTile
}

// Quantize groups the tiles by their color ranges, builds a palette for
// every group and remaps all tile pixels to their palette.
func Quantize(img *tile.Image, opts Options) (*Result, error) {
	if len(img.Tiles) == 0 {
		return nil, ErrNoTiles
	}
	if opts.Palettes < 1 || opts.Palettes > palette.MaxPalettes {
		return nil, fmt.Errorf("palette count %d out of range 1-%d", opts.Palettes, palette.MaxPalettes)
	}
	if opts.Builder == nil {
		opts.Builder = palette.KMeans
	}
	if opts.Metric == nil {
		opts.Metric = color.Manhattan
	}

	background := dominantColor(img.Tiles).Snap()
	groups := groupTiles(img.Tiles, opts.Palettes)

	result := &Result{
		WidthInTiles:  img.WidthInTiles,
		HeightInTiles: img.HeightInTiles,
		Background:    background,
		Palettes:      make([]palette.Palette, len(groups)),
		Tiles:         make([]IndexedTile, len(img.Tiles)),
	}

	for paletteIndex, tileIndices := range groups {
		pal := buildPalette(img.Tiles, tileIndices, background, opts.Builder)
		result.Palettes[paletteIndex] = pal

		used := pal.Used()
		for _, tileIndex := range tileIndices {
			result.Tiles[tileIndex] = IndexedTile{
				Palette: uint8(paletteIndex),
				Pattern: remapTile(&img.Tiles[tileIndex], used, opts.Metric),
			}
		}
	}

	return result, nil
}

// TiledImage returns the image as displayed by the console.
func (r *Result) TiledImage() *tile.Image {
	img := &tile.Image{
		WidthInTiles:  r.WidthInTiles,
		HeightInTiles: r.HeightInTiles,
		Tiles:         make([]tile.Tile, len(r.Tiles)),
	}

	for i, indexed := range r.Tiles {
		entries := r.Palettes[indexed.Palette].Entries()
		for y := range tile.Size {
			for x := range tile.Size {
				img.Tiles[i][y][x] = entries[indexed.Pattern[y][x]]
			}
		}
	}
	return img
}

// groupTiles clusters the tiles by the bounding box of their colors.
func groupTiles(tiles []tile.Tile, maxGroups int) [][]int {
	points := make([]cluster.Point, len(tiles))
	for i := range tiles {
		points[i] = colorBounds(&tiles[i])
	}

	result := cluster.KMeans(points, maxGroups, tileClusterIterations)
	return result.Clusters()
}

// colorBounds returns the minimum and maximum of each channel of the tile.
func colorBounds(t *tile.Tile) cluster.Point {
	minimum := t[0][0]
	maximum := minimum
	for y := range tile.Size {
		for x := range tile.Size {
			c := t[y][x]
			minimum = color.Color{R: min(minimum.R, c.R), G: min(minimum.G, c.G), B: min(minimum.B, c.B)}
			maximum = color.Color{R: max(maximum.R, c.R), G: max(maximum.G, c.G), B: max(maximum.B, c.B)}
		}
	}
	return cluster.Point{minimum.R, minimum.G, minimum.B, maximum.R, maximum.G, maximum.B}
}

func buildPalette(tiles []tile.Tile, tileIndices []int, background color.Color,
	builder palette.Builder) palette.Palette {

	backgroundVCE := background.VCE()
	var pixels []color.Color
	for _, tileIndex := range tileIndices {
		for _, c := range tiles[tileIndex].Colors() {
			if c.VCE() != backgroundVCE {
				pixels = append(pixels, c)
			}
		}
	}

	pal := palette.Palette{Background: background}
	seen := set.New[color.VCE]()
	seen.Add(backgroundVCE)

	for _, c := range builder(pixels, palette.MaxColors) {
		snapped := c.Snap()
		v := snapped.VCE()
		if seen.Contains(v) {
			continue
		}
		seen.Add(v)
		pal.Colors = append(pal.Colors, snapped)
	}
	return pal
}

func remapTile(t *tile.Tile, colors []color.Color, metric color.Metric) Pattern {
	var pattern Pattern
	for y := range tile.Size {
		for x := range tile.Size {
			pattern[y][x] = uint8(color.Nearest(t[y][x], colors, metric))
		}
	}
	return pattern
}

// dominantColor returns the most frequent color, ties are resolved by
// the first occurrence.
func dominantColor(tiles []tile.Tile) color.Color {
	counts := make(map[color.VCE]int)
	var best color.VCE
	bestCount := 0
	var first []color.VCE

	for i := range tiles {
		for _, c := range tiles[i].Colors() {
			v := c.VCE()
			if counts[v] == 0 {
				first = append(first, v)
			}
			counts[v]++
		}
	}
	for _, v := range first {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best.Color()
}
