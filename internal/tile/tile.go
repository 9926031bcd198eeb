// Package tile splits images into 8x8 pixel tiles and joins them back.
package tile

import (
	"errors"
	"fmt"

	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/pceimg/internal/imageio"
)

// Size is the width and height of a tile in pixels.
const Size = 8

// ErrDimensions is returned for images that can not be split into whole tiles.
var ErrDimensions = errors.New("image dimensions are not a multiple of the tile size")

// Tile is a block of 8x8 pixels, indexed by row and then column.
type Tile [Size][Size]color.Color

// Image is an image split into tiles, stored row by row.
type Image struct {
	WidthInTiles  int
	HeightInTiles int
	Tiles         []Tile
}

// Colors returns all pixels of the tile.
func (t *Tile) Colors() []color.Color {
	colors := make([]color.Color, 0, Size*Size)
	for y := range Size {
		colors = append(colors, t[y][:]...)
	}
	return colors
}

// FromImage splits the image into tiles.
func FromImage(img *imageio.Image) (*Image, error) {
	if img.Width <= 0 || img.Height <= 0 || img.Width%Size != 0 || img.Height%Size != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, img.Width, img.Height)
	}

	tiled := &Image{
		WidthInTiles:  img.Width / Size,
		HeightInTiles: img.Height / Size,
	}
	tiled.Tiles = make([]Tile, tiled.WidthInTiles*tiled.HeightInTiles)

	for y := range img.Height {
		row := (y / Size) * tiled.WidthInTiles
		for x := range img.Width {
			tiled.Tiles[row+x/Size][y%Size][x%Size] = img.At(x, y)
		}
	}
	return tiled, nil
}

// ToImage joins the tiles back into an image.
func (t *Image) ToImage() *imageio.Image {
	width := t.WidthInTiles * Size
	height := t.HeightInTiles * Size
	img := imageio.New(width, height)

	for y := range height {
		row := (y / Size) * t.WidthInTiles
		for x := range width {
			index := row + x/Size
			if index >= len(t.Tiles) {
				img.Set(x, y, color.Magenta)
				continue
			}
			img.Set(x, y, t.Tiles[index][y%Size][x%Size])
		}
	}
	return img
}
