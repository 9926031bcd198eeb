package palette

import (
	"github.com/retroenv/pceimg/internal/color"
	"github.com/retroenv/retrogolib/set"
)

// distribution is a set of pixels with the number of unique colors in it.
type distribution struct {
	pixels []color.Color
	unique int
}

func newDistribution(pixels []color.Color) distribution {
	seen := set.New[color.RGB8]()
	unique := 0
	for _, c := range pixels {
		c8 := c.RGB8()
		if seen.Contains(c8) {
			continue
		}
		seen.Add(c8)
		unique++
	}
	return distribution{pixels: pixels, unique: unique}
}

// MedianCut builds a palette by repeatedly splitting the leaf with the
// most pixels along its widest channel at the channel average.
// Splitting stops when maxColors leaves exist, no leaf has more than one
// unique color or a split produces an empty half.
func MedianCut(pixels []color.Color, maxColors int) []color.Color {
	if len(pixels) == 0 || maxColors <= 0 {
		return nil
	}

	leaves := []distribution{newDistribution(pixels)}
	for len(leaves) < maxColors {
		index := largestSplittable(leaves)
		if index < 0 {
			break
		}

		greaterEqual, less := split(leaves[index])
		if len(greaterEqual.pixels) == 0 || len(less.pixels) == 0 {
			break
		}
		leaves[index] = greaterEqual
		leaves = append(leaves, less)
	}

	colors := make([]color.Color, len(leaves))
	for i, leaf := range leaves {
		colors[i] = color.Average(leaf.pixels)
	}
	return colors
}

func largestSplittable(leaves []distribution) int {
	index := -1
	for i, leaf := range leaves {
		if leaf.unique <= 1 {
			continue
		}
		if index < 0 || len(leaf.pixels) > len(leaves[index].pixels) {
			index = i
		}
	}
	return index
}

func split(leaf distribution) (distribution, distribution) {
	channel := widestChannel(leaf.pixels)
	average := color.Average(leaf.pixels).Component(channel)

	var greaterEqual, less []color.Color
	for _, c := range leaf.pixels {
		if c.Component(channel) >= average {
			greaterEqual = append(greaterEqual, c)
		} else {
			less = append(less, c)
		}
	}
	return newDistribution(greaterEqual), newDistribution(less)
}

// widestChannel returns the channel with the largest value range, red wins
// over green and green over blue on ties.
func widestChannel(pixels []color.Color) int {
	minimum := [3]float64{1, 1, 1}
	maximum := [3]float64{}
	for _, c := range pixels {
		for ch := range 3 {
			v := c.Component(ch)
			minimum[ch] = min(minimum[ch], v)
			maximum[ch] = max(maximum[ch], v)
		}
	}

	widest := 0
	for ch := 1; ch < 3; ch++ {
		if maximum[ch]-minimum[ch] > maximum[widest]-minimum[widest] {
			widest = ch
		}
	}
	return widest
}
