package vram

import "encoding/binary"

const patternRows = 8

// Pattern is an encoded 8x8 character with 4 bits per pixel.
// Row y stores bitplane 0 at byte 2y, bitplane 1 at 2y+1, bitplane 2 at
// 2y+16 and bitplane 3 at 2y+17. The leftmost pixel is the most
// significant bit.
type Pattern [PatternSize]byte

// EncodePattern encodes color indexes, only the lower 4 bits of every
// index are used.
func EncodePattern(indexes [patternRows][patternRows]uint8) Pattern {
	var p Pattern
	for y := range patternRows {
		for x := range patternRows {
			c := indexes[y][x]
			bit := byte(0x80) >> x
			if c&1 != 0 {
				p[y*2] |= bit
			}
			if c&2 != 0 {
				p[y*2+1] |= bit
			}
			if c&4 != 0 {
				p[y*2+16] |= bit
			}
			if c&8 != 0 {
				p[y*2+17] |= bit
			}
		}
	}
	return p
}

// Indexes decodes the color index of every pixel.
func (p Pattern) Indexes() [patternRows][patternRows]uint8 {
	var indexes [patternRows][patternRows]uint8
	for y := range patternRows {
		for x := range patternRows {
			bit := byte(0x80) >> x
			var c uint8
			if p[y*2]&bit != 0 {
				c |= 1
			}
			if p[y*2+1]&bit != 0 {
				c |= 2
			}
			if p[y*2+16]&bit != 0 {
				c |= 4
			}
			if p[y*2+17]&bit != 0 {
				c |= 8
			}
			indexes[y][x] = c
		}
	}
	return indexes
}

// PatternFromWords builds a pattern from the 16 video memory words it
// occupies.
func PatternFromWords(words []uint16) Pattern {
	var p Pattern
	for i := 0; i < len(words) && i < PatternSize/2; i++ {
		binary.LittleEndian.PutUint16(p[i*2:], words[i])
	}
	return p
}
