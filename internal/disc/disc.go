// Package disc implements CD-ROM overlay storage. An overlay is a sector
// aligned partition of the disc that programs load data from by index.
package disc

import (
	"errors"
	"fmt"
)

// SectorSize is the size of a CD-ROM data sector in bytes.
const SectorSize = 2048

// Overlay indexes of the standard example disc layout.
const (
	OverlayBoot = iota
	OverlayProgram
	OverlayPalette
	OverlayVideoData
)

var (
	// ErrInvalidOverlay is returned for reads of overlays that do not exist.
	ErrInvalidOverlay = errors.New("invalid overlay")
	// ErrOutOfRange is returned for reads past the end of an overlay.
	ErrOutOfRange = errors.New("read exceeds overlay")
)

// Overlay is a sector aligned partition of the disc.
type Overlay struct {
	StartSector int
	Data        []byte
}

// Sectors returns the number of sectors occupied by the overlay, an empty
// overlay still occupies one sector.
func (o Overlay) Sectors() int {
	return max(1, (len(o.Data)+SectorSize-1)/SectorSize)
}

// Image is a disc holding overlays in order.
type Image struct {
	overlays []Overlay
}

// New returns a disc containing the given overlays.
func New(overlays ...[]byte) *Image {
	img := &Image{}
	for _, data := range overlays {
		img.Add(data)
	}
	return img
}

// NewExampleLayout returns a disc in the layout the example programs
// expect, with empty boot and program overlays.
func NewExampleLayout(palette, videoData []byte) *Image {
	return New(nil, nil, palette, videoData)
}

// Add appends an overlay and returns its index.
func (img *Image) Add(data []byte) int {
	start := tocSectors
	if n := len(img.overlays); n > 0 {
		last := img.overlays[n-1]
		start = last.StartSector + last.Sectors()
	}
	img.overlays = append(img.overlays, Overlay{
		StartSector: start,
		Data:        data,
	})
	return len(img.overlays) - 1
}

// Overlays returns the number of overlays.
func (img *Image) Overlays() int {
	return len(img.overlays)
}

// Overlay returns the overlay with the given index.
func (img *Image) Overlay(index int) (Overlay, error) {
	if index < 0 || index >= len(img.overlays) {
		return Overlay{}, fmt.Errorf("%w: %d", ErrInvalidOverlay, index)
	}
	return img.overlays[index], nil
}

// ReadBytes fills dst with overlay data starting at the given sector
// offset inside the overlay.
func (img *Image) ReadBytes(overlay, sectorOffset int, dst []byte) error {
	ovl, err := img.Overlay(overlay)
	if err != nil {
		return err
	}

	start := sectorOffset * SectorSize
	if sectorOffset < 0 || start+len(dst) > ovl.Sectors()*SectorSize {
		return fmt.Errorf("%w: overlay %d sector %d length %d",
			ErrOutOfRange, overlay, sectorOffset, len(dst))
	}

	n := 0
	if start < len(ovl.Data) {
		n = copy(dst, ovl.Data[start:])
	}
	// sector padding reads as zero
	clear(dst[n:])
	return nil
}

// ReadSectors returns count whole sectors starting at the given sector
// offset inside the overlay.
func (img *Image) ReadSectors(overlay, sectorOffset, count int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative sector count %d", ErrOutOfRange, count)
	}
	buf := make([]byte, count*SectorSize)
	if err := img.ReadBytes(overlay, sectorOffset, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// TotalSectors returns the size of the disc image in sectors, including
// the table of contents.
func (img *Image) TotalSectors() int {
	if len(img.overlays) == 0 {
		return tocSectors
	}
	last := img.overlays[len(img.overlays)-1]
	return last.StartSector + last.Sectors()
}
