package disc

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	tocSectors     = 1
	tocHeaderSize  = 8
	tocEntrySize   = 12
	maxTOCOverlays = (SectorSize - tocHeaderSize) / tocEntrySize
)

var magic = [6]byte{'P', 'C', 'E', 'O', 'V', 'L'}

// ErrInvalidImage is returned when reading a file that is not a disc image.
var ErrInvalidImage = errors.New("invalid disc image")

// WriteTo writes the disc image: a table of contents sector followed by
// all overlays, each padded to whole sectors.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	if len(img.overlays) > maxTOCOverlays {
		return 0, fmt.Errorf("%d overlays exceed the table of contents limit of %d",
			len(img.overlays), maxTOCOverlays)
	}

	bw := bufio.NewWriter(w)
	var written int64

	toc := make([]byte, SectorSize)
	copy(toc, magic[:])
	binary.LittleEndian.PutUint16(toc[6:], uint16(len(img.overlays)))
	for i, ovl := range img.overlays {
		entry := toc[tocHeaderSize+i*tocEntrySize:]
		binary.LittleEndian.PutUint32(entry[0:], uint32(ovl.StartSector))
		binary.LittleEndian.PutUint32(entry[4:], uint32(ovl.Sectors()))
		binary.LittleEndian.PutUint32(entry[8:], uint32(len(ovl.Data)))
	}
	n, err := bw.Write(toc)
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("writing table of contents: %w", err)
	}

	for i, ovl := range img.overlays {
		padded := make([]byte, ovl.Sectors()*SectorSize)
		copy(padded, ovl.Data)
		n, err := bw.Write(padded)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("writing overlay %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flushing disc image: %w", err)
	}
	return written, nil
}

// Read parses a disc image written by WriteTo.
func Read(r io.Reader) (*Image, error) {
	toc := make([]byte, SectorSize)
	if _, err := io.ReadFull(r, toc); err != nil {
		return nil, fmt.Errorf("reading table of contents: %w", err)
	}
	if [6]byte(toc[:6]) != magic {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidImage)
	}

	count := int(binary.LittleEndian.Uint16(toc[6:]))
	if count > maxTOCOverlays {
		return nil, fmt.Errorf("%w: overlay count %d", ErrInvalidImage, count)
	}

	img := &Image{}
	position := tocSectors
	for i := range count {
		entry := toc[tocHeaderSize+i*tocEntrySize:]
		start := int(binary.LittleEndian.Uint32(entry[0:]))
		sectors := int(binary.LittleEndian.Uint32(entry[4:]))
		length := int(binary.LittleEndian.Uint32(entry[8:]))

		if start != position || length > sectors*SectorSize || sectors != max(1, (length+SectorSize-1)/SectorSize) {
			return nil, fmt.Errorf("%w: overlay %d has inconsistent layout", ErrInvalidImage, i)
		}

		buf := make([]byte, sectors*SectorSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading overlay %d: %w", i, err)
		}

		img.overlays = append(img.overlays, Overlay{
			StartSector: start,
			Data:        buf[:length],
		})
		position += sectors
	}
	return img, nil
}
