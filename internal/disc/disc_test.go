package disc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func sequence(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	return buf
}

func TestAdd(t *testing.T) {
	img := New(nil, sequence(10), sequence(SectorSize*2+1))

	assert.Equal(t, 3, img.Overlays())
	ovl, err := img.Overlay(0)
	assert.NoError(t, err)
	assert.Equal(t, 1, ovl.StartSector)
	assert.Equal(t, 1, ovl.Sectors())

	ovl, err = img.Overlay(2)
	assert.NoError(t, err)
	assert.Equal(t, 3, ovl.StartSector)
	assert.Equal(t, 3, ovl.Sectors())
	assert.Equal(t, 6, img.TotalSectors())

	_, err = img.Overlay(3)
	assert.True(t, errors.Is(err, ErrInvalidOverlay))
}

func TestReadBytes(t *testing.T) {
	data := sequence(SectorSize + 100)
	img := New(data)

	tests := []struct {
		name         string
		overlay      int
		sectorOffset int
		length       int
		want         []byte
		err          error
	}{
		{name: "start", overlay: 0, sectorOffset: 0, length: 16, want: data[:16]},
		{name: "second sector", overlay: 0, sectorOffset: 1, length: 100, want: data[SectorSize:]},
		{name: "padding", overlay: 0, sectorOffset: 1, length: 104, want: append(bytes.Clone(data[SectorSize:]), 0, 0, 0, 0)},
		{name: "past end", overlay: 0, sectorOffset: 1, length: SectorSize + 1, err: ErrOutOfRange},
		{name: "negative offset", overlay: 0, sectorOffset: -1, length: 1, err: ErrOutOfRange},
		{name: "missing overlay", overlay: 1, length: 1, err: ErrInvalidOverlay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := bytes.Repeat([]byte{0xff}, tt.length)
			err := img.ReadBytes(tt.overlay, tt.sectorOffset, dst)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, dst)
		})
	}
}

func TestReadSectors(t *testing.T) {
	data := sequence(SectorSize * 3)
	img := NewExampleLayout(sequence(512), data)

	buf, err := img.ReadSectors(OverlayVideoData, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, data[SectorSize:], buf)

	_, err = img.ReadSectors(OverlayVideoData, 2, 2)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = img.ReadSectors(OverlayVideoData, 0, -1)
	assert.Error(t, err)
}

func TestWriteRead(t *testing.T) {
	img := NewExampleLayout(sequence(512), sequence(45056))

	var buf bytes.Buffer
	n, err := img.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(img.TotalSectors()*SectorSize), n)
	assert.Equal(t, (1+1+1+1+22)*SectorSize, buf.Len())

	read, err := Read(&buf)
	assert.NoError(t, err)
	assert.Equal(t, img.Overlays(), read.Overlays())

	for i := range img.Overlays() {
		want, err := img.Overlay(i)
		assert.NoError(t, err)
		got, err := read.Overlay(i)
		assert.NoError(t, err)
		assert.Equal(t, want.StartSector, got.StartSector)
		assert.Equal(t, len(want.Data), len(got.Data))
		assert.True(t, bytes.Equal(want.Data, got.Data))
	}
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, SectorSize)))
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = Read(bytes.NewReader([]byte("PCEOVL")))
	assert.Error(t, err)

	// table of contents promising data that is missing
	img := New(sequence(100))
	var buf bytes.Buffer
	_, err = img.WriteTo(&buf)
	assert.NoError(t, err)
	_, err = Read(bytes.NewReader(buf.Bytes()[:SectorSize+10]))
	assert.Error(t, err)
}
