package gofat12

import (
	"io"

	"github.com/aligator/gofat12/checkpoint"
)

// Image is a raw disk image held in memory as a flat array of 512 byte
// sectors. Access outside of the image never fails: reads return a zero
// filled sector and writes are ignored.
type Image struct {
	data []byte
}

// NewImage allocates a zero filled image of the given number of sectors.
func NewImage(sectors int) *Image {
	if sectors < 0 {
		sectors = 0
	}
	return &Image{data: make([]byte, sectors*SectorSize)}
}

// ReadImage loads a complete image from r. A trailing partial sector is
// padded with zeros.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	if rest := len(data) % SectorSize; rest != 0 {
		data = append(data, make([]byte, SectorSize-rest)...)
	}
	return &Image{data: data}, nil
}

// NumSectors returns the number of sectors of the image.
func (img *Image) NumSectors() int {
	return len(img.data) / SectorSize
}

// Size returns the size of the image in bytes.
func (img *Image) Size() int64 {
	return int64(len(img.data))
}

func (img *Image) inRange(n int) bool {
	return n >= 0 && n < img.NumSectors()
}

// Sector returns a copy of sector n.
func (img *Image) Sector(n int) []byte {
	sector := make([]byte, SectorSize)
	if img.inRange(n) {
		copy(sector, img.data[n*SectorSize:])
	}
	return sector
}

// SetSector overwrites sector n with b. Shorter input leaves the rest of the
// sector zeroed, longer input is cut at the sector size.
func (img *Image) SetSector(n int, b []byte) {
	if !img.inRange(n) {
		return
	}
	sector := img.sector(n)
	copied := copy(sector, b)
	for i := copied; i < len(sector); i++ {
		sector[i] = 0
	}
}

// sector returns the backing slice of sector n. n must be in range.
func (img *Image) sector(n int) []byte {
	return img.data[n*SectorSize : (n+1)*SectorSize]
}

// ReadAt implements io.ReaderAt over the raw image bytes.
func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, checkpoint.Wrapf(ErrSeekFile, "negative offset %d", off)
	}
	if off >= int64(len(img.data)) {
		return 0, io.EOF
	}
	n := copy(p, img.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo writes the raw image to w.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(img.data)
	return int64(n), checkpoint.From(err)
}
