package gofat12

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aligator/gofat12/checkpoint"
	"github.com/go-restruct/restruct"
)

// ErrInvalidBootSector is returned if sector 0 does not describe the fixed
// 1.44 MB FAT12 floppy layout.
var ErrInvalidBootSector = errors.New("invalid boot sector")

var (
	jumpBoot      = [3]byte{0xEB, 0x3C, 0x90}
	oemName       = [8]byte{'M', 'S', 'D', 'O', 'S', '5', '.', '0'}
	bootSignature = [2]byte{0x55, 0xAA}
)

// newBPB returns the boot sector of an image with totalSectors sectors.
func newBPB(totalSectors uint16) BPB {
	return BPB{
		BSJumpBoot:          jumpBoot,
		BSOEMName:           oemName,
		BytesPerSector:      SectorSize,
		SectorsPerCluster:   SectorsPerCluster,
		ReservedSectorCount: ReservedSectors,
		NumFATs:             NumFATs,
		RootEntryCount:      RootEntryCount,
		TotalSectors16:      totalSectors,
		Media:               MediaDescriptor,
		FATSize16:           SectorsPerFAT,
		SectorsPerTrack:     SectorsPerTrack,
		NumberOfHeads:       NumberOfHeads,
		Signature:           bootSignature,
	}
}

// Marshal packs the boot sector into exactly one sector.
func (b BPB) Marshal() ([]byte, error) {
	data, err := restruct.Pack(binary.LittleEndian, &b)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return data, nil
}

// ParseBootSector reads the BPB from sector and checks that it describes
// the supported floppy layout.
func ParseBootSector(sector []byte) (*BPB, error) {
	if len(sector) < SectorSize {
		return nil, checkpoint.Wrap(ErrInvalidBootSector, fmt.Errorf("boot sector has only %d bytes", len(sector)))
	}

	bpb := BPB{}
	if err := restruct.Unpack(sector[:SectorSize], binary.LittleEndian, &bpb); err != nil {
		return nil, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	if err := bpb.validate(); err != nil {
		return nil, checkpoint.Wrap(ErrInvalidBootSector, err)
	}
	return &bpb, nil
}

func (b *BPB) validate() error {
	// Check for valid jump instructions.
	if !(b.BSJumpBoot[0] == 0xEB && b.BSJumpBoot[2] == 0x90) && b.BSJumpBoot[0] != 0xE9 {
		return fmt.Errorf("no valid jump instructions at the beginning")
	}
	if b.Signature != bootSignature {
		return fmt.Errorf("invalid boot signature %#x", b.Signature)
	}

	for _, field := range []struct {
		name      string
		got, want int
	}{
		{"bytes per sector", int(b.BytesPerSector), SectorSize},
		{"sectors per cluster", int(b.SectorsPerCluster), SectorsPerCluster},
		{"reserved sectors", int(b.ReservedSectorCount), ReservedSectors},
		{"number of FATs", int(b.NumFATs), NumFATs},
		{"root entries", int(b.RootEntryCount), RootEntryCount},
		{"sectors per FAT", int(b.FATSize16), SectorsPerFAT},
	} {
		if field.got != field.want {
			return fmt.Errorf("unsupported %s: %d, want %d", field.name, field.got, field.want)
		}
	}

	if b.TotalSectors16 < DataStart {
		return fmt.Errorf("total sectors %d smaller than the system area", b.TotalSectors16)
	}
	return nil
}

// TotalSectors returns the sector count recorded in the boot sector.
func (b *BPB) TotalSectors() int {
	if b.TotalSectors16 != 0 {
		return int(b.TotalSectors16)
	}
	return int(b.TotalSectors32)
}
