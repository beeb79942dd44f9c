// File model contains the structs which match the direct structures of the
// FAT12 floppy image and the fixed geometry of a 1.44 MB 3.5" disk.

package gofat12

// Fixed geometry of the 1.44 MB floppy layout.
const (
	SectorSize        = 512
	SectorsPerCluster = 1
	ReservedSectors   = 1
	NumFATs           = 2
	SectorsPerFAT     = 9
	RootEntryCount    = 224
	DirEntrySize      = 32
	SectorsPerTrack   = 18
	NumberOfHeads     = 2

	// MediaDescriptor marks a 3.5" high density floppy.
	MediaDescriptor = 0xF0

	// RootDirSectors is the size of the root directory region.
	RootDirSectors = RootEntryCount * DirEntrySize / SectorSize

	// Capacity is the formatted capacity the host files may occupy in total.
	Capacity = 1440 * 1024

	// MaxClusters is the number of usable clusters a FAT12 can address.
	MaxClusters = 0xFF4
)

// Start sectors of the on-disk regions.
const (
	FAT1Start     = ReservedSectors
	FAT2Start     = FAT1Start + SectorsPerFAT
	RootDirStart  = ReservedSectors + NumFATs*SectorsPerFAT
	DataStart     = RootDirStart + RootDirSectors
	clusterSize   = SectorSize * SectorsPerCluster
	entriesPerSec = SectorSize / DirEntrySize
)

// Attributes of a directory entry.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Markers found in the first name byte of a directory entry.
const (
	entryFree    = 0x00
	entryDeleted = 0xE5
	// entryKanji replaces a leading 0xE5 which is a valid character.
	entryKanji = 0x05
)

// BPB is the boot sector up to the boot signature. It is exactly one sector.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
	BootCode            [420]byte
	Signature           [2]byte
}

// EntryHeader is a 32 byte short name directory entry.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// Entry is a parsed root directory entry together with its decoded 8.3 name.
type Entry struct {
	EntryHeader
	Filename string
}
