package gofat12

// fatEntry is a single 12 bit value of the file allocation table.
type fatEntry uint16

const (
	fatEntryMask fatEntry = 0xFFF
	// firstCluster is the first cluster of the data region. Entries 0 and 1
	// are reserved.
	firstCluster fatEntry = 2
	// endOfChain is written for the last cluster of each file.
	endOfChain fatEntry = 0xFFF
)

// Value returns the entry masked to its 12 bits.
func (e fatEntry) Value() uint16 {
	return uint16(e & fatEntryMask)
}

// IsFree reports an unused cluster.
func (e fatEntry) IsFree() bool {
	return e.Value() == 0x000
}

// IsReserved reports the range 0xFF0 - 0xFF6 and the value 0x001, which must
// never be used as a link.
func (e fatEntry) IsReserved() bool {
	v := e.Value()
	return v == 0x001 || (v >= 0xFF0 && v <= 0xFF6)
}

// IsBad reports a cluster marked as bad.
func (e fatEntry) IsBad() bool {
	return e.Value() == 0xFF7
}

// IsEOF reports an end of chain marker.
func (e fatEntry) IsEOF() bool {
	return e.Value() >= 0xFF8
}

// IsNextCluster reports if the entry links to another data cluster.
func (e fatEntry) IsNextCluster() bool {
	v := e.Value()
	return v >= uint16(firstCluster) && v < 0xFF0
}

// fatTable is one copy of the FAT as raw bytes.
type fatTable []byte

func newFATTable() fatTable {
	return make(fatTable, SectorsPerFAT*SectorSize)
}

// set packs value into the 12 bit slot of cluster. Even clusters use the low
// 12 bits of the 1.5 bytes at cluster*3/2, odd clusters the high 12 bits.
func (t fatTable) set(cluster int, value fatEntry) {
	offset := cluster * 3 / 2
	v := value.Value()
	if cluster&1 == 0 {
		t[offset] = byte(v)
		t[offset+1] = t[offset+1]&0xF0 | byte(v>>8)&0x0F
	} else {
		t[offset] = t[offset]&0x0F | byte(v<<4)&0xF0
		t[offset+1] = byte(v >> 4)
	}
}

// get unpacks the 12 bit value of cluster.
func (t fatTable) get(cluster int) fatEntry {
	offset := cluster * 3 / 2
	return decodeFATEntry(cluster, t[offset], t[offset+1])
}

func decodeFATEntry(cluster int, b1, b2 byte) fatEntry {
	var v uint16
	if cluster&1 == 0 {
		v = uint16(b1) | uint16(b2&0x0F)<<8
	} else {
		v = uint16(b1&0xF0)>>4 | uint16(b2)<<4
	}
	return fatEntry(v) & fatEntryMask
}

// maxFATCluster is the highest cluster whose entry fits into one FAT copy.
const maxFATCluster = SectorsPerFAT*SectorSize*2/3 - 1

// readFATEntry decodes the entry of cluster directly from the sectors of the
// first FAT. The two bytes of an entry may straddle a sector boundary.
func readFATEntry(img *Image, cluster int) fatEntry {
	offset := cluster * 3 / 2
	sectorIndex := FAT1Start + offset/SectorSize
	inSector := offset % SectorSize

	b1 := img.Sector(sectorIndex)[inSector]
	b2 := img.Sector(sectorIndex + (inSector+1)/SectorSize)[(inSector+1)%SectorSize]
	return decodeFATEntry(cluster, b1, b2)
}
