package gofat12

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// invalidShortNameChars may not appear in a short name. They are replaced
// by '_'.
const invalidShortNameChars = `."*+,/:;<=>?[\]|`

// shortName maps a host file name to a space padded, uppercase 8.3 name.
// The name is split at the last dot unless the dot is the first character.
// Longer parts are truncated.
func shortName(name string) (base [8]byte, ext [3]byte) {
	upper := strings.ToUpper(name)
	basePart, extPart := upper, ""
	if dot := strings.LastIndex(upper, "."); dot > 0 {
		basePart, extPart = upper[:dot], upper[dot+1:]
	}

	fillShortName(base[:], basePart)
	fillShortName(ext[:], extPart)

	if base[0] == entryDeleted {
		base[0] = entryKanji
	}
	return base, ext
}

// fillShortName encodes s into dst using code page 437 and pads with spaces.
func fillShortName(dst []byte, s string) {
	for i := range dst {
		dst[i] = ' '
	}
	i := 0
	for _, r := range s {
		if i == len(dst) {
			return
		}
		dst[i] = encodeShortNameRune(r)
		i++
	}
}

func encodeShortNameRune(r rune) byte {
	if r < 0x20 || strings.ContainsRune(invalidShortNameChars, r) {
		return '_'
	}
	b, ok := charmap.CodePage437.EncodeRune(r)
	if !ok {
		return '_'
	}
	return b
}

// decodeShortName converts the raw 11 byte name back into "BASE.EXT" or
// "BASE" if the extension is empty.
func decodeShortName(raw [11]byte) string {
	name := raw
	if name[0] == entryKanji {
		name[0] = entryDeleted
	}

	base := strings.TrimRight(decodeCP437(name[:8]), " ")
	ext := strings.TrimRight(decodeCP437(name[8:11]), " ")
	if ext != "" {
		return base + "." + ext
	}
	return base
}

func decodeCP437(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(charmap.CodePage437.DecodeByte(c))
	}
	return sb.String()
}

// newEntryHeader creates the root directory entry of a regular file. All
// three timestamps are derived from modTime converted to loc.
func newEntryHeader(name string, modTime time.Time, loc *time.Location, startCluster uint16, size uint32) EntryHeader {
	base, ext := shortName(name)
	date, tm := PackTimestamp(modTime, loc)

	h := EntryHeader{
		Attribute:      AttrArchive,
		CreateTime:     tm,
		CreateDate:     date,
		LastAccessDate: date,
		WriteTime:      tm,
		WriteDate:      date,
		FirstClusterLO: startCluster,
		FileSize:       size,
	}
	copy(h.Name[:8], base[:])
	copy(h.Name[8:], ext[:])
	return h
}

// marshal packs the entry into its 32 byte on-disk form.
func (h *EntryHeader) marshal() []byte {
	var buf bytes.Buffer
	// Writing a fixed size struct into a bytes.Buffer never fails.
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

// parseEntryHeader reads a directory entry from the first 32 bytes of b.
func parseEntryHeader(b []byte) EntryHeader {
	h := EntryHeader{}
	_ = binary.Read(bytes.NewReader(b[:DirEntrySize]), binary.LittleEndian, &h)
	return h
}

// StartCluster returns the first cluster of the file. FAT12 only uses the
// low word.
func (h *EntryHeader) StartCluster() int {
	return int(h.FirstClusterLO)
}

// ModTime returns the last write time interpreted in loc.
func (h *EntryHeader) ModTime(loc *time.Location) time.Time {
	return ParseTimestamp(h.WriteDate, h.WriteTime, loc)
}

// IsDir reports the subdirectory attribute.
func (h *EntryHeader) IsDir() bool {
	return h.Attribute&AttrDirectory == AttrDirectory
}

// IsVolumeID reports the volume label attribute, which also covers long
// file name entries.
func (h *EntryHeader) IsVolumeID() bool {
	return h.Attribute&AttrVolumeID == AttrVolumeID
}
