package gofat12

import (
	"os"
	"time"
)

// FileInfo returns the entry as os.FileInfo with timestamps read in loc.
func (e *Entry) FileInfo(loc *time.Location) os.FileInfo {
	return entryFileInfo{entry: *e, loc: loc}
}

type entryFileInfo struct {
	entry Entry
	loc   *time.Location
}

func (e entryFileInfo) Name() string {
	return e.entry.Filename
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0o555
	}
	return 0o444
}

func (e entryFileInfo) ModTime() time.Time {
	return e.entry.ModTime(e.loc)
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry.EntryHeader
}

// rootFileInfo describes the root directory, which has no entry of its own.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "." }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir | 0o555 }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }
