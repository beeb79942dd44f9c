package gofat12

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Fs gives read-only access to the root directory of a FAT12 image.
// It implements afero.Fs, every modifying operation fails with ErrReadOnly.
type Fs struct {
	img  *Image
	bpb  *BPB
	opts options
}

var _ afero.Fs = (*Fs)(nil)

// New opens img after checking its boot sector.
func New(img *Image, opts ...Option) (*Fs, error) {
	bpb, err := ParseBootSector(img.Sector(0))
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	if bpb.TotalSectors() > img.NumSectors() {
		o.logger.Warn("image is shorter than its boot sector claims",
			zap.Int("sectors", bpb.TotalSectors()),
			zap.Int("available", img.NumSectors()))
	}

	return &Fs{
		img:  img,
		bpb:  bpb,
		opts: o,
	}, nil
}

// NewFromReader loads a whole image from r and opens it.
func NewFromReader(r io.Reader, opts ...Option) (*Fs, error) {
	img, err := ReadImage(r)
	if err != nil {
		return nil, err
	}
	return New(img, opts...)
}

// Image returns the underlying image.
func (fs *Fs) Image() *Image {
	return fs.img
}

// OEMName returns the OEM name stored in the boot sector.
func (fs *Fs) OEMName() string {
	return strings.TrimRight(string(fs.bpb.BSOEMName[:]), " ")
}

func (fs *Fs) readRoot() ([]Entry, error) {
	return ReadRoot(fs.img), nil
}

func (fs *Fs) readFileAt(cluster fatEntry, fileSize int64, offset int64, readSize int64) ([]byte, error) {
	if offset >= fileSize {
		return nil, io.EOF
	}

	data, err := readChain(fs.img, fmt.Sprintf("file at cluster %d", cluster), int(cluster), fileSize, offset, readSize)
	if err != nil {
		return nil, err
	}
	if offset+readSize > fileSize {
		return data, io.EOF
	}
	return data, nil
}

// cleanPath turns name into the name of a root directory entry.
// The root itself is returned as "".
func cleanPath(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	return strings.TrimPrefix(name, "/")
}

func (fs *Fs) Open(name string) (afero.File, error) {
	cleaned := cleanPath(name)
	if cleaned == "" {
		return &File{
			fs:          fs,
			path:        name,
			isDirectory: true,
			loc:         fs.opts.location,
			stat:        rootFileInfo{},
		}, nil
	}

	for _, entry := range ReadRoot(fs.img) {
		if !strings.EqualFold(entry.Filename, cleaned) {
			continue
		}
		return &File{
			fs:           fs,
			path:         name,
			loc:          fs.opts.location,
			firstCluster: fatEntry(entry.StartCluster()),
			stat:         entry.FileInfo(fs.opts.location),
		}, nil
	}

	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

// OpenFile opens name for reading. Any flag asking for write access fails.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: readOnly()}
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

func (fs *Fs) Name() string {
	return "gofat12"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: readOnly()}
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: readOnly()}
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: readOnly()}
}

func (fs *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: readOnly()}
}

func (fs *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "removeall", Path: path, Err: readOnly()}
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: readOnly()}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: readOnly()}
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: readOnly()}
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: readOnly()}
}
