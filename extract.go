package gofat12

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aligator/gofat12/checkpoint"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// These errors may occur while extracting files from an image.
var (
	ErrCorruptChain = errors.New("corrupt cluster chain")
	ErrInvalidName  = errors.New("invalid file name")
)

// ReadRoot returns the regular file entries of the root directory in their
// on-disk order. Deleted entries, volume labels and subdirectories are
// skipped, the scan ends at the first never used entry.
func ReadRoot(img *Image) []Entry {
	var entries []Entry
	for i := 0; i < RootDirSectors; i++ {
		sector := img.Sector(RootDirStart + i)
		for offset := 0; offset < SectorSize; offset += DirEntrySize {
			switch sector[offset] {
			case entryFree:
				return entries
			case entryDeleted:
				continue
			}

			h := parseEntryHeader(sector[offset:])
			if h.IsVolumeID() || h.IsDir() {
				continue
			}
			entries = append(entries, Entry{
				EntryHeader: h,
				Filename:    decodeShortName(h.Name),
			})
		}
	}
	return entries
}

// dataClusters returns the number of data clusters the image provides.
func dataClusters(img *Image) int {
	clusters := (img.NumSectors() - DataStart) / SectorsPerCluster
	if clusters < 0 {
		return 0
	}
	if clusters > MaxClusters {
		return MaxClusters
	}
	return clusters
}

// ReadFile follows the cluster chain of entry and returns exactly
// entry.FileSize bytes.
//
// The walk stops as soon as the recorded size is read or an end of chain
// marker is found. A chain that loops, links to a cluster which is free,
// reserved, bad or outside of the image, or ends before the recorded size
// is reached results in ErrCorruptChain.
func ReadFile(img *Image, entry Entry) ([]byte, error) {
	size := int64(entry.FileSize)
	return readChain(img, entry.Filename, entry.StartCluster(), size, 0, size)
}

// hasData reports whether entry holds data in a chain starting at a usable
// cluster. Entries with data but without such a start are not files.
func hasData(entry Entry) bool {
	cluster := entry.StartCluster()
	return entry.FileSize > 0 && cluster >= int(firstCluster) && cluster < 0xFF0
}

// readChain returns up to length bytes starting at offset of a file of size
// bytes whose chain begins at start. Only the clusters up to the end of the
// requested range are visited.
func readChain(img *Image, name string, start int, size, offset, length int64) ([]byte, error) {
	if offset+length > size {
		length = size - offset
	}
	if length <= 0 {
		return []byte{}, nil
	}

	lastCluster := int(firstCluster) + dataClusters(img) - 1
	if lastCluster > maxFATCluster {
		lastCluster = maxFATCluster
	}
	cluster := start
	if cluster < int(firstCluster) || cluster >= 0xFF0 {
		return nil, checkpoint.Wrap(ErrCorruptChain, fmt.Errorf("%s: invalid start cluster %d", name, cluster))
	}

	end := offset + length
	data := make([]byte, 0, length)
	visited := make(map[int]bool)
	// pos is the file offset of the current cluster.
	for pos := int64(0); ; pos += clusterSize {
		if cluster > lastCluster {
			return nil, checkpoint.Wrap(ErrCorruptChain, fmt.Errorf("%s: cluster %d outside of the image", name, cluster))
		}
		if visited[cluster] {
			return nil, checkpoint.Wrap(ErrCorruptChain, fmt.Errorf("%s: cluster %d is linked twice", name, cluster))
		}
		visited[cluster] = true

		if pos+clusterSize > offset {
			from, to := offset-pos, end-pos
			if from < 0 {
				from = 0
			}
			if to > clusterSize {
				to = clusterSize
			}
			sector := img.sector(DataStart + cluster - int(firstCluster))
			data = append(data, sector[from:to]...)
		}
		if pos+clusterSize >= end {
			return data, nil
		}

		next := readFATEntry(img, cluster)
		switch {
		case next.IsEOF():
			return nil, checkpoint.Wrap(ErrCorruptChain, fmt.Errorf("%s: chain ends %d bytes early", name, size-pos-clusterSize))
		case !next.IsNextCluster():
			return nil, checkpoint.Wrap(ErrCorruptChain, fmt.Errorf("%s: cluster %d links to %#03x", name, cluster, next.Value()))
		}
		cluster = int(next.Value())
	}
}

// Extractor writes the files of an image to a host filesystem.
type Extractor struct {
	fs   afero.Fs
	opts options
}

// NewExtractor returns an Extractor writing to fs.
func NewExtractor(fs afero.Fs, opts ...Option) *Extractor {
	return &Extractor{
		fs:   fs,
		opts: newOptions(opts),
	}
}

// Extract writes one file per root directory entry into outDir, which is
// created if needed. Only failing to create outDir aborts. Errors of single
// files are logged, the remaining files are still extracted, and all of
// them are returned combined. Entries claiming data without a valid start
// cluster are not files and are skipped.
func (x *Extractor) Extract(img *Image, outDir string) error {
	if err := x.fs.MkdirAll(outDir, 0o755); err != nil {
		return checkpoint.From(err)
	}

	var errs error
	for _, entry := range ReadRoot(img) {
		if entry.FileSize > 0 && !hasData(entry) {
			x.opts.logger.Debug("skipping entry without a valid start cluster",
				zap.String("name", entry.Filename),
				zap.Int("cluster", entry.StartCluster()))
			continue
		}
		if err := x.extractFile(img, entry, outDir); err != nil {
			x.opts.logger.Error("could not extract file",
				zap.String("name", entry.Filename),
				zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (x *Extractor) extractFile(img *Image, entry Entry, outDir string) error {
	if err := validateName(entry.Filename); err != nil {
		return err
	}

	data, err := ReadFile(img, entry)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, entry.Filename)
	if err := afero.WriteFile(x.fs, path, data, 0o644); err != nil {
		return checkpoint.From(err)
	}

	if modTime := entry.ModTime(x.opts.location); !modTime.IsZero() {
		if err := x.fs.Chtimes(path, modTime, modTime); err != nil {
			x.opts.logger.Warn("could not set modification time",
				zap.String("path", path),
				zap.Error(err))
		}
	}

	x.opts.logger.Debug("extracted file",
		zap.String("path", path),
		zap.Int("size", len(data)))
	return nil
}

// validateName rejects names which would escape the output directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) ||
		strings.ContainsRune(name, 0) {
		return checkpoint.Wrap(ErrInvalidName, fmt.Errorf("%q", name))
	}
	return nil
}
