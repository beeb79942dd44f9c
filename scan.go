package gofat12

import (
	"path/filepath"
	"time"

	"github.com/aligator/gofat12/checkpoint"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// HostFile is a regular file selected for the image.
type HostFile struct {
	// Path is the location of the file on the host filesystem.
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// ScanHostFiles lists the regular files of dir which fit into an image of
// the configured layout.
//
// Files are taken in the order afero.ReadDir returns them, which is sorted
// by name. The first file that would push the total size above Capacity,
// need more clusters than the layout provides or find the root directory
// full is left out together with every file after it. Skipped files are
// only logged.
func ScanHostFiles(fs afero.Fs, dir string, opts ...Option) ([]HostFile, error) {
	return scanHostFiles(fs, dir, newOptions(opts))
}

func scanHostFiles(fs afero.Fs, dir string, o options) ([]HostFile, error) {
	logger := o.logger
	budget := o.layout.clusterBudget()

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	var (
		files     []HostFile
		totalSize int64
		clusters  int
		cut       = -1
	)
	for i, info := range infos {
		if !info.Mode().IsRegular() {
			logger.Debug("skipping non regular file", zap.String("name", info.Name()))
			continue
		}

		if totalSize+info.Size() > Capacity ||
			clusters+fullClusters(info.Size()) > budget ||
			len(files) == RootEntryCount {
			cut = i
			break
		}
		totalSize += info.Size()
		clusters += fullClusters(info.Size())

		files = append(files, HostFile{
			Path:    filepath.Join(dir, info.Name()),
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	if cut >= 0 {
		for _, info := range infos[cut:] {
			if info.Mode().IsRegular() {
				logger.Warn("file does not fit into the image",
					zap.String("name", info.Name()),
					zap.Int64("size", info.Size()))
			}
		}
	}

	return files, nil
}
