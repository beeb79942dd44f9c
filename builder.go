package gofat12

import (
	"fmt"
	"io"

	"github.com/aligator/gofat12/checkpoint"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Builder synthesizes FAT12 floppy images from files of a host filesystem.
type Builder struct {
	fs   afero.Fs
	opts options
}

// NewBuilder returns a Builder reading host files from fs.
func NewBuilder(fs afero.Fs, opts ...Option) *Builder {
	return &Builder{
		fs:   fs,
		opts: newOptions(opts),
	}
}

// allocation ties a host file to its contiguous run of clusters.
type allocation struct {
	file     HostFile
	start    int
	clusters int
}

// buildContext is owned by a single Build call and threaded through all
// stages. Only the final image leaves it.
type buildContext struct {
	opts        options
	fs          afero.Fs
	files       []HostFile
	geometry    geometry
	img         *Image
	fat         fatTable
	allocations []allocation
}

type buildStage func(ctx *buildContext) error

// Build scans dir and creates an image from the regular files that fit.
// Failing to list dir is the only fatal host error. Files which cannot be
// read are logged and keep whatever data was copied before the failure.
func (b *Builder) Build(dir string) (*Image, error) {
	files, err := scanHostFiles(b.fs, dir, b.opts)
	if err != nil {
		return nil, err
	}
	return b.BuildFiles(files)
}

// BuildFiles creates an image from an explicit list of host files, in the
// given order.
func (b *Builder) BuildFiles(files []HostFile) (*Image, error) {
	if len(files) > RootEntryCount {
		return nil, checkpoint.Wrap(ErrImageTooLarge, fmt.Errorf("%d files exceed the %d root directory entries", len(files), RootEntryCount))
	}

	ctx := &buildContext{
		opts:  b.opts,
		fs:    b.fs,
		files: files,
		fat:   newFATTable(),
	}

	for _, stage := range []buildStage{
		calculateLayout,
		writeBootSector,
		writeFAT,
		writeRootDirectory,
		writeFileData,
		mirrorFAT,
	} {
		if err := stage(ctx); err != nil {
			return nil, err
		}
	}

	ctx.opts.logger.Info("image built",
		zap.Stringer("layout", ctx.opts.layout),
		zap.Int("files", len(ctx.allocations)),
		zap.Int("clusters", ctx.geometry.clusters),
		zap.Int("sectors", ctx.geometry.totalSectors))
	return ctx.img, nil
}

func calculateLayout(ctx *buildContext) error {
	sizes := make([]int64, len(ctx.files))
	for i, f := range ctx.files {
		sizes[i] = f.Size
	}

	g, err := computeGeometry(ctx.opts.layout, sizes)
	if err != nil {
		return err
	}
	ctx.geometry = g
	ctx.img = NewImage(g.totalSectors)
	return nil
}

func writeBootSector(ctx *buildContext) error {
	data, err := newBPB(uint16(ctx.geometry.totalSectors)).Marshal()
	if err != nil {
		return err
	}
	ctx.img.SetSector(0, data)
	return nil
}

// writeFAT allocates contiguous clusters for every file starting at cluster
// 2 and stores the table in the sectors of the first FAT.
func writeFAT(ctx *buildContext) error {
	ctx.fat.set(0, 0xF00|MediaDescriptor)
	ctx.fat.set(1, endOfChain)

	cluster := int(firstCluster)
	for _, f := range ctx.files {
		a := allocation{file: f, clusters: fullClusters(f.Size)}
		if a.clusters > 0 {
			a.start = cluster
		}
		for i := 0; i < a.clusters; i++ {
			next := fatEntry(cluster + 1)
			if i == a.clusters-1 {
				next = endOfChain
			}
			ctx.fat.set(cluster, next)
			cluster++
		}
		ctx.allocations = append(ctx.allocations, a)
	}

	for i := 0; i < SectorsPerFAT; i++ {
		ctx.img.SetSector(FAT1Start+i, ctx.fat[i*SectorSize:(i+1)*SectorSize])
	}
	return nil
}

func writeRootDirectory(ctx *buildContext) error {
	seen := make(map[[11]byte]string)
	root := make([]byte, RootDirSectors*SectorSize)
	for i, a := range ctx.allocations {
		h := newEntryHeader(a.file.Name, a.file.ModTime, ctx.opts.location, uint16(a.start), uint32(a.file.Size))
		if other, ok := seen[h.Name]; ok {
			ctx.opts.logger.Warn("short name collision",
				zap.String("name", a.file.Name),
				zap.String("other", other),
				zap.String("short", decodeShortName(h.Name)))
		}
		seen[h.Name] = a.file.Name
		copy(root[i*DirEntrySize:], h.marshal())
	}

	for i := 0; i < RootDirSectors; i++ {
		ctx.img.SetSector(RootDirStart+i, root[i*SectorSize:(i+1)*SectorSize])
	}
	return nil
}

// writeFileData copies each file sector by sector into its clusters.
// Host errors are logged and do not stop the build.
func writeFileData(ctx *buildContext) error {
	buf := make([]byte, clusterSize)
	for _, a := range ctx.allocations {
		if a.clusters == 0 {
			continue
		}
		if err := copyFileData(ctx, a, buf); err != nil {
			ctx.opts.logger.Error("could not copy file data",
				zap.String("path", a.file.Path),
				zap.Error(err))
		}
	}
	return nil
}

func copyFileData(ctx *buildContext, a allocation, buf []byte) error {
	f, err := ctx.fs.Open(a.file.Path)
	if err != nil {
		return checkpoint.Wrap(err, ErrReadFile)
	}
	defer f.Close()

	sector := DataStart + a.start - int(firstCluster)
	for i := 0; i < a.clusters; i++ {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			ctx.img.SetSector(sector+i, buf[:n])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return checkpoint.Wrap(err, ErrReadFile)
		}
	}

	// The file grew after it was scanned, the rest is not part of the image.
	if n, _ := f.Read(buf[:1]); n > 0 {
		ctx.opts.logger.Warn("file grew after scanning, data truncated",
			zap.String("path", a.file.Path),
			zap.Int64("size", a.file.Size))
	}
	return nil
}

func mirrorFAT(ctx *buildContext) error {
	for i := 0; i < SectorsPerFAT; i++ {
		ctx.img.SetSector(FAT2Start+i, ctx.img.Sector(FAT1Start+i))
	}
	return nil
}
