package gofat12

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aligator/gofat12/checkpoint"
)

// ErrImageTooLarge is returned if the files do not fit into a FAT12 floppy
// image, either because the total sector count exceeds the 16 bit BPB field
// or the clusters exceed the FAT12 address space.
var ErrImageTooLarge = errors.New("image too large")

var errUnknownLayout = errors.New("unknown layout")

// Layout decides how large the data region of a built image is.
type Layout int

const (
	// TightPack sizes the data region to exactly the clusters the files need.
	// An image without files consists of the system area only (33 sectors).
	TightPack Layout = iota
	// FixedCapacity always allocates the full formatted capacity as data
	// region, independent of the size of the files.
	FixedCapacity
)

// fixedDataSectors is the data region of a FixedCapacity image.
const fixedDataSectors = Capacity / SectorSize

func (l Layout) String() string {
	switch l {
	case TightPack:
		return "tight"
	case FixedCapacity:
		return "fixed"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Set implements pflag.Value.
func (l *Layout) Set(s string) error {
	switch strings.ToLower(s) {
	case "tight", "tightpack":
		*l = TightPack
	case "fixed", "fixedcapacity":
		*l = FixedCapacity
	default:
		return fmt.Errorf("unknown layout %q (tight|fixed)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (l *Layout) Type() string {
	return "layout"
}

// clusterBudget returns how many data clusters the files of an image with
// layout l may use in total.
func (l Layout) clusterBudget() int {
	if l == FixedCapacity {
		return fixedDataSectors / SectorsPerCluster
	}
	return maxFATCluster - int(firstCluster) + 1
}

// geometry is the result of the layout calculation.
type geometry struct {
	clusters     int
	dataSectors  int
	totalSectors int
}

// fullClusters returns the number of clusters needed for size bytes.
func fullClusters(size int64) int {
	clusters := size / clusterSize
	if size%clusterSize > 0 {
		clusters++
	}
	return int(clusters)
}

// computeGeometry calculates the image size for files of the given sizes.
func computeGeometry(layout Layout, sizes []int64) (geometry, error) {
	var g geometry
	for _, size := range sizes {
		g.clusters += fullClusters(size)
	}

	switch layout {
	case TightPack:
		g.dataSectors = g.clusters * SectorsPerCluster
	case FixedCapacity:
		g.dataSectors = fixedDataSectors
		if g.clusters*SectorsPerCluster > g.dataSectors {
			return geometry{}, checkpoint.Wrap(ErrImageTooLarge, fmt.Errorf("%d clusters do not fit into the fixed data region of %d sectors", g.clusters, g.dataSectors))
		}
	default:
		return geometry{}, checkpoint.Wrapf(errUnknownLayout, "%v", layout)
	}

	if g.clusters > MaxClusters {
		return geometry{}, checkpoint.Wrap(ErrImageTooLarge, fmt.Errorf("%d clusters exceed the FAT12 limit of %d", g.clusters, MaxClusters))
	}
	if g.clusters > maxFATCluster-int(firstCluster)+1 {
		return geometry{}, checkpoint.Wrap(ErrImageTooLarge, fmt.Errorf("%d clusters do not fit into a FAT of %d sectors", g.clusters, SectorsPerFAT))
	}

	g.totalSectors = ReservedSectors + NumFATs*SectorsPerFAT + RootDirSectors + g.dataSectors
	if g.totalSectors > math.MaxUint16 {
		return geometry{}, checkpoint.Wrap(ErrImageTooLarge, fmt.Errorf("%d sectors do not fit into the 16 bit sector count", g.totalSectors))
	}
	return g, nil
}
