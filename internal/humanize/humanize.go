// Package humanize formats byte counts for people.
package humanize

import "fmt"

// Bytes formats a byte count using binary prefixes.
func Bytes(bytes uint64) string {
	switch {
	case bytes > (1024 * 1024):
		return fmt.Sprintf("%.1f MiB", float64(bytes)/1024/1024)
	case bytes > 1024:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Sectors formats a sector count together with the bytes it covers.
func Sectors(sectors, sectorSize uint64) string {
	return fmt.Sprintf("%d sectors (%s)", sectors, Bytes(sectors*sectorSize))
}
