package disk

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/afero"
)

// MinimumSize returns the smallest image size in bytes that still contains
// every sector up to and including lastSector: (lastSector+1) * sectorSize.
// Sector numbering is zero-based with the end sector inclusive.
func MinimumSize(lastSector, sectorSize int64) (int64, error) {
	if lastSector < 0 {
		return 0, fmt.Errorf("last sector must be non-negative, got %d", lastSector)
	}
	if sectorSize <= 0 {
		return 0, fmt.Errorf("sector size must be positive, got %d", sectorSize)
	}
	if lastSector == math.MaxInt64 {
		return 0, fmt.Errorf("sector count overflows: last sector %d", lastSector)
	}
	sectors := lastSector + 1
	if sectors > math.MaxInt64/sectorSize {
		return 0, fmt.Errorf("image size overflows: %d sectors of %d bytes", sectors, sectorSize)
	}
	return sectors * sectorSize, nil
}

// Truncate sets the image file at path to an exact byte length. This is the
// only mutation of the image this tool ever performs.
func Truncate(fs afero.Fs, path string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("refusing to truncate %s to non-positive size %d", path, size)
	}
	f, err := fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("unable to open image %s for truncation: %v", path, err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("unable to truncate %s to %d bytes: %v", path, size, err)
	}
	return nil
}
