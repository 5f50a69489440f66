package disk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fallback parsing of fdisk-style listing text, for images whose label
// go-diskfs cannot read but fdisk can. The format is
//
//	Device     Boot Start     End Sectors  Size Id Type
//	image.img1 *     2048 1050623 1048576 512M  c W95 FAT32 (LBA)
//
// with the end sector in the third column, shifted one right when the boot
// flag is present.

var sectorSizeRe = regexp.MustCompile(`Units\s*[:=]\s*sectors of \d+ \* \d+ = (\d+) bytes`)

// ScanLastSector scans listing text for partition rows and returns the
// highest end sector found, or -1 when no row qualifies. Rows whose end
// field is not a plain non-negative integer (headers, warnings, free-space
// notes) are skipped rather than treated as errors.
func ScanLastSector(listing string) int64 {
	last := int64(-1)
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		idx := 2
		if len(fields) > 1 && fields[1] == "*" {
			idx = 3
		}
		if len(fields) <= idx {
			continue
		}
		end, err := strconv.ParseInt(fields[idx], 10, 64)
		if err != nil || end < 0 {
			continue
		}
		if end > last {
			last = end
		}
	}
	return last
}

// FromListing builds a coarse snapshot from fdisk-style listing text. Only
// geometry is recovered; type and name information is not. Rows that do not
// parse as partitions are skipped.
func FromListing(listing string) (*Table, error) {
	sectorSize, err := ParseSectorSize(listing)
	if err != nil {
		return nil, err
	}
	table := &Table{Label: "unknown", SectorSize: sectorSize}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		idx := 1
		boot := false
		if len(fields) > 1 && fields[1] == "*" {
			idx = 2
			boot = true
		}
		if len(fields) <= idx+2 {
			continue
		}
		start, err1 := strconv.ParseUint(fields[idx], 10, 64)
		end, err2 := strconv.ParseUint(fields[idx+1], 10, 64)
		sectors, err3 := strconv.ParseUint(fields[idx+2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || end < start {
			continue
		}
		table.Partitions = append(table.Partitions, Partition{
			Index:    len(table.Partitions) + 1,
			Start:    start,
			End:      end,
			Sectors:  sectors,
			Size:     sectors * uint64(sectorSize),
			Bootable: boot,
		})
	}
	return table, nil
}

// ParseSectorSize extracts the sector size in bytes from the "Units ... =
// N bytes" declaration in listing text. When the declaration appears more
// than once the last occurrence wins.
func ParseSectorSize(listing string) (int64, error) {
	matches := sectorSizeRe.FindAllStringSubmatch(listing, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no sector size declaration found in listing")
	}
	raw := matches[len(matches)-1][1]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid sector size %q in listing", raw)
	}
	return n, nil
}
