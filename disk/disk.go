// Package disk computes partition geometry for raw disk images.
//
// A Table is a point-in-time snapshot of an image's partition table, read
// through go-diskfs rather than scraped from external tool output. It is
// recomputed on every invocation and never persisted; the image file itself
// is the only durable state this package touches, and the only mutation it
// performs is Truncate.
package disk

import (
	"fmt"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
)

// gptReserveSectors is the space the backup GPT header and partition entry
// array occupy at the end of a disk: 1 sector for the header plus 32 sectors
// for 128 entries of 128 bytes at 512 bytes per sector.
const gptReserveSectors = 33

// Partition is one row of a partition table snapshot. Start and End are
// absolute sector numbers, zero-based, End inclusive. Size is in bytes.
type Partition struct {
	Index    int    `json:"index"`
	Start    uint64 `json:"start"`
	End      uint64 `json:"end"`
	Sectors  uint64 `json:"sectors"`
	Size     uint64 `json:"size"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Bootable bool   `json:"bootable,omitempty"`
}

// Table is a snapshot of an image's partition table.
type Table struct {
	Label      string      `json:"label"`
	SectorSize int64       `json:"sectorSize"`
	ImageSize  int64       `json:"imageSize"`
	Partitions []Partition `json:"partitions"`
}

// Snapshot reads the partition table of the image at path. The image is
// opened read-only and closed before returning.
func Snapshot(path string) (*Table, error) {
	d, err := diskfs.OpenWithMode(path, diskfs.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open image %s: %v", path, err)
	}
	defer d.File.Close()
	pt, err := d.GetPartitionTable()
	if err != nil {
		return nil, fmt.Errorf("unable to read partition table from %s: %v", path, err)
	}
	return fromPartitionTable(pt, d.Size)
}

// fromPartitionTable converts a concrete go-diskfs table into a snapshot.
// Unused entry slots are dropped; Index keeps the slot number so it matches
// the partition device suffix the kernel assigns (loop0p2, sda2).
func fromPartitionTable(pt partition.Table, imageSize int64) (*Table, error) {
	switch t := pt.(type) {
	case *gpt.Table:
		table := &Table{
			Label:      t.Type(),
			SectorSize: int64(t.LogicalSectorSize),
			ImageSize:  imageSize,
		}
		for i, p := range t.Partitions {
			if p == nil || p.Type == gpt.Unused {
				continue
			}
			table.Partitions = append(table.Partitions, Partition{
				Index:   i + 1,
				Start:   p.Start,
				End:     p.End,
				Sectors: p.End - p.Start + 1,
				Size:    p.Size,
				Type:    string(p.Type),
				Name:    p.Name,
			})
		}
		return table, nil
	case *mbr.Table:
		table := &Table{
			Label:      t.Type(),
			SectorSize: int64(t.LogicalSectorSize),
			ImageSize:  imageSize,
		}
		for i, p := range t.Partitions {
			if p == nil || p.Type == mbr.Empty {
				continue
			}
			table.Partitions = append(table.Partitions, Partition{
				Index:    i + 1,
				Start:    uint64(p.Start),
				End:      uint64(p.Start) + uint64(p.Size) - 1,
				Sectors:  uint64(p.Size),
				Size:     uint64(p.Size) * uint64(t.LogicalSectorSize),
				Type:     fmt.Sprintf("%02x", byte(p.Type)),
				Bootable: p.Bootable,
			})
		}
		return table, nil
	default:
		return nil, fmt.Errorf("unsupported partition table type %q", pt.Type())
	}
}

// LastUsedSector returns the highest end sector across all entries, or -1
// when the table has no partitions.
func (t *Table) LastUsedSector() int64 {
	last := int64(-1)
	for _, p := range t.Partitions {
		if int64(p.End) > last {
			last = int64(p.End)
		}
	}
	return last
}

// TrailingReserve returns the number of sectors past the last partition
// that must survive a shrink. GPT keeps its backup header and partition
// array at the very end of the disk; MBR reserves nothing.
func (t *Table) TrailingReserve() int64 {
	if t.Label == "gpt" {
		return gptReserveSectors
	}
	return 0
}
