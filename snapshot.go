package main

import (
	"github.com/siderolabs/go-cmd/pkg/cmd"
	log "github.com/sirupsen/logrus"

	"github.com/imgtool/imgtool/disk"
)

// snapshotImage reads the partition table through go-diskfs, falling back to
// parsing `fdisk --list` output for labels go-diskfs does not understand.
func snapshotImage(image string) (*disk.Table, error) {
	table, err := disk.Snapshot(image)
	if err == nil {
		return table, nil
	}
	log.Debugf("structured partition table read of %s failed, trying fdisk: %v", image, err)
	out, ferr := cmd.Run("fdisk", "--list", image)
	if ferr != nil {
		// the structured error names the real problem
		return nil, err
	}
	table, serr := disk.FromListing(out)
	if serr != nil {
		return nil, err
	}
	return table, nil
}
