// Package loopback manages the association between a raw image file and a
// loopback block device by invoking the `losetup` command.
//
// The attached device is an explicit Device handle threaded through every
// subsequent call; nothing in this package assumes a fixed /dev/loopN slot.
package loopback

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/siderolabs/go-cmd/pkg/cmd"
)

// Device is a handle to an attached loopback device.
type Device struct {
	Path string
}

// Attach associates image with a free loopback device, scanning its
// partition table so the kernel exposes per-partition device nodes.
func Attach(image string) (Device, error) {
	out, err := cmd.Run("losetup", "--find", "--partscan", "--show", image)
	if err != nil {
		return Device{}, fmt.Errorf("failed to attach %s to a loopback device: %w", image, err)
	}
	return Device{Path: strings.TrimSpace(out)}, nil
}

// Detach releases the loopback device.
func (d Device) Detach() error {
	if _, err := cmd.Run("losetup", "-d", d.Path); err != nil {
		return fmt.Errorf("failed to detach loopback device %s: %w", d.Path, err)
	}
	return nil
}

// losetupList mirrors the JSON output of `losetup -J`.
type losetupList struct {
	LoopDevices []struct {
		Name     string `json:"name"`
		BackFile string `json:"back-file"`
	} `json:"loopdevices"`
}

// FindByImage looks up the loopback device currently backed by image.
// The second return value is false when the image has no association.
func FindByImage(image string) (Device, bool, error) {
	abs, err := filepath.Abs(image)
	if err != nil {
		return Device{}, false, fmt.Errorf("unable to resolve image path %s: %v", image, err)
	}
	out, err := cmd.Run("losetup", "-J")
	if err != nil {
		return Device{}, false, fmt.Errorf("failed to list loopback devices: %w", err)
	}
	return findInList([]byte(out), abs)
}

func findInList(data []byte, image string) (Device, bool, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Device{}, false, nil
	}
	var list losetupList
	if err := json.Unmarshal(data, &list); err != nil {
		return Device{}, false, fmt.Errorf("unable to parse losetup listing: %v", err)
	}
	for _, ld := range list.LoopDevices {
		// losetup appends " (deleted)" for unlinked back files
		back := strings.TrimSuffix(strings.TrimSpace(ld.BackFile), " (deleted)")
		if back == image {
			return Device{Path: ld.Name}, true, nil
		}
	}
	return Device{}, false, nil
}

// PartitionPath returns the device node for partition n. Devices whose name
// ends in a digit get a "p" infix (loop0p3, nvme0n1p3); the rest take a
// bare number suffix (sda3).
func (d Device) PartitionPath(n int) string {
	if d.Path == "" {
		return ""
	}
	last := d.Path[len(d.Path)-1]
	if last >= '0' && last <= '9' {
		return fmt.Sprintf("%sp%d", d.Path, n)
	}
	return fmt.Sprintf("%s%d", d.Path, n)
}

// PartitionPaths returns every partition device node the kernel currently
// exposes for this device, sorted.
func (d Device) PartitionPaths() ([]string, error) {
	if d.Path == "" {
		return nil, fmt.Errorf("no loopback device attached")
	}
	pattern := d.Path + "[0-9]*"
	last := d.Path[len(d.Path)-1]
	if last >= '0' && last <= '9' {
		pattern = d.Path + "p[0-9]*"
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("unable to list partition devices for %s: %v", d.Path, err)
	}
	sort.Strings(paths)
	return paths, nil
}
