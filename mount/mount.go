// Package mount wraps the mount and umount commands and answers questions
// about the mount table from /proc/self/mounts.
package mount

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siderolabs/go-cmd/pkg/cmd"
)

const procMounts = "/proc/self/mounts"

// Mount mounts the block device dev at dir.
func Mount(dev, dir string) error {
	if _, err := cmd.Run("mount", dev, dir); err != nil {
		return fmt.Errorf("failed to mount %s at %s: %w", dev, dir, err)
	}
	return nil
}

// Unmount unmounts whatever is mounted at target, which may be a mount
// point directory or a device path.
func Unmount(target string) error {
	if _, err := cmd.Run("umount", target); err != nil {
		return fmt.Errorf("failed to unmount %s: %w", target, err)
	}
	return nil
}

// ValidateDir checks that dir exists and is a directory, before any device
// is attached or mounted.
func ValidateDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("mount point %s does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("mount point %s is not a directory", dir)
	}
	return nil
}

// TempDir creates a temporary mount point under base, or under the system
// temporary directory when base is empty.
func TempDir(base, prefix string) (string, error) {
	dir, err := os.MkdirTemp(base, prefix)
	if err != nil {
		return "", fmt.Errorf("unable to create temporary mount point: %v", err)
	}
	return dir, nil
}

// Remove deletes an unmounted temporary mount point.
func Remove(dir string) error {
	if err := os.Remove(dir); err != nil {
		return fmt.Errorf("unable to remove mount point %s: %v", dir, err)
	}
	return nil
}

// TargetOf returns the directory where dev is currently mounted. The second
// return value is false when dev is not in the mount table.
func TargetOf(dev string) (string, bool, error) {
	f, err := os.Open(procMounts)
	if err != nil {
		return "", false, fmt.Errorf("unable to read mount table: %v", err)
	}
	defer f.Close()
	return targetIn(f, dev)
}

func targetIn(r io.Reader, dev string) (string, bool, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[0] == dev {
			return fields[1], true, nil
		}
	}
	return "", false, s.Err()
}

// AnyMounted reports whether any device whose path starts with prefix is
// still mounted. Used to decide when the loopback device can be detached.
func AnyMounted(prefix string) (bool, error) {
	f, err := os.Open(procMounts)
	if err != nil {
		return false, fmt.Errorf("unable to read mount table: %v", err)
	}
	defer f.Close()
	return anyMountedIn(f, prefix)
}

func anyMountedIn(r io.Reader, prefix string) (bool, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 1 {
			continue
		}
		if strings.HasPrefix(fields[0], prefix) {
			return true, nil
		}
	}
	return false, s.Err()
}
