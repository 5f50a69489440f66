package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/compare"
	"github.com/imgtool/imgtool/loopback"
	mountpkg "github.com/imgtool/imgtool/mount"
	"github.com/imgtool/imgtool/util"
)

func compareFsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare-fs <image> <partition> <dst>",
		Short: "compare an image partition against a directory tree",
		Long: `Mount one partition of an image at a temporary mount point and compare
its contents against a destination with a dry-run, checksum-based rsync
pass. The destination may be a local directory or a remote rsync target
like host:/path. Nothing is copied or deleted.`,
		Args: exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			part, err := parsePartition(args[1])
			if err != nil {
				return err
			}
			dst := args[2]
			rsync := defaultRsync()
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", "mount", "umount", rsync); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("mount partition %d of %s and compare it against %s", part, image, dst), cmd.Long, unattended()); err != nil {
				return err
			}
			changed, err := withMountedPartition(image, part, func(dir string) ([]string, error) {
				return compare.Trees(rsync, dir, dst)
			})
			if err != nil {
				return err
			}
			reportChanges(changed)
			return nil
		},
	}
	return cmd
}

func compareImgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare-img <src-image> <src-partition> <dst-image> <dst-partition>",
		Short: "compare a partition of one image against a partition of another",
		Long: `Mount one partition from each of two images at temporary mount points and
compare their contents with a dry-run, checksum-based rsync pass. Nothing
is copied or deleted; both images are left exactly as found.`,
		Args: exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcImage := args[0]
			if err := requireImage(srcImage); err != nil {
				return err
			}
			srcPart, err := parsePartition(args[1])
			if err != nil {
				return err
			}
			dstImage := args[2]
			if err := requireImage(dstImage); err != nil {
				return err
			}
			dstPart, err := parsePartition(args[3])
			if err != nil {
				return err
			}
			rsync := defaultRsync()
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", "mount", "umount", rsync); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("mount partition %d of %s and partition %d of %s and compare them", srcPart, srcImage, dstPart, dstImage), cmd.Long, unattended()); err != nil {
				return err
			}
			changed, err := withMountedPartition(dstImage, dstPart, func(dstDir string) ([]string, error) {
				return withMountedPartition(srcImage, srcPart, func(srcDir string) ([]string, error) {
					return compare.Trees(rsync, srcDir, dstDir)
				})
			})
			if err != nil {
				return err
			}
			reportChanges(changed)
			return nil
		},
	}
	return cmd
}

// withMountedPartition attaches image, mounts partition part at a temporary
// mount point, runs fn, and tears the whole chain down again on every exit
// path. Cleanup failures are logged, never returned, so they cannot mask
// fn's error.
func withMountedPartition(image string, part int, fn func(dir string) ([]string, error)) ([]string, error) {
	dir, err := mountpkg.TempDir(Config.MountBase, "imgtool-cmp-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := mountpkg.Remove(dir); err != nil {
			log.Errorf("cleanup: %v", err)
		}
	}()
	dev, err := loopback.Attach(image)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dev.Detach(); err != nil {
			log.Errorf("cleanup: %v", err)
		}
	}()
	if err := mountpkg.Mount(dev.PartitionPath(part), dir); err != nil {
		return nil, err
	}
	defer func() {
		if err := mountpkg.Unmount(dir); err != nil {
			log.Errorf("cleanup: %v", err)
		}
	}()
	return fn(dir)
}

func reportChanges(changed []string) {
	if len(changed) == 0 {
		log.Infof("trees are identical")
		return
	}
	for _, line := range changed {
		fmt.Println(line)
	}
	log.Infof("%d entries differ", len(changed))
}
