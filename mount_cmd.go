package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/loopback"
	mountpkg "github.com/imgtool/imgtool/mount"
	"github.com/imgtool/imgtool/util"
)

func mountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image> <partition> <dir>",
		Short: "attach an image and mount one of its partitions",
		Long: `Attach an image to a loopback device and mount the given partition
(numbered from 1) at an existing directory. Undo with 'imgtool umount'.`,
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
			dir := args[2]
			if err := mountpkg.ValidateDir(dir); err != nil {
				return util.Usagef("%v", err)
			}
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", "mount"); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("attach %s and mount partition %d at %s", image, part, dir), cmd.Long, unattended()); err != nil {
				return err
			}
			dev, err := loopback.Attach(image)
			if err != nil {
				return err
			}
			node := dev.PartitionPath(part)
			if err := mountpkg.Mount(node, dir); err != nil {
				if derr := dev.Detach(); derr != nil {
					log.Errorf("cleanup: %v", derr)
				}
				return err
			}
			log.Infof("%s mounted at %s (loopback device %s)", node, dir, dev.Path)
			return nil
		},
	}
	return cmd
}

func umountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "umount <image> <partition>",
		Short: "unmount an image partition and release its loopback device",
		Long: `Unmount the given partition of an image mounted with 'imgtool mount'.
The loopback device is detached once no partition of the image remains
mounted. Fails when the image has no loopback association.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			part, err := parsePartition(args[1])
			if err != nil {
				return err
			}
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", "umount"); err != nil {
				return err
			}
			dev, ok, err := loopback.FindByImage(image)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no loopback device is associated with %s", image)
			}
			node := dev.PartitionPath(part)
			target, mounted, err := mountpkg.TargetOf(node)
			if err != nil {
				return err
			}
			if mounted {
				if err := mountpkg.Unmount(target); err != nil {
					return err
				}
				log.Infof("unmounted %s from %s", node, target)
			} else {
				log.Infof("%s is not mounted", node)
			}
			busy, err := mountpkg.AnyMounted(dev.Path)
			if err != nil {
				return err
			}
			if busy {
				log.Infof("other partitions of %s are still mounted, keeping %s attached", image, dev.Path)
				return nil
			}
			if err := dev.Detach(); err != nil {
				return err
			}
			log.Infof("detached %s", dev.Path)
			return nil
		},
	}
	return cmd
}
