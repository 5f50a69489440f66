package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/loopback"
	"github.com/imgtool/imgtool/util"
)

func losetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "losetup <image>",
		Short: "attach an image to a loopback device",
		Long: `Attach an image to a free loopback device and print the device path.
The kernel scans the image's partition table so each partition appears as
its own block device node. The device stays attached until released with
'losetup -d' or 'imgtool umount'.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup"); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("attach %s to a loopback device", image), cmd.Long, unattended()); err != nil {
				return err
			}
			dev, err := loopback.Attach(image)
			if err != nil {
				return err
			}
			fmt.Println(dev.Path)
			return nil
		},
	}
	return cmd
}
