package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/loopback"
	"github.com/imgtool/imgtool/util"
)

func fsckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fsck <image>",
		Short: "run filesystem checks on every partition of an image",
		Long: `Attach an image to a loopback device and run fsck against each exposed
partition device, then detach. Detected errors are fixed automatically
where fsck considers it safe; anything else fails the command.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", "fsck"); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("check the filesystems inside %s", image), cmd.Long, unattended()); err != nil {
				return err
			}
			dev, err := loopback.Attach(image)
			if err != nil {
				return err
			}
			defer func() {
				if err := dev.Detach(); err != nil {
					log.Errorf("cleanup: %v", err)
				}
			}()
			nodes, err := dev.PartitionPaths()
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				return fmt.Errorf("no partition devices exposed for %s", dev.Path)
			}
			for _, node := range nodes {
				log.Infof("checking %s", node)
				if err := runFsck(node); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

// runFsck checks one partition device. The fsck exit code is a bitmask:
// 0 means no errors, 1 means errors were corrected; everything else is a
// failure.
func runFsck(device string) error {
	c := exec.Command("fsck", "-f", "-p", device)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if err := fsckResult(code); err != nil {
				return errors.Wrapf(err, "fsck on %s", device)
			}
			return nil
		}
		return errors.Wrapf(err, "unable to run fsck on %s", device)
	}
	return nil
}

func fsckResult(code int) error {
	switch {
	case code == 0 || code == 1:
		return nil
	case code&2 != 0:
		return fmt.Errorf("errors corrected, reboot required (status %d)", code)
	case code&4 != 0:
		return fmt.Errorf("errors left uncorrected (status %d)", code)
	default:
		return fmt.Errorf("check failed with status %d", code)
	}
}
