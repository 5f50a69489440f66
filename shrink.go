package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/disk"
	"github.com/imgtool/imgtool/loopback"
	"github.com/imgtool/imgtool/util"
)

func shrinkCmd() *cobra.Command {
	var (
		dryRun bool
		editor string
	)
	cmd := &cobra.Command{
		Use:   "shrink <image>",
		Short: "interactively shrink an image to its minimum size",
		Long: `Attach an image to a loopback device, launch an interactive partition
editor on it so partitions can be moved and resized, then truncate the
image file to the smallest size that still contains every partition.
GPT images keep room for the backup header past the last partition.

The image is modified in place. Take a copy first if you need one.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			if editor == "" {
				editor = defaultEditor()
			}
			if err := util.RequireRoot(); err != nil {
				return err
			}
			if err := util.CheckTools("losetup", editor); err != nil {
				return err
			}
			if err := util.Confirm(fmt.Sprintf("shrink %s in place", image), cmd.Long, unattended()); err != nil {
				return err
			}

			before, err := snapshotImage(image)
			if err != nil {
				return err
			}
			if before.SectorSize <= 0 {
				return fmt.Errorf("invalid sector size %d reported for %s", before.SectorSize, image)
			}

			dev, err := loopback.Attach(image)
			if err != nil {
				return err
			}
			if err := runEditor(editor, dev.Path); err != nil {
				if derr := dev.Detach(); derr != nil {
					log.Errorf("cleanup: %v", derr)
				}
				return err
			}
			if err := dev.Detach(); err != nil {
				return err
			}

			table, err := snapshotImage(image)
			if err != nil {
				return err
			}
			last := table.LastUsedSector()
			if last < 0 {
				return fmt.Errorf("no partitions found in %s after editing", image)
			}
			size, err := disk.MinimumSize(last, table.SectorSize)
			if err != nil {
				return err
			}
			size += table.TrailingReserve() * table.SectorSize
			if size <= 0 {
				return fmt.Errorf("computed image size %d is not positive", size)
			}
			log.Infof("%s: %s -> %s (%d bytes)", image,
				humanize.IBytes(uint64(before.ImageSize)), humanize.IBytes(uint64(size)), size)
			if dryRun {
				log.Infof("dry run, leaving %s untouched", image)
				return nil
			}
			if err := disk.Truncate(afero.NewOsFs(), image, size); err != nil {
				return err
			}
			log.Infof("truncated %s to %d bytes", image, size)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and report the minimum size without truncating")
	cmd.Flags().StringVar(&editor, "editor", "", "Partition editor to launch (default parted, or the configured editor)")
	return cmd
}

// runEditor launches the interactive partition editor on the loopback
// device with the terminal attached.
func runEditor(editor, device string) error {
	c := exec.Command(editor, device)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("partition editor %s failed on %s: %v", editor, device, err)
	}
	return nil
}
