package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func partitionsCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "partitions <image>",
		Short: "print the partition table of an image",
		Long: `Print the partition table of a raw disk image.
The image is opened read-only; no loopback device is attached.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if err := requireImage(image); err != nil {
				return err
			}
			table, err := snapshotImage(image)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			fmt.Printf("%s: %s label, %d-byte sectors, %s\n", image, table.Label,
				table.SectorSize, humanize.IBytes(uint64(table.ImageSize)))
			w := tabwriter.NewWriter(os.Stdout, 2, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tSTART\tEND\tSECTORS\tSIZE\tTYPE\tNAME")
			for _, p := range table.Partitions {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
					p.Index, p.Start, p.End, p.Sectors, humanize.IBytes(p.Size), p.Type, p.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the partition table as JSON")
	return cmd
}
