package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imgtool/imgtool/util"
)

// exactArgs is cobra.ExactArgs with the usage exit code, so argument-count
// mistakes exit 2 like every other bad-input failure.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return util.Usagef("%q requires exactly %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// requireImage verifies the image file exists before any device is touched.
func requireImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return util.Usagef("image file %s not found", path)
	}
	if info.IsDir() {
		return util.Usagef("image path %s is a directory", path)
	}
	return nil
}

// parsePartition parses a 1-based partition number argument.
func parsePartition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, util.Usagef("invalid partition number %q", arg)
	}
	return n, nil
}
