package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgtool/imgtool/util"
)

func TestParsePartition(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    int
		wantErr bool
	}{
		{"first partition", "1", 1, false},
		{"higher partition", "12", 12, false},
		{"zero is invalid", "0", 0, true},
		{"negative is invalid", "-1", 0, true},
		{"non-numeric is invalid", "two", 0, true},
		{"empty is invalid", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePartition(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, util.IsUsage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireImage(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "disk.img")
	require.NoError(t, os.WriteFile(image, make([]byte, 512), 0644))

	assert.NoError(t, requireImage(image))

	err := requireImage(filepath.Join(dir, "missing.img"))
	require.Error(t, err)
	assert.True(t, util.IsUsage(err))

	err = requireImage(dir)
	require.Error(t, err)
	assert.True(t, util.IsUsage(err))
}

func TestExactArgs(t *testing.T) {
	check := exactArgs(2)
	cmd := &cobra.Command{Use: "mount"}

	assert.NoError(t, check(cmd, []string{"disk.img", "1"}))

	err := check(cmd, []string{"disk.img"})
	require.Error(t, err)
	assert.True(t, util.IsUsage(err))

	err = check(cmd, []string{"disk.img", "1", "extra"})
	require.Error(t, err)
	assert.True(t, util.IsUsage(err))
}
