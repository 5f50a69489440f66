package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fdiskListing = `Disk image.img: 10 MiB, 10485760 bytes, 20480 sectors
Units: sectors of 1 * 512 = 512 bytes
Sector size (logical/physical): 512 bytes / 512 bytes
Disklabel type: dos
Disk identifier: 0x1b2c3d4e

Device      Boot Start   End Sectors  Size Id Type
image.img1  *     2048  4095    2048    1M  c W95 FAT32 (LBA)
image.img2        4096 12287    8192    4M 83 Linux
`

func TestScanLastSector(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    int64
	}{
		{
			"picks the maximum across rows regardless of order",
			"img1 10 100 91\nimg2 1024 2048 1025\nimg3 400 500 101\n",
			2048,
		},
		{
			"non-numeric rows are skipped",
			"Device Boot Start End Sectors\nWARNING: dos label\nimg1 10 100 91\n\nimg2 1024 2048 1025\nfree space - - -\nimg3 400 500 101\n",
			2048,
		},
		{
			"boot flag shifts the end field",
			"img1 * 2048 4095 2048\nimg2 4096 6143 2048\n",
			6143,
		},
		{
			"no numeric rows returns the sentinel",
			"Device Boot Start End Sectors\nno partitions here\n",
			-1,
		},
		{
			"empty input returns the sentinel",
			"",
			-1,
		},
		{
			"fdisk output",
			fdiskListing,
			12287,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanLastSector(tt.listing))
		})
	}
}

func TestParseSectorSize(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    int64
		wantErr bool
	}{
		{
			"classic units line",
			"Units = sectors of 1 * 512 = 512 bytes\n",
			512, false,
		},
		{
			"modern fdisk units line",
			fdiskListing,
			512, false,
		},
		{
			"4096-byte sectors",
			"Units: sectors of 1 * 4096 = 4096 bytes\n",
			4096, false,
		},
		{
			"last declaration wins",
			"Units = sectors of 1 * 512 = 512 bytes\nUnits = sectors of 1 * 4096 = 4096 bytes\n",
			4096, false,
		},
		{
			"missing declaration is an error",
			"Disk image.img: 10 MiB\n",
			0, true,
		},
		{
			"empty input is an error",
			"",
			0, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSectorSize(tt.listing)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromListing(t *testing.T) {
	table, err := FromListing(fdiskListing)
	require.NoError(t, err)
	assert.Equal(t, int64(512), table.SectorSize)
	require.Len(t, table.Partitions, 2)

	assert.Equal(t, uint64(2048), table.Partitions[0].Start)
	assert.Equal(t, uint64(4095), table.Partitions[0].End)
	assert.True(t, table.Partitions[0].Bootable)
	assert.Equal(t, uint64(2048*512), table.Partitions[0].Size)

	assert.Equal(t, uint64(4096), table.Partitions[1].Start)
	assert.Equal(t, uint64(12287), table.Partitions[1].End)
	assert.False(t, table.Partitions[1].Bootable)

	assert.Equal(t, int64(12287), table.LastUsedSector())
}

func TestFromListingNoSectorSize(t *testing.T) {
	_, err := FromListing("Device Boot Start End\nimg1 2048 4095 2048\n")
	assert.Error(t, err)
}
