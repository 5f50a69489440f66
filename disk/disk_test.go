package disk

import (
	"testing"

	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPartitionTableGPT(t *testing.T) {
	src := &gpt.Table{
		LogicalSectorSize: 512,
		Partitions: []*gpt.Partition{
			{Start: 2048, End: 4095, Size: 2048 * 512, Type: gpt.EFISystemPartition, Name: "boot"},
			{Type: gpt.Unused},
			{Start: 4096, End: 20479, Size: 16384 * 512, Type: gpt.LinuxFilesystem, Name: "root"},
		},
	}
	table, err := fromPartitionTable(src, 20480*512)
	require.NoError(t, err)

	assert.Equal(t, "gpt", table.Label)
	assert.Equal(t, int64(512), table.SectorSize)
	assert.Equal(t, int64(20480*512), table.ImageSize)
	require.Len(t, table.Partitions, 2)

	// unused slots are dropped but slot numbering is preserved
	assert.Equal(t, 1, table.Partitions[0].Index)
	assert.Equal(t, 3, table.Partitions[1].Index)

	assert.Equal(t, uint64(2048), table.Partitions[0].Start)
	assert.Equal(t, uint64(4095), table.Partitions[0].End)
	assert.Equal(t, uint64(2048), table.Partitions[0].Sectors)
	assert.Equal(t, uint64(2048*512), table.Partitions[0].Size)
	assert.Equal(t, "boot", table.Partitions[0].Name)

	assert.Equal(t, "root", table.Partitions[1].Name)
	assert.Equal(t, string(gpt.LinuxFilesystem), table.Partitions[1].Type)
}

func TestFromPartitionTableMBR(t *testing.T) {
	src := &mbr.Table{
		LogicalSectorSize: 512,
		Partitions: []*mbr.Partition{
			{Start: 2048, Size: 2048, Type: mbr.Fat32LBA, Bootable: true},
			{Start: 4096, Size: 8192, Type: mbr.Linux},
			{Type: mbr.Empty},
			{Type: mbr.Empty},
		},
	}
	table, err := fromPartitionTable(src, 20480*512)
	require.NoError(t, err)

	assert.Equal(t, "mbr", table.Label)
	assert.Equal(t, int64(512), table.SectorSize)
	require.Len(t, table.Partitions, 2)

	assert.Equal(t, uint64(2048), table.Partitions[0].Start)
	assert.Equal(t, uint64(4095), table.Partitions[0].End)
	assert.True(t, table.Partitions[0].Bootable)
	assert.Equal(t, "0c", table.Partitions[0].Type)

	assert.Equal(t, uint64(4096), table.Partitions[1].Start)
	assert.Equal(t, uint64(12287), table.Partitions[1].End)
	assert.Equal(t, uint64(8192*512), table.Partitions[1].Size)
	assert.Equal(t, "83", table.Partitions[1].Type)
}

func TestLastUsedSector(t *testing.T) {
	tests := []struct {
		name  string
		parts []Partition
		want  int64
	}{
		{
			"maximum end wins regardless of row order",
			[]Partition{{End: 500}, {End: 2048}, {End: 100}},
			2048,
		},
		{
			"single partition",
			[]Partition{{End: 4095}},
			4095,
		},
		{
			"no partitions returns the sentinel",
			nil,
			-1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{Partitions: tt.parts}
			assert.Equal(t, tt.want, table.LastUsedSector())
		})
	}
}

func TestTrailingReserve(t *testing.T) {
	assert.Equal(t, int64(33), (&Table{Label: "gpt"}).TrailingReserve())
	assert.Equal(t, int64(0), (&Table{Label: "mbr"}).TrailingReserve())
	assert.Equal(t, int64(0), (&Table{Label: "unknown"}).TrailingReserve())
}
