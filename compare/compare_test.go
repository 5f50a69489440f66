package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgs(t *testing.T) {
	args := Args("/mnt/src", "host:/backup")
	assert.Equal(t, []string{
		"--dry-run",
		"--recursive",
		"--checksum",
		"--delete",
		"--itemize-changes",
		"/mnt/src/",
		"host:/backup",
	}, args)

	// an existing trailing slash is not doubled
	args = Args("/mnt/src/", "/dst")
	assert.Equal(t, "/mnt/src/", args[5])
}

func TestParseItemized(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			"transfers, creations and deletions are kept",
			"sending incremental file list\n" +
				">f..t...... etc/hostname\n" +
				"cd+++++++++ var/cache/\n" +
				"*deleting   tmp/stale\n" +
				"\n" +
				"sent 1,024 bytes  received 42 bytes  2,132.00 bytes/sec\n" +
				"total size is 8,192  speedup is 7.68 (DRY RUN)\n",
			[]string{
				">f..t...... etc/hostname",
				"cd+++++++++ var/cache/",
				"*deleting   tmp/stale",
			},
		},
		{
			"attribute-only changes are dropped",
			".d..t...... etc/\n.f...p..... etc/passwd\n",
			nil,
		},
		{
			"identical trees produce no entries",
			"sending incremental file list\n\nsent 100 bytes  received 10 bytes\n",
			nil,
		},
		{
			"empty output",
			"",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItemized(tt.out))
		})
	}
}
