// Package compare diffs two directory trees with a dry-run, checksum-based
// rsync pass. Nothing is ever copied or deleted; the itemized output is the
// whole result.
package compare

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/siderolabs/go-cmd/pkg/cmd"
)

// Args returns the rsync argument list for a dry-run diff of src against
// dst. The trailing slash on src makes rsync compare directory contents
// rather than the directory itself.
func Args(src, dst string) []string {
	return []string{
		"--dry-run",
		"--recursive",
		"--checksum",
		"--delete",
		"--itemize-changes",
		ensureSlash(src),
		dst,
	}
}

func ensureSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// Trees compares the tree at src against dst and returns one line per
// differing entry. dst may be a local directory or a remote rsync
// destination like host:/path.
func Trees(rsyncBin, src, dst string) ([]string, error) {
	out, err := cmd.Run(rsyncBin, Args(src, dst)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compare %s against %s", src, dst)
	}
	return ParseItemized(out), nil
}

// ParseItemized filters rsync --itemize-changes output down to entries that
// differ in content or existence: transfers (< >), creations (c), hardlink
// changes (h) and deletions (*deleting). Attribute-only changes (leading
// dot) and rsync's chatter around the listing are dropped.
func ParseItemized(out string) []string {
	var changed []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		switch line[0] {
		case '<', '>', 'c', 'h', '*':
			changed = append(changed, line)
		}
	}
	return changed
}
