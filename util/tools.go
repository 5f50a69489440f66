package util

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CheckTools verifies that every named external binary is installed before a
// command handler starts running, so a missing dependency fails the whole
// invocation up front rather than halfway through a mount/attach sequence.
func CheckTools(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not installed: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireRoot rejects commands that manipulate loop devices or mounts when
// not running with an effective uid of 0.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("this command must be run as root")
	}
	return nil
}
