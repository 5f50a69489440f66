package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// rtfmMarker suppresses all confirmation prompts when present in the
// working directory. Creating it is the user's statement that they have
// read the documentation.
const rtfmMarker = ".rtfm"

// Confirm gates a destructive or privileged operation behind an interactive
// prompt. The prompt is skipped when unattended is true or when the rtfm
// marker file exists in the working directory. Answering "view" opens detail
// in $EDITOR (falling back to vi) and asks again. Declining returns an error.
func Confirm(op, detail string, unattended bool) error {
	if unattended {
		return nil
	}
	if _, err := os.Stat(rtfmMarker); err == nil {
		return nil
	}
	return confirm(op, detail, os.Stdin, os.Stdout)
}

func confirm(op, detail string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "About to %s. Continue? [y]es/[n]o/[v]iew help: ", op)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("confirmation declined")
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		case "v", "view":
			if err := viewDetail(detail); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
		default:
			return fmt.Errorf("confirmation declined")
		}
	}
}

// viewDetail writes detail to a temporary file and opens it in the user's
// editor with the terminal attached.
func viewDetail(detail string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	f, err := os.CreateTemp("", "imgtool-help-*.txt")
	if err != nil {
		return fmt.Errorf("unable to create help file: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(detail); err != nil {
		f.Close()
		return fmt.Errorf("unable to write help file: %v", err)
	}
	f.Close()
	cmd := exec.Command(editor, f.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %v", editor, err)
	}
	return nil
}
