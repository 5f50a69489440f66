package util

import (
	"errors"
	"fmt"
)

// UsageError marks a failure caused by bad command-line input: a missing
// image file, a malformed partition number, a mount point that is not a
// directory. The top level maps these to exit code 2; every other error
// exits 1.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

// Usagef creates a UsageError with a formatted message.
func Usagef(format string, a ...interface{}) error {
	return &UsageError{msg: fmt.Sprintf(format, a...)}
}

// IsUsage reports whether err is (or wraps) a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
