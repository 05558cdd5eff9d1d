package cmd

import (
	"errors"
	"fmt"
)

// silentExitError signals a non-zero exit status that has already been
// reported to the user, so Execute must not print anything further.
type silentExitError struct {
	code int
}

func (e *silentExitError) Error() string {
	return fmt.Sprintf("silent exit with code %d", e.code)
}

// NewSilentExit returns an error that makes Execute exit with code without
// printing an error message.
func NewSilentExit(code int) error {
	return &silentExitError{code: code}
}

// IsSilentExit reports whether err is a silent exit and returns its code.
func IsSilentExit(err error) (int, bool) {
	var silent *silentExitError
	if errors.As(err, &silent) {
		return silent.code, true
	}
	return 0, false
}
