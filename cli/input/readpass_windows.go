//go:build windows
// +build windows

package input

import (
	"errors"
)

// readSecurePassword is only supported on systems with /dev/tty.
func readSecurePassword(prompt string) (string, error) {
	return "", errors.New("no terminal available to read password from")
}
