//go:build !windows
// +build !windows

package input

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const ttyPath = "/dev/tty"

// readSecurePassword reads the password from the controlling terminal when
// stdin is redirected (a context file piped through, for example).
func readSecurePassword(prompt string) (string, error) {
	tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("no terminal available to read password from: %w", err)
	}
	defer tty.Close()

	if _, err := fmt.Fprint(tty, prompt); err != nil {
		return "", err
	}
	pass, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(tty)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}
