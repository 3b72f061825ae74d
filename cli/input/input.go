package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is a terminal used for input. If `nil`, stdin is used.
var Terminal *term.Terminal

// ReadWriter combines separate reader and writer into a terminal backend.
type ReadWriter struct {
	io.Reader
	io.Writer
}

// ReadLine reads line from the input without trailing '\n'.
func ReadLine(w io.Writer, prompt string) (string, error) {
	if Terminal != nil {
		_, err := Terminal.Write([]byte(prompt))
		if err != nil {
			return "", err
		}
		raw, err := Terminal.ReadLine()
		return strings.TrimRight(raw, "\n"), err
	}
	fmt.Fprint(w, prompt)
	buf := bufio.NewReader(os.Stdin)
	line, err := buf.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// ReadPassword reads user password with prompt.
func ReadPassword(w io.Writer, prompt string) (string, error) {
	if Terminal != nil {
		return Terminal.ReadPassword(prompt)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(w, prompt)
		rawPass, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(w)
		return strings.TrimRight(string(rawPass), "\n"), nil
	}
	return readSecurePassword(prompt)
}
