package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// terminalSecret reads without echo when in is a terminal, and returns nil
// otherwise so the wizard falls back to plain line input.
func terminalSecret(in *os.File, out io.Writer) func() (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
