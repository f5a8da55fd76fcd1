// Package inspect implements the interactive word-by-word pager used by
// hmc14dump to step through an assembled `.ob` file.
package inspect

import (
	"os"

	"golang.org/x/sys/unix"
)

var termRestore unix.Termios

// EnterRawTerm puts stdin into raw mode: no echo, no line buffering; a read
// waits for at least one byte and returns it without waiting for a newline.
func EnterRawTerm() error {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}

	termRestore = *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, &termstate)
}

// ExitRawTerm restores the terminal mode captured by EnterRawTerm.
func ExitRawTerm() error {
	return unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, &termRestore)
}
