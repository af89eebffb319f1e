//go:build linux || darwin || freebsd || netbsd || openbsd

package term

import (
	"errors"
	"log"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
)

// makeRaw puts the terminal into raw mode, and returns a function
// that restores the previous mode.
func makeRaw(fd int) (restore func() error, err error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	saved := *termios
	raw := *termios

	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	// Block until at least one byte is available.
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, &raw)
	if err != nil {
		return
	}

	restore = func() error {
		return unix.IoctlSetTermios(fd, ioctlSetTermios, &saved)
	}

	return
}

// Open creates a terminal front end on the process's standard input and
// output, in raw mode.
func Open(km keypad.Keymap) (tm *Terminal, err error) {
	fd := int(os.Stdin.Fd())

	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		err = errors.Join(ErrNotTerminal, err)
		return
	}

	if int(ws.Col) < display.WIDTH || int(ws.Row) < display.HEIGHT/2 {
		log.Printf("term: %vx%v is smaller than %vx%v", ws.Col, ws.Row, display.WIDTH, display.HEIGHT/2)
	}

	restore, err := makeRaw(fd)
	if err != nil {
		err = errors.Join(ErrNotTerminal, err)
		return
	}

	tm = New(os.Stdin, os.Stdout, km)
	tm.restore = restore

	return
}
