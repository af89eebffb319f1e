//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package term

import (
	"github.com/ezrec/chip8/keypad"
)

// Open is not supported on this platform.
func Open(km keypad.Keymap) (tm *Terminal, err error) {
	err = ErrNotTerminal
	return
}
