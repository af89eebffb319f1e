package memory

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrAddress is raised (by panic) when an access falls outside of memory.
type ErrAddress struct {
	Addr uint16
	Len  int
}

func (err ErrAddress) Error() string {
	return f("memory access 0x%04x+%v out of range", err.Addr, err.Len)
}

// ErrProgramTooLarge is returned when a program image does not fit above PROGRAM_START.
type ErrProgramTooLarge struct {
	Size int
}

func (err ErrProgramTooLarge) Error() string {
	return f("program of %v bytes exceeds %v bytes", err.Size, PROGRAM_LIMIT)
}

func (err ErrProgramTooLarge) Is(target error) (ok bool) {
	_, ok = target.(ErrProgramTooLarge)
	return
}
