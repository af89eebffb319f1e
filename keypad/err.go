package keypad

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrKeyRange is raised (by panic) for a key code above 0xF.
type ErrKeyRange uint8

func (err ErrKeyRange) Error() string {
	return f("key 0x%02x out of range", uint8(err))
}

// ErrKeyName is returned when a key name is not a single hexadecimal digit.
type ErrKeyName string

func (err ErrKeyName) Error() string {
	return f("'%v' is not a key", string(err))
}
