package keypad

import (
	"strconv"
	"strings"
)

// Keymap translates host key names to keypad keys.
type Keymap map[string]Key

// DefaultKeymap lays the keypad over the left hand side of a QWERTY keyboard.
//
//	1 2 3 4      1 2 3 C
//	Q W E R  =>  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
func DefaultKeymap() Keymap {
	return Keymap{
		"1": 0x1, "2": 0x2, "3": 0x3, "4": 0xC,
		"Q": 0x4, "W": 0x5, "E": 0x6, "R": 0xD,
		"A": 0x7, "S": 0x8, "D": 0x9, "F": 0xE,
		"Z": 0xA, "X": 0x0, "C": 0xB, "V": 0xF,
	}
}

// ParseKey parses a single hexadecimal digit as a key.
func ParseKey(text string) (key Key, err error) {
	value, err := strconv.ParseUint(text, 16, 8)
	if err != nil || len(text) != 1 {
		err = ErrKeyName(text)
		return
	}

	key = Key(value)

	return
}

// Lookup returns the key for a host key name. Names are not case sensitive.
func (km Keymap) Lookup(name string) (key Key, ok bool) {
	key, ok = km[strings.ToUpper(name)]
	return
}

// HostPress presses the key mapped to a host key name.
// Unmapped names are ignored.
func (kp *Keypad) HostPress(km Keymap, name string) (ok bool) {
	key, ok := km.Lookup(name)
	if ok {
		kp.Press(key)
	}
	return
}

// HostRelease releases the key mapped to a host key name.
// Unmapped names are ignored.
func (kp *Keypad) HostRelease(km Keymap, name string) (ok bool) {
	key, ok := km.Lookup(name)
	if ok {
		kp.Release(key)
	}
	return
}
