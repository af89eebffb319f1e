// Package keypad implements the 16-key hexadecimal input latch.
package keypad

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"sync"
)

// Key is a hexadecimal key code, 0x0 through 0xF.
type Key uint8

const (
	KEY_COUNT = 16 // Number of keys on the pad.
)

var _keypad_defines = map[string]string{}

func init() {
	for key := range Key(KEY_COUNT) {
		_keypad_defines["KEY_"+key.String()] = fmt.Sprintf("0x%x", uint8(key))
	}
}

func (key Key) String() string {
	return fmt.Sprintf("%X", uint8(key))
}

func (key Key) check() {
	if key >= KEY_COUNT {
		panic(ErrKeyRange(key))
	}
}

// Keypad holds the pressed state of each key, plus the wait latch used
// by instructions that block until a key is released.
// All methods are safe for concurrent use.
type Keypad struct {
	Verbose bool // If set, logs key transitions.

	mutex    sync.Mutex
	pressed  [KEY_COUNT]bool
	waiting  bool
	resolved bool
	key      Key
}

// Defines returns the assembler equates for the key codes.
func (kp *Keypad) Defines() iter.Seq2[string, string] {
	return maps.All(_keypad_defines)
}

// Reset releases all keys and disarms the wait latch.
func (kp *Keypad) Reset() {
	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	clear(kp.pressed[:])
	kp.waiting = false
	kp.resolved = false
	kp.key = 0
}

// Press marks a key as held down.
func (kp *Keypad) Press(key Key) {
	key.check()

	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	if kp.Verbose && !kp.pressed[key] {
		log.Printf("keypad: press %v", key)
	}

	kp.pressed[key] = true
}

// Release marks a key as no longer held. If the wait latch is armed and
// the key was held, the wait resolves to that key.
func (kp *Keypad) Release(key Key) {
	key.check()

	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	if kp.Verbose && kp.pressed[key] {
		log.Printf("keypad: release %v", key)
	}

	if kp.waiting && kp.pressed[key] {
		kp.waiting = false
		kp.resolved = true
		kp.key = key
	}

	kp.pressed[key] = false
}

// IsPressed returns true if the key is held down.
func (kp *Keypad) IsPressed(key Key) bool {
	key.check()

	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	return kp.pressed[key]
}

// ArmWait starts waiting for the next key release, discarding any
// previously resolved key.
func (kp *Keypad) ArmWait() {
	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	kp.waiting = true
	kp.resolved = false
}

// Waiting returns true while the wait latch is armed and unresolved.
func (kp *Keypad) Waiting() bool {
	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	return kp.waiting
}

// PollWaited returns the key whose release resolved the wait, and clears it.
func (kp *Keypad) PollWaited() (key Key, ok bool) {
	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	if !kp.resolved {
		return
	}

	key, ok = kp.key, true
	kp.resolved = false

	return
}
