// Package memory implements the 4KiB address space of the CHIP-8 machine.
//
// Addresses 0x000 through 0x1FF are reserved for the interpreter, and hold
// the hexadecimal font. Programs are loaded at PROGRAM_START.
package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	SIZE          = 4096  // Size of the address space in bytes.
	PROGRAM_START = 0x200 // Load address of programs.
	PROGRAM_LIMIT = SIZE - PROGRAM_START
	FONT_BASE     = 0x050 // Address of the hexadecimal font.
	FONT_HEIGHT   = 5     // Bytes per font glyph.
)

var _memory_defines = map[string]string{
	"PROGRAM_START": fmt.Sprintf("0x%x", PROGRAM_START),
	"FONT_BASE":     fmt.Sprintf("0x%x", FONT_BASE),
	"FONT_HEIGHT":   fmt.Sprintf("%d", FONT_HEIGHT),
}

// font is the 4x5 glyph set for the digits 0 through F.
var font = [16 * FONT_HEIGHT]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the byte-addressable store of the machine.
type Memory struct {
	Data [SIZE]byte
}

// NewMemory returns a memory with the font installed.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.Reset()
	return
}

// Defines returns the assembler equates for the memory map.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// check panics if [addr, addr+length) is outside of memory.
func check(addr uint16, length int) {
	if int(addr)+length > SIZE {
		panic(ErrAddress{Addr: addr, Len: length})
	}
}

// ReadByte returns the byte at addr.
func (mem *Memory) ReadByte(addr uint16) byte {
	check(addr, 1)
	return mem.Data[addr]
}

// WriteByte sets the byte at addr.
func (mem *Memory) WriteByte(addr uint16, value byte) {
	check(addr, 1)
	mem.Data[addr] = value
}

// ReadBlock returns a copy of length bytes starting at addr.
func (mem *Memory) ReadBlock(addr uint16, length int) (data []byte) {
	check(addr, length)
	data = make([]byte, length)
	copy(data, mem.Data[addr:])
	return
}

// WriteBlock copies data into memory starting at addr.
func (mem *Memory) WriteBlock(addr uint16, data []byte) {
	check(addr, len(data))
	copy(mem.Data[addr:], data)
}

// Reset zeros memory and installs the font.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	copy(mem.Data[FONT_BASE:], font[:])
}

// Load copies a program image to PROGRAM_START.
func (mem *Memory) Load(program []byte) (err error) {
	if len(program) > PROGRAM_LIMIT {
		err = ErrProgramTooLarge{Size: len(program)}
		return
	}

	mem.WriteBlock(PROGRAM_START, program)

	return
}

// FontAddress returns the address of the glyph for the low nibble of digit.
func FontAddress(digit uint8) uint16 {
	return FONT_BASE + uint16(digit&0xf)*FONT_HEIGHT
}
