package cpu

import (
	"iter"

	"github.com/ezrec/chip8/memory"
)

// Opcode is a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int      // Source line.
	Addr      int      // Load address of the first byte.
	Words     []string // Source words, after equate substitution.
	Bytes     []byte   // Generated bytes.
	LinkLabel string   // Label to resolve into the bytes, if any.
	LinkMask  uint16   // Bits of the leading word that hold the label address.
}

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
	Labels  map[string]uint16
}

// Debug associates an address with the opcode it was assembled from.
type Debug struct {
	*Opcode
	Offset int // Offset of the address into the opcode's bytes.
}

// Debug returns the opcode holding addr. The Opcode is nil if no opcode covers addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// LineNo returns the source line for addr, or 0 if unknown.
func (prog *Program) LineNo(addr uint16) int {
	dbg := prog.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// Binary returns the program image, to be loaded at PROGRAM_START.
func (prog *Program) Binary() (image []byte) {
	for addr, data := range prog.Codes() {
		offset := int(addr) - memory.PROGRAM_START
		if gap := offset - len(image); gap > 0 {
			image = append(image, make([]byte, gap)...)
		}
		image = append(image[:offset], data...)
	}

	return
}

// Codes iterates over the generated bytes of each opcode, by address.
func (prog *Program) Codes() iter.Seq2[uint16, []byte] {
	return func(yield func(addr uint16, data []byte) bool) {
		for _, op := range prog.Opcodes {
			if len(op.Bytes) == 0 {
				continue
			}
			if !yield(uint16(op.Addr), op.Bytes) {
				return
			}
		}
	}
}
