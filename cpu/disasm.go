package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Listing iterates over the instruction words of an image loaded at base.
// Words that do not decode have the Op OP_COUNT.
// A trailing odd byte is returned as a word padded with zero.
func Listing(image []byte, base uint16) iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, inst Instruction) bool) {
		for offset := 0; offset < len(image); offset += 2 {
			word := uint16(image[offset]) << 8
			if offset+1 < len(image) {
				word |= uint16(image[offset+1])
			}
			inst, err := Decode(word)
			if err != nil {
				inst = Instruction{Op: OP_COUNT, Word: word}
			}
			if !yield(base+uint16(offset), inst) {
				return
			}
		}
	}
}

// Disassemble writes an assembly listing of an image loaded at base.
// Words that do not decode are listed as 'dw' data.
func Disassemble(w io.Writer, image []byte, base uint16) (err error) {
	for addr, inst := range Listing(image, base) {
		_, err = fmt.Fprintf(w, "%04x: %04x  %v\n", addr, inst.Word, inst)
		if err != nil {
			return
		}
	}

	return
}
