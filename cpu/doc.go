// Package cpu implements the interpreter and assembler for the CHIP-8 system.
//
// The CPU consists of sixteen 8-bit registers (v0-vf, with vf doubling as
// the flag register), a 16-bit index register (i), a program counter, a
// bounded return stack, and the delay and sound timers. Instructions are
// decoded into a tagged Instruction and executed against the memory,
// framebuffer and keypad that the CPU is attached to.
//
// The assembler accepts the conventional mnemonics (cls, ld, drw, ...),
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
