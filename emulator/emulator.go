// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/memory"
)

const (
	CPU_HZ   = 600 // Default instruction rate.
	TIMER_HZ = 60  // Rate of the delay and sound timers.
)

var _emulator_defines = map[string]string{
	"CPU_HZ":   fmt.Sprintf("%v", CPU_HZ),
	"TIMER_HZ": fmt.Sprintf("%v", TIMER_HZ),
}

// Emulator state. CPU + memory + framebuffer + keypad.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Assembled program, if any.
	Rom      []byte       // Program image, used when there is no assembled Program.

	CpuHz   int // Instructions per second.
	TimerHz int // Timer decrements per second.

	Frames     int // Frames since reset.
	BadOpcodes int // Undecodable instructions skipped since reset.

	credit int  // Instruction rate remainder carried between frames.
	halted bool // Set after a fatal fault.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(memory.NewMemory(), &display.Framebuffer{}, &keypad.Keypad{}),
		CpuHz:   CPU_HZ,
		TimerHz: TIMER_HZ,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
		emu.Cpu.Display.Defines(),
		emu.Cpu.Keypad.Defines(),
	)
}

// Assemble parses assembly source into the emulator's Program,
// with the emulator's defines available as equates.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadRom reads a raw program image.
func (emu *Emulator) LoadRom(input io.Reader) (err error) {
	// Read one byte past the limit, to detect an oversized image.
	data, err := io.ReadAll(io.LimitReader(input, memory.PROGRAM_LIMIT+1))
	if err != nil {
		return
	}

	if len(data) > memory.PROGRAM_LIMIT {
		err = memory.ErrProgramTooLarge{Size: len(data)}
		return
	}

	emu.Rom = data
	emu.Program = nil

	return
}

// Image returns the program image loaded at reset.
func (emu *Emulator) Image() []byte {
	if emu.Program != nil {
		return emu.Program.Binary()
	}
	return emu.Rom
}

// Reset the machine state, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.Frames = 0
	emu.BadOpcodes = 0
	emu.credit = 0
	emu.halted = false

	err = emu.Cpu.Memory.Load(emu.Image())
	if err != nil {
		emu.halted = true
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %v byte program", len(emu.Image()))
	}

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineNo(emu.Cpu.PC)
}

// Halted returns true if a fatal fault has stopped the machine.
func (emu *Emulator) Halted() bool {
	return emu.halted
}

// Tick performs a single instruction step of the emulator.
//
// Undecodable instructions are logged and skipped. Any other fault halts
// the machine, and is returned as an ErrRuntime.
func (emu *Emulator) Tick() (err error) {
	if emu.halted {
		err = ErrHalted
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	addr := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			emu.halted = true
			err = &ErrRuntime{Addr: addr, LineNo: lineno, Err: err}
		}
	}()

	// Memory and key range faults are raised by panic.
	defer func() {
		r := recover()
		switch fault := r.(type) {
		case nil:
		case memory.ErrAddress:
			err = fault
		case keypad.ErrKeyRange:
			err = fault
		default:
			panic(r)
		}
	}()

	err = emu.Cpu.Step()
	if errors.Is(err, cpu.ErrOpcode{}) {
		log.Printf("emulator: %v", err)
		emu.BadOpcodes++
		err = nil
	}

	return
}

// TickTimers performs a single 60Hz timer tick.
func (emu *Emulator) TickTimers() {
	emu.Cpu.TickTimers()
}
