package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/memory"
)

const (
	REGISTER_COUNT = 16  // General purpose registers, V0 through VF.
	REGISTER_FLAG  = 0xf // Index of the flag register VF.
)

var _cpu_defines = map[string]string{
	"STACK_LIMIT":   fmt.Sprintf("%d", STACK_LIMIT),
	"REGISTER_FLAG": fmt.Sprintf("%d", REGISTER_FLAG),
}

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING   = State(0) // running
	STATE_AWAIT_KEY = State(1) // await-key
)

// Registers is the architectural register file.
// The stack pointer is the depth of the Cpu's Stack.
type Registers struct {
	V  [REGISTER_COUNT]uint8 // V0 through VF.
	I  uint16                // Index register.
	PC uint16                // Program counter.
	DT uint8                 // Delay timer.
	ST uint8                 // Sound timer.
}

// Cpu is the simulation context for the CHIP-8 interpreter.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Quirks  Quirks // Interpreter variant behaviors.

	Memory  *memory.Memory       // Reference to the address space.
	Display *display.Framebuffer // Reference to the framebuffer.
	Keypad  *keypad.Keypad       // Reference to the input latch.

	Registers
	Stack        Stack // Return address stack.
	State        State // Execution state.
	WaitRegister uint8 // Destination of a pending key wait.

	Ticks int // Instructions executed since reset.

	rand *rand.Rand
}

// NewCpu creates a new CPU attached to its memory, framebuffer and keypad.
func NewCpu(mem *memory.Memory, fb *display.Framebuffer, kp *keypad.Keypad) (cpu *Cpu) {
	cpu = &Cpu{
		Quirks:  DefaultQuirks(),
		Memory:  mem,
		Display: fb,
		Keypad:  kp,
	}

	cpu.Seed(rand.Uint64())
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Seed sets the seed of the random number generator used by 'rnd'.
func (cpu *Cpu) Seed(seed uint64) {
	cpu.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "pc", cpu.PC)
	text += fmt.Sprintf("% 5s: %03X\n", "i", cpu.I)
	for n, value := range cpu.V {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%X", n), value)
	}
	text += fmt.Sprintf("% 5s: %d\n", "sp", cpu.Stack.Depth())

	top := "---"
	if value, ok := cpu.Stack.Peek(); ok {
		top = fmt.Sprintf("%03X", value)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", top)
	text += fmt.Sprintf("% 5s: %02X\n", "dt", cpu.DT)
	text += fmt.Sprintf("% 5s: %02X\n", "st", cpu.ST)
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)

	return
}

// Reset the CPU state.
// - Clears the registers and stack.
// - Zeros memory, and installs the font.
// - Clears the framebuffer and releases all keys.
// - Sets PC to the program load address.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Display.Clear()
	cpu.Keypad.Reset()

	cpu.Registers = Registers{PC: memory.PROGRAM_START}
	cpu.Stack.Reset()
	cpu.State = STATE_RUNNING
	cpu.WaitRegister = 0
	cpu.Ticks = 0
}

// TickTimers decrements the delay and sound timers, stopping at zero.
// It is called at 60Hz, independently of Step.
func (cpu *Cpu) TickTimers() {
	if cpu.DT > 0 {
		cpu.DT--
	}
	if cpu.ST > 0 {
		cpu.ST--
	}
}

// Fetch returns the instruction word at PC, and advances PC.
func (cpu *Cpu) Fetch() (word uint16) {
	code := cpu.Memory.ReadBlock(cpu.PC, 2)
	word = uint16(code[0])<<8 | uint16(code[1])
	cpu.PC += 2
	return
}

// Step performs a single fetch, decode and execute cycle.
//
// An undecodable word returns ErrOpcode, with PC already past it, so
// execution may continue with the next Step.
func (cpu *Cpu) Step() (err error) {
	if cpu.State == STATE_AWAIT_KEY {
		cpu.awaitKey()
		return
	}

	addr := cpu.PC
	word := cpu.Fetch()

	inst, err := Decode(word)
	if err != nil {
		err = ErrOpcode{Word: word, Addr: addr}
		if cpu.Verbose {
			log.Printf("cpu: %03x: %04x  %v", addr, word, err)
		}
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %03x: %04x  %v", addr, word, inst)
	}

	cpu.Ticks++

	err = cpu.Execute(inst)

	return
}

// awaitKey completes a pending 'ld vx, k' once a key has been released.
func (cpu *Cpu) awaitKey() {
	key, ok := cpu.Keypad.PollWaited()
	if !ok {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: key %v -> v%x", key, cpu.WaitRegister)
	}

	cpu.V[cpu.WaitRegister] = uint8(key)
	cpu.PC += 2
	cpu.State = STATE_RUNNING
}

// Execute performs a decoded instruction. PC must already be past it.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if !inst.Valid() {
		err = ErrOpcode{Word: inst.Word, Addr: cpu.PC - 2}
		return
	}

	err = execute[inst.Op](cpu, inst)

	return
}
