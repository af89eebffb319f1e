package emulator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/memory"
)

// scripted is a Frontend that runs a function per poll, and counts renders.
type scripted struct {
	poll    func(frame int, kp *keypad.Keypad) bool
	frame   int
	renders int
	last    string
	closed  bool
}

func (sc *scripted) Render(fb *display.Framebuffer) error {
	sc.renders++
	sc.last = fb.String()
	return nil
}

func (sc *scripted) Poll(kp *keypad.Keypad) (quit bool, err error) {
	sc.frame++
	if sc.poll != nil {
		quit = sc.poll(sc.frame, kp)
	}
	return
}

func (sc *scripted) Close() error {
	sc.closed = true
	return nil
}

func newTestEmulator(t *testing.T, program ...string) (emu *Emulator) {
	emu = NewEmulator()
	emu.Cpu.Seed(1)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	err = emu.Reset()
	assert.NoError(t, err)

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu.Memory)
	assert.NotNil(emu.Cpu.Display)
	assert.NotNil(emu.Cpu.Keypad)
	assert.Equal(CPU_HZ, emu.CpuHz)
	assert.Equal(TIMER_HZ, emu.TimerHz)
	assert.Equal(uint16(memory.PROGRAM_START), emu.Cpu.PC)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("600", defines["CPU_HZ"])
	assert.Equal("64", defines["SCREEN_WIDTH"])
	assert.Equal("0x50", defines["FONT_BASE"])
	assert.Equal("0xa", defines["KEY_A"])
	assert.Equal("16", defines["STACK_LIMIT"])
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ LEFT $(SCREEN_WIDTH - 1)",
		"ld v0, LEFT",
		"; not an opcode",
		"ld v1, KEY_F",
		"",
		"ld f, v1",
		"drw v0, v1, FONT_HEIGHT",
	}
	emu := newTestEmulator(t, program...)

	for _, op := range emu.Program.Opcodes {
		assert.Equal(op.LineNo, emu.LineNo())
		assert.Equal(uint16(op.Addr), emu.Cpu.PC)
		err := emu.Tick()
		assert.NoError(err, program[op.LineNo-1])
	}

	assert.Equal(uint8(63), emu.Cpu.V[0])
	assert.Equal(uint8(0xf), emu.Cpu.V[1])
	assert.Equal(memory.FontAddress(0xf), emu.Cpu.I)
	assert.Equal(4, emu.Cpu.Ticks)
	assert.Equal(uint8(1), emu.Cpu.Display.Pixel(63, 15))
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorLoadRom(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.LoadRom(bytes.NewReader([]byte{0x60, 0x2a, 0x12, 0x02}))
	assert.NoError(err)
	assert.Nil(emu.Program)

	err = emu.Reset()
	assert.NoError(err)
	assert.Equal(byte(0x60), emu.Cpu.Memory.ReadByte(0x200))

	assert.NoError(emu.Tick())
	assert.NoError(emu.Tick())
	assert.Equal(uint8(42), emu.Cpu.V[0])
	assert.Equal(uint16(0x202), emu.Cpu.PC)
	assert.Equal(0, emu.LineNo())

	err = emu.LoadRom(bytes.NewReader(make([]byte, memory.PROGRAM_LIMIT+1)))
	assert.ErrorIs(err, memory.ErrProgramTooLarge{})

	err = emu.LoadRom(bytes.NewReader(make([]byte, memory.PROGRAM_LIMIT)))
	assert.NoError(err)
	assert.NoError(emu.Reset())
}

func TestEmulatorBadOpcode(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.LoadRom(bytes.NewReader([]byte{0xff, 0xff, 0x60, 0x05}))
	assert.NoError(err)
	assert.NoError(emu.Reset())

	assert.NoError(emu.Tick())
	assert.Equal(1, emu.BadOpcodes)
	assert.False(emu.Halted())

	assert.NoError(emu.Tick())
	assert.Equal(uint8(5), emu.Cpu.V[0])
}

func TestEmulatorFaultMemory(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld i, $fff",
		"ld v1, [i]",
	)

	assert.NoError(emu.Tick())

	err := emu.Tick()
	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(2, rt.LineNo)
	assert.Equal(uint16(0x202), rt.Addr)

	var ea memory.ErrAddress
	assert.True(errors.As(err, &ea))
	assert.Equal(uint16(0xfff), ea.Addr)

	assert.True(emu.Halted())
	assert.ErrorIs(emu.Tick(), ErrHalted)

	// Reset recovers the machine.
	assert.NoError(emu.Reset())
	assert.False(emu.Halted())
	assert.NoError(emu.Tick())
}

func TestEmulatorFaultKey(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld v3, $10",
		"skp v3",
	)

	assert.NoError(emu.Tick())

	err := emu.Tick()
	assert.ErrorIs(err, keypad.ErrKeyRange(0x10))
	assert.True(emu.Halted())
}

func TestEmulatorFaultStack(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"cls",
		"loop: call loop",
	)

	var err error
	for range 1 + cpu.STACK_LIMIT {
		err = emu.Tick()
		assert.NoError(err)
	}

	err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrStackFull)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(2, rt.LineNo)
	assert.Equal(uint16(0x202), rt.Addr)
	assert.Contains(rt.Error(), "0x202")
}

func TestEmulatorFrame(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld v0, 10",
		"ld dt, v0",
		"loop: jp loop",
	)

	fe := &scripted{}

	for range 3 {
		quit, err := emu.Frame(fe)
		assert.NoError(err)
		assert.False(quit)
	}

	assert.Equal(uint8(7), emu.Cpu.DT)
	assert.Equal(3, emu.Frames)
	assert.Equal(30, emu.Cpu.Ticks)

	// Only the first frame renders; nothing is drawn afterwards.
	assert.Equal(1, fe.renders)
}

func TestEmulatorFrameRate(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jp loop")
	emu.CpuHz = 90

	fe := &scripted{}

	ticks := []int{}
	for range 4 {
		_, err := emu.Frame(fe)
		assert.NoError(err)
		ticks = append(ticks, emu.Cpu.Ticks)
	}

	assert.Equal([]int{1, 3, 4, 6}, ticks)

	emu.TimerHz = 0
	_, err := emu.Frame(fe)
	assert.ErrorIs(err, ErrRate)
}

func TestEmulatorFrameRender(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld v0, 0",
		"ld f, v0",
		"loop:",
		"drw v0, v0, 5",
		"ld v1, 2",
		"wait:",
		"add v1, $ff",
		"se v1, 0",
		"jp wait",
		"jp loop",
	)
	emu.CpuHz = 120

	fe := &scripted{}

	for range 6 {
		_, err := emu.Frame(fe)
		assert.NoError(err)
	}

	// Frame 1 always renders. The glyph is drawn in frame 2, and erased in frame 6.
	assert.Equal(3, fe.renders)
	assert.Equal(strings.Repeat(strings.Repeat(".", display.WIDTH)+"\n", display.HEIGHT), fe.last)
}

func TestEmulatorFrameKeyWait(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld v2, k",
		"ld v3, 1",
		"loop: jp loop",
	)

	fe := &scripted{
		poll: func(frame int, kp *keypad.Keypad) bool {
			switch frame {
			case 2:
				kp.Press(0xb)
			case 4:
				kp.Release(0xb)
			}
			return frame > 5
		},
	}

	for range 3 {
		_, err := emu.Frame(fe)
		assert.NoError(err)
	}

	assert.Equal(cpu.STATE_AWAIT_KEY, emu.Cpu.State)
	assert.Equal(uint16(0x200), emu.Cpu.PC)

	for range 2 {
		_, err := emu.Frame(fe)
		assert.NoError(err)
	}

	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)
	assert.Equal(uint8(0xb), emu.Cpu.V[2])
	assert.Equal(uint8(1), emu.Cpu.V[3])

	quit, err := emu.Frame(fe)
	assert.NoError(err)
	assert.True(quit)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jp loop")

	fe := &Headless{Frames: 3}
	err := emu.Run(context.Background(), fe)
	assert.NoError(err)
	assert.Equal(3, emu.Frames)
	assert.Equal(4, fe.Polled)
	assert.Equal(30, emu.Cpu.Ticks)
}

func TestEmulatorRunCancel(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "loop: jp loop")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.Run(ctx, &Headless{})
	assert.NoError(err)
	assert.LessOrEqual(emu.Frames, 2)
}

func TestEmulatorRunFault(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"ld i, $ffe",
		"ld vf, [i]",
	)

	err := emu.Run(context.Background(), &Headless{})
	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(2, rt.LineNo)
}
