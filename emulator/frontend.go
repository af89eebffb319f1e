package emulator

import (
	"context"
	"log"
	"time"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
)

// Frontend presents the framebuffer, and feeds host input to the keypad.
type Frontend interface {
	// Render draws the framebuffer.
	Render(fb *display.Framebuffer) error
	// Poll drains pending host input into the keypad.
	// Returns quit set when the user asked to stop.
	Poll(kp *keypad.Keypad) (quit bool, err error)
	// Close releases any host resources.
	Close() error
}

// Headless is a Frontend with no display or input.
// If Frames is positive, it asks to quit after that many polls.
type Headless struct {
	Frames int
	Polled int
}

func (hl *Headless) Render(fb *display.Framebuffer) error {
	return nil
}

func (hl *Headless) Poll(kp *keypad.Keypad) (quit bool, err error) {
	hl.Polled++
	quit = hl.Frames > 0 && hl.Polled > hl.Frames
	return
}

func (hl *Headless) Close() error {
	return nil
}

// Frame runs one timer period of the machine: input is polled,
// CpuHz/TimerHz instructions are executed, the timers tick once,
// and the frontend renders if the framebuffer changed.
func (emu *Emulator) Frame(fe Frontend) (quit bool, err error) {
	if emu.CpuHz <= 0 || emu.TimerHz <= 0 {
		err = ErrRate
		return
	}

	quit, err = fe.Poll(emu.Cpu.Keypad)
	if quit || err != nil {
		return
	}

	generation := emu.Cpu.Display.Generation()

	// Carry the remainder, so the long term rate is exactly CpuHz.
	emu.credit += emu.CpuHz
	steps := emu.credit / emu.TimerHz
	emu.credit %= emu.TimerHz

	for range steps {
		err = emu.Tick()
		if err != nil {
			return
		}
	}

	emu.TickTimers()
	emu.Frames++

	if emu.Frames == 1 || generation != emu.Cpu.Display.Generation() {
		err = fe.Render(emu.Cpu.Display)
	}

	return
}

// Run executes frames at TimerHz until the context is done, the
// frontend asks to quit, or the machine faults.
func (emu *Emulator) Run(ctx context.Context, fe Frontend) (err error) {
	if emu.TimerHz <= 0 {
		err = ErrRate
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(emu.TimerHz))
	defer ticker.Stop()

	for {
		var quit bool
		quit, err = emu.Frame(fe)
		if quit || err != nil {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	if emu.Verbose {
		log.Printf("emulator: stopped after %v frames, %v instructions", emu.Frames, emu.Cpu.Ticks)
	}

	return
}
