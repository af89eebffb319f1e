// Package term is a front end for ANSI terminals.
//
// Two framebuffer rows are drawn per text row, with Unicode half blocks.
// Terminals report key presses but not releases, so a key is released
// once it has not repeated for the Hold period.
package term

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
)

const (
	HOLD = 150 * time.Millisecond // Default key hold period.

	KEY_ESCAPE    = 0x1b // Quits.
	KEY_INTERRUPT = 0x03 // Control-C, also quits.

	ANSI_HOME        = "\x1b[H"
	ANSI_CLEAR       = "\x1b[2J"
	ANSI_HIDE_CURSOR = "\x1b[?25l"
	ANSI_SHOW_CURSOR = "\x1b[?25h"
)

// halfBlock is indexed by the top, then the bottom pixel.
var halfBlock = [2][2]string{
	{" ", "▄"},
	{"▀", "█"},
}

// Terminal renders to Out, and reads key presses from In.
type Terminal struct {
	Verbose bool
	Keymap  keypad.Keymap
	Hold    time.Duration

	out     io.Writer
	input   chan byte
	held    map[keypad.Key]time.Time
	now     func() time.Time
	restore func() error
	once    sync.Once
	started bool
}

// New creates a terminal front end over a reader and a writer.
// A goroutine copies In to the Poll queue until In fails.
func New(in io.Reader, out io.Writer, km keypad.Keymap) (tm *Terminal) {
	tm = newTerminal(out, km)

	go tm.read(in)

	return
}

func newTerminal(out io.Writer, km keypad.Keymap) *Terminal {
	return &Terminal{
		Keymap: km,
		Hold:   HOLD,
		out:    out,
		input:  make(chan byte, 64),
		held:   map[keypad.Key]time.Time{},
		now:    time.Now,
	}
}

func (tm *Terminal) read(in io.Reader) {
	defer close(tm.input)

	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			tm.input <- b
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("term: %v", err)
			}
			return
		}
	}
}

// Render draws the framebuffer at the top left of the terminal.
func (tm *Terminal) Render(fb *display.Framebuffer) (err error) {
	var text strings.Builder

	if !tm.started {
		text.WriteString(ANSI_HIDE_CURSOR + ANSI_CLEAR)
		tm.started = true
	}

	text.WriteString(ANSI_HOME)
	for y := 0; y < display.HEIGHT; y += 2 {
		for x := range display.WIDTH {
			text.WriteString(halfBlock[fb.Pixel(x, y)][fb.Pixel(x, y+1)])
		}
		text.WriteString("\r\n")
	}

	_, err = io.WriteString(tm.out, text.String())

	return
}

// Poll presses the keys typed since the last poll, and releases the keys
// that have not repeated within the hold period.
func (tm *Terminal) Poll(kp *keypad.Keypad) (quit bool, err error) {
	now := tm.now()

	for done := false; !done; {
		select {
		case b, ok := <-tm.input:
			if !ok {
				// Input closed, nothing more will arrive.
				quit = true
				done = true
				break
			}
			switch b {
			case KEY_ESCAPE, KEY_INTERRUPT:
				quit = true
			default:
				key, mapped := tm.Keymap.Lookup(string(rune(b)))
				if !mapped {
					break
				}
				if tm.Verbose {
					log.Printf("term: %q -> %v", rune(b), key)
				}
				kp.Press(key)
				tm.held[key] = now
			}
		default:
			done = true
		}
	}

	for key, when := range tm.held {
		if now.Sub(when) >= tm.Hold {
			kp.Release(key)
			delete(tm.held, key)
		}
	}

	return
}

// Close restores the terminal.
func (tm *Terminal) Close() (err error) {
	tm.once.Do(func() {
		if tm.started {
			_, err = io.WriteString(tm.out, ANSI_SHOW_CURSOR)
		}
		if tm.restore != nil {
			if rerr := tm.restore(); rerr != nil {
				err = rerr
			}
		}
	})

	return
}
