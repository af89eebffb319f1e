// Package sdl is a front end that draws into an SDL2 window.
//
// SDL must be driven from the main OS thread, so callers lock it
// with runtime.LockOSThread before Open.
package sdl

import (
	"errors"
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var ErrScale = errors.New(f("window scale must be positive"))

const (
	TITLE = "chip8"

	COLOR_ON  = 0xff // Grey level of a set pixel.
	COLOR_OFF = 0x00 // Grey level of a clear pixel.
)

// Window is a scaled framebuffer view, and a keyboard bridge.
type Window struct {
	Verbose bool
	Keymap  keypad.Keymap

	scale    int32
	window   *sdl.Window
	renderer *sdl.Renderer
}

// Open initializes SDL, and creates a window of the scaled framebuffer size.
func Open(scale int, km keypad.Keymap) (win *Window, err error) {
	if scale <= 0 {
		err = ErrScale
		return
	}

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return
	}

	win = &Window{
		Keymap: km,
		scale:  int32(scale),
	}

	win.window, err = sdl.CreateWindow(TITLE,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		display.WIDTH*win.scale, display.HEIGHT*win.scale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		win = nil
		return
	}

	win.renderer, err = sdl.CreateRenderer(win.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = win.window.Destroy()
		sdl.Quit()
		win = nil
		return
	}

	return
}

// Render draws every set pixel as a scale by scale square.
func (win *Window) Render(fb *display.Framebuffer) (err error) {
	err = win.renderer.SetDrawColor(COLOR_OFF, COLOR_OFF, COLOR_OFF, 0xff)
	if err != nil {
		return
	}

	err = win.renderer.Clear()
	if err != nil {
		return
	}

	err = win.renderer.SetDrawColor(COLOR_ON, COLOR_ON, COLOR_ON, 0xff)
	if err != nil {
		return
	}

	for y, row := range fb.Rows() {
		for x, pixel := range row {
			if pixel == 0 {
				continue
			}
			err = win.renderer.FillRect(&sdl.Rect{
				X: int32(x) * win.scale,
				Y: int32(y) * win.scale,
				W: win.scale,
				H: win.scale,
			})
			if err != nil {
				return
			}
		}
	}

	win.renderer.Present()

	return
}

// Poll drains the SDL event queue into the keypad.
// Closing the window, or pressing Escape, quits.
func (win *Window) Poll(kp *keypad.Keypad) (quit bool, err error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}

			if ev.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
				continue
			}

			name := sdl.GetKeyName(ev.Keysym.Sym)
			switch ev.Type {
			case sdl.KEYDOWN:
				if kp.HostPress(win.Keymap, name) && win.Verbose {
					log.Printf("sdl: %v down", name)
				}
			case sdl.KEYUP:
				if kp.HostRelease(win.Keymap, name) && win.Verbose {
					log.Printf("sdl: %v up", name)
				}
			}
		}
	}

	return
}

// Close destroys the window, and shuts down SDL.
func (win *Window) Close() (err error) {
	if win.renderer != nil {
		err = win.renderer.Destroy()
		win.renderer = nil
	}

	if win.window != nil {
		err = errors.Join(err, win.window.Destroy())
		win.window = nil
	}

	sdl.Quit()

	return
}
