// Package display implements the 64x32 monochrome framebuffer.
package display

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

const (
	WIDTH  = 64 // Framebuffer width in pixels.
	HEIGHT = 32 // Framebuffer height in pixels.
)

var _display_defines = map[string]string{
	"SCREEN_WIDTH":  fmt.Sprintf("%d", WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%d", HEIGHT),
}

// Framebuffer holds one bit per pixel.
// All coordinates wrap modulo WIDTH and HEIGHT.
type Framebuffer struct {
	pixel      [HEIGHT][WIDTH]uint8
	generation uint64
}

// Defines returns the assembler equates for the display.
func (fb *Framebuffer) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// Clear sets every pixel to 0.
func (fb *Framebuffer) Clear() {
	clear(fb.pixel[:])
	fb.generation++
}

// Pixel returns the pixel at (x, y), 0 or 1.
func (fb *Framebuffer) Pixel(x, y int) uint8 {
	return fb.pixel[wrap(y, HEIGHT)][wrap(x, WIDTH)]
}

// SetPixel sets the pixel at (x, y). Any non-zero value is stored as 1.
func (fb *Framebuffer) SetPixel(x, y int, value uint8) {
	if value != 0 {
		value = 1
	}

	row := &fb.pixel[wrap(y, HEIGHT)]
	col := wrap(x, WIDTH)
	if row[col] != value {
		row[col] = value
		fb.generation++
	}
}

// Generation changes every time the framebuffer contents change.
func (fb *Framebuffer) Generation() uint64 {
	return fb.generation
}

// Rows iterates over the framebuffer, top to bottom.
func (fb *Framebuffer) Rows() iter.Seq2[int, []uint8] {
	return func(yield func(y int, row []uint8) bool) {
		for y := range HEIGHT {
			if !yield(y, fb.pixel[y][:]) {
				return
			}
		}
	}
}

// String renders the framebuffer as text, '#' for set pixels and '.' for clear.
func (fb *Framebuffer) String() string {
	var text strings.Builder

	for _, row := range fb.Rows() {
		for _, value := range row {
			if value != 0 {
				text.WriteByte('#')
			} else {
				text.WriteByte('.')
			}
		}
		text.WriteByte('\n')
	}

	return text.String()
}

func wrap(value, limit int) int {
	value %= limit
	if value < 0 {
		value += limit
	}
	return value
}
