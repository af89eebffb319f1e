package term

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrNotTerminal = errors.New(f("standard input and output must be a terminal"))
)
