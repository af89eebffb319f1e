package config

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

type ErrFrontend string

func (err ErrFrontend) Error() string {
	return f("'%v' is not a front end", string(err))
}

type ErrUnknownKey string

func (err ErrUnknownKey) Error() string {
	return f("unknown key '%v'", string(err))
}

type ErrValue struct {
	Key   string
	Value int
}

func (err ErrValue) Error() string {
	return f("%v: %d must be positive", err.Key, err.Value)
}

// ErrQuirk wraps an invalid quirk policy.
type ErrQuirk struct {
	Key string
	Err error
}

func (err *ErrQuirk) Error() string {
	return f("quirks.%v: %v", err.Key, err.Err)
}

func (err *ErrQuirk) Unwrap() error {
	return err.Err
}

// ErrKeymap wraps an invalid keymap entry.
type ErrKeymap struct {
	Name string
	Err  error
}

func (err *ErrKeymap) Error() string {
	return f("keymap.%v: %v", err.Name, err.Err)
}

func (err *ErrKeymap) Unwrap() error {
	return err.Err
}

// ErrFile indicates the configuration file that failed.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
