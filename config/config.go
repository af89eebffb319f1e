// Package config reads the TOML configuration of the chip8 machine.
package config

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/keypad"
)

const (
	FRONTEND_TERM = "term"
	FRONTEND_SDL  = "sdl"
	FRONTEND_NONE = "none"

	SCALE = 10 // Default SDL window scale.
)

var frontends = []string{FRONTEND_TERM, FRONTEND_SDL, FRONTEND_NONE}

type Rate struct {
	Hz int `toml:"hz"`
}

type Display struct {
	Scale int `toml:"scale"`
}

type Quirks struct {
	StackUnderflow string `toml:"stack_underflow"`
	IndexIncrement string `toml:"index_increment"`
	LogicResetsVF  bool   `toml:"logic_resets_vf"`
}

// Config is the contents of a configuration file.
// An empty Keymap selects keypad.DefaultKeymap.
type Config struct {
	Frontend string            `toml:"frontend"`
	Cpu      Rate              `toml:"cpu"`
	Timer    Rate              `toml:"timer"`
	Display  Display           `toml:"display"`
	Quirks   Quirks            `toml:"quirks"`
	Keymap   map[string]string `toml:"keymap"`
}

// Default returns the configuration used when no file is given.
func Default() (cfg *Config) {
	quirks := cpu.DefaultQuirks()

	cfg = &Config{
		Frontend: FRONTEND_TERM,
		Cpu:      Rate{Hz: emulator.CPU_HZ},
		Timer:    Rate{Hz: emulator.TIMER_HZ},
		Display:  Display{Scale: SCALE},
		Quirks: Quirks{
			StackUnderflow: quirks.StackUnderflow.String(),
			IndexIncrement: quirks.IndexIncrement.String(),
			LogicResetsVF:  quirks.LogicResetsVF,
		},
	}

	return
}

// Decode reads a configuration over the defaults.
func Decode(input io.Reader) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.NewDecoder(input).Decode(cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = ErrUnknownKey(undecoded[0].String())
		return
	}

	err = cfg.Validate()

	return
}

// Load reads a configuration file.
func Load(path string) (cfg *Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	cfg, err = Decode(inf)
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
		return
	}

	return
}

// Validate checks that every field holds a usable value.
func (cfg *Config) Validate() (err error) {
	if !slices.Contains(frontends, cfg.Frontend) {
		err = ErrFrontend(cfg.Frontend)
		return
	}

	for name, value := range map[string]int{
		"cpu.hz":        cfg.Cpu.Hz,
		"timer.hz":      cfg.Timer.Hz,
		"display.scale": cfg.Display.Scale,
	} {
		if value <= 0 {
			err = ErrValue{Key: name, Value: value}
			return
		}
	}

	_, err = cfg.CpuQuirks()
	if err != nil {
		return
	}

	_, err = cfg.HostKeymap()

	return
}

// CpuQuirks returns the interpreter quirks.
func (cfg *Config) CpuQuirks() (quirks cpu.Quirks, err error) {
	quirks.StackUnderflow, err = cpu.ParseStackUnderflow(cfg.Quirks.StackUnderflow)
	if err != nil {
		err = &ErrQuirk{Key: "stack_underflow", Err: err}
		return
	}

	quirks.IndexIncrement, err = cpu.ParseIndexIncrement(cfg.Quirks.IndexIncrement)
	if err != nil {
		err = &ErrQuirk{Key: "index_increment", Err: err}
		return
	}

	quirks.LogicResetsVF = cfg.Quirks.LogicResetsVF

	return
}

// HostKeymap returns the translation of host key names to keypad keys.
func (cfg *Config) HostKeymap() (km keypad.Keymap, err error) {
	if len(cfg.Keymap) == 0 {
		km = keypad.DefaultKeymap()
		return
	}

	km = keypad.Keymap{}
	for name, text := range cfg.Keymap {
		var key keypad.Key
		key, err = keypad.ParseKey(text)
		if err != nil {
			err = &ErrKeymap{Name: name, Err: err}
			return
		}
		km[strings.ToUpper(name)] = key
	}

	return
}

// Apply sets the rates and quirks of an emulator.
func (cfg *Config) Apply(emu *emulator.Emulator) (err error) {
	quirks, err := cfg.CpuQuirks()
	if err != nil {
		return
	}

	emu.CpuHz = cfg.Cpu.Hz
	emu.TimerHz = cfg.Timer.Hz
	emu.Cpu.Quirks = quirks

	return
}
