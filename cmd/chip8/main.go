// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/frontend/sdl"
	"github.com/ezrec/chip8/frontend/term"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/translate"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("chip8: ")
}

func main() {
	var compile string
	var output string
	var disasm bool
	var defines bool
	var configFile string
	var frontend string
	var hz int
	var scale int
	var frames int
	var seed uint64
	var stats bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&output, "o", "", "Write the program image to a .ch8 file, do not execute")
	flag.BoolVar(&disasm, "d", false, "Disassemble the program image, do not execute")
	flag.BoolVar(&defines, "defines", false, "List the predefined assembler equates")
	flag.StringVar(&configFile, "config", "", ".toml configuration file")
	flag.StringVar(&frontend, "frontend", "", "Front end: term, sdl or none")
	flag.IntVar(&hz, "hz", 0, "Instructions per second")
	flag.IntVar(&scale, "scale", 0, "SDL window scale")
	flag.IntVar(&frames, "frames", 0, "With '-frontend none', stop after this many frames")
	flag.Uint64Var(&seed, "seed", 0, "Random number seed")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics at "+statsAddress+statsUrl)
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() > 1 || (flag.NArg() == 1 && len(compile) != 0) {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(frontend) != 0 {
		cfg.Frontend = frontend
	}
	if hz != 0 {
		cfg.Cpu.Hz = hz
	}
	if scale != 0 {
		cfg.Display.Scale = scale
	}

	err := cfg.Validate()
	if err != nil {
		log.Fatal(err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	err = cfg.Apply(emu)
	if err != nil {
		log.Fatal(err)
	}

	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			emu.Cpu.Seed(seed)
		}
	})

	if defines {
		for key, value := range internal.Sorted2(emu.Defines()) {
			fmt.Printf(".equ %v %v\n", key, value)
		}
		return
	}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		err = emu.Assemble(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		rom := flag.Arg(0)
		inf, err := os.Open(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		err = emu.LoadRom(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	default:
		log.Fatalf("%v: No program given", os.Args[0])
	}

	if len(output) != 0 || disasm {
		if len(output) != 0 {
			err = os.WriteFile(output, emu.Image(), 0o644)
			if err != nil {
				log.Fatal(err)
			}
		}
		if disasm {
			err = cpu.Disassemble(os.Stdout, emu.Image(), memory.PROGRAM_START)
			if err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if stats {
		launchStats()
	}

	km, err := cfg.HostKeymap()
	if err != nil {
		log.Fatal(err)
	}

	var fe emulator.Frontend
	switch cfg.Frontend {
	case config.FRONTEND_NONE:
		fe = &emulator.Headless{Frames: frames}
	case config.FRONTEND_TERM:
		tm, err := term.Open(km)
		if err != nil {
			log.Fatal(err)
		}
		tm.Verbose = verbose
		fe = tm
	case config.FRONTEND_SDL:
		runtime.LockOSThread()
		win, err := sdl.Open(cfg.Display.Scale, km)
		if err != nil {
			log.Fatal(err)
		}
		win.Verbose = verbose
		fe = win
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = emu.Run(ctx, fe)
	stop()

	cerr := fe.Close()
	if err != nil {
		log.Fatal(err)
	}
	if cerr != nil {
		log.Fatal(cerr)
	}

	if cfg.Frontend == config.FRONTEND_NONE {
		fmt.Print(emu.Cpu.Display.String())
	}

	log.Printf("%v instructions, %v frames, %v bad opcodes",
		translate.Number(emu.Cpu.Ticks),
		translate.Number(emu.Frames),
		translate.Number(emu.BadOpcodes))
}
