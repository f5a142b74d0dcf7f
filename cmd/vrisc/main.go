// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/vrisc/cpu"
	"github.com/ezrec/vrisc/emulator"
	"github.com/ezrec/vrisc/internal"
	"github.com/ezrec/vrisc/io"
	"github.com/ezrec/vrisc/microcode"
)

//go:embed fibonacci.txt
var fibonacci string

func main() {
	var ucode string
	var images string
	var write string
	var program string
	var cycles int
	var list bool
	var defines bool
	var verbose bool

	flag.StringVar(&ucode, "m", "", ".star microcode file to compile")
	flag.StringVar(&images, "e", "", "directory of ee0.bin/ee1.bin control images to run")
	flag.StringVar(&write, "w", "", "Write compiled control images to directory, do not execute")
	flag.StringVar(&program, "p", "", "Program memory image")
	flag.IntVar(&cycles, "n", emulator.DEFAULT_CYCLES, "Instruction cycles to run")
	flag.BoolVar(&list, "l", false, "List the microcode, do not execute")
	flag.BoolVar(&defines, "d", false, "List the predefined microcode symbols, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	// Compile a new microcode table.
	tbl := microcode.Default()
	if len(ucode) != 0 {
		inf, err := os.Open(ucode)
		if err != nil {
			log.Fatalf("%v: %v", ucode, err)
		}
		defer inf.Close()

		cc := &microcode.Compiler{Verbose: verbose}
		tbl, err = cc.Compile(ucode, inf)
		if err != nil {
			log.Fatalf("%v: %v", ucode, err)
		}
	}

	if defines {
		cc := &microcode.Compiler{}
		for key, value := range internal.IterSeq2Sorted(cc.Defines()) {
			fmt.Printf("%-12s 0x%04x\n", key, value)
		}
		return
	}

	if list {
		for code := range cpu.OPCODES {
			inst := &tbl.Instruction[code]
			for flags, steps := range inst.Flags {
				fmt.Printf("%X %-4s %02b: %v\n", code, inst.Name, flags, steps)
			}
		}
		return
	}

	if len(write) != 0 {
		img := tbl.Images()
		err := img.Marshal(io.DirFS(write))
		if err != nil {
			log.Fatalf("%v: %v", write, err)
		}
		return
	}

	var emu *emulator.Emulator
	if len(images) != 0 {
		img := &io.Images{}
		err := img.Unmarshal(os.DirFS(images))
		if err != nil {
			log.Fatalf("%v: %v", images, err)
		}
		rom, err := microcode.NewRom(img.Low, img.High)
		if err != nil {
			log.Fatalf("%v: %v", images, err)
		}
		emu = emulator.NewEmulatorSource(rom)
	} else {
		emu = emulator.NewEmulator(tbl)
	}
	emu.Verbose = verbose
	emu.Tape.Output = os.Stdout

	var prog *cpu.Program
	var err error
	if len(program) != 0 {
		inf, err := os.Open(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		defer inf.Close()

		prog, err = cpu.ParseProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	} else {
		prog, err = cpu.ParseProgram(strings.NewReader(fibonacci))
		if err != nil {
			log.Fatalf("fibonacci: %v", err)
		}
	}
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	done, err := emu.Run(cycles)
	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	if verbose {
		log.Printf("vrisc: %d cycles, halted %v", emu.Cpu.Cycles, done)
	}
}
