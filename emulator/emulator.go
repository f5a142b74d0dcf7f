// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs programs on the vrisc CPU.
package emulator

import (
	"errors"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vrisc/cpu"
	"github.com/ezrec/vrisc/internal"
	"github.com/ezrec/vrisc/io"
	"github.com/ezrec/vrisc/microcode"
)

const (
	DEFAULT_CYCLES = 64 // Instruction cycles run when no limit is given.
)

var _emulator_defines = map[string]int{
	"DEFAULT_CYCLES": DEFAULT_CYCLES,
}

// Emulator state. CPU + microcode + output tape.
type Emulator struct {
	Verbose   bool             // If set, enables verbose logging.
	*cpu.Cpu                   // Reference to the CPU simulation.
	Microcode *microcode.Table // Microcode listing, used for disassembly.
	Program   *cpu.Program     // Reference to the currently loaded program.

	Tape io.Tape // Output register.
}

// NewEmulator creates a new emulator running the microcode table.
func NewEmulator(tbl *microcode.Table) (emu *Emulator) {
	emu = NewEmulatorSource(tbl.Rom())
	emu.Microcode = tbl

	return
}

// NewEmulatorSource creates a new emulator from a raw control source,
// such as control images loaded from storage.
func NewEmulatorSource(source cpu.Source) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(source),
		Program: &cpu.Program{},
	}

	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines), cpu.Defines())
}

// Reset the CPU, and reload memory from the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())
	return
}

// Disassemble returns the instruction at an address, if the microcode is known.
func (emu *Emulator) Disassemble(addr uint8) string {
	value := emu.Cpu.Memory[addr&cpu.MEMORY_MASK]
	if emu.Microcode == nil {
		return "?"
	}

	return emu.Microcode.Disassemble(value)
}

// Tick performs a single instruction cycle of the emulator.
// A halted CPU is done, and is not an error.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	cycle := emu.Cpu.Cycles
	addr := emu.Cpu.C

	if emu.Verbose {
		log.Printf("emulator: %X: %v", addr, emu.Disassemble(addr))
	}

	err = emu.Cpu.Step()
	if errors.Is(err, cpu.ErrHaltAndCatchFire) {
		if emu.Verbose {
			log.Printf("emulator: halted after %d cycles", cycle)
		}
		err = nil
		done = true
		return
	}
	if err != nil {
		err = &ErrRuntime{Cycle: cycle, Address: addr, LineNo: emu.Program.Line(addr), Err: err}
		return
	}

	return
}

// Run ticks until the CPU halts, or 'cycles' instruction cycles have completed.
func (emu *Emulator) Run(cycles int) (done bool, err error) {
	for range cycles {
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	return
}
