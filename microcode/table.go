package microcode

import (
	"fmt"

	"github.com/ezrec/vrisc/cpu"
	"github.com/ezrec/vrisc/io"
)

// Flag combinations, as selected by the zero and carry flags.
const (
	FLAGS_NONE  = 0b00
	FLAGS_CARRY = 0b01
	FLAGS_ZERO  = 0b10
	FLAGS_BOTH  = 0b11
	FLAGS_COUNT = 4
)

// Steps is the micro-program of one instruction for one flag combination.
type Steps [cpu.STEPS]cpu.ControlWord

// Instruction is the micro-program of an opcode, selected by the flags.
type Instruction struct {
	Name  string
	Flags [FLAGS_COUNT]Steps
}

// Table is a complete, active-high microcode table.
type Table struct {
	Instruction [cpu.OPCODES]Instruction
}

func flagsOf(zero bool, carry bool) (flags int) {
	if zero {
		flags |= FLAGS_ZERO
	}
	if carry {
		flags |= FLAGS_CARRY
	}
	return
}

// Word returns the active-high control word for a micro-step.
func (tbl *Table) Word(zero bool, carry bool, opcode uint8, step int) cpu.ControlWord {
	return tbl.Instruction[opcode&(cpu.OPCODES-1)].Flags[flagsOf(zero, carry)][step&(cpu.STEPS-1)]
}

// Name returns the mnemonic of an opcode.
func (tbl *Table) Name(opcode uint8) string {
	return tbl.Instruction[opcode&(cpu.OPCODES-1)].Name
}

// Disassemble renders a memory byte as an instruction and immediate.
func (tbl *Table) Disassemble(value uint8) string {
	return fmt.Sprintf("%v %X", tbl.Name(value>>4), value&0xf)
}

// Images renders the stored control images, laid out by cpu.Index.
// Image address bit 7 is never driven by the CPU, and mirrors the lower half.
func (tbl *Table) Images() (img io.Images) {
	img.Low = make([]byte, cpu.TABLE_SIZE)
	img.High = make([]byte, cpu.TABLE_SIZE)

	for index := range cpu.TABLE_SIZE {
		zero := (index>>9)&1 != 0
		carry := (index>>8)&1 != 0
		opcode := uint8((index >> 3) & 0xf)
		step := index & (cpu.STEPS - 1)

		stored := uint16(tbl.Word(zero, carry, opcode, step).Stored())
		img.Low[index] = uint8(stored >> 0)
		img.High[index] = uint8(stored >> 8)
	}

	return
}

// Rom returns a control source for the table.
func (tbl *Table) Rom() (rom *Rom) {
	img := tbl.Images()

	rom, err := NewRom(img.Low, img.High)
	if err != nil {
		panic(err)
	}

	return
}
