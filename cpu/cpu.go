package cpu

import (
	"fmt"
	"log"
	"os"

	"github.com/ezrec/vrisc/io"
)

// Channel is the output register device interface.
type Channel io.Channel

// Source supplies raw (stored, active-low) control words by image index.
type Source interface {
	Word(index int) (word uint16, err error)
}

// Cpu is the simulation context for the breadboard CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Source Source  // Control word source.
	Output Channel // Output register device.

	A uint8 // Accumulator.
	B uint8 // ALU second operand.
	I uint8 // Instruction register.
	M uint8 // Memory address register.
	C uint8 // Program counter.

	Carry bool // Carry flag.
	Zero  bool // Zero flag.

	Memory [MEMORY_SIZE]uint8 // Main memory.

	Cycles int // Completed instruction cycles.
}

// NewCpu creates a new CPU, fetching control words from 'source'.
// Output is sent to standard output until replaced.
func NewCpu(source Source) (cpu *Cpu) {
	cpu = &Cpu{
		Source: source,
		Output: &io.Tape{Output: os.Stdout},
	}

	return
}

// Reset clears the registers, flags and cycle counter. Memory is preserved.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.B = 0
	cpu.I = 0
	cpu.M = 0
	cpu.C = 0
	cpu.Carry = false
	cpu.Zero = false
	cpu.Cycles = 0

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load replaces memory with 'image', zero filling past its end.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > len(cpu.Memory) {
		err = ErrImageSize
		return
	}

	clear(cpu.Memory[:])
	copy(cpu.Memory[:], image)

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"a", "b", "i", "m", "c", "flags", "mem"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "b":
			strval = fmt.Sprintf("%02X", cpu.B)
		case "i":
			strval = fmt.Sprintf("%X_%X", cpu.I>>4, cpu.I&0xf)
		case "m":
			strval = fmt.Sprintf("%X", cpu.M)
		case "c":
			strval = fmt.Sprintf("%X", cpu.C)
		case "flags":
			strval = "--"
			if cpu.Zero {
				strval = "z" + strval[1:]
			}
			if cpu.Carry {
				strval = strval[:1] + "c"
			}
		case "mem":
			strval = fmt.Sprintf("% X", cpu.Memory[:])
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// alu returns the sum, or difference if 'subtract' is set, of A and B.
func (cpu *Cpu) alu(subtract bool) (output uint8) {
	if subtract {
		output = cpu.A - cpu.B
	} else {
		output = cpu.A + cpu.B
	}

	return
}

// Apply applies a single active-high control word to the CPU state.
func (cpu *Cpu) Apply(word ControlWord) (err error) {
	err = cpu.apply(word)
	if err != nil {
		err = &ErrControl{Word: word, Err: err}
	}

	return
}

// apply evaluates the control lines in hardware order:
//   - HLT stops before anything else happens.
//   - The bus drivers, of which at most one may be asserted.
//   - The bus consumers, all of which require a driven bus.
//   - CE, independent of the bus.
//   - FI, which has no effect.
func (cpu *Cpu) apply(word ControlWord) (err error) {
	var bus Bus

	if word.Has(UCODE_HLT) {
		err = ErrHaltAndCatchFire
		return
	}

	drivers := [...]struct {
		line  ControlWord
		value func() uint8
	}{
		{UCODE_RO, func() uint8 { return cpu.Memory[cpu.M&MEMORY_MASK] }},
		{UCODE_IO, func() uint8 { return cpu.I & 0xf }},
		{UCODE_AO, func() uint8 { return cpu.A }},
		{UCODE_EO, func() uint8 { return cpu.alu(word.Has(UCODE_SU)) }},
		{UCODE_CO, func() uint8 { return cpu.C }},
	}

	for _, driver := range drivers {
		if !word.Has(driver.line) {
			continue
		}
		err = bus.Drive(driver.value())
		if err != nil {
			return
		}
	}

	consumers := [...]struct {
		line  ControlWord
		latch func(value uint8) error
	}{
		{UCODE_MI, func(value uint8) error { cpu.M = value & MEMORY_MASK; return nil }},
		{UCODE_RI, func(value uint8) error { cpu.Memory[cpu.M&MEMORY_MASK] = value; return nil }},
		{UCODE_II, func(value uint8) error { cpu.I = value; return nil }},
		{UCODE_AI, func(value uint8) error { cpu.A = value; return nil }},
		{UCODE_BI, func(value uint8) error { cpu.B = value; return nil }},
		{UCODE_OI, cpu.output},
		{UCODE_J, func(value uint8) error { cpu.C = value & MEMORY_MASK; return nil }},
	}

	for _, consumer := range consumers {
		if !word.Has(consumer.line) {
			continue
		}
		var value uint8
		value, err = bus.Value()
		if err != nil {
			return
		}
		err = consumer.latch(value)
		if err != nil {
			return
		}
	}

	if word.Has(UCODE_CE) {
		cpu.C = (cpu.C + 1) & MEMORY_MASK
	}

	// TODO: FI should latch carry and zero from the ALU once the flag
	// semantics of the hardware are settled. Until then it has no effect.

	return
}

// output sends a value to the output register device.
func (cpu *Cpu) output(value uint8) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: out %d", value)
	}

	if cpu.Output == nil {
		err = io.ErrChannelMissing
		return
	}

	err = cpu.Output.Send(value)
	return
}

// Step executes a single instruction cycle of STEPS micro-steps.
func (cpu *Cpu) Step() (err error) {
	if cpu.Source == nil {
		err = ErrSourceMissing
		return
	}

	for step := range STEPS {
		opcode := cpu.I >> 4
		index := Index(cpu.Zero, cpu.Carry, cpu.I, step)

		var stored uint16
		stored, err = cpu.Source.Word(index)
		if err == nil {
			word := ControlWord(stored).Stored()
			if cpu.Verbose {
				log.Printf("cpu: %x.%d: %v", opcode, step, word)
			}
			err = cpu.Apply(word)
		}
		if err != nil {
			err = &ErrMicrostep{Opcode: opcode, Step: step, Index: index, Err: err}
			return
		}
	}

	cpu.Cycles++

	return
}
