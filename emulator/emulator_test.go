package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/vrisc/cpu"
	"github.com/ezrec/vrisc/microcode"
)

// fibonacci prints the Fibonacci sequence, modulo 256.
var fibonacci = []string{
	"0b0100_0001 ; TIA 1",
	"0b0111_1111 ; TAR F",
	"0b0100_0000 ; TIA 0",
	"0b0111_1110 ; TAR E",
	"0b0010_0000 ; OUT",
	"0b1000_1111 ; ADD F",
	"0b0111_1111 ; TAR F",
	"0b0010_0000 ; OUT",
	"0b1000_1110 ; ADD E",
	"0b0111_1110 ; TAR E",
	"0b1100_0100 ; BRA 4",
}

func doRun(emu *Emulator, program []string, cycles int, t *testing.T) (output string, done bool, err error) {
	assert := assert.New(t)

	prog, err := cpu.ParseProgram(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Reset()
	assert.NoError(err)

	done, err = emu.Run(cycles)
	output = tape_output.String()
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Same(&emu.Tape, emu.Cpu.Output)

	defs := maps.Collect(emu.Defines())
	assert.Equal(DEFAULT_CYCLES, defs["DEFAULT_CYCLES"])
	assert.Equal(int(cpu.UCODE_HLT), defs["HLT"])
}

func TestEmulator_Fibonacci(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	output, done, err := doRun(emu, fibonacci, DEFAULT_CYCLES, t)
	assert.NoError(err)
	assert.False(done)
	assert.Equal(DEFAULT_CYCLES, emu.Cpu.Cycles)

	var expected string
	for _, value := range []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 121, 98, 219, 61} {
		expected += fmt.Sprintf("out %d\n", value)
	}
	assert.Equal(expected, output)

	// Data cells hold the last two sums.
	assert.Equal(uint8(61), emu.Cpu.Memory[0xf])
	assert.Equal(uint8(219), emu.Cpu.Memory[0xe])
	assert.Equal(uint8(61), emu.Cpu.A)
}

func TestEmulator_Deterministic(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	output1, _, err := doRun(emu, fibonacci, 100, t)
	assert.NoError(err)
	state1 := emu.Cpu.String()

	output2, _, err := doRun(emu, fibonacci, 100, t)
	assert.NoError(err)
	state2 := emu.Cpu.String()

	assert.Equal(output1, output2)
	assert.Equal(state1, state2)
}

func TestEmulator_LoadImmediate(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	// TIA 9
	output, done, err := doRun(emu, []string{"0x49"}, 1, t)
	assert.NoError(err)
	assert.False(done)
	assert.Equal("", output)
	assert.Equal(uint8(9), emu.Cpu.A)
	assert.Equal(uint8(1), emu.Cpu.C)
	assert.Equal(uint8(0), emu.Cpu.M)

	// OUT
	emu.Cpu.Memory[1] = 0x20
	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(1, emu.Tape.Count)
	assert.Equal(uint8(2), emu.Cpu.C)
	assert.Equal(uint8(1), emu.Cpu.M)
}

func TestEmulator_Halt(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	output, done, err := doRun(emu, []string{"0x4c 0x20 0x10 0x20"}, DEFAULT_CYCLES, t)
	assert.NoError(err)
	assert.True(done)
	assert.Equal("out 12\n", output)
	assert.Equal(2, emu.Cpu.Cycles)
	assert.Equal(uint8(3), emu.Cpu.C)

	// Reset restarts the program.
	assert.NoError(emu.Reset())
	assert.Equal(uint8(0), emu.Cpu.C)
	assert.Equal(0, emu.Tape.Count)
}

func TestEmulator_Subtract(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	program := []string{
		"0x43 ; TIA 3",
		"0x9f ; SUB F",
		"0x20 ; OUT",
		"0x10 ; HCF",
		"0 0 0 0 0 0 0 0 0 0 0",
		"5",
	}

	output, done, err := doRun(emu, program, DEFAULT_CYCLES, t)
	assert.NoError(err)
	assert.True(done)
	assert.Equal("out 254\n", output)

	// Flags are never written, even by FI.
	assert.False(emu.Cpu.Carry)
	assert.False(emu.Cpu.Zero)
}

func TestEmulator_Branches(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(microcode.Default())

	program := []string{
		"0xe5 ; BCS 5",
		"0xf5 ; BZS 5",
		"0x47 ; TIA 7",
		"0xd0 ; BRR",
		"0x10 ; HCF",
		"0x20 ; OUT",
		"0x10 ; HCF",
		"0x20 ; OUT",
		"0x10 ; HCF",
	}

	output, done, err := doRun(emu, program, DEFAULT_CYCLES, t)
	assert.NoError(err)
	assert.True(done)
	assert.Equal("out 7\n", output)
	assert.Equal(uint8(9), emu.Cpu.C)
}

func TestEmulator_Contention(t *testing.T) {
	assert := assert.New(t)

	tbl, err := microcode.Compile("bad", strings.NewReader(strings.Join([]string{
		"fetch = [MI | CO, RO | II | CE]",
		"op(0x3, 'BAD', fetch + [AO | CO | BI])",
	}, "\n")))
	assert.NoError(err)

	emu := NewEmulator(tbl)

	output, done, err := doRun(emu, []string{"0 0x30 0"}, DEFAULT_CYCLES, t)
	assert.False(done)
	assert.Equal("", output)
	assert.ErrorIs(err, cpu.ErrBusContention)

	var er *ErrRuntime
	assert.True(errors.As(err, &er))
	if er != nil {
		assert.Equal(1, er.Cycle)
		assert.Equal(uint8(1), er.Address)
		assert.Equal(1, er.LineNo)
	}

	var em *cpu.ErrMicrostep
	assert.True(errors.As(err, &em))
	if em != nil {
		assert.Equal(2, em.Step)
	}
}

func TestEmulator_Images(t *testing.T) {
	assert := assert.New(t)

	// A CPU fed from the stored images behaves as one fed from the table.
	img := microcode.Default().Images()
	rom, err := microcode.NewRom(img.Low, img.High)
	assert.NoError(err)

	emu := NewEmulatorSource(rom)
	assert.Equal("?", emu.Disassemble(0))

	output, _, err := doRun(emu, fibonacci, 20, t)
	assert.NoError(err)
	assert.True(strings.HasPrefix(output, "out 0\nout 1\nout 1\nout 2\n"), output)
}
