package microcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/vrisc/cpu"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	tbl := Default()
	assert.NotNil(tbl)

	fetch := Steps{cpu.UCODE_MI | cpu.UCODE_CO, cpu.UCODE_RO | cpu.UCODE_II | cpu.UCODE_CE}

	names := []string{
		"NOP", "HCF", "OUT", "-", "TIA", "-", "TRA", "TAR",
		"ADD", "SUB", "-", "-", "BRA", "BRR", "BCS", "BZS",
	}
	for code, name := range names {
		assert.Equal(name, tbl.Name(uint8(code)))
		for flags := range FLAGS_COUNT {
			steps := tbl.Instruction[code].Flags[flags]
			assert.Equal(fetch[0], steps[0], name)
			assert.Equal(fetch[1], steps[1], name)
		}
	}

	add := tbl.Instruction[0x8].Flags[FLAGS_NONE]
	assert.Equal(Steps{
		fetch[0], fetch[1],
		cpu.UCODE_IO | cpu.UCODE_MI,
		cpu.UCODE_RO | cpu.UCODE_BI,
		cpu.UCODE_EO | cpu.UCODE_AI | cpu.UCODE_FI,
	}, add)

	sub := tbl.Instruction[0x9].Flags[FLAGS_NONE]
	assert.True(sub[4].Has(cpu.UCODE_SU))

	jump := Steps{fetch[0], fetch[1], cpu.UCODE_IO | cpu.UCODE_J}

	bcs := tbl.Instruction[0xe]
	assert.Equal(fetch, bcs.Flags[FLAGS_NONE])
	assert.Equal(jump, bcs.Flags[FLAGS_CARRY])
	assert.Equal(fetch, bcs.Flags[FLAGS_ZERO])
	assert.Equal(jump, bcs.Flags[FLAGS_BOTH])

	bzs := tbl.Instruction[0xf]
	assert.Equal(fetch, bzs.Flags[FLAGS_NONE])
	assert.Equal(fetch, bzs.Flags[FLAGS_CARRY])
	assert.Equal(jump, bzs.Flags[FLAGS_ZERO])
	assert.Equal(jump, bzs.Flags[FLAGS_BOTH])

	// The same table every time.
	assert.Same(tbl, Default())
}

func TestCompile_Overrides(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"op(0, 'A', [AO])",
		"op(1, 'B', [AO], carry = [BI], zero = [AI])",
		"op(2, 'C', [AO], carry = [BI])",
		"op(3, 'D', [AO], carry = [BI], zero = [AI], both = [MI])",
		"op(OPCODES - 1, 'E', [CE] * STEPS)",
	}

	tbl, err := Compile("overrides", strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expect := func(code int, flags [FLAGS_COUNT]cpu.ControlWord) {
		for n, word := range flags {
			assert.Equal(word, tbl.Instruction[code].Flags[n][0], "op %d flags %d", code, n)
		}
	}

	expect(0, [FLAGS_COUNT]cpu.ControlWord{cpu.UCODE_AO, cpu.UCODE_AO, cpu.UCODE_AO, cpu.UCODE_AO})
	expect(1, [FLAGS_COUNT]cpu.ControlWord{cpu.UCODE_AO, cpu.UCODE_BI, cpu.UCODE_AI, cpu.UCODE_AI})
	expect(2, [FLAGS_COUNT]cpu.ControlWord{cpu.UCODE_AO, cpu.UCODE_BI, cpu.UCODE_AO, cpu.UCODE_BI})
	expect(3, [FLAGS_COUNT]cpu.ControlWord{cpu.UCODE_AO, cpu.UCODE_BI, cpu.UCODE_AI, cpu.UCODE_MI})

	for step := range cpu.STEPS {
		assert.Equal(cpu.UCODE_CE, tbl.Instruction[0xf].Flags[FLAGS_BOTH][step])
	}

	// No 'fetch' global, so undefined opcodes do nothing.
	assert.Equal("-", tbl.Name(4))
	assert.Equal(Steps{}, tbl.Instruction[4].Flags[FLAGS_NONE])
}

func TestCompile_Predefine(t *testing.T) {
	assert := assert.New(t)

	cc := &Compiler{}
	cc.Predefine("LOAD", int(cpu.UCODE_IO|cpu.UCODE_AI))
	cc.Predefine("LOAD", int(cpu.UCODE_IO|cpu.UCODE_BI))

	tbl, err := cc.Compile("predefine", strings.NewReader("op(5, 'LDB', [LOAD])"))
	assert.NoError(err)
	if err == nil {
		assert.Equal(cpu.UCODE_IO|cpu.UCODE_BI, tbl.Word(false, false, 5, 0))
	}

	defines := map[string]int{}
	for key, value := range cc.Defines() {
		defines[key] = value
	}
	assert.Equal(int(cpu.UCODE_HLT), defines["HLT"])
	assert.Equal(FLAGS_BOTH, defines["FLAGS_BOTH"])
	assert.Equal(int(cpu.UCODE_IO|cpu.UCODE_BI), defines["LOAD"])
}

func TestCompile_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program string
		err     error
	}){
		{"range_low", "op(-1, 'X', [])", ErrOpRange},
		{"range_high", "op(16, 'X', [])", ErrOpRange},
		{"duplicate", "op(1, 'X', [])\nop(1, 'Y', [])", ErrOpDuplicate},
		{"name_empty", "op(1, '', [])", ErrOpName},
		{"name_space", "op(1, 'A B', [])", ErrOpName},
		{"long", "op(1, 'X', [0] * 9)", ErrStepsLong},
		{"not_list", "op(1, 'X', 5)", ErrStepValue},
		{"not_int", "op(1, 'X', ['AO'])", ErrStepValue},
		{"too_wide", "op(1, 'X', [0x10000])", ErrStepValue},
		{"negative", "op(1, 'X', [-1])", ErrStepValue},
		{"carry_long", "op(1, 'X', [], carry = [0] * 9)", ErrStepsLong},
		{"fetch_long", "fetch = [0] * 9", ErrStepsLong},
		{"fetch_type", "fetch = 'MI'", ErrStepValue},
	}

	for _, entry := range table {
		tbl, err := Compile(entry.name, strings.NewReader(entry.program))
		assert.Nil(tbl, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var es *ErrScript
		assert.True(errors.As(err, &es), entry.name)
		if es != nil {
			assert.Equal(entry.name, es.Name)
		}
	}
}

func TestCompile_Syntax(t *testing.T) {
	assert := assert.New(t)

	for _, program := range []string{
		"op(",
		"op(1, 'X')",
		"op(1, 'X', [], bogus = 1)",
		"UNDEFINED_LINE",
	} {
		tbl, err := Compile("syntax", strings.NewReader(program))
		assert.Nil(tbl, program)
		assert.Error(err, program)
	}
}
