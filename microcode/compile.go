// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package microcode

import (
	_ "embed"
	"io"
	"iter"
	"log"
	"maps"
	"strings"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/vrisc/cpu"
	"github.com/ezrec/vrisc/internal"
)

//go:embed vrisc.star
var defaultSource string

// Predefined flag combination indexes.
var sysDefine = map[string]int{
	"FLAGS_NONE":  FLAGS_NONE,
	"FLAGS_CARRY": FLAGS_CARRY,
	"FLAGS_ZERO":  FLAGS_ZERO,
	"FLAGS_BOTH":  FLAGS_BOTH,
}

// Compiler builds microcode tables from Starlark descriptions.
type Compiler struct {
	Verbose bool // If set, logs each instruction as it is defined.

	predefine map[string]int
}

// Predefine defines, or redefines, a predeclared integer.
func (cc *Compiler) Predefine(name string, value int) {
	if cc.predefine == nil {
		cc.predefine = map[string]int{name: value}
	} else {
		cc.predefine[name] = value
	}
}

// Defines returns an iterator over all predeclared integers.
func (cc *Compiler) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(cpu.Defines(), maps.All(sysDefine), maps.All(cc.predefine))
}

// compilation is the state of a single Compile.
type compilation struct {
	*Compiler
	table   Table
	defined [cpu.OPCODES]bool
	err     error // First error raised by a builtin.
}

// toSteps converts a Starlark list of integers into a micro-program.
func toSteps(value starlark.Value) (steps Steps, err error) {
	list, ok := value.(*starlark.List)
	if !ok {
		err = ErrStepValue
		return
	}

	if list.Len() > len(steps) {
		err = ErrStepsLong
		return
	}

	for n := range list.Len() {
		st_int, ok := list.Index(n).(starlark.Int)
		if !ok {
			err = ErrStepValue
			return
		}
		st_int64, ok := st_int.Int64()
		if !ok || st_int64 < 0 || st_int64 > 0xffff {
			err = ErrStepValue
			return
		}
		steps[n] = cpu.ControlWord(st_int64)
	}

	return
}

// isNone returns true for an omitted or None keyword argument.
func isNone(value starlark.Value) bool {
	return value == nil || value == starlark.None
}

// op implements the op(code, name, steps, carry=None, zero=None, both=None) builtin.
func (cm *compilation) op(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	defer func() {
		if err != nil && cm.err == nil {
			cm.err = err
		}
	}()

	var code int
	var name string
	var st_steps, st_carry, st_zero, st_both starlark.Value

	err = starlark.UnpackArgs(b.Name(), args, kwargs,
		"code", &code,
		"name", &name,
		"steps", &st_steps,
		"carry?", &st_carry,
		"zero?", &st_zero,
		"both?", &st_both,
	)
	if err != nil {
		return
	}

	if code < 0 || code >= cpu.OPCODES {
		err = ErrOpRange
		return
	}

	if cm.defined[code] {
		err = ErrOpDuplicate
		return
	}

	if len(name) == 0 || strings.ContainsAny(name, " \t\n") {
		err = ErrOpName
		return
	}

	var inst Instruction
	inst.Name = name

	steps, err := toSteps(st_steps)
	if err != nil {
		return
	}

	carry := steps
	if !isNone(st_carry) {
		carry, err = toSteps(st_carry)
		if err != nil {
			return
		}
	}

	zero := steps
	if !isNone(st_zero) {
		zero, err = toSteps(st_zero)
		if err != nil {
			return
		}
	}

	// With both flags set, the zero override wins over the carry override.
	both := steps
	switch {
	case !isNone(st_both):
		both, err = toSteps(st_both)
		if err != nil {
			return
		}
	case !isNone(st_zero):
		both = zero
	case !isNone(st_carry):
		both = carry
	}

	inst.Flags[FLAGS_NONE] = steps
	inst.Flags[FLAGS_CARRY] = carry
	inst.Flags[FLAGS_ZERO] = zero
	inst.Flags[FLAGS_BOTH] = both

	if cm.Verbose {
		log.Printf("microcode: %X %v: %v", code, name, steps)
	}

	cm.table.Instruction[code] = inst
	cm.defined[code] = true

	value = starlark.None
	return
}

// Compile runs a microcode description, returning the table it defines.
func (cc *Compiler) Compile(name string, input io.Reader) (tbl *Table, err error) {
	defer func() {
		if err != nil {
			err = &ErrScript{Name: name, Err: err}
		}
	}()

	cm := &compilation{Compiler: cc}

	pred := starlark.StringDict{}
	for key, value := range cc.Defines() {
		pred[key] = starlark.MakeInt(value)
	}
	pred["op"] = starlark.NewBuiltin("op", cm.op)

	thread := &starlark.Thread{Name: name}
	thread.Print = func(_ *starlark.Thread, msg string) {
		log.Printf("microcode: %v: %v", name, msg)
	}

	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, name, input, pred)
	if err != nil {
		if cm.err != nil {
			err = cm.err
		}
		return
	}

	// Undefined opcodes only fetch.
	var fetch Steps
	st_fetch, ok := globals["fetch"]
	if ok {
		fetch, err = toSteps(st_fetch)
		if err != nil {
			return
		}
	}

	for code, defined := range cm.defined {
		if defined {
			continue
		}
		inst := &cm.table.Instruction[code]
		inst.Name = "-"
		for flags := range inst.Flags {
			inst.Flags[flags] = fetch
		}
	}

	tbl = &cm.table
	return
}

// Compile runs a microcode description with a default Compiler.
func Compile(name string, input io.Reader) (tbl *Table, err error) {
	return (&Compiler{}).Compile(name, input)
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Compile("vrisc.star", strings.NewReader(defaultSource))
})

// Default returns the built-in microcode of the vrisc CPU.
func Default() (tbl *Table) {
	tbl, err := defaultTable()
	if err != nil {
		panic(err)
	}

	return
}
