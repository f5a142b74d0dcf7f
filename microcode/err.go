package microcode

import (
	"errors"

	"github.com/ezrec/vrisc/translate"
)

var f = translate.From

var (
	// Control source errors
	ErrIndexOutOfRange = errors.New(f("control index out of range"))
	ErrTableShort      = errors.New(f("control table too short"))

	// Compiler errors
	ErrOpRange     = errors.New(f("opcode out of range"))
	ErrOpDuplicate = errors.New(f("opcode duplicated"))
	ErrOpName      = errors.New(f("opcode name invalid"))
	ErrStepsLong   = errors.New(f("too many steps"))
	ErrStepValue   = errors.New(f("step is not a control word"))
)

// ErrTable indicates which control table is unusable.
type ErrTable struct {
	Table  string
	Length int
	Err    error
}

func (err *ErrTable) Error() string {
	return f("%v table length %d: %v", err.Table, err.Length, err.Err)
}

func (err *ErrTable) Unwrap() error {
	return err.Err
}

// ErrScript indicates the microcode description that failed to compile.
type ErrScript struct {
	Name string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
