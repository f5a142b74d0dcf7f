package emulator

import (
	"github.com/ezrec/vrisc/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Cycle   int   // Instruction cycle that failed.
	Address uint8 // Address of the failing instruction.
	LineNo  int   // Program line of the failing instruction, if known.
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("cycle %d address %X line %d %v", err.Cycle, err.Address, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
