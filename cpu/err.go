package cpu

import (
	"errors"

	"github.com/ezrec/vrisc/translate"
)

var f = translate.From

var (
	// Micro-step errors
	ErrHaltAndCatchFire = errors.New(f("halt and catch fire"))
	ErrFloatingBus      = errors.New(f("attempt to use floating bus"))
	ErrBusContention    = errors.New(f("attempt to enter locked bus"))

	// Configuration errors
	ErrSourceMissing = errors.New(f("control source missing"))
	ErrImageSize     = errors.New(f("memory image too large"))
)

// ErrControl indicates the control word that failed to apply.
type ErrControl struct {
	Word ControlWord
	Err  error
}

func (err *ErrControl) Error() string {
	return f("control 0x%04x %v: %v", uint16(err.Word), err.Word.String(), err.Err)
}

func (err *ErrControl) Unwrap() error {
	return err.Err
}

// ErrMicrostep indicates the micro-step and control image index of a failure.
type ErrMicrostep struct {
	Opcode uint8
	Step   int
	Index  int
	Err    error
}

func (err *ErrMicrostep) Error() string {
	return f("opcode %x step %d index 0x%03x: %v", err.Opcode, err.Step, err.Index, err.Err)
}

func (err *ErrMicrostep) Unwrap() error {
	return err.Err
}

// ErrSyntax indicates the line of a program image that failed to parse.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a byte", string(err))
}
