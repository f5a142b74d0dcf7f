package io

import (
	"errors"

	"github.com/ezrec/vrisc/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelMissing = errors.New(f("channel has no output"))

	// Image errors
	ErrImageMismatch = errors.New(f("control images differ in length"))
)

// ErrImage indicates the control image file that failed.
type ErrImage struct {
	Name string
	Err  error
}

func (err *ErrImage) Error() string {
	return f("image %v: %v", err.Name, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
