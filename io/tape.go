package io

import (
	"fmt"
	"io"
)

// Tape is the output register, printing each value as a line of text.
// Every value is written as "out <decimal>\n".
type Tape struct {
	Output io.Writer

	Count int // Number of values written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; only the counter is reset.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Send writes a single value line to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelMissing
		return
	}

	_, err = fmt.Fprintf(tc.Output, "out %d\n", value)
	if err != nil {
		return
	}

	tc.Count++

	return
}
