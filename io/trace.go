package io

import (
	"fmt"
	"strings"
)

// Trace records every value sent to it.
type Trace struct {
	Values []uint8
}

var _ Channel = (*Trace)(nil)

// Rewind discards all recorded values.
func (tr *Trace) Rewind() {
	tr.Values = tr.Values[:0]
}

// Send records a value.
func (tr *Trace) Send(value uint8) error {
	tr.Values = append(tr.Values, value)
	return nil
}

// String renders the trace exactly as a Tape would have printed it.
func (tr *Trace) String() string {
	var sb strings.Builder
	for _, value := range tr.Values {
		fmt.Fprintf(&sb, "out %d\n", value)
	}
	return sb.String()
}
