// Package io provides the output devices and control image storage for the
// vrisc emulator. It includes the line-oriented output register (Tape), an
// in-memory recorder (Trace), and the persisted control-word images (Images).
package io

// Channel defines the interface for the output register device.
// The CPU sends one byte per assertion of the output register in line.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single byte to the channel.
	Send(value uint8) error
}
