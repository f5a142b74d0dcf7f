// Package cpu implements the execution engine of the vrisc breadboard CPU.
//
// The CPU consists of five 8-bit registers (A, B, I, M and C), the carry
// and zero flags, sixteen bytes of memory, and a single shared bus. Each instruction
// is executed as eight micro-steps. For every micro-step the control unit
// looks up a 16-bit control word, indexed by the flags, the opcode in the
// upper nibble of I and the step number, and applies it: at most one device
// drives the bus, and any number of devices latch the driven value.
package cpu
