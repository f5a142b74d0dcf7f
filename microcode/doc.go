// Package microcode provides the control-word source for the vrisc CPU, and
// a compiler from a Starlark microcode description to the pair of stored
// control images.
//
// A description calls the builtin op() once per instruction:
//
//	fetch = [MI | CO, RO | II | CE]
//	op(0x4, "TIA", fetch + [IO | AI])
//	op(0xe, "BCS", fetch, carry = fetch + [IO | J])
//
// Every control line name, along with STEPS, OPCODES and MEMORY_SIZE, is
// predeclared. Opcodes that are never defined execute 'fetch' if the
// description assigns it.
package microcode
