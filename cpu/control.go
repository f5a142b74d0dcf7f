package cpu

import (
	"iter"
	"strings"
)

// ControlWord is a set of control lines asserted during a single micro-step.
type ControlWord uint16

// Control lines, active high after the Invert mask has been applied.
const (
	UCODE_HLT = ControlWord(1 << 7)  // HLT
	UCODE_MI  = ControlWord(1 << 6)  // MI
	UCODE_RI  = ControlWord(1 << 5)  // RI
	UCODE_RO  = ControlWord(1 << 4)  // RO
	UCODE_IO  = ControlWord(1 << 3)  // IO
	UCODE_II  = ControlWord(1 << 2)  // II
	UCODE_AI  = ControlWord(1 << 1)  // AI
	UCODE_AO  = ControlWord(1 << 0)  // AO
	UCODE_EO  = ControlWord(1 << 15) // EO
	UCODE_SU  = ControlWord(1 << 14) // SU
	UCODE_BI  = ControlWord(1 << 13) // BI
	UCODE_OI  = ControlWord(1 << 12) // OI
	UCODE_CE  = ControlWord(1 << 11) // CE
	UCODE_CO  = ControlWord(1 << 10) // CO
	UCODE_J   = ControlWord(1 << 9)  // J
	UCODE_FI  = ControlWord(1 << 8)  // FI
)

// Invert is the set of lines stored active-low in the control images.
const Invert = UCODE_MI | UCODE_RO | UCODE_IO | UCODE_II | UCODE_AI | UCODE_AO |
	UCODE_EO | UCODE_BI | UCODE_CO | UCODE_J | UCODE_FI

// Machine geometry.
const (
	STEPS       = 8    // Micro-steps per instruction.
	OPCODES     = 16   // Opcodes selectable by the upper nibble of I.
	MEMORY_SIZE = 16   // Bytes of memory.
	MEMORY_MASK = 0x0f // Address mask for M and C.
	TABLE_SIZE  = 1024 // Entries required in each control image.
)

// ControlLine describes a single named control line.
type ControlLine struct {
	Name        string      // Mnemonic, as used in microcode listings.
	Line        ControlWord // Bit of the line in the control word.
	Description string      // What the line does.
}

// Lines lists every control line in listing order.
var Lines = [...]ControlLine{
	{"HLT", UCODE_HLT, "halt"},
	{"MI", UCODE_MI, "memory address register in"},
	{"RI", UCODE_RI, "ram in"},
	{"RO", UCODE_RO, "ram out"},
	{"IO", UCODE_IO, "instruction register out"},
	{"II", UCODE_II, "instruction register in"},
	{"AI", UCODE_AI, "register A in"},
	{"AO", UCODE_AO, "register A out"},
	{"EO", UCODE_EO, "alu out"},
	{"SU", UCODE_SU, "alu subtract"},
	{"BI", UCODE_BI, "register B in"},
	{"OI", UCODE_OI, "output register in"},
	{"CE", UCODE_CE, "counter enable"},
	{"CO", UCODE_CO, "counter out"},
	{"J", UCODE_J, "jump"},
	{"FI", UCODE_FI, "flags register in"},
}

// Has returns true if every line in 'lines' is asserted.
func (cw ControlWord) Has(lines ControlWord) bool {
	return (cw & lines) == lines
}

// Stored converts between the active-high and stored active-low encodings.
// The conversion is its own inverse.
func (cw ControlWord) Stored() ControlWord {
	return cw ^ Invert
}

// String returns the asserted lines joined by '|', or '-' if none are.
func (cw ControlWord) String() string {
	var names []string
	for _, line := range Lines {
		if cw.Has(line.Line) {
			names = append(names, line.Name)
		}
	}

	if len(names) == 0 {
		return "-"
	}

	return strings.Join(names, "|")
}

// Index computes the control image index for the flags, the instruction
// register, and the micro-step.
func Index(zero bool, carry bool, instruction uint8, step int) (index int) {
	if zero {
		index |= 1 << 9
	}
	if carry {
		index |= 1 << 8
	}
	index |= int(instruction&0xf0) >> 1
	index |= step & (STEPS - 1)

	return
}

// Defines returns an iterator over the named control lines and machine constants.
func Defines() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, line := range Lines {
			if !yield(line.Name, int(line.Line)) {
				return
			}
		}
		consts := []struct {
			name  string
			value int
		}{
			{"STEPS", STEPS},
			{"OPCODES", OPCODES},
			{"MEMORY_SIZE", MEMORY_SIZE},
		}
		for _, c := range consts {
			if !yield(c.name, c.value) {
				return
			}
		}
	}
}
