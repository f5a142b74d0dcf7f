package microcode

import (
	"github.com/ezrec/vrisc/cpu"
)

// Rom is a read-only control-word source built from the two control images.
// Words are stored as they appear in the images, active-low lines included.
type Rom struct {
	words []uint16
}

var _ cpu.Source = (*Rom)(nil)

// NewRom combines the low and high control images.
// Both must cover the full control index space.
func NewRom(low []byte, high []byte) (rom *Rom, err error) {
	if len(low) < cpu.TABLE_SIZE {
		err = &ErrTable{Table: "low", Length: len(low), Err: ErrTableShort}
		return
	}
	if len(high) < cpu.TABLE_SIZE {
		err = &ErrTable{Table: "high", Length: len(high), Err: ErrTableShort}
		return
	}

	size := min(len(low), len(high))
	rom = &Rom{words: make([]uint16, size)}
	for n := range size {
		rom.words[n] = (uint16(high[n]) << 8) | uint16(low[n])
	}

	return
}

// Len returns the number of control words.
func (rom *Rom) Len() int {
	return len(rom.words)
}

// Word returns the stored control word at 'index'.
func (rom *Rom) Word(index int) (word uint16, err error) {
	if index < 0 || index >= len(rom.words) {
		err = ErrIndexOutOfRange
		return
	}

	word = rom.words[index]
	return
}
