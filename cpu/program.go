package cpu

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Program is a memory image to be loaded before the first instruction cycle.
type Program struct {
	Data   []uint8 // Memory contents, starting at address 0.
	LineNo []int   // Source line of each byte, if parsed.
}

// ParseProgram reads a memory image written as whitespace separated numbers.
// Numbers use Go literal syntax ("0b0100_0001", "0x41", "65"), and
// everything after a ';' is a comment.
func ParseProgram(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		for _, word := range strings.Fields(line) {
			var value uint64
			value, err = strconv.ParseUint(word, 0, 8)
			if err != nil {
				err = ErrParseNumber(word)
				prog = nil
				return
			}
			if len(prog.Data) == MEMORY_SIZE {
				err = ErrImageSize
				prog = nil
				return
			}
			prog.Data = append(prog.Data, uint8(value))
			prog.LineNo = append(prog.LineNo, lineno)
		}
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}

// Binary returns the memory image.
func (prog *Program) Binary() (bins []byte) {
	return append(bins, prog.Data...)
}

// Bytes iterates over the address and value of each byte in the image.
func (prog *Program) Bytes() iter.Seq2[uint8, uint8] {
	return func(yield func(addr uint8, value uint8) bool) {
		for n, value := range prog.Data {
			if !yield(uint8(n), value) {
				return
			}
		}
	}
}

// Line returns the source line of the byte at 'addr', or 0 if unknown.
func (prog *Program) Line(addr uint8) int {
	if int(addr) < len(prog.LineNo) {
		return prog.LineNo[addr]
	}

	return 0
}
