package hack

import (
	"fmt"
	"io"
	"iter"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo int    // Source line number.
	Pc     int    // ROM address.
	Text   string // Source text with white space removed.
	Code   Code   // Encoded instruction.
}

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
}

// Debug returns the opcode at a ROM address, or nil if there is none.
func (prog *Program) Debug(pc uint16) (op *Opcode) {
	if int(pc) < len(prog.Opcodes) && prog.Opcodes[pc].Pc == int(pc) {
		op = &prog.Opcodes[pc]
	}

	return
}

// Binary returns the ROM image of the program.
func (prog *Program) Binary() (codes []Code) {
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}

	return
}

// Codes iterates the program codes by ROM address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(pc uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Pc), op.Code) {
				return
			}
		}
	}
}

// WriteHack writes the program in the textual .hack format: one
// instruction per line as sixteen binary digits.
func (prog *Program) WriteHack(output io.Writer) (err error) {
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintf(output, "%016b\n", uint16(code))
		if err != nil {
			return
		}
	}

	return
}
