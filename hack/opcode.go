package hack

import (
	"fmt"
	"strings"
)

// Code is a single 16-bit Hack instruction.
type Code uint16

const (
	CODE_C_MASK = Code(0xe000) // Compute instruction marker bits.
	CODE_A_MASK = Code(0x7fff) // Address instruction value bits.
)

// Destination bits of a compute instruction.
const (
	DEST_M = 1 << 0
	DEST_D = 1 << 1
	DEST_A = 1 << 2
)

// Jump condition bits of a compute instruction.
const (
	JUMP_GT = 1 << 0
	JUMP_EQ = 1 << 1
	JUMP_LT = 1 << 2
)

// compTable holds the 7-bit a/c1-c6 encodings of the computations that use
// the A register. The memory forms are derived by substituting M for A.
var compTable = []struct {
	comp string
	bits uint16
}{
	{"0", 0b0101010},
	{"1", 0b0111111},
	{"-1", 0b0111010},
	{"D", 0b0001100},
	{"A", 0b0110000},
	{"!D", 0b0001101},
	{"!A", 0b0110001},
	{"-D", 0b0001111},
	{"-A", 0b0110011},
	{"D+1", 0b0011111},
	{"A+1", 0b0110111},
	{"D-1", 0b0001110},
	{"A-1", 0b0110010},
	{"D+A", 0b0000010},
	{"D-A", 0b0010011},
	{"A-D", 0b0000111},
	{"D&A", 0b0000000},
	{"D|A", 0b0010101},
}

// Commuted spellings accepted by the assembler.
var compAlias = map[string]string{
	"A+D": "D+A",
	"A&D": "D&A",
	"A|D": "D|A",
	"1+D": "D+1",
	"1+A": "A+1",
}

var compMap = map[string]uint16{}
var compNames = map[uint16]string{}

var jumpNames = [...]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

var jumpMap = map[string]uint16{}

func init() {
	for _, entry := range compTable {
		compMap[entry.comp] = entry.bits
		compNames[entry.bits] = entry.comp
		if strings.Contains(entry.comp, "A") {
			comp := strings.ReplaceAll(entry.comp, "A", "M")
			bits := entry.bits | 0b1000000
			compMap[comp] = bits
			compNames[bits] = comp
		}
	}

	for alias, comp := range compAlias {
		compMap[alias] = compMap[comp]
		m_alias := strings.ReplaceAll(alias, "A", "M")
		if m_alias != alias {
			compMap[m_alias] = compMap[strings.ReplaceAll(comp, "A", "M")]
		}
	}

	for n, name := range jumpNames {
		if n != 0 {
			jumpMap[name] = uint16(n)
		}
	}
}

// MakeCodeA creates an address instruction.
func MakeCodeA(value uint16) Code {
	return Code(value) & CODE_A_MASK
}

// MakeCodeC creates a compute instruction from its encoded fields.
func MakeCodeC(comp, dest, jump uint16) Code {
	return CODE_C_MASK | Code((comp&0x7f)<<6) | Code((dest&7)<<3) | Code(jump&7)
}

// IsAddress returns true for an address instruction.
func (code Code) IsAddress() bool {
	return (code & 0x8000) == 0
}

// Value returns the value loaded by an address instruction.
func (code Code) Value() uint16 {
	return uint16(code & CODE_A_MASK)
}

// Decode returns the fields of a compute instruction.
func (code Code) Decode() (comp, dest, jump uint16) {
	word := uint16(code)
	comp = (word >> 6) & 0x7f
	dest = (word >> 3) & 7
	jump = (word >> 0) & 7
	return
}

// parseDest parses the destination part of a compute instruction.
func parseDest(text string) (dest uint16, err error) {
	for _, c := range text {
		var bit uint16
		switch c {
		case 'A':
			bit = DEST_A
		case 'D':
			bit = DEST_D
		case 'M':
			bit = DEST_M
		default:
			err = ErrDestInvalid(text)
			return
		}
		if (dest & bit) != 0 {
			err = ErrDestInvalid(text)
			return
		}
		dest |= bit
	}

	return
}

// ParseCodeC parses the text of a compute instruction, with all white space
// already removed.
func ParseCodeC(text string) (code Code, err error) {
	var dest, jump uint16

	expr := text
	if n := strings.IndexByte(expr, ';'); n >= 0 {
		var ok bool
		jump, ok = jumpMap[expr[n+1:]]
		if !ok {
			err = ErrJumpInvalid(expr[n+1:])
			return
		}
		expr = expr[:n]
	}

	if n := strings.IndexByte(expr, '='); n >= 0 {
		dest, err = parseDest(expr[:n])
		if err != nil {
			return
		}
		expr = expr[n+1:]
	}

	comp, ok := compMap[expr]
	if !ok {
		err = ErrCompInvalid(expr)
		return
	}

	code = MakeCodeC(comp, dest, jump)
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	if code.IsAddress() {
		return fmt.Sprintf("@%d", code.Value())
	}

	comp, dest, jump := code.Decode()

	if dest != 0 {
		if (dest & DEST_A) != 0 {
			out += "A"
		}
		if (dest & DEST_M) != 0 {
			out += "M"
		}
		if (dest & DEST_D) != 0 {
			out += "D"
		}
		out += "="
	}

	name, ok := compNames[comp]
	if !ok {
		name = fmt.Sprintf("?%07b", comp)
	}
	out += name

	if jump != 0 {
		out += ";" + jumpNames[jump]
	}

	return
}
