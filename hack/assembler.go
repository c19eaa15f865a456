// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package hack

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hackvm/internal"
)

const (
	VARIABLE_BASE = 16     // First RAM address allocated to variables.
	SCREEN        = 0x4000 // Screen memory map.
	KBD           = 0x6000 // Keyboard register.
)

// pointerSymbols are the predefined VM pointer symbols.
var pointerSymbols = map[string]uint16{
	"SP":   0,
	"LCL":  1,
	"ARG":  2,
	"THIS": 3,
	"THAT": 4,
}

// ioSymbols are the predefined memory mapped I/O symbols.
var ioSymbols = map[string]uint16{
	"SCREEN": SCREEN,
	"KBD":    KBD,
}

// registerSymbols iterates the virtual registers R0 to R15.
func registerSymbols() iter.Seq2[string, uint16] {
	return func(yield func(name string, value uint16) bool) {
		for n := range uint16(16) {
			if !yield(fmt.Sprintf("R%d", n), n) {
				return
			}
		}
	}
}

var symbolRe = regexp.MustCompile(`^[A-Za-z_.$:][A-Za-z0-9_.$:]*$`)

// Assembler is a two pass assembler for the Hack computer.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]uint16 // Predefines
	Label     map[string]uint16 // Map of jump labels to ROM addresses.
	Symbol    map[string]uint16 // Map of all resolved symbols.

	nextVariable uint16
}

// Predefine defines a new symbol or redefines an existing symbol.
func (asm *Assembler) Predefine(symbol string, value uint16) {
	if asm.predefine == nil {
		asm.predefine = map[string]uint16{symbol: value}
	} else {
		asm.predefine[symbol] = value
	}
}

// Defines returns an iterator over all of the predefined symbols.
func (asm *Assembler) Defines() iter.Seq2[string, uint16] {
	return internal.IterSeq2Concat(
		maps.All(pointerSymbols),
		registerSymbols(),
		maps.All(ioSymbols),
		maps.All(asm.predefine),
	)
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.Symbol {
		pred[key] = starlark.MakeInt(int(value))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > int64(CODE_A_MASK) {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// resolve returns the value of an address instruction operand.
func (asm *Assembler) resolve(word string) (value uint16, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2 : len(word)-1])
	}

	if word[0] >= '0' && word[0] <= '9' {
		var v64 uint64
		v64, err = strconv.ParseUint(word, 10, 15)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		value = uint16(v64)
		return
	}

	if !symbolRe.MatchString(word) {
		err = ErrSymbolInvalid(word)
		return
	}

	value, ok := asm.Symbol[word]
	if ok {
		return
	}

	// New variable
	if asm.nextVariable >= SCREEN {
		err = ErrVariableFull
		return
	}
	value = asm.nextVariable
	asm.nextVariable++
	asm.Symbol[word] = value

	if asm.Verbose {
		log.Printf("hack: variable %v = %d", word, value)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint16)
	asm.Symbol = make(map[string]uint16)
	asm.nextVariable = VARIABLE_BASE
	for symbol, value := range asm.Defines() {
		asm.Symbol[symbol] = value
	}

	// First pass: collect labels.
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1
		line = strings.TrimSpace(text)

		if n := strings.Index(text, "//"); n >= 0 {
			text = text[:n]
		}
		text = strings.Join(strings.Fields(text), "")
		if len(text) == 0 {
			continue
		}

		if asm.Verbose {
			log.Printf("hack: %v: %v", lineno, text)
		}

		pc := len(asm.Opcode)

		if text[0] == '(' {
			if text[len(text)-1] != ')' {
				err = ErrLabelSyntax
				return
			}
			label := text[1 : len(text)-1]
			if !symbolRe.MatchString(label) {
				err = ErrSymbolInvalid(label)
				return
			}
			_, ok := asm.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			asm.Label[label] = uint16(pc)
			asm.Symbol[label] = uint16(pc)
			continue
		}

		if pc > int(CODE_A_MASK) {
			err = ErrProgramFull
			return
		}

		asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Pc: pc, Text: text})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Second pass: encode.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		lineno = op.LineNo
		line = op.Text

		if op.Text[0] == '@' {
			if len(op.Text) == 1 {
				err = ErrSymbolInvalid("")
				return
			}
			var value uint16
			value, err = asm.resolve(op.Text[1:])
			if err != nil {
				return
			}
			op.Code = MakeCodeA(value)
		} else {
			op.Code, err = ParseCodeC(op.Text)
			if err != nil {
				return
			}
		}
	}

	prog = &Program{
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	return
}
