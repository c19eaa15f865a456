// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"bufio"
	"io"
	"iter"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// COMMENT starts a comment that runs to the end of the line.
const COMMENT = "//"

// symbolRe matches names usable as assembly symbols.
var symbolRe = regexp.MustCompile(`^[A-Za-z_.$:][A-Za-z0-9_.$:]*$`)

// Parser converts VM source lines into instructions.
type Parser struct {
	Verbose bool // If set, logs every parsed line.
}

// ReadLines reads all lines of input, trimmed of surrounding white space.
// Blank and comment lines are kept so that indexes map to line numbers.
func ReadLines(input io.Reader) (lines []string, err error) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}

	err = scanner.Err()
	return
}

// stripComment removes any comment and surrounding white space from a line.
func stripComment(text string) string {
	if n := strings.Index(text, COMMENT); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSpace(text)
}

// Instructions returns the sequence of instructions in lines.
//
// Blank and comment lines are skipped. The sequence stops after the first
// error, which is always an *ErrSyntax. Every range over the sequence starts
// again from the first line.
func (p *Parser) Instructions(lines []string) iter.Seq2[Instruction, error] {
	return func(yield func(inst Instruction, err error) bool) {
		for n, text := range lines {
			lineno := n + 1
			line := stripComment(text)
			if len(line) == 0 {
				continue
			}

			if p.Verbose {
				log.Printf("vm: %v: %v", lineno, line)
			}

			inst, err := ParseLine(line)
			if err != nil {
				yield(Instruction{}, &ErrSyntax{LineNo: lineno, Line: text, Err: err})
				return
			}
			inst.LineNo = lineno
			inst.Line = line

			if !yield(inst, nil) {
				return
			}
		}
	}
}

// Parse reads and parses a whole module.
func (p *Parser) Parse(input io.Reader) (insts []Instruction, err error) {
	lines, err := ReadLines(input)
	if err != nil {
		return
	}

	for inst, inst_err := range p.Instructions(lines) {
		if inst_err != nil {
			err = inst_err
			return
		}
		insts = append(insts, inst)
	}

	return
}

// parseNumber parses a decimal 16-bit unsigned operand.
func parseNumber(word string) (value uint16, err error) {
	v64, err := strconv.ParseUint(word, 10, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	return
}

// IsSymbol returns true if name can be used as an assembly symbol.
func IsSymbol(name string) bool {
	return symbolRe.MatchString(name)
}

// parseSymbol checks that a label or function name is a valid symbol.
func parseSymbol(word string) (name string, err error) {
	if !IsSymbol(word) {
		err = ErrSymbolInvalid(word)
		return
	}

	name = word
	return
}

// ParseLine classifies a single line with comments already removed.
func ParseLine(line string) (inst Instruction, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		err = ErrUnrecognizedCommand(line)
		return
	}

	op, ok := arithMap[words[0]]
	if ok {
		if len(words) != 1 {
			err = ErrMalformedOperands
			return
		}
		inst = Arithmetic(op)
		return
	}

	cmd, ok := commandMap[words[0]]
	if !ok {
		err = ErrUnrecognizedCommand(line)
		return
	}

	args := words[1:]

	switch cmd {
	case C_PUSH, C_POP:
		if len(args) != 2 {
			err = ErrMalformedOperands
			return
		}
		seg, ok := segmentMap[args[0]]
		if !ok {
			err = ErrSegmentUnknown(args[0])
			return
		}
		var index uint16
		index, err = parseNumber(args[1])
		if err != nil {
			return
		}
		inst = Instruction{Command: cmd, Segment: seg, Index: index}
	case C_LABEL, C_GOTO, C_IF_GOTO:
		if len(args) != 1 {
			err = ErrMalformedOperands
			return
		}
		var name string
		name, err = parseSymbol(args[0])
		if err != nil {
			return
		}
		inst = Instruction{Command: cmd, Name: name}
	case C_FUNCTION, C_CALL:
		if len(args) != 2 {
			err = ErrMalformedOperands
			return
		}
		var name string
		name, err = parseSymbol(args[0])
		if err != nil {
			return
		}
		var count uint16
		count, err = parseNumber(args[1])
		if err != nil {
			return
		}
		inst = Instruction{Command: cmd, Name: name, Count: count}
	case C_RETURN:
		if len(args) != 0 {
			err = ErrMalformedOperands
			return
		}
		inst = Return()
	}

	return
}
