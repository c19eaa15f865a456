package codegen

import (
	"fmt"
	"log"

	"github.com/ezrec/hackvm/vm"
)

// Function declares a function entry point, and zeroes its locals.
func (w *Writer) Function(name string, locals uint16) (err error) {
	err = symbol(name)
	if err != nil {
		return
	}

	err = w.emit(label(name))
	if err != nil {
		return
	}

	for range locals {
		err = w.Push(vm.SEG_CONSTANT, 0)
		if err != nil {
			return
		}
	}

	return
}

// Call calls a function whose args arguments have already been pushed.
//
// The frame pushed below the callee's locals is, from the bottom:
// return address, LCL, ARG, THIS, THAT.
func (w *Writer) Call(name string, args uint16) (err error) {
	if args > MAX_CONSTANT {
		err = ErrCountRange
		return
	}

	err = symbol(name)
	if err != nil {
		return
	}

	n, err := w.nextCall()
	if err != nil {
		return
	}

	ret := fmt.Sprintf("%v$ret.%d", name, n)

	if w.Verbose {
		log.Printf("codegen: call %v %d, return to %v", name, args, ret)
	}

	lines := []string{"@" + ret, "D=A"}
	lines = append(lines, pushD...)
	for _, reg := range []string{REG_LCL, REG_ARG, REG_THIS, REG_THAT} {
		lines = append(lines, "@"+reg, "D=M")
		lines = append(lines, pushD...)
	}
	lines = append(lines,
		// ARG = SP - 5 - args
		"@"+REG_SP,
		"D=M",
		at(FRAME_SIZE),
		"D=D-A",
		at(args),
		"D=D-A",
		"@"+REG_ARG,
		"M=D",
		// LCL = SP
		"@"+REG_SP,
		"D=M",
		"@"+REG_LCL,
		"M=D",
		"@"+name,
		"0;JMP",
		label(ret),
	)

	return w.emit(lines...)
}

// restore pops the next saved pointer of the frame into reg, walking the
// frame pointer down by one.
func restore(reg string) []string {
	return []string{
		"@" + REG_ADDR,
		"AM=M-1",
		"D=M",
		"@" + reg,
		"M=D",
	}
}

// Return returns from the current function. The top of stack is the return
// value, which replaces the first argument in the caller's stack.
func (w *Writer) Return() (err error) {
	lines := []string{
		// frame = LCL
		"@" + REG_LCL,
		"D=M",
		"@" + REG_ADDR,
		"M=D",
		// The return address must be saved first, as with no arguments
		// the return value overwrites it.
		at(FRAME_SIZE),
		"A=D-A",
		"D=M",
		"@" + REG_RADDR,
		"M=D",
		// *ARG = pop()
		"@" + REG_SP,
		"AM=M-1",
		"D=M",
		"@" + REG_ARG,
		"A=M",
		"M=D",
		// SP = ARG + 1
		"@" + REG_ARG,
		"D=M+1",
		"@" + REG_SP,
		"M=D",
	}
	for _, reg := range []string{REG_THAT, REG_THIS, REG_ARG, REG_LCL} {
		lines = append(lines, restore(reg)...)
	}
	lines = append(lines,
		"@"+REG_RADDR,
		"A=M",
		"0;JMP",
	)

	return w.emit(lines...)
}
