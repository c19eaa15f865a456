// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package codegen

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	"github.com/ezrec/hackvm/vm"
)

const (
	MAX_CONSTANT = 0x7fff // Widest value an address instruction can load.
	FRAME_SIZE   = 5      // Return address plus the saved LCL, ARG, THIS and THAT.
)

// Predefined pointer and scratch register symbols of the target.
const (
	REG_SP   = "SP"
	REG_LCL  = "LCL"
	REG_ARG  = "ARG"
	REG_THIS = "THIS"
	REG_THAT = "THAT"

	REG_ADDR  = "R13" // Pop destination address; frame pointer during return.
	REG_RADDR = "R14" // Return address during return.
)

// Layout describes the memory layout and entry point of a program.
type Layout struct {
	StackBase uint16 // Initial stack pointer.
	TempBase  uint16 // Address of temp 0.
	TempSize  uint16 // Number of temp cells.
	Entry     string // Function called by the bootstrap.
}

// DefaultLayout is the standard layout of the target platform.
var DefaultLayout = Layout{
	StackBase: 256,
	TempBase:  5,
	TempSize:  8,
	Entry:     "Sys.init",
}

// Pointers holds initial values for the pointer registers.
type Pointers struct {
	SP   uint16
	LCL  uint16
	ARG  uint16
	THIS uint16
	THAT uint16
}

// State is the translation state carried between instructions.
type State struct {
	Module string // Namespace of the static segment.
	Branch int    // Next comparison label number.
	Call   int    // Next return address label number.
}

// Writer emits Hack assembly for VM instructions.
//
// A Writer is used for a whole program: every module is translated through
// the same Writer so that generated labels stay unique.
type Writer struct {
	Verbose  bool   // If set, logs every translated instruction.
	Comments bool   // If set, precedes every instruction with a comment.
	Layout   Layout // Memory layout of the target.

	output  io.Writer
	state   State
	emitted bool
}

// NewWriter creates a Writer with the default layout.
func NewWriter(output io.Writer) (w *Writer) {
	w = &Writer{
		Layout: DefaultLayout,
		output: output,
	}

	return
}

// State returns a copy of the current translation state.
func (w *Writer) State() State {
	return w.state
}

// SetModule sets the module whose static segment subsequent instructions use.
func (w *Writer) SetModule(name string) {
	if w.Verbose {
		log.Printf("codegen: module %v", name)
	}

	w.state.Module = name
}

// emit appends lines to the output.
func (w *Writer) emit(lines ...string) (err error) {
	w.emitted = true

	for _, line := range lines {
		_, err = io.WriteString(w.output, line+"\n")
		if err != nil {
			return
		}
	}

	return
}

// at returns an address instruction for a number.
func at(value uint16) string {
	return "@" + strconv.Itoa(int(value))
}

// label returns a label declaration.
func label(name string) string {
	return "(" + name + ")"
}

// nextBranch returns the next comparison label number.
func (w *Writer) nextBranch() (n int, err error) {
	if w.state.Branch == math.MaxInt {
		err = ErrCounterOverflow
		return
	}

	n = w.state.Branch
	w.state.Branch++
	return
}

// nextCall returns the next return address label number.
func (w *Writer) nextCall() (n int, err error) {
	if w.state.Call == math.MaxInt {
		err = ErrCounterOverflow
		return
	}

	n = w.state.Call
	w.state.Call++
	return
}

// Bootstrap emits the program prologue: the stack pointer is set to the
// stack base and the entry function is called.
//
// Bootstrap must be the first output of the Writer.
func (w *Writer) Bootstrap() (err error) {
	if w.emitted {
		err = ErrBootstrapOrder
		return
	}

	if w.Verbose {
		log.Printf("codegen: bootstrap SP=%d, call %v", w.Layout.StackBase, w.Layout.Entry)
	}

	err = w.emit(
		at(w.Layout.StackBase),
		"D=A",
		"@"+REG_SP,
		"M=D",
	)
	if err != nil {
		return
	}

	err = w.Call(w.Layout.Entry, 0)
	return
}

// Preset emits fixed initial values for the pointer registers, in place of
// Bootstrap. It is used to run code fragments that have no entry function.
func (w *Writer) Preset(ptrs Pointers) (err error) {
	if w.emitted {
		err = ErrBootstrapOrder
		return
	}

	for _, reg := range []struct {
		name  string
		value uint16
	}{
		{REG_SP, ptrs.SP},
		{REG_LCL, ptrs.LCL},
		{REG_ARG, ptrs.ARG},
		{REG_THIS, ptrs.THIS},
		{REG_THAT, ptrs.THAT},
	} {
		err = w.emit(at(reg.value), "D=A", "@"+reg.name, "M=D")
		if err != nil {
			return
		}
	}

	return
}

// Write emits a single parsed instruction.
func (w *Writer) Write(inst vm.Instruction) (err error) {
	defer func() {
		if err != nil {
			line := inst.Line
			if len(line) == 0 {
				line = inst.String()
			}
			err = &ErrInstruction{Module: w.state.Module, LineNo: inst.LineNo, Line: line, Err: err}
		}
	}()

	if w.Verbose {
		log.Printf("codegen: %v:%d: %v", w.state.Module, inst.LineNo, inst)
	}

	if w.Comments {
		err = w.emit(fmt.Sprintf("// %v", inst))
		if err != nil {
			return
		}
	}

	switch inst.Command {
	case vm.C_PUSH:
		err = w.Push(inst.Segment, inst.Index)
	case vm.C_POP:
		err = w.Pop(inst.Segment, inst.Index)
	case vm.C_ARITHMETIC:
		err = w.Arithmetic(inst.Op)
	case vm.C_LABEL:
		err = w.Label(inst.Name)
	case vm.C_GOTO:
		err = w.Goto(inst.Name)
	case vm.C_IF_GOTO:
		err = w.IfGoto(inst.Name)
	case vm.C_FUNCTION:
		err = w.Function(inst.Name, inst.Count)
	case vm.C_CALL:
		err = w.Call(inst.Name, inst.Count)
	case vm.C_RETURN:
		err = w.Return()
	default:
		err = ErrCommandInvalid
	}

	return
}

// symbol checks that a label or function name is an assembly symbol.
func symbol(name string) (err error) {
	if !vm.IsSymbol(name) {
		err = ErrSymbolInvalid(name)
	}

	return
}

// Label declares a VM label. The name is used verbatim.
func (w *Writer) Label(name string) (err error) {
	err = symbol(name)
	if err != nil {
		return
	}

	return w.emit(label(name))
}

// Goto jumps unconditionally to a VM label.
func (w *Writer) Goto(name string) (err error) {
	err = symbol(name)
	if err != nil {
		return
	}

	return w.emit("@"+name, "0;JMP")
}

// IfGoto pops the top of stack, and jumps to a VM label if it is not zero.
func (w *Writer) IfGoto(name string) (err error) {
	err = symbol(name)
	if err != nil {
		return
	}

	return w.emit(
		"@"+REG_SP,
		"AM=M-1",
		"D=M",
		"@"+name,
		"D;JNE",
	)
}
