package codegen

import (
	"fmt"
	"slices"

	"github.com/ezrec/hackvm/vm"
)

// pushD pushes the D register.
var pushD = []string{
	"@" + REG_SP,
	"A=M",
	"M=D",
	"@" + REG_SP,
	"M=M+1",
}

// popD pops the top of stack into the D register.
var popD = []string{
	"@" + REG_SP,
	"AM=M-1",
	"D=M",
}

// baseMap maps the pointer based segments to their base register.
var baseMap = map[vm.Segment]string{
	vm.SEG_ARGUMENT: REG_ARG,
	vm.SEG_LOCAL:    REG_LCL,
	vm.SEG_THIS:     REG_THIS,
	vm.SEG_THAT:     REG_THAT,
}

// static returns the symbol of a static variable in the current module.
func (w *Writer) static(index uint16) (symbol string, err error) {
	if len(w.state.Module) == 0 {
		err = ErrModuleMissing
		return
	}

	symbol = fmt.Sprintf("%v.%d", w.state.Module, index)
	return
}

// temp returns the address of a temp cell.
func (w *Writer) temp(index uint16) (address uint16, err error) {
	if index >= w.Layout.TempSize {
		err = ErrIndexOutOfRange{Segment: vm.SEG_TEMP, Index: index}
		return
	}

	address = w.Layout.TempBase + index
	return
}

// pointer returns the register selected by a pointer index.
func pointer(index uint16) (symbol string, err error) {
	switch index {
	case 0:
		symbol = REG_THIS
	case 1:
		symbol = REG_THAT
	default:
		err = ErrInvalidPointerIndex(index)
	}

	return
}

// direct returns the address instruction of a segment cell that needs no
// pointer indirection, and true if the segment is such a segment.
func (w *Writer) direct(seg vm.Segment, index uint16) (addr string, ok bool, err error) {
	switch seg {
	case vm.SEG_STATIC:
		var symbol string
		symbol, err = w.static(index)
		addr = "@" + symbol
	case vm.SEG_TEMP:
		var address uint16
		address, err = w.temp(index)
		addr = at(address)
	case vm.SEG_POINTER:
		var symbol string
		symbol, err = pointer(index)
		addr = "@" + symbol
	default:
		return
	}

	ok = true
	return
}

// Push pushes the value of a segment cell.
func (w *Writer) Push(seg vm.Segment, index uint16) (err error) {
	var load []string

	if seg == vm.SEG_CONSTANT {
		if index > MAX_CONSTANT {
			err = ErrIndexOutOfRange{Segment: seg, Index: index}
			return
		}
		load = []string{at(index), "D=A"}
	} else if base, ok := baseMap[seg]; ok {
		if index > MAX_CONSTANT {
			err = ErrIndexOutOfRange{Segment: seg, Index: index}
			return
		}
		load = []string{
			at(index),
			"D=A",
			"@" + base,
			"A=D+M",
			"D=M",
		}
	} else {
		var addr string
		addr, ok, err = w.direct(seg, index)
		if err != nil {
			return
		}
		if !ok {
			err = ErrSegmentInvalid(seg)
			return
		}
		load = []string{addr, "D=M"}
	}

	return w.emit(slices.Concat(load, pushD)...)
}

// Pop pops the top of stack into a segment cell.
func (w *Writer) Pop(seg vm.Segment, index uint16) (err error) {
	if seg == vm.SEG_CONSTANT {
		err = ErrSegmentReadOnly
		return
	}

	if base, ok := baseMap[seg]; ok {
		if index > MAX_CONSTANT {
			err = ErrIndexOutOfRange{Segment: seg, Index: index}
			return
		}
		// The destination address goes to the scratch register, as D
		// must carry the popped value.
		return w.emit(
			"@"+REG_SP,
			"M=M-1",
			at(index),
			"D=A",
			"@"+base,
			"D=D+M",
			"@"+REG_ADDR,
			"M=D",
			"@"+REG_SP,
			"A=M",
			"D=M",
			"@"+REG_ADDR,
			"A=M",
			"M=D",
		)
	}

	addr, ok, err := w.direct(seg, index)
	if err != nil {
		return
	}
	if !ok {
		err = ErrSegmentInvalid(seg)
		return
	}

	return w.emit(slices.Concat(popD, []string{addr, "M=D"})...)
}
