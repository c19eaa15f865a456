package codegen

import (
	"errors"
	"fmt"

	"github.com/ezrec/hackvm/translate"
	"github.com/ezrec/hackvm/vm"
)

var f = translate.From

var (
	// Error categories.
	ErrSegment    = errors.New(f("segment"))
	ErrGeneration = errors.New(f("generation"))

	// Segment errors
	ErrSegmentReadOnly = fmt.Errorf("%w: %v", ErrSegment, f("constant segment cannot be popped"))
	ErrModuleMissing   = fmt.Errorf("%w: %v", ErrSegment, f("static segment used before a module was set"))

	// Generation errors
	ErrBootstrapOrder  = fmt.Errorf("%w: %v", ErrGeneration, f("bootstrap must precede all other output"))
	ErrCounterOverflow = fmt.Errorf("%w: %v", ErrGeneration, f("label counter overflow"))
	ErrCountRange      = fmt.Errorf("%w: %v", ErrGeneration, f("argument count exceeds 15 bits"))
	ErrCommandInvalid  = fmt.Errorf("%w: %v", ErrGeneration, f("command invalid"))
)

// ErrIndexOutOfRange is returned for an index beyond the end of a fixed
// size segment, or a constant or offset too wide for an address instruction.
type ErrIndexOutOfRange struct {
	Segment vm.Segment
	Index   uint16
}

func (err ErrIndexOutOfRange) Error() string {
	return f("%v index %d out of range", err.Segment, err.Index)
}

func (err ErrIndexOutOfRange) Is(target error) bool {
	return target == ErrSegment
}

// ErrInvalidPointerIndex is returned for a pointer index other than 0 or 1.
type ErrInvalidPointerIndex uint16

func (err ErrInvalidPointerIndex) Error() string {
	return f("pointer index %d is not 0 or 1", uint16(err))
}

func (err ErrInvalidPointerIndex) Is(target error) bool {
	return target == ErrSegment
}

// ErrSegmentInvalid is returned for a segment value outside vm.Segment.
type ErrSegmentInvalid vm.Segment

func (err ErrSegmentInvalid) Error() string {
	return f("segment %v invalid", vm.Segment(err))
}

func (err ErrSegmentInvalid) Is(target error) bool {
	return target == ErrSegment
}

// ErrSymbolInvalid is returned for a label or function name that is not an
// assembly symbol.
type ErrSymbolInvalid string

func (err ErrSymbolInvalid) Error() string {
	return f("'%v' is not a valid symbol", string(err))
}

func (err ErrSymbolInvalid) Is(target error) bool {
	return target == ErrGeneration
}

// ErrInstruction locates a generation failure in the VM source.
type ErrInstruction struct {
	Module string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrInstruction) Error() string {
	return f("%v:%d '%v' %v", err.Module, err.LineNo, err.Line, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}
