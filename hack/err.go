package hack

import (
	"errors"

	"github.com/ezrec/hackvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEmpty      = errors.New(f("pc beyond program"))
	ErrAddressRange = errors.New(f("address out of range"))
	ErrTickLimit    = errors.New(f("tick limit reached"))

	// Assembler errors
	ErrLabelSyntax    = errors.New(f("label syntax"))
	ErrLabelDuplicate = errors.New(f("label duplicated"))
	ErrVariableFull   = errors.New(f("variable space exhausted"))
	ErrProgramFull    = errors.New(f("program exceeds rom"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrCompInvalid string

func (err ErrCompInvalid) Error() string {
	return f("'%v' is not a computation", string(err))
}

type ErrDestInvalid string

func (err ErrDestInvalid) Error() string {
	return f("'%v' is not a destination", string(err))
}

type ErrJumpInvalid string

func (err ErrJumpInvalid) Error() string {
	return f("'%v' is not a jump", string(err))
}

type ErrSymbolInvalid string

func (err ErrSymbolInvalid) Error() string {
	return f("'%v' is not a valid symbol", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a 15-bit number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
