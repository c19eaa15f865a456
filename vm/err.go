package vm

import (
	"errors"

	"github.com/ezrec/hackvm/translate"
)

var f = translate.From

var (
	// Parse error category, matched by every *ErrSyntax.
	ErrParse = errors.New(f("parse"))

	ErrMalformedOperands = errors.New(f("malformed operands"))
)

// ErrUnrecognizedCommand is returned for a line that matches no instruction.
type ErrUnrecognizedCommand string

func (err ErrUnrecognizedCommand) Error() string {
	return f("unrecognized command '%v'", string(err))
}

// ErrSegmentUnknown is returned for a segment name outside the eight segments.
type ErrSegmentUnknown string

func (err ErrSegmentUnknown) Error() string {
	return f("unknown segment '%v'", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a 16-bit unsigned number", string(err))
}

// ErrSymbolInvalid is returned for a label or function name that cannot be
// represented as an assembly symbol.
type ErrSymbolInvalid string

func (err ErrSymbolInvalid) Error() string {
	return f("'%v' is not a valid symbol", string(err))
}

// ErrSyntax locates a parse failure in the source text.
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

// Is reports every syntax error as a parse error.
func (err *ErrSyntax) Is(target error) bool {
	return target == ErrParse
}
