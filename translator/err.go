package translator

import (
	"errors"
	"fmt"

	"github.com/ezrec/hackvm/translate"
)

var f = translate.From

var (
	// Error category.
	ErrInput = errors.New(f("input"))

	ErrNoInput = fmt.Errorf("%w: %v", ErrInput, f("no .vm files found"))
)

// ErrNotVm is returned for an input file without the .vm extension.
type ErrNotVm string

func (err ErrNotVm) Error() string {
	return f("'%v' is not a .vm file", string(err))
}

func (err ErrNotVm) Is(target error) bool {
	return target == ErrInput
}

// ErrModuleName is returned for an input file whose stem cannot be used as
// a static segment namespace.
type ErrModuleName string

func (err ErrModuleName) Error() string {
	return f("'%v' is not a valid module name", string(err))
}

func (err ErrModuleName) Is(target error) bool {
	return target == ErrInput
}
