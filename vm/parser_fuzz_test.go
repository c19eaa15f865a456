package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzParseLine(f *testing.F) {
	for _, seed := range []string{
		"push constant 7",
		"pop pointer 1",
		"if-goto LOOP",
		"function Main.main 3",
		"call Foo.bar 65535",
		"return",
		"eq",
		"push that x",
		"jump",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		assert := assert.New(t)

		inst, err := ParseLine(line)
		if err != nil {
			var unrecognized ErrUnrecognizedCommand
			var segment ErrSegmentUnknown
			var number ErrParseNumber
			var symbol ErrSymbolInvalid
			known := errors.Is(err, ErrMalformedOperands) ||
				errors.As(err, &unrecognized) ||
				errors.As(err, &segment) ||
				errors.As(err, &number) ||
				errors.As(err, &symbol)
			assert.True(known, "%q: %v", line, err)
			return
		}

		// Any accepted line has a canonical form that parses identically.
		again, err := ParseLine(inst.String())
		assert.NoError(err, line)
		assert.Equal(inst, again, line)
	})
}
