package hack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCode(f *testing.F) {
	for _, word := range []uint16{0, 1, 0x7fff, 0x8000, 0xec10, 0xe308, 0xfc88, 0xea87, 0xffff} {
		f.Add(word, uint16(0x1234), uint16(0x5678))
	}

	f.Fuzz(func(t *testing.T, word uint16, a uint16, d uint16) {
		assert := assert.New(t)

		code := Code(word)
		text := code.String()

		if code.IsAddress() {
			assert.Equal(MakeCodeA(code.Value()), code)
			assert.Equal("@", text[:1])
		} else {
			comp, _, _ := code.Decode()
			if _, ok := compNames[comp]; ok {
				parsed, err := ParseCodeC(text)
				assert.NoError(err, text)
				assert.Equal(code|CODE_C_MASK, parsed, text)
			} else {
				assert.True(strings.Contains(text, "?"), text)
			}
		}

		// Execution is total for in-range addresses.
		cpu := NewCpu()
		cpu.A = a & uint16(CODE_A_MASK)
		cpu.D = d
		assert.NoError(cpu.Execute(code), text)
	})
}
