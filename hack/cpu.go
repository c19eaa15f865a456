// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package hack

import (
	"errors"
	"fmt"
	"log"
)

const (
	RAM_SIZE = 0x8000 // Addressable data memory, in words.
)

// Cpu is the simulation context for the Hack CPU and its memories.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A  uint16 // Address register.
	D  uint16 // Data register.
	Pc uint16 // Program counter.

	Ram [RAM_SIZE]uint16 // Data memory.
	Rom []Code           // Instruction memory.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with an empty ROM.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %04X\n", "a", cpu.A)
	text += fmt.Sprintf("% 5s: %04X\n", "d", cpu.D)
	for _, name := range []string{"SP", "LCL", "ARG", "THIS", "THAT"} {
		val := cpu.Ram[pointerSymbols[name]]
		text += fmt.Sprintf("% 5s: %04X (%d)\n", name, val, val)
	}

	return
}

// Reset the CPU state. The ROM is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("hack: reset")
	}

	cpu.A = 0
	cpu.D = 0
	cpu.Pc = 0
	clear(cpu.Ram[:])
	cpu.Ticks = 0
}

// Load replaces the ROM contents.
func (cpu *Cpu) Load(rom []Code) {
	cpu.Rom = rom
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if int(cpu.Pc) >= len(cpu.Rom) {
		err = ErrPcEmpty
		return
	}

	code = cpu.Rom[cpu.Pc]
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks++
	return
}

// alu computes the Hack ALU function selected by the c1-c6 bits:
// zx, nx, zy, ny, f, no.
func alu(x, y uint16, c uint16) (out uint16) {
	if (c & 0b100000) != 0 {
		x = 0
	}
	if (c & 0b010000) != 0 {
		x = ^x
	}
	if (c & 0b001000) != 0 {
		y = 0
	}
	if (c & 0b000100) != 0 {
		y = ^y
	}
	if (c & 0b000010) != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if (c & 0b000001) != 0 {
		out = ^out
	}

	return
}

// jumps returns true if the jump condition holds for an ALU output.
func jumps(jump uint16, out uint16) bool {
	value := int16(out)
	return ((jump&JUMP_LT) != 0 && value < 0) ||
		((jump&JUMP_EQ) != 0 && value == 0) ||
		((jump&JUMP_GT) != 0 && value > 0)
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, code)
	}

	next_pc := cpu.Pc + 1

	if code.IsAddress() {
		cpu.A = code.Value()
		cpu.Pc = next_pc
		return
	}

	comp, dest, jump := code.Decode()
	addr := cpu.A

	y := cpu.A
	if (comp & 0b1000000) != 0 {
		if addr >= RAM_SIZE {
			err = ErrAddressRange
			return
		}
		y = cpu.Ram[addr]
	}

	out := alu(cpu.D, y, comp&0b111111)

	if (dest & DEST_M) != 0 {
		if addr >= RAM_SIZE {
			err = ErrAddressRange
			return
		}
		cpu.Ram[addr] = out
	}
	if (dest & DEST_A) != 0 {
		cpu.A = out
	}
	if (dest & DEST_D) != 0 {
		cpu.D = out
	}

	if jumps(jump, out) {
		next_pc = addr
	}

	cpu.Pc = next_pc
	return
}
