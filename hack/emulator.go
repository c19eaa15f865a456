// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package hack

import (
	"errors"
	"log"
)

// Emulator state. CPU + program listing.
type Emulator struct {
	Verbose bool     // If set, enables verbose logging.
	*Cpu             // Reference to the CPU simulation.
	Program *Program // Reference to the currently running program listing.
	Halted  bool     // Set once the program halts.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     NewCpu(),
		Program: &Program{},
	}

	return
}

// Reset loads the program into ROM and resets the CPU.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Load(emu.Program.Binary())
	emu.Cpu.Reset()
	emu.Halted = false
}

// LineNo returns the source line number of the next opcode, or zero.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// halting returns true if code is an unconditional jump to its own address
// instruction: the idiomatic end of a Hack program.
func (emu *Emulator) halting(pc uint16, code Code) bool {
	if code.IsAddress() || pc == 0 {
		return false
	}

	comp, dest, jump := code.Decode()
	if dest != 0 || jump != JUMP_LT|JUMP_EQ|JUMP_GT || compNames[comp] != "0" {
		return false
	}

	prev := emu.Cpu.Rom[pc-1]
	return prev.IsAddress() && prev.Value() == pc-1
}

// Tick performs a single tick of the emulator. The program is done when it
// runs past the end of the ROM, or enters a halting loop.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Halted {
		done = true
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	pc := emu.Cpu.Pc
	code, err := emu.Cpu.FetchCode()
	if errors.Is(err, ErrPcEmpty) {
		err = nil
		done = true
		emu.Halted = true
		return
	}
	if err != nil {
		return
	}

	if emu.halting(pc, code) {
		if emu.Verbose {
			log.Printf("hack: halt at %04x", pc)
		}
		done = true
		emu.Halted = true
		return
	}

	err = emu.Cpu.Tick()
	return
}

// Run ticks the emulator until the program is done. A positive limit
// bounds the number of ticks.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit
	return
}

// Stack returns the stack contents, from base up to the stack pointer.
func (emu *Emulator) Stack(base uint16) (values []uint16) {
	sp := emu.Cpu.Ram[pointerSymbols["SP"]]
	if sp <= base || sp > RAM_SIZE {
		return
	}

	return emu.Cpu.Ram[base:sp]
}
