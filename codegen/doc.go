// Package codegen translates VM instructions into Hack assembly.
//
// A Writer expands every instruction into a fixed sequence of assembly
// lines. The only state carried between instructions is the active module
// name, used to scope the static segment, and two counters that keep the
// generated comparison and return-address labels unique across the whole
// program.
//
// Memory map of the target:
//
//	RAM[0]      SP    next free stack slot
//	RAM[1]      LCL   base of the local segment
//	RAM[2]      ARG   base of the argument segment
//	RAM[3]      THIS  base of the this segment (pointer 0)
//	RAM[4]      THAT  base of the that segment (pointer 1)
//	RAM[5-12]   temp segment
//	RAM[13-15]  scratch registers
//	RAM[16-255] static variables
//	RAM[256-]   stack
package codegen
