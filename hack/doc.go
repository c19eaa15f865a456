// Package hack implements an assembler and emulator for the Hack computer,
// the target of the VM translator.
//
// The Hack CPU has a 16-bit data register (D), a 16-bit address register
// (A) that also selects the memory cell M = RAM[A], and a program counter
// into a separate instruction ROM. There are two instruction forms:
// the address instruction "@value", which loads A, and the compute
// instruction "dest=comp;jump".
//
// The assembler accepts symbols, labels, variables and compile-time
// expressions of the form $(...) evaluated with Starlark. The emulator is
// used to check generated code by running it.
package hack
