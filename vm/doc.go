// Package vm implements the instruction model and parser for the stack
// virtual machine language.
//
// A VM program is a sequence of modules, one per source file. Each line of a
// module holds at most one instruction: memory access (push, pop) against one
// of eight segments, one of nine arithmetic/logical operations, program flow
// (label, goto, if-goto) or function handling (function, call, return).
//
// The parser classifies every line exactly once; downstream consumers switch
// on the closed Command, Segment and ArithOp types rather than on text.
package vm
