package vm

import (
	"fmt"
)

// Command is the kind of a VM instruction.
type Command int

//go:generate go tool stringer -linecomment -type=Command
const (
	C_PUSH       = Command(0) // push
	C_POP        = Command(1) // pop
	C_ARITHMETIC = Command(2) // arithmetic
	C_LABEL      = Command(3) // label
	C_GOTO       = Command(4) // goto
	C_IF_GOTO    = Command(5) // if-goto
	C_FUNCTION   = Command(6) // function
	C_CALL       = Command(7) // call
	C_RETURN     = Command(8) // return
)

// Segment is a VM memory segment.
type Segment int

//go:generate go tool stringer -linecomment -type=Segment
const (
	SEG_CONSTANT = Segment(0) // constant
	SEG_ARGUMENT = Segment(1) // argument
	SEG_LOCAL    = Segment(2) // local
	SEG_STATIC   = Segment(3) // static
	SEG_THIS     = Segment(4) // this
	SEG_THAT     = Segment(5) // that
	SEG_TEMP     = Segment(6) // temp
	SEG_POINTER  = Segment(7) // pointer
)

// ArithOp is an arithmetic or logical stack operation.
type ArithOp int

//go:generate go tool stringer -linecomment -type=ArithOp
const (
	OP_ADD = ArithOp(0) // add
	OP_SUB = ArithOp(1) // sub
	OP_NEG = ArithOp(2) // neg
	OP_EQ  = ArithOp(3) // eq
	OP_GT  = ArithOp(4) // gt
	OP_LT  = ArithOp(5) // lt
	OP_AND = ArithOp(6) // and
	OP_OR  = ArithOp(7) // or
	OP_NOT = ArithOp(8) // not
)

// commandMap maps the leading keyword of a line to its command.
var commandMap = map[string]Command{
	"push":     C_PUSH,
	"pop":      C_POP,
	"label":    C_LABEL,
	"goto":     C_GOTO,
	"if-goto":  C_IF_GOTO,
	"function": C_FUNCTION,
	"call":     C_CALL,
	"return":   C_RETURN,
}

// segmentMap maps segment names.
var segmentMap = map[string]Segment{
	"constant": SEG_CONSTANT,
	"argument": SEG_ARGUMENT,
	"local":    SEG_LOCAL,
	"static":   SEG_STATIC,
	"this":     SEG_THIS,
	"that":     SEG_THAT,
	"temp":     SEG_TEMP,
	"pointer":  SEG_POINTER,
}

// arithMap maps arithmetic mnemonics.
var arithMap = map[string]ArithOp{
	"add": OP_ADD,
	"sub": OP_SUB,
	"neg": OP_NEG,
	"eq":  OP_EQ,
	"gt":  OP_GT,
	"lt":  OP_LT,
	"and": OP_AND,
	"or":  OP_OR,
	"not": OP_NOT,
}

// Unary returns true for operations that replace the top of stack in place.
func (op ArithOp) Unary() bool {
	return op == OP_NEG || op == OP_NOT
}

// Compare returns true for operations that produce a boolean.
func (op ArithOp) Compare() bool {
	return op == OP_EQ || op == OP_GT || op == OP_LT
}

// Instruction is a single classified VM instruction.
//
// Which operand fields are meaningful depends on Command:
//   - C_PUSH, C_POP: Segment and Index.
//   - C_ARITHMETIC: Op.
//   - C_LABEL, C_GOTO, C_IF_GOTO: Name.
//   - C_FUNCTION: Name, and Count local variables.
//   - C_CALL: Name, and Count arguments.
//   - C_RETURN: none.
type Instruction struct {
	Command Command
	Segment Segment
	Index   uint16
	Op      ArithOp
	Name    string
	Count   uint16

	LineNo int    // Source line number, 1 based. Zero if synthesized.
	Line   string // Source text, trimmed.
}

func Push(seg Segment, index uint16) Instruction {
	return Instruction{Command: C_PUSH, Segment: seg, Index: index}
}

func Pop(seg Segment, index uint16) Instruction {
	return Instruction{Command: C_POP, Segment: seg, Index: index}
}

func Arithmetic(op ArithOp) Instruction {
	return Instruction{Command: C_ARITHMETIC, Op: op}
}

func Label(name string) Instruction {
	return Instruction{Command: C_LABEL, Name: name}
}

func Goto(name string) Instruction {
	return Instruction{Command: C_GOTO, Name: name}
}

func IfGoto(name string) Instruction {
	return Instruction{Command: C_IF_GOTO, Name: name}
}

func Function(name string, locals uint16) Instruction {
	return Instruction{Command: C_FUNCTION, Name: name, Count: locals}
}

func Call(name string, args uint16) Instruction {
	return Instruction{Command: C_CALL, Name: name, Count: args}
}

func Return() Instruction {
	return Instruction{Command: C_RETURN}
}

// String returns the canonical source text of the instruction.
func (inst Instruction) String() (text string) {
	switch inst.Command {
	case C_PUSH, C_POP:
		text = fmt.Sprintf("%v %v %d", inst.Command, inst.Segment, inst.Index)
	case C_ARITHMETIC:
		text = inst.Op.String()
	case C_LABEL, C_GOTO, C_IF_GOTO:
		text = fmt.Sprintf("%v %v", inst.Command, inst.Name)
	case C_FUNCTION, C_CALL:
		text = fmt.Sprintf("%v %v %d", inst.Command, inst.Name, inst.Count)
	case C_RETURN:
		text = inst.Command.String()
	default:
		text = inst.Command.String()
	}

	return
}
