package codegen

import (
	"fmt"

	"github.com/ezrec/hackvm/vm"
)

// binary combines the top two stack cells in place. The right operand is
// popped into D, and A is left addressing the left operand.
func binary(comp string) []string {
	return []string{
		"@" + REG_SP,
		"AM=M-1",
		"D=M",
		"A=A-1",
		comp,
	}
}

// unary replaces the top of stack in place.
func unary(comp string) []string {
	return []string{
		"@" + REG_SP,
		"A=M-1",
		comp,
	}
}

// compare replaces the top two stack cells with -1 (true) or 0 (false).
// The difference computed by diff is tested by jump.
func compare(n int, diff string, jump string) []string {
	is_true := fmt.Sprintf("TRUE_%d", n)
	cont := fmt.Sprintf("CONTINUE_%d", n)

	return []string{
		"@" + REG_SP,
		"AM=M-1",
		"D=M",
		"A=A-1",
		diff,
		"@" + is_true,
		"D;" + jump,
		"@" + REG_SP,
		"A=M-1",
		"M=0",
		"@" + cont,
		"0;JMP",
		label(is_true),
		"@" + REG_SP,
		"A=M-1",
		"M=-1",
		label(cont),
	}
}

// Arithmetic emits an arithmetic or logical operation.
func (w *Writer) Arithmetic(op vm.ArithOp) (err error) {
	var lines []string

	switch op {
	case vm.OP_ADD:
		lines = binary("M=D+M")
	case vm.OP_SUB:
		lines = binary("M=M-D")
	case vm.OP_AND:
		lines = binary("M=D&M")
	case vm.OP_OR:
		lines = binary("M=D|M")
	case vm.OP_NEG:
		lines = unary("M=-M")
	case vm.OP_NOT:
		lines = unary("M=!M")
	case vm.OP_EQ, vm.OP_GT, vm.OP_LT:
		var n int
		n, err = w.nextBranch()
		if err != nil {
			return
		}
		switch op {
		case vm.OP_EQ:
			lines = compare(n, "D=M-D", "JEQ")
		case vm.OP_GT:
			lines = compare(n, "D=M-D", "JGT")
		case vm.OP_LT:
			// right - left > 0
			lines = compare(n, "D=D-M", "JGT")
		}
	default:
		err = ErrCommandInvalid
		return
	}

	return w.emit(lines...)
}
