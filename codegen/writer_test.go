package codegen

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hackvm/vm"
)

// doListing returns the lines emitted by fn.
func doListing(t *testing.T, fn func(w *Writer) error) (lines []string) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	w.SetModule("Foo")

	err := fn(w)
	if err != nil {
		t.Fatal(err)
	}

	lines = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	return
}

func listingEqual(t *testing.T, expected, lines []string) {
	if diff := cmp.Diff(expected, lines); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterPush(t *testing.T) {
	table := [](struct {
		inst vm.Instruction
		load []string
	}){
		{vm.Push(vm.SEG_CONSTANT, 7), []string{"@7", "D=A"}},
		{vm.Push(vm.SEG_LOCAL, 2), []string{"@2", "D=A", "@LCL", "A=D+M", "D=M"}},
		{vm.Push(vm.SEG_ARGUMENT, 1), []string{"@1", "D=A", "@ARG", "A=D+M", "D=M"}},
		{vm.Push(vm.SEG_THIS, 6), []string{"@6", "D=A", "@THIS", "A=D+M", "D=M"}},
		{vm.Push(vm.SEG_THAT, 0), []string{"@0", "D=A", "@THAT", "A=D+M", "D=M"}},
		{vm.Push(vm.SEG_STATIC, 3), []string{"@Foo.3", "D=M"}},
		{vm.Push(vm.SEG_TEMP, 7), []string{"@12", "D=M"}},
		{vm.Push(vm.SEG_POINTER, 0), []string{"@THIS", "D=M"}},
		{vm.Push(vm.SEG_POINTER, 1), []string{"@THAT", "D=M"}},
	}

	for _, entry := range table {
		lines := doListing(t, func(w *Writer) error { return w.Write(entry.inst) })
		listingEqual(t, slices.Concat(entry.load, []string{"@SP", "A=M", "M=D", "@SP", "M=M+1"}), lines)
	}
}

func TestWriterPop(t *testing.T) {
	table := [](struct {
		inst  vm.Instruction
		lines []string
	}){
		{vm.Pop(vm.SEG_LOCAL, 2), []string{
			"@SP", "M=M-1",
			"@2", "D=A", "@LCL", "D=D+M", "@R13", "M=D",
			"@SP", "A=M", "D=M",
			"@R13", "A=M", "M=D",
		}},
		{vm.Pop(vm.SEG_THAT, 5), []string{
			"@SP", "M=M-1",
			"@5", "D=A", "@THAT", "D=D+M", "@R13", "M=D",
			"@SP", "A=M", "D=M",
			"@R13", "A=M", "M=D",
		}},
		{vm.Pop(vm.SEG_STATIC, 3), []string{"@SP", "AM=M-1", "D=M", "@Foo.3", "M=D"}},
		{vm.Pop(vm.SEG_TEMP, 0), []string{"@SP", "AM=M-1", "D=M", "@5", "M=D"}},
		{vm.Pop(vm.SEG_POINTER, 1), []string{"@SP", "AM=M-1", "D=M", "@THAT", "M=D"}},
	}

	for _, entry := range table {
		lines := doListing(t, func(w *Writer) error { return w.Write(entry.inst) })
		listingEqual(t, entry.lines, lines)
	}
}

func TestWriterArithmetic(t *testing.T) {
	lines := doListing(t, func(w *Writer) error { return w.Arithmetic(vm.OP_SUB) })
	listingEqual(t, []string{"@SP", "AM=M-1", "D=M", "A=A-1", "M=M-D"}, lines)

	lines = doListing(t, func(w *Writer) error { return w.Arithmetic(vm.OP_NOT) })
	listingEqual(t, []string{"@SP", "A=M-1", "M=!M"}, lines)

	lines = doListing(t, func(w *Writer) error { return w.Arithmetic(vm.OP_LT) })
	listingEqual(t, []string{
		"@SP", "AM=M-1", "D=M", "A=A-1",
		"D=D-M",
		"@TRUE_0", "D;JGT",
		"@SP", "A=M-1", "M=0",
		"@CONTINUE_0", "0;JMP",
		"(TRUE_0)",
		"@SP", "A=M-1", "M=-1",
		"(CONTINUE_0)",
	}, lines)
}

func TestWriterBranchLabels(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	w.SetModule("A")
	assert.NoError(w.Arithmetic(vm.OP_EQ))
	w.SetModule("B")
	assert.NoError(w.Arithmetic(vm.OP_ADD))
	assert.NoError(w.Arithmetic(vm.OP_EQ))
	assert.NoError(w.Arithmetic(vm.OP_GT))

	assert.Equal(3, w.State().Branch)
	assert.Equal(0, w.State().Call)

	text := buf.String()
	for _, lbl := range []string{"(TRUE_0)", "(CONTINUE_0)", "(TRUE_1)", "(CONTINUE_1)", "(TRUE_2)", "(CONTINUE_2)"} {
		assert.Equal(1, strings.Count(text, lbl), lbl)
	}
}

func TestWriterFlow(t *testing.T) {
	lines := doListing(t, func(w *Writer) error {
		return errors.Join(w.Label("LOOP"), w.Goto("LOOP"), w.IfGoto("END"))
	})
	listingEqual(t, []string{
		"(LOOP)",
		"@LOOP", "0;JMP",
		"@SP", "AM=M-1", "D=M", "@END", "D;JNE",
	}, lines)
}

func TestWriterFunction(t *testing.T) {
	assert := assert.New(t)

	lines := doListing(t, func(w *Writer) error { return w.Function("Foo.bar", 0) })
	listingEqual(t, []string{"(Foo.bar)"}, lines)

	lines = doListing(t, func(w *Writer) error { return w.Function("Foo.bar", 3) })
	assert.Equal(1+3*7, len(lines))
	assert.Equal("(Foo.bar)", lines[0])
	for n := range 3 {
		listingEqual(t, []string{"@0", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1"}, lines[1+n*7:1+(n+1)*7])
	}
}

func TestWriterCall(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	assert.NoError(w.Call("Foo.bar", 2))
	assert.NoError(w.Call("Foo.bar", 2))
	assert.NoError(w.Call("Foo.baz", 0))
	assert.Equal(3, w.State().Call)

	text := buf.String()
	assert.Equal(1, strings.Count(text, "@Foo.bar$ret.0\n"))
	assert.Equal(1, strings.Count(text, "(Foo.bar$ret.0)\n"))
	assert.Equal(1, strings.Count(text, "(Foo.bar$ret.1)\n"))
	assert.Equal(1, strings.Count(text, "(Foo.baz$ret.2)\n"))
	assert.Equal(2, strings.Count(text, "@Foo.bar\n0;JMP\n"))

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	first := lines[:len(lines)/3]
	listingEqual(t, []string{
		"@Foo.bar$ret.0", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@LCL", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@ARG", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@THIS", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@THAT", "D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@SP", "D=M", "@5", "D=D-A", "@2", "D=D-A", "@ARG", "M=D",
		"@SP", "D=M", "@LCL", "M=D",
		"@Foo.bar", "0;JMP",
		"(Foo.bar$ret.0)",
	}, first)
}

func TestWriterReturn(t *testing.T) {
	lines := doListing(t, func(w *Writer) error { return w.Return() })
	listingEqual(t, []string{
		"@LCL", "D=M", "@R13", "M=D",
		"@5", "A=D-A", "D=M", "@R14", "M=D",
		"@SP", "AM=M-1", "D=M", "@ARG", "A=M", "M=D",
		"@ARG", "D=M+1", "@SP", "M=D",
		"@R13", "AM=M-1", "D=M", "@THAT", "M=D",
		"@R13", "AM=M-1", "D=M", "@THIS", "M=D",
		"@R13", "AM=M-1", "D=M", "@ARG", "M=D",
		"@R13", "AM=M-1", "D=M", "@LCL", "M=D",
		"@R14", "A=M", "0;JMP",
	}, lines)
}

func TestWriterBootstrap(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	assert.NoError(w.Bootstrap())
	assert.Equal(1, w.State().Call)

	lines := strings.Split(buf.String(), "\n")
	listingEqual(t, []string{"@256", "D=A", "@SP", "M=D", "@Sys.init$ret.0"}, lines[:5])
	assert.Contains(buf.String(), "@Sys.init\n0;JMP\n(Sys.init$ret.0)\n")

	// Twice is an error.
	err := w.Bootstrap()
	assert.ErrorIs(err, ErrBootstrapOrder)
	assert.ErrorIs(err, ErrGeneration)

	// After other output is an error.
	w = NewWriter(&bytes.Buffer{})
	w.SetModule("Main")
	assert.NoError(w.Push(vm.SEG_CONSTANT, 1))
	assert.ErrorIs(w.Bootstrap(), ErrBootstrapOrder)
	assert.ErrorIs(w.Preset(Pointers{}), ErrBootstrapOrder)

	// Custom layout.
	buf.Reset()
	w = NewWriter(buf)
	w.Layout.StackBase = 512
	w.Layout.Entry = "Main.main"
	assert.NoError(w.Bootstrap())
	assert.True(strings.HasPrefix(buf.String(), "@512\nD=A\n@SP\nM=D\n@Main.main$ret.0\n"))
}

func TestWriterPreset(t *testing.T) {
	lines := doListing(t, func(w *Writer) error {
		return w.Preset(Pointers{SP: 256, LCL: 300, ARG: 400, THIS: 3000, THAT: 3010})
	})
	listingEqual(t, []string{
		"@256", "D=A", "@SP", "M=D",
		"@300", "D=A", "@LCL", "M=D",
		"@400", "D=A", "@ARG", "M=D",
		"@3000", "D=A", "@THIS", "M=D",
		"@3010", "D=A", "@THAT", "M=D",
	}, lines)
}

func TestWriterSegmentErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		inst vm.Instruction
		err  error
	}){
		{vm.Push(vm.SEG_POINTER, 2), ErrInvalidPointerIndex(2)},
		{vm.Pop(vm.SEG_POINTER, 7), ErrInvalidPointerIndex(7)},
		{vm.Push(vm.SEG_TEMP, 8), ErrIndexOutOfRange{Segment: vm.SEG_TEMP, Index: 8}},
		{vm.Push(vm.SEG_TEMP, 9), ErrIndexOutOfRange{Segment: vm.SEG_TEMP, Index: 9}},
		{vm.Pop(vm.SEG_TEMP, 9), ErrIndexOutOfRange{Segment: vm.SEG_TEMP, Index: 9}},
		{vm.Push(vm.SEG_CONSTANT, 32768), ErrIndexOutOfRange{Segment: vm.SEG_CONSTANT, Index: 32768}},
		{vm.Push(vm.SEG_LOCAL, 40000), ErrIndexOutOfRange{Segment: vm.SEG_LOCAL, Index: 40000}},
		{vm.Push(vm.SEG_THAT, 32768), ErrIndexOutOfRange{Segment: vm.SEG_THAT, Index: 32768}},
		{vm.Pop(vm.SEG_ARGUMENT, 65535), ErrIndexOutOfRange{Segment: vm.SEG_ARGUMENT, Index: 65535}},
		{vm.Pop(vm.SEG_THIS, 32768), ErrIndexOutOfRange{Segment: vm.SEG_THIS, Index: 32768}},
		{vm.Pop(vm.SEG_CONSTANT, 0), ErrSegmentReadOnly},
		{vm.Push(vm.Segment(42), 0), ErrSegmentInvalid(42)},
		{vm.Pop(vm.Segment(-1), 0), ErrSegmentInvalid(-1)},
	}

	for _, entry := range table {
		buf := &bytes.Buffer{}
		w := NewWriter(buf)
		w.SetModule("Foo")
		err := w.Write(entry.inst)
		assert.ErrorIs(err, entry.err, entry.inst.String())
		assert.ErrorIs(err, ErrSegment, entry.inst.String())
		assert.Equal(0, buf.Len(), entry.inst.String())
	}

	// Static needs a module.
	w := NewWriter(&bytes.Buffer{})
	assert.ErrorIs(w.Push(vm.SEG_STATIC, 0), ErrModuleMissing)
	assert.ErrorIs(w.Pop(vm.SEG_STATIC, 0), ErrSegment)
}

func TestWriterGenerationErrors(t *testing.T) {
	assert := assert.New(t)

	w := NewWriter(&bytes.Buffer{})
	w.state.Branch = math.MaxInt
	err := w.Arithmetic(vm.OP_EQ)
	assert.ErrorIs(err, ErrCounterOverflow)
	assert.ErrorIs(err, ErrGeneration)
	assert.NoError(w.Arithmetic(vm.OP_ADD))

	w.state.Call = math.MaxInt
	assert.ErrorIs(w.Call("Foo", 0), ErrCounterOverflow)

	assert.ErrorIs(w.Call("Foo", 0x8000), ErrCountRange)
	assert.ErrorIs(w.Arithmetic(vm.ArithOp(99)), ErrCommandInvalid)
	assert.ErrorIs(w.Write(vm.Instruction{Command: vm.Command(99)}), ErrCommandInvalid)
}

func TestWriterSymbolErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		emit func(w *Writer) error
	}){
		{"label", func(w *Writer) error { return w.Label("") }},
		{"goto", func(w *Writer) error { return w.Goto("1 bad") }},
		{"if-goto", func(w *Writer) error { return w.IfGoto("a-b") }},
		{"function", func(w *Writer) error { return w.Function("(F)", 1) }},
		{"call", func(w *Writer) error { return w.Call("", 0) }},
		{"bootstrap", func(w *Writer) error {
			w.Layout.Entry = "1 bad"
			return w.Bootstrap()
		}},
	}

	for _, entry := range table {
		buf := &bytes.Buffer{}
		w := NewWriter(buf)
		err := entry.emit(w)

		var invalid ErrSymbolInvalid
		assert.ErrorAs(err, &invalid, entry.name)
		assert.ErrorIs(err, ErrGeneration, entry.name)
		if entry.name != "bootstrap" {
			assert.Equal(0, buf.Len(), entry.name)
		}
		assert.Equal(0, w.State().Call, entry.name)
	}

	// Offsets up to the widest address instruction are accepted.
	lines := doListing(t, func(w *Writer) error { return w.Push(vm.SEG_LOCAL, MAX_CONSTANT) })
	assert.Equal("@32767", lines[0])
}

func TestWriterInstructionError(t *testing.T) {
	assert := assert.New(t)

	p := &vm.Parser{}
	lines := []string{"push constant 1", "pop temp 10"}

	w := NewWriter(&bytes.Buffer{})
	w.SetModule("Main")

	var err error
	for inst, perr := range p.Instructions(lines) {
		assert.NoError(perr)
		err = w.Write(inst)
		if err != nil {
			break
		}
	}

	var where *ErrInstruction
	if assert.True(errors.As(err, &where)) {
		assert.Equal("Main", where.Module)
		assert.Equal(2, where.LineNo)
		assert.Equal("pop temp 10", where.Line)
	}
	assert.ErrorIs(err, ErrIndexOutOfRange{Segment: vm.SEG_TEMP, Index: 10})
}

func TestWriterComments(t *testing.T) {
	lines := doListing(t, func(w *Writer) error {
		w.Comments = true
		return w.Write(vm.Arithmetic(vm.OP_NEG))
	})
	listingEqual(t, []string{"// neg", "@SP", "A=M-1", "M=-M"}, lines)
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestWriterOutputError(t *testing.T) {
	assert := assert.New(t)

	w := NewWriter(failWriter{})
	w.SetModule("Foo")
	assert.ErrorIs(w.Bootstrap(), errWrite)
	assert.ErrorIs(w.Write(vm.Push(vm.SEG_CONSTANT, 1)), errWrite)
	assert.ErrorIs(w.Return(), errWrite)
}
