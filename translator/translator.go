// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translator drives the translation of VM modules into a single
// Hack assembly program.
//
// A single .vm file Foo.vm is translated to Foo.asm beside it. A directory
// Prog is translated, with every .vm file in it in name order, to
// Prog/Prog.asm. The module name of each file is its stem.
package translator

import (
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/ezrec/hackvm/codegen"
	"github.com/ezrec/hackvm/config"
	"github.com/ezrec/hackvm/vm"
)

const (
	VM_EXT  = ".vm"
	ASM_EXT = ".asm"
)

// Module is a parsed VM source file.
type Module struct {
	Name         string           // Static segment namespace.
	Path         string           // Source path.
	Instructions []vm.Instruction // Parsed instructions.
}

// Translator translates VM modules into Hack assembly.
type Translator struct {
	Verbose bool           // If set, enables verbose logging.
	Config  *config.Config // Settings. If nil, config.Default() is used.
}

func (tr *Translator) settings() *config.Config {
	if tr.Config == nil {
		tr.Config = config.Default()
	}

	return tr.Config
}

// Inputs returns the .vm files to translate for name, which is either a
// .vm file or a directory, and the path of the assembly output.
func (tr *Translator) Inputs(fsys fs.FS, name string) (inputs []string, output string, err error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return
	}

	if !info.IsDir() {
		if path.Ext(name) != VM_EXT {
			err = ErrNotVm(name)
			return
		}
		inputs = []string{name}
		output = strings.TrimSuffix(name, VM_EXT) + ASM_EXT
		return
	}

	base := path.Base(name)
	if base == "." {
		err = ErrModuleName(name)
		return
	}

	// Glob returns the matches in name order.
	inputs, err = fs.Glob(fsys, path.Join(name, "*"+VM_EXT))
	if err != nil {
		return
	}
	if len(inputs) == 0 {
		err = errors.Wrapf(ErrNoInput, "%v", name)
		return
	}

	output = path.Join(name, base+ASM_EXT)
	return
}

// Load parses the named .vm files.
func (tr *Translator) Load(fsys fs.FS, inputs []string) (modules []Module, err error) {
	parser := &vm.Parser{Verbose: tr.Verbose}

	for _, input := range inputs {
		mod := Module{
			Name: strings.TrimSuffix(path.Base(input), VM_EXT),
			Path: input,
		}
		if !vm.IsSymbol(mod.Name) {
			err = ErrModuleName(mod.Name)
			return
		}

		var file fs.File
		file, err = fsys.Open(input)
		if err != nil {
			return
		}

		mod.Instructions, err = parser.Parse(file)
		file.Close()
		if err != nil {
			err = errors.Wrapf(err, "%v", input)
			return
		}

		if tr.Verbose {
			log.Printf("translator: %v: %d instructions", input, len(mod.Instructions))
		}

		modules = append(modules, mod)
	}

	return
}

// Translate writes the assembly program for modules to output. All modules
// share one code generator, so generated labels are unique program wide.
func (tr *Translator) Translate(output io.Writer, modules []Module) (err error) {
	cfg := tr.settings()

	buf := bufio.NewWriter(output)

	w := codegen.NewWriter(buf)
	w.Verbose = tr.Verbose
	w.Comments = cfg.Comments
	w.Layout = cfg.Layout

	if cfg.Preset != nil {
		err = w.Preset(*cfg.Preset)
	} else if cfg.Bootstrap {
		err = w.Bootstrap()
	}
	if err != nil {
		return
	}

	for _, mod := range modules {
		w.SetModule(mod.Name)
		for _, inst := range mod.Instructions {
			err = w.Write(inst)
			if err != nil {
				return
			}
		}
	}

	if tr.Verbose {
		state := w.State()
		log.Printf("translator: %d modules, %d branches, %d calls", len(modules), state.Branch, state.Call)
	}

	err = buf.Flush()
	return
}

// TranslatePath translates the .vm file or directory name, and writes the
// assembly output into fsys. The output path is returned.
//
// Nothing is written if translation fails.
func (tr *Translator) TranslatePath(fsys CreateFS, name string) (output string, err error) {
	inputs, output, err := tr.Inputs(fsys, name)
	if err != nil {
		return
	}

	modules, err := tr.Load(fsys, inputs)
	if err != nil {
		return
	}

	var text bytes.Buffer
	err = tr.Translate(&text, modules)
	if err != nil {
		return
	}

	if tr.Verbose {
		log.Printf("translator: %v -> %v", name, output)
	}

	file, err := fsys.Create(output)
	if err != nil {
		return
	}

	_, err = text.WriteTo(file)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	return
}
