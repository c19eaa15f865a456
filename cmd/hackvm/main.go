// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/ezrec/hackvm/config"
	"github.com/ezrec/hackvm/hack"
	"github.com/ezrec/hackvm/translate"
	"github.com/ezrec/hackvm/translator"
)

const DEFAULT_WIDTH = 80

// termWidth returns the width of the terminal on stdout.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DEFAULT_WIDTH
	}

	return width
}

// dumpStack writes the stack words, as many per line as the terminal fits.
func dumpStack(out io.Writer, base uint16, stack []uint16) {
	per_line := max(1, (termWidth()-7)/7)

	for n := 0; n < len(stack); n += per_line {
		words := []string{}
		for _, value := range stack[n:min(n+per_line, len(stack))] {
			words = append(words, fmt.Sprintf("%6d", int16(value)))
		}
		fmt.Fprintf(out, "%5d: %v\n", int(base)+n, strings.Join(words, " "))
	}
}

func main() {
	var configFile string
	var output string
	var noBootstrap bool
	var comments bool
	var verbose bool
	var run int
	var lang string

	flag.StringVar(&configFile, "c", "", ".star configuration file")
	flag.StringVar(&output, "o", "", "Assembly output ('-' for stdout); default beside the input")
	flag.BoolVar(&noBootstrap, "n", false, "Do not emit the bootstrap prologue")
	flag.BoolVar(&comments, "g", false, "Annotate the output with VM source")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&run, "run", 0, "Assemble and execute up to N cycles")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47 tag)")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one .vm file or directory, got: %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
		translate.Use(tag)
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile, nil)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}
	if noBootstrap {
		cfg.Bootstrap = false
	}
	if comments {
		cfg.Comments = true
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	fsys := translator.DirFS(filepath.Dir(abs))
	name := filepath.Base(abs)

	tr := &translator.Translator{Verbose: verbose, Config: cfg}

	inputs, asm_name, err := tr.Inputs(fsys, name)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	modules, err := tr.Load(fsys, inputs)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var text bytes.Buffer
	err = tr.Translate(&text, modules)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The state dump goes to stdout, unless the program does.
	dump := io.Writer(os.Stdout)

	switch output {
	case "-":
		_, err = os.Stdout.Write(text.Bytes())
		dump = os.Stderr
	case "":
		var ouf io.WriteCloser
		ouf, err = fsys.Create(asm_name)
		if err == nil {
			_, err = ouf.Write(text.Bytes())
			err = errors.Join(err, ouf.Close())
		}
		output = filepath.Join(filepath.Dir(abs), filepath.FromSlash(asm_name))
	default:
		err = os.WriteFile(output, text.Bytes(), 0644)
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if verbose {
		log.Printf("hackvm: %v -> %v", input, output)
	}

	if run <= 0 {
		return
	}

	asm := &hack.Assembler{Verbose: verbose}
	prog, err := asm.Parse(&text)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	emu := hack.NewEmulator()
	emu.Verbose = verbose
	emu.Program = prog
	emu.Reset()

	err = emu.Run(run)
	if err != nil && !errors.Is(err, hack.ErrTickLimit) {
		log.Fatalf("%v: %v", output, err)
	}

	base := cfg.StackBase
	if cfg.Preset != nil {
		base = cfg.Preset.SP
	}

	fmt.Fprintf(dump, "ticks: %d", emu.Ticks)
	if emu.Halted {
		fmt.Fprintf(dump, " (halted)")
	}
	fmt.Fprintf(dump, "\n%v", emu.Cpu)
	dumpStack(dump, base, emu.Stack(base))
}
