// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads translator settings from Starlark scripts.
//
// A configuration script assigns any of the following globals:
//
//	stack_base = 256          # initial stack pointer
//	temp_base = 5             # address of temp 0
//	temp_size = 8             # number of temp cells
//	entry = "Sys.init"        # function called by the bootstrap
//	bootstrap = True          # emit the bootstrap prologue
//	comments = False          # annotate output with VM source
//	preset = {"SP": SP, "LCL": 300}
//
// Assigning preset implies bootstrap = False: the pointer registers are
// set directly, and missing pointers take their predeclared defaults.
// Globals whose name starts with an underscore are private to the script.
package config

import (
	"fmt"
	"log"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hackvm/codegen"
	"github.com/ezrec/hackvm/vm"
)

const (
	POINTER_END = 5  // First address past the pointer registers.
	SCRATCH     = 13 // First scratch register, which temp may not reach.
)

// Config holds the translator settings.
type Config struct {
	codegen.Layout

	Bootstrap bool              // Emit the bootstrap prologue.
	Comments  bool              // Annotate the output with VM source.
	Preset    *codegen.Pointers // If set, preset pointer registers instead of bootstrap.
}

// DefaultPreset is the pointer preset used when a script names no value.
var DefaultPreset = codegen.Pointers{
	SP:   256,
	LCL:  456,
	ARG:  756,
	THIS: 1056,
	THAT: 1356,
}

// Default returns the standard configuration.
func Default() (cfg *Config) {
	cfg = &Config{
		Layout:    codegen.DefaultLayout,
		Bootstrap: true,
	}

	return
}

// predeclared returns the names visible to a configuration script.
func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"STACK_BASE": starlark.MakeInt(int(codegen.DefaultLayout.StackBase)),
		"TEMP_BASE":  starlark.MakeInt(int(codegen.DefaultLayout.TempBase)),
		"TEMP_SIZE":  starlark.MakeInt(int(codegen.DefaultLayout.TempSize)),
		"ENTRY":      starlark.String(codegen.DefaultLayout.Entry),
		"SP":         starlark.MakeInt(int(DefaultPreset.SP)),
		"LCL":        starlark.MakeInt(int(DefaultPreset.LCL)),
		"ARG":        starlark.MakeInt(int(DefaultPreset.ARG)),
		"THIS":       starlark.MakeInt(int(DefaultPreset.THIS)),
		"THAT":       starlark.MakeInt(int(DefaultPreset.THAT)),
	}
}

// Load executes a configuration script, and returns the resulting
// configuration. As with starlark.ExecFile, src may be nil to read the
// script from the file name.
func Load(name string, src any) (cfg *Config, err error) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("config: %v: %v", name, msg)
		},
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, name, src, predeclared())
	if err != nil {
		return
	}

	cfg = Default()
	for _, key := range globals.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}

		err = cfg.set(key, globals[key])
		if err != nil {
			cfg = nil
			return
		}
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}

	return
}

// set assigns a single configuration global.
func (cfg *Config) set(key string, value starlark.Value) (err error) {
	switch key {
	case "stack_base":
		cfg.StackBase, err = toAddress(key, value)
	case "temp_base":
		cfg.TempBase, err = toAddress(key, value)
	case "temp_size":
		cfg.TempSize, err = toAddress(key, value)
	case "entry":
		cfg.Entry, err = toString(key, value)
	case "bootstrap":
		cfg.Bootstrap, err = toBool(key, value)
	case "comments":
		cfg.Comments, err = toBool(key, value)
	case "preset":
		cfg.Preset, err = toPointers(key, value)
		if err == nil {
			cfg.Bootstrap = false
		}
	default:
		err = ErrConfigKey(key)
	}

	return
}

// Validate checks that the layout fits the target memory map.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.TempBase < POINTER_END:
		err = ErrConfigRange{Key: "temp_base", Value: int64(cfg.TempBase)}
	case int(cfg.TempBase)+int(cfg.TempSize) > SCRATCH:
		err = ErrConfigRange{Key: "temp_size", Value: int64(cfg.TempSize)}
	case cfg.Bootstrap && !vm.IsSymbol(cfg.Entry):
		err = ErrConfigSymbol{Key: "entry", Name: cfg.Entry}
	}

	return
}

// String returns the configuration as a script that Load accepts.
func (cfg *Config) String() (text string) {
	text += fmt.Sprintf("stack_base = %d\n", cfg.StackBase)
	text += fmt.Sprintf("temp_base = %d\n", cfg.TempBase)
	text += fmt.Sprintf("temp_size = %d\n", cfg.TempSize)
	text += fmt.Sprintf("entry = %q\n", cfg.Entry)
	text += fmt.Sprintf("bootstrap = %v\n", starlark.Bool(cfg.Bootstrap))
	text += fmt.Sprintf("comments = %v\n", starlark.Bool(cfg.Comments))
	if cfg.Preset != nil {
		p := cfg.Preset
		text += fmt.Sprintf("preset = {\"SP\": %d, \"LCL\": %d, \"ARG\": %d, \"THIS\": %d, \"THAT\": %d}\n",
			p.SP, p.LCL, p.ARG, p.THIS, p.THAT)
	}

	return
}

func toAddress(key string, value starlark.Value) (addr uint16, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrConfigType{Key: key, Want: "int", Got: value.Type()}
		return
	}

	v64, ok := st_int.Int64()
	if !ok || v64 < 0 || v64 > codegen.MAX_CONSTANT {
		err = ErrConfigRange{Key: key, Value: v64}
		return
	}

	addr = uint16(v64)
	return
}

func toString(key string, value starlark.Value) (text string, err error) {
	st_str, ok := value.(starlark.String)
	if !ok {
		err = ErrConfigType{Key: key, Want: "string", Got: value.Type()}
		return
	}

	text = string(st_str)
	return
}

func toBool(key string, value starlark.Value) (flag bool, err error) {
	st_bool, ok := value.(starlark.Bool)
	if !ok {
		err = ErrConfigType{Key: key, Want: "bool", Got: value.Type()}
		return
	}

	flag = bool(st_bool)
	return
}

func toPointers(key string, value starlark.Value) (ptrs *codegen.Pointers, err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = ErrConfigType{Key: key, Want: "dict", Got: value.Type()}
		return
	}

	preset := DefaultPreset
	fields := map[string]*uint16{
		codegen.REG_SP:   &preset.SP,
		codegen.REG_LCL:  &preset.LCL,
		codegen.REG_ARG:  &preset.ARG,
		codegen.REG_THIS: &preset.THIS,
		codegen.REG_THAT: &preset.THAT,
	}

	for _, item := range dict.Items() {
		var name string
		name, err = toString(key, item[0])
		if err != nil {
			return
		}

		field, ok := fields[name]
		if !ok {
			err = ErrConfigKey(key + "." + name)
			return
		}

		*field, err = toAddress(key+"."+name, item[1])
		if err != nil {
			return
		}
	}

	ptrs = &preset
	return
}
