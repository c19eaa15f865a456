package config

import (
	"errors"

	"github.com/ezrec/hackvm/translate"
)

var f = translate.From

var (
	// Error category.
	ErrConfig = errors.New(f("config"))
)

// ErrConfigKey is returned for an unrecognized configuration global.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("config: '%v' not recognized", string(err))
}

func (err ErrConfigKey) Is(target error) bool {
	return target == ErrConfig
}

// ErrConfigType is returned when a configuration global has the wrong type.
type ErrConfigType struct {
	Key  string
	Want string
	Got  string
}

func (err ErrConfigType) Error() string {
	return f("config: '%v' must be %v, not %v", err.Key, err.Want, err.Got)
}

func (err ErrConfigType) Is(target error) bool {
	return target == ErrConfig
}

// ErrConfigRange is returned when a configuration value is out of range.
type ErrConfigRange struct {
	Key   string
	Value int64
}

func (err ErrConfigRange) Error() string {
	return f("config: '%v' value %d out of range", err.Key, err.Value)
}

func (err ErrConfigRange) Is(target error) bool {
	return target == ErrConfig
}

// ErrConfigSymbol is returned when a configuration name is not an assembly
// symbol.
type ErrConfigSymbol struct {
	Key  string
	Name string
}

func (err ErrConfigSymbol) Error() string {
	return f("config: '%v' value '%v' is not a valid symbol", err.Key, err.Name)
}

func (err ErrConfigSymbol) Is(target error) bool {
	return target == ErrConfig
}
