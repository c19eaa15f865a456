// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate localises the user-visible messages of hackvm.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:generate go tool gotext -srclang=en-US update -out=catalog.go -lang=en-US github.com/ezrec/hackvm/vm github.com/ezrec/hackvm/codegen github.com/ezrec/hackvm/hack github.com/ezrec/hackvm/config github.com/ezrec/hackvm/translator

const fallback = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("hackvm: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{fallback}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// Use replaces the message printer with one for an explicit language.
func Use(tag language.Tag) {
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
