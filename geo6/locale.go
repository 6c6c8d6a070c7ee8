// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the languages the API names components in.
type Locale string

// Supported locales.
const (
	French Locale = "fr"
	Dutch  Locale = "nl"
	German Locale = "de"
)

// Locales is the order in which every locale is emitted when the caller has
// no preference. It is also the fallback order for missing names.
var Locales = []Locale{French, Dutch, German}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.French,
	language.Dutch,
	language.German,
})

// ParseLocale maps a language hint ("fr", "nl-BE", "de_BE", ...) to a
// supported Locale. It returns false for empty or unsupported hints.
func ParseLocale(hint string) (Locale, bool) {
	hint = strings.TrimSpace(strings.ReplaceAll(hint, "_", "-"))
	if hint == "" {
		return "", false
	}

	tag, err := language.Parse(hint)
	if err != nil {
		return "", false
	}

	_, index, confidence := localeMatcher.Match(tag)
	if confidence < language.High {
		return "", false
	}

	return Locales[index], true
}

// fallbackChain lists the locales to try for a name, requested first.
func fallbackChain(requested Locale) []Locale {
	chain := make([]Locale, 0, len(Locales)+1)
	if requested != "" {
		chain = append(chain, requested)
	}

	for _, l := range Locales {
		if l != requested {
			chain = append(chain, l)
		}
	}

	return chain
}
