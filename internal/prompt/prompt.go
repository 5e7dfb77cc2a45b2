// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package prompt owns everything that is said to the hosted model: the
bilingual prompt templates, the placeholder substitution engine, and the
static catalogs of story topics and art styles.

# Architecture

Templates are plain strings with {identifier} placeholders. The engine
performs global substitution with no escaping or conditionals, keeping
prompts auditable as literal text. Domain services build a variable map
and call [Fill]; they never concatenate prompt fragments by hand.
*/
package prompt

// Locale selects the story language.
type Locale string

const (
	// LocaleEnglish generates stories in English.
	LocaleEnglish Locale = "en"
	// LocaleUkrainian generates stories in Ukrainian.
	LocaleUkrainian Locale = "uk"
)

// Valid reports whether the locale is one of the supported languages.
func (l Locale) Valid() bool {
	return l == LocaleEnglish || l == LocaleUkrainian
}
