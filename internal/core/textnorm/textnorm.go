// Package textnorm folds document text into a form suitable for substring
// comparison against configured keywords and company names.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases text and strips diacritics: "Pró-Labore" becomes "pro-labore".
func Fold(text string) string {
	if text == "" {
		return ""
	}
	// Transformers keep state, so the chain is built per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Lower(language.Und),
		norm.NFC,
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return strings.ToLower(text)
	}
	return out
}

// Normalize folds text and collapses every whitespace run into one space.
func Normalize(text string) string {
	return CollapseSpaces(Fold(text))
}

// CollapseSpaces trims text and joins its fields with single spaces.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Digits keeps only ASCII digits, joining sequences split by punctuation or
// line wraps.
func Digits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
