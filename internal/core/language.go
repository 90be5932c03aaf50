package core

import "unicode"

const DefaultLanguage = "en"

// scriptLanguages is checked in order; the first script with any rune in the
// text wins.
var scriptLanguages = []struct {
	table *unicode.RangeTable
	code  string
}{
	{unicode.Devanagari, "hi"},
	{unicode.Telugu, "te"},
	{unicode.Kannada, "kn"},
	{unicode.Tamil, "ta"},
	{unicode.Malayalam, "ml"},
	{unicode.Gujarati, "gu"},
	{unicode.Bengali, "bn"},
	{unicode.Gurmukhi, "pa"},
}

// DetectLanguage maps the script of text to a language code. A single rune in
// a supported Indic script is enough; anything else is English.
func DetectLanguage(text string) string {
	for _, sl := range scriptLanguages {
		for _, r := range text {
			if unicode.Is(sl.table, r) {
				return sl.code
			}
		}
	}
	return DefaultLanguage
}
