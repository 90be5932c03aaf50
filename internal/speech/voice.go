// Package speech selects synthesis voices per language and wraps the
// speak/listen capabilities of whatever platform hosts the assistant.
package speech

import (
	"strings"

	"golang.org/x/text/language"
)

// Voice is one synthesis voice offered by the platform.
type Voice struct {
	Name    string `json:"name" validate:"required"`
	Lang    string `json:"lang"`
	Default bool   `json:"default,omitempty"`
}

// locales maps the assistant's language codes to the locale requested from
// the platform.
var locales = map[string]string{
	"en": "en-IN",
	"hi": "hi-IN",
	"te": "te-IN",
	"kn": "kn-IN",
	"ta": "ta-IN",
	"ml": "ml-IN",
	"gu": "gu-IN",
	"bn": "bn-IN",
	"pa": "pa-IN",
}

// voiceNames are matched against Voice.Name when no voice declares the
// language. Platforms often name voices after the language in English or in
// its own script.
var voiceNames = map[string][]string{
	"en": {"english"},
	"hi": {"hindi", "हिन्दी", "हिंदी"},
	"te": {"telugu", "తెలుగు"},
	"kn": {"kannada", "ಕನ್ನಡ"},
	"ta": {"tamil", "தமிழ்"},
	"ml": {"malayalam", "മലയാളം"},
	"gu": {"gujarati", "ગુજરાતી"},
	"bn": {"bengali", "bangla", "বাংলা"},
	"pa": {"punjabi", "panjabi", "ਪੰਜਾਬੀ"},
}

// indicNonLatin falls back to a Hindi voice before English.
var indicNonLatin = map[string]bool{
	"te": true, "kn": true, "ta": true, "ml": true, "gu": true, "bn": true, "pa": true,
}

// LocaleFor returns the platform locale for a language code, or the code
// itself when it is not one of ours.
func LocaleFor(code string) string {
	if l, ok := locales[baseOf(code)]; ok && !strings.Contains(code, "-") {
		return l
	}
	return code
}

// ChooseVoiceForLanguage picks a voice in a fixed order: exact locale, same
// language, name match, Hindi (for non-Latin Indian languages), English,
// then the first voice. ok is false only when voices is empty.
func ChooseVoiceForLanguage(voices []Voice, code string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	base := baseOf(code)
	want := canonical(LocaleFor(code))

	for _, v := range voices {
		if canonical(v.Lang) == want {
			return v, true
		}
	}
	for _, v := range voices {
		if baseOf(v.Lang) == base {
			return v, true
		}
	}
	for _, name := range voiceNames[base] {
		for _, v := range voices {
			if strings.Contains(strings.ToLower(v.Name), name) {
				return v, true
			}
		}
	}
	if indicNonLatin[base] {
		for _, v := range voices {
			if baseOf(v.Lang) == "hi" {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if baseOf(v.Lang) == "en" {
			return v, true
		}
	}
	return voices[0], true
}

// canonical normalizes "te_in", "TE-IN" and "te-IN" to one form.
func canonical(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	t, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	return t.String()
}

func baseOf(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	t, err := language.Parse(tag)
	if err != nil {
		b, _, _ := strings.Cut(strings.ToLower(tag), "-")
		return b
	}
	b, _ := t.Base()
	return b.String()
}
