package core

import (
	"fmt"
	"strings"
)

var promptLanguageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
	"kn": "Kannada",
	"ta": "Tamil",
	"ml": "Malayalam",
	"gu": "Gujarati",
	"bn": "Bengali",
	"pa": "Punjabi",
}

const assistantPersona = `You are CarePoint Assistant, the virtual front-desk assistant of a multi-specialty hospital.
You help patients understand symptoms in general terms, prepare for tests and procedures, find the right
department, and use hospital services such as appointments, lab reports and billing.

Safety guidelines:
- Never provide a diagnosis and never prescribe medicines or doses.
- Always recommend professional consultation with a qualified doctor.
- If the message describes a possible emergency, tell the user to call 108 or 112 or go to the nearest emergency department immediately.
- Keep answers short, clear and kind. Use simple bullet points where they help.`

// buildTextPrompt embeds persona, safety rules, reply language and the message.
func buildTextPrompt(message, lang string) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	fmt.Fprintf(&b, "\n\nLanguage code: %s. Reply in %s.\n", lang, languageName(lang))
	b.WriteString("\nUser message:\n")
	b.WriteString(message)
	return b.String()
}

// buildImagePrompt is the stricter template used when an image is attached.
func buildImagePrompt(message, lang string) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	fmt.Fprintf(&b, "\n\nLanguage code: %s. Reply in %s.\n", lang, languageName(lang))
	b.WriteString(`
The user attached an image (for example a skin condition, a wound or a medical report).
Describe only what is visible and answer using exactly these sections, in this order:

**Findings:** what you can observe in the image.
**Possible causes:** general possibilities, clearly stated as not a diagnosis.
**Red flags:** signs that need urgent attention.
**Care tips:** safe general self-care steps.
**When to seek care:** which kind of doctor to see and how soon.

If the image is unclear or not medical, say so and ask for a clearer photo.
`)
	if strings.TrimSpace(message) != "" {
		b.WriteString("\nUser message:\n")
		b.WriteString(message)
	}
	return b.String()
}

func languageName(code string) string {
	if name, ok := promptLanguageNames[code]; ok {
		return name
	}
	return promptLanguageNames[DefaultLanguage]
}
