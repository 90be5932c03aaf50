package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordSet matches phrases against a normalized message. Phrases with a
// space or non-ASCII text match as substrings; single ASCII words match whole
// tokens, or token prefixes when the word has at least four letters
// ("bleed" matches "bleeding", "hi" does not match "this").
type keywordSet []string

func (ks keywordSet) match(normalized string, tokens []string) bool {
	for _, kw := range ks {
		if strings.ContainsRune(kw, ' ') || !isASCII(kw) {
			if strings.Contains(normalized, kw) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kw || (len(kw) >= 4 && strings.HasPrefix(tok, kw)) {
				return true
			}
		}
	}
	return false
}

func tokenize(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'')
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

var (
	emergencyTerms = keywordSet{
		"emergency", "ambulance", "chest pain", "heart attack", "stroke",
		"can't breathe", "cant breathe", "cannot breathe", "not breathing", "difficulty breathing",
		"unconscious", "fainted", "severe bleeding", "bleeding heavily", "seizure",
		"suicide", "kill myself", "overdose", "poisoning", "choking",
		"आपातकाल", "इमरजेंसी", "सीने में दर्द", "सांस नहीं",
		"అత్యవసర", "ఛాతీ నొప్పి", "ఊపిరి ఆడటం లేదు",
	}
	appointmentTerms = keywordSet{
		"appointment", "book", "booking", "schedule", "reschedule", "consultation",
		"slot", "see a doctor", "visit", "opd",
	}
	symptomTerms = keywordSet{
		"symptom", "pain", "ache", "hurt", "sick", "unwell", "vomit", "nausea",
		"swelling", "infection", "tired", "weak", "itch",
	}
	reportTerms = keywordSet{
		"report", "result", "test", "lab", "scan", "prescription", "diagnosis",
	}
	insuranceTerms = keywordSet{
		"insurance", "billing", "bill", "payment", "cost", "price", "charges",
		"cashless", "claim", "refund",
	}
)

type patternRule struct {
	name        string
	terms       keywordSet
	confidence  float64
	text        string
	suggestions []string
}

var emergencySuggestions = []string{
	"Find the nearest emergency department",
	"Call an ambulance",
}

// patternRules are tested in order; the first hit wins. Emergencies never
// reach them, Resolve answers those first.
var patternRules = []patternRule{
	{
		name:       "appointment",
		terms:      appointmentTerms,
		confidence: 0.9,
		text: "**Booking an appointment**\n\n" +
			"• Open the Appointments page and choose **Book appointment**\n" +
			"• Pick a department or doctor, then an available date and time slot\n" +
			"• Confirm your details; you will see the booking under **My appointments**\n\n" +
			"You can reschedule or cancel from the same page up to 2 hours before the slot. " +
			"For same-day visits, the OPD registration desk can also help.",
		suggestions: []string{"Show available doctors", "Reschedule my appointment", "What are the OPD timings?"},
	},
	{
		name:       "symptom",
		terms:      symptomTerms,
		confidence: 0.85,
		text: "I'm sorry you're not feeling well. Tell me a bit more so I can point you in the right direction:\n\n" +
			"• Where exactly is the problem, and how long has it lasted?\n" +
			"• How severe is it on a scale of 1 to 10?\n" +
			"• Any fever, vomiting, breathlessness or other symptoms?\n\n" +
			"If symptoms are severe or getting worse quickly, please see a doctor today. " +
			"I can't diagnose conditions, but I can help you find the right specialist.",
		suggestions: []string{"Find a specialist", "Book an appointment", "What are emergency warning signs?"},
	},
	{
		name:       "report",
		terms:      reportTerms,
		confidence: 0.85,
		text: "**Reports and lab results**\n\n" +
			"• Completed reports appear under **Medical records** once the lab releases them\n" +
			"• Most blood test results are ready within 24 hours; imaging reports take 1 to 2 days\n" +
			"• You can download or share any report from the records page\n\n" +
			"Please review abnormal values with your doctor rather than interpreting them on your own.",
		suggestions: []string{"When will my report be ready?", "How do I prepare for a blood test?", "Book a follow-up"},
	},
	{
		name:       "insurance",
		terms:      insuranceTerms,
		confidence: 0.8,
		text: "**Insurance and billing**\n\n" +
			"• Cashless treatment is available with most major insurers and TPAs; bring your policy card and ID\n" +
			"• Pre-authorisation for planned admissions is handled by the insurance desk\n" +
			"• Bills and receipts are available on the billing page after each visit\n\n" +
			"For specific questions about coverage or a claim, please contact the billing desk.",
		suggestions: []string{"Which insurers are accepted?", "How do I get a bill copy?", "Contact the billing desk"},
	},
}

func matchPattern(normalized string, tokens []string) (patternRule, bool) {
	for _, rule := range patternRules {
		if rule.terms.match(normalized, tokens) {
			return rule, true
		}
	}
	return patternRule{}, false
}
