package core

import (
	"fmt"
	"math"
	"time"
)

type localeTexts struct {
	greeting    string
	appointment string
	emergency   string
	thanks      string
	defaultText string
	// quotaNote takes the whole hours until the AI quota resets.
	quotaNote   string
	suggestions []string
}

var (
	greetingTerms = keywordSet{
		"hi", "hello", "hey", "hii", "good morning", "good afternoon", "good evening",
		"namaste", "namaskar", "नमस्ते", "नमस्कार", "హలో", "నమస్కారం", "నమస్తే",
	}
	thanksTerms = keywordSet{
		"thank", "thanks", "thx", "dhanyavad", "shukriya",
		"धन्यवाद", "शुक्रिया", "ధన్యవాదాలు", "ధన్యవాదం",
	}
	localAppointmentTerms = keywordSet{
		"अपॉइंटमेंट", "डॉक्टर से मिलना", "అపాయింట్‌మెంట్", "అపాయింట్మెంట్", "డాక్టర్‌ని కలవాలి",
	}
)

var fallbackTexts = map[string]localeTexts{
	"en": {
		greeting: "Hello! I'm the hospital's virtual assistant. I can help you with symptoms, " +
			"booking appointments, lab reports and general hospital information. How can I help you today?",
		appointment: "To book an appointment, open the Appointments page, pick a department or doctor and choose " +
			"an available slot. You can also call the front desk for help.",
		emergency: "🚨 **This may be a medical emergency.**\n\n" +
			"Call **108** (ambulance) or **112** (emergency services) right now, or go to the nearest emergency department. " +
			"Do not wait for an online reply. If someone is unconscious or not breathing, start CPR if you are trained.",
		thanks: "You're welcome! Take care, and let me know if there's anything else I can help with.",
		defaultText: "I'm not sure I understood that. I can help with symptoms, appointments, lab reports, " +
			"insurance and hospital services. Could you rephrase your question? For medical concerns, please consult a doctor.",
		quotaNote:   "AI responses temporarily limited, resets in %d hours.",
		suggestions: []string{"Book an appointment", "I have a headache", "How do I get my lab report?"},
	},
	"hi": {
		greeting: "नमस्ते! मैं अस्पताल का वर्चुअल सहायक हूँ। मैं लक्षणों, अपॉइंटमेंट बुक करने, लैब रिपोर्ट और " +
			"अस्पताल की जानकारी में आपकी मदद कर सकता हूँ। आज मैं आपकी क्या मदद करूँ?",
		appointment: "अपॉइंटमेंट बुक करने के लिए अपॉइंटमेंट पेज खोलें, विभाग या डॉक्टर चुनें और उपलब्ध समय चुनें। " +
			"आप रिसेप्शन पर कॉल करके भी मदद ले सकते हैं।",
		emergency: "🚨 **यह एक मेडिकल इमरजेंसी हो सकती है।**\n\n" +
			"तुरंत **108** (एम्बुलेंस) या **112** (आपातकालीन सेवा) पर कॉल करें, या नज़दीकी इमरजेंसी विभाग में जाएँ। " +
			"ऑनलाइन जवाब का इंतज़ार न करें।",
		thanks: "आपका स्वागत है! अपना ख्याल रखें। और किसी मदद की ज़रूरत हो तो बताइए।",
		defaultText: "माफ़ कीजिए, मैं समझ नहीं पाया। मैं लक्षण, अपॉइंटमेंट, लैब रिपोर्ट और बीमा से जुड़े सवालों में " +
			"मदद कर सकता हूँ। कृपया अपना सवाल दोबारा लिखें। स्वास्थ्य संबंधी चिंता के लिए डॉक्टर से परामर्श करें।",
		quotaNote:   "AI उत्तर अस्थायी रूप से सीमित हैं, %d घंटे में फिर से उपलब्ध होंगे।",
		suggestions: []string{"अपॉइंटमेंट बुक करें", "मुझे सिरदर्द है", "लैब रिपोर्ट कैसे मिलेगी?"},
	},
	"te": {
		greeting: "నమస్కారం! నేను ఆసుపత్రి వర్చువల్ సహాయకుడిని. లక్షణాలు, అపాయింట్‌మెంట్ బుకింగ్, ల్యాబ్ రిపోర్టులు " +
			"మరియు ఆసుపత్రి సమాచారంలో మీకు సహాయం చేయగలను. ఈరోజు మీకు ఎలా సహాయం చేయగలను?",
		appointment: "అపాయింట్‌మెంట్ బుక్ చేయడానికి అపాయింట్‌మెంట్స్ పేజీని తెరిచి, విభాగం లేదా డాక్టర్‌ను ఎంచుకుని " +
			"అందుబాటులో ఉన్న సమయాన్ని ఎంచుకోండి. రిసెప్షన్‌కు కాల్ చేసి కూడా సహాయం పొందవచ్చు.",
		emergency: "🚨 **ఇది వైద్య అత్యవసర పరిస్థితి కావచ్చు.**\n\n" +
			"వెంటనే **108** (అంబులెన్స్) లేదా **112** (అత్యవసర సేవలు)కు కాల్ చేయండి, లేదా దగ్గరలోని అత్యవసర విభాగానికి వెళ్ళండి. " +
			"ఆన్‌లైన్ సమాధానం కోసం వేచి ఉండకండి.",
		thanks: "మీకు స్వాగతం! జాగ్రత్తగా ఉండండి. ఇంకేమైనా సహాయం కావాలంటే చెప్పండి.",
		defaultText: "క్షమించండి, నాకు అర్థం కాలేదు. లక్షణాలు, అపాయింట్‌మెంట్లు, ల్యాబ్ రిపోర్టులు మరియు బీమా విషయాల్లో " +
			"సహాయం చేయగలను. దయచేసి మీ ప్రశ్నను మళ్ళీ అడగండి. ఆరోగ్య సమస్యల కోసం డాక్టర్‌ను సంప్రదించండి.",
		quotaNote:   "AI సమాధానాలు తాత్కాలికంగా పరిమితం, %d గంటల్లో మళ్ళీ అందుబాటులోకి వస్తాయి.",
		suggestions: []string{"అపాయింట్‌మెంట్ బుక్ చేయండి", "నాకు తలనొప్పిగా ఉంది", "ల్యాబ్ రిపోర్ట్ ఎలా పొందాలి?"},
	},
}

func textsFor(lang string) localeTexts {
	if t, ok := fallbackTexts[lang]; ok {
		return t
	}
	return fallbackTexts[DefaultLanguage]
}

// fallbackReply is the last resort. untilReset > 0 adds the quota note to the
// default block.
func fallbackReply(normalized string, tokens []string, lang string, untilReset time.Duration) ChatReply {
	t := textsFor(lang)
	reply := ChatReply{Source: SourceFallback, Language: lang, Suggestions: t.suggestions}

	switch {
	case greetingTerms.match(normalized, tokens):
		reply.Text, reply.Confidence = t.greeting, 0.95
	case appointmentTerms.match(normalized, tokens) || localAppointmentTerms.match(normalized, tokens):
		reply.Text, reply.Confidence = t.appointment, 0.9
	case thanksTerms.match(normalized, tokens):
		reply.Text, reply.Confidence = t.thanks, 0.95
	default:
		reply.Text, reply.Confidence = t.defaultText, 0.7
		if untilReset > 0 {
			reply.Text += "\n\n" + fmt.Sprintf(t.quotaNote, hoursCeil(untilReset))
		}
	}
	return reply
}

func hoursCeil(d time.Duration) int {
	return int(math.Ceil(d.Hours()))
}
