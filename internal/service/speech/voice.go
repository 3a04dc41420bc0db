package speech

// Neural voice per recognized language, all Indian-locale voices. The
// detected STT language picks the reply voice so a Marathi question gets a
// Marathi answer.
var voiceByLanguage = map[string]string{
	"hi": "hi-IN-SwaraNeural",
	"mr": "mr-IN-AarohiNeural",
	"bn": "bn-IN-TanishaaNeural",
	"gu": "gu-IN-DhwaniNeural",
	"kn": "kn-IN-SapnaNeural",
	"ml": "ml-IN-SobhanaNeural",
	"ta": "ta-IN-PallaviNeural",
	"te": "te-IN-ShrutiNeural",
	"ur": "ur-IN-GulshanNeural",
	"en": "en-IN-NeerjaNeural",
}

// VoiceFor returns the synthesis voice for a language code, falling back to
// Indian English for anything unrecognized.
func VoiceFor(language string) string {
	if voice, ok := voiceByLanguage[language]; ok {
		return voice
	}
	return voiceByLanguage["en"]
}
