package dialogue

import "strings"

// Keyword interrupts stay deterministic and independent of the LLM: a shop
// owner must always be able to bail out, even when the extractor is down.
// The sets cover English, Hinglish and Devanagari Hindi/Marathi forms.

var cancelKeywords = []string{
	"cancel", "stop", "band karo", "radd",
	"रद्द", "बंद", "थांब", "रहने दो",
}

var finishKeywords = []string{
	"done", "save", "confirm", "finish", "bas", "ho gaya",
	"बस", "झालं", "हो गया", "पूर्ण",
}

// IsCancel reports whether the utterance contains a cancel/stop keyword.
// Matching is case-insensitive substring containment, same for all scripts.
func IsCancel(text string) bool {
	return containsAny(text, cancelKeywords)
}

// IsFinish reports whether the utterance asks to wrap up and save the bill.
func IsFinish(text string) bool {
	return containsAny(text, finishKeywords)
}

func containsAny(text string, keywords []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}
	for _, word := range keywords {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
