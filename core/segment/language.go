package segment

import (
	"regexp"
	"strings"
)

var latinRE = regexp.MustCompile(`[a-zA-Z]`)

// hindiMarkers is a small lexicon of high-frequency Hindi function words.
// Sanskrit and Hindi share a script, so token-level markers are the only
// cheap signal available.
var hindiMarkers = []string{
	"की", "में", "है", "हैं", "था", "थी", "थे", "नहीं", "और", "चाहिए",
}

// DetectLanguage guesses the language of a text span with basic
// heuristics: mostly Latin characters means English, a Hindi function
// word means Hindi, and everything else defaults to Sanskrit.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "sa"
	}

	latinCount := len(latinRE.FindAllString(text, -1))
	if float64(latinCount)/float64(len([]rune(text))) > 0.90 {
		return "en"
	}

	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(text) {
		tokens[tok] = true
	}
	for _, marker := range hindiMarkers {
		if tokens[marker] {
			return "hi"
		}
	}
	return "sa"
}
