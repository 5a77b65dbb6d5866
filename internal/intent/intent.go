// Package intent classifies farmer questions by lexical keyword matching.
package intent

import "strings"

// Intent tags a question as weather, planting, or general.
type Intent int

const (
	General Intent = iota
	Weather
	Planting
)

func (i Intent) String() string {
	switch i {
	case Weather:
		return "weather"
	case Planting:
		return "planting"
	default:
		return "general"
	}
}

// Keyword sets span both supported locales. The two sets are disjoint.
var weatherKeywords = []string{
	"weather", "rain", "rainfall", "temperature", "climate",
	"forecast", "tomorrow", "next",
	"मौसम", "बारिश", "तापमान", "जलवायु", "कल",
}

var plantingKeywords = []string{
	"can i plant", "can i grow", "should i sow",
	"planting", "sowing",
	"क्या मैं बो सकता", "क्या उगाना ठीक है", "बुवाई",
}

// Classify derives the intent of a question from its text alone.
// Planting takes precedence over weather when both keyword sets match.
func Classify(question string) Intent {
	text := strings.ToLower(question)
	if containsAny(text, plantingKeywords) {
		return Planting
	}
	if containsAny(text, weatherKeywords) {
		return Weather
	}
	return General
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
