// Package locale holds the two supported display languages and their fixed UI strings.
package locale

import "strings"

// Locale selects the response/display language.
type Locale string

const (
	English Locale = "English"
	Hindi   Locale = "Hindi"
)

// Parse maps a user-supplied language selection to a Locale, defaulting to English.
func Parse(v string) Locale {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "hindi", "hi":
		return Hindi
	default:
		return English
	}
}

// Strings carries the fixed per-locale UI text.
type Strings struct {
	Title               string
	QuestionLabel       string
	QuestionPlaceholder string
	MissingCrop         string
}

var langText = map[Locale]Strings{
	English: {
		Title:               "KrishiSahay 🌾",
		QuestionLabel:       "Farmer's Question",
		QuestionPlaceholder: "How should I grow rice?",
		MissingCrop:         "Please mention the crop name so I can help you.",
	},
	Hindi: {
		Title:               "कृषि सहाय 🌾",
		QuestionLabel:       "किसान का प्रश्न",
		QuestionPlaceholder: "धान की खेती कैसे करें?",
		MissingCrop:         "कृपया फसल का नाम बताएं ताकि मैं आपकी मदद कर सकूं।",
	},
}

// Text returns the UI strings for a locale.
func Text(l Locale) Strings {
	if s, ok := langText[l]; ok {
		return s
	}
	return langText[English]
}

// WeatherUnavailable is the literal fallback used when no weather data
// could be obtained. It is the same across locales.
const WeatherUnavailable = "Weather data not available."
