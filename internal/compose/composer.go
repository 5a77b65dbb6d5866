package compose

import (
	"strconv"
	"strings"

	"krishisahay/internal/locale"
	"krishisahay/internal/prompts"
	"krishisahay/internal/weather"
)

// Payload is one finished turn: display text, an audio-ready variant,
// and optional markdown cards.
type Payload struct {
	Text         string `json:"text"`
	AudioText    string `json:"audio_text"`
	WeatherCard  string `json:"weather_card,omitempty"`
	RotationCard string `json:"rotation_card,omitempty"`
}

// Message is one prior transcript entry given to the prompt builder.
type Message struct {
	FromFarmer bool
	Content    string
}

// PromptInput carries everything the crop-flow prompt needs. The fact
// fields hold pre-rendered text blocks; an empty field means the fact
// was absent and gets an explicit placeholder in the prompt.
type PromptInput struct {
	Question   string
	Locale     locale.Locale
	History    []Message
	Crop       string
	Fertilizer string
	Rotation   string
	Weather    string
}

// Placeholders inserted for absent facts. The backend always sees a
// marker, never a silently missing block.
const (
	noCropData       = "No crop data available."
	noFertilizerData = "No specific fertilizer data available."
	noRotationData   = "No crop rotation data available."
)

func orPlaceholder(block, placeholder string) string {
	if strings.TrimSpace(block) == "" {
		return placeholder
	}
	return block
}

// BuildCropPrompt assembles the single instruction text for the
// full crop flow using the current templates.
func BuildCropPrompt(in PromptInput, pc prompts.Config) string {
	languageInstruction := pc.LanguageEnglish
	if in.Locale == locale.Hindi {
		languageInstruction = pc.LanguageHindi
	}

	var b strings.Builder
	b.WriteString(pc.Preamble)
	b.WriteString("\n\n")
	b.WriteString("LANGUAGE:\n")
	b.WriteString(languageInstruction)
	b.WriteString("\n\n")
	b.WriteString("RULES:\n")
	for _, rule := range pc.Rules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(in.History) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, m := range in.History {
			role := "KrishiSahay Assistant"
			if m.FromFarmer {
				role = "Farmer"
			}
			b.WriteString(role)
			b.WriteString(": ")
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("CROP DATA:\n")
	b.WriteString(orPlaceholder(in.Crop, noCropData))
	b.WriteString("\n\n")
	b.WriteString("FERTILIZER DATA:\n")
	b.WriteString(orPlaceholder(in.Fertilizer, noFertilizerData))
	b.WriteString("\n\n")
	b.WriteString("ROTATION DATA:\n")
	b.WriteString(orPlaceholder(in.Rotation, noRotationData))
	b.WriteString("\n\n")
	b.WriteString("WEATHER CONDITIONS:\n")
	b.WriteString(orPlaceholder(in.Weather, locale.WeatherUnavailable))
	b.WriteString("\n\n")
	b.WriteString("QUESTION:\n")
	b.WriteString(in.Question)
	b.WriteString("\n")
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WeatherCard renders a snapshot as a markdown card. Trailing double
// spaces force markdown line breaks.
func WeatherCard(s *weather.Snapshot) string {
	return strings.Join([]string{
		"### 🌦️ Current Weather",
		"",
		"📍 **Location:** " + s.City + "  ",
		"🌡️ **Temperature:** " + formatFloat(s.Temperature) + "°C  ",
		"💧 **Humidity:** " + strconv.Itoa(s.Humidity) + "%  ",
		"💨 **Wind Speed:** " + formatFloat(s.WindSpeed) + " m/s  ",
		"🌤️ **Condition:** " + s.Description,
	}, "\n")
}

// RotationCard wraps rendered rotation text in a markdown card.
func RotationCard(text string) string {
	return "### 🌾 Crop Rotation Advice\n\n" + text
}
