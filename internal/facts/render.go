package facts

import (
	"fmt"
	"strconv"
	"strings"

	"krishisahay/internal/locale"
)

// Rendering of facts into prompt text lives here so the store, the
// fallback tables, and the composer all agree on one shape.

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// RenderCrop flattens a crop profile into labelled lines in the
// requested locale.
func RenderCrop(f *CropFact, loc locale.Locale) string {
	if loc == locale.Hindi {
		return strings.Join([]string{
			"फसल: " + f.Name,
			"फसल प्रकार: " + f.Type,
			"विवरण: " + f.Description,
			"उपयुक्त जलवायु: " + f.Climate,
			"उपयुक्त मिट्टी: " + f.Soil,
			"आदर्श तापमान (°C): " + f.Temperature,
			"पानी की आवश्यकता: " + f.Water,
			"उगाने का मौसम: " + f.Season,
			"बाज़ार मूल्य (₹/किलो): " + formatPrice(f.PricePerKg),
		}, "\n")
	}
	return strings.Join([]string{
		"Crop: " + f.Name,
		"Crop type: " + f.Type,
		"Description: " + f.Description,
		"Suitable climate: " + f.Climate,
		"Suitable soil: " + f.Soil,
		"Ideal temperature (°C): " + f.Temperature,
		"Water requirement: " + f.Water,
		"Growing season: " + f.Season,
		"Market price (₹/kg): " + formatPrice(f.PricePerKg),
	}, "\n")
}

// RenderRotation flattens rotation steps into labelled blocks, one per
// recommended next crop.
func RenderRotation(rf *RotationFact, loc locale.Locale) string {
	blocks := make([]string, 0, len(rf.Steps))
	for _, st := range rf.Steps {
		if loc == locale.Hindi {
			name := st.NextCropHindi
			if name == "" {
				name = st.NextCrop
			}
			blocks = append(blocks, strings.Join([]string{
				"अगली फसल: " + name,
				"मौसम: " + st.Season,
				"कारण: " + st.Reason,
				"मिट्टी पर प्रभाव: " + st.SoilEffect,
				"कीट/रोग लाभ: " + st.PestBenefit,
				"अंतराल (दिन): " + strconv.Itoa(st.GapDays),
				"सावधानियाँ: " + st.Precautions,
			}, "\n"))
			continue
		}
		blocks = append(blocks, strings.Join([]string{
			"Next crop: " + st.NextCrop,
			"Season: " + st.Season,
			"Reason: " + st.Reason,
			"Soil effect: " + st.SoilEffect,
			"Pest/Disease benefit: " + st.PestBenefit,
			"Gap (days): " + strconv.Itoa(st.GapDays),
			"Precautions: " + st.Precautions,
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func renderFertilizerRows(rows []fertilizerRow) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("- %s (%s): Nutrients: %s, Stage: %s, Price: ₹%s/kg",
			r.Name, r.Type, r.Nutrients, r.Stage, formatPrice(r.PricePerKg)))
	}
	return strings.Join(lines, "\n")
}
