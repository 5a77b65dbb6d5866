package facts

// Static fallback tables used when the structured store is unreachable or
// has no matching row. Keys are lowercase crop identifiers. The tables are
// immutable and shared across all turns.

type fallbackCrop struct {
	Name             string
	NameHindi        string
	Type             string
	Description      string
	DescriptionHindi string
	Climate          string
	Soil             string
	Temperature      string
	Water            string
	Season           string
	PricePerKg       float64
}

var fallbackCrops = map[string]fallbackCrop{
	"rice": {
		Name:             "Rice",
		NameHindi:        "धान",
		Type:             "Cereal",
		Description:      "Rice is a staple crop requiring warm temperatures and adequate water. Plant in monsoon season.",
		DescriptionHindi: "धान एक मुख्य फसल है जिसे गर्म तापमान और पर्याप्त पानी की आवश्यकता होती है। मानसून में लगाएं।",
		Climate:          "Tropical, Subtropical",
		Soil:             "Clay, Loamy soil with good water retention",
		Temperature:      "20-30°C",
		Water:            "1000-1500 mm",
		Season:           "June-October",
		PricePerKg:       50,
	},
	"wheat": {
		Name:             "Wheat",
		NameHindi:        "गेहूं",
		Type:             "Cereal",
		Description:      "Wheat thrives in cool seasons with moderate rainfall. Plant in October-November.",
		DescriptionHindi: "गेहूं ठंडे मौसम में अच्छी तरह उगता है। अक्टूबर-नवंबर में लगाएं।",
		Climate:          "Temperate",
		Soil:             "Well-drained loamy soil",
		Temperature:      "15-25°C",
		Water:            "400-500 mm",
		Season:           "October-March",
		PricePerKg:       25,
	},
	"maize": {
		Name:             "Maize",
		NameHindi:        "मक्का",
		Type:             "Cereal",
		Description:      "Maize is a summer crop that requires warm temperatures and good moisture.",
		DescriptionHindi: "मक्का एक गर्मी की फसल है जिसे गर्म तापमान की आवश्यकता होती है।",
		Climate:          "Tropical, Subtropical",
		Soil:             "Well-drained loamy soil",
		Temperature:      "21-27°C",
		Water:            "500-750 mm",
		Season:           "May-September",
		PricePerKg:       20,
	},
	"cotton": {
		Name:             "Cotton",
		NameHindi:        "कपास",
		Type:             "Cash Crop",
		Description:      "Cotton requires warm climate, good drainage, and moderate rainfall.",
		DescriptionHindi: "कपास को गर्म जलवायु और अच्छी जल निकासी की आवश्यकता होती है।",
		Climate:          "Tropical, Subtropical",
		Soil:             "Well-drained loamy soil",
		Temperature:      "21-30°C",
		Water:            "600-900 mm",
		Season:           "June-October",
		PricePerKg:       5500,
	},
	"sugarcane": {
		Name:             "Sugarcane",
		NameHindi:        "गन्ना",
		Type:             "Cash Crop",
		Description:      "Sugarcane is a long-duration crop requiring warm temperature and ample water.",
		DescriptionHindi: "गन्ना एक लंबी अवधि की फसल है जिसे गर्म तापमान और पर्याप्त पानी चाहिए।",
		Climate:          "Tropical, Subtropical",
		Soil:             "Deep loamy soil",
		Temperature:      "21-27°C",
		Water:            "2000-2250 mm",
		Season:           "November-December planting",
		PricePerKg:       40,
	},
}

var fallbackFertilizers = map[string]string{
	"rice":      "For rice, use Urea (Nitrogen-rich) at 120-150 kg/hectare during growing season. Apply Phosphate (DAP) 60-80 kg/hectare at planting and Potash 40-60 kg/hectare for better yields.",
	"wheat":     "For wheat, apply Urea 120 kg/hectare in splits - half at planting and half at tillering stage. Use DAP 80 kg/hectare at planting. Potash application 40 kg/hectare improves grain quality.",
	"maize":     "For maize, apply Urea 150 kg/hectare in splits and DAP 100 kg/hectare at planting. Micronutrients like Zinc and Boron are beneficial for higher yields.",
	"cotton":    "For cotton, use Urea 180 kg/hectare, DAP 100 kg/hectare, and Potash 60 kg/hectare. Split applications are recommended for better growth.",
	"sugarcane": "For sugarcane, apply high doses of Nitrogen (200-250 kg/hectare) and Phosphate (100-120 kg/hectare). FYM 25-30 tons/hectare improves soil health.",
}

var fallbackRotations = map[string][]RotationStep{
	"rice": {
		{
			NextCrop:      "Wheat",
			NextCropHindi: "गेहूं",
			Season:        "Rabi (October-March)",
			Reason:        "Wheat is grown in winter after rice, utilizing residual moisture.",
			SoilEffect:    "Improves soil structure and nitrogen availability.",
			PestBenefit:   "Breaks pest and disease cycle of rice.",
			GapDays:       30,
			Precautions:   "Proper rice straw management required.",
		},
	},
	"wheat": {
		{
			NextCrop:      "Rice",
			NextCropHindi: "धान",
			Season:        "Kharif (June-October)",
			Reason:        "Rice is ideal summer crop after wheat.",
			SoilEffect:    "Maintains soil fertility through legume rotation.",
			PestBenefit:   "Breaks wheat pest cycle effectively.",
			GapDays:       30,
			Precautions:   "Prepare land adequately with irrigation.",
		},
	},
	"cotton": {
		{
			NextCrop:      "Pulses (Chickpea/Gram)",
			NextCropHindi: "दालें (चना)",
			Season:        "Rabi (October-February)",
			Reason:        "Legumes improve soil nitrogen after cotton.",
			SoilEffect:    "Greatly improves soil nitrogen levels.",
			PestBenefit:   "Breaks cotton pest and disease cycle.",
			GapDays:       30,
			Precautions:   "Ensure proper spacing for chickpea.",
		},
	},
	"maize": {
		{
			NextCrop:      "Legumes/Pulses",
			NextCropHindi: "दालें",
			Season:        "Rabi/Kharif",
			Reason:        "Legumes restore nitrogen depleted by maize.",
			SoilEffect:    "Nitrogen fixation improves soil health.",
			PestBenefit:   "Reduces maize pest populations.",
			GapDays:       15,
			Precautions:   "Adequate moisture needed for legume germination.",
		},
	},
}
