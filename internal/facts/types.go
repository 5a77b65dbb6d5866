// Package facts provides the fallback-aware data gateway for crop,
// fertilizer, and rotation knowledge. Every fetch degrades from the
// structured store to static fallback tables to "absent"; callers never
// see an error.
package facts

// CropFact is a fully populated crop record. Name and Description are
// bound to the locale requested at fetch time because the store is
// queried with a locale-specific column set.
type CropFact struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Climate     string  `json:"climate"`
	Soil        string  `json:"soil"`
	Temperature string  `json:"temperature"`
	Water       string  `json:"water"`
	Season      string  `json:"season"`
	PricePerKg  float64 `json:"price_per_kg"`
}

// FertilizerFact is a rendered advisory string tied to a crop.
type FertilizerFact struct {
	Advisory string `json:"advisory"`
}

// RotationStep recommends one follow-on crop. Both language projections
// of the next-crop name travel together so a locale switch needs no
// second fetch.
type RotationStep struct {
	NextCrop      string `json:"next_crop"`
	NextCropHindi string `json:"next_crop_hi"`
	Season        string `json:"season"`
	Reason        string `json:"reason"`
	SoilEffect    string `json:"soil_effect"`
	PestBenefit   string `json:"pest_benefit"`
	GapDays       int    `json:"gap_days"`
	Precautions   string `json:"precautions"`
}

// RotationFact is an ordered sequence of rotation recommendations.
type RotationFact struct {
	Steps []RotationStep `json:"steps"`
}
