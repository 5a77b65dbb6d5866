package facts

import (
	"context"
	"log"
	"strings"
	"time"

	"krishisahay/internal/locale"
	"krishisahay/internal/metrics"
)

// Gateway serves crop facts from the SQLite store, falling back to the
// static tables when the store is missing or failing. It never returns
// errors; an unknown crop is a nil fact, not a failure.
type Gateway struct {
	store   *Store
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewGateway builds a gateway over store, which may be nil when no
// database is configured.
func NewGateway(store *Store, m *metrics.Metrics) *Gateway {
	return &Gateway{store: store, timeout: 3 * time.Second, metrics: m}
}

// Crop fetches one crop's profile in the requested locale.
func (g *Gateway) Crop(ctx context.Context, name string, loc locale.Locale) *CropFact {
	if g.store != nil {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		fact, err := g.store.CropByName(ctx, name, loc)
		if err != nil {
			log.Printf("facts: crop lookup %q failed: %v", name, err)
			g.metrics.RecordStoreFailure()
		} else if fact != nil {
			return fact
		}
	}
	c, ok := fallbackCrops[strings.ToLower(name)]
	if !ok {
		return nil
	}
	g.metrics.RecordStoreFallback()
	f := &CropFact{
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
		Climate:     c.Climate,
		Soil:        c.Soil,
		Temperature: c.Temperature,
		Water:       c.Water,
		Season:      c.Season,
		PricePerKg:  c.PricePerKg,
	}
	if loc == locale.Hindi {
		f.Name = c.NameHindi
		f.Description = c.DescriptionHindi
	}
	return f
}

// Fertilizer fetches the fertilizer advisory for a crop.
func (g *Gateway) Fertilizer(ctx context.Context, crop string) *FertilizerFact {
	if g.store != nil {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		rows, err := g.store.FertilizersForCrop(ctx, crop)
		if err != nil {
			log.Printf("facts: fertilizer lookup %q failed: %v", crop, err)
			g.metrics.RecordStoreFailure()
		} else if len(rows) > 0 {
			return &FertilizerFact{Advisory: renderFertilizerRows(rows)}
		}
	}
	advisory, ok := fallbackFertilizers[strings.ToLower(crop)]
	if !ok {
		return nil
	}
	g.metrics.RecordStoreFallback()
	return &FertilizerFact{Advisory: advisory}
}

// Rotation fetches the rotation plan steps for a crop.
func (g *Gateway) Rotation(ctx context.Context, crop string) *RotationFact {
	if g.store != nil {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		steps, err := g.store.RotationsForCrop(ctx, crop)
		if err != nil {
			log.Printf("facts: rotation lookup %q failed: %v", crop, err)
			g.metrics.RecordStoreFailure()
		} else if len(steps) > 0 {
			return &RotationFact{Steps: steps}
		}
	}
	steps, ok := fallbackRotations[strings.ToLower(crop)]
	if !ok {
		return nil
	}
	g.metrics.RecordStoreFallback()
	return &RotationFact{Steps: steps}
}
