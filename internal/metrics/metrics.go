package metrics

import "sync/atomic"

// Metrics captures shared operational stats for the conversation pipeline
// and the data gateway.
type Metrics struct {
	turns          int64
	failedTurns    int64
	storeFailures  int64
	storeFallbacks int64
	weatherMisses  int64
	geoFallbacks   int64
}

// Snapshot provides a consistent view of the current metrics.
type Snapshot struct {
	Turns          int64 `json:"turns"`
	FailedTurns    int64 `json:"failed_turns"`
	StoreFailures  int64 `json:"store_failures"`
	StoreFallbacks int64 `json:"store_fallbacks"`
	WeatherMisses  int64 `json:"weather_misses"`
	GeoFallbacks   int64 `json:"geo_fallbacks"`
}

// New creates a zeroed Metrics instance.
func New() *Metrics {
	return &Metrics{}
}

// RecordTurn increments turn counters based on outcome.
func (m *Metrics) RecordTurn(err error) {
	atomic.AddInt64(&m.turns, 1)
	if err != nil {
		atomic.AddInt64(&m.failedTurns, 1)
	}
}

// RecordStoreFailure counts a structured-store query that had to be absorbed.
func (m *Metrics) RecordStoreFailure() {
	atomic.AddInt64(&m.storeFailures, 1)
}

// RecordStoreFallback counts a fact served from the static fallback tables.
func (m *Metrics) RecordStoreFallback() {
	atomic.AddInt64(&m.storeFallbacks, 1)
}

// RecordWeatherMiss counts a turn where no weather snapshot was obtainable.
func (m *Metrics) RecordWeatherMiss() {
	atomic.AddInt64(&m.weatherMisses, 1)
}

// RecordGeoFallback counts a location resolved via the hard-coded default.
func (m *Metrics) RecordGeoFallback() {
	atomic.AddInt64(&m.geoFallbacks, 1)
}

// Snapshot returns a read-only view of metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Turns:          atomic.LoadInt64(&m.turns),
		FailedTurns:    atomic.LoadInt64(&m.failedTurns),
		StoreFailures:  atomic.LoadInt64(&m.storeFailures),
		StoreFallbacks: atomic.LoadInt64(&m.storeFallbacks),
		WeatherMisses:  atomic.LoadInt64(&m.weatherMisses),
		GeoFallbacks:   atomic.LoadInt64(&m.geoFallbacks),
	}
}
