package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"krishisahay/internal/metrics"
)

// Location is a coarse city-level position used to fetch weather.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (l Location) String() string {
	return l.City + ", " + l.Country
}

// DefaultLocation is returned when every provider fails.
var DefaultLocation = Location{City: "Delhi", Country: "India"}

// defaultProviders are tried in order. The decode is tolerant: each
// provider names its fields differently.
var defaultProviders = []string{
	"https://ipapi.co/json/",
	"http://ip-api.com/json/",
	"https://ipinfo.io/json",
}

// Locator resolves the server's approximate location from public
// IP-geolocation services.
type Locator struct {
	client    *http.Client
	providers []string
	metrics   *metrics.Metrics
}

func NewLocator(m *metrics.Metrics) *Locator {
	return &Locator{
		client:    &http.Client{Timeout: 3 * time.Second},
		providers: defaultProviders,
		metrics:   m,
	}
}

// Locate walks the provider chain and returns the first usable answer.
// It never fails; when no provider responds the hard default is used.
func (l *Locator) Locate(ctx context.Context) Location {
	for _, url := range l.providers {
		loc, err := l.query(ctx, url)
		if err != nil {
			log.Printf("geo: provider %s: %v", url, err)
			continue
		}
		return loc
	}
	log.Printf("geo: all providers failed, using %s", DefaultLocation)
	l.metrics.RecordGeoFallback()
	return DefaultLocation
}

func (l *Locator) query(ctx context.Context, url string) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		RegionName  string `json:"regionName"`
		CountryName string `json:"country_name"`
		Country     string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Location{}, err
	}

	city := payload.City
	if city == "" {
		city = payload.Town
	}
	if city == "" {
		city = payload.RegionName
	}
	if city == "" {
		return Location{}, fmt.Errorf("no city in response")
	}
	country := payload.CountryName
	if country == "" {
		country = payload.Country
	}
	if country == "" {
		country = "India"
	}
	return Location{City: city, Country: country}, nil
}
