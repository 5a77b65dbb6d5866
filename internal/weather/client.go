package weather

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"krishisahay/internal/locale"
	"krishisahay/internal/metrics"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Snapshot holds one weather observation. Temperature is Celsius and
// WindSpeed metres per second.
type Snapshot struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temp"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind"`
	Description string  `json:"desc"`
}

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

// New builds a weather client. An empty apiKey is allowed; every fetch
// then reports a miss and returns nil.
func New(apiKey string, m *metrics.Metrics) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		metrics: m,
	}
}

// Current fetches conditions for the city part of location (text before
// the first comma). It returns nil on any failure; the answer pipeline
// treats missing weather as a fact that is simply absent.
func (c *Client) Current(ctx context.Context, location string) *Snapshot {
	if c.apiKey == "" {
		c.metrics.RecordWeatherMiss()
		return nil
	}
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		c.metrics.RecordWeatherMiss()
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("weather: fetch for %q failed: %v", city, err)
		c.metrics.RecordWeatherMiss()
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("weather: fetch for %q returned status %d", city, resp.StatusCode)
		c.metrics.RecordWeatherMiss()
		return nil
	}

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("weather: decode for %q failed: %v", city, err)
		c.metrics.RecordWeatherMiss()
		return nil
	}
	snap := &Snapshot{
		City:        city,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		snap.Description = payload.Weather[0].Description
	}
	return snap
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RenderText formats a snapshot for display and audio in the requested
// locale.
func RenderText(s *Snapshot, loc locale.Locale) string {
	if loc == locale.Hindi {
		return strings.Join([]string{
			"📍 स्थान: " + s.City,
			"🌡️ तापमान: " + formatFloat(s.Temperature) + "°C",
			"💧 नमी: " + strconv.Itoa(s.Humidity) + "%",
			"💨 हवा की गति: " + formatFloat(s.WindSpeed) + " m/s",
			"🌦️ मौसम: " + s.Description,
		}, "\n")
	}
	return strings.Join([]string{
		"📍 Location: " + s.City,
		"🌡️ Temperature: " + formatFloat(s.Temperature) + "°C",
		"💧 Humidity: " + strconv.Itoa(s.Humidity) + "%",
		"💨 Wind speed: " + formatFloat(s.WindSpeed) + " m/s",
		"🌦️ Weather: " + s.Description,
	}, "\n")
}
