package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"krishisahay/internal/crops"
	"krishisahay/internal/facts"
	"krishisahay/internal/geo"
	"krishisahay/internal/locale"
	"krishisahay/internal/metrics"
	"krishisahay/internal/prompts"
	"krishisahay/internal/weather"
)

type fakeBackend struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeLocator struct {
	loc   geo.Location
	calls int
}

func (f *fakeLocator) Locate(ctx context.Context) geo.Location {
	f.calls++
	return f.loc
}

type fakeWeather struct {
	snap  *weather.Snapshot
	calls int
}

func (f *fakeWeather) Current(ctx context.Context, location string) *weather.Snapshot {
	f.calls++
	return f.snap
}

func newTestPipeline(backend *fakeBackend, snap *weather.Snapshot) (*Pipeline, *metrics.Metrics) {
	m := metrics.New()
	pm := prompts.NewManager("")
	return NewPipeline(
		facts.NewGateway(nil, m),
		crops.NewResolver(backend, pm),
		&fakeLocator{loc: geo.DefaultLocation},
		&fakeWeather{snap: snap},
		backend,
		pm,
		m,
	), m
}

func TestAskFullCropFlow(t *testing.T) {
	backend := &fakeBackend{reply: "Plant rice in June with 100-120 kg of urea."}
	snap := &weather.Snapshot{City: "Delhi", Temperature: 31, Humidity: 58, WindSpeed: 3, Description: "haze"}
	p, m := newTestPipeline(backend, snap)

	var tr Transcript
	payload, err := p.Ask(context.Background(), "How should I grow rice?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if payload.Text != "Plant rice in June with 100-120 kg of urea." {
		t.Fatalf("text = %q", payload.Text)
	}
	if payload.AudioText != "Plant rice in June with 100 to 120 kg of urea." {
		t.Fatalf("audio text = %q", payload.AudioText)
	}
	if payload.WeatherCard == "" || payload.RotationCard == "" {
		t.Fatalf("cards missing: %+v", payload)
	}

	// Store is nil, so every fact block must come from the fallback
	// tables rather than a placeholder.
	prompt := backend.prompts[len(backend.prompts)-1]
	for _, banned := range []string{"No crop data available.", "No specific fertilizer data available.", "No crop rotation data available."} {
		if strings.Contains(prompt, banned) {
			t.Errorf("prompt has placeholder %q despite fallback data:\n%s", banned, prompt)
		}
	}
	if !strings.Contains(prompt, "Crop: Rice") {
		t.Errorf("prompt missing crop block:\n%s", prompt)
	}

	if tr.Len() != 2 {
		t.Fatalf("transcript len = %d, want 2", tr.Len())
	}
	entries := tr.Entries()
	if entries[0].Role != RoleUser || entries[1].Role != RoleAssistant {
		t.Fatalf("entries = %+v", entries)
	}
	if got := m.Snapshot(); got.Turns != 1 || got.FailedTurns != 0 {
		t.Fatalf("metrics = %+v", got)
	}
}

func TestAskWeatherOnlySkipsResolver(t *testing.T) {
	backend := &fakeBackend{reply: "should not be used"}
	snap := &weather.Snapshot{City: "Delhi", Temperature: 31, Humidity: 58, WindSpeed: 3, Description: "haze"}
	p, _ := newTestPipeline(backend, snap)

	var tr Transcript
	payload, err := p.Ask(context.Background(), "Will it rain tomorrow?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", backend.calls)
	}
	if !strings.Contains(payload.Text, "📍 Location: Delhi") {
		t.Fatalf("text = %q", payload.Text)
	}
	if payload.WeatherCard == "" {
		t.Fatal("weather card missing")
	}
	if payload.RotationCard != "" {
		t.Fatal("rotation card present on weather-only turn")
	}
	if tr.Len() != 2 {
		t.Fatalf("transcript len = %d", tr.Len())
	}
}

func TestAskWeatherOnlyUnavailable(t *testing.T) {
	p, _ := newTestPipeline(&fakeBackend{}, nil)
	var tr Transcript
	payload, err := p.Ask(context.Background(), "What is the weather today?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if payload.Text != "Weather data not available." {
		t.Fatalf("text = %q", payload.Text)
	}
	if payload.WeatherCard != "" {
		t.Fatal("weather card present without a snapshot")
	}
}

func TestAskPlantingBeatsWeather(t *testing.T) {
	backend := &fakeBackend{reply: "Sow wheat in November."}
	p, _ := newTestPipeline(backend, nil)
	var tr Transcript
	payload, err := p.Ask(context.Background(), "Can I plant wheat before the rain next week?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1 (crop flow)", backend.calls)
	}
	if payload.Text != "Sow wheat in November." {
		t.Fatalf("text = %q", payload.Text)
	}
}

func TestAskMissingCrop(t *testing.T) {
	backend := &fakeBackend{reply: "should not be used"}
	p, _ := newTestPipeline(backend, nil)

	var tr Transcript
	payload, err := p.Ask(context.Background(), "How do I get a farm loan?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	want := locale.Text(locale.English).MissingCrop
	if payload.Text != want {
		t.Fatalf("text = %q, want %q", payload.Text, want)
	}
	if payload.WeatherCard != "" || payload.RotationCard != "" {
		t.Fatalf("cards on missing-crop turn: %+v", payload)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", backend.calls)
	}
	entries := tr.Entries()
	if len(entries) != 2 || entries[1].Content != want {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestAskBackendFailureLeavesTranscript(t *testing.T) {
	backend := &fakeBackend{err: errors.New("quota exceeded")}
	p, m := newTestPipeline(backend, nil)

	var tr Transcript
	_, err := p.Ask(context.Background(), "How should I grow rice?", locale.English, &tr)
	if err == nil {
		t.Fatal("expected error")
	}
	if tr.Len() != 0 {
		t.Fatalf("transcript mutated on failure: %+v", tr.Entries())
	}
	if got := m.Snapshot(); got.FailedTurns != 1 {
		t.Fatalf("metrics = %+v", got)
	}
}

func TestAskCropFromHistory(t *testing.T) {
	backend := &fakeBackend{reply: "Use urea in splits."}
	p, _ := newTestPipeline(backend, nil)

	var tr Transcript
	tr.AppendTurn("Tell me about cotton", "Cotton needs a warm climate.")
	_, err := p.Ask(context.Background(), "Which fertilizer should I use?", locale.English, &tr)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	prompt := backend.prompts[len(backend.prompts)-1]
	if !strings.Contains(prompt, "Crop: Cotton") {
		t.Errorf("prompt missing cotton facts:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Previous conversation:") {
		t.Errorf("prompt missing history block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Farmer: Tell me about cotton") {
		t.Errorf("prompt missing farmer line:\n%s", prompt)
	}
}
