package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"krishisahay/internal/compose"
	"krishisahay/internal/crops"
	"krishisahay/internal/facts"
	"krishisahay/internal/gemini"
	"krishisahay/internal/geo"
	"krishisahay/internal/intent"
	"krishisahay/internal/locale"
	"krishisahay/internal/metrics"
	"krishisahay/internal/prompts"
	"krishisahay/internal/weather"
)

// Locator resolves the caller's coarse location. *geo.Locator satisfies it.
type Locator interface {
	Locate(ctx context.Context) geo.Location
}

// WeatherSource fetches current conditions. *weather.Client satisfies it.
type WeatherSource interface {
	Current(ctx context.Context, location string) *weather.Snapshot
}

// Pipeline runs one conversational turn: classify, resolve the crop,
// gather facts, call the backend, post-process. The transcript is only
// mutated when the turn completes; a failed backend call leaves it
// untouched.
type Pipeline struct {
	gateway  *facts.Gateway
	resolver *crops.Resolver
	locator  Locator
	weather  WeatherSource
	backend  gemini.Generator
	prompts  *prompts.Manager
	metrics  *metrics.Metrics
}

func NewPipeline(gateway *facts.Gateway, resolver *crops.Resolver, locator Locator, wc WeatherSource, backend gemini.Generator, pm *prompts.Manager, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		gateway:  gateway,
		resolver: resolver,
		locator:  locator,
		weather:  wc,
		backend:  backend,
		prompts:  pm,
		metrics:  m,
	}
}

// Ask answers one question within the session transcript.
func (p *Pipeline) Ask(ctx context.Context, question string, loc locale.Locale, tr *Transcript) (compose.Payload, error) {
	switch intent.Classify(question) {
	case intent.Weather:
		return p.weatherTurn(ctx, question, loc, tr), nil
	default:
		return p.cropTurn(ctx, question, loc, tr)
	}
}

func (p *Pipeline) weatherTurn(ctx context.Context, question string, loc locale.Locale, tr *Transcript) compose.Payload {
	location := p.locator.Locate(ctx)
	snap := p.weather.Current(ctx, location.String())

	text := locale.WeatherUnavailable
	if snap != nil {
		text = weather.RenderText(snap, loc)
	}
	payload := compose.Payload{
		Text:      text,
		AudioText: compose.CleanForAudio(text),
	}
	if snap != nil {
		payload.WeatherCard = compose.WeatherCard(snap)
	}
	tr.AppendTurn(question, text)
	p.metrics.RecordTurn(nil)
	return payload
}

func (p *Pipeline) cropTurn(ctx context.Context, question string, loc locale.Locale, tr *Transcript) (compose.Payload, error) {
	crop := p.resolver.Resolve(ctx, question, tr.UserContents(), loc)
	if crop == "" {
		text := locale.Text(loc).MissingCrop
		tr.AppendTurn(question, text)
		p.metrics.RecordTurn(nil)
		return compose.Payload{
			Text:      text,
			AudioText: compose.CleanForAudio(text),
		}, nil
	}

	// Fact gathering is independent per source; all must land before
	// the prompt is assembled.
	var (
		wg       sync.WaitGroup
		cropFact *facts.CropFact
		fertFact *facts.FertilizerFact
		rotFact  *facts.RotationFact
		snap     *weather.Snapshot
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		cropFact = p.gateway.Crop(ctx, crop, loc)
	}()
	go func() {
		defer wg.Done()
		fertFact = p.gateway.Fertilizer(ctx, crop)
	}()
	go func() {
		defer wg.Done()
		rotFact = p.gateway.Rotation(ctx, crop)
	}()
	go func() {
		defer wg.Done()
		location := p.locator.Locate(ctx)
		snap = p.weather.Current(ctx, location.String())
	}()
	wg.Wait()

	in := compose.PromptInput{
		Question: question,
		Locale:   loc,
		History:  tr.Messages(),
	}
	if cropFact != nil {
		in.Crop = facts.RenderCrop(cropFact, loc)
	}
	if fertFact != nil {
		in.Fertilizer = fertFact.Advisory
	}
	var rotationText string
	if rotFact != nil && len(rotFact.Steps) > 0 {
		rotationText = facts.RenderRotation(rotFact, loc)
		in.Rotation = rotationText
	}
	if snap != nil {
		in.Weather = weather.RenderText(snap, loc)
	}

	answer, err := p.backend.Generate(ctx, compose.BuildCropPrompt(in, p.prompts.Current()))
	if err != nil {
		p.metrics.RecordTurn(err)
		return compose.Payload{}, fmt.Errorf("answer question: %w", err)
	}
	answer = strings.TrimSpace(answer)

	payload := compose.Payload{
		Text:      answer,
		AudioText: compose.CleanForAudio(answer),
	}
	if snap != nil {
		payload.WeatherCard = compose.WeatherCard(snap)
	}
	if rotationText != "" {
		payload.RotationCard = compose.RotationCard(rotationText)
	}
	tr.AppendTurn(question, answer)
	p.metrics.RecordTurn(nil)
	return payload, nil
}
