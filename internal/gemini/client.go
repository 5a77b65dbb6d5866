package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model override is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator produces free text for a prompt. The pipeline and the crop
// resolver both speak to Gemini through this interface so tests can
// substitute a canned backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls the Gemini API. A client built without an API key stays
// usable; every call reports the missing credential instead of the
// process refusing to start.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client. An empty apiKey yields a degraded client
// whose Generate always errors.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &Client{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Ready reports whether the client holds a usable credential.
func (c *Client) Ready() bool { return c.client != nil }

// Generate sends prompt to the configured model and returns the
// response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("GEMINI_API_KEY not set")
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned empty response")
	}
	return text, nil
}
