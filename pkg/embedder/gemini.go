package embedder

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// Gemini embeds text through the Gemini embeddings API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini embedding provider for the given model,
// e.g. "gemini-embedding-001".
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model}, nil
}

// Embed generates an embedding for a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		nil,
	)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, &ProviderError{Provider: "gemini", Err: errors.New("no embedding values in response")}
	}
	return resp.Embeddings[0].Values, nil
}

// ModelName returns the embedding model identifier.
func (g *Gemini) ModelName() string {
	return g.model
}
