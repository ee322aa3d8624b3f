package embedder

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeds text through the OpenAI embeddings API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI embedding provider for the given model.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}, nil
}

// Embed generates an embedding for a single text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{Provider: "openai", Err: errors.New("cannot embed empty text")}
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(o.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &ProviderError{Provider: "openai", Err: errors.New("no embedding data in response")}
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}
	return vec, nil
}

// ModelName returns the embedding model identifier.
func (o *OpenAI) ModelName() string {
	return o.model
}
