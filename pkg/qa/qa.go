// Package qa answers questions about the indexed document with
// retrieval-augmented generation.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docrag/docrag/pkg/docrag"
	"github.com/docrag/docrag/pkg/embedder"
)

const systemPrompt = "You are an assistant answering questions about the project document. " +
	"Use only the supplied context. Answer clearly and in detail. " +
	"If the context does not contain the answer, say so instead of inventing one."

// ChatCompleter is the slice of the OpenAI client the engine needs;
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the generation-side settings of the engine.
type Config struct {
	ChatModel string
	TopK      int
	Logger    *zap.Logger
}

// Engine ties the embedding index to a chat model.
type Engine struct {
	index    *docrag.Index
	provider embedder.Provider
	chat     ChatCompleter
	cfg      Config
}

// New creates a question-answering engine over an already built index.
func New(index *docrag.Index, provider embedder.Provider, chat ChatCompleter, cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{index: index, provider: provider, chat: chat, cfg: cfg}
}

// Answer embeds the question, retrieves the closest chunks and asks the
// chat model for an answer grounded in them. Provider failures surface
// to the caller so it can report a "could not answer" outcome.
func (e *Engine) Answer(ctx context.Context, question string) (string, error) {
	queryVec, err := e.provider.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	contexts := e.index.TopK(queryVec, e.cfg.TopK)
	blocks := make([]string, 0, len(contexts))
	for i, res := range contexts {
		blocks = append(blocks, fmt.Sprintf("Context %d (score %.3f):\n%s", i+1, res.Score, res.Text))
	}
	contextText := strings.Join(blocks, "\n\n")
	if contextText == "" {
		contextText = "No matching information was found in the document."
	}

	resp, err := e.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer using the context above.",
					contextText, question),
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	e.cfg.Logger.Debug("answered question", zap.Int("contexts", len(contexts)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
