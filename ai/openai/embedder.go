package openai

import (
	"context"
	"log/slog"

	"github.com/sirenic/firmatch/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder produces dense vectors for activity labels and user queries
// through any OpenAI-compatible embeddings endpoint (Ollama, vLLM, OpenAI).
type Embedder struct {
	backend embeddings.Embedder
	logger  *slog.Logger
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Newlines degrade embedding quality on most models.
	backend, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		backend: backend,
		logger:  slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder builds an embedder from the configuration and returns it
// behind the ai.Embedder interface.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds a single string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedding endpoint returned no vectors", "length", len(text))
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts embeds a batch of strings in a single API call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("embedding batch", "count", len(texts))

	vectors, err := e.backend.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("embedding request failed", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
