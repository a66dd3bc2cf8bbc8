package openai

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Embedder calls the Embeddings API.  It satisfies the semantic Embedder
// port.
type Embedder struct {
	client openai.Client
	model  string
}

// NewEmbedder builds an embeddings client.
func NewEmbedder(opts Options) (*Embedder, error) {
	if opts.APIKey == "" {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "openai api key is required")
	}
	if opts.Model == "" {
		opts.Model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Embedder{client: openai.NewClient(reqOpts...), model: opts.Model}, nil
}

// Embed returns the vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEmbeddingFailed, "openai embeddings call failed")
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingEmpty, "openai returned no embedding")
	}

	out := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
