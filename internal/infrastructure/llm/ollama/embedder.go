package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Embedder calls the Ollama embed API.  It satisfies the semantic Embedder
// port.
type Embedder struct {
	inner *CompletionClient
}

// NewEmbedder builds an embedding client.  The model should be an embedding
// model such as nomic-embed-text.
func NewEmbedder(opts Options, logger logging.Logger) *Embedder {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Embedder{inner: NewCompletionClient(opts, logger)}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	respBody, err := e.inner.post(ctx, "/api/embed", embedRequest{
		Model: e.inner.opts.Model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	var result embedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "parsing ollama embed response")
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingEmpty, "ollama returned no embedding")
	}
	return result.Embeddings[0], nil
}

// Available reports whether the Ollama server answers on /api/tags.
func (e *Embedder) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.inner.opts.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := e.inner.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
