// Package ollama provides completion and embedding backends served by a
// local Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Options configures the ollama clients.
type Options struct {
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// CompletionClient calls the Ollama chat API.  It satisfies the classifier's
// CompletionModel port.
type CompletionClient struct {
	opts   Options
	client *http.Client
	logger logging.Logger
}

// NewCompletionClient builds a chat client.  Empty options get local
// defaults.
func NewCompletionClient(opts Options, logger logging.Logger) *CompletionClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:11434"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CompletionClient{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
	}
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete sends the prompt as a single user message and returns the model's
// reply.  The JSON response format is requested so the verdict parser gets a
// clean object.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.opts.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   "json",
	}
	if c.opts.MaxTokens > 0 {
		reqBody.Options = map[string]interface{}{"num_predict": c.opts.MaxTokens}
	}

	respBody, err := c.post(ctx, "/api/chat", reqBody)
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "parsing ollama chat response")
	}
	return result.Message.Content, nil
}

func (c *CompletionClient) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshaling ollama request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "building ollama request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelUnavailable, "calling ollama")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelUnavailable, "reading ollama response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ollama API error",
			logging.Int("status", resp.StatusCode),
			logging.String("body", string(respBody)))
		return nil, errors.Newf(errors.ErrCodeModelUnavailable,
			"ollama returned status %d", resp.StatusCode)
	}
	return respBody, nil
}
