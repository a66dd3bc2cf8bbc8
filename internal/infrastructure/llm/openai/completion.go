// Package openai provides completion and embedding backends on the OpenAI
// API.
package openai

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// Options configures the OpenAI clients.
type Options struct {
	APIKey    string
	BaseURL   string // optional, for compatible gateways
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// CompletionClient calls the Responses API.  It satisfies the classifier's
// CompletionModel port and makes exactly one API call per Complete.
type CompletionClient struct {
	client openai.Client
	opts   Options
	logger logging.Logger
}

// NewCompletionClient builds a Responses API client.
func NewCompletionClient(opts Options, logger logging.Logger) (*CompletionClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New(errors.ErrCodeModelUnavailable, "openai api key is required")
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 512
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &CompletionClient{
		client: openai.NewClient(reqOpts...),
		opts:   opts,
		logger: logger,
	}, nil
}

// Complete sends the prompt as a single user message and returns the
// response text.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model:           c.opts.Model,
		MaxOutputTokens: openai.Int(int64(c.opts.MaxTokens)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeModelUnavailable, "openai responses call failed")
	}

	text := resp.OutputText()
	if text == "" {
		return "", errors.New(errors.ErrCodeVerdictMalformed, "openai returned empty output")
	}
	return text, nil
}
