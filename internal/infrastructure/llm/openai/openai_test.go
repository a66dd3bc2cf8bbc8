package openai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/pkg/errors"
)

func TestNewCompletionClientRequiresAPIKey(t *testing.T) {
	_, err := NewCompletionClient(Options{}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelUnavailable, errors.GetCode(err))
}

func TestNewCompletionClientDefaults(t *testing.T) {
	c, err := NewCompletionClient(Options{APIKey: "sk-test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.opts.Model)
	assert.Equal(t, 60*time.Second, c.opts.Timeout)
	assert.Equal(t, 512, c.opts.MaxTokens)
	assert.NotNil(t, c.logger)
}

func TestNewEmbedderRequiresAPIKey(t *testing.T) {
	_, err := NewEmbedder(Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEmbeddingFailed, errors.GetCode(err))
}

func TestNewEmbedderDefaultModel(t *testing.T) {
	e, err := NewEmbedder(Options{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", e.model)
}
