package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/NicheSignal/pkg/errors"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: `{"classification":"NOT_OPPORTUNITY"}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := NewCompletionClient(Options{BaseURL: srv.URL, Model: "llama3", MaxTokens: 256}, nil)

	out, err := c.Complete(context.Background(), "classify this")
	require.NoError(t, err)

	assert.Equal(t, `{"classification":"NOT_OPPORTUNITY"}`, out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "classify this", got.Messages[0].Content)
	assert.Equal(t, float64(256), got.Options["num_predict"])
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewCompletionClient(Options{BaseURL: srv.URL, Model: "nope"}, nil)
	_, err := c.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelUnavailable))
}

func TestCompleteConnectionRefused(t *testing.T) {
	c := NewCompletionClient(Options{BaseURL: "http://127.0.0.1:1", Model: "llama3"}, nil)
	_, err := c.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelUnavailable))
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1, 0.2, 0.3}}})
	}))
	defer srv.Close()

	e := NewEmbedder(Options{BaseURL: srv.URL, Model: "nomic-embed-text"}, nil)
	vec, err := e.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	e := NewEmbedder(Options{BaseURL: srv.URL, Model: "nomic-embed-text"}, nil)
	_, err := e.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingEmpty))
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewEmbedder(Options{BaseURL: srv.URL}, nil)
	assert.True(t, e.Available(context.Background()))

	down := NewEmbedder(Options{BaseURL: "http://127.0.0.1:1"}, nil)
	assert.False(t, down.Available(context.Background()))
}
