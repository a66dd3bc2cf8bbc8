package errors

import (
	stdliberrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeEmbeddingFailed, "anchor embedding failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeEmbeddingFailed, err.Code)
	assert.Contains(t, err.Error(), "SEM_001")
	assert.Contains(t, err.Error(), "anchor embedding failed")
	assert.NotEmpty(t, err.Stack)
}

func TestErrorFormatIncludesDetail(t *testing.T) {
	err := New(ErrCodeRunNotFound, "scan run not found").WithDetail("run_id=abc")
	assert.Equal(t, "[STORE_004] scan run not found: run_id=abc", err.Error())
}

func TestWrapNilReturnsNil(t *testing.T) {
	var got *AppError = Wrap(nil, ErrCodeDatabaseError, "query failed")
	assert.Nil(t, got)
}

func TestWrapPreservesChain(t *testing.T) {
	root := stdliberrors.New("connection refused")
	wrapped := Wrap(root, ErrCodeDatabaseError, "failed to persist scan run")
	assert.True(t, stdliberrors.Is(wrapped, root))
	assert.Equal(t, ErrCodeDatabaseError, GetCode(wrapped))
}

func TestWrapUnknownCodePreservesOriginal(t *testing.T) {
	inner := New(ErrCodeVerdictMalformed, "not json")
	outer := Wrap(inner, CodeUnknown, "classification failed")
	assert.Equal(t, ErrCodeVerdictMalformed, outer.Code)
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := New(ErrCodeModelUnavailable, "ollama unreachable")
	mid := fmt.Errorf("classify post: %w", inner)
	outer := Wrap(mid, ErrCodeInternal, "pipeline stage failed")

	assert.True(t, IsCode(outer, ErrCodeModelUnavailable))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeCacheError))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stdliberrors.New("plain")))
	assert.Equal(t, ErrCodeSearchFailed, GetCode(New(ErrCodeSearchFailed, "ddg down")))
}

func TestWithDetailOnNil(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("ignored"))
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrCodeRunNotFound.HTTPStatus())
	assert.Equal(t, http.StatusGatewayTimeout, ErrCodeModelTimeout.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("NOPE_999").HTTPStatus())
}
