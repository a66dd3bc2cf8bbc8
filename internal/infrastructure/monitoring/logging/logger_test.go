package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerDefaults(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("routine event", String("component", "test"))
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "s", Value: 1.5}, Float64("s", 1.5))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, "error", Err(errors.New("boom")).Key)
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestObservedFieldsAndNames(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).Named("pipeline").With(String("industry", "beekeeping"))

	log.Warn("classifier fallback engaged", Float64("confidence", 0.5))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "classifier fallback engaged", entries[0].Message)
	assert.Equal(t, "pipeline", entries[0].LoggerName)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "beekeeping", ctx["industry"])
	assert.Equal(t, 0.5, ctx["confidence"])
}

func TestNopLoggerIsInert(t *testing.T) {
	log := NewNopLogger()
	log.Debug("ignored")
	log.Error("ignored", Err(errors.New("boom")))
	assert.NotNil(t, log.With(String("a", "b")).Named("x"))
}
