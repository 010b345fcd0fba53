package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, err := New(env, Options{})
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_UnknownEnvironment(t *testing.T) {
	_, err := New("staging", Options{})
	assert.ErrorContains(t, err, "unknown environment")
}

func TestNew_LevelOverride(t *testing.T) {
	l, err := New("prod", Options{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New("prod", Options{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New("prod", Options{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New("prod", Options{Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNew_FormatOverride(t *testing.T) {
	_, err := New("local", Options{Format: FormatJSON})
	require.NoError(t, err)
	_, err = New("prod", Options{Format: FormatConsole})
	require.NoError(t, err)
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = WithFields(ctx, zap.String("owner_id", "alice"))
	FromContext(ctx).Info("search")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].ContextMap()["owner_id"])
}
