package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknown(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.EqualError(t, err, `unknown log level "loud"`)

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.EqualError(t, err, `unknown log format "xml"`)
}
