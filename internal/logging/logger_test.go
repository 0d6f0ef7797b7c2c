package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

func TestNew(t *testing.T) {
	logger, err := New(common.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(common.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(common.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = New(common.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)

	assert.NotNil(t, Must(common.LoggingConfig{Level: "loud"}))
}
