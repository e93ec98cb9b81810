package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBuildsForBothModes(t *testing.T) {
	t.Parallel()

	for _, development := range []bool{true, false} {
		logger, err := New(development)
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("logger ready")
		_ = logger.Sync()
	}
}

func TestForSubsystemNamesChild(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	parent := zap.New(core)

	child := ForSubsystem(parent, "robots")
	child.Info("gate ready")

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, "robots", entries[0].LoggerName)
	require.Equal(t, "gate ready", entries[0].Message)
}

func TestForSubsystemNilParent(t *testing.T) {
	t.Parallel()

	logger := ForSubsystem(nil, "fetcher")
	require.NotNil(t, logger)
	logger.Info("discarded")
}
