package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"trace":   "TRACE",
		"debug":   "DEBUG",
		" Info ":  "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
		"":        "INFO",
	}
	for input, want := range cases {
		require.Equal(t, want, parseLogLevel(input), input)
	}
}

func TestNewCLILogger(t *testing.T) {
	logger, err := NewCLILogger("gamelens-test", "warn", false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("suppressed below warn", zap.String("component", "test"))

	logger, err = NewCLILogger("gamelens-test", "error", true)
	require.NoError(t, err)
	logger.Debug("verbose overrides level", zap.Int("lookups", 3))
}

func TestInitCLILogger(t *testing.T) {
	InitCLILogger("gamelens-test", "info", false)
	require.NotNil(t, CLILogger)
}
