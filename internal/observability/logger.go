package observability

import (
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
)

// CLILogger is used by every command (SIMPLE profile, stderr).
var CLILogger *logging.Logger

// NewCLILogger builds a SIMPLE-profile logger writing to stderr so stdout
// carries only the report. verbose forces DEBUG regardless of level.
func NewCLILogger(serviceName, level string, verbose bool) (*logging.Logger, error) {
	if verbose {
		level = "debug"
	}

	config := &logging.LoggerConfig{
		Profile:      logging.ProfileSimple,
		DefaultLevel: parseLogLevel(level),
		Service:      serviceName,
		Environment:  "cli",
		Sinks: []logging.SinkConfig{
			{
				Type:   "console",
				Format: "console",
				Console: &logging.ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
	}
	return logging.New(config)
}

// InitCLILogger initializes CLILogger, exiting when the logger cannot be built.
func InitCLILogger(serviceName, level string, verbose bool) {
	logger, err := NewCLILogger(serviceName, level, verbose)
	if err != nil {
		exitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize CLI logger", err)
	}
	CLILogger = logger
}

// parseLogLevel converts string log level to logging severity string
func parseLogLevel(levelStr string) string {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return "TRACE"
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// exitWithCodeStderr exits with a semantic exit code, writing to stderr.
// Used only before CLILogger is available.
func exitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		os.Exit(int(exitCode))
	}

	fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	os.Exit(info.Code)
}
