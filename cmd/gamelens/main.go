package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gamelens/gamelens/internal/cmd"
	"github.com/gamelens/gamelens/internal/observability"
)

// Version information set via ldflags during build
// Example: go build -ldflags="-X main.version=1.0.0 -X main.commit=abc123 -X main.buildDate=2026-01-01"
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		cmd.ExitWithCode(observability.CLILogger, cmd.ExitCodeFor(err), "gamelens failed", err)
	}
}
