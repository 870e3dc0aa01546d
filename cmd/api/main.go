package main

import (
	"context"
	"log/slog"
	"os"

	"gifted/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	ctx := context.Background()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		slog.Error("api bootstrap failed",
			"event", "api_bootstrap_failed",
			"module", "cmd/api",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		slog.Error("api server stopped",
			"event", "api_server_stopped",
			"module", "cmd/api",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}
}
