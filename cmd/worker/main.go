package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gifted/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build bus and consumer wiring.
// 3) Run the outbox relay and consumers until shutdown.
func main() {
	ctx := context.Background()

	app, err := bootstrap.BuildWorker(ctx)
	if err != nil {
		slog.Error("worker bootstrap failed",
			"event", "worker_bootstrap_failed",
			"module", "cmd/worker",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped",
			"event", "worker_stopped",
			"module", "cmd/worker",
			"layer", "platform",
			"error", err.Error(),
		)
		os.Exit(1)
	}
}
