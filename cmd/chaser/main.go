// cmd/chaser/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/chaser-cli/cmd"
)

func main() {
	// Interrupt signals cancel the command context so sessions and the
	// browser process shut down before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			// Graceful shutdown via Ctrl+C is not a failure.
			os.Exit(0)
		}
		os.Exit(1)
	}
}
