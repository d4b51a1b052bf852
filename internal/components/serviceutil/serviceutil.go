package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Returns a context that will live until Ctrl+C is pressed (or SIGTERM is
// received).
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		slog.Warn("received signal, stopping", "signal", sig.String())
		cancel()
	}()

	return ctx
}

// Fatal logs the error and exits with status 1.
func Fatal(message string, err error) {
	if err == nil {
		slog.Error(message)
	} else {
		slog.Error(message, "err", err.Error())
	}
	os.Exit(1)
}
