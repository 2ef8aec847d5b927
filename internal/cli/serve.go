package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/statewrap/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

// RunServe exposes the engine over HTTP until ctx is cancelled, then shuts down gracefully.
func RunServe(ctx context.Context, opts Options, addr string, out io.Writer) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := httpAdapter.NewHandler(a.Engine,
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithMetrics(a.Metrics),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Starting statewrap server on %s", srv.Addr)
		printSystemMessage(out, "Serving descriptions from: %s", opts.Dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(out, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	}
}
