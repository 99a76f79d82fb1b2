// internal/server/run.go
//
// Lifecycle glue for errgroup.
//
// Context
//   main() starts the server with eg.Go(server.Run(ctx, srv, timeout)).  When
//   ctx is cancelled (SIGINT, SIGTERM, or a sibling goroutine failing) the
//   server stops accepting, drains in-flight requests for up to the shutdown
//   timeout, and Run returns nil.  A listen failure is returned as-is so the
//   errgroup cancels its siblings.
//
//------------------------------------------------------------------------------

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds the graceful drain.
const DefaultShutdownTimeout = 10 * time.Second

// Run listens on srv.Addr and serves until ctx is done.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) func() error {
	return func() error {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return Serve(ctx, srv, ln, shutdownTimeout)
	}
}

// Serve is Run over an existing listener.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.S().Infow("http server shutting down", "timeout", shutdownTimeout)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-errCh
	zap.S().Info("http server stopped")
	return nil
}
