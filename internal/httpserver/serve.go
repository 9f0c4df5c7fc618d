package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/andrebq/blogd/internal/logutil"
)

const (
	shutdownGracePeriod = time.Minute
)

// Serve runs handler on bind until ctx is cancelled. Request contexts
// carry the values of ctx (its logger included) but not its cancellation,
// in-flight requests are drained on shutdown.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute * 5,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}
	return serve(ctx, &server, server.ListenAndServe)
}

// serve runs listen until ctx is done and then shuts server down. An error
// from listen is reported even when the shutdown itself succeeded.
func serve(ctx context.Context, server *http.Server, listen func() error) error {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", server.Addr).Logger()
	firstErr := make(chan error, 1)
	go func() {
		defer close(firstErr)
		log.Info().Msg("Starting HTTP server")
		err := listen()
		if errors.Is(err, http.ErrServerClosed) {
			// shutdown called,
			// ignore the error
			log.Info().Msg("Server closed")
			return
		}
		firstErr <- err
	}()
	select {
	case err := <-firstErr:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if lerr := <-firstErr; err == nil {
		err = lerr
	}
	log.Info().Msg("Shutdown completed")
	return err
}
