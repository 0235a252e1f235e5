package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/internal/ctxlog"
	"github.com/sockmount/sockmount/internal/probe"
	sioserver "github.com/sockmount/sockmount/servers/socketio"
)

// shutdownTimeout bounds graceful shutdown of the socket server.
const shutdownTimeout = 5 * time.Second

// Run executes the application in the configured mode. Serve mode blocks
// until the server fails or ctx is cancelled; probe mode blocks until the
// probe completes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	switch a.config.Mode {
	case ModeProbe:
		return a.runProbe(ctx)
	default:
		return a.runServe(ctx)
	}
}

func (a *App) runProbe(ctx context.Context) error {
	payload, err := probe.Run(ctx, probe.Options{
		URL:                a.config.URL,
		Namespace:          a.config.Namespace,
		Event:              a.config.Event,
		Timeout:            a.config.Timeout,
		InsecureSkipVerify: a.config.Insecure,
	})
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	a.logger.Info("🛰️ Probe succeeded.", "event", a.config.Event)
	fmt.Fprintf(a.outW, "received event %q: %v\n", a.config.Event, payload)
	return nil
}

func (a *App) runServe(ctx context.Context) error {
	a.startHealthcheckServer()
	defer func() { _ = a.closeHealthcheckServer() }()

	io := socket.NewServer(nil, nil)
	defer io.Close(nil)

	binder := sockmount.New(a.registry, a.binderOptions()...)
	for _, dir := range a.config.Mounts {
		binder.Scan(dir)
	}
	// Handlers receive the configured extras plus the app logger as the
	// final extra argument.
	binder.Args(a.config.Extras...).Args(a.logger)
	binder.Bind(sioserver.Wrap(io))
	if err := binder.Err(); err != nil {
		return fmt.Errorf("failed to mount handlers: %w", err)
	}
	a.logger.Info("Handlers mounted.",
		"dirs", strings.Join(a.config.Mounts, ", "),
		"files", len(binder.Files()),
	)

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	server := &http.Server{Addr: a.config.Addr, Handler: mux}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 Socket server listening.", "addr", a.config.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down socket server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("socket server shutdown failed: %w", err)
		}
		return <-serveErr
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("socket server failed: %w", err)
		}
		return nil
	}
}

func (a *App) binderOptions() []sockmount.Option {
	opts := []sockmount.Option{
		sockmount.WithLogger(a.logger),
		sockmount.WithVerbose(a.config.Verbose),
		sockmount.WithContinueOnError(a.config.ContinueOnError),
	}
	if a.config.Root != "" {
		opts = append(opts, sockmount.WithRoot(a.config.Root))
	}
	return opts
}
