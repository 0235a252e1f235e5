// Package probe implements the client side of a served mount: it connects
// to a socket.io endpoint and waits for a single event, which makes it a
// cheap smoke test for a running server.
package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/sockmount/sockmount/internal/ctxlog"
)

// DefaultTimeout bounds a probe run when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Options configures one probe run.
type Options struct {
	// URL of the socket.io endpoint: scheme, host and optional path.
	URL string
	// Namespace to join. Empty means the root namespace.
	Namespace string
	// Event to wait for after connecting.
	Event string
	// Timeout bounds the whole run, connection included.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
}

// result passes the outcome through the done channel.
type result struct {
	payload any
	err     error
}

// Run connects to the endpoint, waits for the configured event and returns
// its first payload argument.
func Run(ctx context.Context, opts Options) (any, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "event", opts.Event)
	logger.Debug("Probe started.")
	defer logger.Debug("Probe finished.")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var isConnected atomic.Bool
	done := make(chan result, 1)

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sioOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sioOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sioOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sioOpts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}

	manager := socket.NewManager(baseURL, sioOpts)
	io := manager.Socket(namespace, sioOpts)
	defer func() {
		logger.Debug("Disconnecting probe client.")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Probe connected.", "namespace", namespace, "sid", io.Id())
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			done <- result{err: err}
			return
		}
		done <- result{err: fmt.Errorf("connect error: %v", errs[0])}
	})

	io.On(types.EventName(opts.Event), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		done <- result{payload: payload}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event %q", opts.Event)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.payload, res.err
	}
}
