package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/nssdoh/nss-doh/internal/dns/common/clock"
	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/services/session"
)

// socketMode makes the socket connectable by any local user; the daemon is a
// system-wide resolution service, not a per-user one.
const socketMode = os.FileMode(0o666)

// UnixTransport accepts connections on a unix domain socket and starts one
// query session per connection. There is no accept queue limit and no
// concurrency cap: every accepted connection gets a session immediately.
type UnixTransport struct {
	path    string
	timeout time.Duration
	ln      net.Listener
	clock   clock.Clock
	logger  log.Logger

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUnixTransport creates a new unix socket transport instance. The timeout
// is the absolute I/O deadline applied to each connection at accept time.
func NewUnixTransport(path string, timeout time.Duration, clk clock.Clock, logger log.Logger) *UnixTransport {
	return &UnixTransport{
		path:    path,
		timeout: timeout,
		clock:   clk,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start binds the unix socket and begins the accept loop. Any stale socket
// file left by a previous run is removed first, and the fresh socket is made
// world-connectable.
func (t *UnixTransport) Start(ctx context.Context, handler session.ConnectionHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("unix transport already running")
	}

	// Stale socket cleanup: a previous unclean shutdown leaves the file
	// behind and would fail the bind.
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket %s: %w", t.path, err)
	}

	ln, err := net.Listen("unix", t.path)
	if err != nil {
		return fmt.Errorf("failed to bind unix socket on %s: %w", t.path, err)
	}

	if err := os.Chmod(t.path, socketMode); err != nil {
		ln.Close()
		return fmt.Errorf("failed to chmod socket %s: %w", t.path, err)
	}

	t.ln = ln
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "unix",
		"path":      t.path,
		"timeout":   t.timeout.String(),
	}, "Resolution transport started")

	// Start the accept loop
	go t.acceptLoop(ctx, handler)

	return nil
}

// Stop shuts down the listener and removes the socket file.
func (t *UnixTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	// Signal stop and close the listener
	close(t.stopCh)

	var closeErr error
	if t.ln != nil {
		closeErr = t.ln.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing unix listener")
		}
	}

	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		t.logger.Warn(map[string]any{
			"path":  t.path,
			"error": err.Error(),
		}, "Error removing socket file")
	}

	t.running = false

	t.logger.Info(map[string]any{
		"transport": "unix",
		"path":      t.path,
	}, "Resolution transport stopped")

	return closeErr
}

// Address returns the filesystem path the transport is bound to.
func (t *UnixTransport) Address() string {
	return t.path
}

// acceptLoop continuously accepts connections and dispatches sessions.
func (t *UnixTransport) acceptLoop(ctx context.Context, handler session.ConnectionHandler) {
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "Unix transport stopping due to context cancellation")
			return
		case <-t.stopCh:
			t.logger.Debug(nil, "Unix transport stopping due to stop signal")
			return
		default:
			conn, err := t.ln.Accept()
			if err != nil {
				// Check if we're shutting down
				t.mu.RLock()
				running := t.running
				t.mu.RUnlock()

				if !running {
					return // Normal shutdown
				}

				t.logger.Warn(map[string]any{
					"error": err.Error(),
				}, "Failed to accept connection")
				continue
			}

			// One fixed deadline per connection, applied once at accept.
			// Exceeding it fails the in-flight read or write, which the
			// session treats like any other I/O error.
			if err := conn.SetDeadline(t.clock.Now().Add(t.timeout)); err != nil {
				t.logger.Warn(map[string]any{
					"error": err.Error(),
				}, "Failed to set connection deadline")
				conn.Close()
				continue
			}

			go handler.HandleConn(ctx, conn)
		}
	}
}

var _ ServerTransport = (*UnixTransport)(nil)
