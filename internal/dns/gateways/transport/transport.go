// Package transport provides the listening side of the local resolution
// socket. It owns socket lifecycle (stale file cleanup, permissions,
// removal on stop) and connection acceptance, and hands every accepted
// connection to the service layer untouched.
package transport

import (
	"context"

	"github.com/nssdoh/nss-doh/internal/dns/services/session"
)

// ServerTransport defines the interface for listener implementations.
// The unix socket listener is the only one the daemon ships; the interface
// keeps the runner wiring independent of the listener kind.
type ServerTransport interface {
	// Start begins accepting connections and dispatching them to the handler.
	// The transport applies the per-connection I/O deadline before dispatch.
	Start(ctx context.Context, handler session.ConnectionHandler) error

	// Stop shuts down the listener and removes the socket file. Connections
	// already dispatched are not drained; their sessions release themselves.
	Stop() error

	// Address returns the filesystem path the transport is bound to.
	Address() string
}
